package rag

import (
	"strings"
)

// DefaultQuery is used when no query is supplied.
const DefaultQuery = "Your query (Ex: What can you tell me about 'X' topic?)"

const promptInstruction = " \n\n To answer, use only this information "

const promptGuard = ". If you don't know the answer just say it, do not try to make up an answer."

// BuildContext joins the retrieved chunk texts with newlines, most similar first.
func BuildContext(results []SearchResult) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Content
	}
	return strings.Join(texts, "\n")
}

// BuildPrompt composes the grounded prompt sent to the generation model.
func BuildPrompt(query string, results []SearchResult) string {
	var b strings.Builder
	b.WriteString(query)
	b.WriteString(promptInstruction)
	b.WriteString(BuildContext(results))
	b.WriteString(promptGuard)
	return b.String()
}
