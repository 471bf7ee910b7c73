package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer a question from the chunks already stored",
	Long: `The ask command retrieves the chunks most similar to the query from the
collection and asks the generation model to answer using only them. The query
is taken from the arguments, --query, or the RAG_QUERY setting.`,
	RunE: RunAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("query", "q", "", "question to ask")
	askCmd.Flags().IntP("top-k", "k", 0, "number of chunks used as context")
	askCmd.Flags().Bool("sources", false, "print the retrieved chunks as JSON after the answer")
}

func RunAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		query = stringFlag(cmd, "query", "query")
	}

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	answer, err := svc.Ask(ctx, query, intFlag(cmd, "top-k", "retrieval.top_k"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer.Response)

	if sources, _ := cmd.Flags().GetBool("sources"); sources {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(answer.Sources)
	}
	return nil
}
