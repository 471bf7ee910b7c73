package unstructured

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"localrag/src/core/rag"
	"localrag/src/fsutil"
	"localrag/src/log"
)

const partitionPath = "/general/v0/general"

// Client talks to an Unstructured API server
type Client struct {
	baseURL string
	client  *http.Client
}

type Element struct {
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	ElementID string   `json:"element_id"`
	Metadata  Metadata `json:"metadata"`
}

type Metadata struct {
	Filename   string `json:"filename,omitempty"`
	Filetype   string `json:"filetype,omitempty"`
	PageNumber int    `json:"page_number,omitempty"`
}

func NewClient(baseURL string, c *http.Client) *Client {
	if c == nil {
		c = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  c,
	}
}

// Partition sends a document to the partition endpoint and returns its
// elements in reading order. No server-side chunking is requested.
func (c *Client) Partition(ctx context.Context, filename string, content []byte) ([]Element, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("files", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := mw.WriteField("strategy", "fast"); err != nil {
		return nil, fmt.Errorf("failed to write strategy: %w", err)
	}
	if err := mw.WriteField("output_format", "application/json"); err != nil {
		return nil, fmt.Errorf("failed to write output format: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+partitionPath, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error(nil, "Partition request failed", "status", resp.Status, "response", string(msg))
		return nil, fmt.Errorf("partition service error: %s", resp.Status)
	}

	var elements []Element
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return elements, nil
}

// Loader is a rag.Loader that extracts text through the Unstructured API
// instead of parsing the PDF locally.
type Loader struct {
	client     *Client
	fs         fsutil.FileStore
	splitPages bool
}

func NewLoader(client *Client, fs fsutil.FileStore, splitPages bool) *Loader {
	return &Loader{client: client, fs: fs, splitPages: splitPages}
}

func (l *Loader) Load(ctx context.Context, path string) ([]rag.Document, error) {
	data, err := l.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, &rag.LoadError{Path: path, Err: err}
	}

	elements, err := l.client.Partition(ctx, filepath.Base(path), data)
	if err != nil {
		return nil, &rag.LoadError{Path: path, Err: err}
	}

	docs := ElementsToDocuments(path, elements, l.splitPages)
	if len(docs) == 0 {
		return nil, &rag.LoadError{Path: path, Err: rag.ErrEmptyDocument}
	}
	return docs, nil
}

// ElementsToDocuments groups element texts by page. Elements without a page
// number are attributed to the page of the element before them.
func ElementsToDocuments(path string, elements []Element, splitPages bool) []rag.Document {
	byPage := make(map[int][]string)
	page := 1
	for _, e := range elements {
		if e.Metadata.PageNumber > 0 {
			page = e.Metadata.PageNumber
		}
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		byPage[page] = append(byPage[page], e.Text)
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	total := 0
	if len(pages) > 0 {
		total = pages[len(pages)-1]
	}

	if !splitPages {
		if len(pages) == 0 {
			return nil
		}
		texts := make([]string, 0, len(pages))
		for _, p := range pages {
			texts = append(texts, strings.Join(byPage[p], "\n"))
		}
		return []rag.Document{{
			Name:    path,
			Pages:   total,
			Content: strings.Join(texts, rag.PageSeparator),
		}}
	}

	docs := make([]rag.Document, 0, len(pages))
	for _, p := range pages {
		docs = append(docs, rag.Document{
			Name:    path,
			Page:    p,
			Pages:   total,
			Content: strings.Join(byPage[p], "\n"),
		})
	}
	return docs
}

var _ rag.Loader = (*Loader)(nil)
