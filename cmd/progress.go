package cmd

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"localrag/src/core/rag"
	"localrag/src/log"
)

const (
	progressLines = "lines"
	progressBar   = "bar"
)

// progressReporter renders ingest progress either as one
// "Processing i of N chunks (p%)" line per chunk or as a progress bar.
type progressReporter struct {
	style string
	out   io.Writer
	bar   *progressbar.ProgressBar
}

func newProgressReporter(style string, out io.Writer) (*progressReporter, error) {
	switch style {
	case "", progressLines:
		style = progressLines
	case progressBar:
	default:
		return nil, fmt.Errorf("unknown progress style %q", style)
	}
	return &progressReporter{style: style, out: out}, nil
}

func (r *progressReporter) Report(p rag.Progress) {
	if r.style == progressLines {
		fmt.Fprintln(r.out, p.String())
		return
	}

	// The total is only known once the first chunk is stored.
	if r.bar == nil {
		r.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription("Processing chunks"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(r.out)
			}),
		)
	}
	if err := r.bar.Set(p.Done); err != nil {
		log.Debug("Progress bar update failed", "error", err)
	}
}
