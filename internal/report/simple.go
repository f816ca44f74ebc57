package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
)

// SimpleWriter outputs one "<url>: <count>" line per visited page, sorted by
// URL, so the output can be piped into other tools.
type SimpleWriter struct {
	baseWriter

	// summary appends a totals line after the visits.
	summary bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummary appends a line with page and visit totals.
func WithSummary(summary bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summary = summary
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the visits in plain text.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	for _, v := range report.SortedVisits() {
		sb.WriteString(fmt.Sprintf("%s: %d\n", v.URL, v.Count))
	}

	if w.summary {
		sb.WriteString(fmt.Sprintf("\n%d pages, %d visits, %d fetched, %d failed in %s",
			len(report.Visits), report.TotalVisits(), report.Fetched, report.Failed,
			report.Elapsed.Round(time.Millisecond)))
		switch {
		case report.Interrupted:
			sb.WriteString(" (interrupted)")
		case report.BudgetExhausted:
			sb.WriteString(" (page budget exhausted)")
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}
