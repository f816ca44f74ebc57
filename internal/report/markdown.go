package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/nao1215/sitecrawl/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeVisits(md, report)
	w.writePages(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the crawl parameters and the outcome.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Base URL", "`" + report.BaseURL + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Max Concurrency", strconv.Itoa(report.MaxConcurrency)},
			{"Max Pages", strconv.Itoa(report.MaxPages)},
			{"Pages", strconv.Itoa(len(report.Visits))},
			{"Fetched", strconv.Itoa(report.Fetched)},
			{"Failed", strconv.Itoa(report.Failed)},
		},
	})
	md.PlainText("")

	switch {
	case report.Interrupted:
		md.Warningf("Crawl interrupted before completion. %d page(s) recorded.", len(report.Visits))
	case report.BudgetExhausted:
		md.Note(fmt.Sprintf("Page budget of %d exhausted; remaining links were not followed.", report.MaxPages))
	default:
		md.Tip("Crawl completed within budget.")
	}
	md.PlainText("")
}

// writeVisits writes the visit count table.
func (w *MarkdownWriter) writeVisits(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Visits")
	md.PlainText("")

	visits := report.SortedVisits()
	if len(visits) == 0 {
		md.PlainText("No pages visited.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(visits))
	for i, v := range visits {
		rows[i] = []string{v.URL, strconv.Itoa(v.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Visits"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes page summaries when they were collected.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.Pages) == 0 {
		return
	}

	md.H2("Pages")
	md.PlainText("")

	rows := make([][]string, len(report.Pages))
	for i, p := range report.Pages {
		rows[i] = []string{
			p.URL,
			orDash(truncateString(p.H1, 40)),
			orDash(truncateString(p.FirstParagraph, 60)),
			strconv.Itoa(len(p.OutgoingLinks)),
			strconv.Itoa(len(p.ImageURLs)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "H1", "First Paragraph", "Links", "Images"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitecrawl](https://github.com/nao1215/sitecrawl)*")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
