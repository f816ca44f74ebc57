// Package report writes crawl results.
//
//   - SimpleWriter: one "<url>: <count>" line per page
//   - JSONWriter: the full CrawlReport as JSON
//   - MarkdownWriter: tables for sharing in issues or wikis
//
// Writers implement the Writer interface and can be combined with MultiWriter.
package report
