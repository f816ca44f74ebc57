// Package model defines the data structures shared by the crawler, the
// extractor and the report writers.
//
//   - PageData: summary of one fetched page
//   - CrawlReport: visit counts and run metadata for one crawl
//
// The models serialize to JSON for the --json report.
package model
