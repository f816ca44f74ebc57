package model

import (
	"sort"
	"time"
)

// CrawlReport is the result of one crawl run, ready to be written out.
type CrawlReport struct {
	// BaseURL is the address the crawl started from.
	BaseURL string `json:"base_url"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is how long the crawl took.
	Elapsed time.Duration `json:"elapsed"`

	// MaxConcurrency is the fetch concurrency budget used.
	MaxConcurrency int `json:"max_concurrency"`

	// MaxPages is the page budget used.
	MaxPages int `json:"max_pages"`

	// Fetched is the number of pages fetched successfully.
	Fetched int `json:"fetched"`

	// Failed is the number of admitted pages that could not be fetched.
	Failed int `json:"failed"`

	// BudgetExhausted reports whether the page budget stopped the crawl.
	BudgetExhausted bool `json:"budget_exhausted"`

	// Interrupted reports whether the crawl was cut short by a signal or timeout.
	Interrupted bool `json:"interrupted"`

	// Visits maps each canonical URL to the number of times it was reached.
	Visits map[string]int `json:"visits"`

	// Pages holds per-page summaries when page data collection is enabled.
	Pages []PageData `json:"pages,omitempty"`
}

// NewCrawlReport creates an empty report for baseURL.
func NewCrawlReport(baseURL string) *CrawlReport {
	return &CrawlReport{
		BaseURL:   baseURL,
		StartedAt: time.Now(),
		Visits:    make(map[string]int),
	}
}

// Visit is one entry of CrawlReport.Visits.
type Visit struct {
	URL   string
	Count int
}

// SortedVisits returns the visits ordered by URL.
func (r *CrawlReport) SortedVisits() []Visit {
	visits := make([]Visit, 0, len(r.Visits))
	for u, n := range r.Visits {
		visits = append(visits, Visit{URL: u, Count: n})
	}
	sort.Slice(visits, func(i, j int) bool {
		return visits[i].URL < visits[j].URL
	})
	return visits
}

// TotalVisits returns the sum of all visit counts.
func (r *CrawlReport) TotalVisits() int {
	total := 0
	for _, n := range r.Visits {
		total += n
	}
	return total
}

// SortPages orders Pages by URL. Pages are collected concurrently, so their
// arrival order is not stable.
func (r *CrawlReport) SortPages() {
	sort.Slice(r.Pages, func(i, j int) bool {
		return r.Pages[i].URL < r.Pages[j].URL
	})
}
