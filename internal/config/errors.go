package config

import "errors"

// Configuration validation errors.
// They are returned by Validate and by the argument parsing helpers, so
// callers can use errors.Is to tell them apart.
var (
	// ErrNoBaseURL is returned when no base URL is given.
	ErrNoBaseURL = errors.New("no base URL provided")

	// ErrArgumentCount is returned when the positional arguments are neither
	// a base URL alone nor a base URL followed by max concurrency and max pages.
	ErrArgumentCount = errors.New("wrong number of arguments: expected <baseURL> [maxConcurrency maxPages]")

	// ErrInvalidMaxConcurrency is returned when max concurrency is not a positive whole number.
	ErrInvalidMaxConcurrency = errors.New("invalid max concurrency: must be a positive whole number")

	// ErrInvalidMaxPages is returned when max pages is not a positive whole number.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be a positive whole number")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlTimeout is returned when the crawl timeout is negative.
	// Use 0 for no overall deadline.
	ErrInvalidCrawlTimeout = errors.New("invalid crawl timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
