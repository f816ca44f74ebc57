package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMaxConcurrency is the number of page fetches allowed in flight.
	// Five keeps small sites responsive without hammering them.
	DefaultMaxConcurrency = 5

	// DefaultMaxPages is the maximum number of distinct pages admitted per crawl.
	// This prevents runaway crawling on large or infinitely-generating sites.
	DefaultMaxPages = 100

	// DefaultTimeout bounds each HTTP request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlTimeout of zero means the crawl as a whole has no deadline.
	DefaultCrawlTimeout time.Duration = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "sitecrawl"

	// DefaultUserAgent identifies sitecrawl in HTTP requests so that site
	// operators can recognize crawler traffic in their logs.
	DefaultUserAgent = "sitecrawl/1.0 (+https://github.com/nao1215/sitecrawl)"

	// DefaultMaxBodySize limits how much of each response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for a crawl.
// It is populated from CLI arguments and flags and passed down explicitly
// rather than kept in global state.
type Config struct {
	// BaseURL is the absolute address the crawl starts from.
	// Only pages on the same hostname are followed.
	BaseURL string

	// MaxConcurrency is the maximum number of fetches in flight at once.
	MaxConcurrency int

	// MaxPages is the maximum number of distinct pages admitted.
	MaxPages int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CrawlTimeout bounds the whole crawl. Zero disables the bound.
	CrawlTimeout time.Duration

	// Verbose enables debug log output.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the site configuration file given with --config.
	// If empty, the default locations are searched.
	ConfigFilePath string

	// SiteConfigs holds per-host settings loaded from the configuration file.
	SiteConfigs *File

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// JSONReport writes the report as JSON. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the report as Markdown. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output path for the report. Empty means stdout.
	ReportFile string

	// CollectPages records a summary (h1, first paragraph, links, images) of
	// every fetched page in the report.
	CollectPages bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxConcurrency: DefaultMaxConcurrency,
		MaxPages:       DefaultMaxPages,
		Timeout:        DefaultTimeout,
		CrawlTimeout:   DefaultCrawlTimeout,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for sitecrawl.
// On Linux: ~/.config/sitecrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}

	if c.MaxConcurrency <= 0 {
		return ErrInvalidMaxConcurrency
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlTimeout < 0 {
		return ErrInvalidCrawlTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
