package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/extract"
	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/report"
	"github.com/nao1215/sitecrawl/internal/transport"
)

// runCrawl crawls cfg.BaseURL and writes the report.
// Progress messages go to out, or to errOut when out carries a JSON report.
func runCrawl(ctx context.Context, cfg *config.Config, out, errOut io.Writer, logger *slog.Logger) error {
	host, err := crawler.Hostname(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	siteConfig := getSiteConfig(cfg, host)

	if cfg.ProxyAddress != "" {
		if status := transport.CheckProxy(ctx, cfg.ProxyAddress); status != transport.ProxyStatusOK {
			return fmt.Errorf("proxy check failed: %w (make sure a SOCKS5 proxy is running at %s)",
				status.Error(), cfg.ProxyAddress)
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
	}

	client, err := transport.NewHTTPClient(transport.Options{
		Host:         host,
		ProxyAddress: cfg.ProxyAddress,
		Timeout:      cfg.Timeout,
		Cookie:       siteConfig.Cookie,
		Headers:      siteConfig.Headers,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" && cfg.UserAgent == config.DefaultUserAgent {
		userAgent = siteConfig.UserAgent
	}

	fetcher := crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(userAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithFetcherLogger(logger),
	)
	extractor := extract.New()

	crawlReport := model.NewCrawlReport(cfg.BaseURL)
	crawlReport.MaxConcurrency = cfg.MaxConcurrency
	crawlReport.MaxPages = cfg.MaxPages

	opts := []crawler.Option{
		crawler.WithMaxConcurrency(cfg.MaxConcurrency),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithLogger(logger),
	}
	if cfg.CollectPages {
		opts = append(opts, crawler.WithPageHandler(collectPages(crawlReport, extractor, logger)))
	}
	c := crawler.New(fetcher, extractor, opts...)

	progress := out
	if cfg.JSONReport && cfg.ReportFile == "" {
		progress = errOut
	}
	fmt.Fprintf(progress, "Starting crawl at %s\n", cfg.BaseURL)

	result := c.Crawl(ctx, cfg.BaseURL)

	crawlReport.Elapsed = result.Elapsed
	crawlReport.Visits = result.Visits
	crawlReport.Fetched = result.Fetched
	crawlReport.Failed = result.Failed
	crawlReport.BudgetExhausted = result.BudgetExhausted
	crawlReport.Interrupted = result.Interrupted
	crawlReport.SortPages()

	if result.Interrupted {
		fmt.Fprintf(errOut, "Crawl interrupted after %s; reporting partial results\n",
			result.Elapsed.Round(time.Millisecond))
	}

	return outputReport(cfg, crawlReport, out)
}

// getSiteConfig returns the site file settings for host.
func getSiteConfig(cfg *config.Config, host string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}
	return cfg.SiteConfigs.SiteConfig(host)
}

// collectPages returns a page handler that adds a summary of every fetched
// page to crawlReport. The handler is called concurrently.
func collectPages(crawlReport *model.CrawlReport, extractor *extract.Extractor, logger *slog.Logger) crawler.PageHandler {
	var mu sync.Mutex
	return func(pageURL string, body []byte) {
		page, err := extractor.ExtractPageData(body, pageURL)
		if err != nil {
			logger.Debug("failed to extract page data", "url", pageURL, "error", err)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		crawlReport.Pages = append(crawlReport.Pages, *page)
	}
}

// outputReport writes the crawl report in the requested format to
// cfg.ReportFile, or to stdout when no file is set. When writing to a file,
// the plain visit list and a summary line are also printed to stdout.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		return writeReport(formatWriter(cfg, stdout), crawlReport)
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain session-protected URLs; keep them owner-readable.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return writeReport(report.NewMultiWriter(
		formatWriter(cfg, f),
		report.NewSimpleWriter(stdout, report.WithSummary(true)),
	), crawlReport)
}

// formatWriter returns the report writer selected by the format flags.
func formatWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithSummary(cfg.Verbose))
	}
}

func writeReport(w report.Writer, crawlReport *model.CrawlReport) error {
	if _, err := w.Write(crawlReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
