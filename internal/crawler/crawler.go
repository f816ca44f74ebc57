package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default crawl budgets.
const (
	DefaultMaxConcurrency = 5
	DefaultMaxPages       = 100
)

// ErrBudgetExceeded is the cancellation cause recorded when the page budget
// runs out. It is never returned from Crawl.
var ErrBudgetExceeded = errors.New("page budget exceeded")

// LinkExtractor returns the absolute outgoing links of an HTML document.
// Relative links are resolved against baseURL. The result may contain
// duplicates and links to other hosts.
type LinkExtractor interface {
	ExtractLinks(body []byte, baseURL string) ([]string, error)
}

// PageHandler receives every successfully fetched page. It is called
// concurrently from crawl goroutines and must be safe for that.
type PageHandler func(canonicalURL string, body []byte)

// Crawler walks a single website starting from a base URL.
//
// A Crawler only holds configuration. Each call to Crawl builds its own
// registry, limiter and cancellation signal, so one Crawler may run several
// crawls, sequentially or in parallel.
type Crawler struct {
	fetcher        Fetcher
	extractor      LinkExtractor
	maxConcurrency int
	maxPages       int
	onPage         PageHandler
	logger         *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxConcurrency sets how many fetches may be outstanding at once.
// Values below 1 are ignored.
func WithMaxConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxConcurrency = n
		}
	}
}

// WithMaxPages sets how many distinct pages may be admitted.
// Values below 1 are ignored.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithLogger sets the logger used for crawl diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithPageHandler registers a callback for every fetched page.
func WithPageHandler(h PageHandler) Option {
	return func(c *Crawler) {
		c.onPage = h
	}
}

// New creates a Crawler that fetches with f and discovers links with e.
func New(f Fetcher, e LinkExtractor, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:        f,
		extractor:      e,
		maxConcurrency: DefaultMaxConcurrency,
		maxPages:       DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Result is the outcome of one crawl run.
type Result struct {
	// BaseURL is the address the crawl started from.
	BaseURL string

	// Visits maps each admitted canonical URL to the number of times it was reached.
	Visits map[string]int

	// Fetched is the number of pages fetched successfully.
	Fetched int

	// Failed is the number of admitted pages whose fetch failed.
	Failed int

	// BudgetExhausted reports whether the page budget stopped the crawl.
	BudgetExhausted bool

	// Interrupted reports whether the caller's context ended the crawl early.
	Interrupted bool

	// Elapsed is the wall-clock duration of the crawl.
	Elapsed time.Duration
}

// Crawl visits every same-host page reachable from baseURL, within the page
// and concurrency budgets, and returns the visit counts.
//
// Crawl never fails as a whole. Failures of individual branches (bad links,
// other hosts, fetch errors, duplicates, budget rejections) end that branch
// only; an unparsable baseURL ends the root branch and yields an empty result.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) *Result {
	base, err := parseAbsolute(baseURL)
	if err != nil {
		c.logger.Warn("skipping unparsable base URL", "baseURL", baseURL, "error", err)
		return &Result{BaseURL: baseURL, Visits: map[string]int{}}
	}

	parent := ctx
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	r := &run{
		Crawler:  c,
		ctx:      ctx,
		baseURL:  baseURL,
		baseHost: base.Hostname(),
		limiter:  NewLimiter(c.maxConcurrency),
		registry: NewRegistry(c.maxPages, func() { cancel(ErrBudgetExceeded) }),
	}

	c.logger.Info("crawl started",
		"baseURL", baseURL,
		"maxConcurrency", c.maxConcurrency,
		"maxPages", c.maxPages,
	)
	start := time.Now()

	var root errgroup.Group
	r.spawn(&root, baseURL)
	_ = root.Wait() //nolint:errcheck // crawl units never return errors

	// Every unit is also tracked outside the join tree; drain it so no
	// straggler outlives Crawl.
	r.outstanding.Wait()

	result := &Result{
		BaseURL:         baseURL,
		Visits:          r.registry.Visits(),
		Fetched:         int(r.fetched.Load()),
		Failed:          int(r.failed.Load()),
		BudgetExhausted: r.registry.Stopped(),
		Interrupted:     parent.Err() != nil,
		Elapsed:         time.Since(start),
	}

	c.logger.Info("crawl finished",
		"baseURL", baseURL,
		"pages", len(result.Visits),
		"fetched", result.Fetched,
		"failed", result.Failed,
		"budgetExhausted", result.BudgetExhausted,
		"elapsed", result.Elapsed,
	)
	return result
}

// run holds the state owned by a single Crawl call.
type run struct {
	*Crawler

	ctx      context.Context
	baseURL  string
	baseHost string
	limiter  *Limiter
	registry *Registry

	outstanding sync.WaitGroup
	fetched     atomic.Int64
	failed      atomic.Int64
}

// spawn schedules crawlPage(pageURL) as a child of g.
func (r *run) spawn(g *errgroup.Group, pageURL string) {
	r.outstanding.Add(1)
	g.Go(func() error {
		defer r.outstanding.Done()
		r.crawlPage(pageURL)
		return nil
	})
}

// crawlPage crawls one branch and returns once all of its children are done.
func (r *run) crawlPage(pageURL string) {
	u, err := urlParser.Parse(pageURL)
	if err != nil {
		r.logger.Debug("skipping unparsable link", "url", pageURL, "error", err)
		return
	}

	if u.Hostname() != r.baseHost {
		return
	}

	key := u.Href(true)
	if admission := r.registry.TryAdmit(key); admission != Admitted {
		r.logger.Debug("not admitted", "url", key, "reason", admission.String())
		return
	}

	body, err := r.fetch(pageURL)
	if err != nil {
		r.failed.Add(1)
		return
	}
	r.fetched.Add(1)

	if r.onPage != nil {
		r.onPage(key, body)
	}

	// Links resolve against the crawl's base URL, not against pageURL.
	links, err := r.extractor.ExtractLinks(body, r.baseURL)
	if err != nil {
		r.logger.Warn("link extraction failed", "url", key, "error", err)
		return
	}

	var children errgroup.Group
	for _, link := range links {
		r.spawn(&children, link)
	}
	_ = children.Wait() //nolint:errcheck // crawl units never return errors
}

// fetch holds a limiter slot for the duration of a single Fetcher call.
func (r *run) fetch(pageURL string) ([]byte, error) {
	if err := r.limiter.Acquire(r.ctx); err != nil {
		r.logger.Debug("fetch slot not acquired", "url", pageURL, "cause", context.Cause(r.ctx))
		return nil, &FetchError{URL: pageURL, Err: ErrCancelled}
	}
	defer r.limiter.Release()

	return r.fetcher.Fetch(r.ctx, pageURL)
}
