// Package crawler discovers and fetches the pages of a single website.
//
// # Architecture
//
// A crawl starts from a base URL and recurses through the links of every
// fetched page. Each discovered link becomes its own goroutine; a page's
// crawl returns only after all of its children have returned, forming a
// join tree rooted at the base URL.
//
// # Components
//
//   - Canonicalize: turns an absolute URL into the deduplication key
//   - Registry: canonical URL to visit count, page budget and stop flag
//   - Limiter: bounds the number of fetches in flight
//   - Crawler: the recursive scheduler tying the pieces together
//   - HTTPFetcher: default Fetcher, GET requests accepting only HTML
//
// # Budgets
//
// The page budget (WithMaxPages) caps the number of distinct canonical URLs
// admitted. When a branch finds the registry full, the stop flag is set and
// the crawl context is cancelled with ErrBudgetExceeded: in-flight fetches
// abort and no new fetch starts. The concurrency budget (WithMaxConcurrency)
// caps simultaneous fetches only; goroutines waiting on their children hold
// no fetch slot.
//
// # Host isolation
//
// Links whose hostname differs from the base URL's hostname are dropped
// before admission, so they are never counted or fetched.
//
// # Usage
//
//	c := crawler.New(crawler.NewHTTPFetcher(client), extract.New(),
//		crawler.WithMaxConcurrency(5),
//		crawler.WithMaxPages(100),
//	)
//	result := c.Crawl(ctx, "https://example.com")
package crawler
