// Package extract pulls links and page summaries out of HTML documents.
//
// Link extraction walks the document with golang.org/x/net/html and resolves
// every href with the WHATWG URL algorithm, matching what a browser would
// navigate to. Page summaries (first heading, first paragraph, images) use
// goquery selectors.
//
// Nothing here filters by host or removes duplicates; that is the crawler's
// job.
package extract
