// Package transport builds the HTTP client used by the crawler.
//
// A client can route through a SOCKS5 proxy (for example a local Tor daemon
// or an SSH tunnel) and inject the cookie and headers configured for a site
// in the configuration file. Those are sent to the site's host only, and
// redirects off that host are not followed. CheckProxy verifies that a proxy
// speaks SOCKS5 before a crawl starts.
package transport
