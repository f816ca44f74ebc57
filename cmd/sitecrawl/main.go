// Package main provides the entry point for the sitecrawl CLI.
//
// sitecrawl crawls a single website starting from a base URL, following only
// links on the same host, and reports how often each page was reached.
//
// Usage:
//
//	sitecrawl <baseURL> [maxConcurrency maxPages]
//	sitecrawl init
//
// See --help for all available options.
package main

// main is the entry point for sitecrawl.
func main() {
	Execute()
}
