package crawler

import (
	"errors"
	"fmt"

	whatwg "github.com/nlnwa/whatwg-url/url"
)

// ErrInvalidURL is returned when an address cannot be parsed as an absolute URL.
// Relative paths, empty strings and malformed syntax all end up here.
var ErrInvalidURL = errors.New("invalid URL")

// urlParser follows the WHATWG URL standard, the same algorithm browsers use,
// so "https://example.com" and "https://example.com/" serialize identically.
var urlParser = whatwg.NewParser(whatwg.WithPercentEncodeSinglePercentSign())

// parseAbsolute parses raw as an absolute URL.
func parseAbsolute(raw string) (*whatwg.Url, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidURL)
	}
	u, err := urlParser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, raw, err)
	}
	return u, nil
}

// Canonicalize turns an absolute URL into the key used for deduplication.
//
// The fragment is removed; scheme, host, port, path and query are kept as the
// parser serializes them (the root path becomes "/", query order and
// percent-encoding are preserved). Two addresses that differ only by fragment
// yield the same key.
func Canonicalize(raw string) (string, error) {
	u, err := parseAbsolute(raw)
	if err != nil {
		return "", err
	}
	return u.Href(true), nil
}

// Hostname returns the host of an absolute URL as the crawler compares it:
// lowercased, with IDNs in their ASCII form and without the port.
func Hostname(raw string) (string, error) {
	u, err := parseAbsolute(raw)
	if err != nil {
		return "", err
	}
	return u.Hostname(), nil
}
