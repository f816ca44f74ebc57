package extract

import (
	"bytes"
	"strings"

	whatwg "github.com/nlnwa/whatwg-url/url"
	"golang.org/x/net/html"
)

// urlParser resolves references the way browsers do.
var urlParser = whatwg.NewParser(whatwg.WithPercentEncodeSinglePercentSign())

// Extractor implements crawler.LinkExtractor for HTML documents.
// The zero value is ready to use.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns the href of every <a> element in document order,
// resolved against baseURL. Anchors without an href, or whose href cannot be
// resolved, are skipped.
func (e *Extractor) ExtractLinks(body []byte, baseURL string) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getAttr(n, "href"); ok {
				if resolved := resolveURL(baseURL, href); resolved != "" {
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// resolveURL resolves ref against base and returns the absolute form, or an
// empty string when ref is blank or unresolvable.
func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := urlParser.ParseRef(base, ref)
	if err != nil {
		return ""
	}
	return u.Href(false)
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
