package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"

	"github.com/nao1215/sitecrawl/internal/model"
)

// ExtractPageData summarizes a fetched page. Links and images are resolved
// against pageURL.
func (e *Extractor) ExtractPageData(body []byte, pageURL string) (*model.PageData, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	links, err := e.ExtractLinks(body, pageURL)
	if err != nil {
		return nil, err
	}

	return &model.PageData{
		URL:            pageURL,
		H1:             h1(doc),
		FirstParagraph: firstParagraph(doc),
		OutgoingLinks:  links,
		ImageURLs:      images(doc, pageURL),
		ContentHash:    ContentHash(body),
	}, nil
}

// H1 returns the trimmed text of the first <h1>, or "" if there is none.
func H1(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return h1(doc), nil
}

// FirstParagraph returns the trimmed text of the first <p> inside <main>,
// falling back to the first <p> of the document.
func FirstParagraph(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return firstParagraph(doc), nil
}

// Images returns the absolute src of every <img> that has one.
func Images(body []byte, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return images(doc, baseURL), nil
}

// ContentHash returns the xxhash64 of body as 16 hex digits.
func ContentHash(body []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(body))
}

func h1(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func firstParagraph(doc *goquery.Document) string {
	p := doc.Find("main p").First()
	if p.Length() == 0 {
		p = doc.Find("p").First()
	}
	return strings.TrimSpace(p.Text())
}

func images(doc *goquery.Document, baseURL string) []string {
	srcs := make([]string, 0)
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if resolved := resolveURL(baseURL, src); resolved != "" {
			srcs = append(srcs, resolved)
		}
	})
	return srcs
}
