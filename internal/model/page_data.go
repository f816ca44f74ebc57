package model

// PageData summarizes a fetched HTML page.
type PageData struct {
	// URL is the canonical address of the page.
	URL string `json:"url"`

	// H1 is the text of the first <h1> element, or empty.
	H1 string `json:"h1"`

	// FirstParagraph is the text of the first <p> inside <main>, or of the
	// first <p> in the document when <main> has none.
	FirstParagraph string `json:"first_paragraph"`

	// OutgoingLinks are the absolute hrefs of every anchor, in document order.
	OutgoingLinks []string `json:"outgoing_links"`

	// ImageURLs are the absolute src values of every image.
	ImageURLs []string `json:"image_urls"`

	// ContentHash is the xxhash64 of the decoded body, in hex.
	ContentHash string `json:"content_hash,omitempty"`
}
