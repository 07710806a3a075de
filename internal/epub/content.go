package epub

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content represents a parsed XHTML content file
type Content struct {
	Document *goquery.Document
}

// selfClosingRawTag matches <script/>, <style/> and <title/>, which the HTML
// parser would otherwise treat as opening a raw text element that never ends.
var selfClosingRawTag = regexp.MustCompile(`(?is)<(script|style|title)\b([^>]*)/>`)

// LoadContent parses an XHTML content file. Malformed markup is tolerated
// the way an HTML5 parser tolerates it.
func LoadContent(content []byte) (*Content, error) {
	if selfClosingRawTag.Match(content) {
		content = selfClosingRawTag.ReplaceAll(content, []byte(`<$1$2></$1>`))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XHTML: %w", err)
	}

	return &Content{Document: doc}, nil
}

// Title returns the trimmed text of the first title element, or "".
func (c *Content) Title() string {
	return strings.TrimSpace(c.Document.Find("title").First().Text())
}

// Text converts the document body to plain text wrapped at width columns.
func (c *Content) Text(width int) string {
	body := c.Document.Find("body")
	if body.Length() == 0 {
		body = c.Document.Selection
	}
	return HTMLToText(body.Nodes, width)
}

// FirstImageSrc returns the src of the first img element in an HTML page.
// SVG cover pages that only carry an image element are handled too.
func FirstImageSrc(page []byte) string {
	c, err := LoadContent(page)
	if err != nil {
		return ""
	}
	if src, ok := c.Document.Find("img").First().Attr("src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	if href, ok := c.Document.Find("image").First().Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	return ""
}
