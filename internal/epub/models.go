package epub

import (
	"encoding/base64"
	"encoding/json"
)

// Book is the readable content extracted from one EPUB.
type Book struct {
	Title    string    `json:"title"`
	Author   string    `json:"author,omitempty"`
	Chapters []Chapter `json:"chapters"`
	Cover    *Cover    `json:"-"`
}

// MarshalJSON flattens the cover into coverBase64, coverMime and
// coverDetectionMethod, the shape the reader front end consumes.
func (b Book) MarshalJSON() ([]byte, error) {
	type book Book
	out := struct {
		book
		CoverBase64          string `json:"coverBase64,omitempty"`
		CoverMime            string `json:"coverMime,omitempty"`
		CoverDetectionMethod string `json:"coverDetectionMethod,omitempty"`
	}{book: book(b)}
	if b.Cover != nil {
		out.CoverBase64 = base64.StdEncoding.EncodeToString(b.Cover.Data)
		out.CoverMime = b.Cover.MediaType
		out.CoverDetectionMethod = b.Cover.DetectionMethod
	}
	return json.Marshal(out)
}

// Chapter is one spine entry converted to plain text.
type Chapter struct {
	ID        string `json:"id"` // "chapter-<spine position>"
	Title     string `json:"title"`
	Text      string `json:"text"`
	WordCount int    `json:"wordCount"`
}

// Cover holds the cover image bytes.
type Cover struct {
	Href            string // archive path of the image
	MediaType       string
	Data            []byte
	DetectionMethod string
}

// OPF represents the parsed Open Package Format document
type OPF struct {
	Path          string // archive path of the OPF itself
	Metadata      Metadata
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // ids in document order
	Spine         []SpineItem
	Guide         []GuideReference
}

// Metadata represents the parts of the OPF metadata the reader uses
type Metadata struct {
	Title   string
	Author  string
	CoverID string // EPUB 2.0 cover image manifest item ID (from meta name="cover")
}

// ManifestItem represents an item in the manifest
type ManifestItem struct {
	ID         string
	Href       string // as written in the OPF
	Path       string // resolved archive path
	MediaType  string
	Properties []string
}

// SpineItem represents an item reference in the spine
type SpineItem struct {
	IDRef  string
	Linear bool // false for linear="no"; such items are still extracted
}

// GuideReference represents a reference element in the EPUB 2.0 guide
type GuideReference struct {
	Type string
	Href string
}
