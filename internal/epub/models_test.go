package epub

import (
	"encoding/json"
	"testing"
)

func TestBook_MarshalJSON(t *testing.T) {
	book := &Book{
		Title:    "T",
		Chapters: []Chapter{{ID: "chapter-1", Title: "One", Text: "one", WordCount: 1}},
		Cover:    &Cover{Href: "OEBPS/c.png", MediaType: "image/png", Data: []byte("png"), DetectionMethod: "metadata-cover"},
	}
	data, err := json.Marshal(book)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["coverBase64"] != "cG5n" {
		t.Errorf("coverBase64 = %v, want %q", got["coverBase64"], "cG5n")
	}
	if got["coverMime"] != "image/png" {
		t.Errorf("coverMime = %v, want %q", got["coverMime"], "image/png")
	}
	if got["coverDetectionMethod"] != "metadata-cover" {
		t.Errorf("coverDetectionMethod = %v", got["coverDetectionMethod"])
	}
	if _, ok := got["cover"]; ok {
		t.Error("unexpected nested cover key")
	}
	if _, ok := got["author"]; ok {
		t.Error("empty author should be omitted")
	}
}

func TestBook_MarshalJSONWithoutCover(t *testing.T) {
	data, err := json.Marshal(Book{Title: "T", Author: "A"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"title":"T","author":"A","chapters":null}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
