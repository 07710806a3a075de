package epub

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const epubMimetype = "application/epub+zip"

// Archive is an EPUB zip held entirely in memory.
type Archive struct {
	files map[string]*zip.File
}

// OpenArchive decodes a base64 blob and opens it as a zip archive.
func OpenArchive(encoded string) (*Archive, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, newError(KindDecode, "", err)
	}
	return NewArchive(data)
}

// NewArchive opens raw zip bytes.
func NewArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newError(KindArchive, "", err)
	}

	a := &Archive{
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "./")
		if _, dup := a.files[name]; !dup {
			a.files[name] = f
		}
	}
	return a, nil
}

// ReadFile returns the contents of the entry at path. If no entry matches
// exactly, the percent-decoded form of path is tried.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	f, ok := a.lookup(path)
	if !ok {
		return nil, newError(KindMissingEntry, path, nil)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", path, err)
	}
	return data, nil
}

func (a *Archive) lookup(path string) (*zip.File, bool) {
	path = strings.TrimPrefix(path, "./")
	if f, ok := a.files[path]; ok {
		return f, true
	}
	decoded := percentDecode(path)
	if decoded == path {
		return nil, false
	}
	f, ok := a.files[decoded]
	return f, ok
}

// percentDecode decodes every valid %XX triple and keeps anything else,
// including a stray '%', as written.
func percentDecode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// checkMimetype reports whether the archive carries the mimetype entry
// required by OCF: stored, not compressed, with the EPUB media type.
func (a *Archive) checkMimetype() error {
	f, ok := a.files["mimetype"]
	if !ok {
		return errors.New("mimetype file not found")
	}
	if f.Method != zip.Store {
		return errors.New("mimetype must not be compressed")
	}
	content, err := a.ReadFile("mimetype")
	if err != nil {
		return err
	}
	if got := strings.TrimSpace(string(content)); got != epubMimetype {
		return fmt.Errorf("invalid mimetype %q, want %q", got, epubMimetype)
	}
	return nil
}
