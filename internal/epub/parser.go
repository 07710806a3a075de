package epub

import (
	"fmt"
	"io"
	"log/slog"
)

// DefaultTitle is used when the OPF carries no title.
const DefaultTitle = "Untitled Book"

// Parser extracts a Book from an encoded EPUB. It holds no per-parse state
// and is safe for concurrent use.
type Parser struct {
	logger *slog.Logger
}

// NewParser returns a Parser that reports skipped chapters and cover
// problems to logger. A nil logger discards them.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{logger: logger}
}

// Parse is NewParser(nil).Parse.
func Parse(encoded string) (*Book, error) {
	return NewParser(nil).Parse(encoded)
}

// Parse decodes a base64 EPUB and extracts its title, author, chapters and
// cover. Unreadable chapters and covers are skipped; the returned error is
// always an *Error.
func (p *Parser) Parse(encoded string) (*Book, error) {
	archive, err := OpenArchive(encoded)
	if err != nil {
		return nil, err
	}
	return p.ParseArchive(archive)
}

// ParseArchive runs the extraction on an already opened archive.
func (p *Parser) ParseArchive(archive *Archive) (*Book, error) {
	if err := archive.checkMimetype(); err != nil {
		p.logger.Warn("non-conforming mimetype entry", "error", err)
	}

	opfPath, err := archive.RootfilePath()
	if err != nil {
		return nil, err
	}

	opfData, err := archive.ReadFile(opfPath)
	if err != nil {
		if KindOf(err) == KindUnknown {
			err = newError(KindMissingEntry, opfPath, err)
		}
		return nil, err
	}

	opf, err := ParseOPF(opfData, opfPath)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("parsed package document",
		"path", opfPath,
		"manifest", len(opf.Manifest),
		"spine", len(opf.Spine))

	chapters := p.extractChapters(archive, opf)
	if len(chapters) == 0 {
		return nil, newError(KindNoChapters, opfPath, nil)
	}

	book := &Book{
		Title:    opf.Metadata.Title,
		Author:   opf.Metadata.Author,
		Chapters: chapters,
		Cover:    p.extractCover(archive, opf),
	}
	if book.Title == "" {
		book.Title = DefaultTitle
	}
	return book, nil
}

// extractChapters converts spine items in order. Positions count every spine
// entry, so ids keep pointing at the original spine index when items are
// skipped.
func (p *Parser) extractChapters(archive *Archive, opf *OPF) []Chapter {
	var chapters []Chapter
	for i, spineItem := range opf.Spine {
		position := i + 1

		item, ok := opf.Manifest[spineItem.IDRef]
		if !ok {
			p.logger.Warn("spine item not found in manifest, skipping", "idref", spineItem.IDRef, "position", position)
			continue
		}
		if !spineItem.Linear {
			p.logger.Debug("extracting non-linear spine item", "idref", spineItem.IDRef, "position", position)
		}

		data, err := archive.ReadFile(item.Path)
		if err != nil {
			p.logger.Warn("failed to read chapter, skipping", "path", item.Path, "error", err)
			continue
		}

		content, err := LoadContent(data)
		if err != nil {
			p.logger.Warn("failed to parse chapter, skipping", "path", item.Path, "error", err)
			continue
		}

		text := content.Text(TextWidth)
		if text == "" {
			p.logger.Debug("chapter has no text, skipping", "path", item.Path)
			continue
		}

		title := content.Title()
		if title == "" {
			title = fmt.Sprintf("Chapter %d", position)
		}

		chapters = append(chapters, Chapter{
			ID:        fmt.Sprintf("chapter-%d", position),
			Title:     title,
			Text:      text,
			WordCount: CountWords(text),
		})
	}
	return chapters
}

func (p *Parser) extractCover(archive *Archive, opf *OPF) *Cover {
	info := opf.DetectCover()
	if info == nil {
		p.logger.Debug("no cover detected")
		return nil
	}
	cover, err := archive.LoadCover(info)
	if err != nil {
		p.logger.Warn("failed to load cover", "path", info.Path, "method", info.DetectionMethod, "error", err)
		return nil
	}
	return cover
}
