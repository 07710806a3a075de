package export

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tonyc-ship/rebook/internal/epub"
)

// StdoutPath selects standard output as the JSON destination.
const StdoutPath = "-"

// Options holds options for the export pipeline.
type Options struct {
	InputPath     string
	OutputPath    string // StdoutPath writes to Stdout
	Encoded       bool   // input file already holds base64 text
	CoverPath     string // empty skips cover export
	CoverMaxWidth int
	JPEGQuality   int
	Pretty        bool
	Logger        *slog.Logger
	Stdout        io.Writer
}

// Pipeline reads an EPUB, extracts a Book and writes it out.
type Pipeline struct {
	Options Options
}

// NewPipeline creates a new export pipeline.
func NewPipeline(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Pipeline{Options: opts}
}

// Run executes the pipeline and returns the extracted book.
func (p *Pipeline) Run() (*epub.Book, error) {
	log := p.Options.Logger

	encoded, err := p.readInput()
	if err != nil {
		return nil, err
	}

	book, err := epub.NewParser(log).Parse(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EPUB: %w", err)
	}
	log.Info("parsed book",
		"title", book.Title,
		"chapters", len(book.Chapters),
		"cover", book.Cover != nil)

	if err := p.writeJSON(book); err != nil {
		return nil, err
	}

	if p.Options.CoverPath != "" {
		if err := p.writeCover(book.Cover); err != nil {
			return nil, err
		}
	}

	return book, nil
}

// readInput returns the EPUB as base64 text.
func (p *Pipeline) readInput() (string, error) {
	data, err := os.ReadFile(p.Options.InputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if p.Options.Encoded {
		return string(data), nil
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (p *Pipeline) writeJSON(book *epub.Book) error {
	var w io.Writer = p.Options.Stdout
	if p.Options.OutputPath != StdoutPath {
		f, err := os.Create(p.Options.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if p.Options.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(book); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func (p *Pipeline) writeCover(cover *epub.Cover) error {
	log := p.Options.Logger
	if cover == nil {
		log.Warn("book has no cover, skipping cover export")
		return nil
	}

	out, err := NewCoverOptimizer(p.Options).Optimize(p.Options.CoverPath, cover.MediaType, cover.Data)
	if err != nil {
		return fmt.Errorf("failed to optimize cover: %w", err)
	}
	if out.Warning != "" {
		log.Warn("cover written unoptimized", "reason", out.Warning)
	}

	if err := os.WriteFile(p.Options.CoverPath, out.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write cover: %w", err)
	}
	log.Debug("wrote cover",
		"path", p.Options.CoverPath,
		"format", out.Format,
		"width", out.Width,
		"height", out.Height)
	return nil
}
