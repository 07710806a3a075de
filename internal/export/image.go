package export

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	defaultCoverMaxWidth = 600
	defaultJPEGQuality   = 90
	minJPEGQuality       = 60
	defaultMaxPixels     = 100 * 1000 * 1000 // 100 megapixels
)

// CoverOptimizer resizes and re-encodes an extracted cover image.
type CoverOptimizer struct {
	MaxWidth    int
	JPEGQuality int
	MaxPixels   int // Total pixel count limit for decode (width * height)
}

// OptimizedImage holds optimized image data and metadata.
// Warning is set when the image was returned as-is; Data is usable either way.
type OptimizedImage struct {
	Data    []byte
	Width   int
	Height  int
	Format  string
	Warning string
}

// NewCoverOptimizer creates a cover optimizer with defaults for unset fields.
func NewCoverOptimizer(opts Options) *CoverOptimizer {
	maxWidth := opts.CoverMaxWidth
	if maxWidth <= 0 {
		maxWidth = defaultCoverMaxWidth
	}

	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}
	if quality < minJPEGQuality {
		quality = minJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}

	return &CoverOptimizer{
		MaxWidth:    maxWidth,
		JPEGQuality: quality,
		MaxPixels:   defaultMaxPixels,
	}
}

// Optimize decodes input and re-encodes it in the format implied by outName,
// downscaling to MaxWidth. Images the decoder does not understand (WebP, for
// one) are passed through unchanged with a Warning. Only encoding failures
// return an error.
func (o *CoverOptimizer) Optimize(outName, mediaType string, input []byte) (OptimizedImage, error) {
	out := OptimizedImage{
		Data:   input,
		Format: mediaTypeToFormat(mediaType),
	}

	format, err := imaging.FormatFromFilename(outName)
	if err != nil {
		out.Warning = fmt.Sprintf("unsupported output format for %s, writing original bytes", outName)
		return out, nil
	}

	cfg, _, cfgErr := image.DecodeConfig(bytes.NewReader(input))
	if cfgErr == nil {
		out.Width, out.Height = cfg.Width, cfg.Height
		pixels := uint64(cfg.Width) * uint64(cfg.Height)
		if o.MaxPixels > 0 && pixels > uint64(o.MaxPixels) {
			out.Warning = fmt.Sprintf("image too large to decode: %dx%d (%d pixels)", cfg.Width, cfg.Height, pixels)
			return out, nil
		}
	}

	src, err := imaging.Decode(bytes.NewReader(input), imaging.AutoOrientation(true))
	if err != nil {
		out.Warning = fmt.Sprintf("image decode failed: %v", err)
		return out, nil
	}

	processed := src
	if o.MaxWidth > 0 && src.Bounds().Dx() > o.MaxWidth {
		processed = imaging.Resize(src, o.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, processed, format, imaging.JPEGQuality(o.JPEGQuality)); err != nil {
		return out, fmt.Errorf("%s encode failed: %w", strings.ToLower(format.String()), err)
	}

	out.Data = buf.Bytes()
	out.Width = processed.Bounds().Dx()
	out.Height = processed.Bounds().Dy()
	out.Format = strings.ToLower(format.String())
	return out, nil
}

func mediaTypeToFormat(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return ""
	}
}
