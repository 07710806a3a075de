package epub

import (
	"bytes"
	"path"
	"strings"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// DetectMediaType picks the cover media type: the declared type when it is
// an image type, else a guess from the extension, else the magic bytes.
// Returns "" when none of them apply.
func DetectMediaType(declared, name string, data []byte) string {
	if strings.HasPrefix(strings.ToLower(declared), "image/") {
		return declared
	}
	if mt := MediaTypeFromExt(name); mt != "" {
		return mt
	}
	return SniffImageType(data)
}

// MediaTypeFromExt maps common raster image extensions to media types.
func MediaTypeFromExt(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return ""
	}
}

// SniffImageType recognizes JPEG, PNG, GIF and WebP by their headers.
func SniffImageType(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case bytes.HasPrefix(data, pngSignature):
		return "image/png"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WEBP":
		return "image/webp"
	default:
		return ""
	}
}
