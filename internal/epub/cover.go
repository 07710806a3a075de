package epub

import (
	"errors"
	"fmt"
	"strings"
)

// CoverInfo holds information about the detected cover resource.
type CoverInfo struct {
	ManifestID      string // empty when found through the guide
	Href            string // as written in the OPF
	Path            string // resolved archive path
	MediaType       string // declared media type, if any
	DetectionMethod string // "manifest-property", "metadata-cover", "guide-reference", "filename-pattern"
	PackagePath     string // OPF path; wrapper image srcs are resolved against it first
}

type coverRule struct {
	method string
	detect func(*OPF) *CoverInfo
}

// coverRules are tried in order; the first match wins.
var coverRules = []coverRule{
	{"manifest-property", (*OPF).coverByProperty},
	{"metadata-cover", (*OPF).coverByMetadata},
	{"guide-reference", (*OPF).coverByGuide},
	{"filename-pattern", (*OPF).coverByFilename},
}

// DetectCover finds the cover resource using, in priority order:
//  1. a manifest item with properties="cover-image" (EPUB 3.0)
//  2. the manifest item named by meta name="cover" (EPUB 2.0)
//  3. guide reference type="cover", used as-is without the manifest
//  4. an image item whose id or href contains "cover" (case-insensitive)
//
// Returns nil if no rule matches.
func (opf *OPF) DetectCover() *CoverInfo {
	for _, rule := range coverRules {
		if info := rule.detect(opf); info != nil {
			info.DetectionMethod = rule.method
			info.PackagePath = opf.Path
			return info
		}
	}
	return nil
}

func (opf *OPF) coverByProperty() *CoverInfo {
	for _, item := range opf.orderedItems() {
		for _, prop := range item.Properties {
			if prop == "cover-image" {
				return coverFromItem(item)
			}
		}
	}
	return nil
}

func (opf *OPF) coverByMetadata() *CoverInfo {
	if opf.Metadata.CoverID == "" {
		return nil
	}
	item, ok := opf.Manifest[opf.Metadata.CoverID]
	if !ok {
		return nil
	}
	return coverFromItem(item)
}

func (opf *OPF) coverByGuide() *CoverInfo {
	for _, ref := range opf.Guide {
		if ref.Type != "cover" || ref.Href == "" {
			continue
		}
		return &CoverInfo{
			Href: ref.Href,
			Path: ResolvePath(opf.Path, ref.Href),
		}
	}
	return nil
}

func (opf *OPF) coverByFilename() *CoverInfo {
	for _, item := range opf.orderedItems() {
		if !strings.HasPrefix(strings.ToLower(item.MediaType), "image/") {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), "cover") ||
			strings.Contains(strings.ToLower(item.Href), "cover") {
			return coverFromItem(item)
		}
	}
	return nil
}

func (opf *OPF) orderedItems() []ManifestItem {
	items := make([]ManifestItem, 0, len(opf.ManifestOrder))
	for _, id := range opf.ManifestOrder {
		if item, ok := opf.Manifest[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

func coverFromItem(item ManifestItem) *CoverInfo {
	return &CoverInfo{
		ManifestID: item.ID,
		Href:       item.Href,
		Path:       item.Path,
		MediaType:  item.MediaType,
	}
}

// LoadCover reads the image described by info. An XHTML/HTML wrapper page is
// followed to its first image; the declared media type is then discarded.
// The image src is resolved against the package document and, when no such
// entry exists, against the wrapper page itself.
func (a *Archive) LoadCover(info *CoverInfo) (*Cover, error) {
	if info == nil {
		return nil, errors.New("no cover detected")
	}

	imgPath := info.Path
	declared := info.MediaType
	candidates := []string{imgPath}
	if hasHTMLExt(imgPath) {
		page, err := a.ReadFile(imgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read cover page: %w", err)
		}
		src := FirstImageSrc(page)
		if src == "" {
			return nil, fmt.Errorf("cover page %s has no image", imgPath)
		}
		candidates = []string{ResolvePath(info.PackagePath, src), ResolvePath(imgPath, src)}
		declared = ""
	}

	var (
		data []byte
		err  error
	)
	for _, candidate := range candidates {
		imgPath = candidate
		data, err = a.ReadFile(imgPath)
		if KindOf(err) != KindMissingEntry {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cover image: %w", err)
	}

	mediaType := DetectMediaType(declared, imgPath, data)
	if mediaType == "" {
		return nil, fmt.Errorf("unknown image type for %s", imgPath)
	}

	return &Cover{
		Href:            imgPath,
		MediaType:       mediaType,
		Data:            data,
		DetectionMethod: info.DetectionMethod,
	}, nil
}
