package epub

import (
	"path"
	"strings"
)

// ResolvePath resolves href against the directory of the document at docPath
// and returns an archive-absolute, forward-slash path.
// docPath: path of the referring document (e.g., "OEBPS/content.opf")
// href: reference found in that document (e.g., "../images/cover.jpg")
func ResolvePath(docPath, href string) string {
	href = stripFragment(href)
	if strings.HasPrefix(href, "/") {
		return NormalizePath(href)
	}
	dir := path.Dir(strings.ReplaceAll(docPath, `\`, "/"))
	if dir == "." || dir == "/" {
		dir = ""
	}
	return NormalizePath(dir + "/" + href)
}

// NormalizePath drops empty and "." segments and lets ".." remove the segment
// before it. A ".." with nothing to remove is dropped.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}

func stripFragment(href string) string {
	href = strings.TrimSpace(href)
	pathPart, _, _ := strings.Cut(href, "#")
	return pathPart
}

func hasHTMLExt(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasSuffix(lower, ".xhtml") || strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}
