package epub

import (
	"strings"
)

// ParseOPF parses an OPF document located at opfPath inside the archive.
// Elements are matched by local name anywhere in the document, so unknown
// wrappers and namespace prefixes do not matter.
func ParseOPF(content []byte, opfPath string) (*OPF, error) {
	doc, err := parseXML(content)
	if err != nil {
		return nil, newError(KindXMLParse, opfPath, err)
	}

	opf := &OPF{
		Path:     opfPath,
		Manifest: make(map[string]ManifestItem),
	}
	opf.Metadata = parseMetadata(doc)

	for _, n := range doc.All("item") {
		id, hasID := n.Attr("id")
		href, hasHref := n.Attr("href")
		if !hasID || !hasHref {
			continue
		}
		item := ManifestItem{
			ID:   id,
			Href: href,
			Path: ResolvePath(opfPath, href),
		}
		item.MediaType, _ = n.Attr("media-type")
		if props, ok := n.Attr("properties"); ok {
			item.Properties = strings.Fields(props)
		}
		if _, seen := opf.Manifest[id]; !seen {
			opf.ManifestOrder = append(opf.ManifestOrder, id)
		}
		opf.Manifest[id] = item
	}

	for _, n := range doc.All("itemref") {
		// An empty idref still occupies a spine position.
		idref, ok := n.Attr("idref")
		if !ok {
			continue
		}
		linear, _ := n.Attr("linear")
		opf.Spine = append(opf.Spine, SpineItem{
			IDRef:  idref,
			Linear: linear != "no",
		})
	}

	for _, n := range doc.All("reference") {
		ref := GuideReference{}
		ref.Type, _ = n.Attr("type")
		ref.Href, _ = n.Attr("href")
		opf.Guide = append(opf.Guide, ref)
	}

	return opf, nil
}

// parseMetadata takes the first title and creator in document order.
func parseMetadata(doc *xmlNode) Metadata {
	var md Metadata
	if n := doc.First("title"); n != nil {
		md.Title = n.Text()
	}
	if n := doc.First("creator"); n != nil {
		md.Author = n.Text()
	}
	cover := doc.FirstWith("meta", func(n *xmlNode) bool {
		name, _ := n.Attr("name")
		return name == "cover"
	})
	if cover != nil {
		md.CoverID, _ = cover.Attr("content")
	}
	return md
}
