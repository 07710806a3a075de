package epub

import "errors"

const containerPath = "META-INF/container.xml"

// RootfilePath reads META-INF/container.xml and returns the full-path of
// the first rootfile element, normalized.
func (a *Archive) RootfilePath() (string, error) {
	content, err := a.ReadFile(containerPath)
	if err != nil {
		if KindOf(err) == KindMissingEntry {
			return "", err
		}
		return "", newError(KindMissingEntry, containerPath, err)
	}

	doc, err := parseXML(content)
	if err != nil {
		return "", newError(KindXMLParse, containerPath, err)
	}

	rootfile := doc.First("rootfile")
	if rootfile == nil {
		return "", newError(KindMissingField, containerPath, errors.New("no rootfile element"))
	}
	fullPath, _ := rootfile.Attr("full-path")
	fullPath = NormalizePath(fullPath)
	if fullPath == "" {
		return "", newError(KindMissingField, containerPath, errors.New("rootfile has no full-path"))
	}
	return fullPath, nil
}
