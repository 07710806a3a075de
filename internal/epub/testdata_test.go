package epub

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"testing"
)

type testEntry struct {
	name string
	body string
}

const testContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// buildZip writes entries in order; "mimetype" is stored uncompressed.
func buildZip(t *testing.T, entries ...testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		method := zip.Deflate
		if e.name == "mimetype" {
			method = zip.Store
		}
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: method})
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.body)); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// buildEPUB returns a base64 EPUB with the standard container pointing at
// OEBPS/content.opf plus the given entries.
func buildEPUB(t *testing.T, opf string, entries ...testEntry) string {
	t.Helper()
	all := []testEntry{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", testContainer},
		{"OEBPS/content.opf", opf},
	}
	all = append(all, entries...)
	return base64.StdEncoding.EncodeToString(buildZip(t, all...))
}

func chapterXHTML(title, body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>` + title + `</title></head>
<body>` + body + `</body>
</html>`
}

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Jane Doe</dc:creator>
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="ch1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover-img" href="images/cover.png" media-type="image/png"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

var (
	jpegFixture = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngFixture  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0x00, 0x00}
	gifFixture  = []byte("GIF89a\x01\x00\x01\x00")
	webpFixture = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
)
