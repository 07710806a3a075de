package epub

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// TextWidth is the column width chapter text is wrapped at.
const TextWidth = 120

// blockTags start and end a paragraph.
var blockTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Dl:         true,
	atom.Table:      true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Hr:         true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Nav:        true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Figure:     true,
	atom.Figcaption: true,
	atom.Address:    true,
}

// lineTags only force a line break.
var lineTags = map[atom.Atom]bool{
	atom.Li: true,
	atom.Tr: true,
	atom.Dt: true,
	atom.Dd: true,
}

var skipTags = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Title:    true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// HTMLToText renders nodes as plain text. Paragraphs are separated by a
// blank line and long lines are wrapped at width display columns.
func HTMLToText(nodes []*html.Node, width int) string {
	w := &textWriter{atLineStart: true}
	for _, n := range nodes {
		w.render(n)
	}

	lines := strings.Split(w.buf.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, wrapLine(line, width)...)
		blank = false
	}
	return norm.NFC.String(strings.TrimSpace(strings.Join(out, "\n")))
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

type textWriter struct {
	buf          strings.Builder
	pendingSpace bool
	atLineStart  bool
	inPre        int
}

func (w *textWriter) render(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	case html.DocumentNode:
		w.children(n)
		return
	default:
		return
	}

	switch {
	case skipTags[n.DataAtom]:
	case n.DataAtom == atom.Br:
		w.newline()
	case n.DataAtom == atom.Pre:
		w.paragraph()
		w.inPre++
		w.children(n)
		w.inPre--
		w.paragraph()
	case blockTags[n.DataAtom]:
		w.paragraph()
		w.children(n)
		w.paragraph()
	case n.DataAtom == atom.Li:
		w.newline()
		w.word("*")
		w.pendingSpace = true
		w.children(n)
		w.newline()
	case lineTags[n.DataAtom]:
		w.newline()
		w.children(n)
		w.newline()
	case n.DataAtom == atom.Td, n.DataAtom == atom.Th:
		w.pendingSpace = true
		w.children(n)
		w.pendingSpace = true
	default:
		w.children(n)
	}
}

func (w *textWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.render(c)
	}
}

func (w *textWriter) text(s string) {
	if w.inPre > 0 {
		for i, line := range strings.Split(s, "\n") {
			if i > 0 {
				w.newline()
			}
			if line != "" {
				w.buf.WriteString(line)
				w.atLineStart = false
			}
		}
		return
	}

	if s == "" {
		return
	}
	// Same whitespace rule as strings.Fields, so a leading NBSP still
	// separates this node from the previous inline word.
	if first, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(first) {
		w.pendingSpace = true
	}
	for _, word := range strings.Fields(s) {
		w.word(word)
		w.pendingSpace = true
	}
	if last, _ := utf8.DecodeLastRuneInString(s); !unicode.IsSpace(last) {
		w.pendingSpace = false
	}
}

func (w *textWriter) word(s string) {
	if w.pendingSpace && !w.atLineStart {
		w.buf.WriteByte(' ')
	}
	w.buf.WriteString(s)
	w.pendingSpace = false
	w.atLineStart = false
}

func (w *textWriter) newline() {
	if !w.atLineStart {
		w.buf.WriteByte('\n')
	}
	w.atLineStart = true
	w.pendingSpace = false
}

func (w *textWriter) paragraph() {
	w.newline()
	w.buf.WriteByte('\n')
}

// wrapLine splits line at spaces so that no piece exceeds width columns,
// unless a single word is wider than width.
func wrapLine(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var (
		out     []string
		cur     strings.Builder
		curCols int
	)
	for _, word := range strings.Split(line, " ") {
		if word == "" {
			continue
		}
		cols := runewidth.StringWidth(word)
		if curCols > 0 && curCols+1+cols > width {
			out = append(out, cur.String())
			cur.Reset()
			curCols = 0
		}
		if curCols > 0 {
			cur.WriteByte(' ')
			curCols++
		}
		cur.WriteString(word)
		curCols += cols
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
