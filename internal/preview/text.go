package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

var skipped = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "iframe": true, "svg": true, "canvas": true,
}

var blocks = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true,
	"footer": true, "nav": true, "main": true, "aside": true, "ul": true,
	"ol": true, "table": true, "tr": true, "blockquote": true, "pre": true,
	"form": true, "figure": true, "figcaption": true, "dl": true, "dt": true, "dd": true,
	"body": true, "address": true,
}

type block struct {
	text  string
	tight bool // list items stack without blank lines
}

type textRenderer struct {
	blocks []block
	cur    strings.Builder
	tight  bool
}

// Text renders doc as plain text wrapped to the device's terminal width.
// Scripts and styles are never printed.
func Text(doc string, device Device) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}

	r := &textRenderer{}
	r.walk(root)
	r.flush()

	var b strings.Builder
	for i, blk := range r.blocks {
		if i > 0 {
			if blk.tight && r.blocks[i-1].tight {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(blk.text)
	}

	cols := device.Preset().Columns
	lines := strings.Split(lipgloss.NewStyle().Width(cols).Render(b.String()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func (r *textRenderer) flush() {
	var lines []string
	for _, line := range strings.Split(r.cur.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		r.blocks = append(r.blocks, block{text: strings.Join(lines, "\n"), tight: r.tight})
	}
	r.cur.Reset()
	r.tight = false
}

func (r *textRenderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *textRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.cur.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		r.children(n)
		return
	}

	tag := strings.ToLower(n.Data)
	switch {
	case skipped[tag]:
	case tag == "br":
		r.cur.WriteString("\n")
	case tag == "hr":
		r.flush()
		r.cur.WriteString("────────")
		r.flush()
	case tag == "img":
		if alt := attr(n, "alt"); alt != "" {
			r.cur.WriteString("[image: " + alt + "]")
		} else {
			r.cur.WriteString("[image]")
		}
	case len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6':
		r.flush()
		r.cur.WriteString(strings.Repeat("#", int(tag[1]-'0')) + " ")
		r.children(n)
		r.flush()
	case tag == "li":
		r.flush()
		r.cur.WriteString("• ")
		r.children(n)
		r.tight = true
		r.flush()
	case tag == "a":
		r.children(n)
		if href := attr(n, "href"); linkable(href) {
			r.cur.WriteString(" <" + href + ">")
		}
	case blocks[tag]:
		r.flush()
		r.children(n)
		r.flush()
	default:
		r.children(n)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func linkable(href string) bool {
	lower := strings.ToLower(href)
	return href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(lower, "javascript:")
}
