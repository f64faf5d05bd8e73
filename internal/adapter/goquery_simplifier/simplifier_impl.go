package goquery_simplifier

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/site-cloner/pkg/utils"
	"golang.org/x/net/html"
)

var (
	droppedAttrPrefixes = []string{"data-sr", "data-tilt"}
	droppedClasses      = map[string]bool{"load-hidden": true, "sr": true}
	droppedStyleProps   = map[string]bool{"visibility": true, "opacity": true, "transform": true}
	vendorPrefixes      = []string{"-webkit-", "-moz-", "-ms-", "-o-"}
)

// Simplifier strips markup that only matters to scripts and animations, so the
// generator sees a static, fully visible page with fewer tokens.
type Simplifier struct{}

func NewSimplifier() *Simplifier {
	return &Simplifier{}
}

// Simplify returns the cleaned document. pageURL is used to absolutize image sources
// and may be empty.
func (s *Simplifier) Simplify(pageURL, rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	doc.Find("script, noscript").Remove()
	for _, n := range doc.Nodes {
		removeComments(n)
	}

	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			n.Attr = cleanAttrs(n.Attr)
		}
	})

	if base, err := url.Parse(pageURL); err == nil && base.IsAbs() {
		doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
			src, _ := sel.Attr("src")
			if src == "" || strings.HasPrefix(src, "data:") {
				return
			}
			if abs, err := utils.ToAbsoluteURL(base, src); err == nil {
				sel.SetAttr("src", abs)
			}
		})
	}

	return doc.Html()
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		switch {
		case hasDroppedPrefix(a.Key):
			continue
		case a.Key == "class":
			a.Val = cleanClass(a.Val)
		case a.Key == "style":
			a.Val = CleanStyle(a.Val)
		}
		if (a.Key == "class" || a.Key == "style") && a.Val == "" {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func hasDroppedPrefix(key string) bool {
	for _, p := range droppedAttrPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func cleanClass(val string) string {
	var kept []string
	for _, c := range strings.Fields(val) {
		if !droppedClasses[c] {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}

// isDroppedStyleProp matches the dropped properties with or without a vendor prefix.
func isDroppedStyleProp(prop string) bool {
	prop = strings.ToLower(strings.TrimSpace(prop))
	for _, p := range vendorPrefixes {
		if rest, ok := strings.CutPrefix(prop, p); ok {
			prop = rest
			break
		}
	}
	return droppedStyleProps[prop]
}

// CleanStyle drops visibility, opacity and transform declarations from an inline
// style and collapses whitespace. Other properties such as text-transform are kept.
func CleanStyle(style string) string {
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.Join(strings.Fields(decl), " ")
		if decl == "" {
			continue
		}
		prop, _, found := strings.Cut(decl, ":")
		if found && isDroppedStyleProp(prop) {
			continue
		}
		kept = append(kept, decl)
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "; ") + ";"
}
