package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// CleanText replaces non-breaking spaces, drops non-printable characters and
// collapses all whitespace runs into single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func getTextRecursive(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		if t := strings.TrimSpace(node.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	case html.ElementNode:
		if node.Data == "script" || node.Data == "style" {
			return
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, parts)
	}
}

// SelectionText joins the trimmed text nodes under a selection with spaces and
// cleans the result. Script and style contents are skipped.
func SelectionText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		getTextRecursive(n, &parts)
	}
	return CleanText(strings.Join(parts, " "))
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors returns the cleaned text and raw href of every `a[href]` under sel
// in document order.
func GetAnchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		anchors = append(anchors, Anchor{
			Name: SelectionText(a),
			Href: strings.TrimSpace(a.AttrOr("href", "")),
		})
	})
	return anchors
}
