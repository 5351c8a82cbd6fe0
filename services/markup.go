package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bulletLine matches plain-text list items: "- x", "* x", "• x", "1. x", "2) x".
var bulletLine = regexp.MustCompile(`^\s*(?:[-*•▪►✓✔]|\d{1,2}[.)])\s+\S`)

// blockAtoms start a new line when flattened to text.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Ul: true,
	atom.Ol: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.Tr: true, atom.Section: true, atom.Blockquote: true,
}

// StripMarkup flattens the limited HTML found in listing descriptions to plain
// text. List items become "• " lines so bullet counting works the same for
// markup and plain text. Text without tags is returned trimmed.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidyLines(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if blockAtoms[a] {
				b.WriteByte('\n')
			}
			if a == atom.Li {
				b.WriteString("• ")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
				continue
			}
			if blockAtoms[a] {
				b.WriteByte('\n')
			}
		}
	}
}

func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// TextLength counts characters (runes) of s after markup is stripped.
func TextLength(s string) int {
	return utf8.RuneCountInString(StripMarkup(s))
}

// WordCount counts whitespace-separated words after markup is stripped.
func WordCount(s string) int {
	return len(strings.Fields(StripMarkup(s)))
}

// CountBullets counts list items in a description, whether written as HTML
// list elements or as plain-text bullet lines.
func CountBullets(s string) int {
	n := 0
	for _, line := range strings.Split(StripMarkup(s), "\n") {
		if bulletLine.MatchString(line) {
			n++
		}
	}
	return n
}
