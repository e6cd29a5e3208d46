package dom

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses s as the content of a <div> and returns the
// resulting top-level nodes, detached.
func ParseFragment(s string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// SetInnerHTML replaces the children of n with the parsed fragment s.
func SetInnerHTML(n *html.Node, s string) error {
	nodes, err := ParseFragment(s)
	if err != nil {
		return err
	}
	RemoveChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on writer errors; bytes.Buffer never returns one.
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

var (
	interTagSpace = regexp.MustCompile(`>\s+<`)
	runSpace      = regexp.MustCompile(`\s+`)
)

// NormalizeWhitespace collapses whitespace runs and removes whitespace
// between tags so that two serializations can be compared structurally.
func NormalizeWhitespace(s string) string {
	s = interTagSpace.ReplaceAllString(s, "><")
	s = runSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
