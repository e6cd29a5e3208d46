package dom

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// QueryAll evaluates an XPath expression below root.
func QueryAll(root *html.Node, xpath string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(root, xpath)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", xpath, err)
	}
	return nodes, nil
}

// MustQueryAll is QueryAll for expressions known at compile time.
func MustQueryAll(root *html.Node, xpath string) []*html.Node {
	nodes, err := QueryAll(root, xpath)
	if err != nil {
		panic(err)
	}
	return nodes
}

// QueryOne returns the first node matching xpath below root, or nil.
func QueryOne(root *html.Node, xpath string) *html.Node {
	n, err := htmlquery.Query(root, xpath)
	if err != nil {
		return nil
	}
	return n
}
