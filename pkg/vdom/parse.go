package vdom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseMarkup parses an HTML fragment into nodes as if it appeared inside
// <body>. Comments and doctype nodes are dropped. Attribute values are kept
// as strings.
func ParseMarkup(markup string) ([]*VNode, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("vdom: parse markup: %w", err)
	}

	nodes := make([]*VNode, 0, len(parsed))
	for _, n := range parsed {
		if v := convert(n); v != nil {
			nodes = append(nodes, v)
		}
	}
	return nodes, nil
}

// MustParseMarkup is like ParseMarkup but panics on error.
// Intended for static markup known at compile time.
func MustParseMarkup(markup string) []*VNode {
	nodes, err := ParseMarkup(markup)
	if err != nil {
		panic(err)
	}
	return nodes
}

func convert(n *html.Node) *VNode {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		node := &VNode{
			Kind:     KindElement,
			Tag:      n.Data,
			Props:    make(Props, len(n.Attr)),
			Children: make([]*VNode, 0),
		}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			node.Props[key] = a.Val
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				node.Children = append(node.Children, child)
			}
		}
		return node
	default:
		return nil
	}
}
