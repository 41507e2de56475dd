/*
Package html extracts the textual content of HTML as texts over a sum
tree.

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/
package html

import (
	"errors"
	"io"

	"github.com/npillmayer/sumtree/text"
	"golang.org/x/net/html"
)

// ErrIllegalArguments signals a nil argument to a text extraction.
var ErrIllegalArguments = errors.New("html: illegal arguments")

// InnerText creates a text for the textual content of an HTML element
// and all its descendents. It resembles the text produced by
//
//	document.getElementById("myNode").innerText
//
// in JavaScript (except that html.InnerText cannot respect CSS styling
// suppressing the visibility of the node's descendents).
func InnerText(n *html.Node) (text.Text, error) {
	if n == nil {
		return text.Text{}, ErrIllegalArguments
	}
	b := text.NewBuilder()
	if err := collectText(n, b); err != nil {
		return text.Text{}, err
	}
	return b.Text(), nil
}

func collectText(n *html.Node, b *text.Builder) error {
	if n.Type == html.TextNode {
		if err := b.AppendString(n.Data); err != nil {
			return err
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := collectText(c, b); err != nil {
			return err
		}
	}
	return nil
}

// TextFromHTML creates a text from the textual content of an HTML
// fragment. It does no interpretation of layout and styling, but
// extracts the pure text.
func TextFromHTML(input io.Reader) (text.Text, error) {
	nodes, err := html.ParseFragment(input, nil)
	if err != nil {
		return text.Text{}, err
	}
	b := text.NewBuilder()
	for _, n := range nodes {
		if err := collectText(n, b); err != nil {
			return text.Text{}, err
		}
	}
	return b.Text(), nil
}
