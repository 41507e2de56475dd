package html

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestTextFromHTML(t *testing.T) {
	input := "<p>Hello <b>World</b>!</p>"
	text, err := TextFromHTML(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if text.String() != "Hello World!" {
		t.Errorf("extracted text is %q, expected \"Hello World!\"", text.String())
	}
}

func TestTextFromHTMLNested(t *testing.T) {
	input := "<div><h1>Title</h1><p>First <i>second</i> third</p></div>"
	text, err := TextFromHTML(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if text.String() != "TitleFirst second third" {
		t.Errorf("extracted text is %q", text.String())
	}
}

func TestInnerText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<html><body><p>Hello <b>World</b></p></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	text, err := InnerText(doc)
	if err != nil {
		t.Fatal(err)
	}
	if text.String() != "Hello World" {
		t.Errorf("extracted text is %q, expected \"Hello World\"", text.String())
	}
}

func TestInnerTextNil(t *testing.T) {
	if _, err := InnerText(nil); err != ErrIllegalArguments {
		t.Errorf("expected ErrIllegalArguments, got %v", err)
	}
}