// Package readmecheck validates that a package's long description renders to
// usable HTML. Index pages show the rendered description; a description that
// does not render is caught here instead of after upload.
package readmecheck

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// ErrEmptyDescription is returned when there is no description to render.
var ErrEmptyDescription = errors.New("long description is empty")

// Report summarizes the rendered description.
type Report struct {
	Links    int
	Headings int
	Bytes    int // size of the rendered HTML
}

// Render converts Markdown source to HTML.
func Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Check renders the description and inspects the resulting HTML tree.
func Check(source []byte) (*Report, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, ErrEmptyDescription
	}

	rendered, err := Render(source)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parse rendered description: %w", err)
	}

	report := &Report{Bytes: len(rendered)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				report.Links++
			case "h1", "h2", "h3", "h4", "h5", "h6":
				report.Headings++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return report, nil
}

// Links extracts the href destinations from the rendered description.
func Links(source []byte) ([]string, error) {
	rendered, err := Render(source)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parse rendered description: %w", err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && strings.TrimSpace(attr.Val) != "" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return links, nil
}
