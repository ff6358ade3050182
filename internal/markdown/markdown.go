// Package markdown renders record abstracts for the detail panel.
//
// Abstracts are stored as Markdown in the dataset and displayed verbatim in
// the grid. The detail panel renders them as HTML. Raw HTML in the source is
// never passed through.
package markdown

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// The converter configuration never changes and goldmark.Markdown is safe
// for concurrent use.
var (
	converter     goldmark.Markdown
	converterOnce sync.Once
)

func getConverter() goldmark.Markdown {
	converterOnce.Do(func() {
		converter = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			goldmark.WithRendererOptions(
				html.WithXHTML(),
			),
		)
	})
	return converter
}

// ToHTML converts Markdown source to an HTML fragment.
func ToHTML(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := getConverter().Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
