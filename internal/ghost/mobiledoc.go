package ghost

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// MobiledocVersion is the envelope version Ghost accepts.
	MobiledocVersion = "0.3.1"

	markdownCard    = "markdown"
	cardSectionType = 10
)

// Mobiledoc is the subset of the mobiledoc envelope used to carry a single
// markdown card. Field order fixes the serialized key order.
type Mobiledoc struct {
	Version  string  `json:"version"`
	Atoms    []any   `json:"atoms"`
	Cards    [][]any `json:"cards"`
	Markups  []any   `json:"markups"`
	Sections [][]int `json:"sections"`
}

type markdownPayload struct {
	Markdown string `json:"markdown"`
}

// NewMarkdownMobiledoc wraps md verbatim into a one-card document.
func NewMarkdownMobiledoc(md string) Mobiledoc {
	return Mobiledoc{
		Version:  MobiledocVersion,
		Atoms:    []any{},
		Cards:    [][]any{{markdownCard, markdownPayload{Markdown: md}}},
		Markups:  []any{},
		Sections: [][]int{{cardSectionType, 0}},
	}
}

// EncodeMarkdown returns the serialized mobiledoc for md.
func EncodeMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewMarkdownMobiledoc(md)); err != nil {
		return "", fmt.Errorf("encode mobiledoc: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeMarkdown extracts the markdown text from a single-card mobiledoc.
func DecodeMarkdown(doc string) (string, error) {
	var raw struct {
		Version  string              `json:"version"`
		Cards    [][]json.RawMessage `json:"cards"`
		Sections [][]int             `json:"sections"`
	}
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return "", fmt.Errorf("decode mobiledoc: %w", err)
	}
	if len(raw.Sections) == 0 || len(raw.Sections[0]) != 2 || raw.Sections[0][0] != cardSectionType {
		return "", errors.New("decode mobiledoc: first section is not a card section")
	}
	idx := raw.Sections[0][1]
	if idx < 0 || idx >= len(raw.Cards) || len(raw.Cards[idx]) != 2 {
		return "", errors.New("decode mobiledoc: card index out of range")
	}
	var name string
	if err := json.Unmarshal(raw.Cards[idx][0], &name); err != nil || name != markdownCard {
		return "", fmt.Errorf("decode mobiledoc: unexpected card %q", name)
	}
	var p markdownPayload
	if err := json.Unmarshal(raw.Cards[idx][1], &p); err != nil {
		return "", fmt.Errorf("decode mobiledoc: %w", err)
	}
	return p.Markdown, nil
}

// WrapHTML is the html alternative to mobiledoc: the markdown in a
// markdown-card div, left for Ghost to render.
func WrapHTML(md string) string {
	return `<div class="kg-card kg-markdown-card">` + md + `</div>`
}
