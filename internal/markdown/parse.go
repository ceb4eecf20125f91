package markdown

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document represents a Markdown file with YAML frontmatter.
type Document struct {
	Path        string
	Frontmatter map[string]any
	Body        string
}

// Name returns the base filename without its extension.
func (d Document) Name() string {
	base := filepath.Base(d.Path)
	if d.Path == "" || base == "." {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFile reads a Markdown file and extracts YAML frontmatter and body.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return Document{}, err
	}
	d.Path = path
	return d, nil
}

// Parse extracts YAML frontmatter and body from r.
// Frontmatter is expected at the top between two lines containing only "---".
func Parse(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	var hasFM bool
	if string(peek) == "---" {
		hasFM = true
	}
	var fmBuf strings.Builder
	var bodyBuf strings.Builder

	if hasFM {
		// Consume first line '---' fully
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		// Read until next line that is exactly '---'
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Document{}, err
			}
			if strings.TrimSpace(l) == "---" {
				break
			}
			fmBuf.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
	}
	// The rest is body
	for {
		l, err := br.ReadString('\n')
		bodyBuf.WriteString(l)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Document{}, err
		}
	}

	d := Document{
		Frontmatter: map[string]any{},
		Body:        bodyBuf.String(),
	}

	if hasFM {
		m := map[string]any{}
		if err := yaml.Unmarshal([]byte(fmBuf.String()), &m); err != nil {
			return Document{}, err
		}
		if m != nil {
			d.Frontmatter = m
		}
	}
	return d, nil
}
