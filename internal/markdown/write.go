package markdown

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetFields sets namespace.<key> = value in the file's frontmatter for each
// entry of fields. The file is re-read at write time and only those keys are
// touched: other keys, their order and comments, and the body are preserved.
// A missing namespace or frontmatter block is created.
func SetFields(path, namespace string, fields map[string]string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fm, body, hasFM := splitFrontmatter(string(raw))

	var doc yaml.Node
	if hasFM && strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &doc); err != nil {
			return fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	root, err := rootMapping(&doc)
	if err != nil {
		return err
	}
	ns := childMapping(root, namespace)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		setScalar(ns, k, fields[k])
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode frontmatter: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(buf.Bytes())
	out.WriteString("---\n")
	if !hasFM && body != "" && !strings.HasPrefix(body, "\n") {
		out.WriteString("\n")
	}
	out.WriteString(body)
	return writeFileAtomic(path, out.Bytes())
}

// splitFrontmatter splits content into the raw frontmatter text and the
// remainder following the closing delimiter line.
func splitFrontmatter(content string) (fm, body string, ok bool) {
	if !strings.HasPrefix(content, "---") {
		return "", content, false
	}
	nl := strings.IndexByte(content, '\n')
	if nl < 0 {
		return "", "", true
	}
	rest := content[nl+1:]
	pos := 0
	for pos <= len(rest) {
		end := strings.IndexByte(rest[pos:], '\n')
		var line string
		next := len(rest)
		if end < 0 {
			line = rest[pos:]
		} else {
			line = rest[pos : pos+end]
			next = pos + end + 1
		}
		if strings.TrimSpace(line) == "---" {
			return rest[:pos], rest[next:], true
		}
		if end < 0 {
			break
		}
		pos = next
	}
	// Unterminated block: treat all of it as frontmatter, like Parse does.
	return rest, "", true
}

func rootMapping(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind == 0 {
		doc.Kind = yaml.DocumentNode
	}
	if doc.Kind != yaml.DocumentNode {
		return nil, fmt.Errorf("unexpected yaml node kind %d", doc.Kind)
	}
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}
	return root, nil
}

// childMapping returns the mapping stored under key, replacing a null or
// scalar value with an empty mapping.
func childMapping(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		v := m.Content[i+1]
		if v.Kind != yaml.MappingNode {
			v = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			m.Content[i+1] = v
		}
		v.Style &^= yaml.FlowStyle
		return v
	}
	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		v,
	)
	return v
}

func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		old := m.Content[i+1]
		m.Content[i+1] = &yaml.Node{
			Kind:        yaml.ScalarNode,
			Tag:         "!!str",
			Value:       value,
			LineComment: old.LineComment,
		}
		return
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
