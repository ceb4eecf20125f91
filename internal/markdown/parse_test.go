package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseWithFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "post.md")
	content := "" +
		"---\n" +
		"title: \"Weekly Notes\"\n" +
		"tags: [go, ghost]\n" +
		"ghost:\n" +
		"  slug: weekly-notes\n" +
		"  post_id: 65f0c0ffee\n" +
		"---\n\n" +
		"# Weekly Notes\n\nBody paragraph with a [link](https://example.com).\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if doc.Path != path {
		t.Errorf("path = %q, want %q", doc.Path, path)
	}
	if doc.Name() != "post" {
		t.Errorf("name = %q, want post", doc.Name())
	}
	for _, k := range []string{"title", "tags", "ghost"} {
		if _, ok := doc.Frontmatter[k]; !ok {
			t.Errorf("missing %s in frontmatter", k)
		}
	}
	ghost, ok := doc.Frontmatter["ghost"].(map[string]any)
	if !ok {
		t.Fatalf("ghost namespace has type %T, want map", doc.Frontmatter["ghost"])
	}
	if ghost["slug"] != "weekly-notes" {
		t.Errorf("ghost.slug = %v", ghost["slug"])
	}
	if wantSub := "# Weekly Notes"; !strings.Contains(doc.Body, wantSub) {
		t.Errorf("body missing expected substring %q; got: %q", wantSub, doc.Body)
	}
	if strings.Contains(doc.Body, "post_id") {
		t.Errorf("frontmatter leaked into body: %q", doc.Body)
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "no_fm.md")
	body := "# Hello\n\nNo frontmatter here.\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if len(doc.Frontmatter) != 0 {
		t.Fatalf("expected empty frontmatter, got: %+v", doc.Frontmatter)
	}
	if doc.Body != body {
		t.Errorf("body mismatch.\nwant: %q\n got: %q", body, doc.Body)
	}
}

func TestParseEmptyFrontmatter(t *testing.T) {
	doc, err := Parse(strings.NewReader("---\n---\nbody\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Frontmatter == nil {
		t.Fatalf("frontmatter must never be nil")
	}
	if doc.Body != "body\n" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse(strings.NewReader("---\ntitle: [unclosed\n---\nbody\n")); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestDocumentName(t *testing.T) {
	cases := map[string]string{
		"notes/note.md":   "note",
		"/abs/My Post.md": "My Post",
		"archive.tar.md":  "archive.tar",
		"":                "",
		"no-extension":    "no-extension",
	}
	for in, want := range cases {
		if got := (Document{Path: in}).Name(); got != want {
			t.Errorf("Name(%q) = %q, want %q", in, got, want)
		}
	}
}
