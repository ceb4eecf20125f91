// Package metadata maps a document's frontmatter and body onto the fields
// sent to Ghost.
package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ghost-publisher/internal/ghost"
	"ghost-publisher/internal/markdown"
)

const (
	VisibilityPublic = "public"

	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

var reHeading = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t\r]*$`)

// Payload is the resolved field set for one publish attempt. Nullable fields
// are pointers so the keys are always present (as null) when serialized.
type Payload struct {
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Excerpt      string      `json:"excerpt"`
	Tags         []ghost.Tag `json:"tags"`
	FeatureImage *string     `json:"feature_image"`
	CanonicalURL *string     `json:"canonical_url"`
	Visibility   string      `json:"visibility"`
	PublishedAt  *string     `json:"published_at"`
	Status       string      `json:"status"`
	PostID       *string     `json:"post_id"`
}

// Resolve derives the payload from the document. It does no I/O.
func Resolve(doc markdown.Document) Payload {
	fm := doc.Frontmatter
	ns := namespace(fm)

	title := ResolveTitle(str(ns, "title"), doc.Body, doc.Name())
	slug := str(ns, "slug")
	if slug == "" {
		slug = Slugify(title)
	}
	excerpt := str(ns, "excerpt")
	if excerpt == "" {
		excerpt = str(fm, "excerpt")
	}
	visibility := str(ns, "visibility")
	if visibility == "" {
		visibility = VisibilityPublic
	}
	status := str(ns, "status")
	if status == "" {
		status = StatusDraft
	}

	return Payload{
		Title:        title,
		Slug:         slug,
		Excerpt:      excerpt,
		Tags:         ResolveTags(ns["tags"], fm["tags"]),
		FeatureImage: optional(ns, "feature_image"),
		CanonicalURL: optional(ns, "canonical_url"),
		Visibility:   visibility,
		PublishedAt:  optional(ns, "published_at"),
		Status:       status,
		PostID:       optional(ns, "post_id"),
	}
}

// ResolveTitle picks the first non-blank of: explicit title, first top-level
// heading in body, filename.
func ResolveTitle(explicit, body, filename string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if h, ok := FirstHeading(body); ok {
		return h
	}
	return filename
}

// FirstHeading returns the text of the first "# heading" line in body.
func FirstHeading(body string) (string, bool) {
	for _, m := range reHeading.FindAllStringSubmatch(body, -1) {
		if h := strings.TrimSpace(m[1]); h != "" {
			return h, true
		}
	}
	return "", false
}

// ResolveTags prefers the namespaced list over the generic one. A bare string
// becomes a one-element list; order and duplicates are kept.
func ResolveTags(explicit, generic any) []ghost.Tag {
	raw := explicit
	if isEmpty(raw) {
		raw = generic
	}
	var names []string
	switch v := raw.(type) {
	case nil:
	case string:
		if v != "" {
			names = []string{v}
		}
	case []string:
		names = v
	case []any:
		for _, it := range v {
			if it == nil {
				continue
			}
			names = append(names, scalar(it))
		}
	default:
		names = []string{scalar(v)}
	}
	tags := make([]ghost.Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, ghost.Tag{Name: n})
	}
	return tags
}

func namespace(fm map[string]any) map[string]any {
	if m, ok := fm[markdown.DefaultNamespace].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

func str(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return scalar(v)
}

func optional(m map[string]any, key string) *string {
	s := str(m, key)
	if s == "" {
		return nil
	}
	return &s
}

// scalar renders YAML scalars (numbers, dates, bools) as strings.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
