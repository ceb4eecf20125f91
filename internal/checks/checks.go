// Package checks runs the pre-publish rules over a resolved document and
// produces an ok/warn/fail report.
package checks

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"ghost-publisher/internal/ghost"
	"ghost-publisher/internal/metadata"
)

// Status is the verdict of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// MinContentLength is the recommended minimum trimmed body length.
const MinContentLength = 100

var (
	reImageURL = regexp.MustCompile(`(?i)^(https?://)[^\s$.?#].[^\s]*$`)
	reLink     = regexp.MustCompile(`\[.*?\]\((.*?)\)`)
)

// Item is the outcome of one rule.
type Item struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Details string `json:"details,omitempty"`
}

// Report aggregates the items of one run.
type Report struct {
	Valid  bool     `json:"is_valid"`
	Items  []Item   `json:"items"`
	Errors []string `json:"errors"`
}

// NewReport derives validity and the error list from items.
func NewReport(items []Item) Report {
	r := Report{Valid: true, Items: items, Errors: []string{}}
	for _, it := range items {
		if it.Status != StatusFail {
			continue
		}
		r.Valid = false
		if it.Details != "" {
			r.Errors = append(r.Errors, it.Details)
		} else {
			r.Errors = append(r.Errors, it.Label)
		}
	}
	return r
}

// Input is everything the rules look at.
type Input struct {
	Body        string
	Payload     metadata.Payload
	Credentials ghost.Credentials
}

// Rule evaluates one check. A rule returns ok=false when it does not apply.
type Rule func(in Input) (item Item, ok bool)

// Rules is the fixed, ordered battery run by Run.
var Rules = []Rule{
	CheckTitle,
	CheckHeading,
	CheckLength,
	CheckFeatureImage,
	CheckExcerpt,
	CheckLinks,
	CheckConfig,
}

// Run evaluates every rule in order.
func Run(in Input) Report {
	items := make([]Item, 0, len(Rules))
	for _, rule := range Rules {
		if it, ok := rule(in); ok {
			items = append(items, it)
		}
	}
	return NewReport(items)
}

func CheckTitle(in Input) (Item, bool) {
	it := Item{ID: "title", Label: "Resolved Title"}
	if strings.TrimSpace(in.Payload.Title) != "" {
		it.Status = StatusOK
		it.Details = fmt.Sprintf("Title: %q", in.Payload.Title)
	} else {
		it.Status = StatusFail
		it.Details = "No title could be found in frontmatter, H1, or filename."
	}
	return it, true
}

func CheckHeading(in Input) (Item, bool) {
	it := Item{ID: "h1", Label: "H1 Header"}
	if _, ok := metadata.FirstHeading(in.Body); ok {
		it.Status = StatusOK
		it.Details = "Found top-level H1 header."
	} else {
		it.Status = StatusFail
		it.Details = "No H1 (# Header) found in content. Ghost usually expects an H1."
	}
	return it, true
}

func CheckLength(in Input) (Item, bool) {
	it := Item{ID: "length", Label: "Content Length"}
	n := utf8.RuneCountInString(strings.TrimSpace(in.Body))
	if n >= MinContentLength {
		it.Status = StatusOK
		it.Details = fmt.Sprintf("%d characters.", n)
	} else {
		it.Status = StatusWarn
		it.Details = fmt.Sprintf("Note is very short (%d chars). Minimal recommended is %d.", n, MinContentLength)
	}
	return it, true
}

// CheckFeatureImage is skipped when no feature image is set.
func CheckFeatureImage(in Input) (Item, bool) {
	if in.Payload.FeatureImage == nil || *in.Payload.FeatureImage == "" {
		return Item{}, false
	}
	it := Item{ID: "image", Label: "Feature Image"}
	if reImageURL.MatchString(*in.Payload.FeatureImage) {
		it.Status = StatusOK
		it.Details = "Valid URL format."
	} else {
		it.Status = StatusWarn
		it.Details = "URL format seems invalid (must start with http/https)."
	}
	return it, true
}

func CheckExcerpt(in Input) (Item, bool) {
	it := Item{ID: "excerpt", Label: "Excerpt"}
	if strings.TrimSpace(in.Payload.Excerpt) != "" {
		it.Status = StatusOK
	} else {
		it.Status = StatusWarn
		it.Details = "No excerpt provided. Ghost will auto-generate one."
	}
	return it, true
}

// CheckLinks warns on the first link with a broken protocol or an unexpected
// target; it does not list every offender.
func CheckLinks(in Input) (Item, bool) {
	it := Item{ID: "links", Label: "Link Validation", Status: StatusOK, Details: "Standard links check passed."}
	for _, m := range reLink.FindAllStringSubmatch(in.Body, -1) {
		if suspiciousLink(m[1]) {
			it.Status = StatusWarn
			it.Details = fmt.Sprintf("Some links look suspicious (e.g. %q: \"http//\" typo or broken protocol).", m[1])
			break
		}
	}
	return it, true
}

func suspiciousLink(target string) bool {
	if strings.Contains(target, "http//") || strings.Contains(target, "https//") {
		return true
	}
	return !strings.HasPrefix(target, "http") && !strings.HasPrefix(target, "#") && !strings.HasPrefix(target, "/")
}

func CheckConfig(in Input) (Item, bool) {
	it := Item{ID: "config", Label: "Ghost Config"}
	if in.Credentials.Complete() {
		it.Status = StatusOK
		it.Details = "Ghost site URL and Admin API key are set."
	} else {
		it.Status = StatusFail
		it.Details = "Ghost URL or API Key missing in settings."
	}
	return it, true
}
