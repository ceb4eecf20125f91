// Package publisher sequences one publish or update of a note:
// resolve, validate, encode, dispatch, write back.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ghost-publisher/internal/checks"
	"ghost-publisher/internal/ghost"
	"ghost-publisher/internal/markdown"
	"ghost-publisher/internal/metadata"
	"ghost-publisher/internal/storage"
)

// DocumentStore reads a note and writes the remote link back into it.
type DocumentStore interface {
	Load(ctx context.Context, ref string) (markdown.Document, error)
	WriteRemoteLink(ctx context.Context, ref, postID, status string) error
}

// PostAPI is the subset of the Ghost client used to dispatch posts.
type PostAPI interface {
	CreatePost(ctx context.Context, post ghost.Post) (ghost.Result, error)
	UpdatePost(ctx context.Context, id string, post ghost.Post) (ghost.Result, error)
}

// Journal guards one publish in flight per note and keeps a history.
type Journal interface {
	Acquire(ctx context.Context, ref string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, ref string) error
	Record(ctx context.Context, ref string, rec storage.PublishRecord) error
}

// Notifier receives short user-facing messages with a display duration hint.
type Notifier interface {
	Notify(message string, d time.Duration)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, d time.Duration)

func (f NotifierFunc) Notify(message string, d time.Duration) { f(message, d) }

// SchedulePrompt asks for a publication time. It returns ErrPromptCancelled
// when the user backs out.
type SchedulePrompt interface {
	PromptSchedule(ctx context.Context) (time.Time, error)
}

// Options configures a Publisher.
type Options struct {
	Store       DocumentStore
	API         PostAPI
	Credentials ghost.Credentials
	Format      string // ghost.FormatMobiledoc or ghost.FormatHTML
	Journal     Journal
	LockTTL     time.Duration
	Notifier    Notifier
	OnReport    func(checks.Report)
	Now         func() time.Time
}

// Request selects the status of a publish.
type Request struct {
	Status    string
	PublishAt time.Time // required for scheduled
}

// Outcome describes a completed publish.
type Outcome struct {
	Op     string // create or update
	Result ghost.Result
	Report checks.Report
}

type Publisher struct {
	opts Options
}

func New(opts Options) *Publisher {
	if opts.Format == "" {
		opts.Format = ghost.FormatMobiledoc
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 2 * time.Minute
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string, time.Duration) {})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Publisher{opts: opts}
}

// Check resolves and validates the note without touching Ghost.
func (p *Publisher) Check(ctx context.Context, ref string) (checks.Report, metadata.Payload, error) {
	doc, err := p.opts.Store.Load(ctx, ref)
	if err != nil {
		return checks.Report{}, metadata.Payload{}, fmt.Errorf("read note: %w", err)
	}
	pl := metadata.Resolve(doc)
	r := checks.Run(checks.Input{Body: doc.Body, Payload: pl, Credentials: p.opts.Credentials})
	if p.opts.OnReport != nil {
		p.opts.OnReport(r)
	}
	return r, pl, nil
}

// Publish creates or updates the post with the requested status.
func (p *Publisher) Publish(ctx context.Context, ref string, req Request) (Outcome, error) {
	switch req.Status {
	case metadata.StatusDraft, metadata.StatusPublished:
	case metadata.StatusScheduled:
		if req.PublishAt.IsZero() {
			return Outcome{}, ErrScheduleRequired
		}
		if !req.PublishAt.After(p.opts.Now()) {
			return Outcome{}, fmt.Errorf("%w: %s", ErrScheduleInPast, req.PublishAt.Format(time.RFC3339))
		}
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	return p.run(ctx, ref, func(pl metadata.Payload) (string, *string, error) {
		if req.Status == metadata.StatusScheduled {
			at := FormatTimestamp(req.PublishAt)
			return req.Status, &at, nil
		}
		return req.Status, nil, nil
	})
}

// Schedule asks prompt for the time and publishes as scheduled.
func (p *Publisher) Schedule(ctx context.Context, ref string, prompt SchedulePrompt) (Outcome, error) {
	at, err := prompt.PromptSchedule(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return p.Publish(ctx, ref, Request{Status: metadata.StatusScheduled, PublishAt: at})
}

// Update re-sends a linked note keeping its frontmatter status and date.
func (p *Publisher) Update(ctx context.Context, ref string) (Outcome, error) {
	return p.run(ctx, ref, func(pl metadata.Payload) (string, *string, error) {
		if pl.PostID == nil {
			return "", nil, ErrNotLinked
		}
		return pl.Status, pl.PublishedAt, nil
	})
}

// statusFn picks the outbound status and published_at from the payload.
type statusFn func(pl metadata.Payload) (status string, publishedAt *string, err error)

func (p *Publisher) run(ctx context.Context, ref string, pick statusFn) (Outcome, error) {
	release, err := p.lock(ctx, ref)
	if err != nil {
		return Outcome{}, err
	}
	defer release()

	doc, err := p.opts.Store.Load(ctx, ref)
	if err != nil {
		return Outcome{}, fmt.Errorf("read note: %w", err)
	}
	pl := metadata.Resolve(doc)
	status, publishedAt, err := pick(pl)
	if err != nil {
		return Outcome{}, err
	}

	report := checks.Run(checks.Input{Body: doc.Body, Payload: pl, Credentials: p.opts.Credentials})
	if p.opts.OnReport != nil {
		p.opts.OnReport(report)
	}
	if !report.Valid {
		slog.Info("publisher: checks failed", "path", ref, "errors", report.Errors)
		return Outcome{Report: report}, &ValidationError{Errors: report.Errors}
	}

	post, err := BuildPost(pl, doc.Body, status, publishedAt, p.opts.Format)
	if err != nil {
		return Outcome{Report: report}, err
	}

	out := Outcome{Op: "create", Report: report}
	var res ghost.Result
	if pl.PostID != nil {
		out.Op = "update"
		p.opts.Notifier.Notify("Updating Ghost post...", 0)
		slog.Info("publisher: dispatch", "op", out.Op, "path", ref, "post_id", *pl.PostID, "status", status)
		res, err = p.opts.API.UpdatePost(ctx, *pl.PostID, post)
	} else {
		p.opts.Notifier.Notify(fmt.Sprintf("Publishing to Ghost as %s...", status), 0)
		slog.Info("publisher: dispatch", "op", out.Op, "path", ref, "status", status)
		res, err = p.opts.API.CreatePost(ctx, post)
	}
	if err != nil {
		return out, err
	}
	out.Result = res

	rec := storage.PublishRecord{Op: out.Op, PostID: res.ID, Status: res.Status, URL: res.URL, Title: res.Title, At: p.opts.Now().UTC()}
	if err := p.opts.Store.WriteRemoteLink(ctx, ref, res.ID, res.Status); err != nil {
		slog.Error("publisher: write-back failed", "path", ref, "post_id", res.ID, "err", err)
		rec.WriteErr = err.Error()
		p.record(ctx, ref, rec)
		return out, &WriteBackError{Result: res, Err: err}
	}
	p.record(ctx, ref, rec)

	if out.Op == "update" && res.Title != "" {
		p.opts.Notifier.Notify(fmt.Sprintf("Successfully updated: %s", res.Title), 0)
	} else {
		p.opts.Notifier.Notify(fmt.Sprintf("Success: Post is now %s", res.Status), 0)
	}
	slog.Info("publisher: done", "op", out.Op, "path", ref, "post_id", res.ID, "status", res.Status)
	return out, nil
}

func (p *Publisher) lock(ctx context.Context, ref string) (func(), error) {
	if p.opts.Journal == nil {
		return func() {}, nil
	}
	ok, err := p.opts.Journal.Acquire(ctx, ref, p.opts.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire publish lock: %w", err)
	}
	if !ok {
		return nil, ErrPublishInFlight
	}
	return func() {
		// the action's ctx may already be done
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.opts.Journal.Release(rctx, ref); err != nil {
			slog.Warn("publisher: release lock failed", "path", ref, "err", err)
		}
	}, nil
}

func (p *Publisher) record(ctx context.Context, ref string, rec storage.PublishRecord) {
	if p.opts.Journal == nil {
		return
	}
	if err := p.opts.Journal.Record(ctx, ref, rec); err != nil {
		slog.Warn("publisher: record history failed", "path", ref, "err", err)
	}
}

// BuildPost assembles the outbound post. The body is sent trimmed and
// otherwise untouched, wrapped in mobiledoc or a markdown-card div.
func BuildPost(pl metadata.Payload, body, status string, publishedAt *string, format string) (ghost.Post, error) {
	content := strings.TrimSpace(body)
	post := ghost.Post{
		Title:         pl.Title,
		Slug:          pl.Slug,
		Status:        status,
		Excerpt:       pl.Excerpt,
		CustomExcerpt: pl.Excerpt,
		Tags:          pl.Tags,
		FeatureImage:  pl.FeatureImage,
		CanonicalURL:  pl.CanonicalURL,
		Visibility:    pl.Visibility,
		PublishedAt:   publishedAt,
	}
	if post.Tags == nil {
		post.Tags = []ghost.Tag{}
	}
	switch format {
	case ghost.FormatHTML:
		post.HTML = ghost.WrapHTML(content)
	case ghost.FormatMobiledoc, "":
		md, err := ghost.EncodeMarkdown(content)
		if err != nil {
			return ghost.Post{}, err
		}
		post.Mobiledoc = md
	default:
		return ghost.Post{}, errors.New("unknown content format " + format)
	}
	return post, nil
}

// FormatTimestamp renders t as a UTC ISO-8601 timestamp with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
