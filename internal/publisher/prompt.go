package publisher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// inputLayouts are the accepted publication time formats, tried in order.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTime parses a publication time. Layouts without a zone are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or \"2006-01-02 15:04\"", s)
}

// FixedPrompt answers with a time chosen up front, e.g. from a flag.
type FixedPrompt time.Time

func (f FixedPrompt) PromptSchedule(ctx context.Context) (time.Time, error) {
	return time.Time(f), nil
}

// LinePrompt asks on Out and reads one line from In. An empty line cancels.
type LinePrompt struct {
	In  io.Reader
	Out io.Writer
	Loc *time.Location
}

func (p LinePrompt) PromptSchedule(ctx context.Context) (time.Time, error) {
	if p.Out != nil {
		fmt.Fprint(p.Out, "Publication date & time (YYYY-MM-DD HH:MM, empty to cancel): ")
	}
	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case a := <-ch:
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return time.Time{}, a.err
		}
		if strings.TrimSpace(a.line) == "" {
			return time.Time{}, ErrPromptCancelled
		}
		return ParseTime(a.line, p.Loc)
	}
}
