package publisher

import (
	"errors"
	"fmt"
	"strings"

	"ghost-publisher/internal/ghost"
)

var (
	ErrValidationFailed = errors.New("pre-publish checks failed")
	ErrWriteBackFailed  = errors.New("frontmatter write-back failed")
	ErrNotLinked        = errors.New("note has no ghost.post_id")
	ErrPublishInFlight  = errors.New("a publish of this note is already in progress")
	ErrScheduleRequired = errors.New("scheduled publish requires a publication time")
	ErrScheduleInPast   = errors.New("publication time must be in the future")
	ErrPromptCancelled  = errors.New("schedule cancelled")
	ErrInvalidStatus    = errors.New("invalid publish status")
)

// ValidationError carries the failing check messages in rule order.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, ". ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// WriteBackError means the remote action succeeded but the local frontmatter
// could not be updated.
type WriteBackError struct {
	Result ghost.Result
	Err    error
}

func (e *WriteBackError) Error() string {
	return fmt.Sprintf("post %s is %s on Ghost, but writing ghost.post_id to the note failed: %v", e.Result.ID, e.Result.Status, e.Err)
}

func (e *WriteBackError) Unwrap() []error { return []error{ErrWriteBackFailed, e.Err} }

// Describe maps a failure to a short user-facing message and the raw detail.
func Describe(err error) (short, detail string) {
	if err == nil {
		return "", ""
	}
	detail = err.Error()
	var wb *WriteBackError
	var ve *ValidationError
	switch {
	case errors.As(err, &wb):
		short = fmt.Sprintf("Published to Ghost as %s (id %s), but updating the note failed. Add ghost.post_id: %s to the frontmatter to avoid a duplicate post.",
			wb.Result.Status, wb.Result.ID, wb.Result.ID)
	case errors.As(err, &ve):
		short = "Pre-publish checks failed: " + ve.Error()
	case errors.Is(err, ghost.ErrInvalidCredentialFormat), errors.Is(err, ghost.ErrInvalidSecretEncoding):
		short = detail
	case errors.Is(err, ghost.ErrAuthenticationFailed):
		short = "Authentication Failed: Please check if your Admin API Key is valid and has correct permissions."
	case errors.Is(err, ghost.ErrNotFound):
		short = "Not Found: Check if your Ghost Site URL is correct or if the Post ID still exists."
	case errors.Is(err, ghost.ErrTimeout):
		short = "Timeout: Ghost did not answer in time. Check the site and try again."
	case errors.Is(err, ghost.ErrNetworkUnreachable):
		short = "Network Error: Could not reach the Ghost server. Check your URL and internet connection."
	case errors.Is(err, ErrNotLinked):
		short = "This note has no ghost.post_id. Use a publish command first."
	case errors.Is(err, ErrPublishInFlight):
		short = "Another publish of this note is already in progress."
	default:
		short = detail
	}
	return short, detail
}
