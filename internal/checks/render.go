package checks

import (
	"fmt"
	"io"
)

var statusIcon = map[Status]string{
	StatusOK:   "[ok]  ",
	StatusWarn: "[warn]",
	StatusFail: "[fail]",
}

// Render writes a plain-text view of the report.
func Render(w io.Writer, r Report) error {
	for _, it := range r.Items {
		line := fmt.Sprintf("%s %s", statusIcon[it.Status], it.Label)
		if it.Details != "" {
			line += ": " + it.Details
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	verdict := "ready to publish"
	if !r.Valid {
		verdict = fmt.Sprintf("blocked (%d failing)", len(r.Errors))
	}
	_, err := fmt.Fprintf(w, "Result: %s\n", verdict)
	return err
}
