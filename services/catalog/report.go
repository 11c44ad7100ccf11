package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Report summarizes one verification run. It is written for humans and
// never parsed back by anything in this repo.
type Report struct {
	RunID     string
	StartedAt time.Time
	Checked   int
	Updated   int
	Changes   []ChangeEvent
	Errors    []FetchError
}

func (e ChangeEvent) String() string {
	if e.Kind == ChangeNew {
		return fmt.Sprintf("NEW: %s - %.1f (%d)", e.ID, e.After.Rating, e.After.Reviews)
	}
	return fmt.Sprintf("UPDATED: %s - %.1f (%d) -> %.1f (%d)",
		e.ID, e.Before.Rating, e.Before.Reviews, e.After.Rating, e.After.Reviews)
}

func (r Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Data Verification Report - %s\n\n", r.StartedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Run: %s\n\n", r.RunID)
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Products checked: %d\n", r.Checked)
	fmt.Fprintf(&b, "- Products updated: %d\n", r.Updated)
	fmt.Fprintf(&b, "- Errors: %d\n\n", len(r.Errors))

	b.WriteString("## Changes\n\n")
	if len(r.Changes) == 0 {
		b.WriteString("- No significant changes detected\n")
	}
	for _, c := range r.Changes {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString("\n## Errors\n\n")
	if len(r.Errors) == 0 {
		b.WriteString("- No errors\n")
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "- %s: %s\n", e.ID, e.Reason)
	}

	fmt.Fprintf(&b, "\n---\nGenerated at %s\n", r.StartedAt.Format(time.RFC3339))
	return b.String()
}
