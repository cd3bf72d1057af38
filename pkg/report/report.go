// Package report collects per-item outcomes of a dispatch and renders the
// bounded summaries shown in notifications.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/errors"
)

// Default caps for summaries
const (
	DefaultSuccessCap = 5
	DefaultFailureCap = 3
)

// Status of one processed item
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusFailed {
		return "failed"
	}
	return "succeeded"
}

// Outcome is the result for one input path. Path is always the path the
// user selected, even when the file was renamed while processing.
type Outcome struct {
	Path   string
	Status Status
	Err    error
	// Message is an optional line shown next to the item, such as a link
	Message string
}

// Name returns the base name of the item
func (o Outcome) Name() string {
	return filepath.Base(o.Path)
}

// Overall classification of a run
type Overall int

const (
	OverallEmpty Overall = iota
	OverallSuccess
	OverallPartial
	OverallFailure
)

func (o Overall) String() string {
	switch o {
	case OverallSuccess:
		return "success"
	case OverallPartial:
		return "partial"
	case OverallFailure:
		return "failure"
	default:
		return "empty"
	}
}

// Results accumulates outcomes in input order
type Results struct {
	items []Outcome
}

// Succeed records a successful item
func (r *Results) Succeed(path, message string) {
	r.items = append(r.items, Outcome{Path: path, Status: StatusSucceeded, Message: message})
}

// Fail records a failed item
func (r *Results) Fail(path string, err error) {
	r.items = append(r.items, Outcome{Path: path, Status: StatusFailed, Err: err})
}

// All returns every outcome
func (r *Results) All() []Outcome {
	return append([]Outcome(nil), r.items...)
}

// Successes returns the successful outcomes
func (r *Results) Successes() []Outcome {
	return r.filter(StatusSucceeded)
}

// Failures returns the failed outcomes
func (r *Results) Failures() []Outcome {
	return r.filter(StatusFailed)
}

// Len returns the number of recorded outcomes
func (r *Results) Len() int { return len(r.items) }

// Classify returns the overall status of the run
func (r *Results) Classify() Overall {
	failed := len(r.Failures())
	switch {
	case len(r.items) == 0:
		return OverallEmpty
	case failed == 0:
		return OverallSuccess
	case failed == len(r.items):
		return OverallFailure
	default:
		return OverallPartial
	}
}

// Err returns an ITEM_FAILED error when every item failed, nil otherwise
func (r *Results) Err() error {
	if r.Classify() != OverallFailure {
		return nil
	}
	failures := r.Failures()
	return errors.Newf(errors.ErrItemFailed, "all %d items failed", len(failures)).
		WithDetail("first", failures[0].Path)
}

func (r *Results) filter(status Status) []Outcome {
	var out []Outcome
	for _, item := range r.items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out
}

// Summarize lists item names in bold, one per line. Past limit it shows the
// first limit names and a "... and N more items" line. A limit below one
// means DefaultSuccessCap.
func Summarize(items []Outcome, limit int) string {
	return bounded(items, limit, DefaultSuccessCap, func(o Outcome) string {
		line := "• <b>" + o.Name() + "</b>"
		if o.Message != "" {
			line += " " + o.Message
		}
		return line
	})
}

// FailureDetail lists failed items with the reason each failed
func FailureDetail(items []Outcome, limit int) string {
	return bounded(items, limit, DefaultFailureCap, func(o Outcome) string {
		return fmt.Sprintf("• <b>%s</b>: %s", o.Name(), errors.Describe(o.Err))
	})
}

func bounded(items []Outcome, limit, fallback int, line func(Outcome) string) string {
	if limit < 1 {
		limit = fallback
	}
	shown := items
	if len(items) > limit {
		shown = items[:limit]
	}
	lines := make([]string, 0, len(shown)+1)
	for _, item := range shown {
		lines = append(lines, line(item))
	}
	if extra := len(items) - len(shown); extra > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more items", extra))
	}
	return strings.Join(lines, "\n")
}
