package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Status classifies the outcome of a single check.
type Status string

const (
	StatusPassed       Status = "Passed"
	StatusFailed       Status = "Failed"
	StatusNotInstalled Status = "Tool Not Installed"
	StatusError        Status = "Error"
)

// ErrCountMismatch is returned when a decoded result reports a count that does
// not match its violations.
var ErrCountMismatch = errors.New("count does not match violations")

// TestOutcome records a single test invocation. Fields are optional so the
// same shape covers per-file runs, UI tool runs and the missing-folder sentinel.
type TestOutcome struct {
	File        string  `json:"file,omitempty"`
	Tool        string  `json:"tool,omitempty"`
	Status      Status  `json:"status,omitempty"`
	ElapsedTime float64 `json:"elapsed_time,omitempty"`
	Log         string  `json:"log,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// HasStatus reports whether the outcome carries a status at all.
func (o TestOutcome) HasStatus() bool {
	return o.Status != ""
}

type testOutcomeJSON struct {
	File        string   `json:"file,omitempty"`
	Tool        string   `json:"tool,omitempty"`
	Status      Status   `json:"status,omitempty"`
	ElapsedTime *float64 `json:"elapsed_time,omitempty"`
	Log         *string  `json:"log,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// MarshalJSON always writes elapsed_time and log for completed runs, even when
// they are zero. Error records and the missing-folder sentinel omit them.
func (o TestOutcome) MarshalJSON() ([]byte, error) {
	out := testOutcomeJSON{File: o.File, Tool: o.Tool, Status: o.Status, Error: o.Error}
	if o.HasStatus() && o.Error == "" {
		elapsed, log := o.ElapsedTime, o.Log
		out.ElapsedTime = &elapsed
		out.Log = &log
	}
	return marshal(out)
}

// Violation is either a plain text line or a structured test record.
type Violation struct {
	Text   string
	Record *TestOutcome
}

// Line builds a text violation.
func Line(text string) Violation {
	return Violation{Text: text}
}

// Record builds a structured violation from a test outcome.
func Record(outcome TestOutcome) Violation {
	o := outcome
	return Violation{Record: &o}
}

// Lines converts text lines into violations.
func Lines(lines []string) []Violation {
	out := make([]Violation, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line(l))
	}
	return out
}

// String renders the violation as a single text value; records use their
// compact JSON form.
func (v Violation) String() string {
	if v.Record == nil {
		return v.Text
	}
	data, err := marshal(v.Record)
	if err != nil {
		return fmt.Sprintf("%+v", *v.Record)
	}
	return string(data)
}

// MarshalJSON encodes text violations as strings and records as objects.
func (v Violation) MarshalJSON() ([]byte, error) {
	if v.Record != nil {
		return marshal(v.Record)
	}
	return marshal(v.Text)
}

// marshal encodes v compactly without escaping HTML characters, so tool logs
// keep their "<", ">" and "&" as written.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON accepts either a string or an object.
func (v *Violation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var rec TestOutcome
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode violation record: %w", err)
		}
		*v = Violation{Record: &rec}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("decode violation: %w", err)
	}
	*v = Violation{Text: text}
	return nil
}

// CheckResult captures the outcome of one named check.
type CheckResult struct {
	status     Status
	violations []Violation
}

// NewResult creates a result; the count always equals len(violations).
func NewResult(status Status, violations []Violation) CheckResult {
	return CheckResult{status: status, violations: append([]Violation{}, violations...)}
}

// Judge creates a result that passes only when there are no violations.
func Judge(violations []Violation) CheckResult {
	if len(violations) == 0 {
		return NewResult(StatusPassed, nil)
	}
	return NewResult(StatusFailed, violations)
}

func (r CheckResult) Status() Status { return r.status }

func (r CheckResult) Count() int { return len(r.violations) }

// Violations returns a copy of the violation list.
func (r CheckResult) Violations() []Violation {
	return append([]Violation{}, r.violations...)
}

// ViolationStrings renders every violation as text.
func (r CheckResult) ViolationStrings() []string {
	out := make([]string, 0, len(r.violations))
	for _, v := range r.violations {
		out = append(out, v.String())
	}
	return out
}

type checkResultJSON struct {
	Status     Status      `json:"status"`
	Violations []Violation `json:"violations"`
	Count      int         `json:"count"`
}

func (r CheckResult) MarshalJSON() ([]byte, error) {
	violations := r.violations
	if violations == nil {
		violations = []Violation{}
	}
	return marshal(checkResultJSON{Status: r.status, Violations: violations, Count: len(violations)})
}

func (r *CheckResult) UnmarshalJSON(data []byte) error {
	var raw checkResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Count != len(raw.Violations) {
		return fmt.Errorf("%w: count %d, %d violations", ErrCountMismatch, raw.Count, len(raw.Violations))
	}
	*r = NewResult(raw.Status, raw.Violations)
	return nil
}
