package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Report maps check names to results, keeping insertion order for display.
type Report struct {
	keys    []string
	results map[string]CheckResult
}

// New creates an empty report.
func New() *Report {
	return &Report{results: make(map[string]CheckResult)}
}

// Set stores a result. Replacing an existing name keeps its original position.
func (r *Report) Set(name string, result CheckResult) {
	if r.results == nil {
		r.results = make(map[string]CheckResult)
	}
	if _, ok := r.results[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.results[name] = result
}

// Get returns the result stored under name.
func (r *Report) Get(name string) (CheckResult, bool) {
	res, ok := r.results[name]
	return res, ok
}

// Names returns check names in display order.
func (r *Report) Names() []string {
	return append([]string{}, r.keys...)
}

func (r *Report) Len() int { return len(r.keys) }

// Merge copies every entry of other into r, in other's order.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	for _, name := range other.keys {
		r.Set(name, other.results[name])
	}
}

// Each calls fn for every entry in display order.
func (r *Report) Each(fn func(name string, result CheckResult)) {
	for _, name := range r.keys {
		fn(name, r.results[name])
	}
}

// MarshalJSON encodes the report as an object whose keys follow display order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := marshal(r.results[name])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, restoring key order.
func (r *Report) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode report: expected object, got %v", tok)
	}
	out := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode report: unexpected key %v", tok)
		}
		var res CheckResult
		if err := dec.Decode(&res); err != nil {
			return fmt.Errorf("decode %q: %w", name, err)
		}
		out.Set(name, res)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = *out
	return nil
}
