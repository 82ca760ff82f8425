package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bgricker/qualitygate/internal/report"
)

// JSONRenderer emits the report as indented JSON, keys in display order.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(rep *report.Report) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err := buf.WriteTo(j.out)
	return err
}

// WriteJSON replaces the file at path with the JSON report.
func WriteJSON(path string, rep *report.Report) error {
	return writeFile(path, func(w io.Writer) error { return NewJSON(w).Render(rep) })
}

// ReadJSON loads a report previously written by WriteJSON.
func ReadJSON(path string) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %q: %w", path, err)
	}
	if err := ValidateJSON(data); err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	rep := report.New()
	if err := json.Unmarshal(data, rep); err != nil {
		return nil, fmt.Errorf("decode report %q: %w", path, err)
	}
	return rep, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}
