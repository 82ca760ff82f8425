package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/bgricker/qualitygate/internal/report"
)

// CSVRenderer flattens a report into one row per check.
type CSVRenderer struct {
	out io.Writer
}

// NewCSV creates a CSV renderer writing to out.
func NewCSV(out io.Writer) *CSVRenderer {
	return &CSVRenderer{out: out}
}

// Render writes the header and one row per check; violations are joined by "; ".
func (c *CSVRenderer) Render(rep *report.Report) error {
	w := csv.NewWriter(c.out)
	if err := w.Write(Header); err != nil {
		return err
	}
	var err error
	rep.Each(func(name string, res report.CheckResult) {
		if err != nil {
			return
		}
		err = w.Write([]string{name, string(res.Status()), strconv.Itoa(res.Count()), strings.Join(res.ViolationStrings(), "; ")})
	})
	if err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteCSV replaces the file at path with the CSV report.
func WriteCSV(path string, rep *report.Report) error {
	return writeFile(path, func(w io.Writer) error { return NewCSV(w).Render(rep) })
}
