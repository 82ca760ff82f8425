package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bgricker/qualitygate/internal/config"
	"github.com/bgricker/qualitygate/internal/report"
)

// Header is the column layout shared by the table and CSV outputs.
var Header = []string{"Check Type", "Status", "Count", "Violations"}

// PrettyRenderer renders a report in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderSummary prints one line per check.
func (p *PrettyRenderer) RenderSummary(rep *report.Report) error {
	if _, err := fmt.Fprintln(p.out, "\n=== Short Form Summary ==="); err != nil {
		return err
	}
	var err error
	rep.Each(func(name string, res report.CheckResult) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(p.out, "%s: %s (%d issues)\n", name, res.Status(), res.Count())
	})
	return err
}

// RenderTable prints a grid with every check and its violations.
func (p *PrettyRenderer) RenderTable(rep *report.Report) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleDefault)
	t.Style().Options.SeparateRows = true
	t.AppendHeader(table.Row{Header[0], Header[1], Header[2], Header[3]})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: Header[2], Align: text.AlignRight},
	})
	rep.Each(func(name string, res report.CheckResult) {
		t.AppendRow(table.Row{name, string(res.Status()), res.Count(), strings.Join(res.ViolationStrings(), "\n")})
	})

	if _, err := fmt.Fprintln(p.out, "\nUnified Summary Report:"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out, t.Render())
	return err
}

// Render prints the short-form summary followed by the full table.
func (p *PrettyRenderer) Render(rep *report.Report) error {
	if err := p.RenderSummary(rep); err != nil {
		return err
	}
	return p.RenderTable(rep)
}

// RenderChecks lists configured checks without running them.
func (p *PrettyRenderer) RenderChecks(scope string, checks []config.CommandCheck, probe func(program string) string) error {
	if _, err := fmt.Fprintf(p.out, "%s\n", scope); err != nil {
		return err
	}
	for _, check := range checks {
		command := strings.Join(check.Command, " ")
		state := ""
		if probe != nil && len(check.Command) > 0 {
			state = " [" + probe(check.Command[0]) + "]"
		}
		if _, err := fmt.Fprintf(p.out, "  • %s: %s%s\n", check.Name, command, state); err != nil {
			return err
		}
	}
	return nil
}
