package configure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/toolconf/option"
	"github.com/ardnew/toolconf/pkg"
	"github.com/ardnew/toolconf/tool"
)

// Report is the outcome of a configure run.
type Report struct {
	RunID   string          `json:"run_id"           yaml:"run_id"`
	Tools   []tool.Record   `json:"tools"            yaml:"tools"`
	Options []option.Result `json:"options"          yaml:"options"`
	Checks  []Check         `json:"checks,omitempty" yaml:"checks,omitempty"`
	Unused  []string        `json:"unused,omitempty" yaml:"unused,omitempty,flow"`
}

// Format is an output format of a [Report].
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
	FormatYAML               // yaml
)

var formatNames = [...]string{"text", "json", "yaml"}

// String returns the name of the format.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}

	return formatNames[f]
}

// Formats returns an iterator over the names of all formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatNames {
			if !yield(name) {
				return
			}
		}
	}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Format(i), nil
		}
	}

	return 0, pkg.ErrInvalidFormat.
		With(slog.String("format", s)).
		Wrapf("%q (valid formats are: %s)", s, strings.Join(formatNames[:], ", "))
}

// Write renders the report to w in format f.
func (r *Report) Write(ctx context.Context, w io.Writer, f Format) error {
	var err error

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err = enc.Encode(r)

	case FormatYAML:
		var data []byte

		data, err = yaml.MarshalContext(ctx, r, yaml.Indent(2), yaml.IndentSequence(true))
		if err == nil {
			_, err = w.Write(data)
		}

	case FormatText:
		err = r.writeText(w)

	default:
		return pkg.ErrInvalidFormat.Wrapf("%s", f)
	}

	if err != nil {
		return pkg.ErrWriteReport.
			With(slog.String("format", f.String())).
			Wrap(err)
	}

	return nil
}

func (r *Report) writeText(w io.Writer) error {
	re := lipgloss.NewRenderer(w)
	title := re.NewStyle().Bold(true)
	head := re.NewStyle().Bold(true).Underline(true)
	faint := re.NewStyle().Faint(true)

	var b strings.Builder

	b.WriteString(title.Render("configure run") + " " + faint.Render(r.RunID) + "\n")

	if len(r.Tools) > 0 {
		rows := make([][]string, 0, len(r.Tools))
		for _, t := range r.Tools {
			value := t.Value()
			if value == "" {
				value = "-"
			}

			rows = append(rows, []string{t.Name, value, string(t.Strategy), t.State.String()})
		}

		b.WriteString("\n")
		writeTable(&b, head, []string{"TOOL", "VALUE", "STRATEGY", "STATE"}, rows)
	}

	if len(r.Options) > 0 {
		rows := make([][]string, 0, len(r.Options))
		for _, o := range r.Options {
			given := "default"
			if o.Given {
				given = "given"
			}

			rows = append(rows, []string{o.Name, o.Value, o.Option, given})
		}

		b.WriteString("\n")
		writeTable(&b, head, []string{"RESULT", "VALUE", "OPTION", "SOURCE"}, rows)
	}

	if len(r.Unused) > 0 {
		b.WriteString("\n" + faint.Render("unrecognized options: "+strings.Join(r.Unused, " ")) + "\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// writeTable writes rows as left-aligned columns under a styled header.
func writeTable(b *strings.Builder, head lipgloss.Style, header []string, rows [][]string) {
	width := make([]int, len(header))
	for i, h := range header {
		width[i] = lipgloss.Width(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			width[i] = max(width[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style func(string) string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}

			pad := ""
			if i < len(cells)-1 {
				pad = strings.Repeat(" ", width[i]-lipgloss.Width(cell))
			}

			b.WriteString(style(cell) + pad)
		}

		b.WriteString("\n")
	}

	line(header, func(s string) string { return head.Render(s) })

	for _, row := range rows {
		line(row, func(s string) string { return s })
	}
}
