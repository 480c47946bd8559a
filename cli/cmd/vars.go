package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/toolconf/configure"
	"github.com/ardnew/toolconf/manifest"
	"github.com/ardnew/toolconf/pkg"
)

// Vars lists the tool variables and options a manifest declares. Nothing
// is resolved.
type Vars struct {
	Sort bool `help:"Sort entries by name instead of declaration order."`

	Manifest string `arg:"" default:"${manifest}" help:"Manifest file." optional:"" type:"path"`
}

// Run executes the vars command.
func (v *Vars) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := manifest.LoadFile(v.Manifest)
	if err != nil {
		return err
	}

	calls, err := m.Calls()
	if err != nil {
		return err
	}

	entries, err := configure.New(configure.WithManifest(m)).Help(ctx, calls)
	if err != nil {
		return err
	}

	if v.Sort {
		var help pkg.Help
		for _, e := range entries {
			help.Add(e.Name, e.Text)
		}

		entries = help.Sorted()
	}

	return writeHelp(ctx, entries)
}

// writeHelp prints entries as two aligned columns.
func writeHelp(ctx context.Context, entries []pkg.HelpEntry) error {
	w := stdout(ctx)
	name := lipgloss.NewRenderer(w).NewStyle().Bold(true)

	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Name))
	}

	var b strings.Builder

	for _, e := range entries {
		pad := strings.Repeat(" ", width-lipgloss.Width(e.Name)+2)
		b.WriteString("  " + name.Render(e.Name) + pad + e.Text + "\n")
	}

	_, err := fmt.Fprint(w, b.String())

	return err
}
