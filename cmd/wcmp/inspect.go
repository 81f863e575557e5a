package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pthm/wcmp"
	"github.com/pthm/wcmp/lib/generator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <manifest>",
	Short: "Show the element surface a manifest defines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := wcmp.ReadManifest(args[0])
		if err != nil {
			return err
		}
		w, err := generator.Describe(m, "")
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), m, w)
	},
}

// inspect prints the property, attribute and method tables.
func inspect(out io.Writer, m *wcmp.Manifest, w *generator.Wrapper) error {
	mode := m.Mode
	if mode == "" {
		mode = wcmp.Shadow.String()
	}
	title := fmt.Sprintf("<%s> %s", w.Tag, w.Type)
	if m.Extends != "" {
		title = fmt.Sprintf("<%s is=%q> %s", m.Extends, w.Tag, w.Type)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(noteStyle.Render("mode: " + mode))
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Properties"))
	b.WriteString("\n")
	for _, p := range w.Properties {
		line := "  " + nameStyle.Render(p.Name) + "  " + p.GoName + "/Set" + p.GoName
		if p.Event != "" {
			line += noteStyle.Render("  handler for " + p.Event)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(headingStyle.Render("Observed attributes"))
	b.WriteString("\n")
	for _, fs := range m.FieldSpecs {
		if fs.Attr == "" {
			continue
		}
		target := fs.Prop
		if target == "" {
			target = "(attribute only)"
		}
		b.WriteString("  " + nameStyle.Render(strings.ToLower(fs.Attr)) + "  -> " + target + "\n")
	}

	b.WriteString(headingStyle.Render("Methods"))
	b.WriteString("\n")
	for _, mt := range w.Methods {
		b.WriteString("  " + nameStyle.Render(mt.Name) + "  " + mt.GoName + "()\n")
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
