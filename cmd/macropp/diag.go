package main

import (
	"fmt"
	"io"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/preprocess"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// diagnosticPrinter writes diagnostics to stderr as
// "macropp: error: ..." or "macropp: warning: ...".
type diagnosticPrinter struct {
	w     io.Writer
	quiet bool

	styleErr  lipgloss.Style
	styleWarn lipgloss.Style
}

// newRenderer returns a lipgloss renderer for w with colour forced on or off.
func newRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func newDiagnosticPrinter(w io.Writer, quiet, color bool) *diagnosticPrinter {
	r := newRenderer(w, color)
	return &diagnosticPrinter{
		w:         w,
		quiet:     quiet,
		styleErr:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		styleWarn: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}

func (p *diagnosticPrinter) Report(d macro.Diagnostic) {
	label := p.styleErr.Render(d.Severity.String())
	if d.Severity == macro.SeverityWarning {
		if p.quiet {
			return
		}
		label = p.styleWarn.Render(d.Severity.String())
	}
	fmt.Fprintf(p.w, "%s: %s: %s\n", appName, label, d.Message)
}

// newPreprocessor merges the settings for cmd and returns an empty
// preprocessor whose diagnostics are both printed and recorded.
func (o *options) newPreprocessor(cmd *cobra.Command) (*preprocess.Preprocessor, *macro.Recorder, settings, error) {
	s, err := o.settings(cmd.Flags())
	if err != nil {
		return nil, nil, settings{}, err
	}
	stderr := cmd.ErrOrStderr()
	rec := &macro.Recorder{
		Next: newDiagnosticPrinter(stderr, o.quiet, useColor(s.Color, stderr)),
	}
	p := preprocess.New(preprocess.Options{Limits: s.Limits, Reporter: rec})
	return p, rec, s, nil
}
