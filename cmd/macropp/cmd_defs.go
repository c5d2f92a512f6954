package main

import (
	"fmt"
	"io"
	"strings"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/macroyaml"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newDefsCmd(o *options) *cobra.Command {
	var (
		noTUI  bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "defs FILE",
		Short: "Show the resolved definition table of FILE",
		Long: "Load FILE's directives and the external definitions, resolve them and\n" +
			"show the table: identifier, resolved value, raw value and provenance.\n\n" +
			"An interactive table is shown when stdout is a terminal; use --no-tui or a\n" +
			"pipe for plain text, or --format yaml.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, s, err := o.newPreprocessor(cmd)
			if err != nil {
				return err
			}
			if err := p.Load(args[0], s.Arguments); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				data, err := macroyaml.MarshalDefinitions(p.Table.Definitions())
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "text":
				if noTUI || !isTerminal(out) {
					printDefinitions(out, p.Table.Definitions())
					return nil
				}
				prog := tea.NewProgram(newDefsModel(args[0], p.Table), tea.WithAltScreen())
				_, err := prog.Run()
				return err
			default:
				return fmt.Errorf("invalid --format %q (want text or yaml)", format)
			}
		},
	}
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "plain text output without the interactive table")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

// printDefinitions writes the table as aligned columns.
func printDefinitions(w io.Writer, defs []macro.Definition) {
	idW, valW, rawW := len("IDENTIFIER"), len("VALUE"), len("RAW")
	for _, d := range defs {
		idW = max(idW, len(d.Identifier))
		valW = max(valW, len(d.Value))
		rawW = max(rawW, len(d.Raw))
	}
	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", idW, "IDENTIFIER", valW, "VALUE", rawW, "RAW", "SOURCE")
	fmt.Fprintln(w, strings.Repeat("-", idW+valW+rawW+len("SOURCE")+6))
	for _, d := range defs {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", idW, d.Identifier, valW, d.Value, rawW, d.Raw, d.Provenance)
	}
}
