package main

import (
	"errors"
	"fmt"
	"strings"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/preprocess"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

func newWhichCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "which FILE [NAME]",
		Short: "Explain where a definition's value comes from",
		Long: "Load FILE and the external definitions, then print the provenance, raw\n" +
			"value, resolved value and resolution chain of NAME. Without NAME the\n" +
			"definition is picked with a fuzzy finder.",
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			if len(args) > 1 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeIdentifiers(cmd, o, args[0], toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, s, err := o.newPreprocessor(cmd)
			if err != nil {
				return err
			}
			if err := p.Load(args[0], s.Arguments); err != nil {
				return err
			}

			var name string
			if len(args) == 2 {
				name = args[1]
			} else {
				name, err = pickDefinition(p.Table)
				if err != nil {
					return err
				}
			}

			d, ok := p.Table.Lookup(name)
			if !ok {
				return fmt.Errorf("%q is not defined in %s or the external definitions", name, args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), explain(p.Table, d))
			return nil
		},
	}
}

// pickDefinition lets the user select a definition interactively.
func pickDefinition(t *macro.Table) (string, error) {
	defs := t.Definitions()
	if len(defs) == 0 {
		return "", errors.New("no definitions to choose from")
	}
	idx, err := fuzzyfinder.Find(
		defs,
		func(i int) string {
			return defs[i].Identifier
		},
		fuzzyfinder.WithPromptString("Select definition: "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			return explain(t, defs[i])
		}),
	)
	if err != nil {
		return "", err
	}
	return defs[idx].Identifier, nil
}

// completeIdentifiers returns the identifiers defined for file that start
// with prefix. Diagnostics are discarded so completion stays quiet.
func completeIdentifiers(cmd *cobra.Command, o *options, file, prefix string) []string {
	s, err := o.settings(cmd.Flags())
	if err != nil {
		return nil
	}
	p := preprocess.New(preprocess.Options{Limits: s.Limits})
	if err := p.Load(file, s.Arguments); err != nil {
		return nil
	}
	var out []string
	for _, d := range p.Table.Definitions() {
		if strings.HasPrefix(d.Identifier, prefix) {
			out = append(out, d.Identifier)
		}
	}
	return out
}
