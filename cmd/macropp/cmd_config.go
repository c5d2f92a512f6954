package main

import (
	"fmt"

	"macropp/cmd/macropp/macroyaml"

	"github.com/spf13/cobra"
)

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the " + appName + " config file",
		Long:  "Commands for creating and inspecting the " + appName + " config file.",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(o))
	return cmd
}

func newConfigShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: "Print the limits, colour mode and external definitions that a run with\n" +
			"the same flags and environment would use, after merging the config file,\n" +
			"--defs-file entries, $" + envDefines + " and -D flags.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.settings(cmd.Flags())
			if err != nil {
				return err
			}
			data, err := macroyaml.Marshal(documentFor(s))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# config dir: %s\n", s.ConfigDir)
			_, err = out.Write(data)
			return err
		},
	}
}

// documentFor turns merged settings back into a document with every field set.
func documentFor(s settings) macroyaml.Document {
	ident, value, defs := s.Limits.MaxIdentifierLength, s.Limits.MaxValueLength, s.Limits.MaxDefinitions
	return macroyaml.Document{
		Limits: macroyaml.Limits{
			MaxIdentifierLength: &ident,
			MaxValueLength:      &value,
			MaxDefinitions:      &defs,
		},
		Color:   s.Color,
		Defines: s.Arguments,
	}
}
