package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/preprocess"
	"macropp/pkg/lib"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// rootFlags are the flags only the preprocessing command itself takes.
type rootFlags struct {
	output  string
	diff    bool
	verbose bool
	strict  bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	rf := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName + " [flags] FILE",
		Short: "Expand #define macros in a text file",
		Long: "Expand #define macros in a text file.\n\n" +
			"Lines starting with `#define NAME VALUE` define macros and are not written.\n" +
			"Every other line is written with whole-word occurrences of NAME replaced by\n" +
			"its value; text inside single or double quotes is left alone.\n\n" +
			"Definitions given with -DNAME=VALUE (or in the config file, --defs-file, or\n" +
			"$" + envDefines + ") are added after the file's directives and never\n" +
			"override them. A definition whose value names another definition takes that\n" +
			"definition's value; cyclic definitions resolve to 1.\n\n" +
			"-D is a flag shorthand: \"-D NAME=VALUE\" and \"-D=NAME=VALUE\" both mean\n" +
			"-DNAME=VALUE, so \"-D=X\" is read as -DX and reported as missing '='.\n\n" +
			"The config directory follows this priority:\n" +
			"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runRoot(cmd, o, rf, args[0])
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	o.bind(cmd.PersistentFlags())
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "write to FILE instead of stdout")
	cmd.Flags().BoolVar(&rf.diff, "diff", false, "print the changed lines as a diff instead of the output")
	cmd.Flags().BoolVarP(&rf.verbose, "verbose", "v", false, "print a summary to stderr")
	cmd.Flags().BoolVar(&rf.strict, "strict", false, "exit with status 2 when a definition was rejected")

	cmd.AddCommand(newDefsCmd(o))
	cmd.AddCommand(newWhichCmd(o))
	cmd.AddCommand(newReplCmd(o))
	cmd.AddCommand(newConfigCmd(o))
	return cmd
}

func runRoot(cmd *cobra.Command, o *options, rf *rootFlags, path string) error {
	p, rec, s, err := o.newPreprocessor(cmd)
	if err != nil {
		return err
	}
	if rf.output != "" {
		if err := checkOutputPath(path, rf.output); err != nil {
			return err
		}
	}

	// With -o the result is rendered in memory and only written once the
	// input has been read completely.
	stdout := cmd.OutOrStdout()
	var rendered bytes.Buffer
	var w io.Writer = stdout
	if rf.output != "" {
		w = &rendered
	}

	var stats preprocess.Stats
	if rf.diff {
		var out bytes.Buffer
		stats, err = p.ProcessFile(path, s.Arguments, &out)
		if err != nil {
			return err
		}
		before, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to reopen input file: %w", err)
		}
		if _, err := writeDiff(w, string(before), out.String(), rf.output == "" && useColor(s.Color, stdout)); err != nil {
			return err
		}
	} else {
		stats, err = p.ProcessFile(path, s.Arguments, w)
		if err != nil {
			return err
		}
	}

	if rf.output != "" {
		if err := writeOutputFile(rf.output, rendered.Bytes()); err != nil {
			return err
		}
	}

	if rf.verbose {
		printSummary(cmd.ErrOrStderr(), path, p.Table, stats, rec)
	}
	if rf.strict && rec.Errors() > 0 {
		return &lib.ExitError{
			Code: 2,
			Err:  fmt.Errorf("%s definition error(s) reported", humanize.Comma(int64(rec.Errors()))),
		}
	}
	return nil
}

// checkOutputPath rejects an output path that names the input file.
func checkOutputPath(input, output string) error {
	in, err := os.Stat(input)
	if err != nil {
		return nil // reported when the input is opened
	}
	out, err := os.Stat(output)
	if err != nil {
		return nil
	}
	if os.SameFile(in, out) {
		return fmt.Errorf("output file %s is the input file", output)
	}
	return nil
}

// writeOutputFile replaces path with data through a temporary file in the
// same directory. An existing file keeps its permissions.
func writeOutputFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(mode)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, path string, t *macro.Table, stats preprocess.Stats, rec *macro.Recorder) {
	fromDirectives := 0
	for _, d := range t.Definitions() {
		if d.Provenance == macro.FromDirective {
			fromDirectives++
		}
	}
	fmt.Fprintf(w, "%s: %s\n", appName, path)
	fmt.Fprintf(w, "  definitions:  %s (%s from directives, %s directive line(s))\n",
		humanize.Comma(int64(t.Len())), humanize.Comma(int64(fromDirectives)), humanize.Comma(int64(stats.Directives)))
	fmt.Fprintf(w, "  lines:        %s written, %s substituted\n",
		humanize.Comma(int64(stats.Lines)), humanize.Comma(int64(stats.Substituted)))
	fmt.Fprintf(w, "  diagnostics:  %s error(s), %s warning(s)\n",
		humanize.Comma(int64(rec.Errors())), humanize.Comma(int64(rec.Warnings())))
}
