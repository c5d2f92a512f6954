package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/preprocess"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

const replHelp = `Lines are substituted and printed. Commands:
  #define NAME VALUE   add a directive definition
  :define -DNAME=VALUE add argument definitions (shell quoting applies)
  :defs                list the definition table
  :help                show this help
  :quit                leave
`

func newReplCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl [FILE]",
		Short: "Substitute lines interactively",
		Long: "Start an interactive session. FILE's directives and the external\n" +
			"definitions are loaded first; every line typed is then substituted and\n" +
			"printed. Type :help for the session commands.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, s, err := o.newPreprocessor(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := p.Load(args[0], s.Arguments); err != nil {
					return err
				}
			} else {
				p.FeedArguments(s.Arguments)
				p.RunResolution()
			}

			cfg := &readline.Config{
				Prompt:          appName + "> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			}
			if fi, err := os.Stat(s.ConfigDir); err == nil && fi.IsDir() {
				cfg.HistoryFile = filepath.Join(s.ConfigDir, "history")
			}
			rl, err := readline.NewEx(cfg)
			if err != nil {
				return fmt.Errorf("starting line editor: %w", err)
			}
			defer rl.Close()

			session := &replSession{p: p, out: rl.Stdout()}
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if line == "" {
						return nil
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if err := session.eval(line); errors.Is(err, errQuit) {
					return nil
				}
			}
		},
	}
}

var errQuit = errors.New("quit")

// replSession evaluates one input line at a time against a loaded table.
type replSession struct {
	p   *preprocess.Preprocessor
	out io.Writer
}

// eval handles one line. It returns errQuit on :quit; every other problem is
// printed and the session goes on.
func (r *replSession) eval(line string) error {
	if id, value, ok := macro.ParseDirective(line); ok {
		r.p.FeedDirective(id, value) // reported
		r.p.RunResolution()
		return nil
	}
	if !strings.HasPrefix(line, ":") {
		fmt.Fprintln(r.out, r.p.SubstituteLine(line))
		return nil
	}

	command, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch command {
	case ":quit", ":q":
		return errQuit
	case ":help", ":h":
		fmt.Fprint(r.out, replHelp)
	case ":defs":
		printDefinitions(r.out, r.p.Table.Definitions())
	case ":define":
		words, err := shellquote.Split(rest)
		if err != nil {
			fmt.Fprintf(r.out, "%s: %v\n", appName, err)
			return nil
		}
		for _, w := range words {
			if !strings.HasPrefix(w, "-D") {
				w = "-D" + w
			}
			r.p.FeedArgument(w) // reported
		}
		r.p.RunResolution()
	default:
		fmt.Fprintf(r.out, "%s: unknown command %s (try :help)\n", appName, command)
	}
	return nil
}
