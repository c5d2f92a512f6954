// Package preprocess drives a macro table over a file in two passes: the
// first collects #define directives, the second writes every other line with
// macros substituted.
package preprocess

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"macropp/cmd/macropp/macro"
)

// Options configures a Preprocessor.
type Options struct {
	Limits   macro.Limits
	Reporter macro.Reporter
}

// Stats summarises one run.
type Stats struct {
	Lines       int // lines written
	Directives  int // directive lines collected in pass 1
	Substituted int // written lines that differ from their input
}

// Preprocessor owns the definition table for one invocation. Its phases must
// be used in order: directives, arguments, resolution, substitution.
type Preprocessor struct {
	Table *macro.Table

	directives int
}

// New returns a Preprocessor with an empty table.
func New(opts Options) *Preprocessor {
	return &Preprocessor{Table: macro.NewTable(opts.Limits, opts.Reporter)}
}

// FeedDirective registers one #define found in the file.
func (p *Preprocessor) FeedDirective(identifier, value string) error {
	p.directives++
	return p.Table.Define(identifier, value, macro.FromDirective)
}

// FeedArgument registers one "-DNAME=VALUE" override.
func (p *Preprocessor) FeedArgument(token string) error {
	return p.Table.Register(token, macro.FromArgument)
}

// FeedArgumentPair registers an override that is already split.
func (p *Preprocessor) FeedArgumentPair(identifier, value string) error {
	return p.Table.Define(identifier, value, macro.FromArgument)
}

// RunResolution resolves definitions that name other definitions.
func (p *Preprocessor) RunResolution() { p.Table.Resolve() }

// SubstituteLine rewrites one non-directive line.
func (p *Preprocessor) SubstituteLine(text string) string { return p.Table.Substitute(text) }

// Collect is pass 1: every directive line in r is fed, in order.
// Diagnostics go to the table's reporter; only read errors are returned.
func (p *Preprocessor) Collect(r io.Reader) error {
	return eachLine(r, func(line string) error {
		if id, value, ok := macro.ParseDirective(line); ok {
			p.FeedDirective(id, value) // reported
		}
		return nil
	})
}

// Emit is pass 2: directive lines are dropped, all others are substituted
// and written to w with their original line ending.
func (p *Preprocessor) Emit(r io.Reader, w io.Writer) (Stats, error) {
	stats := Stats{Directives: p.directives}
	bw := bufio.NewWriter(w)
	err := eachLine(r, func(line string) error {
		if macro.IsDirective(line) {
			return nil
		}
		out := p.SubstituteLine(line)
		stats.Lines++
		if out != line {
			stats.Substituted++
		}
		_, err := bw.WriteString(out)
		return err
	})
	if err != nil {
		return stats, err
	}
	return stats, bw.Flush()
}

// Argument is one external definition, either a raw "-DNAME=VALUE" token or
// an already split pair.
type Argument struct {
	Token      string
	Identifier string
	Value      string
}

// Token wraps a raw -D token.
func Token(tok string) Argument { return Argument{Token: tok} }

// Pair wraps a split definition.
func Pair(identifier, value string) Argument {
	return Argument{Identifier: identifier, Value: value}
}

func (p *Preprocessor) feed(a Argument) error {
	if a.Token != "" {
		return p.FeedArgument(a.Token)
	}
	return p.FeedArgumentPair(a.Identifier, a.Value)
}

// FeedArguments registers args in order. Rejected arguments are reported,
// not returned.
func (p *Preprocessor) FeedArguments(args []Argument) {
	for _, a := range args {
		p.feed(a)
	}
}

// Load runs pass 1 over path, feeds args and resolves. After Load the
// table is ready for substitution.
func (p *Preprocessor) Load(path string, args []Argument) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	if err := p.Collect(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	p.FeedArguments(args)
	p.RunResolution()
	return nil
}

// ProcessFile runs both passes over path, reopening it for the second one.
func (p *Preprocessor) ProcessFile(path string, args []Argument, w io.Writer) (Stats, error) {
	if err := p.Load(path, args); err != nil {
		return Stats{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to reopen input file: %w", err)
	}
	defer f.Close()
	stats, err := p.Emit(f, w)
	if err != nil {
		return stats, fmt.Errorf("processing %s: %w", path, err)
	}
	return stats, nil
}

// eachLine calls fn for every line of r including its trailing "\n", if any.
func eachLine(r io.Reader, fn func(string) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Lines splits s like eachLine does. It is exported for callers that hold
// the whole input in memory.
func Lines(s string) []string {
	var out []string
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
	return out
}
