package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/macroyaml"
	"macropp/cmd/macropp/preprocess"

	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "macropp"

const configFileName = "config.yml"

// Derived env var names, computed once at init from appName.
var (
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
	envDefines   = strings.ToUpper(appName) + "_DEFINES"
)

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads <dir>/config.yml. A missing file yields an empty document.
func loadConfig(dir string) (macroyaml.Document, error) {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return macroyaml.Document{}, nil
	}
	if err != nil {
		return macroyaml.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := macroyaml.Parse(data)
	if err != nil {
		return macroyaml.Document{}, fmt.Errorf("file=%s: %w", path, err)
	}
	return doc, nil
}

// loadDefsFile reads the defines of an explicitly named definitions file.
// Unlike the config file it must exist.
func loadDefsFile(path string) ([]preprocess.Argument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions file: %w", err)
	}
	doc, err := macroyaml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("file=%s: %w", path, err)
	}
	return doc.Defines, nil
}

// envDefineTokens splits $<APPNAME>_DEFINES with shell quoting rules, so
// MACROPP_DEFINES='-DGREETING="hello world" -DDEBUG=1' yields two tokens.
func envDefineTokens() ([]preprocess.Argument, error) {
	v := os.Getenv(envDefines)
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	words, err := shellquote.Split(v)
	if err != nil {
		return nil, fmt.Errorf("parsing $%s: %w", envDefines, err)
	}
	args := make([]preprocess.Argument, len(words))
	for i, w := range words {
		args[i] = preprocess.Token(w)
	}
	return args, nil
}

// ---- shared flags -----------------------------------------------------------

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// options holds the flags every command that builds a table understands.
type options struct {
	defines   []string
	defsFiles []string
	maxIdent  int
	maxValue  int
	maxDefs   int
	quiet     bool
	color     string
}

func (o *options) bind(fs *pflag.FlagSet) {
	def := macro.DefaultLimits()
	fs.StringArrayVarP(&o.defines, "define", "D", nil,
		"define NAME=VALUE (repeatable; -DNAME=VALUE works as well, -D=X is read as -DX)")
	fs.StringArrayVar(&o.defsFiles, "defs-file", nil,
		"YAML definitions file (repeatable)")
	fs.IntVar(&o.maxIdent, "max-identifier-length", def.MaxIdentifierLength,
		"longest accepted identifier (0: unlimited)")
	fs.IntVar(&o.maxValue, "max-value-length", def.MaxValueLength,
		"longest accepted value (0: unlimited)")
	fs.IntVar(&o.maxDefs, "max-definitions", def.MaxDefinitions,
		"maximum number of definitions (0: unlimited)")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "do not print warnings")
	fs.StringVar(&o.color, "color", colorAuto, "colour diagnostics: auto, always or never")
}

// settings is the effective configuration after config file, environment
// and flags are merged.
type settings struct {
	ConfigDir string
	Limits    macro.Limits
	Color     string
	Arguments []preprocess.Argument
}

// settings merges, in increasing priority, the defaults, the config file and
// the flags. Arguments are ordered: config defines → --defs-file entries →
// $<APPNAME>_DEFINES → -D flags.
func (o *options) settings(fs *pflag.FlagSet) (settings, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return settings{}, err
	}
	doc, err := loadConfig(dir)
	if err != nil {
		return settings{}, err
	}

	s := settings{
		ConfigDir: dir,
		Limits:    doc.Limits.Apply(macro.DefaultLimits()),
		Color:     colorAuto,
	}
	if doc.Color != "" {
		s.Color = doc.Color
	}
	if fs.Changed("color") {
		s.Color = o.color
	}
	if err := validateColor(s.Color); err != nil {
		return settings{}, err
	}

	for _, lim := range []struct {
		flag  string
		value int
		field *int
	}{
		{"max-identifier-length", o.maxIdent, &s.Limits.MaxIdentifierLength},
		{"max-value-length", o.maxValue, &s.Limits.MaxValueLength},
		{"max-definitions", o.maxDefs, &s.Limits.MaxDefinitions},
	} {
		if !fs.Changed(lim.flag) {
			continue
		}
		if lim.value < 0 {
			return settings{}, fmt.Errorf("--%s must not be negative", lim.flag)
		}
		*lim.field = lim.value
	}

	s.Arguments = append(s.Arguments, doc.Defines...)
	for _, path := range o.defsFiles {
		args, err := loadDefsFile(path)
		if err != nil {
			return settings{}, err
		}
		s.Arguments = append(s.Arguments, args...)
	}
	envArgs, err := envDefineTokens()
	if err != nil {
		return settings{}, err
	}
	s.Arguments = append(s.Arguments, envArgs...)
	for _, d := range o.defines {
		// pflag strips the "-D" of "-DNAME=VALUE"; the registrar wants it back.
		s.Arguments = append(s.Arguments, preprocess.Token("-D"+d))
	}
	return s, nil
}

func validateColor(mode string) error {
	switch mode {
	case colorAuto, colorAlways, colorNever:
		return nil
	}
	return fmt.Errorf("invalid color mode %q (want %s, %s or %s)", mode, colorAuto, colorAlways, colorNever)
}

// useColor decides whether output to w gets ANSI styling.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// isTerminal reports whether w is a terminal (including Cygwin/MSYS ptys).
func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
