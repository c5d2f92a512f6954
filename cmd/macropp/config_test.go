package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/macroyaml"
	"macropp/cmd/macropp/preprocess"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv(envConfigDir, "/explicit")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/explicit", dir)

	t.Setenv(envConfigDir, "")
	dir, err = resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", appName), dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = resolveConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", appName), dir)
}

func TestLoadConfigMissingIsEmpty(t *testing.T) {
	doc, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, macroyaml.Document{}, doc)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, "- not a mapping\n")
	_, err := loadConfig(dir)
	require.ErrorIs(t, err, macroyaml.ErrNotMapping)
	assert.Contains(t, err.Error(), configFileName)
}

func TestEnvDefineTokens(t *testing.T) {
	t.Setenv(envDefines, `-DA=1 -DGREETING="hello world"`)
	args, err := envDefineTokens()
	require.NoError(t, err)
	assert.Equal(t, []preprocess.Argument{
		preprocess.Token("-DA=1"),
		preprocess.Token("-DGREETING=hello world"),
	}, args)

	t.Setenv(envDefines, "  ")
	args, err = envDefineTokens()
	require.NoError(t, err)
	assert.Nil(t, args)

	t.Setenv(envDefines, `-DA="unterminated`)
	_, err = envDefineTokens()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envDefines)
}

func TestSettingsMerge(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, configFileName,
		"color: never\n"+
			"limits:\n"+
			"  max_value_length: 10\n"+
			"  max_definitions: 5\n"+
			"defines:\n"+
			"  A: cfg\n")
	defs := writeFile(t, t.TempDir(), "defs.yml", "defines:\n  - B=file\n")
	t.Setenv(envDefines, `-DC="x y"`)

	o := &options{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.bind(fs)
	require.NoError(t, fs.Parse([]string{"--defs-file", defs, "-DD=flag", "--max-definitions", "0"}))

	s, err := o.settings(fs)
	require.NoError(t, err)
	assert.Equal(t, dir, s.ConfigDir)
	assert.Equal(t, colorNever, s.Color)
	assert.Equal(t, macro.Limits{MaxIdentifierLength: 63, MaxValueLength: 10, MaxDefinitions: 0}, s.Limits)
	assert.Equal(t, []preprocess.Argument{
		preprocess.Pair("A", "cfg"),
		preprocess.Token("-DB=file"),
		preprocess.Token("-DC=x y"),
		preprocess.Token("-DD=flag"),
	}, s.Arguments)
}

func TestUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	assert.True(t, useColor(colorAlways, &buf))
	assert.False(t, useColor(colorNever, &buf))
	assert.False(t, useColor(colorAuto, &buf), "a buffer is not a terminal")
}

func TestDiagnosticPrinter(t *testing.T) {
	warning := macro.Diagnostic{Severity: macro.SeverityWarning, Message: "careful"}
	failure := macro.Diagnostic{Severity: macro.SeverityError, Message: "broken"}

	var buf bytes.Buffer
	p := newDiagnosticPrinter(&buf, false, false)
	p.Report(warning)
	p.Report(failure)
	assert.Equal(t, "macropp: warning: careful\nmacropp: error: broken\n", buf.String())

	buf.Reset()
	p = newDiagnosticPrinter(&buf, true, false)
	p.Report(warning)
	p.Report(failure)
	assert.Equal(t, "macropp: error: broken\n", buf.String())

	buf.Reset()
	p = newDiagnosticPrinter(&buf, false, true)
	p.Report(failure)
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), ": broken\n")
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "nested")

	_, stderr, err := execute(t, "config", "init", "--defaults", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "initialised")

	doc, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, macro.DefaultLimits(), doc.Limits.Apply(macro.Limits{}))
	assert.Equal(t, colorAuto, doc.Color)
	assert.Empty(t, doc.Defines)

	_, _, err = execute(t, "config", "init", "--defaults", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "config", "init", "--defaults", "--force", "--dir", dir)
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, configFileName, "color: never\nlimits:\n  max_definitions: 10\n")

	stdout, _, err := execute(t, "config", "show", "-DX=1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# config dir: "+dir+"\n"))

	doc, err := macroyaml.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, colorNever, doc.Color)
	assert.Equal(t,
		macro.Limits{MaxIdentifierLength: 63, MaxValueLength: 255, MaxDefinitions: 10},
		doc.Limits.Apply(macro.Limits{}))
	assert.Equal(t, []preprocess.Argument{preprocess.Token("-DX=1")}, doc.Defines)
}

func TestValidateLimit(t *testing.T) {
	assert.NoError(t, validateLimit("0"))
	assert.NoError(t, validateLimit("255"))
	assert.Error(t, validateLimit("-1"))
	assert.Error(t, validateLimit("many"))
}
