package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/macroyaml"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const configInitHeader = "# " + appName + " config\n" +
	"# ─────────────────────────────────────────────────────────────────────────────\n" +
	"# limits:   0 means unlimited\n" +
	"# color:    auto, always or never\n" +
	"# defines:  added after each file's #define directives, before -D flags.\n" +
	"#           Either a mapping (NAME: value) or a list of \"NAME=value\" strings.\n" +
	"# ─────────────────────────────────────────────────────────────────────────────\n\n"

const configInitFooter = "\n# defines:\n#   DEBUG: 0\n#   TARGET: linux\n"

func newConfigInitCmd() *cobra.Command {
	var (
		dir      string
		force    bool
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the " + appName + " config file",
		Long: "Create <config>/" + configFileName + ". The limits and colour mode are asked\n" +
			"with a form when stdin is a terminal; --defaults writes the built-in\n" +
			"values without asking.\n\n" +
			"The default config directory follows the same priority as the main command:\n" +
			"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				var err error
				dir, err = resolveConfigDir()
				if err != nil {
					return err
				}
			}

			doc := defaultDocument()
			if !defaults && isTerminal(os.Stdin) {
				var err error
				doc, err = askDocument(doc)
				if err != nil {
					return err
				}
			}

			data, err := macroyaml.Marshal(doc)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", dir, err)
			}
			path := filepath.Join(dir, configFileName)
			if err := writeInitFile(path, configInitHeader, append(data, configInitFooter...), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "initialised %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "target config directory (default: auto-resolved)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "write the built-in defaults without asking")
	return cmd
}

func defaultDocument() macroyaml.Document {
	def := macro.DefaultLimits()
	return macroyaml.Document{
		Limits: macroyaml.Limits{
			MaxIdentifierLength: &def.MaxIdentifierLength,
			MaxValueLength:      &def.MaxValueLength,
			MaxDefinitions:      &def.MaxDefinitions,
		},
		Color: colorAuto,
	}
}

// askDocument lets the user edit the limits and colour mode of doc.
func askDocument(doc macroyaml.Document) (macroyaml.Document, error) {
	ident := strconv.Itoa(*doc.Limits.MaxIdentifierLength)
	value := strconv.Itoa(*doc.Limits.MaxValueLength)
	defs := strconv.Itoa(*doc.Limits.MaxDefinitions)
	color := doc.Color

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Maximum identifier length").
				Description("0 means unlimited").
				Value(&ident).
				Validate(validateLimit),
			huh.NewInput().
				Title("Maximum value length").
				Description("0 means unlimited").
				Value(&value).
				Validate(validateLimit),
			huh.NewInput().
				Title("Maximum number of definitions").
				Description("0 means unlimited").
				Value(&defs).
				Validate(validateLimit),
			huh.NewSelect[string]().
				Title("Colour diagnostics").
				Options(huh.NewOptions(colorAuto, colorAlways, colorNever)...).
				Value(&color),
		),
	)
	if err := form.Run(); err != nil {
		return doc, err
	}

	for _, f := range []struct {
		text string
		dst  **int
	}{
		{ident, &doc.Limits.MaxIdentifierLength},
		{value, &doc.Limits.MaxValueLength},
		{defs, &doc.Limits.MaxDefinitions},
	} {
		n, _ := strconv.Atoi(f.text) // validated
		*f.dst = &n
	}
	doc.Color = color
	return doc, nil
}

func validateLimit(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func writeInitFile(path, header string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if header != "" {
		fmt.Fprint(f, header)
	}
	_, err = f.Write(content)
	return err
}
