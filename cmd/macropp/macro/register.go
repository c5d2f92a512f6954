package macro

import (
	"fmt"
	"strings"
)

// Register parses a "-D<identifier>=<value>" token and defines it with the
// given provenance. The value may be empty.
//
// See Define for validation and conflict handling.
func (t *Table) Register(token string, src Provenance) error {
	rest, ok := strings.CutPrefix(token, "-D")
	if !ok {
		return t.fail(ErrMalformedDefinition, "", token, src,
			fmt.Sprintf("definition %q does not start with -D", token))
	}
	identifier, value, ok := strings.Cut(rest, "=")
	if !ok {
		return t.fail(ErrMalformedDefinition, identifier, token, src,
			fmt.Sprintf("missing '=' in definition %q", token))
	}
	return t.define(identifier, value, token, src)
}

// Define validates identifier and value against the table limits and inserts
// or updates the definition.
//
// When identifier is already defined the provenance of both sides decides:
// a directive replaces an argument (with a warning), an argument never
// replaces a directive (with a warning), and same-kind redefinitions
// silently take the later value.
//
// Failures are reported and returned; warnings are reported only.
func (t *Table) Define(identifier, value string, src Provenance) error {
	return t.define(identifier, value, "-D"+identifier+"="+value, src)
}

func (t *Table) define(identifier, value, token string, src Provenance) error {
	switch {
	case identifier == "":
		return t.fail(ErrMalformedDefinition, "", token, src,
			fmt.Sprintf("no macro name given in %s", describe(src, token)))
	case !ValidIdentifier(identifier):
		return t.fail(ErrMalformedDefinition, identifier, token, src,
			fmt.Sprintf("invalid macro name %q in %s", identifier, describe(src, token)))
	case t.limits.MaxIdentifierLength > 0 && len(identifier) > t.limits.MaxIdentifierLength:
		return t.fail(ErrIdentifierTooLong, identifier, token, src,
			fmt.Sprintf("identifier too long (%d > %d): %s", len(identifier), t.limits.MaxIdentifierLength, token))
	case t.limits.MaxValueLength > 0 && len(value) > t.limits.MaxValueLength:
		return t.fail(ErrValueTooLong, identifier, token, src,
			fmt.Sprintf("value too long (%d > %d): %s", len(value), t.limits.MaxValueLength, token))
	}

	if d := t.find(identifier); d != nil {
		t.redefine(d, value, token, src)
		return nil
	}

	if t.limits.MaxDefinitions > 0 && len(t.defs) >= t.limits.MaxDefinitions {
		return t.fail(ErrTableFull, identifier, token, src,
			fmt.Sprintf("maximum number of definitions reached (%d), %s dropped", t.limits.MaxDefinitions, identifier))
	}
	t.insert(&Definition{
		Identifier: identifier,
		Value:      value,
		Raw:        value,
		Provenance: src,
	})
	return nil
}

func (t *Table) redefine(d *Definition, value, token string, src Provenance) {
	switch {
	case d.Provenance == FromArgument && src == FromDirective:
		t.warn(d.Identifier, token, src,
			fmt.Sprintf("variable '%s' is being redefined via #define", d.Identifier))
		d.Value, d.Raw, d.Provenance = value, value, FromDirective
	case d.Provenance == FromDirective && src == FromArgument:
		t.warn(d.Identifier, token, src,
			fmt.Sprintf("variable '%s' is already defined via #define, command line definition ignored", d.Identifier))
	default:
		d.Value, d.Raw = value, value
	}
}

func (t *Table) fail(kind error, identifier, token string, src Provenance, msg string) error {
	d := Diagnostic{
		Severity:   SeverityError,
		Kind:       kind,
		Identifier: identifier,
		Token:      token,
		Provenance: src,
		Message:    msg,
	}
	t.reporter.Report(d)
	return d
}

func (t *Table) warn(identifier, token string, src Provenance, msg string) {
	t.reporter.Report(Diagnostic{
		Severity:   SeverityWarning,
		Kind:       ErrRedefinitionConflict,
		Identifier: identifier,
		Token:      token,
		Provenance: src,
		Message:    msg,
	})
}

func describe(src Provenance, token string) string {
	if src == FromDirective {
		return "#define directive"
	}
	return fmt.Sprintf("definition %q", token)
}
