package macro

// Provenance records which source produced a definition's current value.
type Provenance int

const (
	// FromDirective marks a value set by a #define line of the input file.
	FromDirective Provenance = iota
	// FromArgument marks a value supplied from outside the file (-D and friends).
	FromArgument
)

func (p Provenance) String() string {
	switch p {
	case FromDirective:
		return "directive"
	case FromArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Definition is a single object-like macro.
//
// Raw is the value as last registered; Value starts out equal to Raw and is
// rewritten by Resolve when Raw names another definition.
type Definition struct {
	Identifier string
	Value      string
	Raw        string
	Provenance Provenance
}

// Limits bounds what the table accepts. A zero field means no limit.
type Limits struct {
	MaxIdentifierLength int
	MaxValueLength      int
	MaxDefinitions      int
}

// DefaultLimits returns the limits the tool has always enforced:
// 63-byte identifiers, 255-byte values and 50 definitions.
func DefaultLimits() Limits {
	return Limits{
		MaxIdentifierLength: 63,
		MaxValueLength:      255,
		MaxDefinitions:      50,
	}
}

// Table is the insertion-ordered set of definitions for one run.
// Order matters: resolution walks entries in the order they were first
// registered, and redefinitions keep the original position.
type Table struct {
	limits   Limits
	reporter Reporter
	defs     []*Definition
	index    map[string]int
}

// NewTable returns an empty table. A nil reporter discards diagnostics.
func NewTable(limits Limits, reporter Reporter) *Table {
	if reporter == nil {
		reporter = Discard
	}
	return &Table{
		limits:   limits,
		reporter: reporter,
		index:    make(map[string]int),
	}
}

// Len returns the number of definitions.
func (t *Table) Len() int { return len(t.defs) }

// Lookup returns a copy of the definition named identifier.
func (t *Table) Lookup(identifier string) (Definition, bool) {
	i, ok := t.index[identifier]
	if !ok {
		return Definition{}, false
	}
	return *t.defs[i], true
}

// Definitions returns a copy of every definition in table order.
func (t *Table) Definitions() []Definition {
	out := make([]Definition, len(t.defs))
	for i, d := range t.defs {
		out[i] = *d
	}
	return out
}

func (t *Table) find(identifier string) *Definition {
	if i, ok := t.index[identifier]; ok {
		return t.defs[i]
	}
	return nil
}

func (t *Table) insert(d *Definition) {
	t.index[d.Identifier] = len(t.defs)
	t.defs = append(t.defs, d)
}
