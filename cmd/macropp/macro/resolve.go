package macro

// cycleValue replaces the value of every definition caught in a reference cycle.
const cycleValue = "1"

// Resolve rewrites every definition whose value is exactly the identifier of
// another definition with that definition's resolved value, following chains
// to their end. Entries are visited in table order.
//
// A chain that comes back to an identifier already being resolved is a
// cycle: that entry is set to "1", and the "1" flows back to every entry on
// the chain.
//
// Every pass starts again from the registered (raw) values, so Resolve can be
// called again after further registrations.
func (t *Table) Resolve() {
	for _, d := range t.defs {
		d.Value = d.Raw
	}
	onStack := make(map[string]bool)
	for _, d := range t.defs {
		d.Value = t.resolve(d.Value, onStack)
	}
}

func (t *Table) resolve(value string, onStack map[string]bool) string {
	target := t.find(value)
	if target == nil {
		return value
	}
	if onStack[target.Identifier] {
		target.Value = cycleValue
		return cycleValue
	}
	onStack[target.Identifier] = true
	target.Value = t.resolve(target.Value, onStack)
	delete(onStack, target.Identifier)
	return target.Value
}

// Chain returns the identifiers visited when resolving the raw value of the
// named definition, starting with the definition itself. It stops at the
// first repeated identifier, so a cyclic chain ends with the entry that
// closed the cycle.
func (t *Table) Chain(identifier string) []string {
	d := t.find(identifier)
	if d == nil {
		return nil
	}
	chain := []string{d.Identifier}
	seen := map[string]bool{d.Identifier: true}
	for next := t.find(d.Raw); next != nil; next = t.find(next.Raw) {
		chain = append(chain, next.Identifier)
		if seen[next.Identifier] {
			break
		}
		seen[next.Identifier] = true
	}
	return chain
}
