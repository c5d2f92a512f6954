package macro

import "strings"

// Substitute returns line with every whole-word occurrence of a defined
// identifier replaced by its value. Occurrences inside single or double
// quotes are left alone; a quote of one kind inside the other kind is
// ordinary text. Replacement values are not scanned again.
//
// Call Resolve first: Substitute uses values as they currently are.
func (t *Table) Substitute(line string) string {
	if len(t.defs) == 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))

	inSingle, inDouble := false, false
	for i := 0; i < len(line); {
		ch := line[i]
		switch {
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		}

		if inSingle || inDouble || !IsIdentifierByte(ch) {
			b.WriteByte(ch)
			i++
			continue
		}

		// i is at a word start: the previous byte, if any, was copied by the
		// branch above or ended a previous word.
		j := i + 1
		for j < len(line) && IsIdentifierByte(line[j]) {
			j++
		}
		if d := t.find(line[i:j]); d != nil {
			b.WriteString(d.Value)
		} else {
			b.WriteString(line[i:j])
		}
		i = j
	}
	return b.String()
}
