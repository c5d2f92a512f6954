package main

import (
	"fmt"
	"strings"

	"macropp/cmd/macropp/macro"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type defsState int

const (
	stateList defsState = iota
	stateDetail
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			MarginLeft(2)

	styleOverlayTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	styleKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))
)

// defsModel browses a resolved table. Enter opens the resolution chain of
// the selected definition.
type defsModel struct {
	table *macro.Table
	view  table.Model
	defs  []macro.Definition
	file  string
	state defsState
}

func newDefsModel(file string, t *macro.Table) defsModel {
	defs := t.Definitions()
	columns := []table.Column{
		{Title: "IDENTIFIER", Width: 24},
		{Title: "VALUE", Width: 24},
		{Title: "RAW", Width: 24},
		{Title: "SOURCE", Width: 10},
	}

	v := table.New(
		table.WithColumns(columns),
		table.WithRows(toRows(defs)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	v.SetStyles(s)

	return defsModel{
		table: t,
		view:  v,
		defs:  defs,
		file:  file,
		state: stateList,
	}
}

func toRows(defs []macro.Definition) []table.Row {
	rows := make([]table.Row, len(defs))
	for i, d := range defs {
		rows[i] = table.Row{d.Identifier, d.Value, d.Raw, d.Provenance.String()}
	}
	return rows
}

func (m defsModel) Init() tea.Cmd {
	return nil
}

func (m defsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if m.state == stateDetail {
		if ok {
			switch key.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "enter":
				m.state = stateList
			}
		}
		return m, nil
	}
	if ok {
		switch key.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if len(m.defs) > 0 {
				m.state = stateDetail
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

// selected returns the definition under the cursor.
func (m defsModel) selected() (macro.Definition, bool) {
	idx := m.view.Cursor()
	if idx < 0 || idx >= len(m.defs) {
		return macro.Definition{}, false
	}
	return m.defs[idx], true
}

func (m defsModel) View() string {
	title := styleTitle.Render(fmt.Sprintf("MACROPP  [%s]  %d definition(s)", m.file, len(m.defs)))
	tableView := styleBase.Render(m.view.View())

	if m.state == stateDetail {
		if d, ok := m.selected(); ok {
			overlay := styleOverlay.Render(
				styleOverlayTitle.Render(d.Identifier) + "\n\n" +
					explain(m.table, d) + "\n" +
					styleKey.Render("esc") + " back    " +
					styleKey.Render("q") + " quit",
			)
			return title + "\n" + tableView + "\n" + overlay
		}
	}

	help := styleHelp.Render("↑/↓  navigate    enter  resolution chain    q  quit")
	if len(m.defs) == 0 {
		help = styleHelp.Render("No definitions.    q  quit")
	}
	return title + "\n" + tableView + "\n" + help
}

// explain describes how d got its value.
func explain(t *macro.Table, d macro.Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "identifier:  %s\n", d.Identifier)
	fmt.Fprintf(&sb, "provenance:  %s\n", d.Provenance)
	fmt.Fprintf(&sb, "raw value:   %s\n", d.Raw)
	fmt.Fprintf(&sb, "value:       %s\n", d.Value)
	chain := t.Chain(d.Identifier)
	if len(chain) > 1 {
		fmt.Fprintf(&sb, "chain:       %s\n", strings.Join(chain, " -> "))
	}
	return sb.String()
}
