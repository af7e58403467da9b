package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listClusterStyle  = lipgloss.NewStyle().Foreground(colorBlue)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// TreeModel is the bubbletea model of the interactive cluster browser.
type TreeModel struct {
	rows      []treeRow
	collapsed map[string]bool
	m         *deps.Map
	importers map[string][]string

	Cursor int
	Offset int
	Height int
}

// NewTreeModel creates a browser over the clusters of m.
func NewTreeModel(m *deps.Map, tree *cluster.Tree) TreeModel {
	importers := make(map[string][]string)
	for _, e := range m.Edges() {
		importers[e.Target] = append(importers[e.Target], e.Source)
	}
	return TreeModel{
		rows:      flattenTree(m, tree),
		collapsed: make(map[string]bool),
		m:         m,
		importers: importers,
		Height:    15,
	}
}

// visible returns the rows not hidden by a collapsed cluster.
func (t TreeModel) visible() []treeRow {
	out := make([]treeRow, 0, len(t.rows))
	for _, r := range t.rows {
		hidden := false
		for _, p := range r.parents {
			if t.collapsed[p] {
				hidden = true
				break
			}
		}
		if !hidden {
			out = append(out, r)
		}
	}
	return out
}

func (t TreeModel) Init() tea.Cmd {
	return nil
}

func (t TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	rows := t.visible()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return t, tea.Quit
		case "up", "k":
			if t.Cursor > 0 {
				t.Cursor--
			}
		case "down", "j":
			if t.Cursor < len(rows)-1 {
				t.Cursor++
			}
		case "g", "home":
			t.Cursor = 0
		case "G", "end":
			t.Cursor = len(rows) - 1
		case "enter", " ", "left", "right", "h", "l":
			if t.Cursor < len(rows) && rows[t.Cursor].isCluster() {
				c := rows[t.Cursor].cluster
				collapsed := make(map[string]bool, len(t.collapsed)+1)
				for k, v := range t.collapsed {
					collapsed[k] = v
				}
				switch msg.String() {
				case "left", "h":
					collapsed[c] = true
				case "right", "l":
					collapsed[c] = false
				default:
					collapsed[c] = !collapsed[c]
				}
				t.collapsed = collapsed
			}
		}
	case tea.WindowSizeMsg:
		t.Height = msg.Height - 12
		if t.Height < 5 {
			t.Height = 5
		}
	}
	t.clampOffset()
	return t, nil
}

func (t *TreeModel) clampOffset() {
	if t.Cursor < t.Offset {
		t.Offset = t.Cursor
	}
	if t.Cursor >= t.Offset+t.Height {
		t.Offset = t.Cursor - t.Height + 1
	}
}

func (t TreeModel) View() string {
	var b strings.Builder
	rows := t.visible()

	b.WriteString(StyleTitle.Render("Dependency Clusters"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold  q quit"))
	b.WriteString("\n\n")

	end := min(t.Offset+t.Height, len(rows))
	for i := t.Offset; i < end; i++ {
		r := rows[i]
		cursor := "  "
		if i == t.Cursor {
			cursor = "▸ "
		}
		label := r.label
		style := listNormalStyle
		if r.isCluster() {
			icon := "▾ "
			if t.collapsed[r.cluster] {
				icon = "▸ "
			}
			label = icon + label
			style = listClusterStyle
		}
		if i == t.Cursor {
			style = listSelectedStyle
		}
		b.WriteString(cursor + strings.Repeat("  ", r.depth) + style.Render(label) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(t.Cursor+1, len(rows)), len(rows))))

	if t.Cursor < len(rows) && !rows[t.Cursor].isCluster() {
		b.WriteString("\n\n")
		b.WriteString(t.details(rows[t.Cursor].key))
	}
	return b.String()
}

// details renders the imports and importers of key side by side.
func (t TreeModel) details(key string) string {
	imports := t.m.Dependencies(key)
	importedBy := slices.Clone(t.importers[key])

	n := max(len(imports), len(importedBy))
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		var a, b string
		if i < len(imports) {
			a = imports[i]
		}
		if i < len(importedBy) {
			b = importedBy[i]
		}
		rows = append(rows, []string{a, b})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(fmt.Sprintf("Imports (%d)", len(imports)), fmt.Sprintf("Imported by (%d)", len(importedBy))).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return listNormalStyle
		})

	title := StyleValue.Render(key)
	if d, ok := t.m.Get(key); ok && d.IsFolder {
		title += " " + listDimStyle.Render("(abstracted folder)")
	}
	return title + "\n" + tbl.Render()
}
