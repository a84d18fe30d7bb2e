package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// TermListModel - Interactive term selection
// =============================================================================

// TermListModel is the bubbletea model for choosing between terms that
// share their surface text.
type TermListModel struct {
	Terms    []*etym.Term
	Cursor   int
	Selected *etym.Term
	Height   int
	Offset   int
}

// NewTermListModel creates a new term list model.
func NewTermListModel(terms []*etym.Term) TermListModel {
	return TermListModel{
		Terms:  terms,
		Height: 15,
	}
}

func (m TermListModel) Init() tea.Cmd {
	return nil
}

func (m TermListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Terms)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Terms[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TermListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Term"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Terms) {
		end = len(m.Terms)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Terms[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, t.Term, orDash(t.Lang), orDash(t.ID), ancestorsSummary(t)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Term", "Lang", "ID", "From").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(tbl.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Terms))))

	return b.String()
}

// ancestorsSummary lists the direct ancestors of t, looking through wrappers.
func ancestorsSummary(t *etym.Term) string {
	var parts []string
	for _, p := range t.Parents {
		if p.IsWrapper() {
			for _, pp := range p.Parents {
				parts = append(parts, pp.String())
			}
			continue
		}
		parts = append(parts, p.String())
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " + ")
}

// pickTerm runs the term picker.
func pickTerm(terms []*etym.Term) (*etym.Term, error) {
	final, err := tea.NewProgram(NewTermListModel(terms)).Run()
	if err != nil {
		return nil, fmt.Errorf("term picker: %w", err)
	}
	m := final.(TermListModel)
	if m.Selected == nil {
		return nil, errors.New(errors.ErrCodeCanceled, "no term selected")
	}
	return m.Selected, nil
}
