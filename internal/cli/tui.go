package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ttgen/pkg/compiler"
	"github.com/matzehuels/ttgen/pkg/layout"
	"github.com/matzehuels/ttgen/pkg/scene"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// ComponentListModel - Interactive component browser
// =============================================================================

// ComponentListModel is the bubbletea model behind `ttgen inspect`.
type ComponentListModel struct {
	Scene      string
	Components []scene.Component
	// Placed maps registry keys to the layout node that placed them.
	Placed map[string]layout.Placement
	Cursor int
	Height int
	Offset int
}

// NewComponentListModel creates a browser over a compiled scene.
func NewComponentListModel(res *compiler.Result) ComponentListModel {
	placed := make(map[string]layout.Placement)
	for _, p := range res.Placements {
		if p.Key != "" {
			placed[p.Key] = p
		}
	}
	return ComponentListModel{
		Scene:      res.Name,
		Components: res.Registry.Components(),
		Placed:     placed,
		Height:     12,
	}
}

func (m ComponentListModel) Init() tea.Cmd {
	return nil
}

func (m ComponentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Components)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Components) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		// leave room for the header and the detail pane
		m.Height = msg.Height - 16
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ComponentListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Scene))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d components", len(m.Components))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Components) == 0 {
		b.WriteString(listDimStyle.Render("  (no components)"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Components) {
		end = len(m.Components)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Components[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pos := c.Common().Position
		placed := "—"
		if p, ok := m.Placed[c.Key()]; ok {
			placed = p.Path
		}
		rows = append(rows, []string{cursor, c.Common().Name, c.Tag(), fmt.Sprintf("%.2f, %.2f", pos.X, pos.Z), placed})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Tag", "X, Z", "Placed by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			isCurrent := m.Offset+row == m.Cursor
			_, isPlaced := m.Placed[m.Components[m.Offset+row].Key()]

			base := lipgloss.NewStyle()
			switch {
			case isCurrent && isPlaced:
				return base.Foreground(colorGreen).Bold(true)
			case isCurrent:
				return base.Foreground(colorWhite).Bold(true)
			case isPlaced:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail(m.Components[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Components))))

	return b.String()
}

// detail renders the attributes of c below the table.
func (m ComponentListModel) detail(c scene.Component) string {
	var b strings.Builder
	line := func(key, value string) {
		b.WriteString("  " + detailKeyStyle.Render(key) + " " + StyleValue.Render(value) + "\n")
	}

	base := c.Common()
	line("key", c.Key())
	line("position", fmt.Sprintf("%.2f, %.2f, %.2f", base.Position.X, base.Position.Y, base.Position.Z))
	if base.Width > 0 || base.Height > 0 {
		line("footprint", fmt.Sprintf("%.2f × %.2f", base.Width, base.Height))
	}
	if base.Locked {
		line("locked", "yes")
	}
	if base.Description != "" {
		line("description", base.Description)
	}

	switch v := c.(type) {
	case *scene.Deck:
		line("cards", fmt.Sprintf("%d (%d×%d sheet)", v.Count, v.NumWidth, v.NumHeight))
		line("face", v.FaceURL)
		line("back", v.BackURL)
	case *scene.Board:
		line("image", v.ImageURL)
		if n := len(v.SnapPoints); n > 0 {
			line("snap points", fmt.Sprint(n))
		}
	case *scene.TokenStack:
		line("tokens", fmt.Sprint(v.Number))
		line("image", v.ImageURL)
	case *scene.Model:
		line("mesh", v.MeshURL)
	case *scene.Table:
		line("surface", fmt.Sprintf("%.2f × %.2f at y=%.2f", v.TableWidth, v.TableHeight, v.SurfaceY))
		set := v.Annotations()
		line("annotations", fmt.Sprintf("%d snap points, %d boxes", len(set.SnapPoints()), len(set.Boxes())))
	}
	return b.String()
}
