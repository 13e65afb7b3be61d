package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/flockview/flockview/pkg/socialgraph"
	"github.com/flockview/flockview/pkg/view"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeListModel - Interactive view browsing
// =============================================================================

// NodeSelection holds the result of the node browser.
type NodeSelection struct {
	ID socialgraph.ID
}

// NodeListModel is the bubbletea model for browsing a view's nodes. Nodes
// arrive in admission order, so the best-ranked accounts sit on top.
type NodeListModel struct {
	Nodes    []view.NodeRecord
	Cursor   int
	Selected *NodeSelection
	Height   int
	Offset   int
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(nodes []view.NodeRecord) NodeListModel {
	return NodeListModel{
		Nodes:  nodes,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			node := m.Nodes[m.Cursor]
			m.Selected = &NodeSelection{ID: node.ID}
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

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore View"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ re-center  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			nodeLabel(n),
			formatHop(n.HopDistance),
			fmt.Sprintf("%d", n.MutualCount),
			fmt.Sprintf("%.2f", n.InGroupScore),
			nodeRole(n),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Account", "Hop", "Mutuals", "Score", "Role").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[actualIdx]

			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if n.IsSeed {
				return base.Foreground(colorGreen)
			}
			if n.Shadow || n.IsBridge {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// detail renders the pane under the table for the node at the cursor:
// profile attributes plus any connectivity-repair diagnostics.
func (m NodeListModel) detail() string {
	if len(m.Nodes) == 0 {
		return ""
	}
	n := m.Nodes[m.Cursor]

	var lines []string
	title := nodeLabel(n)
	if n.DisplayName != "" && n.DisplayName != title {
		title += "  " + listDimStyle.Render(n.DisplayName)
	}
	lines = append(lines, "  "+StyleHighlight.Render(title))

	if n.Bio != "" {
		bio := []rune(n.Bio)
		if len(bio) > 72 {
			bio = append(bio[:69], []rune("...")...)
		}
		lines = append(lines, "  "+listDimStyle.Render(string(bio)))
	}

	stat := fmt.Sprintf("  %d mutuals · %d seed touches · score %.2f",
		n.MutualCount, n.SeedTouchCount, n.InGroupScore)
	if n.TpotnessScore != nil {
		stat += fmt.Sprintf(" · tpotness %.2f", *n.TpotnessScore)
	}
	lines = append(lines, listDimStyle.Render(stat))

	if n.Connector != nil {
		lines = append(lines, "  "+StyleWarning.Render(
			fmt.Sprintf("bridge for %d: %s", len(n.Connector.Targets), joinIDs(n.Connector.Targets, 4))))
	}
	if n.BridgeTarget != nil {
		lines = append(lines, "  "+StyleWarning.Render(
			fmt.Sprintf("reconnected via %d bridges over %d hops",
				n.BridgeTarget.BridgeCount, n.BridgeTarget.HopCount)))
	}
	if n.Orphan != nil {
		lines = append(lines, "  "+styleIconError.Render(orphanDetail(n.Orphan)))
	}

	return strings.Join(lines, "\n") + "\n"
}

// =============================================================================
// Helpers
// =============================================================================

// browseView opens the node browser and returns the id the user picked for
// re-centering, or "" when they quit without selecting.
func browseView(v *view.View) (socialgraph.ID, error) {
	p := tea.NewProgram(NewNodeListModel(v.Nodes))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("node browser: %w", err)
	}

	fm, ok := finalModel.(NodeListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return "", nil
	}
	return fm.Selected.ID, nil
}

// nodeLabel prefers the username, falling back to the raw id.
func nodeLabel(n view.NodeRecord) string {
	if n.Username != "" {
		return n.Username
	}
	return string(n.ID)
}

// formatHop renders a hop distance, with "—" for unreachable nodes.
func formatHop(hop *int) string {
	if hop == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *hop)
}

// nodeRole names the node's structural role in the view, if any.
func nodeRole(n view.NodeRecord) string {
	switch {
	case n.IsSeed:
		return "seed"
	case n.IsBridge:
		return "bridge"
	case n.Shadow:
		return "shadow"
	default:
		return ""
	}
}

// joinIDs renders up to limit ids, appending a count for the rest.
func joinIDs(ids []socialgraph.ID, limit int) string {
	parts := make([]string, 0, limit+1)
	for i, id := range ids {
		if i == limit {
			parts = append(parts, fmt.Sprintf("+%d more", len(ids)-limit))
			break
		}
		parts = append(parts, string(id))
	}
	return strings.Join(parts, ", ")
}

// orphanDetail explains an orphan record in one line.
func orphanDetail(o *view.OrphanInfo) string {
	if o.Reason == view.OrphanBridgeBudget {
		return fmt.Sprintf("orphaned: needs %d bridges, budget exhausted", o.RequiredBridges)
	}
	return "orphaned: no path to any seed within search caps"
}
