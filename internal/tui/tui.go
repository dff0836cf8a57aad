// internal/tui/tui.go
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tamzrod/modmon/internal/status"
)

// --- STYLES ---
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#575B7E")).
			Padding(0, 1)

	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	staleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	deviceColStyle = lipgloss.NewStyle().Width(14).Padding(0, 1)
	pointColStyle  = lipgloss.NewStyle().Width(24).Padding(0, 1)
	valueColStyle  = lipgloss.NewStyle().Width(20).Align(lipgloss.Right).Padding(0, 1)
	rawColStyle    = lipgloss.NewStyle().Width(20).Padding(0, 1)
	ageColStyle    = lipgloss.NewStyle().Width(10).Padding(0, 1)
	healthColStyle = lipgloss.NewStyle().Width(9).Padding(0, 1)
)

// --- MODEL ---
type tickMsg time.Time

type Model struct {
	board      *status.Board
	version    string
	viewport   viewport.Model
	ready      bool
	lastRender string
}

func NewModel(board *status.Board, version string) Model {
	return Model{board: board, version: version}
}

// NewProgram wraps the model in a full-screen program.
func NewProgram(board *status.Board, version string) *tea.Program {
	return tea.NewProgram(NewModel(board, version), tea.WithAltScreen())
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// --- UPDATE ---
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.Style = baseStyle
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.lastRender = ""

	case tickMsg:
		render := m.renderPoints()
		if render != m.lastRender {
			m.viewport.SetContent(render)
			m.lastRender = render
		}
		return m, tick()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// --- VIEW ---
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	snap := m.board.Snapshot()
	bad := 0
	for _, st := range snap {
		if st.Health == status.HealthError {
			bad++
		}
	}
	summary := fmt.Sprintf("%d points", len(snap))
	if bad > 0 {
		summary += errorStyle.Render(fmt.Sprintf("  %d failing", bad))
	}
	return titleStyle.Render("modmon "+m.version) + "  " + summary
}

func (m Model) renderPoints() string {
	now := time.Now()
	snap := m.board.Snapshot()

	var content strings.Builder
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		deviceColStyle.Render("Device"),
		pointColStyle.Render("Point"),
		valueColStyle.Render("Value"),
		rawColStyle.Render("Raw"),
		ageColStyle.Render("Age"),
		healthColStyle.Render("Health"),
		lipgloss.NewStyle().Padding(0, 1).Render("Last Error"),
	)
	content.WriteString(titleStyle.Width(m.viewport.Width).Render(header) + "\n")

	for _, st := range snap {
		style := healthStyle(st.Health)
		value := "-"
		if !st.At.IsZero() {
			value = status.FormatValue(st.Value, st.Unit)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Left,
			deviceColStyle.Render(st.Device),
			pointColStyle.Render(st.Label),
			valueColStyle.Render(value),
			rawColStyle.Render(status.FormatRaw(st.Raw)),
			ageColStyle.Render(status.FormatAge(st.At, now)),
			healthColStyle.Render(style.Render(st.Health.String())),
			lipgloss.NewStyle().Padding(0, 1).Render(st.LastError),
		)
		content.WriteString(line + "\n")
	}
	return content.String()
}

func (m Model) renderFooter() string {
	return "Use arrow keys or mouse to scroll | (q) to quit"
}

func healthStyle(h status.Health) lipgloss.Style {
	switch h {
	case status.HealthOK:
		return okStyle
	case status.HealthError:
		return errorStyle
	case status.HealthStale:
		return staleStyle
	default:
		return unknownStyle
	}
}
