package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/metrics"
	"github.com/san-kum/symfield/internal/sim"
)

type TickMsg time.Time

// Model hosts a scheduler in the terminal. The first WindowSizeMsg starts
// it, later ones resize it, and every TickMsg is one frame callback.
type Model struct {
	sched    *sim.Scheduler
	recorder *metrics.Recorder
	canvas   *Canvas
	interval time.Duration
	theme    Theme
	styles   styles
	started  bool
	paused   bool
	showHelp bool
	err      error
}

// NewModel wires the recorder as a scheduler observer.
func NewModel(s *sim.Scheduler, rec *metrics.Recorder, fps int, theme string) Model {
	if fps <= 0 {
		fps = 30
	}
	if rec != nil {
		s.AddObserver(rec)
	}
	t := GetTheme(theme)
	return Model{
		sched:    s,
		recorder: rec,
		canvas:   NewCanvas(1, 1),
		interval: time.Second / time.Duration(fps),
		theme:    t,
		styles:   newStyles(t),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Err reports a start failure after the program exits.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(msg.Width-PanelWidth, msg.Height)
		vp := m.canvas.Viewport()
		if !m.started {
			if err := m.sched.Start(vp, m.canvas); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.started = true
			return m, nil
		}
		m.sched.OnResize(vp)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.sched.Stop()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			if m.started {
				if m.recorder != nil {
					m.recorder.Reset()
				}
				if err := m.sched.Restart(); err != nil {
					m.err = err
					return m, tea.Quit
				}
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.started && !m.paused {
			if !m.sched.Frame() {
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	if !m.started {
		return "starting...\n"
	}
	field := m.canvas.String()
	panel := m.styles.panel.Render(m.panel())
	view := lipgloss.JoinHorizontal(lipgloss.Top, field, panel)
	if m.showHelp {
		return m.help() + "\n" + view
	}
	return view
}

func (m Model) panel() string {
	s := m.styles
	snap := m.sched.Snapshot()
	cfg := m.sched.Config()

	var b strings.Builder
	b.WriteString(GradientText("SYMFIELD", string(m.theme.Title), string(m.theme.Accent)) + "\n")
	if m.paused {
		b.WriteString(s.paused.Render("PAUSED") + "\n\n")
	} else {
		b.WriteString(s.status.Render("RUNNING") + "\n\n")
	}

	b.WriteString(kv(s, "Frame", "%d", snap.Index) + "\n")
	b.WriteString(kv(s, "Particles", "%d", len(snap.Particles)) + "\n")
	b.WriteString(kv(s, "Links", "%d", snap.Connections.Edges()) + "\n")
	b.WriteString(kv(s, "Viewport", "%s", viewportLabel(snap.Viewport)) + "\n")
	b.WriteString(kv(s, "Theme", "%s", m.theme.Name) + "\n")

	if m.recorder != nil {
		latest := m.recorder.Latest()
		b.WriteString(kv(s, "Energy", "%.1f", latest["mean_energy"]) + "\n")
		b.WriteString(s.label.Render("Charged") + ProgressBar(latest["charged_fraction"], 14, s.chart) + "\n")
		b.WriteString(s.label.Render("Links") + s.chart.Render(Sparkline(m.recorder.History("connections"), 20)) + "\n\n")
		if chart := EnergyChart(m.recorder.History("mean_energy"), cfg.Energy.Max, 26, 6); chart != "" {
			b.WriteString(s.chart.Render(chart) + "\n")
		}
	}

	b.WriteString(s.help.Render("\nSPC pause  r restart\nt theme  ? help  q quit"))
	return b.String()
}

func (m Model) help() string {
	s := m.styles
	rows := [][2]string{
		{"Space", "pause / resume"},
		{"r", "restart with a new population"},
		{"t", "cycle panel theme"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(s.title.Render("KEYS") + "\n")
	for _, r := range rows {
		b.WriteString(s.label.Render(r[0]) + s.muted.Render(r[1]) + "\n")
	}
	return b.String()
}

func viewportLabel(vp dynamo.Viewport) string {
	return fmt.Sprintf("%.0fx%.0f", vp.Width, vp.Height)
}
