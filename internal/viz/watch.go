package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/phasekit/internal/analysis"
	"github.com/san-kum/phasekit/internal/dynamo"
	"github.com/san-kum/phasekit/internal/physics"
)

const (
	canvasWidth  = 40
	canvasHeight = 20
	frameRate    = time.Second / 30
	maxSpeed     = 16
)

var graphColors = []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue, asciigraph.Green, asciigraph.Yellow}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type track struct {
	name  string
	pts   []dynamo.Point
	ratio []float64 // invariant relative to its initial value
}

// WatchModel replays precomputed trajectories step by step.
type WatchModel struct {
	tracks    []track
	arrows    []analysis.Arrow
	view      Viewport
	frame     int
	frames    int
	speed     int
	running   bool
	showField bool
	dt        float64
}

// NewWatch builds a viewer over trajs, which should share dt and k/m.
func NewWatch(trajs []*dynamo.Trajectory) WatchModel {
	m := WatchModel{speed: 1, running: true, showField: true}
	all := make([][]dynamo.Point, 0, len(trajs))

	for _, traj := range trajs {
		osc := physics.NewOscillator(traj.Params().KOverM)
		inv0 := osc.Invariant(traj.First())
		ratio := make([]float64, traj.Len())
		for i := range ratio {
			if inv0 != 0 {
				ratio[i] = osc.Invariant(traj.At(i)) / inv0
			}
		}

		t := track{name: traj.Method(), pts: traj.Points(), ratio: ratio}
		m.tracks = append(m.tracks, t)
		all = append(all, t.pts)
		m.frames = max(m.frames, traj.Len())
		m.dt = traj.Params().Dt
	}

	if len(trajs) > 0 {
		m.view = FitViewport(all...)
		g := analysis.DefaultGrid()
		g.Min, g.Max = m.view.MinX, m.view.MaxX
		g.Step = (g.Max - g.Min) / 12
		g.Scale = g.Step * 0.4
		g.MinRadius = g.Step * 0.75
		m.arrows = analysis.VectorField(physics.NewOscillator(trajs[0].Params().KOverM), g)
	}
	return m
}

func (m WatchModel) Frame() int    { return m.frame }
func (m WatchModel) Running() bool { return m.running }
func (m WatchModel) Speed() int    { return m.speed }

func (m WatchModel) Init() tea.Cmd {
	return tick()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
			if m.running && m.frame >= m.frames-1 {
				m.frame = 0
			}
		case "r":
			m.frame = 0
			m.running = true
		case "[":
			m.running = false
			m.frame = max(m.frame-1, 0)
		case "]":
			m.running = false
			m.frame = min(m.frame+1, max(m.frames-1, 0))
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "f":
			m.showField = !m.showField
		}
	case TickMsg:
		if m.running {
			m.frame += m.speed
			if m.frame >= m.frames-1 {
				m.frame = max(m.frames-1, 0)
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m WatchModel) View() string {
	if len(m.tracks) == 0 {
		return "nothing to watch\n"
	}

	layers := make([]*Canvas, 0, len(m.tracks)+1)
	styles := make([]lipgloss.Style, 0, len(m.tracks)+1)

	if m.showField {
		field := NewCanvas(canvasWidth, canvasHeight)
		for _, a := range m.arrows {
			x0, y0, ok0 := m.view.Project(field, a.From)
			x1, y1, ok1 := m.view.Project(field, a.To)
			if ok0 && ok1 {
				field.DrawLine(x0, y0, x1, y1)
			}
		}
		layers = append(layers, field)
		styles = append(styles, Subtle)
	}

	for i, t := range m.tracks {
		c := NewCanvas(canvasWidth, canvasHeight)
		end := min(m.frame+1, len(t.pts))
		c.Polyline(m.view, t.pts[:end])
		layers = append(layers, c)
		styles = append(styles, SeriesStyle(i))
	}

	canvasView := Panel.Render(Compose(layers, styles))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render("PHASE SPACE") + "\n")

	status := StatusRunning.Render("PLAYING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(fmt.Sprintf("%s  x%d  t=%.2f\n", status, m.speed, float64(m.frame)*m.dt))
	s.WriteString(ProgressBar(float64(m.frame)/float64(max(m.frames-1, 1)), 30) + "\n\n")

	ratios := make([][]float64, 0, len(m.tracks))
	for i, t := range m.tracks {
		idx := min(m.frame, len(t.pts)-1)
		p := t.pts[idx]
		s.WriteString(SeriesStyle(i).Render(fmt.Sprintf("%-18s", t.name)))
		s.WriteString(MetricLabel.Render(" q ") + MetricValue.Render(fmt.Sprintf("%8.3f", p.X)))
		s.WriteString(MetricLabel.Render(" v ") + MetricValue.Render(fmt.Sprintf("%8.3f", p.Y)))
		s.WriteString(MetricLabel.Render(" E/E0 ") + MetricValue.Render(fmt.Sprintf("%6.3f", t.ratio[idx])) + "\n")
		ratios = append(ratios, t.ratio[:idx+1])
	}

	if m.frame > 0 {
		chart := asciigraph.PlotMany(ratios,
			asciigraph.Height(6),
			asciigraph.Width(40),
			asciigraph.SeriesColors(graphColors[:min(len(ratios), len(graphColors))]...),
			asciigraph.Caption("invariant / initial"))
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString("\n" + KeyHint.Render("SP:Pause R:Restart [ ]:Step +/-:Speed F:Field Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, "  ", s.String())
}
