// Package tui is an interactive terminal explorer for stencil weights over a
// fixed set of sample points.
package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fdstencil/fornberg"
	"github.com/san-kum/fdstencil/internal/viz"
)

const defaultStep = 0.1

type Model struct {
	points    []float64
	order     int
	at, at0   float64
	step      float64
	allOrders bool

	stencil *fornberg.Stencil
	table   *fornberg.Table
	err     error
}

// New builds an explorer over points. The points are never changed; only the
// evaluation point and the derivative order move.
func New(points []float64, order int, at float64) Model {
	m := Model{
		points: append([]float64(nil), points...),
		order:  max(order, 0),
		at:     at,
		at0:    at,
		step:   initialStep(points),
	}
	m.recompute()
	return m
}

// initialStep is half the smallest spacing between distinct points.
func initialStep(points []float64) float64 {
	sorted := slices.Clone(points)
	slices.Sort(sorted)
	step := math.Inf(1)
	for i := 1; i < len(sorted); i++ {
		if d := sorted[i] - sorted[i-1]; d > 0 {
			step = min(step, d/2)
		}
	}
	if math.IsInf(step, 1) {
		return defaultStep
	}
	return step
}

func (m *Model) recompute() {
	m.stencil, m.table, m.err = nil, nil, nil
	if m.allOrders {
		m.table, m.err = fornberg.Compute(m.order, m.at, m.points)
		return
	}
	m.stencil, m.err = fornberg.NewStencil(m.order, m.at, m.points)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.at -= m.step
	case "right", "l":
		m.at += m.step
	case "+", "=", "up", "k":
		m.order++
	case "-", "_", "down", "j":
		if m.order > 0 {
			m.order--
		}
	case "[":
		m.step /= 2
	case "]":
		m.step *= 2
	case "a":
		m.allOrders = !m.allOrders
	case "0":
		m.at = m.at0
	default:
		return m, nil
	}
	m.recompute()
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render("fdstencil explorer"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n\n",
		viz.Label.Render("order"), viz.Value.Render(fmt.Sprint(m.order)),
		viz.Label.Render("x̄"), viz.Value.Render(viz.FormatWeight(m.at)),
		viz.Label.Render("step"), viz.Value.Render(viz.FormatWeight(m.step)))

	switch {
	case m.err != nil:
		b.WriteString(viz.StatusFailed.Render(m.err.Error()))
		b.WriteString("\n")
	case m.table != nil:
		b.WriteString(viz.RenderTable(m.table, m.points, m.at))
		b.WriteString("\n")
	case m.stencil != nil:
		b.WriteString(viz.RenderStencil(m.stencil))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viz.KeyHint.Render("←/→ move x̄  +/- order  [/] step  a all orders  0 reset  q quit"))
	return b.String()
}

// Order, At and Err expose the explorer state.
func (m Model) Order() int    { return m.order }
func (m Model) At() float64   { return m.at }
func (m Model) Err() error    { return m.err }
func (m Model) Step() float64 { return m.step }

// Weights returns the weights currently shown for the selected order.
func (m Model) Weights() []float64 {
	switch {
	case m.table != nil:
		return m.table.Column(m.order)
	case m.stencil != nil:
		return m.stencil.Weights
	}
	return nil
}

// Run starts the explorer on the alternate screen and blocks until it quits.
func Run(points []float64, order int, at float64) error {
	_, err := tea.NewProgram(New(points, order, at), tea.WithAltScreen()).Run()
	return err
}
