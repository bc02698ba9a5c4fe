package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fdstencil/fornberg"
	"github.com/san-kum/fdstencil/internal/batch"
)

const barWidth = 20

// FormatWeight prints a weight with enough digits to tell stencils apart.
func FormatWeight(w float64) string {
	if w == 0 {
		w = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(w, 'g', 12, 64)
}

// Heading describes what a stencil approximates, e.g. "d²/dx² at x = 0".
func Heading(order int, at float64, points int) string {
	var op string
	switch order {
	case 0:
		op = "f"
	case 1:
		op = "d/dx"
	default:
		op = fmt.Sprintf("d^%d/dx^%d", order, order)
	}
	return fmt.Sprintf("%s at x = %s (%d points)", op, FormatWeight(at), points)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderColor).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Label.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func RenderStencil(s *fornberg.Stencil) string {
	scale := maxAbs(s.Weights)
	t := newTable("i", "x", "weight", "")
	for i, w := range s.Weights {
		t.Row(strconv.Itoa(i), FormatWeight(s.Points[i]), FormatWeight(w), WeightBar(w, scale, barWidth))
	}

	var b strings.Builder
	b.WriteString(Title.Render(Heading(s.Order, s.At, s.Len())))
	b.WriteString("\n")
	b.WriteString(t.String())
	return b.String()
}

// RenderTable shows the weights for every order 0..t.Order(), one column per
// order.
func RenderTable(t *fornberg.Table, points []float64, at float64) string {
	headers := []string{"i", "x"}
	for m := 0; m <= t.Order(); m++ {
		headers = append(headers, fmt.Sprintf("order %d", m))
	}
	tab := newTable(headers...)
	for i := 0; i < t.Rows(); i++ {
		row := []string{strconv.Itoa(i), FormatWeight(points[i])}
		for _, w := range t.Row(i) {
			row = append(row, FormatWeight(w))
		}
		tab.Row(row...)
	}

	var b strings.Builder
	b.WriteString(Title.Render(fmt.Sprintf("orders 0..%d at x = %s (%d points)", t.Order(), FormatWeight(at), t.Rows())))
	b.WriteString("\n")
	b.WriteString(tab.String())
	return b.String()
}

// PlotWeights draws the weights against sample index.
func PlotWeights(weights []float64, caption string) string {
	if len(weights) == 0 {
		return Subtle.Render("(no weights)")
	}
	data := weights
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(4),
		asciigraph.Caption(caption),
	)
}

// RenderBatch lists every stencil of a batch with its status.
func RenderBatch(results []batch.Result) string {
	t := newTable("stencil", "order", "points", "at", "status", "weights")
	for _, r := range results {
		status := StatusOK.Render("ok")
		shape := SparklineChart(r.Weights, len(r.Weights))
		if r.Err != nil {
			status = StatusFailed.Render("failed")
			shape = Subtle.Render(r.Err.Error())
		}
		t.Row(r.Spec.Name, strconv.Itoa(r.Spec.Order), strconv.Itoa(len(r.Spec.Points)),
			FormatWeight(r.Spec.At), status, shape)
	}
	return t.String()
}

func RenderSummary(s batch.Summary) string {
	var b strings.Builder
	b.WriteString(Label.Render("stencils "))
	b.WriteString(Value.Render(strconv.Itoa(s.Total)))
	b.WriteString(Label.Render("  ok "))
	b.WriteString(StatusOK.Render(strconv.Itoa(s.Total - s.Failed)))
	b.WriteString(Label.Render("  failed "))
	if s.Failed > 0 {
		b.WriteString(StatusFailed.Render(strconv.Itoa(s.Failed)))
	} else {
		b.WriteString(Value.Render("0"))
	}
	if s.Canceled > 0 {
		b.WriteString(Label.Render("  canceled "))
		b.WriteString(StatusFailed.Render(strconv.Itoa(s.Canceled)))
	}
	return b.String()
}
