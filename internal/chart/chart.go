// Package chart plots cumulative spending against the weekly goal line.
package chart

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mol3earth/ofx/internal/spending"
)

const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

var (
	spendColor = color.RGBA{B: 255, A: 255}
	goalColor  = color.Black

	printer = message.NewPrinter(language.AmericanEnglish)
)

// Currency formats v as dollars with thousands separators.
func Currency(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// moneyTicks labels the Y axis in dollars.
type moneyTicks struct{}

func (moneyTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = Currency(ticks[i].Value)
		}
	}
	return ticks
}

// Build lays out the trend plot without writing it anywhere.
func Build(points []spending.TrendPoint, weeklyGoal decimal.Decimal) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, errors.New("no trend points to plot")
	}

	spent := make(plotter.XYs, len(points))
	goals := make(plotter.XYs, len(points))
	for i, pt := range points {
		x := float64(pt.Date.Unix())
		spent[i] = plotter.XY{X: x, Y: pt.CumulativeSpend.InexactFloat64()}
		goals[i] = plotter.XY{X: x, Y: pt.CumulativeGoal.InexactFloat64()}
	}

	p := plot.New()
	p.Title.Text = "Cumulative spending"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01/02/2006"}
	p.Y.Tick.Marker = moneyTicks{}
	p.Add(plotter.NewGrid())

	spendLine, spendPoints, err := plotter.NewLinePoints(spent)
	if err != nil {
		return nil, fmt.Errorf("building spend series: %w", err)
	}
	spendLine.Color = spendColor
	spendPoints.Shape = draw.CircleGlyph{}
	spendPoints.Color = spendColor

	goalLine, goalPoints, err := plotter.NewLinePoints(goals)
	if err != nil {
		return nil, fmt.Errorf("building goal series: %w", err)
	}
	goalLine.Color = goalColor
	goalLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	goalPoints.Shape = draw.PlusGlyph{}
	goalPoints.Color = goalColor

	p.Add(spendLine, spendPoints, goalLine, goalPoints)
	p.Legend.Add("spent", spendLine, spendPoints)
	p.Legend.Add("goal", goalLine, goalPoints)
	p.Legend.Top = true
	p.Legend.Left = true

	// Annotate the goal line near its start, like the report's footer.
	idx := min(len(points)-2, 1)
	if idx < 0 {
		idx = 0
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{goals[idx]},
		Labels: []string{fmt.Sprintf(" %s/week Avg. ", Currency(weeklyGoal.InexactFloat64()))},
	})
	if err != nil {
		return nil, fmt.Errorf("building goal label: %w", err)
	}
	p.Add(labels)

	return p, nil
}

// Render draws the trend and saves it to path. The image format follows
// the extension (.png, .svg, .pdf, ...).
func Render(points []spending.TrendPoint, weeklyGoal decimal.Decimal, path string) error {
	p, err := Build(points, weeklyGoal)
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}
