package revenue

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
)

// Padding is the space reserved around the plot area, in pixels.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// ChartSize describes the canvas of a revenue chart.
type ChartSize struct {
	Width   float64
	Height  float64
	Padding Padding
}

// DefaultChartSize matches the dashboard's line chart.
var DefaultChartSize = ChartSize{
	Width:   800,
	Height:  400,
	Padding: Padding{Top: 20, Right: 40, Bottom: 60, Left: 80},
}

// ChartPoint is a bucket placed on the canvas.
type ChartPoint struct {
	X, Y    float64
	Label   string
	Axis    string
	Revenue float64
}

// ChartLayout is the geometry of a line chart for a series.
type ChartLayout struct {
	Size       ChartSize
	PlotWidth  float64
	PlotHeight float64
	MaxRevenue float64
	Points     []ChartPoint
}

const yTicks = 5

// Layout places each bucket of series on a canvas of the given size.
// Points are spaced evenly across the plot width; a single point sits at
// the left edge and owns the whole width. The vertical scale never drops
// below 1 so an all-zero series stays on the baseline.
func Layout(series []BucketPoint, g Granularity, size ChartSize) ChartLayout {
	l := ChartLayout{
		Size:       size,
		PlotWidth:  size.Width - size.Padding.Left - size.Padding.Right,
		PlotHeight: size.Height - size.Padding.Top - size.Padding.Bottom,
		MaxRevenue: 1,
		Points:     make([]ChartPoint, 0, len(series)),
	}
	for _, b := range series {
		if v := b.Revenue.InexactFloat64(); v > l.MaxRevenue {
			l.MaxRevenue = v
		}
	}

	gaps := len(series) - 1
	if gaps < 1 {
		gaps = 1
	}
	step := l.PlotWidth / float64(gaps)
	for i, b := range series {
		v := b.Revenue.InexactFloat64()
		l.Points = append(l.Points, ChartPoint{
			X:       size.Padding.Left + step*float64(i),
			Y:       size.Padding.Top + l.PlotHeight - (v/l.MaxRevenue)*l.PlotHeight,
			Label:   b.Label,
			Axis:    g.shortLabel(b.Start, i),
			Revenue: v,
		})
	}
	return l
}

// RenderSVG draws series as a standalone SVG line chart. Coordinates are
// rounded to whole pixels.
func RenderSVG(series []BucketPoint, g Granularity, size ChartSize) string {
	l := Layout(series, g, size)
	p := size.Padding

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(px(size.Width), px(size.Height), `class="revenue-svg-chart"`)

	for i := 0; i <= yTicks; i++ {
		value := l.MaxRevenue / yTicks * float64(yTicks-i)
		y := p.Top + l.PlotHeight/yTicks*float64(i)
		canvas.Text(px(p.Left-10), px(y+5), fmt.Sprintf("$%.1fk", value/1000), `text-anchor="end"`, "font-size:12px;fill:#666")
		canvas.Line(px(p.Left), px(y), px(p.Left+l.PlotWidth), px(y), "stroke:#e0e0e0;stroke-width:1")
	}

	if len(l.Points) > 0 {
		xs := make([]int, len(l.Points))
		ys := make([]int, len(l.Points))
		for i, pt := range l.Points {
			xs[i], ys[i] = px(pt.X), px(pt.Y)
		}
		canvas.Polyline(xs, ys, "fill:none;stroke:#667eea;stroke-width:2")

		axisY := px(size.Height - p.Bottom + 20)
		for i, pt := range l.Points {
			canvas.Group()
			canvas.Title(fmt.Sprintf("%s: $%.2f", pt.Label, pt.Revenue))
			canvas.Circle(xs[i], ys[i], 4, "fill:#667eea")
			canvas.Gend()
			canvas.Text(xs[i], axisY, pt.Axis,
				`text-anchor="middle"`,
				fmt.Sprintf(`transform="rotate(-45 %d %d)"`, xs[i], axisY),
				"font-size:11px;fill:#666")
		}
	}

	canvas.End()
	return buf.String()
}

func px(v float64) int { return int(math.Round(v)) }
