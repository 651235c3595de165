package revenue

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLayout_SinglePointUsesFullWidth(t *testing.T) {
	series := []BucketPoint{{Key: "2024-01", Label: "Jan 2024", Start: at("2024-01-01T00:00:00Z"), Revenue: decimal.NewFromInt(500)}}
	l := Layout(series, Months, DefaultChartSize)

	if len(l.Points) != 1 {
		t.Fatalf("want 1 point, got %d", len(l.Points))
	}
	pt := l.Points[0]
	if math.IsNaN(pt.X) || math.IsInf(pt.X, 0) || math.IsNaN(pt.Y) {
		t.Fatalf("invalid coordinates %+v", pt)
	}
	if pt.X != DefaultChartSize.Padding.Left {
		t.Fatalf("x=%v, want left edge %v", pt.X, DefaultChartSize.Padding.Left)
	}
	if pt.Y != DefaultChartSize.Padding.Top {
		t.Fatalf("the max point should touch the top, y=%v", pt.Y)
	}
}

func TestLayout_SpacingAndZeroSeries(t *testing.T) {
	start := at("2024-01-01T00:00:00Z")
	series := []BucketPoint{
		{Start: start, Revenue: decimal.Zero},
		{Start: start.AddDate(0, 0, 1), Revenue: decimal.Zero},
		{Start: start.AddDate(0, 0, 2), Revenue: decimal.Zero},
	}
	l := Layout(series, Days, DefaultChartSize)

	if l.MaxRevenue != 1 {
		t.Fatalf("max revenue floor = %v, want 1", l.MaxRevenue)
	}
	last := l.Points[2]
	if last.X != DefaultChartSize.Padding.Left+l.PlotWidth {
		t.Fatalf("last point x=%v, want right edge", last.X)
	}
	baseline := DefaultChartSize.Padding.Top + l.PlotHeight
	for _, pt := range l.Points {
		if pt.Y != baseline {
			t.Fatalf("zero revenue should sit on the baseline, got %v", pt.Y)
		}
	}
	if l.Points[1].Axis != "Jan 2" {
		t.Fatalf("axis label %q", l.Points[1].Axis)
	}
}

func TestRenderSVG(t *testing.T) {
	empty := strings.TrimSpace(RenderSVG(nil, Weeks, DefaultChartSize))
	if !strings.Contains(empty, `<svg width="800" height="400"`) || !strings.HasSuffix(empty, "</svg>") || strings.Contains(empty, "<polyline") {
		t.Fatalf("empty chart is not a complete svg: %s", empty)
	}

	start := at("2024-01-01T00:00:00Z")
	series := []BucketPoint{
		{Label: "Week of Jan 1, 2024", Start: start, Revenue: decimal.NewFromInt(200)},
		{Label: "Week <of> Jan 8", Start: start.Add(7 * 24 * time.Hour), Revenue: decimal.NewFromInt(300)},
	}
	svg := RenderSVG(series, Weeks, DefaultChartSize)
	for _, want := range []string{"<polyline", ">W1</text>", ">W2</text>", "<title>Week of Jan 1, 2024: $200.00</title>", "&lt;of&gt;", `class="revenue-svg-chart"`} {
		if !strings.Contains(svg, want) {
			t.Fatalf("svg missing %q", want)
		}
	}
}

func TestGranularityHelpers(t *testing.T) {
	if ParseGranularity("") != Weeks || ParseGranularity("bogus") != Weeks || ParseGranularity("HOURS") != Hours {
		t.Fatalf("ParseGranularity defaults broken")
	}
	if ParseRange("") != Last12Weeks || ParseRange("5y") != Last12Weeks || ParseRange("ALL") != AllTime {
		t.Fatalf("ParseRange defaults broken")
	}

	sunday := at("2024-01-07T18:20:00Z")
	if got := Weeks.Truncate(sunday); !got.Equal(at("2024-01-01T00:00:00Z")) {
		t.Fatalf("sunday truncates to %v", got)
	}
	monday := at("2024-01-08T00:00:00Z")
	if got := Weeks.Truncate(monday); !got.Equal(monday) {
		t.Fatalf("monday truncates to %v", got)
	}
	if got := Hours.Truncate(at("2024-01-07T18:20:31Z")); !got.Equal(at("2024-01-07T18:00:00Z")) {
		t.Fatalf("hour truncation %v", got)
	}

	keys := []struct {
		g    Granularity
		want string
	}{
		{Hours, "2024-01-07T18"},
		{Days, "2024-01-07"},
		{Weeks, "2024-01-01"},
		{Months, "2024-01"},
	}
	for _, k := range keys {
		if got := k.g.Key(k.g.Truncate(sunday)); got != k.want {
			t.Fatalf("%s key %q, want %q", k.g, got, k.want)
		}
	}
	if got := Weeks.Label(at("2024-01-01T00:00:00Z")); got != "Week of Jan 1, 2024" {
		t.Fatalf("week label %q", got)
	}
}

func TestRenderSVG_EscapesLabels(t *testing.T) {
	series := []BucketPoint{{Label: `Acme & "Sons"`, Start: at("2024-01-01T00:00:00Z"), Revenue: decimal.NewFromInt(5)}}
	svg := RenderSVG(series, Days, DefaultChartSize)
	if strings.Contains(svg, `Acme & "Sons"`) || !strings.Contains(svg, "Acme &amp;") {
		t.Fatalf("label not escaped: %s", svg)
	}
}
