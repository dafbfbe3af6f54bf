package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoChartData is returned when a chart would have no bars.
var ErrNoChartData = errors.New("no data to chart")

var (
	barColor  = color.RGBA{R: 0x34, G: 0x49, B: 0x5e, A: 0xff}
	gridColor = color.RGBA{R: 0xbd, G: 0xc3, B: 0xc7, A: 0xff}
)

// ChartSpec describes a single-series bar chart.
type ChartSpec struct {
	Title      string
	ValueLabel string
	Bars       []Ranked
	// Horizontal draws category labels on the Y axis, first bar on top.
	Horizontal bool
}

// RenderPNG draws the chart and returns the encoded PNG.
func RenderPNG(spec ChartSpec, width, height vg.Length) ([]byte, error) {
	if len(spec.Bars) == 0 {
		return nil, ErrNoChartData
	}

	bars := spec.Bars
	if spec.Horizontal {
		// Nominal axes grow upwards; reverse so the largest bar is on top.
		bars = make([]Ranked, len(spec.Bars))
		for i, b := range spec.Bars {
			bars[len(bars)-1-i] = b
		}
	}

	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	for i, b := range bars {
		values[i] = b.Tonnes
		labels[i] = b.Label
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)

	chart, err := plotter.NewBarChart(values, barWidth(len(bars), width, height, spec.Horizontal))
	if err != nil {
		return nil, fmt.Errorf("build bar chart: %w", err)
	}
	chart.Color = barColor
	chart.LineStyle.Width = vg.Length(0)
	chart.Horizontal = spec.Horizontal

	grid := plotter.NewGrid()
	grid.Horizontal.Color = gridColor
	grid.Vertical.Color = gridColor
	p.Add(grid, chart)

	if spec.Horizontal {
		p.NominalY(labels...)
		p.X.Label.Text = spec.ValueLabel
		p.X.Min = 0
	} else {
		p.NominalX(labels...)
		p.Y.Label.Text = spec.ValueLabel
		p.Y.Min = 0
		if len(labels) > 6 {
			p.X.Tick.Label.Rotation = math.Pi / 4
			p.X.Tick.Label.XAlign = draw.XRight
			p.X.Tick.Label.YAlign = draw.YCenter
		}
	}

	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write chart: %w", err)
	}
	return buf.Bytes(), nil
}

// SeasonHistoryChart charts the season aggregate.
func SeasonHistoryChart(v View) ChartSpec {
	return ChartSpec{Title: "Export volume by cocoa season", ValueLabel: "Tonnes", Bars: v.History}
}

// MonthlyChart charts the selected season month by month.
func MonthlyChart(v View) ChartSpec {
	return ChartSpec{Title: "Volume by month, season " + v.Season, ValueLabel: "Tonnes", Bars: v.Monthly}
}

// ExportersChart charts the top exporters of the selected season.
func ExportersChart(v View) ChartSpec {
	return ChartSpec{Title: fmt.Sprintf("Top %d exporters, season %s", TopExporters, v.Season), ValueLabel: "Tonnes", Bars: v.Exporters, Horizontal: true}
}

// DestinationsChart charts the top destination countries of the selected season.
func DestinationsChart(v View) ChartSpec {
	return ChartSpec{Title: fmt.Sprintf("Top %d destination countries, season %s", TopDestinations, v.Season), ValueLabel: "Tonnes", Bars: v.Destinations}
}

// ProductsChart charts the product split of the selected season.
func ProductsChart(v View) ChartSpec {
	return ChartSpec{Title: "Volume by product, season " + v.Season, ValueLabel: "Tonnes", Bars: v.Products, Horizontal: true}
}

func barWidth(n int, width, height vg.Length, horizontal bool) vg.Length {
	span := width
	if horizontal {
		span = height
	}
	w := span / vg.Length(n*2)
	if widest := vg.Points(40); w > widest {
		return widest
	}
	if narrowest := vg.Points(4); w < narrowest {
		return narrowest
	}
	return w
}
