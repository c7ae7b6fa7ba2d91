// Package charts turns summary tables into self-contained ECharts HTML pages.
package charts

import (
	"fmt"
	"io"

	"github.com/couchcryptid/road-accident-dashboard/internal/aggregate"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// spectral approximates matplotlib's Spectral colormap, low to high.
var spectral = []string{
	"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b",
	"#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
}

// locationColors colour the location slices by position: the larger bucket,
// listed first, is orange.
var locationColors = []string{"#ff7f0e", "#1f77b4"}

const (
	width  = "100%"
	height = "480px"
)

// Renderer writes a chart as an HTML document.
type Renderer interface {
	Render(w io.Writer) error
}

// Render builds the chart for sec and writes it to w.
func Render(w io.Writer, sec aggregate.Section, t aggregate.Table) error {
	r, err := Build(sec, t)
	if err != nil {
		return err
	}
	return r.Render(w)
}

// Build returns the chart for one dashboard section.
func Build(sec aggregate.Section, t aggregate.Table) (Renderer, error) {
	switch sec {
	case aggregate.SectionReasons:
		return pie(sec, t, spectral), nil
	case aggregate.SectionStates:
		return bar(sec, t, "Number of Accidents", true), nil
	case aggregate.SectionWeather:
		return bar(sec, t, "", false), nil
	case aggregate.SectionSpeed:
		return line(sec, t), nil
	case aggregate.SectionAlcohol:
		return bar(sec, t, "", false), nil
	case aggregate.SectionLocation:
		return pie(sec, t, locationColors), nil
	default:
		return nil, fmt.Errorf("no chart for section %q", sec)
	}
}

func globalOpts(sec aggregate.Section) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: sec.Title(), Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: sec.Title()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func pie(sec aggregate.Section, t aggregate.Table, colors []string) *charts.Pie {
	data := make([]opts.PieData, len(t))
	for i, e := range t {
		data[i] = opts.PieData{
			Name:      e.Category,
			Value:     e.Value,
			ItemStyle: &opts.ItemStyle{Color: colors[i%len(colors)]},
		}
	}

	p := charts.NewPie()
	p.SetGlobalOptions(append(globalOpts(sec),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)...)
	p.AddSeries(string(sec), data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"0%", "65%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return p
}

// bar draws one bar per category, coloured by value. Horizontal bars list
// the largest category at the top.
func bar(sec aggregate.Section, t aggregate.Table, valueAxis string, horizontal bool) *charts.Bar {
	cats := t.Categories()
	vals := t.Values()
	if horizontal {
		cats = reversed(cats)
		vals = reversedFloats(vals)
	}

	data := make([]opts.BarData, len(vals))
	for i, v := range vals {
		data[i] = opts.BarData{Value: v}
	}

	b := charts.NewBar()
	gopts := append(globalOpts(sec),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:    opts.Bool(false),
			Min:     0,
			Max:     float32(maxValue(vals)),
			InRange: &opts.VisualMapInRange{Color: spectral},
		}),
	)
	labelPos := "top"
	if horizontal {
		// XYReversal moves only the category data, so the value axis stays X.
		gopts = append(gopts, charts.WithXAxisOpts(opts.XAxis{Name: valueAxis}))
		labelPos = "right"
	} else {
		gopts = append(gopts, charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"},
		}))
	}
	b.SetGlobalOptions(gopts...)
	b.SetXAxis(cats).AddSeries(string(sec), data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: labelPos}),
	)
	if horizontal {
		b.XYReversal()
	}
	return b
}

func line(sec aggregate.Section, t aggregate.Table) *charts.Line {
	data := make([]opts.LineData, len(t))
	for i, e := range t {
		data[i] = opts.LineData{Value: e.Value}
	}

	l := charts.NewLine()
	l.SetGlobalOptions(append(globalOpts(sec),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Speed Limit"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Average Deaths"}),
	)...)
	l.SetXAxis(t.Categories()).AddSeries("Avg Deaths", data)
	return l
}

func maxValue(vals []float64) float64 {
	m := 1.0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

func reversed(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func reversedFloats(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
