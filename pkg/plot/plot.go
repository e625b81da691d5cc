package plot

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	//NoDataLabel replaces the x-axis name when there is nothing to draw
	NoDataLabel = "NO DATA AVAILABLE"

	barsAxisName = "active = finished + running transfers"
	rateAxisName = "Average transfer rate per file (MB/s)"

	finishedLabel = "finished"
	runningLabel  = "running"
	rateLabel     = "interpolated rate"

	headroom = 1.25
)

var (
	finishedColor = drawing.Color{R: 123, G: 104, B: 238, A: 255} // mediumslateblue
	runningColor  = drawing.Color{R: 100, G: 149, B: 237, A: 255} // cornflowerblue
	barsAxisColor = drawing.Color{R: 72, G: 61, B: 139, A: 255}   // darkslateblue
	rateColor     = drawing.ColorRed
)

type (
	//Bin is one x position of the chart
	Bin struct {
		Label    string
		Finished float64
		Running  float64
		Rate     float64
	}

	//Options controls the chart's title and image size
	Options struct {
		Title  string
		Width  int
		Height int
	}
)

//Build lays out the dual axis chart for bins. Every call returns an
//independent chart value.
func Build(bins []Bin, opts Options) (chart.Chart, error) {
	n := len(bins)

	rates := make([]float64, n)
	maxActive := 0.
	for i, bin := range bins {
		rates[i] = bin.Rate
		maxActive = math.Max(maxActive, bin.Finished+bin.Running)
	}

	xs, ys, interpolated, err := RateCurve(rates)
	if err != nil {
		return chart.Chart{}, err
	}
	maxRate := 0.
	for _, y := range ys {
		maxRate = math.Max(maxRate, y)
	}

	finishedStyle := chart.Style{FillColor: finishedColor, StrokeColor: finishedColor, StrokeWidth: 1}
	runningStyle := chart.Style{FillColor: runningColor, StrokeColor: runningColor, StrokeWidth: 1}
	rateStyle := chart.Style{StrokeColor: rateColor, StrokeWidth: 1.5}

	xAxis := chart.XAxis{
		Style: chart.Style{TextRotationDegrees: 90, FontSize: 7},
		Range: &chart.ContinuousRange{Min: 0, Max: math.Max(float64(n), 1)},
		Ticks: xTicks(bins),
	}
	if n == 0 {
		xAxis.Name = NoDataLabel
	}

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: xAxis,
		YAxis: chart.YAxis{
			Name:      barsAxisName,
			NameStyle: chart.Style{FontColor: barsAxisColor},
			Style:     chart.Style{FontColor: barsAxisColor},
			Range:     &chart.ContinuousRange{Min: 0, Max: axisMax(maxActive)},
		},
		YAxisSecondary: chart.YAxis{
			Name:      rateAxisName,
			NameStyle: chart.Style{FontColor: rateColor},
			Style:     chart.Style{FontColor: rateColor},
			Range:     &chart.ContinuousRange{Min: 0, Max: axisMax(maxRate)},
		},
		Series: []chart.Series{
			stackedBars{
				Name:          barsAxisName,
				Bins:          bins,
				FinishedStyle: finishedStyle,
				RunningStyle:  runningStyle,
			},
			chart.ContinuousSeries{
				Name:    rateLabel,
				YAxis:   chart.YAxisSecondary,
				Style:   rateStyle,
				XValues: xs,
				YValues: ys,
			},
		},
	}

	if n > 0 {
		ch.Elements = append(ch.Elements, cornerLegend([]legendEntry{
			{label: finishedLabel, style: finishedStyle, swatch: true},
			{label: runningLabel, style: runningStyle, swatch: true},
		}, false))
	}
	if interpolated {
		ch.Elements = append(ch.Elements, cornerLegend([]legendEntry{
			{label: rateLabel, style: rateStyle},
		}, true))
	}
	return ch, nil
}

//Render draws the chart for bins as PNG into w
func Render(w io.Writer, bins []Bin, opts Options) error {
	ch, err := Build(bins, opts)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

//RenderFile draws the chart for bins as PNG into the file at path
func RenderFile(path string, bins []Bin, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, bins, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

//xTicks labels the middle of each bar. The outer ticks pin the x-range
//to the bar edges.
func xTicks(bins []Bin) []chart.Tick {
	n := len(bins)
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: 0})
	for i, bin := range bins {
		ticks = append(ticks, chart.Tick{Value: float64(i) + 0.5, Label: bin.Label})
	}
	return append(ticks, chart.Tick{Value: math.Max(float64(n), 1)})
}

func axisMax(observed float64) float64 {
	if observed <= 0 || math.IsNaN(observed) || math.IsInf(observed, 0) {
		return 1
	}
	return observed * headroom
}
