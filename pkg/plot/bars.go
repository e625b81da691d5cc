package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

//stackedBars draws finished transfers with the running ones stacked on top.
//Bar i covers [i, i+1] on the x-axis.
type stackedBars struct {
	Name          string
	Bins          []Bin
	FinishedStyle chart.Style
	RunningStyle  chart.Style
}

func (b stackedBars) GetName() string {
	return b.Name
}

func (b stackedBars) GetStyle() chart.Style {
	return chart.Style{}
}

func (b stackedBars) GetYAxis() chart.YAxisType {
	return chart.YAxisPrimary
}

func (b stackedBars) Len() int {
	return len(b.Bins)
}

func (b stackedBars) GetValues(index int) (float64, float64) {
	bin := b.Bins[index]
	return float64(index) + 0.5, bin.Finished + bin.Running
}

func (b stackedBars) Validate() error {
	for i, bin := range b.Bins {
		if math.IsNaN(bin.Finished) || math.IsNaN(bin.Running) {
			return fmt.Errorf("bar %d has no value", i)
		}
	}
	return nil
}

func (b stackedBars) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	cb := canvasBox.Bottom
	cl := canvasBox.Left
	finishedStyle := b.FinishedStyle.InheritFrom(defaults)
	runningStyle := b.RunningStyle.InheritFrom(defaults)

	for i, bin := range b.Bins {
		left := cl + xrange.Translate(float64(i))
		right := cl + xrange.Translate(float64(i+1))
		gap := (right - left) / 10
		left, right = left+gap, right-gap

		base := cb - yrange.Translate(0)
		mid := cb - yrange.Translate(math.Max(bin.Finished, 0))
		top := cb - yrange.Translate(math.Max(bin.Finished, 0)+math.Max(bin.Running, 0))

		if mid < base {
			chart.Draw.Box(r, chart.Box{Top: mid, Left: left, Right: right, Bottom: base}, finishedStyle)
		}
		if top < mid {
			chart.Draw.Box(r, chart.Box{Top: top, Left: left, Right: right, Bottom: mid}, runningStyle)
		}
	}
}
