package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	legendMargin  = 5
	legendPadding = 5
	legendRowGap  = 6
	legendSwatch  = 20
	legendTextGap = 5
)

type legendEntry struct {
	label  string
	style  chart.Style
	swatch bool // filled box instead of a line sample
}

//cornerLegend draws entries in the upper left or upper right corner of the canvas
func cornerLegend(entries []legendEntry, alignRight bool) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		if len(entries) == 0 {
			return
		}
		style := defaults.InheritFrom(chart.Style{
			FillColor:   drawing.ColorWhite,
			FontColor:   chart.DefaultTextColor,
			FontSize:    8.0,
			StrokeColor: chart.DefaultAxisColor,
			StrokeWidth: chart.DefaultAxisLineWidth,
		})

		// measure
		style.GetTextOptions().WriteToRenderer(r)
		width, height := 0, 0
		for i, e := range entries {
			tb := r.MeasureText(e.label)
			if i > 0 {
				height += legendRowGap
			}
			height += tb.Height()
			width = chart.MaxInt(width, tb.Width())
		}
		width += legendSwatch + legendTextGap

		legend := chart.Box{
			Top:  cb.Top + legendMargin,
			Left: cb.Left + legendMargin,
		}
		if alignRight {
			legend.Left = cb.Right - legendMargin - width - 2*legendPadding
		}
		legend.Right = legend.Left + width + 2*legendPadding
		legend.Bottom = legend.Top + height + 2*legendPadding

		chart.Draw.Box(r, legend, style)

		y := legend.Top + legendPadding
		sx := legend.Left + legendPadding
		tx := sx + legendSwatch + legendTextGap
		for i, e := range entries {
			style.GetTextOptions().WriteToRenderer(r)
			tb := r.MeasureText(e.label)
			if i > 0 {
				y += legendRowGap
			}
			ty := y + tb.Height()
			mid := ty - tb.Height()>>1

			if e.swatch {
				chart.Draw.Box(r, chart.Box{Top: mid - 4, Left: sx, Right: sx + legendSwatch, Bottom: mid + 4}, e.style)
			} else {
				r.SetStrokeColor(e.style.GetStrokeColor())
				r.SetStrokeWidth(e.style.GetStrokeWidth())
				r.MoveTo(sx, mid)
				r.LineTo(sx+legendSwatch, mid)
				r.Stroke()
			}

			style.GetTextOptions().WriteToRenderer(r)
			r.Text(e.label, tx, ty)
			y += tb.Height()
		}
	}
}
