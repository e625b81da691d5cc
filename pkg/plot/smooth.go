package plot

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

//SampleCount is the number of points an interpolated rate curve has
const SampleCount = 300

//RateCurve returns the rate line centred on the bars. With more than two
//rates the line is resampled through a not-a-knot cubic spline and
//overshoot below zero is clipped; otherwise the raw rates are returned.
//Three rates yield the parabola through them.
func RateCurve(rates []float64) (xs, ys []float64, interpolated bool, err error) {
	n := len(rates)
	if n <= 2 {
		xs = make([]float64, n)
		ys = make([]float64, n)
		for i, rate := range rates {
			xs[i] = float64(i) + 0.5
			ys[i] = rate
		}
		return xs, ys, false, nil
	}

	knots := make([]float64, n)
	for i := range knots {
		knots[i] = float64(i)
	}
	spline, err := fitRates(knots, rates)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to interpolate rates: %w", err)
	}

	xs = floats.Span(make([]float64, SampleCount), 0, float64(n-1))
	ys = make([]float64, SampleCount)
	for i, x := range xs {
		y := spline.Predict(x)
		if y < 0 {
			y = 0
		}
		ys[i] = y
		xs[i] = x + 0.5
	}
	return xs, ys, true, nil
}

//fitRates fits a not-a-knot cubic spline through the knots. The spline
//needs four knots, with three it is the parabola through the points.
func fitRates(xs, ys []float64) (interp.Predictor, error) {
	if len(xs) == 3 {
		return parabola(xs, ys), nil
	}
	var spline interp.NotAKnotCubic
	if err := spline.Fit(xs, ys); err != nil {
		return nil, err
	}
	return &spline, nil
}

//parabola interpolates three points in Lagrange form
func parabola(xs, ys []float64) interp.Function {
	x0, x1, x2 := xs[0], xs[1], xs[2]
	y0, y1, y2 := ys[0], ys[1], ys[2]
	return func(x float64) float64 {
		return y0*(x-x1)*(x-x2)/((x0-x1)*(x0-x2)) +
			y1*(x-x0)*(x-x2)/((x1-x0)*(x1-x2)) +
			y2*(x-x0)*(x-x1)/((x2-x0)*(x2-x1))
	}
}
