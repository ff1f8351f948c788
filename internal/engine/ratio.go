package engine

import (
	"math/big"

	"gonum.org/v1/gonum/floats/scalar"
)

// DisplayRatioFloat64 is DisplayRatio converted to the one explicitly
// double-precision value this module produces: spec.md §3 keeps doubles at
// the render boundary only, never inside the compile/playback pipeline
// itself. scalar.Round (rather than an ad hoc stdlib rounding expression)
// rounds the result to prec digits after the decimal point, matching the
// precision a renderer actually consumes.
func (e *Engine) DisplayRatioFloat64(eventY *big.Rat, prec int) float64 {
	r := e.DisplayRatio(eventY)
	f, _ := r.Float64()
	return scalar.Round(f, prec)
}
