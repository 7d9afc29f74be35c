package minimize

import (
	"math"

	"github.com/simonthor/zfit/core/param"
)

// transform maps a bounded external parameter onto an unbounded internal
// coordinate, the way MINUIT does, so that unconstrained quasi-Newton
// methods respect parameter limits.
type transform struct {
	lower, upper float64
	hasLower     bool
	hasUpper     bool
}

func newTransform(p *param.Parameter) transform {
	return transform{
		lower:    p.Lower(),
		upper:    p.Upper(),
		hasLower: !math.IsInf(p.Lower(), -1),
		hasUpper: !math.IsInf(p.Upper(), 1),
	}
}

// external maps the internal coordinate to the parameter value.
func (t transform) external(x float64) float64 {
	switch {
	case t.hasLower && t.hasUpper:
		return t.lower + (t.upper-t.lower)/2*(math.Sin(x)+1)
	case t.hasLower:
		return t.lower - 1 + math.Sqrt(x*x+1)
	case t.hasUpper:
		return t.upper + 1 - math.Sqrt(x*x+1)
	default:
		return x
	}
}

// internal maps a parameter value to the internal coordinate.
func (t transform) internal(v float64) float64 {
	switch {
	case t.hasLower && t.hasUpper:
		arg := 2*(v-t.lower)/(t.upper-t.lower) - 1
		// Clamp against rounding outside [-1, 1] at the limits.
		arg = math.Max(-1, math.Min(1, arg))
		return math.Asin(arg)
	case t.hasLower:
		d := v - t.lower + 1
		return math.Sqrt(math.Max(d*d-1, 0))
	case t.hasUpper:
		d := t.upper + 1 - v
		return math.Sqrt(math.Max(d*d-1, 0))
	default:
		return v
	}
}

// derivative returns d(external)/d(internal) for the chain rule.
func (t transform) derivative(x float64) float64 {
	switch {
	case t.hasLower && t.hasUpper:
		return (t.upper - t.lower) / 2 * math.Cos(x)
	case t.hasLower:
		return x / math.Sqrt(x*x+1)
	case t.hasUpper:
		return -x / math.Sqrt(x*x+1)
	default:
		return 1
	}
}
