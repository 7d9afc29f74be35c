package pdf

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/simonthor/zfit/core/space"
	"github.com/simonthor/zfit/pkg/errors"
)

// DefaultQuadNodes は数値積分のガウス・ルジャンドル節点数の既定値
const DefaultQuadNodes = 200

// Base は1次元モデル向けの数値積分フォールバックを提供する埋め込み用構造体
// 解析積分を持たないモデルはIntegrateからNumericIntegrate1Dを呼ぶ
type Base struct {
	// QuadNodes は節点数（0の場合はDefaultQuadNodes）
	QuadNodes int
}

func (b *Base) nodes() int {
	if b.QuadNodes > 0 {
		return b.QuadNodes
	}
	return DefaultQuadNodes
}

// NumericIntegrate1D は1次元領域上でfをガウス・ルジャンドル求積で積分する
// 無限区間は t/(1-t^2) の変数変換で有限区間に写してから積分する
func (b *Base) NumericIntegrate1D(f func(float64) float64, s *space.Space) (float64, error) {
	if s.NDim() != 1 {
		return 0, errors.NewDimensionError("pdf.NumericIntegrate1D", 1, s.NDim(), 1)
	}
	lower, upper := s.Limits(0)
	if lower == upper {
		return 0, nil
	}

	if math.IsInf(lower, -1) || math.IsInf(upper, 1) {
		// x = t/(1-t^2), dx/dt = (1+t^2)/(1-t^2)^2 maps (-1, 1) onto the real line.
		tLo, tHi := toUnit(lower), toUnit(upper)
		g := func(t float64) float64 {
			d := 1 - t*t
			x := t / d
			return f(x) * (1 + t*t) / (d * d)
		}
		return quad.Fixed(g, tLo, tHi, b.nodes(), nil, 0), nil
	}

	return quad.Fixed(f, lower, upper, b.nodes(), nil, 0), nil
}

// toUnit maps a (possibly infinite) bound to the substituted coordinate.
func toUnit(x float64) float64 {
	if math.IsInf(x, -1) {
		return -1
	}
	if math.IsInf(x, 1) {
		return 1
	}
	// Invert x = t/(1-t^2): t = (sqrt(1+4x^2) - 1) / (2x), odd in x.
	if x == 0 {
		return 0
	}
	return (math.Sqrt(1+4*x*x) - 1) / (2 * x)
}
