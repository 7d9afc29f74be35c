package pdf

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/core/space"
	"github.com/simonthor/zfit/pkg/errors"
)

// Gauss は1観測量上のガウス分布モデル
// μ・σはパラメータへの参照であり、評価のたびに現在値を読む
type Gauss struct {
	name  string
	ob    string
	mu    *param.Parameter
	sigma *param.Parameter
}

// NewGauss は新しいガウスモデルを作成する
func NewGauss(name, ob string, mu, sigma *param.Parameter) *Gauss {
	return &Gauss{name: name, ob: ob, mu: mu, sigma: sigma}
}

// Name はモデル名を返す
func (g *Gauss) Name() string { return g.name }

// Obs はモデルの観測量を返す
func (g *Gauss) Obs() []string { return []string{g.ob} }

// Params はμとσを返す
func (g *Gauss) Params() param.Set { return param.NewSet(g.mu, g.sigma) }

// HasAnalyticIntegral は常にtrue（CDFの差で積分する）
func (g *Gauss) HasAnalyticIntegral() bool { return true }

func (g *Gauss) dist() (distuv.Normal, error) {
	sigma := g.sigma.Value()
	if sigma <= 0 {
		return distuv.Normal{}, errors.NewNumericalInstabilityError("Gauss.dist sigma", []float64{sigma})
	}
	return distuv.Normal{Mu: g.mu.Value(), Sigma: sigma}, nil
}

// Func は各イベントの密度を返す（実数全体で正規化された形）
func (g *Gauss) Func(x *mat.Dense) ([]float64, error) {
	dist, err := g.dist()
	if err != nil {
		return nil, err
	}
	n, c := x.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError("Gauss.Func", 1, c, 1)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = dist.Prob(x.At(i, 0))
	}
	return out, nil
}

// Integrate は領域上の積分をCDFの差で返す
func (g *Gauss) Integrate(s *space.Space) (float64, error) {
	dist, err := g.dist()
	if err != nil {
		return 0, err
	}
	if s.NDim() != 1 {
		return 0, errors.NewDimensionError("Gauss.Integrate", 1, s.NDim(), 1)
	}
	lower, upper, ok := s.LimitsOf(g.ob)
	if !ok {
		return 0, errors.NewValueError("Gauss.Integrate", "range does not cover observable "+g.ob)
	}
	return dist.CDF(upper) - dist.CDF(lower), nil
}
