// Package constraint はパラメータに対する加法的なペナルティ項を提供します。
// 制約は負の対数ガウスの形で損失に加算され、勾配計算のために
// 依存パラメータを宣言します。
package constraint

import (
	"gonum.org/v1/gonum/mat"

	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/pkg/errors"
)

// Constraint は損失に加算されるスカラーペナルティ
type Constraint interface {
	// Value はペナルティを計算する。符号はNLLと同じ向き（加算で罰する）
	Value() (float64, error)

	// Params は制約が依存するパラメータを返す
	Params() param.Set
}

// Gaussian はパラメータに対するガウス制約
// 0.5 * (x - mu)^T Σ^{-1} (x - mu) を値とする
// ここでmuはパラメータの現在値、xは観測された参照値
type Gaussian struct {
	params   []*param.Parameter
	observed []float64
	// 独立σの場合はsigmasのみ、完全な共分散の場合はcholのみが設定される
	sigmas []float64
	chol   *mat.Cholesky
}

// NewGaussian は独立なσを持つガウス制約を作成する
// observedは参照値（制約の中心）、paramsは制約されるパラメータ
func NewGaussian(params []*param.Parameter, observed, sigmas []float64) (*Gaussian, error) {
	if len(params) == 0 {
		return nil, errors.NewValueError("constraint.NewGaussian", "at least one parameter is required")
	}
	if len(observed) != len(params) {
		return nil, errors.NewDimensionError("constraint.NewGaussian", len(params), len(observed), 0)
	}
	if len(sigmas) != len(params) {
		return nil, errors.NewDimensionError("constraint.NewGaussian", len(params), len(sigmas), 0)
	}
	for _, s := range sigmas {
		if s <= 0 {
			return nil, errors.NewNumericalInstabilityError("constraint.NewGaussian sigma", sigmas)
		}
	}
	return &Gaussian{
		params:   append([]*param.Parameter(nil), params...),
		observed: append([]float64(nil), observed...),
		sigmas:   append([]float64(nil), sigmas...),
	}, nil
}

// NewGaussianCov は完全な共分散行列を持つガウス制約を作成する
// 共分散は正定値でなければならない
func NewGaussianCov(params []*param.Parameter, observed []float64, cov *mat.SymDense) (*Gaussian, error) {
	if len(params) == 0 {
		return nil, errors.NewValueError("constraint.NewGaussianCov", "at least one parameter is required")
	}
	if len(observed) != len(params) {
		return nil, errors.NewDimensionError("constraint.NewGaussianCov", len(params), len(observed), 0)
	}
	if n := cov.SymmetricDim(); n != len(params) {
		return nil, errors.NewDimensionError("constraint.NewGaussianCov", len(params), n, 0)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "constraint.NewGaussianCov: covariance is not positive definite")
	}
	return &Gaussian{
		params:   append([]*param.Parameter(nil), params...),
		observed: append([]float64(nil), observed...),
		chol:     &chol,
	}, nil
}

// Value はペナルティ 0.5 * r^T Σ^{-1} r を返す（r = value - observed）
func (g *Gaussian) Value() (float64, error) {
	n := len(g.params)
	residual := make([]float64, n)
	for i, p := range g.params {
		residual[i] = p.Value() - g.observed[i]
	}

	if g.chol == nil {
		var sum float64
		for i, r := range residual {
			z := r / g.sigmas[i]
			sum += z * z
		}
		return 0.5 * sum, nil
	}

	rVec := mat.NewVecDense(n, residual)
	var solved mat.VecDense
	if err := g.chol.SolveVecTo(&solved, rVec); err != nil {
		return 0, errors.Wrap(err, "constraint.Gaussian.Value")
	}
	return 0.5 * mat.Dot(rVec, &solved), nil
}

// Params は制約されるパラメータを返す
func (g *Gaussian) Params() param.Set {
	return param.NewSet(g.params...)
}
