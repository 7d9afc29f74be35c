package minimize

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/loss"
	"github.com/simonthor/zfit/pkg/errors"
)

var inf = math.Inf(1)

// Result はフィット結果: パラメータごとの最適値と収束情報
type Result struct {
	loss   loss.Loss
	params []*param.Parameter
	values map[*param.Parameter]float64

	// FinalLoss は最小点での損失値
	FinalLoss float64
	// Converged は最小化が収束したかどうか
	Converged bool
	// Iterations は主要反復回数
	Iterations int
	// Evaluations は損失評価回数
	Evaluations int
	// Status は最小化器の終了状態
	Status string
}

// Params はフィットされたパラメータを最小化時の順序で返す
func (r *Result) Params() []*param.Parameter {
	return append([]*param.Parameter(nil), r.params...)
}

// Value はパラメータの最適値を返す
// フィット対象でなかったパラメータに対してはNaNを返す
func (r *Result) Value(p *param.Parameter) float64 {
	v, ok := r.values[p]
	if !ok {
		return math.NaN()
	}
	return v
}

// Hesse は最小点での数値ヘッセ行列から共分散・誤差・相関を推定する
// NLLに対して共分散はヘッセ行列の逆行列である
func (r *Result) Hesse() (*HesseResult, error) {
	n := len(r.params)
	steps := make([]float64, n)
	center := make([]float64, n)
	for i, p := range r.params {
		center[i] = r.values[p]
		steps[i] = p.StepSize() * (1 + math.Abs(center[i]))
	}

	// Parameters are restored to the fitted values afterwards.
	restore := func() {
		for i, p := range r.params {
			p.SetValueUnchecked(center[i])
		}
	}
	defer restore()

	evalAt := func(offsets map[int]float64) (float64, error) {
		for i, p := range r.params {
			p.SetValueUnchecked(center[i] + offsets[i])
		}
		return r.loss.Value()
	}

	f0, err := evalAt(nil)
	if err != nil {
		return nil, errors.Wrap(err, "Result.Hesse")
	}

	hessian := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		hi := steps[i]
		fPlus, err := evalAt(map[int]float64{i: hi})
		if err != nil {
			return nil, errors.Wrap(err, "Result.Hesse")
		}
		fMinus, err := evalAt(map[int]float64{i: -hi})
		if err != nil {
			return nil, errors.Wrap(err, "Result.Hesse")
		}
		hessian.SetSym(i, i, (fPlus-2*f0+fMinus)/(hi*hi))

		for j := i + 1; j < n; j++ {
			hj := steps[j]
			fpp, err := evalAt(map[int]float64{i: hi, j: hj})
			if err != nil {
				return nil, errors.Wrap(err, "Result.Hesse")
			}
			fpm, err := evalAt(map[int]float64{i: hi, j: -hj})
			if err != nil {
				return nil, errors.Wrap(err, "Result.Hesse")
			}
			fmp, err := evalAt(map[int]float64{i: -hi, j: hj})
			if err != nil {
				return nil, errors.Wrap(err, "Result.Hesse")
			}
			fmm, err := evalAt(map[int]float64{i: -hi, j: -hj})
			if err != nil {
				return nil, errors.Wrap(err, "Result.Hesse")
			}
			hessian.SetSym(i, j, (fpp-fpm-fmp+fmm)/(4*hi*hj))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(hessian); !ok {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "Result.Hesse: hessian is not positive definite")
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, errors.Wrap(err, "Result.Hesse")
	}

	index := make(map[*param.Parameter]int, n)
	for i, p := range r.params {
		index[p] = i
	}
	return &HesseResult{cov: &cov, index: index}, nil
}

// HesseResult は共分散行列とそこから導かれる対称誤差・相関
type HesseResult struct {
	cov   *mat.SymDense
	index map[*param.Parameter]int
}

// Error はパラメータの対称誤差 sqrt(cov_ii) を返す
func (h *HesseResult) Error(p *param.Parameter) float64 {
	i, ok := h.index[p]
	if !ok {
		return math.NaN()
	}
	return math.Sqrt(h.cov.At(i, i))
}

// Covariance は2つのパラメータの共分散を返す
func (h *HesseResult) Covariance(p, q *param.Parameter) float64 {
	i, ok := h.index[p]
	j, ok2 := h.index[q]
	if !ok || !ok2 {
		return math.NaN()
	}
	return h.cov.At(i, j)
}

// Correlation は2つのパラメータの相関係数を返す
func (h *HesseResult) Correlation(p, q *param.Parameter) float64 {
	return h.Covariance(p, q) / (h.Error(p) * h.Error(q))
}
