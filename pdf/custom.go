package pdf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/core/space"
	"github.com/simonthor/zfit/pkg/errors"
)

// Func1D はユーザー定義の非正規化密度関数から作る1次元モデル
// 関数はパラメータをクロージャで捕捉するため、依存パラメータを
// 明示的に宣言する必要がある。正規化は数値積分で行われる。
type Func1D struct {
	Base
	name   string
	ob     string
	fn     func(x float64) float64
	params param.Set
}

// NewFunc1D は新しいFunc1Dモデルを作成する
//
// 使用例:
//
//	decay := param.New("lambda", 0.5)
//	model := pdf.NewFunc1D("expo", "obs1",
//	    func(x float64) float64 { return math.Exp(-decay.Value() * x) },
//	    decay)
func NewFunc1D(name, ob string, fn func(x float64) float64, params ...*param.Parameter) *Func1D {
	return &Func1D{name: name, ob: ob, fn: fn, params: param.NewSet(params...)}
}

// Name はモデル名を返す
func (f *Func1D) Name() string { return f.name }

// Obs はモデルの観測量を返す
func (f *Func1D) Obs() []string { return []string{f.ob} }

// Params は宣言された依存パラメータを返す
func (f *Func1D) Params() param.Set { return f.params }

// HasAnalyticIntegral は常にfalse（数値積分にフォールバックする）
func (f *Func1D) HasAnalyticIntegral() bool { return false }

// Func は各イベントの非正規化密度を返す
func (f *Func1D) Func(x *mat.Dense) ([]float64, error) {
	n, c := x.Dims()
	if c != 1 {
		return nil, errors.NewDimensionError("Func1D.Func", 1, c, 1)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = f.fn(x.At(i, 0))
	}
	return out, nil
}

// Integrate は領域上の積分をガウス・ルジャンドル求積で返す
func (f *Func1D) Integrate(s *space.Space) (float64, error) {
	normalized, err := s.WithObsOrder([]string{f.ob})
	if err != nil {
		return 0, err
	}
	return f.NumericIntegrate1D(f.fn, normalized)
}
