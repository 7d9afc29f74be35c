// Package pdf は確率密度モデルのインターフェースと組み込みモデルを提供します。
//
// モデルは非正規化関数値と領域上の積分を提供し、正規化確率は
// Func/Integrate から導出されます。解析積分の有無は
// HasAnalyticIntegral で明示的に宣言され、未実装シグナルの捕捉による
// フォールバック選択は行いません。
package pdf

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/core/space"
	"github.com/simonthor/zfit/pkg/errors"
)

// PDF は確率密度モデルの契約
type PDF interface {
	// Name はモデル名を返す
	Name() string

	// Obs はモデルが定義されている観測量名を返す
	Obs() []string

	// Func は各イベントの非正規化密度を返す
	// xはObs()の並びに揃えられたN×D行列
	Func(x *mat.Dense) ([]float64, error)

	// Integrate は領域上のFuncの積分を返す
	Integrate(s *space.Space) (float64, error)

	// HasAnalyticIntegral はIntegrateが解析積分かどうかを返す
	HasAnalyticIntegral() bool

	// Params はモデルの計算グラフに現れるパラメータを返す
	Params() param.Set
}

// ExtendedPDF は期待イベント数（yield）パラメータを持つモデル
// 拡張尤度のPoisson項で使われる
type ExtendedPDF interface {
	PDF

	// Yield は期待イベント数のパラメータを返す
	Yield() *param.Parameter
}

// YieldOf はモデルが拡張されている場合にyieldパラメータを返す
func YieldOf(p PDF) (*param.Parameter, bool) {
	if ext, ok := p.(ExtendedPDF); ok {
		return ext.Yield(), true
	}
	return nil, false
}

// LogProb は正規化された対数確率 log(Func(x)/Integrate(normRange)) を
// イベントごとに返す。密度が厳密に0のイベントは-Infとなり、
// そのまま伝播される（特別扱いしない）。
func LogProb(p PDF, x *mat.Dense, normRange *space.Space) ([]float64, error) {
	norm, err := p.Integrate(normRange)
	if err != nil {
		return nil, err
	}
	if norm <= 0 || math.IsNaN(norm) {
		return nil, errors.NewNumericalInstabilityError("pdf.LogProb normalization", []float64{norm})
	}
	logNorm := math.Log(norm)

	vals, err := p.Func(x)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Log(v) - logNorm
	}
	return out, nil
}
