package loss

import (
	"math"

	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/pkg/errors"
)

// numericGradients は中心差分で損失の偏微分を計算する
//
// paramsが空の場合は全ての浮動依存パラメータについて計算する
// （集合の反復順なので順序は不定）。明示的なリストが渡された場合は
// その順序で1つずつ返し、依存でないパラメータは
// UnresolvableDependentErrorとなる（黙ってゼロを返さない）。
//
// 相対ステップはWithGradientStepが指定されていればその値、なければ
// 各パラメータのステップサイズヒント（Parameter.StepSize）を使う。
//
// 各パラメータは現在値の周りで摂動され、評価後に必ず元の値に戻される。
// 摂動は境界チェックを迂回する: 境界上のパラメータも微分できる必要が
// あるため。
func numericGradients(l Loss, op string, step float64, params []*param.Parameter) ([]float64, error) {
	if len(params) == 0 {
		params = l.Dependents(true).List()
	} else {
		deps := l.Dependents(false)
		for _, p := range params {
			if !deps.Has(p) {
				return nil, errors.NewUnresolvableDependentError(op, p.Name())
			}
		}
	}

	out := make([]float64, len(params))
	for i, p := range params {
		orig := p.Value()
		rel := step
		if rel <= 0 {
			rel = p.StepSize()
		}
		h := rel * (1 + math.Abs(orig))

		p.SetValueUnchecked(orig + h)
		plus, err := l.Value()
		if err != nil {
			p.SetValueUnchecked(orig)
			return nil, err
		}

		p.SetValueUnchecked(orig - h)
		minus, err := l.Value()
		p.SetValueUnchecked(orig)
		if err != nil {
			return nil, err
		}

		out[i] = (plus - minus) / (2 * h)
	}
	return out, nil
}
