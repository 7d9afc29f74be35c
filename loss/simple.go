package loss

import (
	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/pkg/errors"
)

// SimpleLoss は任意のスカラー関数を損失契約に適合させるラッパー
//
// 関数はパラメータをクロージャで捕捉するため内省できない。そのため
// 依存パラメータは明示的に宣言され、関数が実際に全てを読むかどうかに
// かかわらずDependentsは宣言された集合を返す。
//
// 尤度ベースの損失との合成は曖昧なため拒否される: SimpleLossには
// 項構造（model/data/fit range）がなく、黙って結合すると構造を失うか
// 偽ることになる。
type SimpleLoss struct {
	fns  []func() (float64, error)
	deps param.Set
	cfg  evalConfig
}

// NewSimpleLoss は関数と明示的な依存パラメータからSimpleLossを作成する
func NewSimpleLoss(fn func() (float64, error), dependents []*param.Parameter, opts ...Option) (*SimpleLoss, error) {
	if fn == nil {
		return nil, errors.NewValueError("NewSimpleLoss", "a loss function is required")
	}
	if len(dependents) == 0 {
		return nil, errors.NewValueError("NewSimpleLoss", "dependents must be declared explicitly")
	}
	cfg := makeConfig(opts)
	if len(cfg.constraints) > 0 {
		return nil, errors.NewValueError("NewSimpleLoss", "constraints are not supported on a SimpleLoss; add them to the wrapped function")
	}
	return &SimpleLoss{
		fns:  []func() (float64, error){fn},
		deps: param.NewSet(dependents...),
		cfg:  cfg,
	}, nil
}

// Kind は損失の種類名を返す
func (s *SimpleLoss) Kind() string { return "SimpleLoss" }

// Value はラップされた関数を呼び出して合計を返す
func (s *SimpleLoss) Value() (float64, error) {
	var total float64
	for _, fn := range s.fns {
		v, err := fn()
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Dependents は宣言されたパラメータ集合を返す
func (s *SimpleLoss) Dependents(onlyFloating bool) param.Set {
	if onlyFloating {
		return s.deps.Floating()
	}
	// Return a copy so callers cannot mutate the declared set.
	return s.deps.Union(param.NewSet())
}

// Gradients は中心差分で偏微分を計算する
func (s *SimpleLoss) Gradients(params ...*param.Parameter) ([]float64, error) {
	return numericGradients(s, "SimpleLoss.Gradients", s.cfg.gradStep, params)
}

// Add は別のSimpleLossと合成する（値の和、依存集合の和集合）
// 尤度ベースの損失との合成はAmbiguousCompositionErrorとなる
func (s *SimpleLoss) Add(other Loss) (Loss, error) {
	o, ok := other.(*SimpleLoss)
	if !ok {
		return nil, errors.NewAmbiguousCompositionError(s.Kind(), other.Kind())
	}
	return &SimpleLoss{
		fns:  append(append([]func() (float64, error)(nil), s.fns...), o.fns...),
		deps: s.deps.Union(o.deps),
		cfg:  s.cfg,
	}, nil
}
