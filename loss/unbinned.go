package loss

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/simonthor/zfit/constraint"
	"github.com/simonthor/zfit/core/chunk"
	"github.com/simonthor/zfit/core/data"
	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/core/space"
	"github.com/simonthor/zfit/pdf"
	"github.com/simonthor/zfit/pkg/errors"
)

// term は1つの(model, data, range)エントリ
// 範囲によるイベント選別と観測量の射影は構築時に一度だけ行う
// （データと範囲は不変なので評価のたびに繰り返す必要はない）
type term struct {
	model    pdf.PDF
	data     *data.Dataset // 呼び出し元が渡した元のデータセット
	fitRange *space.Space  // モデルの観測量順に正規化済み
	extended bool

	x       *mat.Dense // 選別・射影済みのN×D値
	weights []float64  // nilなら一様重み1
	sumw    float64    // 重みの総和（拡張項の観測イベント数）
}

func makeTerm(op string, model pdf.PDF, ds *data.Dataset, fitRange *space.Space, extended bool) (term, error) {
	if fitRange == nil {
		fitRange = space.Unbounded(model.Obs()...)
	}
	normalized, err := fitRange.WithObsOrder(model.Obs())
	if err != nil {
		return term{}, errors.Wrap(err, op+": fit range does not match model observables")
	}
	if !ds.HasObs(model.Obs()) {
		return term{}, errors.NewValueError(op, "dataset does not provide the observables of model "+model.Name())
	}
	if extended {
		if _, ok := pdf.YieldOf(model); !ok {
			return term{}, errors.NewNotExtendedError(op, model.Name())
		}
	}

	filtered, err := ds.Inside(normalized)
	if err != nil {
		return term{}, errors.Wrap(err, op)
	}
	x, err := filtered.Project(model.Obs())
	if err != nil {
		return term{}, errors.Wrap(err, op)
	}

	return term{
		model:    model,
		data:     ds,
		fitRange: normalized,
		extended: extended,
		x:        x,
		weights:  filtered.Weights(),
		sumw:     filtered.SumWeights(),
	}, nil
}

// UnbinnedNLL は非ビン化負対数尤度損失
// 複数の(model, data, fit range)項と制約の加法的な合成を表す
//
// 重み付きデータでは各イベントの対数尤度が重みでスケールされる
// （標準的な重み付き尤度近似）。拡張項の観測イベント数にも重みの
// 総和を使う。パラメータ不確かさの補正は最小化器側の責務である。
type UnbinnedNLL struct {
	terms       []term
	constraints []constraint.Constraint
	cfg         evalConfig
}

// NewUnbinnedNLL は単一の(model, data, fit range)からUnbinnedNLLを作成する
// fitRangeがnilの場合はモデルの観測量上の実数全体とみなす
func NewUnbinnedNLL(model pdf.PDF, ds *data.Dataset, fitRange *space.Space, opts ...Option) (*UnbinnedNLL, error) {
	return newUnbinned("NewUnbinnedNLL", []pdf.PDF{model}, []*data.Dataset{ds}, []*space.Space{fitRange}, false, opts)
}

// NewSimultaneousUnbinnedNLL は並列なシーケンスから同時フィット用の
// UnbinnedNLLを作成する。modelsとdatasetsは同じ長さでなければならない。
// fitRangesはnil（全て無制限）、長さ1（ブロードキャスト）、または
// modelsと同じ長さを受け付ける。
func NewSimultaneousUnbinnedNLL(models []pdf.PDF, datasets []*data.Dataset, fitRanges []*space.Space, opts ...Option) (*UnbinnedNLL, error) {
	return newUnbinned("NewSimultaneousUnbinnedNLL", models, datasets, fitRanges, false, opts)
}

// NewExtendedUnbinnedNLL はPoisson項付きの拡張尤度を作成する
// モデルはyieldパラメータを持っていなければならない（pdf.NewExtended参照）
func NewExtendedUnbinnedNLL(model pdf.PDF, ds *data.Dataset, fitRange *space.Space, opts ...Option) (*UnbinnedNLL, error) {
	return newUnbinned("NewExtendedUnbinnedNLL", []pdf.PDF{model}, []*data.Dataset{ds}, []*space.Space{fitRange}, true, opts)
}

// NewSimultaneousExtendedUnbinnedNLL は並列なシーケンスから拡張尤度を作成する
func NewSimultaneousExtendedUnbinnedNLL(models []pdf.PDF, datasets []*data.Dataset, fitRanges []*space.Space, opts ...Option) (*UnbinnedNLL, error) {
	return newUnbinned("NewSimultaneousExtendedUnbinnedNLL", models, datasets, fitRanges, true, opts)
}

func newUnbinned(op string, models []pdf.PDF, datasets []*data.Dataset, fitRanges []*space.Space, extended bool, opts []Option) (*UnbinnedNLL, error) {
	if len(models) == 0 {
		return nil, errors.NewValueError(op, "at least one model is required")
	}
	if len(datasets) != len(models) {
		return nil, errors.NewDimensionError(op, len(models), len(datasets), 0)
	}
	switch len(fitRanges) {
	case 0:
		fitRanges = make([]*space.Space, len(models))
	case 1:
		// Broadcast a single range across all entries.
		broadcast := make([]*space.Space, len(models))
		for i := range broadcast {
			broadcast[i] = fitRanges[0]
		}
		fitRanges = broadcast
	case len(models):
	default:
		return nil, errors.NewDimensionError(op, len(models), len(fitRanges), 0)
	}

	nll := &UnbinnedNLL{
		terms: make([]term, 0, len(models)),
		cfg:   makeConfig(opts),
	}
	for i := range models {
		t, err := makeTerm(op, models[i], datasets[i], fitRanges[i], extended)
		if err != nil {
			return nil, err
		}
		nll.terms = append(nll.terms, t)
	}
	nll.constraints = nll.cfg.constraints
	return nll, nil
}

// Kind は損失の種類名を返す
func (n *UnbinnedNLL) Kind() string {
	for _, t := range n.terms {
		if t.extended {
			return "ExtendedUnbinnedNLL"
		}
	}
	return "UnbinnedNLL"
}

// Models は各項のモデルを項の追加順で返す
func (n *UnbinnedNLL) Models() []pdf.PDF {
	out := make([]pdf.PDF, len(n.terms))
	for i, t := range n.terms {
		out[i] = t.model
	}
	return out
}

// Data は各項のデータセット（呼び出し元が渡した元のオブジェクト）を返す
func (n *UnbinnedNLL) Data() []*data.Dataset {
	out := make([]*data.Dataset, len(n.terms))
	for i, t := range n.terms {
		out[i] = t.data
	}
	return out
}

// FitRanges は各項の正規化済みフィット範囲を返す
func (n *UnbinnedNLL) FitRanges() []*space.Space {
	out := make([]*space.Space, len(n.terms))
	for i, t := range n.terms {
		out[i] = t.fitRange
	}
	return out
}

// Constraints は付随する制約を連結順で返す
// 重複排除は行わない: 同じ制約が2回追加されれば2回数えられる
func (n *UnbinnedNLL) Constraints() []constraint.Constraint {
	return append([]constraint.Constraint(nil), n.constraints...)
}

// Value は損失のスカラー値を計算する
// 各項について範囲内イベントの重み付き対数確率和の符号反転を足し合わせ、
// 制約ペナルティを加える
func (n *UnbinnedNLL) Value() (float64, error) {
	var total float64
	for i := range n.terms {
		v, err := n.termValue(&n.terms[i])
		if err != nil {
			return 0, err
		}
		total += v
	}
	for _, c := range n.constraints {
		cv, err := c.Value()
		if err != nil {
			return 0, err
		}
		total += cv
	}
	return total, nil
}

func (n *UnbinnedNLL) termValue(t *term) (float64, error) {
	// The normalization depends on parameters but not on events, so it is
	// computed once per evaluation, outside the chunk loop.
	norm, err := t.model.Integrate(t.fitRange)
	if err != nil {
		return 0, err
	}
	if norm <= 0 || math.IsNaN(norm) {
		return 0, errors.NewNumericalInstabilityError("UnbinnedNLL normalization", []float64{norm})
	}
	logNorm := math.Log(norm)

	nEvents, nObs := t.x.Dims()
	var sumLog float64
	err = chunk.Reduce(nEvents, n.cfg.chunkSize, func(start, end int) error {
		sub := t.x.Slice(start, end, 0, nObs).(*mat.Dense)
		vals, err := t.model.Func(sub)
		if err != nil {
			return err
		}
		for i, v := range vals {
			w := 1.0
			if t.weights != nil {
				w = t.weights[start+i]
			}
			// A zero density contributes -Inf, propagated untouched.
			sumLog += w * (math.Log(v) - logNorm)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	nll := -sumLog
	if t.extended {
		yield, _ := pdf.YieldOf(t.model)
		nu := yield.Value()
		nll += nu - t.sumw*math.Log(nu)
	}
	return nll, nil
}

// Dependents は全てのモデルと制約のパラメータの和集合を返す
func (n *UnbinnedNLL) Dependents(onlyFloating bool) param.Set {
	deps := param.NewSet()
	for _, t := range n.terms {
		deps = deps.Union(t.model.Params())
	}
	for _, c := range n.constraints {
		deps = deps.Union(c.Params())
	}
	if onlyFloating {
		return deps.Floating()
	}
	return deps
}

// Gradients は中心差分で偏微分を計算する
// チャンク評価はValue経由でそのまま適用される
func (n *UnbinnedNLL) Gradients(params ...*param.Parameter) ([]float64, error) {
	return numericGradients(n, n.Kind()+".Gradients", n.cfg.gradStep, params)
}

// Add は他の尤度損失と合成して平坦なUnbinnedNLLを返す
// 項と制約は順序を保って連結され、ネストは作られない
// SimpleLossとの合成はAmbiguousCompositionErrorとなる
func (n *UnbinnedNLL) Add(other Loss) (Loss, error) {
	o, ok := other.(*UnbinnedNLL)
	if !ok {
		return nil, errors.NewAmbiguousCompositionError(n.Kind(), other.Kind())
	}
	out := &UnbinnedNLL{
		terms:       append(append([]term(nil), n.terms...), o.terms...),
		constraints: append(append([]constraint.Constraint(nil), n.constraints...), o.constraints...),
		cfg:         n.cfg,
	}
	out.cfg.constraints = out.constraints
	return out, nil
}
