// Package data は非ビン化データセットのビューを提供します。
// DatasetはNイベント×D観測量の不変な値行列と、任意のイベント重み、
// 提供する観測量名を保持します。
package data

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/simonthor/zfit/core/space"
	"github.com/simonthor/zfit/pkg/errors"
)

// Dataset は観測値の不変なビュー
// 重みがnilの場合は全イベントの重みを1として扱う
type Dataset struct {
	values  *mat.Dense // N×D
	weights []float64  // nilなら一様重み1
	obs     []string
}

// Option is a function that configures a Dataset at construction.
type Option func(*config)

type config struct {
	weights []float64
}

// WithWeights attaches per-event weights to the dataset.
func WithWeights(weights []float64) Option {
	return func(c *config) {
		c.weights = weights
	}
}

// FromMatrix はN×D行列からDatasetを作成する
// obsの数は列数と一致し、重みを渡す場合は長さが行数と一致しなければならない
func FromMatrix(obs []string, values *mat.Dense, opts ...Option) (*Dataset, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	n, d := values.Dims()
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "data.FromMatrix")
	}
	if len(obs) != d {
		return nil, errors.NewDimensionError("data.FromMatrix", d, len(obs), 1)
	}
	if cfg.weights != nil && len(cfg.weights) != n {
		return nil, errors.NewDimensionError("data.FromMatrix", n, len(cfg.weights), 0)
	}

	ds := &Dataset{
		values: mat.DenseCopyOf(values),
		obs:    append([]string(nil), obs...),
	}
	if cfg.weights != nil {
		ds.weights = append([]float64(nil), cfg.weights...)
	}
	return ds, nil
}

// FromSlice は1観測量のDatasetを作成する
func FromSlice(ob string, values []float64, opts ...Option) (*Dataset, error) {
	if len(values) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "data.FromSlice")
	}
	return FromMatrix([]string{ob}, mat.NewDense(len(values), 1, append([]float64(nil), values...)), opts...)
}

// NumEvents はイベント数Nを返す
func (d *Dataset) NumEvents() int {
	n, _ := d.values.Dims()
	return n
}

// NumObs は観測量数Dを返す
func (d *Dataset) NumObs() int {
	_, c := d.values.Dims()
	return c
}

// Obs は提供する観測量名を返す
func (d *Dataset) Obs() []string { return append([]string(nil), d.obs...) }

// Values は値行列のビューを返す
func (d *Dataset) Values() mat.Matrix { return d.values }

// Weighted はイベント重みを持つかどうかを返す
func (d *Dataset) Weighted() bool { return d.weights != nil }

// Weights はイベント重みを返す（重みなしの場合はnil）
func (d *Dataset) Weights() []float64 {
	if d.weights == nil {
		return nil
	}
	return append([]float64(nil), d.weights...)
}

// WeightAt は i 番目のイベントの重みを返す（重みなしの場合は1）
func (d *Dataset) WeightAt(i int) float64 {
	if d.weights == nil {
		return 1
	}
	return d.weights[i]
}

// SumWeights は重みの総和を返す（重みなしの場合はN）
// 拡張尤度の観測イベント数として使われる
func (d *Dataset) SumWeights() float64 {
	if d.weights == nil {
		return float64(d.NumEvents())
	}
	return floats.Sum(d.weights)
}

// HasObs はデータセットが全ての観測量を提供するかを返す
// モデルと組み合わせる際の前提条件（superset制約）の確認に使う
func (d *Dataset) HasObs(obs []string) bool {
	for _, ob := range obs {
		if d.columnOf(ob) < 0 {
			return false
		}
	}
	return true
}

func (d *Dataset) columnOf(ob string) int {
	for i, o := range d.obs {
		if o == ob {
			return i
		}
	}
	return -1
}

// Project は指定した観測量列のみを指定順で抜き出したN×len(obs)行列を返す
func (d *Dataset) Project(obs []string) (*mat.Dense, error) {
	cols := make([]int, len(obs))
	for i, ob := range obs {
		c := d.columnOf(ob)
		if c < 0 {
			return nil, errors.NewValueError("Dataset.Project",
				fmt.Sprintf("observable %q not provided by dataset (has %v)", ob, d.obs))
		}
		cols[i] = c
	}
	n := d.NumEvents()
	out := mat.NewDense(n, len(obs), nil)
	for i := 0; i < n; i++ {
		for j, c := range cols {
			out.Set(i, j, d.values.At(i, c))
		}
	}
	return out, nil
}

// Inside はSpaceの全ての観測量について区間内にあるイベントのみを含む
// 新しいDatasetを返す。範囲外のイベントは除外であり、切り詰めではない。
func (d *Dataset) Inside(s *space.Space) (*Dataset, error) {
	proj, err := d.Project(s.Obs())
	if err != nil {
		return nil, err
	}

	n := d.NumEvents()
	keep := make([]int, 0, n)
	point := make([]float64, s.NDim())
	for i := 0; i < n; i++ {
		mat.Row(point, i, proj)
		if s.Contains(point) {
			keep = append(keep, i)
		}
	}

	if len(keep) == n {
		return d, nil
	}
	if len(keep) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "Dataset.Inside: no events inside %v", s)
	}

	_, cols := d.values.Dims()
	values := mat.NewDense(len(keep), cols, nil)
	var weights []float64
	if d.weights != nil {
		weights = make([]float64, len(keep))
	}
	for out, i := range keep {
		for j := 0; j < cols; j++ {
			values.Set(out, j, d.values.At(i, j))
		}
		if weights != nil {
			weights[out] = d.weights[i]
		}
	}
	return &Dataset{values: values, weights: weights, obs: append([]string(nil), d.obs...)}, nil
}

// Slice は[start, end)のイベントのみのビューを返す
// チャンク評価で使われる
func (d *Dataset) Slice(start, end int) *Dataset {
	values := d.values.Slice(start, end, 0, d.NumObs()).(*mat.Dense)
	var weights []float64
	if d.weights != nil {
		weights = d.weights[start:end]
	}
	return &Dataset{values: values, weights: weights, obs: d.obs}
}
