// Package space は観測量空間とフィット範囲を提供します。
// Spaceは観測量名とその区間（下限・上限）の不変な組で、
// データの選別とモデルの正規化積分の両方に使われます。
package space

import (
	"fmt"
	"math"
	"strings"

	"github.com/simonthor/zfit/pkg/errors"
)

// Space は名前付きの観測量ごとの区間の集合
// 構築後は不変である
type Space struct {
	obs   []string
	lower []float64
	upper []float64
}

// New は観測量名と区間からSpaceを作成する
// obs・lower・upperは同じ長さでなければならない
func New(obs []string, lower, upper []float64) (*Space, error) {
	if len(obs) == 0 {
		return nil, errors.NewValueError("space.New", "at least one observable is required")
	}
	if len(lower) != len(obs) {
		return nil, errors.NewDimensionError("space.New", len(obs), len(lower), 1)
	}
	if len(upper) != len(obs) {
		return nil, errors.NewDimensionError("space.New", len(obs), len(upper), 1)
	}
	seen := make(map[string]bool, len(obs))
	for i, ob := range obs {
		if seen[ob] {
			return nil, errors.NewValueError("space.New", fmt.Sprintf("duplicate observable %q", ob))
		}
		seen[ob] = true
		if lower[i] > upper[i] {
			return nil, errors.NewValueError("space.New",
				fmt.Sprintf("lower %g above upper %g for observable %q", lower[i], upper[i], ob))
		}
	}
	s := &Space{
		obs:   append([]string(nil), obs...),
		lower: append([]float64(nil), lower...),
		upper: append([]float64(nil), upper...),
	}
	return s, nil
}

// NewInterval は1次元のSpaceを作成する
func NewInterval(ob string, lower, upper float64) (*Space, error) {
	return New([]string{ob}, []float64{lower}, []float64{upper})
}

// MustInterval はNewIntervalのpanic版。テストとパッケージ内の定数的な範囲に使う。
func MustInterval(ob string, lower, upper float64) *Space {
	s, err := NewInterval(ob, lower, upper)
	if err != nil {
		panic(err)
	}
	return s
}

// Unbounded は各観測量について実数全体をカバーするSpaceを返す
// フィット範囲が省略された場合の既定値
func Unbounded(obs ...string) *Space {
	lower := make([]float64, len(obs))
	upper := make([]float64, len(obs))
	for i := range obs {
		lower[i] = math.Inf(-1)
		upper[i] = math.Inf(1)
	}
	s, err := New(obs, lower, upper)
	if err != nil {
		panic(err)
	}
	return s
}

// Obs は観測量名の列を返す
func (s *Space) Obs() []string { return append([]string(nil), s.obs...) }

// NDim は観測量の数を返す
func (s *Space) NDim() int { return len(s.obs) }

// Limits は i 番目の観測量の(下限, 上限)を返す
func (s *Space) Limits(i int) (float64, float64) { return s.lower[i], s.upper[i] }

// LimitsOf は観測量名で区間を引く
func (s *Space) LimitsOf(ob string) (lower, upper float64, ok bool) {
	for i, o := range s.obs {
		if o == ob {
			return s.lower[i], s.upper[i], true
		}
	}
	return 0, 0, false
}

// Contains は点（s.Obs()順の値）が全ての観測量で区間内にあるかを返す
// 境界値は含む
func (s *Space) Contains(point []float64) bool {
	for i := range s.obs {
		if point[i] < s.lower[i] || point[i] > s.upper[i] {
			return false
		}
	}
	return true
}

// Equal は観測量の集合と区間が一致するかを返す
// 観測量の並び順は比較に影響しない
func (s *Space) Equal(other *Space) bool {
	if other == nil || len(s.obs) != len(other.obs) {
		return false
	}
	for i, ob := range s.obs {
		lo, hi, ok := other.LimitsOf(ob)
		if !ok || lo != s.lower[i] || hi != s.upper[i] {
			return false
		}
	}
	return true
}

// WithObsOrder は観測量を指定の順序に並べ替えた新しいSpaceを返す
// 観測量の集合が一致しない場合はエラー
func (s *Space) WithObsOrder(obs []string) (*Space, error) {
	if len(obs) != len(s.obs) {
		return nil, errors.NewDimensionError("Space.WithObsOrder", len(s.obs), len(obs), 1)
	}
	lower := make([]float64, len(obs))
	upper := make([]float64, len(obs))
	for i, ob := range obs {
		lo, hi, ok := s.LimitsOf(ob)
		if !ok {
			return nil, errors.NewValueError("Space.WithObsOrder",
				fmt.Sprintf("observable %q not covered by this space", ob))
		}
		lower[i] = lo
		upper[i] = hi
	}
	return New(obs, lower, upper)
}

// IsUnbounded は全ての区間が実数全体かどうかを返す
func (s *Space) IsUnbounded() bool {
	for i := range s.obs {
		if !math.IsInf(s.lower[i], -1) || !math.IsInf(s.upper[i], 1) {
			return false
		}
	}
	return true
}

func (s *Space) String() string {
	parts := make([]string, len(s.obs))
	for i, ob := range s.obs {
		parts[i] = fmt.Sprintf("%s: [%g, %g]", ob, s.lower[i], s.upper[i])
	}
	return "Space(" + strings.Join(parts, ", ") + ")"
}
