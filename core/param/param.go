// Package param はフィットパラメータの管理を提供します。
// パラメータは名前・現在値・境界・浮動フラグを持つ可変なスカラーで、
// 同一性はポインタによって決まります（名前ではありません）。
package param

import (
	"fmt"
	"math"

	"github.com/simonthor/zfit/pkg/errors"
)

// DefaultStepSize は勾配計算・最小化で使われるステップ幅の既定値
const DefaultStepSize = 0.001

// Parameter はフィットで推定される単一のスカラーパラメータ
// 損失・制約はParameterへの参照を保持し、コピーは作らない
type Parameter struct {
	name     string
	value    float64
	lower    float64
	upper    float64
	floating bool
	stepSize float64
}

// Option is a function that configures a Parameter at construction.
type Option func(*Parameter)

// WithLimits sets the lower and upper bound of the parameter.
func WithLimits(lower, upper float64) Option {
	return func(p *Parameter) {
		p.lower = lower
		p.upper = upper
	}
}

// WithStepSize sets the step-size hint used by gradients and minimizers.
func WithStepSize(step float64) Option {
	return func(p *Parameter) {
		p.stepSize = step
	}
}

// Fixed marks the parameter as non-floating.
func Fixed() Option {
	return func(p *Parameter) {
		p.floating = false
	}
}

// New は新しいParameterを作成する
// 境界を指定しない場合は(-Inf, +Inf)、浮動フラグはtrueが既定値
func New(name string, value float64, opts ...Option) *Parameter {
	p := &Parameter{
		name:     name,
		value:    value,
		lower:    math.Inf(-1),
		upper:    math.Inf(1),
		floating: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name はパラメータ名を返す
// 名前は識別子ではない: 同名の2つのParameterは別の実体である
func (p *Parameter) Name() string { return p.name }

// Value は現在値を返す
func (p *Parameter) Value() float64 { return p.value }

// Lower は下限を返す（無制限の場合は-Inf）
func (p *Parameter) Lower() float64 { return p.lower }

// Upper は上限を返す（無制限の場合は+Inf）
func (p *Parameter) Upper() float64 { return p.upper }

// HasLimits は有限の境界を持つかどうかを返す
func (p *Parameter) HasLimits() bool {
	return !math.IsInf(p.lower, -1) || !math.IsInf(p.upper, 1)
}

// Floating はパラメータが浮動（フィット対象）かどうかを返す
func (p *Parameter) Floating() bool { return p.floating }

// SetFloating は浮動フラグを設定する
func (p *Parameter) SetFloating(floating bool) { p.floating = floating }

// StepSize はステップ幅のヒントを返す（未設定の場合はDefaultStepSize）
func (p *Parameter) StepSize() float64 {
	if p.stepSize > 0 {
		return p.stepSize
	}
	return DefaultStepSize
}

// SetValue は現在値を設定する
// 境界の外の値はValueErrorとなる
func (p *Parameter) SetValue(value float64) error {
	if value < p.lower || value > p.upper {
		return errors.NewValueError("Parameter.SetValue",
			fmt.Sprintf("value %g of %q outside limits [%g, %g]", value, p.name, p.lower, p.upper))
	}
	p.value = value
	return nil
}

// SetValueUnchecked は境界チェックなしで現在値を設定する
// 勾配計算の摂動で境界上のパラメータを一時的に動かすために使う
func (p *Parameter) SetValueUnchecked(value float64) { p.value = value }

func (p *Parameter) String() string {
	return fmt.Sprintf("Parameter(%q, value=%g, limits=[%g, %g], floating=%t)",
		p.name, p.value, p.lower, p.upper, p.floating)
}
