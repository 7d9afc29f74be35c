// Package loss は尤度項と制約から損失関数を構築します。
//
// 損失はパラメータの現在値に対する純粋な読み取りであり、評価のたびに
// 正規化積分を再計算します。最小化器は評価の合間にのみパラメータを
// 変更します。損失自身がパラメータを変更することはありません。
package loss

import (
	"github.com/simonthor/zfit/core/param"
)

// Loss は最小化器に公開される契約
type Loss interface {
	// Value は損失のスカラー値を計算する
	// 数値的に退化した場合は±InfやNaNがそのまま返る（エラーではない）
	Value() (float64, error)

	// Gradients は指定パラメータに関する偏微分を指定順で返す
	// パラメータ省略時は全ての浮動依存パラメータについて順不同で返す
	// 依存でないパラメータを要求するとUnresolvableDependentErrorとなる
	Gradients(params ...*param.Parameter) ([]float64, error)

	// Dependents は損失が依存するパラメータ集合を返す
	Dependents(onlyFloating bool) param.Set

	// Add は2つの損失を合成する
	// 合成セマンティクスが曖昧な組み合わせはAmbiguousCompositionErrorとなる
	Add(other Loss) (Loss, error)

	// Kind は損失の種類名を返す（エラーメッセージ用）
	Kind() string
}
