// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// zfitの例外体系にインスパイアされており、損失構築・勾配計算で発生する
// 構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("zfit-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、ConvergenceWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	フィット特有の警告型
//
// ===========================================================================

// ConvergenceWarning は最小化アルゴリズムが収束しなかった場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// AmbiguousCompositionError は合成セマンティクスが未定義の損失同士を
// Add で結合しようとした場合のエラーです。
// 例えば、SimpleLossと尤度ベースの損失の結合など。
type AmbiguousCompositionError struct {
	LeftKind  string
	RightKind string
}

func (e *AmbiguousCompositionError) Error() string {
	return fmt.Sprintf("zfit: cannot add %s and %s: composition semantics are ambiguous", e.LeftKind, e.RightKind)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *AmbiguousCompositionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("left_kind", e.LeftKind).
		Str("right_kind", e.RightKind).
		Str("type", "AmbiguousCompositionError")
}

// NewAmbiguousCompositionError は新しいAmbiguousCompositionErrorを作成し、スタックトレースを付与します。
func NewAmbiguousCompositionError(leftKind, rightKind string) error {
	err := &AmbiguousCompositionError{LeftKind: leftKind, RightKind: rightKind}
	return errors.WithStack(err)
}

// UnresolvableDependentError は損失が依存していないパラメータに対して
// 勾配を要求した場合のエラーです。黙ってゼロを返すと設定ミスを隠すため、
// 明示的にエラーとします。
type UnresolvableDependentError struct {
	Op        string
	ParamName string
}

func (e *UnresolvableDependentError) Error() string {
	return fmt.Sprintf("zfit: %s: parameter %q is not among the dependents of this loss", e.Op, e.ParamName)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnresolvableDependentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("param_name", e.ParamName).
		Str("type", "UnresolvableDependentError")
}

// NewUnresolvableDependentError は新しいUnresolvableDependentErrorを作成し、スタックトレースを付与します。
func NewUnresolvableDependentError(op, paramName string) error {
	err := &UnresolvableDependentError{Op: op, ParamName: paramName}
	return errors.WithStack(err)
}

// NotExtendedError は拡張尤度がyieldパラメータを持たないモデルに対して
// 構築された場合のエラーです。
type NotExtendedError struct {
	Op        string
	ModelName string
}

func (e *NotExtendedError) Error() string {
	return fmt.Sprintf("zfit: %s: model %q carries no yield parameter; an extended loss requires an extended model", e.Op, e.ModelName)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotExtendedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("model_name", e.ModelName).
		Str("type", "NotExtendedError")
}

// NewNotExtendedError は新しいNotExtendedErrorを作成し、スタックトレースを付与します。
func NewNotExtendedError(op, modelName string) error {
	err := &NotExtendedError{Op: op, ModelName: modelName}
	return errors.WithStack(err)
}

// DimensionError は並列シーケンス（model/data/range等）の長さや
// 入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows/entries, 1 for columns/observables
}

func (e *DimensionError) Error() string {
	axisName := "observables"
	if e.Axis == 0 {
		axisName = "entries"
	}
	return fmt.Sprintf("zfit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "observables"
	if e.Axis == 0 {
		axisName = "entries"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、パラメータに境界外の値を設定した場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("zfit: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// 特異な共分散行列、非正の正規化積分などを検出します。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("zfit: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	err := &NumericalInstabilityError{Operation: operation, Values: values}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrNotImplemented は機能が未実装の場合のエラーです。
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
