// Package minimize は損失契約を数値最小化器に接続します。
//
// 最小化器はLossのValue/Gradients/Dependentsのみを消費し、評価の合間に
// パラメータ値を変更する唯一の主体です。境界付きパラメータはMINUITと
// 同じ変数変換で無制限の内部座標に写され、gonum/optimizeの
// 準ニュートン法で探索されます。
package minimize

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/loss"
	zfiterrors "github.com/simonthor/zfit/pkg/errors"
	zfitlog "github.com/simonthor/zfit/pkg/log"
)

// Minimizer は損失を最小化して最適パラメータ値を求める
type Minimizer struct {
	method   optimize.Method
	maxIters int
	gradTol  float64
	logger   *slog.Logger
}

// Option is a function that configures a Minimizer.
type Option func(*Minimizer)

// WithMethod sets the optimization method (default BFGS).
func WithMethod(m optimize.Method) Option {
	return func(min *Minimizer) {
		min.method = m
	}
}

// WithNelderMead selects gradient-free Nelder-Mead search.
func WithNelderMead() Option {
	return func(min *Minimizer) {
		min.method = &optimize.NelderMead{}
	}
}

// WithMaxIterations bounds the number of major iterations.
func WithMaxIterations(n int) Option {
	return func(min *Minimizer) {
		min.maxIters = n
	}
}

// WithGradientTolerance sets the convergence threshold on the gradient
// norm. The default of 1e-4 accounts for the noise floor of the
// finite-difference gradients; tighter thresholds stall the line search.
func WithGradientTolerance(tol float64) Option {
	return func(min *Minimizer) {
		min.gradTol = tol
	}
}

// WithLogger sets the structured logger used for progress reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(min *Minimizer) {
		min.logger = logger
	}
}

// New は新しいMinimizerを作成する（既定はBFGS）
func New(opts ...Option) *Minimizer {
	m := &Minimizer{
		method:  &optimize.BFGS{},
		gradTol: 1e-4,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func methodName(m optimize.Method) string {
	switch m.(type) {
	case *optimize.BFGS:
		return "BFGS"
	case *optimize.NelderMead:
		return "NelderMead"
	default:
		return "custom"
	}
}

// Minimize は損失を最小化する
// paramsを省略した場合は損失の全ての浮動依存パラメータをフィットする
// 終了後、パラメータは最適値に設定されたまま残る
func (m *Minimizer) Minimize(l loss.Loss, params ...*param.Parameter) (*Result, error) {
	if len(params) == 0 {
		params = l.Dependents(true).List()
	} else {
		deps := l.Dependents(false)
		for _, p := range params {
			if !deps.Has(p) {
				return nil, zfiterrors.NewUnresolvableDependentError("Minimizer.Minimize", p.Name())
			}
		}
	}
	if len(params) == 0 {
		return nil, zfiterrors.NewValueError("Minimizer.Minimize", "loss has no floating parameters")
	}

	transforms := make([]transform, len(params))
	x0 := make([]float64, len(params))
	for i, p := range params {
		transforms[i] = newTransform(p)
		x0[i] = transforms[i].internal(p.Value())
	}

	setParams := func(x []float64) {
		for i, p := range params {
			// The transform keeps values inside the limits; skip the check.
			p.SetValueUnchecked(transforms[i].external(x[i]))
		}
	}

	var evalErr error
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			setParams(x)
			v, err := l.Value()
			if err != nil {
				evalErr = err
				return inf
			}
			return v
		},
		Grad: func(grad, x []float64) {
			setParams(x)
			g, err := l.Gradients(params...)
			if err != nil {
				evalErr = err
				for i := range grad {
					grad[i] = 0
				}
				return
			}
			for i := range grad {
				grad[i] = g[i] * transforms[i].derivative(x[i])
			}
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   m.maxIters,
		GradientThreshold: m.gradTol,
	}

	m.logger.Debug("minimization started",
		zfitlog.OperationKey, "minimize",
		zfitlog.MinimizerKey, methodName(m.method),
		zfitlog.LossKindKey, l.Kind(),
		zfitlog.ParamsKey, len(params),
	)
	start := time.Now()

	res, optErr := optimize.Minimize(problem, x0, settings, m.method)
	if evalErr != nil {
		return nil, zfiterrors.Wrap(evalErr, "Minimizer.Minimize: loss evaluation failed")
	}
	if res == nil {
		return nil, zfiterrors.Wrap(optErr, "Minimizer.Minimize")
	}

	setParams(res.X)
	values := make(map[*param.Parameter]float64, len(params))
	for _, p := range params {
		values[p] = p.Value()
	}

	converged := optErr == nil &&
		res.Status != optimize.Failure &&
		res.Status != optimize.IterationLimit &&
		res.Status != optimize.NotTerminated
	if !converged {
		msg := res.Status.String()
		if optErr != nil {
			msg = optErr.Error()
		}
		zfiterrors.Warn(zfiterrors.NewConvergenceWarning(methodName(m.method), res.Stats.MajorIterations, msg))
	}

	m.logger.Info("minimization finished",
		zfitlog.OperationKey, "minimize",
		zfitlog.MinimizerKey, methodName(m.method),
		zfitlog.IterationsKey, res.Stats.MajorIterations,
		zfitlog.EvaluationsKey, res.Stats.FuncEvaluations,
		zfitlog.LossValueKey, res.F,
		zfitlog.ConvergedKey, converged,
		zfitlog.DurationKey, time.Since(start).Milliseconds(),
	)

	return &Result{
		loss:        l,
		params:      append([]*param.Parameter(nil), params...),
		values:      values,
		FinalLoss:   res.F,
		Converged:   converged,
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
		Status:      res.Status.String(),
	}, nil
}
