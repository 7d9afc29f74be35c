// Package log defines standard attribute keys for fitting operations.
//
// This file contains predefined attribute keys that provide consistency
// across all logging operations in zfit. Using these standard keys enables
// better log analysis, monitoring, and debugging of fit workflows.
//
// The keys follow a hierarchical naming convention (e.g., "loss.kind",
// "data.events") to enable structured log analysis and filtering.
package log

// Loss and Operation Context
// These attributes identify the loss being evaluated and the operation performed.
const (
	// LossKindKey identifies the kind of loss function.
	// Examples: "UnbinnedNLL", "ExtendedUnbinnedNLL", "SimpleLoss"
	LossKindKey = "loss.kind"

	// OperationKey specifies the fit operation being performed.
	// Standard values: "value", "gradients", "minimize", "hesse"
	OperationKey = "fit.operation"

	// MinimizerKey identifies the minimization method in use.
	// Examples: "BFGS", "NelderMead"
	MinimizerKey = "fit.minimizer"
)

// Data Shape and Evaluation
// These attributes describe the data and evaluation configuration.
const (
	// EventsKey indicates the number of events in the dataset being evaluated.
	EventsKey = "data.events"

	// ObservablesKey indicates the number of observables (columns).
	ObservablesKey = "data.observables"

	// WeightedKey indicates whether the dataset carries per-event weights.
	WeightedKey = "data.weighted"

	// TermsKey indicates the number of likelihood terms in a composite loss.
	TermsKey = "loss.terms"

	// ConstraintsKey indicates the number of attached constraints.
	ConstraintsKey = "loss.constraints"

	// ChunkSizeKey indicates the active chunk size, 0 when chunking is off.
	ChunkSizeKey = "eval.chunk_size"
)

// Minimization Progress
const (
	// ParamsKey indicates the number of floating parameters in a fit.
	ParamsKey = "fit.params"

	// IterationsKey indicates the number of major iterations performed.
	IterationsKey = "fit.iterations"

	// EvaluationsKey indicates the number of loss evaluations performed.
	EvaluationsKey = "fit.evaluations"

	// LossValueKey carries the current or final loss value.
	LossValueKey = "fit.loss_value"

	// ConvergedKey indicates whether the minimization converged.
	ConvergedKey = "fit.converged"

	// DurationKey carries elapsed wall-clock time in milliseconds.
	DurationKey = "duration_ms"
)
