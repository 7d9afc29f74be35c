package pdf

import (
	"github.com/simonthor/zfit/core/param"
)

// extended wraps a PDF with an expected-yield parameter.
type extended struct {
	PDF
	yield *param.Parameter
}

// NewExtended wraps a model with an expected-yield parameter, making it
// usable in extended likelihoods. The underlying shape is shared, not
// copied, so the same base model may back several extended models.
func NewExtended(p PDF, yield *param.Parameter) ExtendedPDF {
	return &extended{PDF: p, yield: yield}
}

// Yield returns the expected-yield parameter.
func (e *extended) Yield() *param.Parameter { return e.yield }

// Params returns the shape parameters plus the yield.
func (e *extended) Params() param.Set {
	return e.PDF.Params().Union(param.NewSet(e.yield))
}
