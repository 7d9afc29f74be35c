package loss

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonthor/zfit/constraint"
	"github.com/simonthor/zfit/core/data"
	"github.com/simonthor/zfit/core/param"
	"github.com/simonthor/zfit/core/space"
	"github.com/simonthor/zfit/pdf"
	"github.com/simonthor/zfit/pkg/errors"
)

const (
	muTrue    = 1.2
	sigmaTrue = 4.1
)

func sampleNormal(t *testing.T, n int, mu, sigma float64, seed uint64) []float64 {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()*sigma + mu
	}
	return out
}

func createGauss(t *testing.T, nameadd string) (*pdf.Gauss, *param.Parameter, *param.Parameter) {
	t.Helper()
	mu := param.New("mu"+nameadd, muTrue-0.2, param.WithLimits(muTrue-1, muTrue+1))
	sigma := param.New("sigma"+nameadd, sigmaTrue-0.3, param.WithLimits(sigmaTrue-2, sigmaTrue+2))
	return pdf.NewGauss("gaussian"+nameadd, "obs1", mu, sigma), mu, sigma
}

func mustData(t *testing.T, values []float64, opts ...data.Option) *data.Dataset {
	t.Helper()
	ds, err := data.FromSlice("obs1", values, opts...)
	require.NoError(t, err)
	return ds
}

func mustConstraint(t *testing.T, p *param.Parameter, observed, sigma float64) *constraint.Gaussian {
	t.Helper()
	c, err := constraint.NewGaussian([]*param.Parameter{p}, []float64{observed}, []float64{sigma})
	require.NoError(t, err)
	return c
}

func TestValueMatchesDirectComputation(t *testing.T) {
	gauss, mu, sigma := createGauss(t, "1")
	values := []float64{0.5, 1.0, 2.5}
	ds := mustData(t, values)

	nll, err := NewUnbinnedNLL(gauss, ds, nil)
	require.NoError(t, err)

	got, err := nll.Value()
	require.NoError(t, err)

	want := 0.0
	for _, x := range values {
		z := (x - mu.Value()) / sigma.Value()
		logProb := -0.5*z*z - math.Log(sigma.Value()*math.Sqrt(2*math.Pi))
		want -= logProb
	}
	assert.InDelta(t, want, got, 1e-10)
}

func TestValueRespondsToParameterMutation(t *testing.T) {
	gauss, mu, _ := createGauss(t, "1")
	ds := mustData(t, sampleNormal(t, 500, muTrue, sigmaTrue, 7))
	nll, err := NewUnbinnedNLL(gauss, ds, nil)
	require.NoError(t, err)

	atStart, err := nll.Value()
	require.NoError(t, err)

	// Moving mu away from the sample mean must increase the NLL; no
	// caching may survive a parameter change.
	require.NoError(t, mu.SetValue(muTrue+0.9))
	moved, err := nll.Value()
	require.NoError(t, err)
	assert.Greater(t, moved, atStart)

	require.NoError(t, mu.SetValue(muTrue-0.2))
	back, err := nll.Value()
	require.NoError(t, err)
	assert.InDelta(t, atStart, back, 1e-12, "repeated evaluation must not accumulate state")
}

func TestRangeFiltersEventsAndNormalization(t *testing.T) {
	gauss, mu, sigma := createGauss(t, "1")
	inside := []float64{0.0, 1.0, 2.0}
	outside := []float64{-15.0, 20.0}
	ds := mustData(t, append(append([]float64(nil), inside...), outside...))

	fitRange := space.MustInterval("obs1", -5, 5)
	nll, err := NewUnbinnedNLL(gauss, ds, fitRange)
	require.NoError(t, err)

	got, err := nll.Value()
	require.NoError(t, err)

	norm, err := gauss.Integrate(fitRange)
	require.NoError(t, err)
	want := 0.0
	for _, x := range inside {
		z := (x - mu.Value()) / sigma.Value()
		density := math.Exp(-0.5*z*z) / (sigma.Value() * math.Sqrt(2*math.Pi))
		want -= math.Log(density / norm)
	}
	assert.InDelta(t, want, got, 1e-10, "out-of-range events must be excluded and the normalization restricted")
}

func TestWeightsScaleContributions(t *testing.T) {
	gauss, _, _ := createGauss(t, "1")
	values := []float64{0.5, 1.0, 2.5}

	plain, err := NewUnbinnedNLL(gauss, mustData(t, values), nil)
	require.NoError(t, err)
	doubled, err := NewUnbinnedNLL(gauss, mustData(t, values, data.WithWeights([]float64{2, 2, 2})), nil)
	require.NoError(t, err)

	v1, err := plain.Value()
	require.NoError(t, err)
	v2, err := doubled.Value()
	require.NoError(t, err)
	assert.InDelta(t, 2*v1, v2, 1e-10, "uniform weight 2 must double every log-likelihood contribution")
}

func TestExtendedAddsPoissonTerm(t *testing.T) {
	values := sampleNormal(t, 300, muTrue, sigmaTrue, 11)

	gauss, _, _ := createGauss(t, "3")
	yield := param.New("yield3", 500.0, param.WithLimits(0, 20000))
	extGauss := pdf.NewExtended(gauss, yield)

	plain, err := NewUnbinnedNLL(gauss, mustData(t, values), nil)
	require.NoError(t, err)
	extended, err := NewExtendedUnbinnedNLL(extGauss, mustData(t, values), nil)
	require.NoError(t, err)

	vPlain, err := plain.Value()
	require.NoError(t, err)
	vExt, err := extended.Value()
	require.NoError(t, err)

	nu := yield.Value()
	n := float64(len(values))
	assert.InDelta(t, vPlain+nu-n*math.Log(nu), vExt, 1e-8)

	assert.True(t, extended.Dependents(true).Has(yield), "yield must be a dependent of the extended loss")
	assert.Equal(t, "ExtendedUnbinnedNLL", extended.Kind())
}

func TestExtendedRequiresYield(t *testing.T) {
	gauss, _, _ := createGauss(t, "1")
	_, err := NewExtendedUnbinnedNLL(gauss, mustData(t, []float64{1, 2}), nil)
	require.Error(t, err)

	var target *errors.NotExtendedError
	assert.True(t, errors.As(err, &target), "expected NotExtendedError, got %v", err)
}

func TestConstructionLengthMismatch(t *testing.T) {
	g1, _, _ := createGauss(t, "1")
	g2, _, _ := createGauss(t, "2")
	ds := mustData(t, []float64{1, 2, 3})

	_, err := NewSimultaneousUnbinnedNLL([]pdf.PDF{g1, g2}, []*data.Dataset{ds}, nil)
	require.Error(t, err)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	// A single fit range broadcasts; two ranges for three models do not.
	g3, _, _ := createGauss(t, "3")
	three := []pdf.PDF{g1, g2, g3}
	datas := []*data.Dataset{ds, ds, ds}
	_, err = NewSimultaneousUnbinnedNLL(three, datas, []*space.Space{space.MustInterval("obs1", -5, 5)})
	assert.NoError(t, err)
	_, err = NewSimultaneousUnbinnedNLL(three, datas, []*space.Space{space.MustInterval("obs1", -5, 5), nil})
	assert.Error(t, err)
}

func TestAddFlattensStructure(t *testing.T) {
	params := make([]*param.Parameter, 4)
	pdfs := make([]pdf.PDF, 4)
	for i := range pdfs {
		params[i] = param.New("mean", float64(i+1))
		width := param.New("width", float64(i+4), param.Fixed())
		pdfs[i] = pdf.NewGauss("g", "obs1", params[i], width)
	}

	datas := []*data.Dataset{
		mustData(t, []float64{1}),
		mustData(t, []float64{2}),
		mustData(t, []float64{3}),
		mustData(t, []float64{4}),
	}

	ranges := []*space.Space{
		space.MustInterval("obs1", 1, 4),
		space.MustInterval("obs1", 2, 5),
		space.MustInterval("obs1", 3, 6),
		space.MustInterval("obs1", 4, 7),
	}

	constraint1 := mustConstraint(t, params[0], 1, 0.5)
	constraint2 := mustConstraint(t, params[0], 2, 0.25)

	nll1, err := NewUnbinnedNLL(pdfs[0], datas[0], ranges[0], WithConstraints(constraint1))
	require.NoError(t, err)
	nll2, err := NewUnbinnedNLL(pdfs[1], datas[1], ranges[1], WithConstraints(constraint2))
	require.NoError(t, err)
	nll3, err := NewSimultaneousUnbinnedNLL(
		[]pdf.PDF{pdfs[2], pdfs[3]},
		[]*data.Dataset{datas[2], datas[3]},
		[]*space.Space{ranges[2], ranges[3]},
	)
	require.NoError(t, err)

	sum12, err := nll1.Add(nll2)
	require.NoError(t, err)
	simult, err := sum12.Add(nll3)
	require.NoError(t, err)

	composite, ok := simult.(*UnbinnedNLL)
	require.True(t, ok, "likelihood composition must stay a flat UnbinnedNLL")

	assert.Equal(t, pdfs, composite.Models(), "models concatenate in term-addition order")
	assert.Equal(t, datas, composite.Data(), "data returns the original dataset objects")

	fitRanges := composite.FitRanges()
	require.Len(t, fitRanges, 4)
	for i, r := range ranges {
		assert.True(t, fitRanges[i].Equal(r), "fit range %d mismatch", i)
	}

	gotConstraints := composite.Constraints()
	require.Len(t, gotConstraints, 2)
	evalConstraints := func(cs []constraint.Constraint) float64 {
		var sum float64
		for _, c := range cs {
			v, err := c.Value()
			require.NoError(t, err)
			sum += v
		}
		return sum
	}
	assert.InDelta(t,
		evalConstraints([]constraint.Constraint{constraint1, constraint2}),
		evalConstraints(gotConstraints),
		1e-12)
}

func TestAddAssociativity(t *testing.T) {
	g1, _, _ := createGauss(t, "1")
	g2, _, _ := createGauss(t, "2")
	g3, _, _ := createGauss(t, "3")
	d1 := mustData(t, sampleNormal(t, 50, muTrue, sigmaTrue, 1))
	d2 := mustData(t, sampleNormal(t, 60, muTrue, sigmaTrue, 2))
	d3 := mustData(t, sampleNormal(t, 70, muTrue, sigmaTrue, 3))

	build := func(g pdf.PDF, d *data.Dataset) *UnbinnedNLL {
		nll, err := NewUnbinnedNLL(g, d, nil)
		require.NoError(t, err)
		return nll
	}

	a, b, c := build(g1, d1), build(g2, d2), build(g3, d3)

	left, err := a.Add(b)
	require.NoError(t, err)
	leftRight, err := left.Add(c)
	require.NoError(t, err)

	right, err := b.Add(c)
	require.NoError(t, err)
	rightLeft, err := a.Add(right)
	require.NoError(t, err)

	lr := leftRight.(*UnbinnedNLL)
	rl := rightLeft.(*UnbinnedNLL)
	assert.Equal(t, lr.Models(), rl.Models())
	assert.Equal(t, lr.Data(), rl.Data())

	vLR, err := lr.Value()
	require.NoError(t, err)
	vRL, err := rl.Value()
	require.NoError(t, err)
	assert.InDelta(t, vLR, vRL, 1e-9)
}

func TestAddMixedExtendedAndPlain(t *testing.T) {
	plainGauss, _, _ := createGauss(t, "1")
	plain, err := NewUnbinnedNLL(plainGauss, mustData(t, sampleNormal(t, 80, muTrue, sigmaTrue, 31)), nil)
	require.NoError(t, err)

	extGaussBase, _, _ := createGauss(t, "2")
	yield := param.New("yield2", 120.0, param.WithLimits(0, 10000))
	extended, err := NewExtendedUnbinnedNLL(
		pdf.NewExtended(extGaussBase, yield),
		mustData(t, sampleNormal(t, 120, muTrue, sigmaTrue, 32)),
		nil,
	)
	require.NoError(t, err)

	vPlain, err := plain.Value()
	require.NoError(t, err)
	vExtended, err := extended.Value()
	require.NoError(t, err)

	// Extendedness is a per-term property: a composite may mix extended
	// and plain terms, and a single extended term makes the whole
	// composite extended.
	for _, composed := range []func() (Loss, error){
		func() (Loss, error) { return plain.Add(extended) },
		func() (Loss, error) { return extended.Add(plain) },
	} {
		sum, err := composed()
		require.NoError(t, err)
		assert.Equal(t, "ExtendedUnbinnedNLL", sum.Kind())

		v, err := sum.Value()
		require.NoError(t, err)
		assert.InDelta(t, vPlain+vExtended, v, 1e-9)
		assert.True(t, sum.Dependents(true).Has(yield))
	}
}

func TestAddSimpleLossIsAmbiguous(t *testing.T) {
	gauss, mu, _ := createGauss(t, "1")
	nll, err := NewUnbinnedNLL(gauss, mustData(t, []float64{1, 2}), nil)
	require.NoError(t, err)

	simple, err := NewSimpleLoss(func() (float64, error) {
		return mu.Value() * mu.Value(), nil
	}, []*param.Parameter{mu})
	require.NoError(t, err)

	_, err = nll.Add(simple)
	require.Error(t, err)
	var target *errors.AmbiguousCompositionError
	assert.True(t, errors.As(err, &target), "expected AmbiguousCompositionError, got %v", err)
}

func TestDependents(t *testing.T) {
	g1, mu1, sigma1 := createGauss(t, "1")
	g2, mu2, sigma2 := createGauss(t, "2")
	sigma2.SetFloating(false)

	c := mustConstraint(t, mu2, 1.6, 0.2)
	nll, err := NewSimultaneousUnbinnedNLL(
		[]pdf.PDF{g1, g2},
		[]*data.Dataset{mustData(t, []float64{1}), mustData(t, []float64{2})},
		nil,
		WithConstraints(c),
	)
	require.NoError(t, err)

	all := nll.Dependents(false)
	assert.Equal(t, 4, all.Len())
	assert.True(t, all.Has(sigma2))

	floating := nll.Dependents(true)
	assert.Equal(t, 3, floating.Len())
	assert.True(t, floating.Has(mu1) && floating.Has(sigma1) && floating.Has(mu2))
	assert.False(t, floating.Has(sigma2))
}

func TestChunkInvariance(t *testing.T) {
	values := sampleNormal(t, 3000, muTrue, sigmaTrue, 99)
	weights := make([]float64, len(values))
	rng := rand.New(rand.NewPCG(5, 6))
	for i := range weights {
		weights[i] = 1 + 0.2*rng.NormFloat64()
	}

	build := func(chunkSize int) *UnbinnedNLL {
		gauss, _, _ := createGauss(t, "1")
		ds := mustData(t, values, data.WithWeights(weights))
		nll, err := NewUnbinnedNLL(gauss, ds, nil, WithChunkSize(chunkSize))
		require.NoError(t, err)
		return nll
	}

	full := build(0)
	chunked := build(1000)

	vFull, err := full.Value()
	require.NoError(t, err)
	vChunked, err := chunked.Value()
	require.NoError(t, err)
	assert.InEpsilon(t, vFull, vChunked, 1e-9, "chunk size must not change the loss value")

	gFull, err := full.Gradients(full.Dependents(true).List()...)
	require.NoError(t, err)
	gChunked, err := chunked.Gradients(chunked.Dependents(true).List()...)
	require.NoError(t, err)

	// The two losses were built with distinct parameter objects, so compare
	// the gradient multisets.
	sorted := func(g []float64) []float64 {
		out := append([]float64(nil), g...)
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if out[j] < out[i] {
					out[i], out[j] = out[j], out[i]
				}
			}
		}
		return out
	}
	sFull, sChunked := sorted(gFull), sorted(gChunked)
	require.Len(t, sChunked, len(sFull))
	for i := range sFull {
		assert.InEpsilon(t, sFull[i], sChunked[i], 1e-6, "gradient %d differs between chunked and unchunked evaluation", i)
	}
}

func TestZeroDensityPropagatesInfinity(t *testing.T) {
	p := param.New("scale", 1.0)
	model := pdf.NewFunc1D("steppy", "obs1", func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return p.Value()
	}, p)

	ds := mustData(t, []float64{-1, 1})
	nll, err := NewUnbinnedNLL(model, ds, space.MustInterval("obs1", -5, 5))
	require.NoError(t, err)

	v, err := nll.Value()
	require.NoError(t, err, "a non-finite loss is a value, not an error")
	assert.True(t, math.IsInf(v, 1), "zero density at an observed point must drive the NLL to +Inf, got %v", v)
}

func TestConstraintAdditivity(t *testing.T) {
	gauss, mu, sigma := createGauss(t, "2")
	require.NoError(t, mu.SetValue(muTrue+0.3))
	require.NoError(t, sigma.SetValue(sigmaTrue-0.5))

	c1 := mustConstraint(t, mu, 1.6, 0.2)
	c2 := mustConstraint(t, sigma, 3.8, 0.2)

	ds := mustData(t, sampleNormal(t, 100, muTrue, sigmaTrue, 21))
	bare, err := NewUnbinnedNLL(gauss, ds, nil)
	require.NoError(t, err)
	constrained, err := NewUnbinnedNLL(gauss, ds, nil, WithConstraints(c1, c2))
	require.NoError(t, err)

	vBare, err := bare.Value()
	require.NoError(t, err)
	vConstrained, err := constrained.Value()
	require.NoError(t, err)

	v1, err := c1.Value()
	require.NoError(t, err)
	v2, err := c2.Value()
	require.NoError(t, err)

	assert.InDelta(t, vBare+v1+v2, vConstrained, 1e-10)
}
