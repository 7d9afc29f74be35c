// Package zfit provides a maximum-likelihood fitting toolkit for Go,
// designed for model fitting on unbinned datasets.
//
// zfit composes probability density models with observed data into loss
// functions (unbinned negative log-likelihood, extended likelihood,
// simultaneous multi-channel likelihoods, user-supplied losses), attaches
// Gaussian constraints to parameters, and hands the scalar objective and
// its gradient to a numerical minimizer to recover best-fit parameter
// values, uncertainties, and correlations.
//
// # Quick Start
//
// Fitting a Gaussian to unbinned data:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/simonthor/zfit/core/data"
//	    "github.com/simonthor/zfit/core/param"
//	    "github.com/simonthor/zfit/loss"
//	    "github.com/simonthor/zfit/minimize"
//	    "github.com/simonthor/zfit/pdf"
//	)
//
//	func main() {
//	    mu := param.New("mu", 1.0, param.WithLimits(0.2, 2.2))
//	    sigma := param.New("sigma", 3.8, param.WithLimits(2.1, 6.1))
//	    gauss := pdf.NewGauss("gauss", "obs1", mu, sigma)
//
//	    observed, err := data.FromSlice("obs1", samples) // samples []float64
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    nll, err := loss.NewUnbinnedNLL(gauss, observed, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := minimize.New().Minimize(nll)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("mu =", result.Value(mu), "sigma =", result.Value(sigma))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - core/param: fit parameters (value, limits, floating state)
//   - core/space: observable spaces and fit ranges
//   - core/data: unbinned dataset views with optional event weights
//   - core/chunk: sequential chunked evaluation utilities
//   - pdf: probability density model interface and built-in models
//   - constraint: Gaussian parameter constraints
//   - loss: likelihood and user-defined loss construction, gradients
//   - minimize: numerical minimization and error estimation
//
// # Design
//
// Losses are pure reads over the current parameter values: the minimizer
// mutates parameters between evaluations and the loss recomputes
// normalizations on every call. Large datasets can be evaluated in
// sequential chunks to bound peak memory without changing results.
package zfit
