// SPDX-License-Identifier: Apache-2.0

// Package metrics instruments expression-filter evaluation from the
// outside. The core vm.Evaluator stays free of observability side
// effects; InstrumentedEvaluator wraps it for callers that want
// Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/exprfilter/exprfilter/compiler"
	"github.com/exprfilter/exprfilter/ferr"
	"github.com/exprfilter/exprfilter/filterctx"
	"github.com/exprfilter/exprfilter/vm"
)

var (
	evaluateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exprfilter_evaluate_duration_seconds",
		Help:    "Histogram of filter evaluation latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exprfilter_evaluations_total",
		Help: "Total number of filter evaluations by outcome",
	}, []string{"outcome"})

	evaluationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exprfilter_evaluation_errors_total",
		Help: "Total number of filter evaluation errors by kind",
	}, []string{"kind"})
)

// InstrumentedEvaluator wraps a vm.Evaluator and records Prometheus
// metrics around every Evaluate call.
type InstrumentedEvaluator struct {
	Evaluator vm.Evaluator
}

// Evaluate runs cf against ctx via the wrapped Evaluator, recording
// latency and outcome metrics before returning the same result.
func (e *InstrumentedEvaluator) Evaluate(cf *compiler.CompiledFilter, ctx *filterctx.Context) (bool, error) {
	start := time.Now()
	result, err := e.Evaluator.Evaluate(cf, ctx)
	evaluateDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		evaluations.WithLabelValues("error").Inc()
		kind := ferr.KindOther
		var fe *ferr.Error
		if asErr, ok := err.(*ferr.Error); ok {
			fe = asErr
			kind = fe.Kind
		}
		evaluationErrors.WithLabelValues(string(kind)).Inc()
		return false, err
	}

	if result {
		evaluations.WithLabelValues("true").Inc()
	} else {
		evaluations.WithLabelValues("false").Inc()
	}
	return result, nil
}
