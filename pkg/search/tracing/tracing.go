// Package tracing records search runs as OpenTelemetry spans.
package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

const instrumentationName = "github.com/sbst-go/sbst/pkg/search"

// Listener opens a span when a run starts, adds an event per iteration and
// ends the span when the run completes. A failed run ends with an error
// status.
type Listener struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

var _ framework.Listener = &Listener{}

func NewListener(tp trace.TracerProvider) *Listener {
	return &Listener{
		tracer: tp.Tracer(instrumentationName),
		spans:  make(map[string]trace.Span),
	}
}

func (l *Listener) SearchStarted(ctx context.Context, p framework.SearchProgress) {
	_, span := l.tracer.Start(ctx, "search "+p.Algorithm,
		trace.WithAttributes(
			attribute.String("sbst.run_id", p.RunID),
			attribute.String("sbst.algorithm", p.Algorithm),
			attribute.String("sbst.subject", p.Subject),
			attribute.Int("sbst.objectives", p.TotalObjectives),
		))

	l.mu.Lock()
	defer l.mu.Unlock()
	l.spans[p.RunID] = span
}

func (l *Listener) IterationCompleted(_ context.Context, p framework.SearchProgress) {
	span, ok := l.span(p.RunID, false)
	if !ok {
		return
	}
	span.AddEvent("iteration", trace.WithAttributes(
		attribute.Int("sbst.iteration", p.Iteration),
		attribute.Int("sbst.evaluations", p.Evaluations),
		attribute.Int("sbst.covered", p.CoveredObjectives),
		attribute.Int("sbst.current", p.CurrentObjectives),
		attribute.Float64("sbst.budget_remaining", p.BudgetRemaining),
	))
}

func (l *Listener) SearchCompleted(_ context.Context, p framework.SearchProgress) {
	span, ok := l.span(p.RunID, true)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.Int("sbst.iterations", p.Iteration),
		attribute.Int("sbst.evaluations", p.Evaluations),
		attribute.Int("sbst.covered", p.CoveredObjectives),
		attribute.Int("sbst.objectives", p.TotalObjectives),
		attribute.Float64("sbst.coverage", p.Coverage()),
	)
	if p.Err != nil {
		span.RecordError(p.Err)
		span.SetStatus(codes.Error, p.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (l *Listener) span(runID string, remove bool) (trace.Span, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	span, ok := l.spans[runID]
	if remove {
		delete(l.spans, runID)
	}
	return span, ok
}
