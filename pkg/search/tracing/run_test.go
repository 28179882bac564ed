package tracing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sbst-go/sbst/pkg/api/v1alpha1"
	"github.com/sbst-go/sbst/pkg/search/benchmarks"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/setup"
	"github.com/sbst-go/sbst/pkg/search/tracing"
)

var errSandbox = errors.New("sandbox crashed")

// failingRunner fails from the n-th execution on.
type failingRunner struct {
	benchmarks.Runner
	n, calls int
}

func (r *failingRunner) Execute(ctx context.Context, subject framework.SearchSubject, e framework.Encoding) (*framework.ExecutionResult, error) {
	r.calls++
	if r.calls >= r.n {
		return nil, errSandbox
	}
	return r.Runner.Execute(ctx, subject, e)
}

func TestFailedSearchEndsSpan(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		failAt    int
		events    int
	}{
		{name: "initialization", algorithm: "nsga2", failAt: 1, events: 1},
		{name: "iteration", algorithm: "dynamosa", failAt: 8, events: 1},
		{name: "random search", algorithm: "random", failAt: 3, events: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := v1alpha1.Decode([]byte(fmt.Sprintf("algorithm: %s\nseed: 3\npopulationSize: 5\nbudgets:\n  iterations: 10\n", tc.algorithm)))
			require.NoError(t, err)
			program, err := benchmarks.NewSubject("nested")
			require.NoError(t, err)

			recorder := tracetest.NewSpanRecorder()
			components := benchmarks.Components(program, tracing.NewListener(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))))
			components.Runner = &failingRunner{n: tc.failAt}
			search, err := setup.Build(cfg, components)
			require.NoError(t, err)

			_, err = search.Algorithm.Search(context.Background(), program)
			require.ErrorIs(t, err, errSandbox)

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			require.Equal(t, "search "+tc.algorithm, spans[0].Name())
			require.Equal(t, codes.Error, spans[0].Status().Code)
			require.Len(t, spans[0].Events(), tc.events)
			require.Equal(t, "exception", spans[0].Events()[tc.events-1].Name)
		})
	}
}
