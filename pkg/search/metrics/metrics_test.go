package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

func TestListener(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewPedanticRegistry()
	l := NewListener(reg)

	p := framework.SearchProgress{Algorithm: "mosa", Subject: "triangle", TotalObjectives: 10, CurrentObjectives: 10, BudgetRemaining: 1}
	l.SearchStarted(ctx, p)
	for i := 1; i <= 3; i++ {
		p.Iteration = i
		p.Evaluations = 10 * i
		p.CoveredObjectives = 2 * i
		p.CurrentObjectives = 10 - 2*i
		p.BudgetRemaining = 1 - 0.25*float64(i)
		l.IterationCompleted(ctx, p)
	}
	l.SearchCompleted(ctx, p)

	require.Equal(t, 3.0, testutil.ToFloat64(l.iterations.WithLabelValues("mosa", "triangle")))
	require.Equal(t, 30.0, testutil.ToFloat64(l.evaluations.WithLabelValues("mosa", "triangle")))
	require.Equal(t, 6.0, testutil.ToFloat64(l.covered.WithLabelValues("mosa", "triangle")))
	require.Equal(t, 4.0, testutil.ToFloat64(l.current.WithLabelValues("mosa", "triangle")))
	require.Equal(t, 10.0, testutil.ToFloat64(l.objectives.WithLabelValues("mosa", "triangle")))
	require.InDelta(t, 0.25, testutil.ToFloat64(l.budget.WithLabelValues("mosa", "triangle")), 1e-9)
	require.Equal(t, 1.0, testutil.ToFloat64(l.runs.WithLabelValues("mosa", "triangle", "started")))
	require.Equal(t, 1.0, testutil.ToFloat64(l.runs.WithLabelValues("mosa", "triangle", "completed")))

	expected := `
# HELP sbst_search_iterations_total Completed search iterations
# TYPE sbst_search_iterations_total counter
sbst_search_iterations_total{algorithm="mosa",subject="triangle"} 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "sbst_search_iterations_total"))

	count, err := testutil.GatherAndCount(reg, "sbst_search_final_coverage_ratio")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestListenerCountsFailedRuns(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewPedanticRegistry()
	l := NewListener(reg)

	p := framework.SearchProgress{Algorithm: "spea2", Subject: "nested", TotalObjectives: 4}
	l.SearchStarted(ctx, p)
	p.Evaluations = 7
	p.Err = errors.New("sandbox crashed")
	l.SearchCompleted(ctx, p)

	require.Equal(t, 1.0, testutil.ToFloat64(l.runs.WithLabelValues("spea2", "nested", "failed")))
	require.Equal(t, 0.0, testutil.ToFloat64(l.runs.WithLabelValues("spea2", "nested", "completed")))
	require.Equal(t, 7.0, testutil.ToFloat64(l.evaluations.WithLabelValues("spea2", "nested")))
	count, err := testutil.GatherAndCount(reg, "sbst_search_final_coverage_ratio")
	require.NoError(t, err)
	require.Zero(t, count)
}
