package setup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	clocktesting "k8s.io/utils/clock/testing"
	"k8s.io/utils/ptr"

	"github.com/sbst-go/sbst/pkg/api/v1alpha1"
	"github.com/sbst-go/sbst/pkg/search/archive"
	"github.com/sbst-go/sbst/pkg/search/benchmarks"
	"github.com/sbst-go/sbst/pkg/search/budget"
	"github.com/sbst-go/sbst/pkg/search/setup"
)

func defaulted(mutate func(*v1alpha1.SearchConfiguration)) *v1alpha1.SearchConfiguration {
	cfg := &v1alpha1.SearchConfiguration{}
	mutate(cfg)
	v1alpha1.SetDefaults_SearchConfiguration(cfg)
	return cfg
}

func TestBuild(t *testing.T) {
	program, err := benchmarks.Nested()
	require.NoError(t, err)

	cfg := defaulted(func(c *v1alpha1.SearchConfiguration) {
		c.Algorithm = "nsga2"
		c.Seed = ptr.To[uint64](9)
		c.PopulationSize = 8
		c.Budgets = v1alpha1.Budgets{Iterations: 4, Evaluations: 1000}
	})
	search, err := setup.Build(cfg, benchmarks.Components(program))
	require.NoError(t, err)
	require.Equal(t, "nsga2", search.Algorithm.Name())
	require.Equal(t, "uncovered", search.Manager.Name())
	require.Equal(t, uint64(9), search.Stream.Seed())
	require.Len(t, search.Budget.Budgets(), 2)

	result, err := search.Algorithm.Search(context.Background(), program)
	require.NoError(t, err)
	require.Positive(t, result.Size())

	// the manager and the algorithm share the budgets
	evaluations, err := search.Budget.Get(budget.EvaluationBudgetName)
	require.NoError(t, err)
	require.Equal(t, float64(search.Manager.Evaluations()), evaluations.Used())
}

func TestBuildDrawsSeed(t *testing.T) {
	program, err := benchmarks.Thrower()
	require.NoError(t, err)
	cfg := defaulted(func(c *v1alpha1.SearchConfiguration) { c.Algorithm = "random" })

	s1, err := setup.Build(cfg, benchmarks.Components(program))
	require.NoError(t, err)
	s2, err := setup.Build(cfg, benchmarks.Components(program))
	require.NoError(t, err)
	require.NotEqual(t, s1.Stream.Seed(), s2.Stream.Seed())
}

func TestBuildErrors(t *testing.T) {
	program, err := benchmarks.Triangle()
	require.NoError(t, err)

	testCases := []struct {
		name    string
		mutate  func(*v1alpha1.SearchConfiguration)
		comps   func(setup.Components) setup.Components
		wantErr error
	}{
		{
			name:    "no runner",
			comps:   func(c setup.Components) setup.Components { c.Runner = nil; return c },
			wantErr: setup.ErrMissingComponent,
		},
		{
			name:    "no sampler",
			comps:   func(c setup.Components) setup.Components { c.Sampler = nil; return c },
			wantErr: setup.ErrMissingComponent,
		},
		{
			name:    "no crossover for an evolutionary algorithm",
			comps:   func(c setup.Components) setup.Components { c.Crossover = nil; return c },
			wantErr: setup.ErrMissingComponent,
		},
		{
			name:    "unknown crossover",
			mutate:  func(c *v1alpha1.SearchConfiguration) { c.Crossover = "cycle" },
			wantErr: benchmarks.ErrUnknownCrossover,
		},
		{
			name:    "unknown secondary objective",
			mutate:  func(c *v1alpha1.SearchConfiguration) { c.SecondaryObjectives = []string{"size"} },
			wantErr: archive.ErrUnknownSecondaryObjective,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mutate := tc.mutate
			if mutate == nil {
				mutate = func(*v1alpha1.SearchConfiguration) {}
			}
			comps := benchmarks.Components(program)
			if tc.comps != nil {
				comps = tc.comps(comps)
			}
			_, err := setup.Build(defaulted(mutate), comps)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBudgets(t *testing.T) {
	fakeClock := clocktesting.NewFakePassiveClock(time.Now())
	m := setup.Budgets(v1alpha1.Budgets{
		Iterations: 10,
		SearchTime: &metav1.Duration{Duration: time.Minute},
		TotalTime:  &metav1.Duration{Duration: time.Hour},
		Stagnation: 3,
	}, fakeClock)

	var names []string
	for _, b := range m.Budgets() {
		names = append(names, b.Name())
	}
	require.ElementsMatch(t, []string{
		budget.IterationBudgetName,
		budget.SearchTimeBudgetName,
		budget.TotalTimeBudgetName,
		budget.StagnationBudgetName,
	}, names)

	m.InitializationStarted()
	m.InitializationStopped()
	m.SearchStarted()
	fakeClock.SetTime(fakeClock.Now().Add(2 * time.Minute))
	require.False(t, m.HasBudgetLeft())
}
