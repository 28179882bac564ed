// Package setup assembles a search run from a configuration and the
// collaborators that know the encoding.
package setup

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/sbst-go/sbst/pkg/api/v1alpha1"
	"github.com/sbst-go/sbst/pkg/search/algorithms"
	"github.com/sbst-go/sbst/pkg/search/archive"
	"github.com/sbst-go/sbst/pkg/search/budget"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/objectivemanager"
	"github.com/sbst-go/sbst/pkg/search/prng"
)

var ErrMissingComponent = errors.New("missing search component")

// Components are the parts of a run that depend on the encoding and on the
// environment of the caller.
type Components struct {
	Runner  framework.EncodingRunner
	Sampler func(stream *prng.Stream) framework.EncodingSampler
	// Crossover resolves the configured crossover. It may be nil for random
	// search.
	Crossover   func(name string, points int, stream *prng.Stream) (framework.Crossover, error)
	Termination framework.TerminationTrigger
	Listeners   []framework.Listener
	// Clock drives the time budgets. Nil means the real clock.
	Clock clock.PassiveClock
}

// Search is an assembled run. Budget is shared by Manager and Algorithm.
type Search struct {
	Algorithm framework.Algorithm
	Manager   *objectivemanager.Manager
	Budget    *budget.Manager
	Stream    *prng.Stream
}

// Build wires a defaulted and validated configuration into a search.
func Build(cfg *v1alpha1.SearchConfiguration, c Components) (*Search, error) {
	if c.Runner == nil {
		return nil, fmt.Errorf("%w: runner", ErrMissingComponent)
	}
	if c.Sampler == nil {
		return nil, fmt.Errorf("%w: sampler", ErrMissingComponent)
	}

	var stream *prng.Stream
	if cfg.Seed != nil {
		stream = prng.New(*cfg.Seed)
	} else {
		stream = prng.FromString(uuid.NewString())
	}
	klog.V(2).InfoS("Random stream seeded", "seed", stream.Seed())

	budgets := Budgets(cfg.Budgets, c.Clock)

	secondary, err := archive.NewSecondaryObjectives(cfg.SecondaryObjectives...)
	if err != nil {
		return nil, err
	}
	managerName := cfg.ObjectiveManager
	if managerName == "" {
		managerName = algorithms.DefaultObjectiveManager(cfg.Algorithm)
	}
	manager, err := objectivemanager.New(managerName, objectivemanager.Options{
		Runner:      c.Runner,
		Budget:      budgets,
		Termination: c.Termination,
		Secondary:   secondary,
	})
	if err != nil {
		return nil, err
	}

	var crossover framework.Crossover
	if c.Crossover != nil {
		crossover, err = c.Crossover(cfg.Crossover, cfg.CrossoverPoints, stream)
		if err != nil {
			return nil, err
		}
	} else if cfg.Algorithm != algorithms.RandomSearchName {
		return nil, fmt.Errorf("%w: crossover for %s", ErrMissingComponent, cfg.Algorithm)
	}

	opts := algorithms.Options{
		Manager:        manager,
		Budget:         budgets,
		Termination:    c.Termination,
		Sampler:        c.Sampler(stream),
		Crossover:      crossover,
		Stream:         stream,
		Listeners:      c.Listeners,
		PopulationSize: cfg.PopulationSize,
		TournamentSize: cfg.TournamentSize,
	}
	if cfg.CrossoverProbability != nil {
		opts.CrossoverProbability = *cfg.CrossoverProbability
	}
	if cfg.SPEA2 != nil {
		opts.ArchiveSize = cfg.SPEA2.ArchiveSize
		opts.Strength = algorithms.StrengthStrategy(cfg.SPEA2.Strength)
	}

	algorithm, err := algorithms.New(cfg.Algorithm, opts)
	if err != nil {
		return nil, err
	}
	return &Search{Algorithm: algorithm, Manager: manager, Budget: budgets, Stream: stream}, nil
}

// Budgets creates one budget per configured limit.
func Budgets(b v1alpha1.Budgets, c clock.PassiveClock) *budget.Manager {
	m := budget.NewManager()
	if b.Iterations > 0 {
		m.Add(budget.NewIterationBudget(b.Iterations))
	}
	if b.Evaluations > 0 {
		m.Add(budget.NewEvaluationBudget(b.Evaluations))
	}
	if b.SearchTime != nil {
		m.Add(budget.NewSearchTimeBudget(b.SearchTime.Duration, c))
	}
	if b.TotalTime != nil {
		m.Add(budget.NewTotalTimeBudget(b.TotalTime.Duration, c))
	}
	if b.Stagnation > 0 {
		m.Add(budget.NewStagnationBudget(b.Stagnation))
	}
	return m
}
