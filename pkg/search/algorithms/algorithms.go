// Package algorithms implements the search algorithms. They all share one
// generational loop and differ in how they initialize and iterate.
package algorithms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/sbst-go/sbst/pkg/search/budget"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/objectivemanager"
	"github.com/sbst-go/sbst/pkg/search/operators"
	"github.com/sbst-go/sbst/pkg/search/prng"
)

// Algorithm names used in configuration.
const (
	RandomSearchName = "random"
	NSGAIIName       = "nsga2"
	MOSAName         = "mosa"
	DynaMOSAName     = "dynamosa"
	SPEA2Name        = "spea2"
)

// Names lists the registered algorithms.
var Names = []string{RandomSearchName, NSGAIIName, MOSAName, DynaMOSAName, SPEA2Name}

var (
	ErrUnknownAlgorithm    = errors.New("unknown algorithm")
	ErrMissingOption       = errors.New("missing algorithm option")
	ErrIncompatibleManager = errors.New("objective manager does not fit algorithm")
)

// Options holds everything an algorithm needs. The objective manager and the
// algorithm must share the same budget manager.
type Options struct {
	Manager     *objectivemanager.Manager
	Budget      *budget.Manager
	Termination framework.TerminationTrigger
	Sampler     framework.EncodingSampler
	Crossover   framework.Crossover
	Stream      *prng.Stream
	Listeners   []framework.Listener

	PopulationSize       int
	CrossoverProbability float64
	TournamentSize       int

	// ArchiveSize and Strength configure SPEA2. ArchiveSize defaults to the
	// population size.
	ArchiveSize int
	Strength    StrengthStrategy
}

// DefaultObjectiveManager returns the objective manager an algorithm is
// designed for.
func DefaultObjectiveManager(algorithm string) string {
	switch algorithm {
	case RandomSearchName:
		return objectivemanager.SimpleManager
	case DynaMOSAName:
		return objectivemanager.StructuralManager
	default:
		return objectivemanager.UncoveredManager
	}
}

// New creates the algorithm registered under name.
func New(name string, opts Options) (framework.Algorithm, error) {
	if err := validate(name, opts); err != nil {
		return nil, err
	}
	l := loop{name: name, opts: opts}

	switch name {
	case RandomSearchName:
		return &RandomSearch{loop: l}, nil
	case NSGAIIName:
		return &NSGAII{loop: l, procreation: procreation(opts)}, nil
	case MOSAName, DynaMOSAName:
		if name == DynaMOSAName && opts.Manager.Name() != objectivemanager.StructuralManager {
			return nil, fmt.Errorf("%w: %s needs the %s manager, got %s", ErrIncompatibleManager, name, objectivemanager.StructuralManager, opts.Manager.Name())
		}
		return &MOSA{NSGAII: NSGAII{loop: l, procreation: procreation(opts)}}, nil
	case SPEA2Name:
		if l.opts.ArchiveSize == 0 {
			l.opts.ArchiveSize = opts.PopulationSize
		}
		if l.opts.Strength == "" {
			l.opts.Strength = StrengthClassic
		}
		if !l.opts.Strength.valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrength, l.opts.Strength)
		}
		return &SPEA2{loop: l, procreation: procreation(opts)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

func validate(name string, opts Options) error {
	missing := func(option string) error {
		return fmt.Errorf("%w: %s for %s", ErrMissingOption, option, name)
	}
	switch {
	case opts.Manager == nil:
		return missing("objective manager")
	case opts.Budget == nil || len(opts.Budget.Budgets()) == 0:
		return missing("budget")
	case opts.Sampler == nil:
		return missing("sampler")
	case opts.Stream == nil:
		return missing("random stream")
	case name != RandomSearchName && opts.PopulationSize <= 0:
		return missing("population size")
	}
	return nil
}

func procreation(opts Options) *operators.Procreation {
	return &operators.Procreation{
		Crossover:            opts.Crossover,
		Sampler:              opts.Sampler,
		Stream:               opts.Stream,
		CrossoverProbability: opts.CrossoverProbability,
		TournamentSize:       opts.TournamentSize,
		PopulationSize:       opts.PopulationSize,
	}
}

// engine is the part every algorithm implements itself.
type engine interface {
	initialize(ctx context.Context) error
	iterate(ctx context.Context) error
}

// loop drives an engine through the lifecycle of one run.
type loop struct {
	name      string
	opts      Options
	runID     string
	subject   framework.SearchSubject
	iteration int
}

func (l *loop) Name() string {
	return l.name
}

func (l *loop) run(ctx context.Context, subject framework.SearchSubject, e engine) (framework.ArchiveView, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", l.name, "subject", subject.Name())
	ctx = klog.NewContext(ctx, logger)
	manager, budgets := l.opts.Manager, l.opts.Budget

	l.runID = uuid.NewString()
	l.subject = subject
	l.iteration = 0
	if err := manager.Load(subject); err != nil {
		return nil, fmt.Errorf("loading subject %s: %w", subject.Name(), err)
	}
	logger.V(2).Info("Search starting", "run", l.runID, "objectives", manager.TotalObjectives(), "current", len(manager.CurrentObjectives()))

	started := false
	fail := func(err error) (framework.ArchiveView, error) {
		budgets.SearchStopped()
		progress := l.progress()
		if !started {
			for _, listener := range l.opts.Listeners {
				listener.SearchStarted(ctx, progress)
			}
		}
		progress.Err = err
		for _, listener := range l.opts.Listeners {
			listener.SearchCompleted(ctx, progress)
		}
		logger.Error(err, "Search failed", "iterations", l.iteration, "evaluations", progress.Evaluations)
		return nil, err
	}

	budgets.InitializationStarted()
	err := e.initialize(ctx)
	budgets.InitializationStopped()
	if err != nil {
		return fail(fmt.Errorf("initializing %s: %w", l.name, err))
	}

	budgets.SearchStarted()
	started = true
	for _, listener := range l.opts.Listeners {
		listener.SearchStarted(ctx, l.progress())
	}

	for manager.HasObjectives() && budgets.HasBudgetLeft() && !l.terminated(ctx) {
		if err := e.iterate(ctx); err != nil {
			return fail(fmt.Errorf("%s iteration %d: %w", l.name, l.iteration+1, err))
		}
		l.iteration++

		progress := l.progress()
		budgets.Iteration(progress)
		for _, listener := range l.opts.Listeners {
			listener.IterationCompleted(ctx, progress)
		}
		logger.V(4).Info("Iteration completed", "iteration", l.iteration,
			"covered", progress.CoveredObjectives, "total", progress.TotalObjectives, "budget", progress.BudgetRemaining)
	}
	budgets.SearchStopped()

	progress := l.progress()
	for _, listener := range l.opts.Listeners {
		listener.SearchCompleted(ctx, progress)
	}
	logger.V(2).Info("Search completed", "iterations", l.iteration, "evaluations", progress.Evaluations,
		"covered", progress.CoveredObjectives, "total", progress.TotalObjectives, "archive", progress.ArchiveSize)
	return manager.Archive(), nil
}

func (l *loop) terminated(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return l.opts.Termination != nil && l.opts.Termination.IsTriggered()
}

func (l *loop) progress() framework.SearchProgress {
	m := l.opts.Manager
	return framework.SearchProgress{
		RunID:             l.runID,
		Algorithm:         l.name,
		Subject:           l.subject.Name(),
		Iteration:         l.iteration,
		Evaluations:       m.Evaluations(),
		CurrentObjectives: len(m.CurrentObjectives()),
		CoveredObjectives: len(m.CoveredObjectives()),
		TotalObjectives:   m.TotalObjectives(),
		ArchiveSize:       m.Archive().Size(),
		BudgetRemaining:   l.opts.Budget.GetBudget(),
	}
}

// sample draws n fresh encodings.
func (l *loop) sample(n int) []framework.Encoding {
	population := make([]framework.Encoding, n)
	for i := range population {
		population[i] = l.opts.Sampler.Sample()
	}
	return population
}

// RandomSearch evaluates one fresh encoding per iteration.
type RandomSearch struct {
	loop
}

var _ framework.Algorithm = &RandomSearch{}

func (r *RandomSearch) Search(ctx context.Context, subject framework.SearchSubject) (framework.ArchiveView, error) {
	return r.run(ctx, subject, r)
}

func (r *RandomSearch) initialize(context.Context) error {
	return nil
}

func (r *RandomSearch) iterate(ctx context.Context) error {
	_, err := r.opts.Manager.EvaluateOne(ctx, r.opts.Sampler.Sample())
	return err
}
