// Package objectivemanager tracks which objectives a search works on, runs
// encodings through the runner and keeps the archive up to date.
package objectivemanager

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/sbst-go/sbst/pkg/search/archive"
	"github.com/sbst-go/sbst/pkg/search/budget"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/objectives"
)

// Manager names used in configuration.
const (
	SimpleManager     = "simple"
	UncoveredManager  = "uncovered"
	StructuralManager = "structural"
)

// Names lists the registered objective managers.
var Names = []string{SimpleManager, UncoveredManager, StructuralManager}

var (
	ErrUnknownManager = errors.New("unknown objective manager")
	ErrMissingRunner  = errors.New("objective manager needs a runner")
	ErrNotLoaded      = errors.New("no subject loaded")
)

// Options configures a Manager. Budget and Termination are optional.
type Options struct {
	Runner      framework.EncodingRunner
	Budget      *budget.Manager
	Termination framework.TerminationTrigger
	Secondary   []archive.SecondaryObjective
}

// Manager owns the objective sets of one run and the archive. Every objective
// is in exactly one of current, covered and uncovered.
type Manager struct {
	policy      policy
	runner      framework.EncodingRunner
	budget      *budget.Manager
	termination framework.TerminationTrigger
	secondary   []archive.SecondaryObjective

	subject     framework.SearchSubject
	archive     *archive.Archive
	order       []string
	objectives  map[string]framework.ObjectiveFunction
	current     sets.Set[string]
	covered     sets.Set[string]
	uncovered   sets.Set[string]
	evaluations int
}

// New creates the manager registered under name.
func New(name string, opts Options) (*Manager, error) {
	var p policy
	switch name {
	case SimpleManager:
		p = simple{}
	case UncoveredManager:
		p = uncovered{}
	case StructuralManager:
		p = newStructural()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownManager, name)
	}
	if opts.Runner == nil {
		return nil, ErrMissingRunner
	}
	if opts.Budget == nil {
		opts.Budget = budget.NewManager()
	}
	return &Manager{
		policy:      p,
		runner:      opts.Runner,
		budget:      opts.Budget,
		termination: opts.Termination,
		secondary:   opts.Secondary,
		archive:     archive.New(),
	}, nil
}

func (m *Manager) Name() string {
	return m.policy.name()
}

// Load resets the manager for subject and decides the initial current set.
func (m *Manager) Load(subject framework.SearchSubject) error {
	m.subject = subject
	m.archive = archive.New()
	m.objectives = make(map[string]framework.ObjectiveFunction)
	m.order = nil
	m.current = sets.New[string]()
	m.covered = sets.New[string]()
	m.uncovered = sets.New[string]()
	m.evaluations = 0

	var objs []framework.ObjectiveFunction
	for _, o := range subject.Objectives() {
		if _, ok := m.objectives[o.ID()]; ok {
			continue
		}
		m.objectives[o.ID()] = o
		m.order = append(m.order, o.ID())
		objs = append(objs, o)
	}

	m.uncovered.Insert(m.order...)
	for _, id := range m.policy.load(subject.CFG(), objs) {
		m.uncovered.Delete(id)
		m.current.Insert(id)
	}
	return nil
}

// Archive is the read-only view of the archive.
func (m *Manager) Archive() framework.ArchiveView {
	return m.archive
}

// HasObjectives reports whether there is anything left to search for.
func (m *Manager) HasObjectives() bool {
	return len(m.SearchObjectives()) > 0
}

func (m *Manager) CurrentObjectives() []framework.ObjectiveFunction {
	return m.list(m.current)
}

func (m *Manager) CoveredObjectives() []framework.ObjectiveFunction {
	return m.list(m.covered)
}

func (m *Manager) UncoveredObjectives() []framework.ObjectiveFunction {
	return m.list(m.uncovered)
}

// SearchObjectives are the objectives encodings are ranked on. Exception
// objectives are covered on discovery and never searched.
func (m *Manager) SearchObjectives() []framework.ObjectiveFunction {
	if !m.policy.keepCovered() {
		return m.list(m.current)
	}
	out := m.list(m.current.Union(m.covered))
	return slices.DeleteFunc(out, func(o framework.ObjectiveFunction) bool {
		return o.Kind() == framework.ExceptionObjective
	})
}

// TotalObjectives counts every known objective, exceptions included.
func (m *Manager) TotalObjectives() int {
	return len(m.order)
}

// Evaluations counts the encodings executed since Load.
func (m *Manager) Evaluations() int {
	return m.evaluations
}

func (m *Manager) list(s sets.Set[string]) []framework.ObjectiveFunction {
	out := make([]framework.ObjectiveFunction, 0, s.Len())
	for _, id := range m.order {
		if s.Has(id) {
			out = append(out, m.objectives[id])
		}
	}
	return out
}

func (m *Manager) stopped(ctx context.Context) bool {
	if ctx.Err() != nil || !m.budget.HasBudgetLeft() {
		return true
	}
	return m.termination != nil && m.termination.IsTriggered()
}

// EvaluateMany evaluates encodings in order until the budget runs out or the
// search is terminated. It returns how many were evaluated.
func (m *Manager) EvaluateMany(ctx context.Context, encodings []framework.Encoding) (int, error) {
	n := 0
	for _, e := range encodings {
		ok, err := m.EvaluateOne(ctx, e)
		if err != nil {
			return n, err
		}
		if !ok {
			break
		}
		n++
	}
	return n, nil
}

// EvaluateOne executes encoding and updates distances, objective sets and the
// archive. It reports false without executing when the budget is exhausted or
// the search was terminated.
func (m *Manager) EvaluateOne(ctx context.Context, encoding framework.Encoding) (bool, error) {
	if m.subject == nil {
		return false, ErrNotLoaded
	}
	if m.stopped(ctx) {
		return false, nil
	}

	result, err := m.runner.Execute(ctx, m.subject, encoding)
	if err != nil {
		return false, fmt.Errorf("executing encoding %s: %w", encoding.ID(), err)
	}
	m.evaluations++
	m.budget.Evaluation()
	if result.HasException() {
		result.ExceptionID = objectives.ExceptionHash(result.Exception)
	}
	encoding.SetExecutionResult(result)

	logger := klog.FromContext(ctx)
	for _, o := range m.SearchObjectives() {
		d, err := o.Distance(encoding)
		if err != nil {
			return true, fmt.Errorf("distance of %s: %w", o.ID(), err)
		}
		encoding.SetDistance(o.ID(), d)
		if d != 0 {
			continue
		}
		if m.covered.Has(o.ID()) {
			if err := m.updateArchive(o, encoding); err != nil {
				return true, err
			}
			continue
		}
		if err := m.cover(logger, o, encoding); err != nil {
			return true, err
		}
	}

	if result.HasException() {
		if err := m.coverException(logger, result.Exception, encoding); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Rescore records the distances of executed encodings for search objectives
// that became current after they were evaluated, and covers what they reach.
// Nothing is executed.
func (m *Manager) Rescore(ctx context.Context, encodings []framework.Encoding) error {
	if m.subject == nil {
		return ErrNotLoaded
	}
	logger := klog.FromContext(ctx)
	for changed := true; changed; {
		changed = false
		for _, e := range encodings {
			if e.ExecutionResult() == nil {
				continue
			}
			for _, o := range m.SearchObjectives() {
				if _, ok := e.Distance(o.ID()); ok {
					continue
				}
				d, err := o.Distance(e)
				if err != nil {
					return fmt.Errorf("distance of %s: %w", o.ID(), err)
				}
				e.SetDistance(o.ID(), d)
				if d != 0 {
					continue
				}
				if m.covered.Has(o.ID()) {
					if err := m.updateArchive(o, e); err != nil {
						return err
					}
					continue
				}
				if err := m.cover(logger, o, e); err != nil {
					return err
				}
				changed = true
			}
		}
	}
	return nil
}

// cover moves objective to the covered set, archives encoding and promotes
// the objectives it unlocks. Promoted objectives that encoding already covers
// are covered right away.
func (m *Manager) cover(logger klog.Logger, objective framework.ObjectiveFunction, encoding framework.Encoding) error {
	id := objective.ID()
	m.current.Delete(id)
	m.uncovered.Delete(id)
	m.covered.Insert(id)
	logger.V(4).Info("Objective covered", "objective", id, "encoding", encoding.ID())

	if err := m.updateArchive(objective, encoding); err != nil {
		return err
	}

	for _, child := range m.policy.children(id) {
		if m.covered.Has(child) || m.current.Has(child) {
			continue
		}
		m.uncovered.Delete(child)
		m.current.Insert(child)
		logger.V(5).Info("Objective promoted", "objective", child, "parent", id)

		o := m.objectives[child]
		d, err := o.Distance(encoding)
		if err != nil {
			return fmt.Errorf("distance of %s: %w", child, err)
		}
		encoding.SetDistance(child, d)
		if d == 0 {
			if err := m.cover(logger, o, encoding); err != nil {
				return err
			}
		}
	}
	return nil
}

// updateArchive inserts encoding for objective or lets the secondary
// objectives decide whether it replaces the archived one.
func (m *Manager) updateArchive(objective framework.ObjectiveFunction, encoding framework.Encoding) error {
	incumbent, ok := m.archive.Get(objective)
	if ok && (incumbent.ID() == encoding.ID() || !archive.Prefer(m.secondary, encoding, incumbent)) {
		return nil
	}
	if err := m.archive.Update(objective, encoding); err != nil {
		return fmt.Errorf("archiving %s: %w", objective.ID(), err)
	}
	return nil
}

// coverException archives the first encoding raising each distinct exception.
func (m *Manager) coverException(logger klog.Logger, signature string, encoding framework.Encoding) error {
	o := objectives.NewException(signature)
	id := o.ID()
	encoding.SetDistance(id, 0)
	if _, known := m.objectives[id]; known {
		return nil
	}

	m.objectives[id] = o
	m.order = append(m.order, id)
	m.covered.Insert(id)
	logger.V(4).Info("Exception found", "objective", id, "encoding", encoding.ID())
	if err := m.archive.Update(o, encoding); err != nil {
		return fmt.Errorf("archiving %s: %w", id, err)
	}
	return nil
}
