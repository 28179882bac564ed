package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/sbst-go/sbst/pkg/api/v1alpha1"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/prng"
	"github.com/sbst-go/sbst/pkg/search/setup"
	"github.com/sbst-go/sbst/pkg/search/util"
)

// Components returns the setup components that run benchmark programs.
// listeners are added to every run.
func Components(program *Program, listeners ...framework.Listener) setup.Components {
	return setup.Components{
		Runner: Runner{},
		Sampler: func(stream *prng.Stream) framework.EncodingSampler {
			return SamplerFor(program, stream)
		},
		Crossover: func(name string, points int, stream *prng.Stream) (framework.Crossover, error) {
			c, err := NewCrossover(name, stream, points)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Listeners: listeners,
	}
}

// Result summarises the run of one subject.
type Result struct {
	Subject     string
	Algorithm   string
	Seed        uint64
	Iterations  int
	Evaluations int
	Covered     int
	Total       int
	ArchiveSize int
}

// Coverage is the covered share of the objectives.
func (r Result) Coverage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Covered) / float64(r.Total)
}

// Suite runs one search configuration over a set of subjects.
type Suite struct {
	subjects  []*Program
	config    *v1alpha1.SearchConfiguration
	listeners []framework.Listener
}

// NewSuite creates a suite for a defaulted and validated configuration.
func NewSuite(config *v1alpha1.SearchConfiguration, listeners ...framework.Listener) *Suite {
	return &Suite{
		config:    config,
		listeners: listeners,
	}
}

// AddSubject adds a subject to the suite
func (s *Suite) AddSubject(p *Program) {
	s.subjects = append(s.subjects, p)
}

// AddStandardSubjects adds every built-in subject.
func (s *Suite) AddStandardSubjects() error {
	for _, name := range SubjectNames() {
		p, err := NewSubject(name)
		if err != nil {
			return err
		}
		s.AddSubject(p)
	}
	return nil
}

// Run searches every subject in turn. When outputDir is not empty a coverage
// plot per subject is written there.
func (s *Suite) Run(ctx context.Context, outputDir string) ([]Result, error) {
	logger := klog.FromContext(ctx)
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results := make([]Result, 0, len(s.subjects))
	for _, program := range s.subjects {
		logger.V(1).Info("Running search", "algorithm", s.config.Algorithm, "subject", program.Name())

		recorder := util.NewRecorder()
		search, err := setup.Build(s.config, Components(program, append([]framework.Listener{recorder}, s.listeners...)...))
		if err != nil {
			return results, fmt.Errorf("setting up %s: %w", program.Name(), err)
		}
		archive, err := search.Algorithm.Search(ctx, program)
		if err != nil {
			return results, fmt.Errorf("searching %s: %w", program.Name(), err)
		}

		final, _ := recorder.Final()
		result := Result{
			Subject:     program.Name(),
			Algorithm:   s.config.Algorithm,
			Seed:        search.Stream.Seed(),
			Iterations:  final.Iteration,
			Evaluations: search.Manager.Evaluations(),
			Covered:     len(search.Manager.CoveredObjectives()),
			Total:       search.Manager.TotalObjectives(),
			ArchiveSize: archive.Size(),
		}
		results = append(results, result)
		logger.Info("Search finished", "subject", result.Subject, "algorithm", result.Algorithm,
			"covered", result.Covered, "total", result.Total, "coverage", fmt.Sprintf("%.2f", result.Coverage()))

		if outputDir != "" {
			plotFile := filepath.Join(outputDir, fmt.Sprintf("%s_%s_coverage.html", program.Name(), s.config.Algorithm))
			if err := util.PlotCoverage(recorder.History(), plotFile); err != nil {
				logger.Error(err, "Failed to plot coverage", "subject", program.Name())
			}
		}
	}
	return results, nil
}
