/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// SearchConfiguration selects and tunes the search run against a subject.
type SearchConfiguration struct {
	metav1.TypeMeta `json:",inline"`

	// Algorithm is one of random, nsga2, mosa, dynamosa or spea2.
	Algorithm string `json:"algorithm,omitempty"`

	// ObjectiveManager is one of simple, uncovered or structural. When empty
	// the algorithm picks the manager it was designed for.
	ObjectiveManager string `json:"objectiveManager,omitempty"`

	// Seed of the random stream. A run without a seed draws one.
	Seed *uint64 `json:"seed,omitempty"`

	PopulationSize       int      `json:"populationSize,omitempty"`
	CrossoverProbability *float64 `json:"crossoverProbability,omitempty"`
	TournamentSize       int      `json:"tournamentSize,omitempty"`

	// Crossover is one of one-point, two-point, uniform or k-point.
	Crossover string `json:"crossover,omitempty"`
	// CrossoverPoints is the number of cut points of the k-point crossover.
	CrossoverPoints int `json:"crossoverPoints,omitempty"`

	// SecondaryObjectives are consulted in order when an archived encoding
	// is challenged by another covering encoding.
	SecondaryObjectives []string `json:"secondaryObjectives,omitempty"`

	Budgets Budgets `json:"budgets,omitempty"`

	SPEA2 *SPEA2Args `json:"spea2,omitempty"`
}

// Budgets limit the run. Every set budget must have remaining capacity for
// the search to continue.
type Budgets struct {
	Iterations  int              `json:"iterations,omitempty"`
	Evaluations int              `json:"evaluations,omitempty"`
	SearchTime  *metav1.Duration `json:"searchTime,omitempty"`
	TotalTime   *metav1.Duration `json:"totalTime,omitempty"`
	// Stagnation stops the search after this many iterations without new
	// coverage.
	Stagnation int `json:"stagnation,omitempty"`
}

// SPEA2Args tune the strength Pareto algorithm.
type SPEA2Args struct {
	// ArchiveSize defaults to the population size.
	ArchiveSize int `json:"archiveSize,omitempty"`
	// Strength is one of classic, count, objective-wise, uncovered or preference.
	Strength string `json:"strength,omitempty"`
}

// IsEmpty reports whether no budget is set.
func (b Budgets) IsEmpty() bool {
	return b.Iterations == 0 && b.Evaluations == 0 && b.SearchTime == nil && b.TotalTime == nil && b.Stagnation == 0
}
