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
	"slices"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/sbst-go/sbst/pkg/search/algorithms"
	"github.com/sbst-go/sbst/pkg/search/archive"
	"github.com/sbst-go/sbst/pkg/search/objectivemanager"
)

// ValidateSearchConfiguration validates a defaulted search configuration.
func ValidateSearchConfiguration(obj runtime.Object) error {
	cfg := obj.(*SearchConfiguration)
	var allErrs field.ErrorList

	if cfg.Kind != "" && cfg.Kind != "SearchConfiguration" {
		allErrs = append(allErrs, field.Invalid(field.NewPath("kind"), cfg.Kind, "must be SearchConfiguration"))
	}
	if cfg.APIVersion != "" && cfg.APIVersion != SchemeGroupVersion.String() {
		allErrs = append(allErrs, field.Invalid(field.NewPath("apiVersion"), cfg.APIVersion, "must be "+SchemeGroupVersion.String()))
	}

	if !slices.Contains(algorithms.Names, cfg.Algorithm) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("algorithm"), cfg.Algorithm, algorithms.Names))
	}
	managerPath := field.NewPath("objectiveManager")
	if !slices.Contains(objectivemanager.Names, cfg.ObjectiveManager) {
		allErrs = append(allErrs, field.NotSupported(managerPath, cfg.ObjectiveManager, objectivemanager.Names))
	} else if cfg.Algorithm == algorithms.DynaMOSAName && cfg.ObjectiveManager != objectivemanager.StructuralManager {
		allErrs = append(allErrs, field.Invalid(managerPath, cfg.ObjectiveManager, "dynamosa needs the structural objective manager"))
	}

	if cfg.Algorithm != algorithms.RandomSearchName {
		if cfg.PopulationSize <= 0 {
			allErrs = append(allErrs, field.Invalid(field.NewPath("populationSize"), cfg.PopulationSize, "must be greater than 0"))
		}
		if cfg.TournamentSize <= 0 {
			allErrs = append(allErrs, field.Invalid(field.NewPath("tournamentSize"), cfg.TournamentSize, "must be greater than 0"))
		}
	}
	if p := cfg.CrossoverProbability; p != nil && (*p < 0 || *p > 1) {
		allErrs = append(allErrs, field.Invalid(field.NewPath("crossoverProbability"), *p, "must be between 0 and 1"))
	}
	if cfg.CrossoverPoints < 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("crossoverPoints"), cfg.CrossoverPoints, "must not be negative"))
	}

	secondary := []string{archive.LengthObjectiveName}
	for i, name := range cfg.SecondaryObjectives {
		if !slices.Contains(secondary, name) {
			allErrs = append(allErrs, field.NotSupported(field.NewPath("secondaryObjectives").Index(i), name, secondary))
		}
	}

	allErrs = append(allErrs, validateBudgets(cfg.Budgets, field.NewPath("budgets"))...)

	if cfg.SPEA2 != nil {
		path := field.NewPath("spea2")
		if cfg.SPEA2.ArchiveSize < 0 {
			allErrs = append(allErrs, field.Invalid(path.Child("archiveSize"), cfg.SPEA2.ArchiveSize, "must not be negative"))
		}
		strategies := make([]string, 0, len(algorithms.StrengthStrategies))
		for _, s := range algorithms.StrengthStrategies {
			strategies = append(strategies, string(s))
		}
		if cfg.SPEA2.Strength != "" && !slices.Contains(strategies, cfg.SPEA2.Strength) {
			allErrs = append(allErrs, field.NotSupported(path.Child("strength"), cfg.SPEA2.Strength, strategies))
		}
	}

	return allErrs.ToAggregate()
}

func validateBudgets(b Budgets, path *field.Path) field.ErrorList {
	var allErrs field.ErrorList
	if b.IsEmpty() {
		allErrs = append(allErrs, field.Required(path, "at least one budget must be set"))
	}
	counts := []struct {
		name  string
		value int
	}{
		{"iterations", b.Iterations},
		{"evaluations", b.Evaluations},
		{"stagnation", b.Stagnation},
	}
	for _, c := range counts {
		if c.value < 0 {
			allErrs = append(allErrs, field.Invalid(path.Child(c.name), c.value, "must not be negative"))
		}
	}
	if b.SearchTime != nil && b.SearchTime.Duration <= 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("searchTime"), b.SearchTime.Duration.String(), "must be positive"))
	}
	if b.TotalTime != nil && b.TotalTime.Duration <= 0 {
		allErrs = append(allErrs, field.Invalid(path.Child("totalTime"), b.TotalTime.Duration.String(), "must be positive"))
	}
	return allErrs
}
