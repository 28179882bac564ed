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
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/sbst-go/sbst/pkg/search/algorithms"
	"github.com/sbst-go/sbst/pkg/search/archive"
)

const (
	DefaultAlgorithm            = algorithms.DynaMOSAName
	DefaultPopulationSize       = 50
	DefaultCrossoverProbability = 0.8
	DefaultTournamentSize       = 2
	DefaultCrossover            = "uniform"
	DefaultCrossoverPoints      = 2
	DefaultIterations           = 100
)

func addDefaultingFuncs(scheme *runtime.Scheme) error {
	return RegisterDefaults(scheme)
}

func RegisterDefaults(scheme *runtime.Scheme) error {
	klog.V(5).InfoS("Registering defaults", "kind", "SearchConfiguration")
	scheme.AddTypeDefaultingFunc(&SearchConfiguration{}, func(obj interface{}) {
		SetDefaults_SearchConfiguration(obj.(*SearchConfiguration))
	})
	return nil
}

func SetDefaults_SearchConfiguration(obj runtime.Object) {
	cfg := obj.(*SearchConfiguration)

	if cfg.Algorithm == "" {
		cfg.Algorithm = DefaultAlgorithm
	}
	if cfg.ObjectiveManager == "" {
		cfg.ObjectiveManager = algorithms.DefaultObjectiveManager(cfg.Algorithm)
	}
	if cfg.PopulationSize == 0 {
		cfg.PopulationSize = DefaultPopulationSize
	}
	if cfg.CrossoverProbability == nil {
		cfg.CrossoverProbability = ptr.To(DefaultCrossoverProbability)
	}
	if cfg.TournamentSize == 0 {
		cfg.TournamentSize = DefaultTournamentSize
	}
	if cfg.Crossover == "" {
		cfg.Crossover = DefaultCrossover
	}
	if cfg.CrossoverPoints == 0 {
		cfg.CrossoverPoints = DefaultCrossoverPoints
	}
	if cfg.SecondaryObjectives == nil {
		cfg.SecondaryObjectives = []string{archive.LengthObjectiveName}
	}
	if cfg.Budgets.IsEmpty() {
		cfg.Budgets.Iterations = DefaultIterations
	}
	if cfg.Algorithm == algorithms.SPEA2Name {
		if cfg.SPEA2 == nil {
			cfg.SPEA2 = &SPEA2Args{}
		}
		if cfg.SPEA2.ArchiveSize == 0 {
			cfg.SPEA2.ArchiveSize = cfg.PopulationSize
		}
		if cfg.SPEA2.Strength == "" {
			cfg.SPEA2.Strength = string(algorithms.StrengthClassic)
		}
	}
}
