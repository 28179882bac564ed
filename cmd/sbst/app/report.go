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

package app

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/components"
	"k8s.io/klog/v2"

	"github.com/sbst-go/sbst/pkg/search/algorithms"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/util"
)

type reportEntry struct {
	history    []framework.SearchProgress
	algorithm  framework.Algorithm
	objectives []framework.ObjectiveFunction
}

// populationHolder is implemented by algorithms that keep a population
// between iterations.
type populationHolder interface {
	Population() []framework.Encoding
}

// writeReport renders the coverage of every run, and where the algorithm keeps
// a population, the first front of the final population over the first two
// objectives.
func writeReport(path string, entries []reportEntry) error {
	var charts []components.Charter
	for _, entry := range entries {
		line, err := util.CoverageChart(entry.history)
		if err != nil {
			klog.V(2).InfoS("Skipping coverage chart", "algorithm", entry.algorithm.Name(), "err", err)
			continue
		}
		charts = append(charts, line)

		holder, ok := entry.algorithm.(populationHolder)
		if !ok || len(entry.objectives) < 2 {
			continue
		}
		x, y := entry.objectives[0], entry.objectives[1]
		points, err := algorithms.ParetoFront(holder.Population(), []framework.ObjectiveFunction{x, y})
		if err != nil {
			return err
		}
		title := fmt.Sprintf("%s Pareto front of %s", entry.algorithm.Name(), entry.history[0].Subject)
		scatter, err := util.ObjectiveSpaceChart(points, x.ID(), y.ID(), title)
		if err != nil {
			continue
		}
		charts = append(charts, scatter)
	}
	if len(charts) == 0 {
		return util.ErrNothingToPlot
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return util.RenderPage(f, charts...)
}
