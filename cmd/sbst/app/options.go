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
	"github.com/spf13/pflag"
)

// RunOptions are the flags of the run command.
type RunOptions struct {
	Subject      string
	ConfigFile   string
	PlotFile     string
	MetricsAddr  string
	OTLPEndpoint string
	Seed         uint64
	Runs         int
}

// NewRunOptions returns the options with their defaults.
func NewRunOptions() *RunOptions {
	return &RunOptions{
		Subject: "triangle",
		Runs:    1,
	}
}

// AddFlags adds flags for the run command to the specified FlagSet.
func (o *RunOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Subject, "subject", o.Subject, "Built-in subject to search, or \"all\".")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a SearchConfiguration file. Defaults are used when empty.")
	fs.StringVar(&o.PlotFile, "plot", o.PlotFile, "Write an HTML report with coverage and objective-space charts to this file.")
	fs.StringVar(&o.MetricsAddr, "metrics-addr", o.MetricsAddr, "Serve prometheus metrics on this address, e.g. :9090.")
	fs.StringVar(&o.OTLPEndpoint, "otlp-endpoint", o.OTLPEndpoint, "Export traces to this OTLP gRPC endpoint, e.g. localhost:4317.")
	fs.IntVar(&o.Runs, "runs", o.Runs, "Search every subject this many times and merge the archives. Configured seeds are incremented per run.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Seed of the random stream. Overrides the configuration when set.")
}
