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

// Package app implements the sbst command line.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/sbst-go/sbst/pkg/api/v1alpha1"
	"github.com/sbst-go/sbst/pkg/search/archive"
	"github.com/sbst-go/sbst/pkg/search/benchmarks"
	"github.com/sbst-go/sbst/pkg/search/framework"
	"github.com/sbst-go/sbst/pkg/search/metrics"
	"github.com/sbst-go/sbst/pkg/search/setup"
	"github.com/sbst-go/sbst/pkg/search/termination"
	"github.com/sbst-go/sbst/pkg/search/tracing"
	"github.com/sbst-go/sbst/pkg/search/util"
)

// NewSbstCommand creates the root command with its sub commands.
func NewSbstCommand(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sbst",
		Short: "sbst generates tests by searching for inputs that cover a subject",
		Long: `sbst evolves inputs for a subject with multi-objective search
algorithms until every coverage objective is met or a budget runs out.`,
		SilenceUsage: true,
	}
	cmd.SetOut(out)

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(NewRunCommand(out), NewSubjectsCommand(out))
	return cmd
}

// NewSubjectsCommand lists the built-in subjects.
func NewSubjectsCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List the built-in subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range benchmarks.SubjectNames() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

// NewRunCommand searches one or all built-in subjects.
func NewRunCommand(out io.Writer) *cobra.Command {
	o := NewRunOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search a built-in subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := v1alpha1.Load(o.ConfigFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = ptr.To(o.Seed)
			}
			return Run(cmd.Context(), o, cfg, out)
		},
	}
	o.AddFlags(cmd.Flags())
	return cmd
}

// Run executes the search described by cfg for the subjects selected in o.
func Run(ctx context.Context, o *RunOptions, cfg *v1alpha1.SearchConfiguration, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := klog.FromContext(ctx)

	subjects := []string{o.Subject}
	if o.Subject == "all" {
		subjects = benchmarks.SubjectNames()
	}
	programs := make([]*benchmarks.Program, 0, len(subjects))
	for _, name := range subjects {
		p, err := benchmarks.NewSubject(name)
		if err != nil {
			return err
		}
		programs = append(programs, p)
	}

	stop := termination.NewSignalTrigger(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop.Stop()

	var listeners []framework.Listener
	if o.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		listeners = append(listeners, metrics.NewListener(reg))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		server := &http.Server{Addr: o.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(err, "Metrics server failed", "address", o.MetricsAddr)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		logger.V(1).Info("Serving metrics", "address", o.MetricsAddr)
	}

	if o.OTLPEndpoint != "" {
		tp, err := newTracerProvider(ctx, o.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error(err, "Failed to flush traces")
			}
		}()
		listeners = append(listeners, tracing.NewListener(tp))
	} else {
		listeners = append(listeners, tracing.NewListener(noop.NewTracerProvider()))
	}

	runs := max(1, o.Runs)
	var report []reportEntry
subjects:
	for _, program := range programs {
		merged := archive.New()
		for run := 0; run < runs; run++ {
			runCfg := cfg.DeepCopy()
			if cfg.Seed != nil {
				runCfg.Seed = ptr.To(*cfg.Seed + uint64(run))
			}

			recorder := util.NewRecorder()
			components := benchmarks.Components(program, append([]framework.Listener{recorder}, listeners...)...)
			components.Termination = stop

			search, err := setup.Build(runCfg, components)
			if err != nil {
				return err
			}
			result, err := search.Algorithm.Search(ctx, program)
			if err != nil {
				return fmt.Errorf("searching %s: %w", program.Name(), err)
			}
			if err := merged.Merge(result); err != nil {
				return fmt.Errorf("merging archives of %s: %w", program.Name(), err)
			}

			fmt.Fprintf(out, "%s: %s covered %d of %d objectives (seed %d)\n",
				program.Name(), cfg.Algorithm, result.Size(), search.Manager.TotalObjectives(), search.Stream.Seed())
			report = append(report, reportEntry{
				history:    recorder.History(),
				algorithm:  search.Algorithm,
				objectives: program.Objectives(),
			})

			if stop.IsTriggered() {
				logger.Info("Search interrupted", "subject", program.Name(), "run", run+1)
				printArchive(out, merged)
				break subjects
			}
		}
		if runs > 1 {
			fmt.Fprintf(out, "%s: %d runs covered %d objectives together\n", program.Name(), runs, merged.Size())
		}
		printArchive(out, merged)
	}

	if o.PlotFile != "" {
		if err := writeReport(o.PlotFile, report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.V(1).Info("Report written", "path", o.PlotFile)
	}
	return nil
}

// printArchive lists every covered objective with the input that covers it.
func printArchive(out io.Writer, view framework.ArchiveView) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OBJECTIVE\tINPUT\tOUTCOME")
	for _, o := range view.Objectives() {
		e, _ := view.Get(o)
		input := "?"
		if v, ok := e.(*benchmarks.VectorEncoding); ok {
			input = fmt.Sprint(v.Values())
		}
		outcome := "passed"
		if r := e.ExecutionResult(); r != nil && r.HasException() {
			outcome = "raised " + r.Exception
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.ID(), input, outcome)
	}
	_ = w.Flush()
}
