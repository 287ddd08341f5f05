// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/heursearch/pkg/logging"
	"github.com/AleutianAI/heursearch/services/config"
	"github.com/AleutianAI/heursearch/services/rdb"
	"github.com/AleutianAI/heursearch/services/search"
	"github.com/AleutianAI/heursearch/services/telemetry"
)

// run is one invocation of a strategy subcommand.
type run[S, P, U any] struct {
	driver *Driver[S, P, U]
	entry  search.Entry[S, P, U]
	flags  *globalFlags
	cmd    *cobra.Command
	stdout io.Writer
	stderr io.Writer
}

// execute performs the run.
//
// Description:
//
//	Configuration, the domain and the strategy are all prepared before
//	anything is written to stdout, so every setup failure leaves stdout
//	empty. Only the search itself lies inside the timed span.
func (r *run[S, P, U]) execute(ctx context.Context) error {
	cfg, err := r.config()
	if err != nil {
		return err
	}

	logger, err := r.logger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    r.driver.Name,
		ServiceVersion: r.driver.Version,
		TraceExporter:  cfg.Telemetry.Trace,
		Writer:         r.stderr,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	prob, attrs, err := r.driver.Load()
	if err != nil {
		return fmt.Errorf("load domain: %w", err)
	}

	opts, stratAttrs, err := r.options(cfg)
	if err != nil {
		return err
	}
	srch, err := r.entry.New(opts)
	if err != nil {
		return fmt.Errorf("%s: %w", r.entry.Name, err)
	}
	logger.Debug("strategy ready", "algorithm", r.entry.Name,
		"max_expansions", opts.Limits.MaxExpansions, "time_limit", opts.Limits.TimeLimit)

	var capture bytes.Buffer
	out := r.stdout
	if cfg.Results.Dir != "" {
		out = io.MultiWriter(r.stdout, &capture)
	}

	s0 := prob.InitialState()
	search.DfPair(out, "initial heuristic", "%g", prob.H(&s0))
	search.DfPair(out, "algorithm", "%s", r.entry.Name)

	res := r.search(ctx, srch, prob, s0)

	srch.Output(out)
	if err := r.writeSolution(out, prob, &res); err != nil {
		return err
	}
	ps := readProcStatus()
	ps.write(out)

	RecordRun(r.entry.Name, res.Found, res.Cost, res.Stats.Expanded, res.Stats.Generated,
		res.Stats.Duplicates, res.Stats.Reopened, res.Stats.Wall.Seconds())
	if path := cfg.Telemetry.MetricsFile; path != "" {
		if err := WriteMetrics(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if dir := cfg.Results.Dir; dir != "" {
		attrs = attrs.With("alg", r.entry.Name)
		for _, a := range stratAttrs {
			attrs = attrs.With(a.Key, a.Value)
		}
		if err := store(ctx, dir, attrs, &capture, logger); err != nil {
			return err
		}
	}

	logger.Info("search finished",
		"algorithm", r.entry.Name,
		"found", res.Found,
		"cost", res.Cost,
		"expanded", humanize.Comma(res.Stats.Expanded),
		"wall", res.Stats.Wall,
		"max_rss", humanize.IBytes(uint64(ps.MaxRSS)*1024))
	return nil
}

// config loads the configuration file and applies flag overrides.
func (r *run[S, P, U]) config() (config.Config, error) {
	cfg, err := config.Load(r.flags.config)
	if err != nil {
		return cfg, err
	}

	f := r.cmd.Flags()
	if f.Changed("max-expansions") {
		cfg.Limits.MaxExpansions = r.flags.maxExpansions
	}
	if f.Changed("time-limit") {
		cfg.Limits.TimeLimit = r.flags.timeLimit
	}
	if f.Changed("trace") {
		cfg.Telemetry.Trace = r.flags.trace
	}
	if f.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = r.flags.metricsFile
	}
	if f.Changed("rdb") {
		cfg.Results.Dir = r.flags.rdbDir
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = r.flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.Logging.Format = r.flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (r *run[S, P, U]) logger(cfg config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:   level,
		Format:  format,
		Output:  r.stderr,
		LogDir:  cfg.Logging.Dir,
		Service: r.driver.Name,
	}), nil
}

// options merges the configured defaults with the strategy's own flags.
//
// Outputs:
//   - search.Options: The options for the strategy constructor.
//   - rdb.Attrs: Every strategy-specific option, set or defaulted.
//   - error: Non-nil if a flag value cannot be applied.
func (r *run[S, P, U]) options(cfg config.Config) (search.Options, rdb.Attrs, error) {
	o := cfg.SearchOptions()
	if r.entry.Flags == nil {
		return o, nil, nil
	}

	// The subcommand's flags were bound to throwaway defaults before the
	// configuration was known; replay the ones given on top of o.
	fs := pflag.NewFlagSet(r.entry.Name, pflag.ContinueOnError)
	r.entry.Flags(fs, &o)
	var err error
	r.cmd.Flags().Visit(func(f *pflag.Flag) {
		if nf := fs.Lookup(f.Name); nf != nil && err == nil {
			err = nf.Value.Set(f.Value.String())
		}
	})
	if err != nil {
		return o, nil, fmt.Errorf("%s: %w", r.entry.Name, err)
	}

	var attrs rdb.Attrs
	fs.VisitAll(func(f *pflag.Flag) {
		attrs = attrs.With(f.Name, f.Value.String())
	})
	return o, attrs, nil
}

// search runs the strategy inside a span.
func (r *run[S, P, U]) search(ctx context.Context, srch search.Search[S, P, U], prob Problem[S, P, U], s0 S) search.Result[S] {
	_, span := telemetry.StartSpan(ctx, "search."+r.entry.Name,
		trace.WithAttributes(attribute.String("search.algorithm", r.entry.Name)))
	defer span.End()

	res := srch.Search(prob, s0)

	telemetry.SetSpanAttributes(span,
		attribute.Bool("search.found", res.Found),
		attribute.Float64("search.cost", res.Cost),
		attribute.Int64("search.expanded", res.Stats.Expanded),
		attribute.Int64("search.generated", res.Stats.Generated),
		attribute.Int("search.solution_length", len(res.Path)),
	)
	if !res.Found {
		telemetry.AddSpanEvent(span, "no solution")
	}
	telemetry.SetSpanOK(span)
	return res
}

// writeSolution writes the controls line, the solution length and the
// dump of every solution state.
func (r *run[S, P, U]) writeSolution(w io.Writer, prob Problem[S, P, U], res *search.Result[S]) error {
	if res.Found && r.driver.Controls != nil {
		ctl, err := r.driver.Controls(res.Ops)
		if err != nil {
			return fmt.Errorf("encode controls: %w", err)
		}
		search.DfPair(w, "controls", "%s", ctl)
	}
	search.DfPair(w, "solution length", "%d", len(res.Path))
	for i := range res.Path {
		prob.Dump(w, &res.Path[i])
	}
	return nil
}

// store saves the run's diagnostics in the results database at dir.
func store(ctx context.Context, dir string, attrs rdb.Attrs, diag io.Reader, logger *logging.Logger) error {
	pairs, err := rdb.ParsePairs(diag)
	if err != nil {
		return fmt.Errorf("read diagnostics: %w", err)
	}

	cfg := rdb.DefaultConfig(dir)
	cfg.Logger = logger.Slog()
	st, err := rdb.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Put(ctx, attrs, pairs)
	if err != nil {
		return err
	}
	logger.Info("run stored", "id", rec.ID, "path", rdb.PathFor(dir, attrs))
	return nil
}
