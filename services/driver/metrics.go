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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for Search Runs
// =============================================================================

var (
	// searchRuns counts completed runs.
	// Labels: algorithm, outcome (solved, unsolved)
	searchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heursearch",
		Subsystem: "search",
		Name:      "runs_total",
		Help:      "Total search runs by outcome",
	}, []string{"algorithm", "outcome"})

	// searchNodes counts node events.
	// Labels: algorithm, event (expanded, generated, duplicate, reopened)
	searchNodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heursearch",
		Subsystem: "search",
		Name:      "nodes_total",
		Help:      "Total search nodes by event",
	}, []string{"algorithm", "event"})

	// searchDuration measures search wall time, excluding I/O.
	// Labels: algorithm
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heursearch",
		Subsystem: "search",
		Name:      "duration_seconds",
		Help:      "Search wall time in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"algorithm"})

	// solutionCost tracks the cost of the last solution found.
	// Labels: algorithm
	solutionCost = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "heursearch",
		Subsystem: "search",
		Name:      "solution_cost",
		Help:      "Cost of the most recent solution",
	}, []string{"algorithm"})
)

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordRun records the outcome and effort of one run.
//
// Inputs:
//
//	algorithm - The strategy name.
//	found - Whether a solution was found.
//	cost - The solution cost; ignored when found is false.
//	expanded, generated, duplicates, reopened - The node counters.
//	durationSec - Search wall time in seconds.
func RecordRun(algorithm string, found bool, cost float64, expanded, generated, duplicates, reopened int64, durationSec float64) {
	outcome := "unsolved"
	if found {
		outcome = "solved"
		solutionCost.WithLabelValues(algorithm).Set(cost)
	}
	searchRuns.WithLabelValues(algorithm, outcome).Inc()
	searchNodes.WithLabelValues(algorithm, "expanded").Add(float64(expanded))
	searchNodes.WithLabelValues(algorithm, "generated").Add(float64(generated))
	searchNodes.WithLabelValues(algorithm, "duplicate").Add(float64(duplicates))
	searchNodes.WithLabelValues(algorithm, "reopened").Add(float64(reopened))
	searchDuration.WithLabelValues(algorithm).Observe(durationSec)
}

// WriteMetrics writes every registered metric to path in the Prometheus
// text format, for collection by a node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
