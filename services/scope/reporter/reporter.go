// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package reporter orchestrates feature matching and renders parity reports.
//
// # Description
//
// Given two or more loaded registries, the reporter groups features into
// module buckets, reconciles namespaces, runs the two-pass (strict then
// lenient) optimal matching per module, aggregates global metrics, and
// renders one of four encodings:
//
//   - symmetric: Markdown master + per-module bodies, Jaccard parity
//   - directional: Markdown master + per-module bodies, precision/recall/F1
//   - raw: one CSV record per match and per unmatched feature
//   - matrix: N-way pairwise parity matrix + global feature-support tables
//
// Markdown bodies carry literal placeholder tokens ({modules_dir} in the
// master, {master_report} in module bodies); substituting them is the file
// writer's concern.
//
// # Concurrency
//
// Module buckets are independent once reconciliation has completed, so
// per-module matching fans out on an errgroup and joins before any global
// aggregation. The reporter itself holds no shared mutable state.
package reporter

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/apiscope/apiscope/pkg/logging"
	"github.com/apiscope/apiscope/services/scope/feature"
	"github.com/apiscope/apiscope/services/scope/matcher"
	"github.com/apiscope/apiscope/services/scope/stats"
)

// nearMissDelta is subtracted from alpha for the lenient second pass that
// collects near-miss "potential" matches among strict leftovers.
const nearMissDelta = 0.15

// Placeholder tokens left in rendered bodies for the file-writing caller.
const (
	// ModulesDirToken marks where the modules directory name belongs in the
	// master report.
	ModulesDirToken = "{modules_dir}"

	// MasterReportToken marks where the master report filename belongs in a
	// module body.
	MasterReportToken = "{master_report}"
)

// =============================================================================
// Format
// =============================================================================

// Format selects the report encoding.
type Format string

const (
	// FormatSymmetric is the Markdown Jaccard parity report.
	FormatSymmetric Format = "md"

	// FormatDirectional is the Markdown precision/recall/F1 report.
	FormatDirectional Format = "f1"

	// FormatRaw is the flat CSV dump of every match and unmatched feature.
	FormatRaw Format = "raw"

	// FormatMatrix is the N-way support matrix report.
	FormatMatrix Format = "matrix"
)

// ParseFormat maps a CLI selector to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSymmetric, FormatDirectional, FormatRaw, FormatMatrix:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// =============================================================================
// Result
// =============================================================================

// Result is one rendered report: the master body plus, for Markdown
// formats, per-module report filename to body text.
type Result struct {
	// Master is the master report body. It may contain ModulesDirToken.
	Master string

	// ModuleFiles maps module report filenames to bodies. Bodies may
	// contain MasterReportToken. Empty for the raw format.
	ModuleFiles map[string]string
}

// =============================================================================
// Generator
// =============================================================================

// Generator runs the matching pipeline over a fixed set of registries.
type Generator struct {
	registries []*feature.Registry
	alpha      float64
	matcher    *matcher.Matcher
	logger     *logging.Logger
}

// New creates a Generator.
//
// Inputs:
//
//	registries - Two or more loaded registries. The first is the base (and,
//	             for the matrix format, the anchor).
//	alpha - Strict similarity threshold, in (0,1].
//	logger - Structured logger; nil falls back to logging.Default().
//
// Outputs:
//
//	*Generator - Ready to Generate.
//	error - Non-nil when alpha is out of range or fewer than two
//	        registries are supplied.
func New(registries []*feature.Registry, alpha float64, logger *logging.Logger) (*Generator, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: alpha %v not in (0,1]", ErrInvalidThreshold, alpha)
	}
	if len(registries) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrRegistryCount, len(registries))
	}
	for i, reg := range registries {
		if reg == nil {
			return nil, fmt.Errorf("%w: registry %d is nil", ErrRegistryCount, i)
		}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{
		registries: registries,
		alpha:      alpha,
		matcher:    matcher.New(),
		logger:     logger.With("run_id", uuid.NewString()),
	}, nil
}

// Generate renders the report in the requested format.
//
// Registry count requirements are checked before any matching work: the
// pairwise formats need exactly two registries, the matrix format two or
// more (spec'd as a configuration error, not a matching failure).
func (g *Generator) Generate(ctx context.Context, format Format) (*Result, error) {
	switch format {
	case FormatSymmetric, FormatDirectional, FormatRaw:
		if len(g.registries) != 2 {
			return nil, fmt.Errorf("%w: %s format requires exactly 2 registries, got %d",
				ErrRegistryCount, format, len(g.registries))
		}
	case FormatMatrix:
		// Construction already guarantees >= 2.
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	g.logger.Info("generating report",
		"format", string(format),
		"alpha", g.alpha,
		"registries", len(g.registries),
	)

	switch format {
	case FormatSymmetric:
		return g.generateSymmetric(ctx)
	case FormatDirectional:
		return g.generateDirectional(ctx)
	case FormatRaw:
		return g.generateRaw(ctx)
	default:
		return g.generateMatrix(ctx)
	}
}

// =============================================================================
// Per-module pipeline
// =============================================================================

// moduleResult is the outcome of the two matching passes over one module.
type moduleResult struct {
	name        string
	baseCount   int // original per-module size, before any pass
	targetCount int

	solid           []matcher.Match
	potential       []matcher.Match
	unmatchedBase   []*feature.Feature
	unmatchedTarget []*feature.Feature
}

// jaccard is the symmetric per-module score |solid| / (base+target-|solid|).
func (r *moduleResult) jaccard() float64 {
	return stats.Jaccard(len(r.solid), r.baseCount, r.targetCount)
}

// precision, recall and f1 are the directional per-module scores.
func (r *moduleResult) precision() float64 {
	return stats.Precision(len(r.solid), r.targetCount)
}

func (r *moduleResult) recall() float64 {
	return stats.Recall(len(r.solid), r.baseCount)
}

func (r *moduleResult) f1() float64 {
	return stats.F1(r.precision(), r.recall())
}

// processPair runs the full pairwise pipeline between the two registries:
// grouping, reconciliation, then per-module two-pass matching.
//
// Reconciliation completes before any module is matched (it decides which
// features land in which bucket), and the errgroup join guarantees every
// module result is in place before callers aggregate global scores.
// Results come back sorted by module name.
func (g *Generator) processPair(ctx context.Context) ([]moduleResult, error) {
	baseBuckets := matcher.GroupByModule(g.registries[0])
	targetBuckets := matcher.ReconcileNamespaces(baseBuckets, matcher.GroupByModule(g.registries[1]))

	names := moduleUnion(baseBuckets, targetBuckets)
	results := make([]moduleResult, len(names))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for idx, name := range names {
		idx, name := idx, name
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			results[idx] = g.processModule(name, baseBuckets[name], targetBuckets[name])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("process modules: %w", err)
	}
	return results, nil
}

// processModule runs the strict pass at alpha, then the lenient pass at
// beta = max(0, alpha-0.15) on the strict leftovers. Whatever survives both
// passes is unmatched in either direction.
func (g *Generator) processModule(name string, base, target []*feature.Feature) moduleResult {
	result := moduleResult{
		name:        name,
		baseCount:   len(base),
		targetCount: len(target),
	}

	var leftBase, leftTarget []*feature.Feature
	result.solid, leftBase, leftTarget = g.matcher.Match(base, target, g.alpha)

	beta := g.alpha - nearMissDelta
	if beta < 0 {
		beta = 0
	}
	result.potential, result.unmatchedBase, result.unmatchedTarget =
		g.matcher.Match(leftBase, leftTarget, beta)

	g.logger.Debug("module matched",
		"module", name,
		"base", result.baseCount,
		"target", result.targetCount,
		"solid", len(result.solid),
		"potential", len(result.potential),
	)
	return result
}

// moduleUnion returns the sorted union of bucket keys from both sides.
func moduleUnion(base, target map[string][]*feature.Feature) []string {
	seen := make(map[string]struct{}, len(base)+len(target))
	for k := range base {
		seen[k] = struct{}{}
	}
	for k := range target {
		seen[k] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// sortForDisplay orders matches by (kind priority, normalized base name).
// Solver order is deliberately unsorted; display ordering happens here, at
// the report layer.
func sortForDisplay(matches []matcher.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		pi := matches[i].Base.Kind.DisplayPriority()
		pj := matches[j].Base.Kind.DisplayPriority()
		if pi != pj {
			return pi < pj
		}
		return matches[i].Base.NormalizedName < matches[j].Base.NormalizedName
	})
}
