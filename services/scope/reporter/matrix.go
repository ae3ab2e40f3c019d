// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package reporter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/apiscope/apiscope/services/scope/feature"
	"github.com/apiscope/apiscope/services/scope/matcher"
	"github.com/apiscope/apiscope/services/scope/stats"
)

// supportRow is one correspondence in the N-way global feature table: the
// same logical feature tracked across registries. cells maps registry index
// to that registry's contribution.
type supportRow struct {
	module string
	cells  map[int]*feature.Feature
}

// earliest returns the feature from the lowest-indexed registry present in
// the row. It acts as the row's representative in later matching passes.
func (r *supportRow) earliest() *feature.Feature {
	best := -1
	for idx := range r.cells {
		if best < 0 || idx < best {
			best = idx
		}
	}
	return r.cells[best]
}

// generateMatrix renders the N-way report: a pairwise grand-Jaccard matrix
// between every registry pair, plus per-module global feature-support
// tables built incrementally with registry 0 as the anchor.
func (g *Generator) generateMatrix(ctx context.Context) (*Result, error) {
	n := len(g.registries)

	// (a) Pairwise parity. Every pair is reconciled and strict-matched
	// independently; the near-miss pass plays no part here.
	pairwise := make([][]float64, n)
	for i := range pairwise {
		pairwise[i] = make([]float64, n)
		pairwise[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			score := g.pairwiseParity(g.registries[i], g.registries[j])
			pairwise[i][j] = score
			pairwise[j][i] = score
		}
	}

	// (b) Global support table, anchored on registry 0.
	rows := g.buildSupportRows()

	lines := []string{
		"# N-Way Feature Support Matrix",
		"Date: " + time.Now().Format("2006-01-02 15:04:05"),
		"",
		"## Registries",
		"| # | Ecosystem | Version | Features |",
		"| :--- | :--- | :--- | :--- |",
	}
	for i, reg := range g.registries {
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %d |",
			i, reg.EcosystemName(), reg.Version, len(reg.Features)))
	}

	header := "|  |"
	divider := "| :--- |"
	for _, reg := range g.registries {
		header += " " + reg.EcosystemName() + " |"
		divider += " :--- |"
	}
	lines = append(lines, "", "## Pairwise Parity (Jaccard)", header, divider)
	for i, reg := range g.registries {
		row := fmt.Sprintf("| **%s** |", reg.EcosystemName())
		for j := 0; j < n; j++ {
			row += fmt.Sprintf(" %.2f |", pairwise[i][j])
		}
		lines = append(lines, row)
	}

	// Group correspondence rows per module, preserving build order.
	byModule := make(map[string][]*supportRow)
	for _, row := range rows {
		byModule[row.module] = append(byModule[row.module], row)
	}
	moduleNames := make([]string, 0, len(byModule))
	for name := range byModule {
		moduleNames = append(moduleNames, name)
	}
	sort.Strings(moduleNames)

	lines = append(lines, "", "## Modules",
		"| Module | Correspondences | Details |",
		"| :--- | :--- | :--- |",
	)
	moduleFiles := make(map[string]string, len(moduleNames))
	for _, name := range moduleNames {
		filename := moduleFilename(name)
		lines = append(lines, fmt.Sprintf("| `%s` | %d | [View Details](%s/%s) |",
			name, len(byModule[name]), ModulesDirToken, filename))
		moduleFiles[filename] = g.supportTable(name, byModule[name])
	}

	g.logger.Info("matrix report generated",
		"registries", n,
		"modules", len(moduleNames),
		"correspondences", len(rows),
	)
	return &Result{
		Master:      strings.TrimSpace(strings.Join(lines, "\n")),
		ModuleFiles: moduleFiles,
	}, nil
}

// pairwiseParity reconciles and strict-matches one registry pair and
// returns the grand Jaccard over registry-level totals.
func (g *Generator) pairwiseParity(base, target *feature.Registry) float64 {
	baseBuckets := matcher.GroupByModule(base)
	targetBuckets := matcher.ReconcileNamespaces(baseBuckets, matcher.GroupByModule(target))

	solid := 0
	for _, name := range moduleUnion(baseBuckets, targetBuckets) {
		matches, _, _ := g.matcher.Match(baseBuckets[name], targetBuckets[name], g.alpha)
		solid += len(matches)
	}
	return stats.Jaccard(solid, len(base.Features), len(target.Features))
}

// buildSupportRows constructs the global correspondence table.
//
// # Description
//
// Every anchor (registry 0) feature starts a row. For each subsequent
// registry k, existing rows are grouped by the module of their
// earliest-known representative, registry k's modules are reconciled onto
// those keys, and one strict pass per module matches representatives
// against registry k's features. Matches land in their row's k column;
// every unmatched registry-k feature starts a new row, so later registries
// can still line up against features the anchor lacks.
func (g *Generator) buildSupportRows() []*supportRow {
	anchorBuckets := matcher.GroupByModule(g.registries[0])
	anchorModules := make([]string, 0, len(anchorBuckets))
	for name := range anchorBuckets {
		anchorModules = append(anchorModules, name)
	}
	sort.Strings(anchorModules)

	var rows []*supportRow
	for _, name := range anchorModules {
		for _, f := range anchorBuckets[name] {
			rows = append(rows, &supportRow{
				module: name,
				cells:  map[int]*feature.Feature{0: f},
			})
		}
	}

	for k := 1; k < len(g.registries); k++ {
		// Snapshot representatives before this pass; rows added below only
		// participate from registry k+1 onward.
		rowOf := make(map[*feature.Feature]*supportRow, len(rows))
		repBuckets := make(map[string][]*feature.Feature)
		for _, row := range rows {
			rep := row.earliest()
			rowOf[rep] = row
			repBuckets[row.module] = append(repBuckets[row.module], rep)
		}

		targetBuckets := matcher.ReconcileNamespaces(repBuckets, matcher.GroupByModule(g.registries[k]))

		for _, name := range moduleUnion(repBuckets, targetBuckets) {
			matches, _, leftTarget := g.matcher.Match(repBuckets[name], targetBuckets[name], g.alpha)
			for _, m := range matches {
				rowOf[m.Base].cells[k] = m.Target
			}
			for _, f := range leftTarget {
				rows = append(rows, &supportRow{
					module: name,
					cells:  map[int]*feature.Feature{k: f},
				})
			}
		}
	}

	return rows
}

// supportTable renders one module's correspondence table: one row per
// correspondence, one presence column per registry.
func (g *Generator) supportTable(module string, rows []*supportRow) string {
	lines := []string{
		fmt.Sprintf("# Module: `%s`", module),
		fmt.Sprintf("[⬅️ Back to Master Report](../%s)", MasterReportToken),
		"",
	}

	header := "| Feature |"
	divider := "| :--- |"
	for _, reg := range g.registries {
		header += " " + reg.EcosystemName() + " |"
		divider += " :---: |"
	}
	lines = append(lines, header, divider)

	for _, row := range rows {
		cells := "| " + featureCell(row.earliest()) + " |"
		for idx := range g.registries {
			if _, ok := row.cells[idx]; ok {
				cells += " ✅ |"
			} else {
				cells += " ❌ |"
			}
		}
		lines = append(lines, cells)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
