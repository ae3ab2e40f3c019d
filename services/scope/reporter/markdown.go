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
	"github.com/apiscope/apiscope/services/scope/stats"
)

// Status icon thresholds for module rows: full parity, close, gap.
func statusIcon(score float64) string {
	switch {
	case score == 1.0:
		return "✅"
	case score >= 0.8:
		return "⚠️"
	default:
		return "❌"
	}
}

// moduleFilename maps a module key to its report filename
// ("agents.memory" -> "agents_memory.md").
func moduleFilename(module string) string {
	return strings.ReplaceAll(module, ".", "_") + ".md"
}

// percent renders a [0,1] score as "93.75%".
func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// featureCell renders a feature as an inline-code qualified name.
func featureCell(f *feature.Feature) string {
	return "`" + f.DisplayName() + "`"
}

// sidesCell lists the ecosystem codes present in a module ("py, ts").
func sidesCell(r *moduleResult, baseCode, targetCode string) string {
	var parts []string
	if r.baseCount > 0 {
		parts = append(parts, baseCode)
	}
	if r.targetCount > 0 {
		parts = append(parts, targetCode)
	}
	return strings.Join(parts, ", ")
}

// reportHeader renders the shared master preamble: title, date, role table.
func (g *Generator) reportHeader(title string) []string {
	base, target := g.registries[0], g.registries[1]
	return []string{
		"# " + title,
		"Date: " + time.Now().Format("2006-01-02 15:04:05"),
		"",
		"| Role | Ecosystem | Version |",
		"| :--- | :--- | :--- |",
		fmt.Sprintf("| **Base** | %s | %s |", base.EcosystemName(), base.Version),
		fmt.Sprintf("| **Target** | %s | %s |", target.EcosystemName(), target.Version),
		"",
	}
}

// =============================================================================
// Symmetric (Jaccard) report
// =============================================================================

// generateSymmetric renders the Markdown Jaccard parity report: a master
// with a per-module summary table plus one detail body per module.
func (g *Generator) generateSymmetric(ctx context.Context) (*Result, error) {
	results, err := g.processPair(ctx)
	if err != nil {
		return nil, err
	}

	base, target := g.registries[0], g.registries[1]
	lines := g.reportHeader("Feature Matching Parity Report")

	totalSolid := 0
	for i := range results {
		totalSolid += len(results[i].solid)
	}
	totalBase := len(base.Features)
	totalTarget := len(target.Features)
	baseExclusive := totalBase - totalSolid
	targetExclusive := totalTarget - totalSolid
	union := totalBase + totalTarget - totalSolid
	parity := stats.Jaccard(totalSolid, totalBase, totalTarget)

	lines = append(lines,
		"## Summary",
		"",
		"| Feature Category | Count | Details |",
		"| :--- | :--- | :--- |",
		fmt.Sprintf("| **✅ Common Shared** | **%d** | Implemented in both ecosystems |", totalSolid),
		fmt.Sprintf("| **📦 Exclusive to `%s`** | **%d** | Requires implementation in `%s` |",
			base.EcosystemName(), baseExclusive, target.EcosystemName()),
		fmt.Sprintf("| **📦 Exclusive to `%s`** | **%d** | Requires implementation in `%s` |",
			target.EcosystemName(), targetExclusive, base.EcosystemName()),
		fmt.Sprintf("| **📊 Jaccard Score** | **%s** | Overall parity (%d / %d) |",
			percent(parity), totalSolid, union),
		"",
		"## Module Summary",
		fmt.Sprintf("| Ecosystems | Module | Features (%s) | Score | Status | Details |", base.EcosystemName()),
		"|---|---|---|---|---|---|",
	)

	type moduleRow struct {
		score float64
		row   string
	}
	rows := make([]moduleRow, 0, len(results))
	moduleFiles := make(map[string]string, len(results))

	for i := range results {
		r := &results[i]
		score := r.jaccard()
		filename := moduleFilename(r.name)
		rows = append(rows, moduleRow{
			score: score,
			row: fmt.Sprintf("| %s | `%s` | %d | %s | %s | [View Details](%s/%s) |",
				sidesCell(r, base.EcosystemCode(), target.EcosystemCode()),
				r.name, r.baseCount, percent(score), statusIcon(score),
				ModulesDirToken, filename),
		})
		scoreLine := fmt.Sprintf("**Score:** %s (%s)", percent(score), statusIcon(score))
		moduleFiles[filename] = g.moduleBody(r, scoreLine)
	}

	// Best modules first; ties keep module-name order.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })
	for _, mr := range rows {
		lines = append(lines, mr.row)
	}

	g.logger.Info("symmetric report generated",
		"modules", len(results),
		"solid_matches", totalSolid,
		"parity", parity,
	)
	return &Result{
		Master:      strings.TrimSpace(strings.Join(lines, "\n")),
		ModuleFiles: moduleFiles,
	}, nil
}

// =============================================================================
// Module detail bodies
// =============================================================================

// moduleBody renders one module's detail report. The score line differs
// between the symmetric and directional masters; everything else is shared.
func (g *Generator) moduleBody(r *moduleResult, scoreLine string) string {
	base, target := g.registries[0], g.registries[1]

	lines := []string{
		fmt.Sprintf("# Module: `%s`", r.name),
		fmt.Sprintf("[⬅️ Back to Master Report](../%s)", MasterReportToken),
		"",
		scoreLine,
		"",
		fmt.Sprintf("**Features:** %d", r.baseCount+r.targetCount-len(r.solid)),
		"",
	}

	sortForDisplay(r.solid)
	sortForDisplay(r.potential)

	if len(r.solid) > 0 {
		lines = append(lines,
			"### ✅ Solid Features",
			fmt.Sprintf("| Type | %s Feature | %s Feature | Similarity Score |",
				base.EcosystemName(), target.EcosystemName()),
			"|---|---|---|---|",
		)
		for _, m := range r.solid {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %.2f |",
				m.Base.Kind.DisplayName(), featureCell(m.Base), featureCell(m.Target), m.Score))
		}
		lines = append(lines, "")
	}

	if len(r.potential) > 0 {
		lines = append(lines,
			"### ⚠️ Potential Matches",
			fmt.Sprintf("| Type | %s Feature | Closest %s Candidate | Similarity |",
				base.EcosystemName(), target.EcosystemName()),
			"|---|---|---|---|",
		)
		for _, m := range r.potential {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %.2f |",
				m.Base.Kind.DisplayName(), featureCell(m.Base), featureCell(m.Target), m.Score))
		}
		lines = append(lines, "")
	}

	if len(r.unmatchedBase) > 0 || len(r.unmatchedTarget) > 0 {
		lines = append(lines,
			"### ❌ Unmatched Features",
			"",
			"| Missing Feature | Missing In |",
			"|---|---|",
		)
		for _, f := range r.unmatchedBase {
			lines = append(lines, fmt.Sprintf("| %s | %s |", featureCell(f), target.EcosystemName()))
		}
		for _, f := range r.unmatchedTarget {
			lines = append(lines, fmt.Sprintf("| %s | %s |", featureCell(f), base.EcosystemName()))
		}
		lines = append(lines, "")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
