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

	"github.com/apiscope/apiscope/services/scope/stats"
)

// generateDirectional renders the Markdown precision/recall/F1 report.
//
// Precision reads "how much of the target surface corresponds to base",
// recall "how much of the base surface is covered by target". Global values
// come from grand totals summed across modules, not from averaging
// per-module scores.
func (g *Generator) generateDirectional(ctx context.Context) (*Result, error) {
	results, err := g.processPair(ctx)
	if err != nil {
		return nil, err
	}

	base, target := g.registries[0], g.registries[1]
	lines := g.reportHeader("Feature Coverage Report (Directional)")

	totalSolid := 0
	for i := range results {
		totalSolid += len(results[i].solid)
	}
	totalBase := len(base.Features)
	totalTarget := len(target.Features)
	precision := stats.Precision(totalSolid, totalTarget)
	recall := stats.Recall(totalSolid, totalBase)
	f1 := stats.F1(precision, recall)

	lines = append(lines,
		"## Summary",
		"",
		"| Metric | Value | Details |",
		"| :--- | :--- | :--- |",
		fmt.Sprintf("| **✅ Solid Matches** | **%d** | Pairs above the %.2f threshold |", totalSolid, g.alpha),
		fmt.Sprintf("| **🎯 Precision** | **%s** | Matches / %s features (%d) |",
			percent(precision), target.EcosystemName(), totalTarget),
		fmt.Sprintf("| **🔁 Recall** | **%s** | Matches / %s features (%d) |",
			percent(recall), base.EcosystemName(), totalBase),
		fmt.Sprintf("| **📈 F1 Score** | **%s** | Harmonic mean of precision and recall |", percent(f1)),
		"",
		"## Module Summary",
		fmt.Sprintf("| Ecosystems | Module | Features (%s) | Precision | Recall | F1 | Details |", base.EcosystemName()),
		"|---|---|---|---|---|---|---|",
	)

	type moduleRow struct {
		f1  float64
		row string
	}
	rows := make([]moduleRow, 0, len(results))
	moduleFiles := make(map[string]string, len(results))

	for i := range results {
		r := &results[i]
		modF1 := r.f1()
		filename := moduleFilename(r.name)
		rows = append(rows, moduleRow{
			f1: modF1,
			row: fmt.Sprintf("| %s | `%s` | %d | %s | %s | %s | [View Details](%s/%s) |",
				sidesCell(r, base.EcosystemCode(), target.EcosystemCode()),
				r.name, r.baseCount,
				percent(r.precision()), percent(r.recall()), percent(modF1),
				ModulesDirToken, filename),
		})
		scoreLine := strings.Join([]string{
			fmt.Sprintf("**Precision:** %s", percent(r.precision())),
			"",
			fmt.Sprintf("**Recall:** %s", percent(r.recall())),
			"",
			fmt.Sprintf("**F1:** %s (%s)", percent(modF1), statusIcon(modF1)),
		}, "\n")
		moduleFiles[filename] = g.moduleBody(r, scoreLine)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].f1 > rows[j].f1 })
	for _, mr := range rows {
		lines = append(lines, mr.row)
	}

	g.logger.Info("directional report generated",
		"modules", len(results),
		"solid_matches", totalSolid,
		"precision", precision,
		"recall", recall,
		"f1", f1,
	)
	return &Result{
		Master:      strings.TrimSpace(strings.Join(lines, "\n")),
		ModuleFiles: moduleFiles,
	}, nil
}
