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
	"strings"

	"github.com/apiscope/apiscope/services/scope/feature"
)

// generateRaw renders the flat CSV dump: one record per solid match, per
// potential match, per unmatched-base feature (target columns blank, score
// 0.0000) and per unmatched-target feature (base columns blank). Matches
// stay in solver order; modules are emitted in sorted order.
func (g *Generator) generateRaw(ctx context.Context) (*Result, error) {
	results, err := g.processPair(ctx)
	if err != nil {
		return nil, err
	}

	base, target := g.registries[0], g.registries[1]
	baseCode, targetCode := base.EcosystemCode(), target.EcosystemCode()

	lines := []string{fmt.Sprintf(
		"%[1]s_namespace,%[1]s_member_of,%[1]s_name,%[2]s_namespace,%[2]s_member_of,%[2]s_name,type,score",
		baseCode, targetCode,
	)}

	rowCount := 0
	for i := range results {
		r := &results[i]

		for _, m := range r.solid {
			lines = append(lines, matchRecord(m.Base, m.Target, m.Score))
		}
		for _, m := range r.potential {
			lines = append(lines, matchRecord(m.Base, m.Target, m.Score))
		}
		for _, f := range r.unmatchedBase {
			ns, mem, name := featureColumns(f)
			lines = append(lines, fmt.Sprintf("%s,%s,%s,,,,%s,0.0000",
				escapeCSV(ns), escapeCSV(mem), escapeCSV(name), escapeCSV(f.Kind.DisplayName())))
		}
		for _, f := range r.unmatchedTarget {
			ns, mem, name := featureColumns(f)
			lines = append(lines, fmt.Sprintf(",,,%s,%s,%s,%s,0.0000",
				escapeCSV(ns), escapeCSV(mem), escapeCSV(name), escapeCSV(f.Kind.DisplayName())))
		}
		rowCount += len(r.solid) + len(r.potential) + len(r.unmatchedBase) + len(r.unmatchedTarget)
	}

	g.logger.Info("raw report generated", "rows", rowCount)
	return &Result{
		Master:      strings.Join(lines, "\n"),
		ModuleFiles: map[string]string{},
	}, nil
}

// matchRecord renders one matched pair. The type column reads from the base
// side; both sides necessarily share a kind class.
func matchRecord(b, t *feature.Feature, score float64) string {
	bNS, bMem, bName := featureColumns(b)
	tNS, tMem, tName := featureColumns(t)
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%.4f",
		escapeCSV(bNS), escapeCSV(bMem), escapeCSV(bName),
		escapeCSV(tNS), escapeCSV(tMem), escapeCSV(tName),
		escapeCSV(b.Kind.DisplayName()), score)
}

// featureColumns extracts the display namespace, member and name for a CSV
// row. Originals are preferred with normalized fallbacks, and the "null"
// member sentinel renders blank.
func featureColumns(f *feature.Feature) (ns, mem, name string) {
	ns = f.Namespace
	if ns == "" {
		ns = f.NormalizedNamespace
	}

	mem = f.MemberOf
	if mem == "" {
		mem = f.NormalizedMemberOf
	}
	if strings.EqualFold(mem, feature.NullMember) {
		mem = ""
	}

	name = f.OriginalName
	if name == "" {
		name = f.NormalizedName
	}
	return ns, mem, name
}

// escapeCSV quotes a field when it contains a comma, quote or newline,
// doubling embedded quotes per RFC 4180.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
