// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package stats holds the parity metric formulas shared by the report
// generators. Every formula handles its zero denominator explicitly; no
// division error can escape the scoring math. An empty module on both sides
// scores as a perfect (vacuous) match by convention.
package stats

// Precision is matches / totalTarget, or 1.0 when the target side is empty.
func Precision(matches, totalTarget int) float64 {
	if totalTarget > 0 {
		return float64(matches) / float64(totalTarget)
	}
	return 1.0
}

// Recall is matches / totalBase, or 1.0 when the base side is empty.
func Recall(matches, totalBase int) float64 {
	if totalBase > 0 {
		return float64(matches) / float64(totalBase)
	}
	return 1.0
}

// F1 is the harmonic mean 2PR/(P+R), or 0.0 when both inputs are zero.
func F1(precision, recall float64) float64 {
	if precision+recall > 0 {
		return 2 * precision * recall / (precision + recall)
	}
	return 0.0
}

// Jaccard is matches over the union size base+target-matches, or 1.0 when
// the union is empty (nothing to match on either side).
func Jaccard(matches, totalBase, totalTarget int) float64 {
	union := totalBase + totalTarget - matches
	if union > 0 {
		return float64(matches) / float64(union)
	}
	return 1.0
}
