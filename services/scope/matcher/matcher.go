// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package matcher finds the optimal correspondence between two feature lists.
//
// # Description
//
// Per logical module, the matcher builds a full score matrix through the
// similarity scorer, solves the maximize-weight bipartite assignment, and
// keeps assigned pairs that clear the similarity threshold. Matched features
// are withheld from the returned leftover lists, so a caller can immediately
// re-run the matcher at a lower threshold on the strict leftovers to collect
// a second, non-overlapping pass.
//
// The package also groups registry features into module buckets and fuzzily
// reconciles bucket keys across ecosystems with different naming conventions.
//
// # Thread Safety
//
// A Matcher is stateless and safe for concurrent use. The slices it returns
// are freshly allocated; inputs are never mutated.
package matcher

import (
	"sort"

	"github.com/apiscope/apiscope/services/scope/feature"
	"github.com/apiscope/apiscope/services/scope/similarity"
)

// UnknownModule is the bucket key for features with no namespace at all.
const UnknownModule = "unknown"

// namespaceMatchThreshold: a target module key merges into a base key only
// when their string similarity strictly exceeds this value.
const namespaceMatchThreshold = 0.8

// Match pairs a base feature with its target counterpart at the given score.
// Matches are transient: produced and consumed within one report run.
type Match struct {
	Base   *feature.Feature
	Target *feature.Feature
	Score  float64
}

// Matcher pairs features using optimal assignment over similarity scores.
type Matcher struct {
	scorer *similarity.Scorer
}

// New returns a Matcher backed by the default similarity scorer.
func New() *Matcher {
	return &Matcher{scorer: similarity.NewScorer()}
}

// NewWithScorer returns a Matcher backed by a custom scorer.
func NewWithScorer(s *similarity.Scorer) *Matcher {
	return &Matcher{scorer: s}
}

// Match finds the optimal threshold-filtered correspondence between two
// feature lists.
//
// # Description
//
// Builds the |base| x |target| score matrix, solves the rectangular
// maximize-weight assignment, and keeps assigned pairs scoring strictly
// above alpha (a pair exactly at alpha is rejected). Instead of mutating the
// caller's slices, ownership of the unmatched remainder is transferred back:
// the returned leftover slices preserve the relative order of their inputs
// and share no matched elements, so successive calls at lower thresholds
// operate on strict leftovers.
//
// Inputs:
//
//	base - Base-side features. Not mutated.
//	target - Target-side features. Not mutated.
//	alpha - Similarity threshold in (0,1].
//
// Outputs:
//
//	[]Match - Accepted pairs in assignment-solver (base list) order, not
//	          score-sorted; display ordering is a report concern.
//	[]*feature.Feature - Base leftovers, input order preserved.
//	[]*feature.Feature - Target leftovers, input order preserved.
//
// Either input empty returns no matches and the inputs unchanged.
func (m *Matcher) Match(
	base, target []*feature.Feature,
	alpha float64,
) ([]Match, []*feature.Feature, []*feature.Feature) {
	if len(base) == 0 || len(target) == 0 {
		return nil, base, target
	}

	matrix := make([][]float64, len(base))
	for i, bf := range base {
		matrix[i] = make([]float64, len(target))
		for j, tf := range target {
			matrix[i][j] = m.scorer.Score(bf, tf)
		}
	}

	assignment := similarity.Assign(matrix)

	var matches []Match
	matchedBase := make(map[int]bool, len(base))
	matchedTarget := make(map[int]bool, len(target))
	for i, j := range assignment {
		if j < 0 {
			continue
		}
		score := matrix[i][j]
		if score > alpha {
			matches = append(matches, Match{Base: base[i], Target: target[j], Score: score})
			matchedBase[i] = true
			matchedTarget[j] = true
		}
	}

	remainingBase := make([]*feature.Feature, 0, len(base)-len(matches))
	for i, f := range base {
		if !matchedBase[i] {
			remainingBase = append(remainingBase, f)
		}
	}
	remainingTarget := make([]*feature.Feature, 0, len(target)-len(matches))
	for j, f := range target {
		if !matchedTarget[j] {
			remainingTarget = append(remainingTarget, f)
		}
	}

	return matches, remainingBase, remainingTarget
}

// =============================================================================
// Module grouping
// =============================================================================

// GroupByModule partitions a registry's features into buckets keyed by
// normalized namespace, falling back to the raw namespace, falling back to
// the UnknownModule sentinel. Bucket order follows extraction order.
func GroupByModule(reg *feature.Registry) map[string][]*feature.Feature {
	buckets := make(map[string][]*feature.Feature)
	for _, f := range reg.Features {
		key := f.NormalizedNamespace
		if key == "" {
			key = f.Namespace
		}
		if key == "" {
			key = UnknownModule
		}
		buckets[key] = append(buckets[key], f)
	}
	return buckets
}

// =============================================================================
// Namespace reconciliation
// =============================================================================

// ReconcileNamespaces aligns target module keys onto base module keys.
//
// # Description
//
// Structurally equivalent modules often differ in naming convention across
// ecosystems ("agents.llm_agent" vs "agents.llmagent"). For each target key:
//
//   - an exact base key keeps the bucket as-is;
//   - with no base keys at all, the bucket is kept unchanged;
//   - otherwise the most similar base key (Jaro-Winkler) absorbs the bucket
//     when the similarity strictly exceeds 0.8;
//   - below the threshold the bucket is retained under its original key, so
//     its features surface as unmatched instead of disappearing from the
//     report.
//
// Ties between equally similar base keys resolve to the lexicographically
// first key: candidates are scanned in sorted order and only a strictly
// better score replaces the running best.
//
// Inputs:
//
//	base - Base bucket map. Not mutated.
//	target - Target bucket map. Not mutated.
//
// Outputs:
//
//	map[string][]*feature.Feature - The remapped target buckets. Every base
//	key is present (possibly empty); merged buckets append features in
//	sorted-target-key order.
func ReconcileNamespaces(
	base, target map[string][]*feature.Feature,
) map[string][]*feature.Feature {
	baseKeys := make([]string, 0, len(base))
	for k := range base {
		baseKeys = append(baseKeys, k)
	}
	sort.Strings(baseKeys)

	remapped := make(map[string][]*feature.Feature, len(base)+len(target))
	for _, k := range baseKeys {
		remapped[k] = []*feature.Feature{}
	}

	targetKeys := make([]string, 0, len(target))
	for k := range target {
		targetKeys = append(targetKeys, k)
	}
	sort.Strings(targetKeys)

	for _, tKey := range targetKeys {
		features := target[tKey]

		if _, ok := base[tKey]; ok {
			remapped[tKey] = append(remapped[tKey], features...)
			continue
		}
		if len(baseKeys) == 0 {
			remapped[tKey] = append(remapped[tKey], features...)
			continue
		}

		bestKey := ""
		bestScore := 0.0
		for _, bKey := range baseKeys {
			if score := similarity.JaroWinkler(tKey, bKey); score > bestScore {
				bestScore = score
				bestKey = bKey
			}
		}

		if bestScore > namespaceMatchThreshold {
			remapped[bestKey] = append(remapped[bestKey], features...)
		} else {
			remapped[tKey] = append(remapped[tKey], features...)
		}
	}

	return remapped
}
