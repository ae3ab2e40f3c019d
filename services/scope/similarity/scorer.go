// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package similarity scores the correspondence between two features.
//
// # Description
//
// The scorer combines five weighted signals — name, enclosing type,
// namespace, parameter contract and return contract — into a [0,1] score.
// Weights are redistributed per feature kind (constructors carry no name
// signal, free functions carry a weak enclosing-type signal), and an early
// exit skips the contract sub-scorers when the string signals alone cannot
// clear 80% of their combined weight. The package also hosts the rectangular
// assignment solver shared with the feature matcher.
//
// # Thread Safety
//
// A Scorer is stateless after construction and safe for concurrent use.
package similarity

import (
	"github.com/xrash/smetrics"

	"github.com/apiscope/apiscope/services/scope/feature"
)

// Jaro-Winkler parameters (standard boost threshold and prefix size).
const (
	jaroWinklerBoost  = 0.7
	jaroWinklerPrefix = 4
)

// earlyExitFraction: when the name/member/namespace signals score below this
// fraction of their combined weight, the contract sub-scorers are skipped
// and the truncated preliminary sum is the final score. Observable contract,
// not just an optimization: early-exit scores never include contract credit.
const earlyExitFraction = 0.8

// Per-parameter component weights (name, type set, optionality).
const (
	paramNameWeight     = 0.5
	paramTypeWeight     = 0.4
	paramOptionalWeight = 0.1
)

// Return contract component weights (type set, async flag).
const (
	returnTypeWeight  = 0.7
	returnAsyncWeight = 0.3
)

// =============================================================================
// Weights
// =============================================================================

// Weights holds the relative importance of each similarity category.
// The defaults sum to 1.0, which keeps scores in [0,1].
type Weights struct {
	Name       float64
	MemberOf   float64
	Namespace  float64
	Parameters float64
	ReturnType float64
}

// DefaultWeights returns the standard category weights.
func DefaultWeights() Weights {
	return Weights{
		Name:       0.30,
		MemberOf:   0.30,
		Namespace:  0.15,
		Parameters: 0.15,
		ReturnType: 0.10,
	}
}

// =============================================================================
// Kind compatibility
// =============================================================================

// kindClass partitions comparable feature kinds. Features from different
// classes never correspond and score 0.
type kindClass int

const (
	classMismatch kindClass = iota
	classConstructor
	classFunction // free functions and class/static methods compare as one class
	classMethod
)

// classifyKinds gates the comparison on kind compatibility.
func classifyKinds(a, b feature.Kind) kindClass {
	functionLike := func(k feature.Kind) bool {
		return k == feature.KindFunction || k == feature.KindClassMethod
	}
	switch {
	case a == feature.KindConstructor && b == feature.KindConstructor:
		return classConstructor
	case functionLike(a) && functionLike(b):
		return classFunction
	case a == feature.KindInstanceMethod && b == feature.KindInstanceMethod:
		return classMethod
	default:
		return classMismatch
	}
}

// =============================================================================
// Scorer
// =============================================================================

// Scorer computes correspondence scores between feature pairs.
type Scorer struct {
	weights Weights
}

// NewScorer returns a Scorer with the default weights.
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultWeights()}
}

// NewScorerWithWeights returns a Scorer with custom weights. Weights should
// sum to 1.0 for scores to stay in [0,1].
func NewScorerWithWeights(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score computes the correspondence score between two features.
//
// # Description
//
// The score pipeline:
//
//  1. Kind gate: incompatible kinds return 0 immediately.
//  2. Weight redistribution: constructor pairs fold the name weight into
//     member_of (constructor names are language idioms, the enclosing type is
//     the real identity); function pairs halve member_of and fold the removed
//     half into name (free functions have no meaningful enclosing type).
//  3. Jaro-Winkler similarity over the normalized name, member_of and
//     namespace fields.
//  4. Early exit: if those three signals score below 80% of their combined
//     weight, the preliminary sum is returned as-is, without contract credit.
//  5. Otherwise the parameter-list and return-type sub-scores complete the
//     weighted sum.
//
// Inputs:
//
//	a, b - Features to compare. Only normalized fields are consulted.
//
// Outputs:
//
//	float64 - Score in [0,1]. Identical features with compatible kinds
//	          score 1.0; incompatible kinds score exactly 0.0.
func (s *Scorer) Score(a, b *feature.Feature) float64 {
	class := classifyKinds(a.Kind, b.Kind)
	if class == classMismatch {
		return 0.0
	}

	w := s.weights
	switch class {
	case classConstructor:
		w.MemberOf += w.Name
		w.Name = 0
	case classFunction:
		half := w.MemberOf / 2
		w.MemberOf = half
		w.Name += half
	}

	nameSim := JaroWinkler(a.NormalizedName, b.NormalizedName)
	memberSim := JaroWinkler(a.NormalizedMemberOf, b.NormalizedMemberOf)
	namespaceSim := JaroWinkler(a.NormalizedNamespace, b.NormalizedNamespace)

	preliminary := nameSim*w.Name + memberSim*w.MemberOf + namespaceSim*w.Namespace
	stringBudget := w.Name + w.MemberOf + w.Namespace
	if preliminary < earlyExitFraction*stringBudget {
		return preliminary
	}

	paramsSim := parametersScore(a.Parameters, b.Parameters)
	returnSim := returnScore(a, b)
	return preliminary + paramsSim*w.Parameters + returnSim*w.ReturnType
}

// JaroWinkler is normalized Jaro-Winkler similarity over two strings. Equal
// strings (including both empty) score 1; comparison against a single empty
// string scores 0, sidestepping the metric's degenerate empty-input case.
// Shared with the namespace reconciler.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return smetrics.JaroWinkler(a, b, jaroWinklerBoost, jaroWinklerPrefix)
}

// =============================================================================
// Parameter contract
// =============================================================================

// parametersScore compares two ordered parameter lists.
//
// Each cross pair is scored on name, type set and optionality, an optimal
// assignment pairs them up, and the summed assignment score M is folded into
// a Dice-style 2M/(|P1|+|P2|) so that count mismatches stay penalized even
// under perfect pairwise matches.
func parametersScore(p1, p2 []feature.Param) float64 {
	if len(p1) == 0 && len(p2) == 0 {
		return 1.0
	}
	if len(p1) == 0 || len(p2) == 0 {
		return 0.0
	}

	matrix := make([][]float64, len(p1))
	for i := range p1 {
		matrix[i] = make([]float64, len(p2))
		for j := range p2 {
			matrix[i][j] = paramPairScore(&p1[i], &p2[j])
		}
	}

	var total float64
	for i, j := range Assign(matrix) {
		if j >= 0 {
			total += matrix[i][j]
		}
	}
	return 2 * total / float64(len(p1)+len(p2))
}

// paramPairScore compares one parameter against another.
func paramPairScore(a, b *feature.Param) float64 {
	nameSim := JaroWinkler(a.NormalizedName, b.NormalizedName)
	typeSim := typeSetMatch(a.NormalizedTypes, b.NormalizedTypes)
	optSim := 0.0
	if a.IsOptional == b.IsOptional {
		optSim = 1.0
	}
	return paramNameWeight*nameSim + paramTypeWeight*typeSim + paramOptionalWeight*optSim
}

// typeSetMatch compares two canonical tag sets.
//
// Equal sets (including both empty) score 1; one empty set scores 0.
// Otherwise the score is the best pairwise tag affinity across the two sets:
// identical tags 1.0, the MAP/OBJECT and MAP/UNKNOWN pairs 0.4, any pair
// touching UNKNOWN 0.3, any pair touching the OBJECT wildcard 0.2.
func typeSetMatch(s1, s2 []feature.TypeTag) float64 {
	if len(s1) == 0 && len(s2) == 0 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}
	if feature.TagSetsEqual(s1, s2) {
		return 1.0
	}

	best := 0.0
	for _, t1 := range s1 {
		for _, t2 := range s2 {
			if score := tagPairScore(t1, t2); score > best {
				best = score
			}
		}
	}
	return best
}

// tagPairScore is the affinity lattice for one tag pair, evaluated top-down.
func tagPairScore(a, b feature.TypeTag) float64 {
	switch {
	case a == b:
		return 1.0
	case isPair(a, b, feature.TagMap, feature.TagObject),
		isPair(a, b, feature.TagMap, feature.TagUnknown):
		return 0.4
	case a == feature.TagUnknown || b == feature.TagUnknown:
		return 0.3
	case a == feature.TagObject || b == feature.TagObject:
		return 0.2
	default:
		return 0.0
	}
}

// isPair reports whether {a,b} == {x,y} in either order.
func isPair(a, b, x, y feature.TypeTag) bool {
	return (a == x && b == y) || (a == y && b == x)
}

// =============================================================================
// Return contract
// =============================================================================

// returnScore compares the return type sets and async flags of two features.
func returnScore(a, b *feature.Feature) float64 {
	typeSim := typeSetMatch(a.ReturnTypes, b.ReturnTypes)
	asyncSim := 0.0
	if a.IsAsync == b.IsAsync {
		asyncSim = 1.0
	}
	return returnTypeWeight*typeSim + returnAsyncWeight*asyncSim
}
