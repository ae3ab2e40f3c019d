// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiscope/apiscope/services/scope/feature"
)

func TestReconcileNamespaces_ExactKeysKept(t *testing.T) {
	f := fn("target_a", "agents")
	base := map[string][]*feature.Feature{
		"agents": {fn("base_a", "agents")},
	}
	target := map[string][]*feature.Feature{
		"agents": {f},
	}

	got := ReconcileNamespaces(base, target)
	require.Contains(t, got, "agents")
	assert.Equal(t, []*feature.Feature{f}, got["agents"])
}

func TestReconcileNamespaces_FuzzyMerge(t *testing.T) {
	base := map[string][]*feature.Feature{
		"agents.llm_agent": {fn("base_a", "agents.llm_agent")},
	}
	f := fn("target_a", "agents.llmagent")
	target := map[string][]*feature.Feature{
		"agents.llmagent": {f},
	}

	got := ReconcileNamespaces(base, target)
	// The near-identical key merges into the base spelling; the original
	// target key disappears.
	require.Contains(t, got, "agents.llm_agent")
	assert.Equal(t, []*feature.Feature{f}, got["agents.llm_agent"])
	assert.NotContains(t, got, "agents.llmagent")
}

func TestReconcileNamespaces_PluralVariantMerges(t *testing.T) {
	base := map[string][]*feature.Feature{
		"module.one": {fn("base_a", "module.one")},
	}
	f := fn("target_a", "module.ones")
	target := map[string][]*feature.Feature{
		"module.ones": {f},
	}

	got := ReconcileNamespaces(base, target)
	assert.Equal(t, []*feature.Feature{f}, got["module.one"])
	assert.NotContains(t, got, "module.ones")
}

func TestReconcileNamespaces_DissimilarKeyRetained(t *testing.T) {
	base := map[string][]*feature.Feature{
		"agents.llm_agent": {fn("base_a", "agents.llm_agent")},
	}
	f := fn("target_a", "zzz")
	target := map[string][]*feature.Feature{
		"zzz": {f},
	}

	got := ReconcileNamespaces(base, target)
	// Below the similarity bar the bucket keeps its own key so its features
	// show up as unmatched rather than vanishing.
	require.Contains(t, got, "zzz")
	assert.Equal(t, []*feature.Feature{f}, got["zzz"])
	// The base key stays present (empty) for union building.
	require.Contains(t, got, "agents.llm_agent")
	assert.Empty(t, got["agents.llm_agent"])
}

func TestReconcileNamespaces_EmptyBase(t *testing.T) {
	f := fn("target_a", "sessions")
	target := map[string][]*feature.Feature{
		"sessions": {f},
	}

	got := ReconcileNamespaces(map[string][]*feature.Feature{}, target)
	require.Contains(t, got, "sessions")
	assert.Equal(t, []*feature.Feature{f}, got["sessions"])
}

func TestReconcileNamespaces_AllBaseKeysPresent(t *testing.T) {
	base := map[string][]*feature.Feature{
		"agents":   {fn("a", "agents")},
		"sessions": {fn("b", "sessions")},
	}

	got := ReconcileNamespaces(base, map[string][]*feature.Feature{})
	require.Len(t, got, 2)
	assert.Empty(t, got["agents"])
	assert.Empty(t, got["sessions"])
}

func TestReconcileNamespaces_MergePrefersBestKey(t *testing.T) {
	base := map[string][]*feature.Feature{
		"agents.llm_agent":  {fn("a", "agents.llm_agent")},
		"agents.llm_agents": {fn("b", "agents.llm_agents")},
	}
	f := fn("target_a", "agents.llmagent")
	target := map[string][]*feature.Feature{
		"agents.llmagent": {f},
	}

	got := ReconcileNamespaces(base, target)
	// Exactly one base bucket absorbs the target bucket.
	merged := 0
	for _, k := range []string{"agents.llm_agent", "agents.llm_agents"} {
		require.Contains(t, got, k)
		merged += len(got[k])
	}
	assert.Equal(t, 1, merged)
	assert.NotContains(t, got, "agents.llmagent")
}

func TestReconcileNamespaces_InputsNotMutated(t *testing.T) {
	base := map[string][]*feature.Feature{
		"agents.llm_agent": {fn("base_a", "agents.llm_agent")},
	}
	target := map[string][]*feature.Feature{
		"agents.llmagent": {fn("target_a", "agents.llmagent")},
	}

	_ = ReconcileNamespaces(base, target)
	require.Len(t, base, 1)
	assert.Len(t, base["agents.llm_agent"], 1)
	require.Len(t, target, 1)
	assert.Len(t, target["agents.llmagent"], 1)
}
