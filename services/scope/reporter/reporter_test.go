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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiscope/apiscope/services/scope/feature"
)

func fn(name, ns string) *feature.Feature {
	return &feature.Feature{
		NormalizedName:      name,
		MemberOf:            feature.NullMember,
		NormalizedMemberOf:  feature.NullMember,
		NormalizedNamespace: ns,
		Kind:                feature.KindFunction,
	}
}

func reg(ecosystem, version string, features ...*feature.Feature) *feature.Registry {
	return &feature.Registry{
		Ecosystem: ecosystem,
		Version:   version,
		Features:  features,
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"md", "f1", "raw", "matrix"} {
		format, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), format)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNew_Validation(t *testing.T) {
	a := reg("python", "1.0.0", fn("a", "mod"))
	b := reg("typescript", "1.0.0", fn("a", "mod"))

	t.Run("alpha_zero", func(t *testing.T) {
		_, err := New([]*feature.Registry{a, b}, 0, nil)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})

	t.Run("alpha_above_one", func(t *testing.T) {
		_, err := New([]*feature.Registry{a, b}, 1.1, nil)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})

	t.Run("single_registry", func(t *testing.T) {
		_, err := New([]*feature.Registry{a}, 0.8, nil)
		assert.ErrorIs(t, err, ErrRegistryCount)
	})

	t.Run("nil_registry", func(t *testing.T) {
		_, err := New([]*feature.Registry{a, nil}, 0.8, nil)
		assert.ErrorIs(t, err, ErrRegistryCount)
	})

	t.Run("valid", func(t *testing.T) {
		gen, err := New([]*feature.Registry{a, b}, 0.8, nil)
		require.NoError(t, err)
		assert.NotNil(t, gen)
	})
}

func TestGenerate_PairwiseFormatsRequireTwoRegistries(t *testing.T) {
	regs := []*feature.Registry{
		reg("python", "1.0.0", fn("a", "mod")),
		reg("typescript", "1.0.0", fn("a", "mod")),
		reg("golang", "1.0.0", fn("a", "mod")),
	}
	gen, err := New(regs, 0.8, nil)
	require.NoError(t, err)

	for _, format := range []Format{FormatSymmetric, FormatDirectional, FormatRaw} {
		_, err := gen.Generate(context.Background(), format)
		assert.ErrorIs(t, err, ErrRegistryCount, "format %s", format)
	}

	// Matrix accepts three.
	result, err := gen.Generate(context.Background(), FormatMatrix)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Master)
}

func TestGenerate_UnknownFormat(t *testing.T) {
	gen, err := New([]*feature.Registry{
		reg("python", "1.0.0", fn("a", "mod")),
		reg("typescript", "1.0.0", fn("a", "mod")),
	}, 0.8, nil)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestGenerate_CanceledContext(t *testing.T) {
	gen, err := New([]*feature.Registry{
		reg("python", "1.0.0", fn("a", "mod")),
		reg("typescript", "1.0.0", fn("a", "mod")),
	}, 0.8, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Generate(ctx, FormatSymmetric)
	assert.Error(t, err)
}

func TestGenerateSymmetric(t *testing.T) {
	// Two features per side, one shared: Jaccard = 1 / (2+2-1) = 33.33%.
	base := reg("python", "1.2.0",
		fn("alpha", "mod"),
		fn("bbbbb", "mod"),
	)
	target := reg("typescript", "2.0.0",
		fn("alpha", "mod"),
		fn("zzzzz", "mod"),
	)

	gen, err := New([]*feature.Registry{base, target}, 0.8, nil)
	require.NoError(t, err)
	result, err := gen.Generate(context.Background(), FormatSymmetric)
	require.NoError(t, err)

	assert.Contains(t, result.Master, "# Feature Matching Parity Report")
	assert.Contains(t, result.Master, "| **Base** | Python | 1.2.0 |")
	assert.Contains(t, result.Master, "| **Target** | TypeScript | 2.0.0 |")
	assert.Contains(t, result.Master,
		"| **✅ Common Shared** | **1** | Implemented in both ecosystems |")
	assert.Contains(t, result.Master, "33.33%")
	assert.Contains(t, result.Master, "[View Details]({modules_dir}/mod.md)")

	body, ok := result.ModuleFiles["mod.md"]
	require.True(t, ok, "expected a mod.md module body")
	assert.Contains(t, body, "[⬅️ Back to Master Report](../{master_report})")
	assert.Contains(t, body, "### ✅ Solid Features")
	assert.Contains(t, body, "`alpha`")
	assert.Contains(t, body, "### ❌ Unmatched Features")
	assert.Contains(t, body, "`bbbbb`")
	assert.Contains(t, body, "`zzzzz`")
}

func TestGenerateSymmetric_NearMissesArePotential(t *testing.T) {
	// Identical names but disjoint return types: the pair scores ~0.93,
	// under a strict 0.95 but above the lenient 0.80 pass.
	bf := fn("create_session", "mod")
	bf.ReturnTypes = []feature.TypeTag{feature.TagString}
	tf := fn("create_session", "mod")
	tf.ReturnTypes = []feature.TypeTag{feature.TagNumber}

	gen, err := New([]*feature.Registry{
		reg("python", "1.0.0", bf),
		reg("typescript", "1.0.0", tf),
	}, 0.95, nil)
	require.NoError(t, err)
	result, err := gen.Generate(context.Background(), FormatSymmetric)
	require.NoError(t, err)

	body := result.ModuleFiles["mod.md"]
	assert.Contains(t, body, "### ⚠️ Potential Matches")
	assert.NotContains(t, body, "### ✅ Solid Features")
	// Potential matches never count toward parity.
	assert.Contains(t, result.Master, "0.00%")
}

func TestGenerateDirectional(t *testing.T) {
	// 3 base, 2 target, 1 solid: P = 50%, R = 33.33%, F1 = 40%.
	base := reg("python", "1.0.0",
		fn("alpha", "mod"),
		fn("bbbbb", "mod"),
		fn("ddddd", "mod"),
	)
	target := reg("typescript", "1.0.0",
		fn("alpha", "mod"),
		fn("zzzzz", "mod"),
	)

	gen, err := New([]*feature.Registry{base, target}, 0.8, nil)
	require.NoError(t, err)
	result, err := gen.Generate(context.Background(), FormatDirectional)
	require.NoError(t, err)

	assert.Contains(t, result.Master, "# Feature Coverage Report (Directional)")
	assert.Contains(t, result.Master, "| **✅ Solid Matches** | **1** |")
	assert.Contains(t, result.Master, "**50.00%**")
	assert.Contains(t, result.Master, "**33.33%**")
	assert.Contains(t, result.Master, "**40.00%**")

	body, ok := result.ModuleFiles["mod.md"]
	require.True(t, ok)
	assert.Contains(t, body, "**Precision:** 50.00%")
	assert.Contains(t, body, "**Recall:** 33.33%")
	assert.Contains(t, body, "**F1:** 40.00%")
}

func TestGenerateDirectional_GrandScoresUseSummedTotals(t *testing.T) {
	// Module "moda" has perfect recall, "modb" zero. Averaging the module
	// recalls would give 50%; the grand recall over summed totals is 1/4.
	base := reg("python", "1.0.0",
		fn("alpha", "moda"),
		fn("bbbbb", "modb"),
		fn("ddddd", "modb"),
		fn("ggggg", "modb"),
	)
	target := reg("typescript", "1.0.0",
		fn("alpha", "moda"),
		fn("zzzzz", "modb"),
	)

	gen, err := New([]*feature.Registry{base, target}, 0.8, nil)
	require.NoError(t, err)
	result, err := gen.Generate(context.Background(), FormatDirectional)
	require.NoError(t, err)

	assert.Contains(t, result.Master, "| **🔁 Recall** | **25.00%** |")
}

func TestGenerateRaw(t *testing.T) {
	weird := fn("weird", "mod")
	weird.OriginalName = "we,ird"

	base := reg("python", "1.0.0", fn("alpha", "mod"), weird)
	target := reg("typescript", "1.0.0", fn("alpha", "mod"))

	gen, err := New([]*feature.Registry{base, target}, 0.8, nil)
	require.NoError(t, err)
	result, err := gen.Generate(context.Background(), FormatRaw)
	require.NoError(t, err)

	assert.Empty(t, result.ModuleFiles)
	assert.Contains(t, result.Master,
		"py_namespace,py_member_of,py_name,ts_namespace,ts_member_of,ts_name,type,score")
	// The solid pair, with the null member sentinel rendered blank.
	assert.Contains(t, result.Master, "mod,,alpha,mod,,alpha,function,1.0000")
	// The unmatched base feature: blank target columns, quoted comma field.
	assert.Contains(t, result.Master, `mod,,"we,ird",,,,function,0.0000`)
}

func TestGenerateMatrix(t *testing.T) {
	regs := []*feature.Registry{
		reg("python", "1.0.0", fn("alpha", "mod")),
		reg("typescript", "1.0.0", fn("alpha", "mod")),
		reg("golang", "1.0.0", fn("bbbbb", "mod")),
	}

	gen, err := New(regs, 0.8, nil)
	require.NoError(t, err)
	result, err := gen.Generate(context.Background(), FormatMatrix)
	require.NoError(t, err)

	assert.Contains(t, result.Master, "# N-Way Feature Support Matrix")
	assert.Contains(t, result.Master, "## Pairwise Parity (Jaccard)")
	// Registry 0 row: self 1.00, full parity with ts, none with go.
	assert.Contains(t, result.Master, "| **Python** | 1.00 | 1.00 | 0.00 |")
	assert.Contains(t, result.Master, "| **Go** | 0.00 | 0.00 | 1.00 |")
	// One shared correspondence plus one go-only row in module "mod".
	assert.Contains(t, result.Master, "| `mod` | 2 | [View Details]({modules_dir}/mod.md) |")

	body, ok := result.ModuleFiles["mod.md"]
	require.True(t, ok)
	assert.Contains(t, body, "| Feature | Python | TypeScript | Go |")
	assert.Contains(t, body, "| `alpha` | ✅ | ✅ | ❌ |")
	assert.Contains(t, body, "| `bbbbb` | ❌ | ❌ | ✅ |")
}

func TestGenerateMatrix_TwoRegistries(t *testing.T) {
	regs := []*feature.Registry{
		reg("python", "1.0.0", fn("alpha", "mod")),
		reg("typescript", "1.0.0", fn("alpha", "mod")),
	}

	gen, err := New(regs, 0.8, nil)
	require.NoError(t, err)
	result, err := gen.Generate(context.Background(), FormatMatrix)
	require.NoError(t, err)
	assert.Contains(t, result.Master, "| **Python** | 1.00 | 1.00 |")
}

func TestModuleFilename(t *testing.T) {
	assert.Equal(t, "agents_memory.md", moduleFilename("agents.memory"))
	assert.Equal(t, "unknown.md", moduleFilename("unknown"))
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✅", statusIcon(1.0))
	assert.Equal(t, "⚠️", statusIcon(0.8))
	assert.Equal(t, "⚠️", statusIcon(0.93))
	assert.Equal(t, "❌", statusIcon(0.79))
	assert.Equal(t, "❌", statusIcon(0.0))
}
