// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package feature defines the canonical API-surface data model.
//
// # Description
//
// Every ecosystem implementation of the library is reduced, by an external
// per-ecosystem extractor, to a flat Registry of Feature records: callable
// units (free functions, instance methods, class/static methods and
// constructors) with normalized names, canonical type tags and parameter
// contracts. This package holds those records and loads them from registry
// files; it performs no normalization of its own — the normalized_* fields
// arrive already lower-cased and tokenized from extraction.
//
// # Thread Safety
//
// A Registry is immutable after loading. The matching pipeline operates on
// working copies of its feature slices, never on the Registry itself.
package feature

import (
	"fmt"
	"strings"
)

// =============================================================================
// Feature Kind
// =============================================================================

// Kind categorizes the callable unit a Feature describes.
type Kind string

const (
	// KindFunction is a free function (no enclosing type).
	KindFunction Kind = "FUNCTION"

	// KindInstanceMethod is a method bound to an instance.
	KindInstanceMethod Kind = "INSTANCE_METHOD"

	// KindClassMethod is a class/static method.
	KindClassMethod Kind = "CLASS_METHOD"

	// KindConstructor is a type constructor or initializer.
	KindConstructor Kind = "CONSTRUCTOR"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// DisplayName returns the report-facing name for the kind.
//
// Constructors display as "constructor", free functions and class methods
// collapse to "function" (callers cannot distinguish them across ecosystems),
// and instance methods display as "method".
func (k Kind) DisplayName() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindFunction, KindClassMethod:
		return "function"
	case KindInstanceMethod:
		return "method"
	default:
		return "unknown"
	}
}

// DisplayPriority returns the sort rank used when rendering match tables:
// constructor < function < method < unknown.
func (k Kind) DisplayPriority() int {
	switch k {
	case KindConstructor:
		return 0
	case KindFunction, KindClassMethod:
		return 1
	case KindInstanceMethod:
		return 2
	default:
		return 3
	}
}

// =============================================================================
// Maturity
// =============================================================================

// Maturity indicates the stability level advertised for a feature.
// It is carried through for report consumers and is not scored.
type Maturity string

const (
	MaturityStable       Maturity = "STABLE"
	MaturityExperimental Maturity = "EXPERIMENTAL"
	MaturityBeta         Maturity = "BETA"
	MaturityDeprecated   Maturity = "DEPRECATED"
	MaturityUnknown      Maturity = "UNKNOWN"
)

// =============================================================================
// Canonical Type Tags
// =============================================================================

// TypeTag is one of the fixed vocabulary all ecosystem-specific types are
// normalized to upstream. A parameter or return may normalize to more than
// one tag (union and optional types).
type TypeTag string

const (
	TagString  TypeTag = "STRING"
	TagNumber  TypeTag = "NUMBER"
	TagBoolean TypeTag = "BOOLEAN"
	TagList    TypeTag = "LIST"
	TagSet     TypeTag = "SET"
	TagMap     TypeTag = "MAP"
	TagObject  TypeTag = "OBJECT"
	TagUnknown TypeTag = "UNKNOWN"
	TagNull    TypeTag = "NULL"
)

// TagSetsEqual reports whether two tag slices contain the same set of tags,
// ignoring order and duplicates.
func TagSetsEqual(a, b []TypeTag) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	as := make(map[TypeTag]struct{}, len(a))
	for _, t := range a {
		as[t] = struct{}{}
	}
	bs := make(map[TypeTag]struct{}, len(b))
	for _, t := range b {
		bs[t] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for t := range as {
		if _, ok := bs[t]; !ok {
			return false
		}
	}
	return true
}

// =============================================================================
// Param
// =============================================================================

// NullMember is the member_of sentinel meaning "free function". The
// comparison treats it case-insensitively.
const NullMember = "null"

// Param is one parameter of a feature's contract.
type Param struct {
	// OriginalName is the parameter name as written in the source ecosystem.
	OriginalName string `json:"original_name,omitempty" yaml:"original_name,omitempty"`

	// NormalizedName is the extraction-normalized (snake_case) name.
	NormalizedName string `json:"normalized_name" yaml:"normalized_name" validate:"required"`

	// OriginalTypes are the raw type strings before normalization.
	OriginalTypes []string `json:"original_types,omitempty" yaml:"original_types,omitempty"`

	// NormalizedTypes is the set of canonical tags this parameter accepts.
	NormalizedTypes []TypeTag `json:"normalized_types,omitempty" yaml:"normalized_types,omitempty" validate:"dive,oneof=STRING NUMBER BOOLEAN LIST SET MAP OBJECT UNKNOWN NULL"`

	// Description is extractor-provided documentation (not scored).
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// IsOptional marks parameters with defaults or optional markers.
	IsOptional bool `json:"is_optional,omitempty" yaml:"is_optional,omitempty"`
}

// =============================================================================
// Feature
// =============================================================================

// Feature is one canonical callable-unit record extracted from an
// ecosystem's API surface.
type Feature struct {
	// --- Identity ---

	// OriginalName is the name as written in the source ecosystem.
	OriginalName string `json:"original_name,omitempty" yaml:"original_name,omitempty"`

	// NormalizedName is the extraction-normalized name. Scoring compares
	// normalized fields only.
	NormalizedName string `json:"normalized_name" yaml:"normalized_name" validate:"required"`

	// Description is extractor-provided documentation (not scored).
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// --- Context ---

	// MemberOf is the enclosing type, or the "null" sentinel for free
	// functions. Loading defaults empty values to the sentinel.
	MemberOf string `json:"member_of,omitempty" yaml:"member_of,omitempty"`

	// NormalizedMemberOf is the extraction-normalized enclosing type.
	NormalizedMemberOf string `json:"normalized_member_of,omitempty" yaml:"normalized_member_of,omitempty"`

	// Namespace is the raw module/package path of the feature.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// NormalizedNamespace is the extraction-normalized module path.
	NormalizedNamespace string `json:"normalized_namespace,omitempty" yaml:"normalized_namespace,omitempty"`

	// Kind is the callable-unit category.
	Kind Kind `json:"kind" yaml:"kind" validate:"required,oneof=FUNCTION INSTANCE_METHOD CLASS_METHOD CONSTRUCTOR"`

	// Maturity is the advertised stability level, when known.
	Maturity Maturity `json:"maturity,omitempty" yaml:"maturity,omitempty" validate:"omitempty,oneof=STABLE EXPERIMENTAL BETA DEPRECATED UNKNOWN"`

	// FilePath is where the extractor found the feature (not scored).
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`

	// --- Contract ---

	// Parameters is the ordered parameter list.
	Parameters []Param `json:"parameters,omitempty" yaml:"parameters,omitempty" validate:"dive"`

	// OriginalReturnTypes are the raw return type strings.
	OriginalReturnTypes []string `json:"original_return_types,omitempty" yaml:"original_return_types,omitempty"`

	// ReturnTypes is the set of canonical return tags.
	ReturnTypes []TypeTag `json:"return_types,omitempty" yaml:"return_types,omitempty" validate:"dive,oneof=STRING NUMBER BOOLEAN LIST SET MAP OBJECT UNKNOWN NULL"`

	// IsAsync marks promise/coroutine-returning features.
	IsAsync bool `json:"is_async,omitempty" yaml:"is_async,omitempty"`
}

// IsFreeFunction reports whether the feature has no enclosing type.
func (f *Feature) IsFreeFunction() bool {
	return f.MemberOf == "" || strings.EqualFold(f.MemberOf, NullMember)
}

// DisplayName returns the report-facing qualified name: "Member.name" for
// members, or the bare name for free functions. Original spellings are
// preferred, falling back to normalized ones.
func (f *Feature) DisplayName() string {
	name := f.OriginalName
	if name == "" {
		name = f.NormalizedName
	}
	if !f.IsFreeFunction() {
		return fmt.Sprintf("%s.%s", f.MemberOf, name)
	}
	return name
}

// =============================================================================
// Registry
// =============================================================================

// Registry is the ordered collection of features extracted from one
// ecosystem implementation.
type Registry struct {
	// Ecosystem names the implementation (e.g. "python", "typescript").
	Ecosystem string `json:"ecosystem" yaml:"ecosystem" validate:"required"`

	// Version is the implementation version the surface was extracted from.
	Version string `json:"version" yaml:"version" validate:"required"`

	// Features is the extracted surface, in extraction order.
	Features []*Feature `json:"features" yaml:"features" validate:"dive,required"`
}

// EcosystemCode returns the short code used in report columns
// (python -> "py", typescript -> "ts", golang -> "go", java -> "java");
// unrecognized ecosystems lowercase their name.
func (r *Registry) EcosystemCode() string {
	switch strings.ToUpper(r.Ecosystem) {
	case "PYTHON", "PY":
		return "py"
	case "TYPESCRIPT", "TS":
		return "ts"
	case "JAVA":
		return "java"
	case "GOLANG", "GO":
		return "go"
	default:
		return strings.ToLower(r.Ecosystem)
	}
}

// EcosystemName returns the display name used in report headings.
func (r *Registry) EcosystemName() string {
	switch strings.ToUpper(r.Ecosystem) {
	case "PYTHON", "PY":
		return "Python"
	case "TYPESCRIPT", "TS":
		return "TypeScript"
	case "JAVA":
		return "Java"
	case "GOLANG", "GO":
		return "Go"
	default:
		return titleCase(r.Ecosystem)
	}
}

// titleCase upper-cases the first rune of each space-separated word.
// strings.Title is deprecated and Unicode casing is irrelevant for
// ecosystem names, so this stays byte-simple.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
