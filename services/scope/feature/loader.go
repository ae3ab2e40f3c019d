// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is the shared struct validator. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadRegistry reads a registry file and returns the parsed Registry.
//
// # Description
//
// The file format is chosen by extension: ".json" parses as JSON, everything
// else as YAML. Both decoders run strict: unknown fields, malformed enum
// literals and missing required fields fail the load with a descriptive
// error rather than silently dropping data. No partial registry is ever
// returned.
//
// Inputs:
//
//	path - Registry file path. Must not be empty.
//
// Outputs:
//
//	*Registry - The validated registry.
//	error - Non-nil on read, parse or validation failure.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var reg *Registry
	if strings.EqualFold(filepath.Ext(path), ".json") {
		reg, err = ParseJSON(data)
	} else {
		reg, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return reg, nil
}

// ParseYAML parses a Registry from YAML with strict field checking.
func ParseYAML(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var reg Registry
	if err := dec.Decode(&reg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRegistry, err)
	}
	// A registry file must hold exactly one document.
	if err := dec.Decode(new(Registry)); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing YAML document", ErrMalformedRegistry)
	}
	return finishLoad(&reg)
}

// ParseJSON parses a Registry from JSON with strict field checking.
func ParseJSON(data []byte) (*Registry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var reg Registry
	if err := dec.Decode(&reg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRegistry, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing JSON content", ErrMalformedRegistry)
	}
	return finishLoad(&reg)
}

// finishLoad applies field defaults and runs structural validation.
func finishLoad(reg *Registry) (*Registry, error) {
	for _, f := range reg.Features {
		if f == nil {
			return nil, fmt.Errorf("%w: null feature entry", ErrMalformedRegistry)
		}
		if f.MemberOf == "" {
			f.MemberOf = NullMember
		}
		if f.NormalizedMemberOf == "" {
			f.NormalizedMemberOf = NullMember
		}
		if f.Maturity == "" {
			f.Maturity = MaturityUnknown
		}
	}

	if err := validate.Struct(reg); err != nil {
		var verrs validator.ValidationErrors
		if ok := isValidationErrors(err, &verrs); ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRegistry, describeValidation(verrs))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	return reg, nil
}

// isValidationErrors unwraps err into validator.ValidationErrors.
func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// describeValidation flattens validation failures into one readable line.
func describeValidation(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "oneof" {
			parts = append(parts, fmt.Sprintf("%s has invalid value %q", fe.Namespace(), fe.Value()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
