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

import "errors"

// Registry loading errors.
var (
	// ErrEmptyPath is returned when a registry path is empty.
	ErrEmptyPath = errors.New("registry path must not be empty")

	// ErrMalformedRegistry is returned when a registry file cannot be decoded.
	ErrMalformedRegistry = errors.New("malformed registry file")

	// ErrInvalidRegistry is returned when a decoded registry fails
	// structural validation (missing names, unknown enum values).
	ErrInvalidRegistry = errors.New("invalid registry")
)
