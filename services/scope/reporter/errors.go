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

import "errors"

// Report configuration errors. All are surfaced before any matching work.
var (
	// ErrUnknownFormat is returned for a report-type selector outside the
	// known set.
	ErrUnknownFormat = errors.New("unknown report format")

	// ErrInvalidThreshold is returned when alpha falls outside (0,1].
	ErrInvalidThreshold = errors.New("invalid similarity threshold")

	// ErrRegistryCount is returned when the registry count does not fit the
	// requested format (pairwise formats need exactly 2, matrix needs >= 2).
	ErrRegistryCount = errors.New("wrong number of registries")
)
