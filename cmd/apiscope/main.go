// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command apiscope compares the public API surface of a library implemented
// in several language ecosystems and reports how well the surfaces
// correspond.
//
// Each ecosystem implementation is reduced, by an external extractor, to a
// registry file of canonical feature records. apiscope matches the
// registries module by module and renders a parity report.
//
// Usage:
//
//	# Markdown Jaccard parity report between two registries
//	apiscope report base.yaml target.yaml --output report.md
//
//	# Directional precision/recall/F1 view
//	apiscope report base.yaml target.yaml --report-type f1 --output report.md
//
//	# Flat CSV for spreadsheet analysis
//	apiscope report base.yaml target.yaml --report-type raw --output report.csv
//
//	# N-way support matrix across three or more registries
//	apiscope report py.yaml ts.yaml go.yaml --report-type matrix --output matrix.md
//
//	# Check registry files without generating anything
//	apiscope validate base.yaml target.yaml
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
