// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// CLI status styles. Reports go to files; these touch stdout only for the
// final confirmation line.
var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2CD7C7")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E74C3C")).
			Bold(true)
)

// printSuccess prints a styled confirmation line to stdout.
func printSuccess(msg string) {
	fmt.Println(successStyle.Render("✓ ") + msg)
}

// printError prints a styled error line to stdout.
func printError(msg string) {
	fmt.Println(errorStyle.Render("✗ ") + msg)
}
