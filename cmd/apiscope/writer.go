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
	"os"
	"path/filepath"
	"strings"

	"github.com/apiscope/apiscope/services/scope/reporter"
)

// writeResult persists a rendered report.
//
// The master goes to outputPath. When the result carries module bodies they
// are written into a sibling "<stem>_modules" directory, and the literal
// placeholder tokens are substituted here: {master_report} in each module
// body becomes the master's filename (module files sit one level down, so
// the name alone is enough for the relative link), and {modules_dir} in the
// master becomes the modules directory name — or "." when there are no
// module files.
func writeResult(outputPath string, result *reporter.Result) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	master := result.Master
	if len(result.ModuleFiles) == 0 {
		master = strings.ReplaceAll(master, reporter.ModulesDirToken, ".")
		if err := os.WriteFile(outputPath, []byte(master), 0644); err != nil {
			return fmt.Errorf("write report %s: %w", outputPath, err)
		}
		return nil
	}

	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	modulesDirName := stem + "_modules"
	modulesDir := filepath.Join(filepath.Dir(outputPath), modulesDirName)
	if err := os.MkdirAll(modulesDir, 0750); err != nil {
		return fmt.Errorf("create modules directory: %w", err)
	}

	masterName := filepath.Base(outputPath)
	for filename, body := range result.ModuleFiles {
		body = strings.ReplaceAll(body, reporter.MasterReportToken, masterName)
		path := filepath.Join(modulesDir, filename)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return fmt.Errorf("write module report %s: %w", path, err)
		}
	}

	master = strings.ReplaceAll(master, reporter.ModulesDirToken, modulesDirName)
	if err := os.WriteFile(outputPath, []byte(master), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", outputPath, err)
	}
	return nil
}
