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

	"github.com/spf13/cobra"

	"github.com/apiscope/apiscope/pkg/logging"
	"github.com/apiscope/apiscope/services/scope/feature"
	"github.com/apiscope/apiscope/services/scope/reporter"
)

const version = "0.3.0"

// --- Global Command Variables ---
var (
	alpha      float64
	reportType string
	outputPath string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:     "apiscope",
		Short:   "Compare API surfaces across language ecosystems",
		Version: version,
		Long: `apiscope matches extracted feature registries from independent
implementations of the same library and reports feature parity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	reportCmd = &cobra.Command{
		Use:   "report <registry>...",
		Short: "Match two or more feature registries and write a parity report",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runReport,
	}

	validateCmd = &cobra.Command{
		Use:   "validate <registry>...",
		Short: "Check that registry files parse and validate",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
)

func init() {
	reportCmd.Flags().Float64Var(&alpha, "alpha", 0.8,
		"similarity threshold for solid matches, in (0,1]")
	reportCmd.Flags().StringVar(&reportType, "report-type", string(reporter.FormatSymmetric),
		"report encoding: md, f1, raw, or matrix")
	reportCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"path for the master report file")
	_ = reportCmd.MarkFlagRequired("output")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(validateCmd)
}

// newLogger builds the CLI logger honoring the verbose flag.
func newLogger() *logging.Logger {
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{Level: level, Service: "apiscope"})
}

// runReport loads the registries, generates the requested report and writes
// it to disk. Configuration problems (bad alpha, bad report type, wrong
// registry count) surface before any matching work begins.
func runReport(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Close()

	format, err := reporter.ParseFormat(reportType)
	if err != nil {
		return err
	}

	registries := make([]*feature.Registry, 0, len(args))
	for _, path := range args {
		reg, err := feature.LoadRegistry(path)
		if err != nil {
			return err
		}
		logger.Debug("registry loaded",
			"path", path,
			"ecosystem", reg.Ecosystem,
			"features", len(reg.Features),
		)
		registries = append(registries, reg)
	}

	gen, err := reporter.New(registries, alpha, logger)
	if err != nil {
		return err
	}
	result, err := gen.Generate(cmd.Context(), format)
	if err != nil {
		return err
	}

	if err := writeResult(outputPath, result); err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Report written to %s (%d module files)",
		outputPath, len(result.ModuleFiles)))
	return nil
}

// runValidate loads each registry and reports its header fields, failing on
// the first file that does not parse or validate.
func runValidate(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Close()

	for _, path := range args {
		reg, err := feature.LoadRegistry(path)
		if err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("%s: %s %s, %d features",
			path, reg.EcosystemName(), reg.Version, len(reg.Features)))
	}
	return nil
}
