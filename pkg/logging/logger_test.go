// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Slog())
	assert.NoError(t, logger.Close())
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelDebug,
		LogDir:  dir,
		Service: "scopetest",
		Quiet:   true,
	})

	logger.Info("module matched", "module", "agents", "solid", 3)
	logger.Debug("debug detail", "key", "value")
	require.NoError(t, logger.Close())

	filename := fmt.Sprintf("scopetest_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"msg":"module matched"`)
	assert.Contains(t, content, `"module":"agents"`)
	assert.Contains(t, content, `"service":"scopetest"`)
	assert.Contains(t, content, `"msg":"debug detail"`)
}

func TestNew_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "scopetest",
		Quiet:   true,
	})

	logger.Info("should be dropped")
	logger.Warn("should appear")
	require.NoError(t, logger.Close())

	filename := fmt.Sprintf("scopetest_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "should be dropped")
	assert.Contains(t, content, "should appear")
}

func TestWith_ChildCarriesAttributes(t *testing.T) {
	dir := t.TempDir()
	parent := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "scopetest",
		Quiet:   true,
	})
	child := parent.With("run_id", "abc-123")

	child.Info("child entry")
	parent.Info("parent entry")
	require.NoError(t, parent.Close())

	filename := fmt.Sprintf("scopetest_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"run_id":"abc-123"`)
	assert.NotContains(t, lines[1], "run_id")
}

func TestClose_Idempotent(t *testing.T) {
	logger := New(Config{Level: LevelInfo, LogDir: t.TempDir(), Quiet: true})
	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}
