// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
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
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"  error  ", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "test-service",
		Quiet:   true,
	})

	logger.Info("hello from test", "key", "value")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	name := "test-service_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("log file is not JSON: %v", err)
	}
	if record["msg"] != "hello from test" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["service"] != "test-service" {
		t.Errorf("service attribute = %v", record["service"])
	}
	if record["key"] != "value" {
		t.Errorf("key attribute = %v", record["key"])
	}
}

func TestNew_CreatesMissingLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	logger := New(Config{LogDir: dir, Service: "svc", Quiet: true})
	logger.Info("ping")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("log directory was not created: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected one log file, found %d", len(entries))
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "svc",
		Quiet:   true,
	})

	logger.Info("should be filtered")
	logger.Warn("should appear")
	logger.Close()

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("log file missing: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "should be filtered") {
		t.Error("info record leaked through a warn-level logger")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("warn record missing")
	}
}

func TestClose_Idempotent(t *testing.T) {
	logger := New(Config{LogDir: t.TempDir(), Service: "svc", Quiet: true})
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestClose_StderrOnly(t *testing.T) {
	logger := Default()
	if err := logger.Close(); err != nil {
		t.Fatalf("Close on stderr-only logger: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"/var/log/app", "/var/log/app"},
		{"relative/path", "relative/path"},
		{"~user/logs", "~user/logs"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var bufA, bufB bytes.Buffer
	h := newMultiHandler(
		slog.NewJSONHandler(&bufA, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&bufB, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h)

	logger.Info("info record")
	logger.Error("error record")

	if !strings.Contains(bufA.String(), "info record") || !strings.Contains(bufA.String(), "error record") {
		t.Error("info-level destination missing records")
	}
	if strings.Contains(bufB.String(), "info record") {
		t.Error("error-level destination received an info record")
	}
	if !strings.Contains(bufB.String(), "error record") {
		t.Error("error-level destination missing the error record")
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := newMultiHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info must be disabled when all destinations are error-level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error must be enabled")
	}
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newMultiHandler(slog.NewJSONHandler(&buf, nil)).
		WithAttrs([]slog.Attr{slog.String("component", "test")})

	slog.New(h).Info("tagged")
	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Errorf("attribute missing from output: %s", buf.String())
	}
}
