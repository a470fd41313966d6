package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mp4convert/internal/config"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeScript(t, present, "exit 0\n")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Resolved != present {
		t.Fatalf("expected first requirement to resolve, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	missing := Missing(results)
	if len(missing) != 1 || missing[0].Name != "Missing" {
		t.Fatalf("expected only the required missing binary, got %#v", missing)
	}
}

func TestRequirementsUseConfiguredTranscoder(t *testing.T) {
	cfg := config.Default()
	cfg.Transcoder.Binary = "/opt/ffmpeg/bin/ffmpeg"

	reqs := Requirements(&cfg)
	if len(reqs) != 1 || reqs[0].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected requirements %#v", reqs)
	}
}

func TestRequirementsResolveFromPath(t *testing.T) {
	binDir := t.TempDir()
	writeScript(t, filepath.Join(binDir, "ffmpeg"), "exit 0\n")
	t.Setenv("PATH", binDir)
	t.Setenv("MP4CONVERT_FFMPEG", "")

	cfg := config.Default()
	statuses := CheckBinaries(Requirements(&cfg))
	if !statuses[0].Available {
		t.Fatalf("expected ffmpeg on PATH, got %#v", statuses[0])
	}
	if statuses[0].Resolved != filepath.Join(binDir, "ffmpeg") {
		t.Fatalf("resolved = %q", statuses[0].Resolved)
	}
}

func TestVersion(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	writeScript(t, bin, "echo\necho 'ffmpeg version 7.1 Copyright (c) 2000-2024'\necho 'built with gcc'\n")

	got, err := Version(context.Background(), bin)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if got != "ffmpeg version 7.1 Copyright (c) 2000-2024" {
		t.Fatalf("unexpected version line %q", got)
	}
}

func TestVersionFailure(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	writeScript(t, bin, "exit 3\n")

	if _, err := Version(context.Background(), bin); err == nil {
		t.Fatal("expected error for failing binary")
	}
}
