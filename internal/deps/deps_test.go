package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckScriptReportsMissing(t *testing.T) {
	status := CheckScript(filepath.Join(t.TempDir(), "missing.sh"))
	if status.Available {
		t.Fatal("expected missing script to be unavailable")
	}
	if !strings.Contains(status.Detail, "not found") {
		t.Fatalf("unexpected detail: %q", status.Detail)
	}
}

func TestCheckScriptReportsNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	status := CheckScript(path)
	if status.Available {
		t.Fatal("expected non-executable script to be unavailable")
	}
	if !strings.Contains(status.Detail, "not executable") {
		t.Fatalf("unexpected detail: %q", status.Detail)
	}
}

func TestCheckScriptAcceptsExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	status := CheckScript(path)
	if !status.Available {
		t.Fatalf("expected executable script to be available, detail: %q", status.Detail)
	}
}

func TestCheckScriptReportsUnconfigured(t *testing.T) {
	status := CheckScript("")
	if status.Available {
		t.Fatal("expected empty path to be unavailable")
	}
}
