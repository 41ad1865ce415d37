package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestServerBaseURLFromFlag(t *testing.T) {
	flag := "http://example.test:9000/"
	ctx := newCommandContext(nil, &flag)
	base, err := ctx.serverBaseURL()
	if err != nil {
		t.Fatalf("serverBaseURL returned error: %v", err)
	}
	if base != "http://example.test:9000" {
		t.Fatalf("unexpected base URL: %q", base)
	}
}

func TestServerBaseURLMapsWildcardBindToLoopback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configFlag := writeEmptyConfig(t)
	serverFlag := ""
	ctx := newCommandContext(&configFlag, &serverFlag)

	base, err := ctx.serverBaseURL()
	if err != nil {
		t.Fatalf("serverBaseURL returned error: %v", err)
	}
	if base != "http://127.0.0.1:8080" {
		t.Fatalf("unexpected base URL: %q", base)
	}
}

func TestExtractCommandPrintsDaemonResponse(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"path":"/data/movie.mkv"`) {
			t.Errorf("unexpected payload: %s", body)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "Successfully processed '/data/movie.mkv'.\n\n--- SCRIPT OUTPUT ---\ndone\n")
	}))
	defer ts.Close()

	out, err := runCommand(t, "--config", writeEmptyConfig(t), "--server", ts.URL, "extract", "/data/movie.mkv")
	if err != nil {
		t.Fatalf("extract command returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Successfully processed") || !strings.Contains(out, "done") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestExtractCommandFailsOnNon200(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "Script failed to process '/data/movie.mkv'.")
	}))
	defer ts.Close()

	out, err := runCommand(t, "--config", writeEmptyConfig(t), "--server", ts.URL, "extract", "/data/movie.mkv")
	if err == nil {
		t.Fatal("expected error for failed extraction")
	}
	if !strings.Contains(out, "Script failed") {
		t.Fatalf("expected daemon body in output, got %q", out)
	}
}

func TestStatusCommandReportsRunningDaemon(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "Error: 'path' parameter is required in the URL query or JSON body.")
	}))
	defer ts.Close()

	out, err := runCommand(t, "--config", writeEmptyConfig(t), "--server", ts.URL, "status")
	if err != nil {
		t.Fatalf("status command returned error: %v", err)
	}
	if !strings.Contains(out, "running") {
		t.Fatalf("unexpected status output: %q", out)
	}
}

func TestStatusCommandReportsUnreachableDaemon(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := runCommand(t, "--config", writeEmptyConfig(t), "--server", "http://127.0.0.1:1", "status"); err == nil {
		t.Fatal("expected error for unreachable daemon")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected output to name target, got %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config to exist: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigShowListsSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out, err := runCommand(t, "--config", writeEmptyConfig(t), "config", "show")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	if !strings.Contains(out, "server.bind") || !strings.Contains(out, "extractor.script") {
		t.Fatalf("unexpected config show output: %q", out)
	}
}
