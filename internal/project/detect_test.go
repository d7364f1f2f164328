package project

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDetectsLanguagesByFrequency(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "main.go"))
	touch(t, filepath.Join(dir, "util.go"))
	touch(t, filepath.Join(dir, "helper.go"))
	touch(t, filepath.Join(dir, "script.py"))

	info, err := Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []string{"Go", "Python"}
	if !reflect.DeepEqual(info.Languages, want) {
		t.Errorf("Languages = %v, want %v (most common first)", info.Languages, want)
	}
}

func TestScanDetectsMarkers(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "go.mod"))
	touch(t, filepath.Join(dir, ".golangci.yml"))
	touch(t, filepath.Join(dir, "Dockerfile"))
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, ".vscode"), 0o755); err != nil {
		t.Fatal(err)
	}

	info, err := Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if !reflect.DeepEqual(info.Frameworks, []string{"Go modules"}) {
		t.Errorf("Frameworks = %v", info.Frameworks)
	}
	if !reflect.DeepEqual(info.Linters, []string{"golangci-lint"}) {
		t.Errorf("Linters = %v", info.Linters)
	}
	if !reflect.DeepEqual(info.IDEs, []string{"VS Code"}) {
		t.Errorf("IDEs = %v", info.IDEs)
	}
	if !info.HasGit {
		t.Error("HasGit = false")
	}
	if !info.HasDocker {
		t.Error("HasDocker = false")
	}
}

func TestScanDetectsTests(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "main.go"))
	touch(t, filepath.Join(dir, "main_test.go"))

	info, err := Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !info.HasTests {
		t.Error("HasTests = false with a _test.go file present")
	}
}

func TestScanSkipsVendoredDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "node_modules", "dep", "index.js"))
	touch(t, filepath.Join(dir, "vendor", "lib.go"))

	info, err := Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(info.Languages) != 0 {
		t.Errorf("Languages = %v, vendored trees must be skipped", info.Languages)
	}
}

func TestScanDepthCap(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "a", "b", "c", "d")
	touch(t, filepath.Join(deep, "hidden.rs"))
	touch(t, filepath.Join(dir, "shallow.go"))

	info, err := Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, l := range info.Languages {
		if l == "Rust" {
			t.Error("file below the depth cap was counted")
		}
	}
}

func TestScanEmptyDir(t *testing.T) {
	info, err := Scan(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !info.Empty() {
		t.Errorf("Empty() = false for an empty directory: %+v", info)
	}
	if info.Summary() != "" {
		t.Errorf("Summary() = %q, want empty", info.Summary())
	}
}

func TestSummary(t *testing.T) {
	info := &Info{
		Languages: []string{"Go", "SQL"},
		Linters:   []string{"golangci-lint"},
		HasGit:    true,
	}

	s := info.Summary()
	if !strings.Contains(s, "- Languages: Go, SQL") {
		t.Errorf("Summary missing languages:\n%s", s)
	}
	if !strings.Contains(s, "- Linting: golangci-lint") {
		t.Errorf("Summary missing linting:\n%s", s)
	}
	if !strings.Contains(s, "- Uses Git") {
		t.Errorf("Summary missing git:\n%s", s)
	}
}

func TestScanCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "main.go"))

	if _, err := Scan(ctx, dir); err == nil {
		t.Error("expected error from a cancelled context")
	}
}
