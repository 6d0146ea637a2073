package tools_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quietfold/mcpchat/tools"
)

func TestReadFile_Happy(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	in := tools.ReadFileInput{Path: rel(t, "a.txt")}
	b, _ := json.Marshal(in)
	out, err := tools.ReadFileDefinition.Function(b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "hi" {
		t.Fatalf("got %q", out)
	}
}

func TestReadFile_OffsetLimitWindow(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	content := "l0\nl1\nl2\nl3\nl4"
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	in := tools.ReadFileInput{Path: rel(t, "a.txt"), Offset: 1, Limit: 2}
	b, _ := json.Marshal(in)
	out, err := tools.ReadFileDefinition.Function(b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(out, "l1\nl2") {
		t.Fatalf("unexpected window: %q", out)
	}
	// Lines remain beyond the window, so the sentinel must be appended.
	if !strings.Contains(out, "truncated") {
		t.Fatalf("expected truncation sentinel, got %q", out)
	}

	in = tools.ReadFileInput{Path: rel(t, "a.txt")}
	b, _ = json.Marshal(in)
	full, err := tools.ReadFileDefinition.Function(b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if full != content {
		t.Fatalf("full read mismatch: %q", full)
	}
}

func TestReadFile_LongLineClamped(t *testing.T) {
	dir := filepath.Join(sharedDir, rel(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	long := strings.Repeat("x", 5000)
	if err := os.WriteFile(filepath.Join(dir, "long.txt"), []byte(long), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	in := tools.ReadFileInput{Path: rel(t, "long.txt")}
	b, _ := json.Marshal(in)
	out, err := tools.ReadFileDefinition.Function(b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) >= 5000 {
		t.Fatalf("long line not clamped: %d bytes", len(out))
	}
	if !strings.Contains(out, "truncated") {
		t.Fatalf("expected truncation sentinel")
	}
}

func TestReadFile_NotFound(t *testing.T) {
	in := tools.ReadFileInput{Path: rel(t, "does-not-exist.txt")}
	b, _ := json.Marshal(in)
	_, err := tools.ReadFileDefinition.Function(b)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestReadFile_DirectoryPath_Error(t *testing.T) {
	sub := filepath.Join(sharedDir, rel(t, "sub"))
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	in := tools.ReadFileInput{Path: rel(t, "sub")}
	b, _ := json.Marshal(in)
	_, err := tools.ReadFileDefinition.Function(b)
	if err == nil {
		t.Fatal("expected error for directory path")
	}
	if !strings.Contains(err.Error(), "ERR_NOT_A_FILE") {
		t.Fatalf("expected ERR_NOT_A_FILE, got: %v", err)
	}
}

func TestReadFile_DenylistReadsArtifacts(t *testing.T) {
	if err := os.MkdirAll(filepath.Join(sharedDir, ".mcpchat"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sharedDir, ".mcpchat", "conv.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	in := tools.ReadFileInput{Path: ".mcpchat/conv.json"}
	b, _ := json.Marshal(in)
	_, err := tools.ReadFileDefinition.Function(b)
	if err == nil {
		t.Fatal("expected deny for .mcpchat/")
	}
	if !strings.Contains(err.Error(), "ERR_DENIED_READ") {
		t.Fatalf("expected ERR_DENIED_READ, got: %v", err)
	}
}
