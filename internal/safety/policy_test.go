package safety_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/quietfold/mcpchat/internal/safety"
)

func TestResolveWrite_DenyList(t *testing.T) {
	root := t.TempDir()
	_ = os.Mkdir(filepath.Join(root, ".git"), 0o755)
	_ = os.MkdirAll(filepath.Join(root, ".mcpchat", "sub"), 0o755)

	cases := []struct {
		name string
		rel  string
	}{
		{"git head", ".git/HEAD"},
		{"git config", ".git/config"},
		{"artifacts conversation", ".mcpchat/conversation.json"},
		{"artifacts subdir", ".mcpchat/sub/state.json"},
		{"go.mod at root", "go.mod"},
		{"go.sum deep", "sub/dir/go.sum"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := safety.ResolveWrite(root, tc.rel); err == nil {
				t.Fatalf("expected deny for %q", tc.rel)
			} else if !strings.Contains(err.Error(), safety.CodeDeniedWrite) {
				t.Fatalf("expected %s, got: %v", safety.CodeDeniedWrite, err)
			}
		})
	}
}

func TestResolveWrite_AbsoluteRejected(t *testing.T) {
	root := t.TempDir()
	abs, err := filepath.Abs(".")
	if err != nil {
		t.Skipf("cannot compute abs: %v", err)
	}
	if _, err := safety.ResolveWrite(root, abs); err == nil {
		t.Fatal("expected reject for absolute path")
	} else if !strings.Contains(err.Error(), safety.CodeOutsideSandbox) {
		t.Fatalf("expected %s, got: %v", safety.CodeOutsideSandbox, err)
	}
}

func TestResolveWrite_SymlinkEscapeOnNewFile(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	if runtime.GOOS == "windows" {
		t.Skip("symlink test skipped on Windows")
	}
	link := filepath.Join(root, "out")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlink not allowed on this FS: %v", err)
	}

	// Leaf does not exist; parent is a symlink pointing outside.
	if _, err := safety.ResolveWrite(root, "out/newfile.txt"); err == nil {
		t.Fatal("expected reject for symlink escape via ancestor")
	} else if !strings.Contains(err.Error(), safety.CodeOutsideSandbox) {
		t.Fatalf("expected %s, got %v", safety.CodeOutsideSandbox, err)
	}
}

func TestResolveWrite_AllowNormal(t *testing.T) {
	root := t.TempDir()
	// Normalize root to avoid /var vs /private/var mismatches on macOS.
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	_ = os.MkdirAll(filepath.Join(root, "sub", "dir"), 0o755)

	p, err := safety.ResolveWrite(root, "sub/dir/new.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p, root+string(filepath.Separator)) {
		t.Fatalf("resolved path %q not under root %q", p, root)
	}
}

func TestRoots_Defaults(t *testing.T) {
	read, write, err := safety.Roots("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if read == "" || write != read {
		t.Fatalf("expected write root to default to read root: read=%q write=%q", read, write)
	}
	if !filepath.IsAbs(read) {
		t.Fatalf("expected absolute root, got %q", read)
	}
}

func TestPolicyError_JSONBody(t *testing.T) {
	err := safety.PolicyError{Code: safety.CodeDeniedWrite, Message: "nope"}
	if !strings.HasPrefix(err.Error(), "{") || !strings.Contains(err.Error(), `"code"`) {
		t.Fatalf("expected compact JSON body, got %q", err.Error())
	}
}
