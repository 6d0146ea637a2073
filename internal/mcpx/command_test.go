package mcpx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestServerCommand_PlainPython(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "server.py")
	writeFile(t, script)

	cmd := ServerCommand(script)
	if got := cmd.Args; len(got) != 2 || filepath.Base(got[0]) != "python" || got[1] != script {
		t.Fatalf("unexpected args: %v", got)
	}
}

func TestServerCommand_UvProject(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "server.py")
	writeFile(t, script)
	writeFile(t, filepath.Join(dir, "uv.lock"))

	cmd := ServerCommand(script)
	args := cmd.Args
	if len(args) != 6 || filepath.Base(args[0]) != "uv" || args[1] != "run" {
		t.Fatalf("unexpected args: %v", args)
	}
	if args[2] != "--directory" || args[3] != dir {
		t.Fatalf("expected --directory %s, got %v", dir, args)
	}
	if args[4] != "python" || args[5] != "server.py" {
		t.Fatalf("unexpected script invocation: %v", args)
	}
}

func TestServerCommand_PyprojectAlsoSelectsUv(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "server.py")
	writeFile(t, script)
	writeFile(t, filepath.Join(dir, "pyproject.toml"))

	cmd := ServerCommand(script)
	if filepath.Base(cmd.Args[0]) != "uv" {
		t.Fatalf("expected uv runner, got %v", cmd.Args)
	}
}

func TestServerCommand_Node(t *testing.T) {
	for _, name := range []string{"server.js", "server.mjs"} {
		cmd := ServerCommand(name)
		if got := cmd.Args; len(got) != 2 || filepath.Base(got[0]) != "node" || got[1] != name {
			t.Fatalf("unexpected args for %s: %v", name, got)
		}
	}
}

func TestServerCommand_DirectExecutable(t *testing.T) {
	cmd := ServerCommand("/usr/local/bin/weather-server")
	if got := cmd.Args; len(got) != 1 || got[0] != "/usr/local/bin/weather-server" {
		t.Fatalf("unexpected args: %v", got)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}
