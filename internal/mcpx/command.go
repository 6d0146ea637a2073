package mcpx

import (
	"os"
	"os/exec"
	"path/filepath"
)

// ServerCommand builds the subprocess command for a tool-server program.
// Python servers run under uv when the server directory carries uv project
// files (dependency isolation), plain python otherwise; JavaScript servers
// run under node; anything else is executed directly.
func ServerCommand(serverPath string) *exec.Cmd {
	switch filepath.Ext(serverPath) {
	case ".py":
		abs, err := filepath.Abs(serverPath)
		if err != nil {
			abs = serverPath
		}
		dir := filepath.Dir(abs)
		if fileExists(filepath.Join(dir, "uv.lock")) || fileExists(filepath.Join(dir, "pyproject.toml")) {
			return exec.Command("uv", "run", "--directory", dir, "python", filepath.Base(abs))
		}
		return exec.Command("python", serverPath)
	case ".js", ".mjs":
		return exec.Command("node", serverPath)
	default:
		return exec.Command(serverPath)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
