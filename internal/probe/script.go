package probe

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// ScriptRelPath is where the probe script lives relative to the installed binary.
const ScriptRelPath = "scripts/probe.js"

//go:embed scripts/probe.js
var embeddedScript []byte

// EmbeddedScript returns the probe script compiled into the binary.
func EmbeddedScript() []byte {
	return append([]byte(nil), embeddedScript...)
}

// ScriptLocator finds the script passed to the runner.
//
// Lookup order:
//  1. Path, when set
//  2. scripts/probe.js next to the resolved executable
//  3. the embedded script, written once into the user cache directory
type ScriptLocator struct {
	// Path overrides the lookup entirely
	Path string

	// Executable returns the path of the running binary (default os.Executable)
	Executable func() (string, error)

	// CacheDir returns the directory the embedded script is written to
	// (default os.UserCacheDir, falling back to os.TempDir)
	CacheDir func() (string, error)
}

// Locate returns an absolute path to an existing script file.
func (l *ScriptLocator) Locate() (string, error) {
	if l.Path != "" {
		path, err := filepath.Abs(l.Path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve script path: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("script not found: %w", err)
		}
		return path, nil
	}

	if path, ok := l.besideExecutable(); ok {
		return path, nil
	}

	return l.materialize()
}

func (l *ScriptLocator) besideExecutable() (string, bool) {
	executable := l.Executable
	if executable == nil {
		executable = os.Executable
	}
	exe, err := executable()
	if err != nil {
		return "", false
	}
	if real, err := filepath.EvalSymlinks(exe); err == nil {
		exe = real
	}
	path := filepath.Join(filepath.Dir(exe), filepath.FromSlash(ScriptRelPath))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// materialize writes the embedded script to a content-addressed file so that
// concurrent callers and repeated runs share one copy.
func (l *ScriptLocator) materialize() (string, error) {
	dir, err := l.cacheDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "k6probe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create script cache directory: %w", err)
	}

	sum := sha256.Sum256(embeddedScript)
	path := filepath.Join(dir, "probe-"+hex.EncodeToString(sum[:8])+".js")
	if info, err := os.Stat(path); err == nil && info.Size() == int64(len(embeddedScript)) {
		return path, nil
	}

	tmp, err := os.CreateTemp(dir, "probe-*.js.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to write probe script: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(embeddedScript); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write probe script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write probe script: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to install probe script: %w", err)
	}
	return path, nil
}

func (l *ScriptLocator) cacheDir() (string, error) {
	if l.CacheDir != nil {
		return l.CacheDir()
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir, nil
	}
	return os.TempDir(), nil
}
