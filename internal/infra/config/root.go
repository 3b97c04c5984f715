// Where: cli/internal/infra/config/root.go
// What: Slim Bootloader root discovery.
// Why: Resolve relative integration paths from one explicit base directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/sbl-payload/cli/internal/infra/envutil"
	"github.com/poruru/sbl-payload/cli/internal/infra/fileops"
)

// ErrSBLRootNotFound reports an explicit or environment root that is not a directory.
var ErrSBLRootNotFound = errors.New("sbl root not found")

// HostSuffixSBLRoot selects SBLPAYLOAD_SBL_ROOT.
const HostSuffixSBLRoot = "SBL_ROOT"

// rootMarker identifies the Slim Bootloader checkout.
const rootMarker = "BuildLoader.py"

// ResolveSBLRoot determines the Slim Bootloader root.
// Priority order.
// 1. Explicit value (flag or config sbl_root, relative to startDir).
// 2. SBLPAYLOAD_SBL_ROOT.
// 3. Upward search for BuildLoader.py from startDir.
// 4. startDir itself.
func ResolveSBLRoot(startDir, explicit string) (string, error) {
	base, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve start dir: %w", err)
	}

	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return existingRoot(absFrom(base, explicit))
	}
	if env := strings.TrimSpace(envutil.GetHostEnv(HostSuffixSBLRoot)); env != "" {
		return existingRoot(absFrom(base, env))
	}
	if root, ok := findSBLRoot(base); ok {
		return root, nil
	}
	return base, nil
}

func existingRoot(path string) (string, error) {
	if !fileops.DirExists(path) {
		return "", fmt.Errorf("%w: %s", ErrSBLRootNotFound, path)
	}
	return path, nil
}

func absFrom(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

func findSBLRoot(dir string) (string, bool) {
	for {
		if info, err := os.Stat(filepath.Join(dir, rootMarker)); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
