// Where: cli/internal/domain/toolchain/toolchain.go
// What: Host toolchain identification for payload build paths.
// Why: Select POSIX or Windows probing by capability instead of inline branching.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrUnresolved is returned when no toolchain identifier can be derived.
var ErrUnresolved = errors.New("toolchain unresolved")

var (
	ErrUnsupportedOS   = fmt.Errorf("%w: unsupported operating system", ErrUnresolved)
	ErrNoVisualStudio  = fmt.Errorf("%w: could not find supported Visual Studio version", ErrUnresolved)
	errCompilerVersion = fmt.Errorf("%w: unreadable compiler version", ErrUnresolved)
)

// ID names the toolchain that produced an EDK2 build tree, e.g. GCC5 or VS2015x86.
type ID string

func (id ID) String() string { return string(id) }

// OutputRunner runs a command and returns its combined output.
type OutputRunner interface {
	RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// Host describes the machine the payload was built on.
type Host struct {
	OS        string
	LookupEnv func(string) (string, bool)
	Runner    OutputRunner
}

func (h Host) lookupEnv(key string) (string, bool) {
	if h.LookupEnv == nil {
		return os.LookupEnv(key)
	}
	return h.LookupEnv(key)
}

// Resolver derives a toolchain identifier from the host.
type Resolver interface {
	Resolve(ctx context.Context, host Host) (ID, error)
}

var posixFamilies = map[string]struct{}{
	"aix": {}, "android": {}, "darwin": {}, "dragonfly": {}, "freebsd": {},
	"hurd": {}, "illumos": {}, "ios": {}, "linux": {}, "netbsd": {},
	"openbsd": {}, "solaris": {},
}

// ForHost picks the probing strategy for a GOOS value.
func ForHost(goos string) (Resolver, error) {
	if goos == "windows" {
		return WindowsResolver{}, nil
	}
	if _, ok := posixFamilies[goos]; ok {
		return PosixResolver{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}

// Resolve inspects the host with the strategy matching host.OS.
func Resolve(ctx context.Context, host Host) (ID, error) {
	resolver, err := ForHost(host.OS)
	if err != nil {
		return "", err
	}
	return resolver.Resolve(ctx, host)
}

// PosixResolver maps the GCC major version to GCC49 or GCC5.
type PosixResolver struct {
	Compiler string
}

func (r PosixResolver) Resolve(ctx context.Context, host Host) (ID, error) {
	if host.Runner == nil {
		return "", fmt.Errorf("%w: command runner is nil", ErrUnresolved)
	}
	compiler := r.Compiler
	if compiler == "" {
		compiler = "gcc"
	}
	output, err := host.Runner.RunOutput(ctx, "", compiler, "-dumpversion")
	if err != nil {
		return "", fmt.Errorf("%w: %s -dumpversion: %v", ErrUnresolved, compiler, err)
	}
	major, err := MajorVersion(string(output))
	if err != nil {
		return "", err
	}
	if major > 4 {
		return "GCC5", nil
	}
	return "GCC49", nil
}

// MajorVersion extracts the leading integer of a dotted version string.
func MajorVersion(version string) (int, error) {
	trimmed := strings.TrimSpace(version)
	head, _, _ := strings.Cut(trimmed, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errCompilerVersion, trimmed)
	}
	return major, nil
}

// VisualStudioYears is the descending preference order scanned on Windows.
var VisualStudioYears = []string{"2015", "2013", "2012", "2010", "2008"}

// WindowsResolver scans VS<year>_PREFIX variables.
type WindowsResolver struct {
	Years []string
}

func (r WindowsResolver) Resolve(_ context.Context, host Host) (ID, error) {
	years := r.Years
	if len(years) == 0 {
		years = VisualStudioYears
	}
	for _, year := range years {
		value, ok := host.lookupEnv("VS" + year + "_PREFIX")
		if !ok {
			continue
		}
		suffix := ""
		if strings.Contains(value, "(x86)") {
			suffix = "x86"
		}
		return ID("VS" + year + suffix), nil
	}
	return "", ErrNoVisualStudio
}
