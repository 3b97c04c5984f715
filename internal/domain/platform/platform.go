// Where: cli/internal/domain/platform/platform.go
// What: Selector enumerations for platform, architecture and build target.
// Why: Keep argument validation pure so CLI and prompts share one source.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errUnsupportedPlatform = errors.New("unsupported platform")
	errUnsupportedArch     = errors.New("unsupported architecture")
	errUnsupportedTarget   = errors.New("unsupported target")
)

type (
	Platform string
	Arch     string
	Target   string
)

const (
	MinnowBoard3 Platform = "MinnowBoard3"
	Qemu         Platform = "Qemu"

	IA32 Arch = "IA32"
	X64  Arch = "X64"

	Release Target = "RELEASE"
	Debug   Target = "DEBUG"
)

// Platforms lists supported platforms in help order.
func Platforms() []Platform { return []Platform{MinnowBoard3, Qemu} }

// Archs lists supported payload architectures.
func Archs() []Arch { return []Arch{IA32, X64} }

// Targets lists supported payload build targets.
func Targets() []Target { return []Target{Release, Debug} }

func ParsePlatform(value string) (Platform, error) {
	trimmed := Platform(strings.TrimSpace(value))
	for _, p := range Platforms() {
		if p == trimmed {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errUnsupportedPlatform, value)
}

func ParseArch(value string) (Arch, error) {
	trimmed := Arch(strings.TrimSpace(value))
	for _, a := range Archs() {
		if a == trimmed {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errUnsupportedArch, value)
}

func ParseTarget(value string) (Target, error) {
	trimmed := Target(strings.TrimSpace(value))
	for _, t := range Targets() {
		if t == trimmed {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errUnsupportedTarget, value)
}

// Invocation is the validated selector set for one integration run.
type Invocation struct {
	Platform Platform
	Arch     Arch
	Target   Target
	Clean    bool
}

// NewInvocation validates each selector independently and reports every
// missing or invalid one.
func NewInvocation(platformName, arch, target string, clean bool) (Invocation, error) {
	var problems []string
	p, err := ParsePlatform(platformName)
	if err != nil {
		problems = append(problems, err.Error())
	}
	a, err := ParseArch(arch)
	if err != nil {
		problems = append(problems, err.Error())
	}
	t, err := ParseTarget(target)
	if err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return Invocation{}, errors.New(strings.Join(problems, "; "))
	}
	return Invocation{Platform: p, Arch: a, Target: t, Clean: clean}, nil
}
