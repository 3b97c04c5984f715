// Where: cli/internal/command/selectors.go
// What: Platform/architecture/target selection.
// Why: Validate positional selectors, prompting only when asked to.
package command

import (
	"github.com/poruru/sbl-payload/cli/internal/domain/platform"
)

func resolveInvocation(cli CLI, deps Dependencies) (platform.Invocation, error) {
	platformName, arch, target := cli.Platform, cli.Arch, cli.Target

	if cli.Interactive && deps.IsTerminal() {
		var err error
		if platformName, err = promptIfEmpty(deps, platformName, "Platform", platform.Platforms()); err != nil {
			return platform.Invocation{}, err
		}
		if arch, err = promptIfEmpty(deps, arch, "Payload architecture", platform.Archs()); err != nil {
			return platform.Invocation{}, err
		}
		if target, err = promptIfEmpty(deps, target, "Payload target", platform.Targets()); err != nil {
			return platform.Invocation{}, err
		}
	}

	return platform.NewInvocation(platformName, arch, target, cli.Clean)
}

func promptIfEmpty[T ~string](deps Dependencies, current, title string, options []T) (string, error) {
	if current != "" {
		return current, nil
	}
	values := make([]string, len(options))
	for i, opt := range options {
		values[i] = string(opt)
	}
	return deps.Prompter.Select(title, values)
}
