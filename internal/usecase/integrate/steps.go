// Where: cli/internal/usecase/integrate/steps.go
// What: Individual integration steps.
// Why: Keep each subprocess and file operation independently testable.
package integrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poruru/sbl-payload/cli/internal/domain/layout"
	"github.com/poruru/sbl-payload/cli/internal/domain/platform"
	"github.com/poruru/sbl-payload/cli/internal/infra/fileops"
	"github.com/poruru/sbl-payload/cli/internal/infra/runner"
	"github.com/poruru/sbl-payload/cli/internal/infra/ui"
)

const (
	translateScript = "TranslateConfig.py"
	buildScript     = "BuildLoader.py"
)

func (w Integrator) clean(out ui.UserInterface, req Request) error {
	dirs := req.Layout.Clean()
	names := make([]string, 0, len(dirs))
	for _, dir := range req.Layout.CleanDirs {
		if strings.TrimSpace(dir) != "" {
			names = append(names, dir)
		}
	}
	out.Info(fmt.Sprintf("Removing %s directories ...", strings.Join(names, " and ")))
	for _, dir := range dirs {
		if req.DryRun {
			out.Info("would remove " + dir)
			continue
		}
		if _, err := fileops.RemoveDir(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	return nil
}

func (w Integrator) acquirePayload(out ui.UserInterface, req Request, vars layout.Vars) (string, string, error) {
	source, err := req.Layout.Payload(vars)
	if err != nil {
		return "", "", err
	}
	out.Info("***** " + source)
	if !fileops.FileExists(source) {
		return "", "", fmt.Errorf("%w: %s", ErrMissingPayload, source)
	}
	dest := req.Layout.PayloadTarget()
	if req.DryRun {
		out.Info(fmt.Sprintf("would copy %s -> %s", source, dest))
		return source, dest, nil
	}
	if err := fileops.CopyFile(source, dest); err != nil {
		return "", "", fmt.Errorf("copy payload: %w", err)
	}
	return source, dest, nil
}

// translate runs TranslateConfig.py. Its failure is only fatal in strict mode.
func (w Integrator) translate(ctx context.Context, out ui.UserInterface, req Request) (int, error) {
	args := []string{translateScript, "-b", string(req.Invocation.Platform)}
	err := w.exec(ctx, out, req, req.Layout.Tools(), args)
	if err == nil {
		return 0, nil
	}
	code := runner.ExitCode(err)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return code, &StepError{Step: StepTranslate, ExitCode: code, Err: errors.Join(ctxErr, err)}
	}
	if req.StrictTranslate {
		return code, &StepError{Step: StepTranslate, ExitCode: code, Err: err}
	}
	out.Warn(fmt.Sprintf("%s failed (exit code %d); continuing", StepTranslate, code))
	return code, nil
}

// BuildArgs returns the BuildLoader.py arguments for a profile and target.
func BuildArgs(profile platform.Profile, target platform.Target) []string {
	args := []string{
		buildScript, "build",
		"-p", platform.ComponentList(platform.Components),
		profile.Codename,
	}
	if target != platform.Debug {
		args = append(args, "-r")
	}
	return args
}

// StitchArgs returns the stitching tool arguments.
func StitchArgs(spec platform.StitchSpec) []string {
	return []string{
		spec.Script,
		"-i", spec.BaseImage,
		"-s", spec.Components,
		"-o", spec.Output,
		"-p", spec.PlatformID,
	}
}

func (w Integrator) buildLoader(ctx context.Context, out ui.UserInterface, req Request, profile platform.Profile) error {
	out.Info("start building Slim Bootloader ...")
	if err := w.exec(ctx, out, req, req.Layout.SBLRoot, BuildArgs(profile, req.Invocation.Target)); err != nil {
		return &StepError{Step: StepBuild, ExitCode: runner.ExitCode(err), Err: err}
	}
	return nil
}

func (w Integrator) stitch(ctx context.Context, out ui.UserInterface, req Request, spec platform.StitchSpec) error {
	if err := w.exec(ctx, out, req, req.Layout.SBLRoot, StitchArgs(spec)); err != nil {
		return &StepError{Step: StepStitch, ExitCode: runner.ExitCode(err), Err: err}
	}
	return nil
}

func (w Integrator) placeImage(out ui.UserInterface, req Request, profile platform.Profile, dest string) error {
	source := req.Layout.Abs(profile.Image)
	if req.DryRun {
		out.Info(fmt.Sprintf("would copy %s -> %s", source, dest))
		return nil
	}
	if err := fileops.CopyFile(source, dest); err != nil {
		return fmt.Errorf("copy firmware image: %w", err)
	}
	return nil
}

func (w Integrator) exec(ctx context.Context, out ui.UserInterface, req Request, dir string, args []string) error {
	out.Command(dir, req.Python, args...)
	if req.DryRun {
		return nil
	}
	return w.Runner.Run(ctx, dir, req.Python, args...)
}
