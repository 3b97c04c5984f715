// Where: cli/internal/usecase/integrate/integrate.go
// What: UEFI payload to Slim Bootloader integration workflow.
// Why: Run the clean/copy/translate/build/stitch sequence without CLI concerns.
package integrate

import (
	"context"
	"fmt"

	"github.com/poruru/sbl-payload/cli/internal/domain/layout"
	"github.com/poruru/sbl-payload/cli/internal/domain/platform"
	"github.com/poruru/sbl-payload/cli/internal/domain/toolchain"
	"github.com/poruru/sbl-payload/cli/internal/infra/fileops"
	"github.com/poruru/sbl-payload/cli/internal/infra/publish"
	"github.com/poruru/sbl-payload/cli/internal/infra/runner"
	"github.com/poruru/sbl-payload/cli/internal/infra/ui"
)

// Request captures the inputs required for one integration run.
type Request struct {
	Invocation platform.Invocation
	Layout     layout.Layout
	Python     string
	// Toolchain skips host probing when set.
	Toolchain       toolchain.ID
	StrictTranslate bool
	DryRun          bool
	Publish         bool
}

// Result summarises a completed run.
type Result struct {
	Toolchain     toolchain.ID
	PayloadPath   string
	PayloadCopy   string
	ImagePath     string
	SHA256        string
	TranslateExit int
	Published     *publish.Record
}

// Publisher uploads the final image.
type Publisher interface {
	Publish(ctx context.Context, imagePath string, record publish.Record) (publish.Record, error)
}

// Integrator executes the integration steps.
type Integrator struct {
	Runner           runner.CommandRunner
	ResolveToolchain func(ctx context.Context) (toolchain.ID, error)
	Publisher        Publisher
	UserInterface    ui.UserInterface
}

// Run executes the integration workflow. Every failure is fatal except a
// non-strict translator failure, and nothing is rolled back.
func (w Integrator) Run(ctx context.Context, req Request) (Result, error) {
	if w.Runner == nil {
		return Result{}, errRunnerNotConfigured
	}
	if err := req.Layout.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid layout: %w", err)
	}
	profile, err := platform.Resolve(req.Invocation.Platform)
	if err != nil {
		return Result{}, err
	}
	if req.Python == "" {
		req.Python = "python"
	}
	out := w.userInterface()

	if req.Invocation.Clean {
		if err := w.clean(out, req); err != nil {
			return Result{}, err
		}
	}

	tc, err := w.toolchain(ctx, req)
	if err != nil {
		return Result{}, err
	}
	vars := layout.Vars{
		Platform:  string(req.Invocation.Platform),
		Arch:      string(req.Invocation.Arch),
		Target:    string(req.Invocation.Target),
		Toolchain: tc.String(),
	}
	result := Result{Toolchain: tc}

	if result.PayloadPath, result.PayloadCopy, err = w.acquirePayload(out, req, vars); err != nil {
		return Result{}, err
	}

	if result.TranslateExit, err = w.translate(ctx, out, req); err != nil {
		return Result{}, err
	}

	if err := w.buildLoader(ctx, out, req, profile); err != nil {
		return Result{}, err
	}

	if profile.NeedsStitch() {
		if err := w.stitch(ctx, out, req, *profile.Stitch); err != nil {
			return Result{}, err
		}
	}

	if result.ImagePath, err = req.Layout.Output(vars); err != nil {
		return Result{}, err
	}
	if err := w.placeImage(out, req, profile, result.ImagePath); err != nil {
		return Result{}, err
	}

	if !req.DryRun {
		if result.SHA256, err = fileops.SHA256(result.ImagePath); err != nil {
			return Result{}, fmt.Errorf("hash image: %w", err)
		}
	}

	if req.Publish {
		record, err := w.publish(ctx, out, req, result)
		if err != nil {
			return Result{}, err
		}
		result.Published = record
	}

	summarize(out, req, result)
	return result, nil
}

func (w Integrator) userInterface() ui.UserInterface {
	if w.UserInterface != nil {
		return w.UserInterface
	}
	return nopUI{}
}

func (w Integrator) toolchain(ctx context.Context, req Request) (toolchain.ID, error) {
	if req.Toolchain != "" {
		return req.Toolchain, nil
	}
	if w.ResolveToolchain == nil {
		return "", errToolchainNotConfigured
	}
	return w.ResolveToolchain(ctx)
}

func (w Integrator) publish(ctx context.Context, out ui.UserInterface, req Request, result Result) (*publish.Record, error) {
	if w.Publisher == nil {
		return nil, errPublishNotConfigured
	}
	if req.DryRun {
		out.Info("would publish " + result.ImagePath)
		return nil, nil
	}
	record, err := w.Publisher.Publish(ctx, result.ImagePath, publish.Record{
		Platform:  string(req.Invocation.Platform),
		Arch:      string(req.Invocation.Arch),
		Target:    string(req.Invocation.Target),
		Toolchain: result.Toolchain.String(),
		SHA256:    result.SHA256,
	})
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	out.Success("Published " + record.Key)
	return &record, nil
}

func summarize(out ui.UserInterface, req Request, result Result) {
	rows := []ui.KeyValue{
		{Key: "Platform", Value: req.Invocation.Platform},
		{Key: "Arch", Value: req.Invocation.Arch},
		{Key: "Target", Value: req.Invocation.Target},
		{Key: "Toolchain", Value: result.Toolchain},
		{Key: "Payload", Value: result.PayloadPath},
		{Key: "Firmware", Value: result.ImagePath},
	}
	if result.SHA256 != "" {
		rows = append(rows, ui.KeyValue{Key: "SHA256", Value: result.SHA256})
	}
	out.Block("📦", "Integration", rows)
	if req.DryRun {
		out.Success("Dry run complete")
		return
	}
	out.Success("Firmware image ready")
}

type nopUI struct{}

func (nopUI) Info(string) {}
func (nopUI) Warn(string) {}
func (nopUI) Success(string) {}
func (nopUI) Command(string, string, ...string) {}
func (nopUI) Block(string, string, []ui.KeyValue) {}
