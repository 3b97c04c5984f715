// Where: cli/internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable dispatcher for the payload integration driver.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/poruru/sbl-payload/cli/internal/domain/platform"
	"github.com/poruru/sbl-payload/cli/internal/domain/toolchain"
	"github.com/poruru/sbl-payload/cli/internal/infra/config"
	"github.com/poruru/sbl-payload/cli/internal/infra/envutil"
	"github.com/poruru/sbl-payload/cli/internal/infra/interaction"
	"github.com/poruru/sbl-payload/cli/internal/infra/runner"
	"github.com/poruru/sbl-payload/cli/internal/infra/ui"
	"github.com/poruru/sbl-payload/cli/internal/meta"
	"github.com/poruru/sbl-payload/cli/internal/usecase/integrate"
	"github.com/poruru/sbl-payload/cli/internal/version"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitFatal = 1
	ExitUsage = 2
)

var errPublishBucketRequired = errors.New("--publish requires publish.bucket in " + meta.ConfigFile)

// Dependencies holds all injected dependencies required for CLI execution.
// Zero values fall back to the real process environment.
type Dependencies struct {
	Out          io.Writer
	ErrOut       io.Writer
	Getwd        func() (string, error)
	Runner       runner.CommandRunner
	Prompter     interaction.Prompter
	IsTerminal   func() bool
	GOOS         string
	LookupEnv    func(string) (string, bool)
	NewPublisher func(ctx context.Context, cfg config.PublishConfig) (integrate.Publisher, error)
}

// CLI defines the command-line interface structure parsed by Kong.
// Selectors are optional at parse time so that they can be prompted for.
type CLI struct {
	Platform string `arg:"" optional:"" help:"Platform (MinnowBoard3, Qemu)"`
	Arch     string `arg:"" optional:"" help:"Payload's architecture (IA32, X64)"`
	Target   string `arg:"" optional:"" help:"Payload's target (RELEASE, DEBUG)"`

	Clean           bool             `short:"c" help:"Remove Build and Conf directories first"`
	Config          string           `name:"config" help:"Path to ${config_file}"`
	EnvFile         string           `name:"env-file" help:"Path to .env file"`
	SBLRoot         string           `name:"sbl-root" help:"Slim Bootloader root (default: discovered from cwd)"`
	Toolchain       string           `help:"Toolchain identifier override (e.g. GCC5, VS2015x86)"`
	Python          string           `help:"Python interpreter for SBL scripts"`
	StrictTranslate bool             `name:"strict-translate" help:"Fail when config translation fails"`
	Publish         bool             `help:"Upload the firmware image to the configured bucket"`
	Interactive     bool             `short:"i" help:"Prompt for missing selectors"`
	DryRun          bool             `name:"dry-run" help:"Print planned steps without running them"`
	Version         kong.VersionFlag `help:"Show version information"`
}

// Run parses args, executes the integration and returns the exit code.
func Run(ctx context.Context, args []string, deps Dependencies) int {
	deps = withDefaults(deps)

	cli := CLI{}
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Integrate a prebuilt UEFI payload into Slim Bootloader."),
		kong.Writers(deps.Out, deps.ErrOut),
		kong.Exit(func(code int) { exitCode = code }),
		kong.Vars{"version": version.GetVersion(), "config_file": meta.ConfigFile},
	)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	if len(args) == 0 {
		printHelp(parser, deps.ErrOut)
		return ExitFatal
	}

	if _, err := parser.Parse(args); err != nil {
		return usageError(parser, deps.ErrOut, err)
	}
	if exitCode >= 0 {
		// --help or --version already printed.
		return exitCode
	}

	inv, err := resolveInvocation(cli, deps)
	if err != nil {
		return usageError(parser, deps.ErrOut, err)
	}

	req, cfg, err := resolveRequest(cli, inv, deps)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	integrator := integrate.Integrator{
		Runner: deps.Runner,
		ResolveToolchain: func(ctx context.Context) (toolchain.ID, error) {
			return toolchain.Resolve(ctx, toolchain.Host{
				OS:        deps.GOOS,
				LookupEnv: deps.LookupEnv,
				Runner:    deps.Runner,
			})
		},
		UserInterface: ui.NewUI(deps.Out),
	}
	if req.Publish {
		if cfg.Publish.Bucket == "" {
			return exitWithError(deps.ErrOut, errPublishBucketRequired)
		}
		pub, err := deps.NewPublisher(ctx, cfg.Publish)
		if err != nil {
			return exitWithError(deps.ErrOut, fmt.Errorf("configure publisher: %w", err))
		}
		integrator.Publisher = pub
	}

	if _, err := integrator.Run(ctx, req); err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	return ExitOK
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Runner == nil {
		deps.Runner = runner.ExecRunner{}
	}
	if deps.Prompter == nil {
		deps.Prompter = interaction.HuhPrompter{}
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = func() bool { return interaction.IsTerminal(os.Stdin) }
	}
	if deps.GOOS == "" {
		deps.GOOS = runtime.GOOS
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.NewPublisher == nil {
		deps.NewPublisher = newAWSPublisher
	}
	return deps
}

// resolveRequest loads env file and config, then assembles the request.
// Precedence is flag > environment > config file > default.
func resolveRequest(cli CLI, inv platform.Invocation, deps Dependencies) (integrate.Request, config.File, error) {
	startDir, err := deps.Getwd()
	if err != nil {
		return integrate.Request{}, config.File{}, fmt.Errorf("get working directory: %w", err)
	}

	if cli.EnvFile != "" {
		if _, err := envutil.LoadEnvFile(absFrom(startDir, cli.EnvFile), true); err != nil {
			return integrate.Request{}, config.File{}, err
		}
	} else if _, err := envutil.LoadEnvFile(filepath.Join(startDir, meta.EnvFile), false); err != nil {
		return integrate.Request{}, config.File{}, err
	}

	var cfg config.File
	explicitRoot := cli.SBLRoot
	if cli.Config != "" {
		path := absFrom(startDir, cli.Config)
		if cfg, err = config.Load(path); err != nil {
			return integrate.Request{}, config.File{}, err
		}
		if explicitRoot == "" && cfg.SBLRoot != "" {
			explicitRoot = absFrom(filepath.Dir(path), cfg.SBLRoot)
		}
	}

	root, err := config.ResolveSBLRoot(startDir, explicitRoot)
	if err != nil {
		return integrate.Request{}, config.File{}, err
	}
	if cli.Config == "" {
		if cfg, _, err = config.LoadOptional(filepath.Join(root, meta.ConfigFile)); err != nil {
			return integrate.Request{}, config.File{}, err
		}
	}

	return integrate.Request{
		Invocation:      inv,
		Layout:          cfg.Layout(root),
		Python:          envutil.FirstNonEmpty(cli.Python, envutil.GetHostEnv("PYTHON"), cfg.Python, meta.DefaultPython),
		Toolchain:       toolchain.ID(envutil.FirstNonEmpty(cli.Toolchain, envutil.GetHostEnv("TOOLCHAIN"), cfg.Toolchain)),
		StrictTranslate: cli.StrictTranslate || cfg.StrictTranslate,
		DryRun:          cli.DryRun,
		Publish:         cli.Publish,
	}, cfg, nil
}

func absFrom(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
