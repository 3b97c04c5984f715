// Where: cli/internal/command/app_test.go
// What: Tests for CLI dispatch.
// Why: Pin exit codes, option precedence and dependency wiring.
package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru/sbl-payload/cli/internal/infra/config"
	"github.com/poruru/sbl-payload/cli/internal/infra/publish"
	"github.com/poruru/sbl-payload/cli/internal/usecase/integrate"
)

type recordedCall struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls      []recordedCall
	gccVersion string
	onRun      func(c recordedCall)
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	c := recordedCall{dir: dir, name: name, args: append([]string(nil), args...)}
	f.calls = append(f.calls, c)
	if f.onRun != nil {
		f.onRun(c)
	}
	return nil
}

func (f *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, recordedCall{dir: dir, name: name, args: append([]string(nil), args...)})
	return []byte(f.gccVersion + "\n"), nil
}

func (f *fakeRunner) ran(name string) bool {
	for _, c := range f.calls {
		if c.name == name {
			return true
		}
		if len(c.args) > 0 && c.args[0] == name {
			return true
		}
	}
	return false
}

type fakePrompter struct {
	answers map[string]string
	titles  []string
}

func (p *fakePrompter) Select(title string, _ []string) (string, error) {
	p.titles = append(p.titles, title)
	return p.answers[title], nil
}

type fakePublisher struct {
	images []string
}

func (p *fakePublisher) Publish(_ context.Context, imagePath string, rec publish.Record) (publish.Record, error) {
	p.images = append(p.images, imagePath)
	rec.Key = "fw/" + rec.Platform
	return rec, nil
}

type sandbox struct {
	root   string
	sbl    string
	output string
}

// newSandbox lays out <root>/edk2 and <root>/a/b/WorkSpace/SlimBootloader
// with a built X64 RELEASE GCC5 payload.
func newSandbox(t *testing.T) sandbox {
	t.Helper()
	for _, suffix := range []string{"TOOLCHAIN", "PYTHON", "SBL_ROOT"} {
		t.Setenv("SBLPAYLOAD_"+suffix, "")
	}
	root := t.TempDir()
	sb := sandbox{
		root:   root,
		sbl:    filepath.Join(root, "a", "b", "WorkSpace", "SlimBootloader"),
		output: filepath.Join(root, "a", "b", "firmware.bin"),
	}
	writeFile(t, filepath.Join(sb.sbl, "BuildLoader.py"), "")
	writeFile(t, filepath.Join(root, "edk2", "Build", "UefiPayloadPkgX64", "RELEASE_GCC5", "FV", "UEFIPAYLOAD.fd"), "payload")
	return sb
}

func (sb sandbox) deps(runner *fakeRunner, out, errOut *bytes.Buffer) Dependencies {
	return Dependencies{
		Out:        out,
		ErrOut:     errOut,
		Getwd:      func() (string, error) { return sb.sbl, nil },
		Runner:     runner,
		Prompter:   &fakePrompter{},
		IsTerminal: func() bool { return false },
		GOOS:       "linux",
		LookupEnv:  func(string) (string, bool) { return "", false },
		NewPublisher: func(context.Context, config.PublishConfig) (integrate.Publisher, error) {
			return nil, errors.New("publisher not expected")
		},
	}
}

func qemuRunner(t *testing.T, sbl string) *fakeRunner {
	return &fakeRunner{
		gccVersion: "9.4.0",
		onRun: func(c recordedCall) {
			if len(c.args) > 0 && c.args[0] == "BuildLoader.py" {
				writeFile(t, filepath.Join(sbl, "Outputs", "qemu", "SlimBootloader.bin"), "qemu image")
			}
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunNoArgsPrintsHelpToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run(context.Background(), nil, Dependencies{Out: &out, ErrOut: &errOut})
	if code != ExitFatal {
		t.Fatalf("expected exit %d, got %d", ExitFatal, code)
	}
	if !strings.Contains(errOut.String(), "Usage:") {
		t.Fatalf("expected usage on stderr, got %q", errOut.String())
	}
	if out.Len() != 0 {
		t.Fatalf("expected empty stdout, got %q", out.String())
	}
}

func TestRunInvalidSelectorsExitTwo(t *testing.T) {
	sb := newSandbox(t)
	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "ARM", "RELEASE"}, sb.deps(runner, &out, &errOut))
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "ARM") {
		t.Fatalf("expected offending value in output, got %q", errOut.String())
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no subprocess, got %v", runner.calls)
	}
}

func TestRunMissingSelectorExitTwo(t *testing.T) {
	sb := newSandbox(t)
	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"Qemu", "X64"}, sb.deps(qemuRunner(t, sb.sbl), &out, &errOut))
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
}

func TestRunUnknownFlagExitTwo(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE", "--bogus"}, Dependencies{Out: &out, ErrOut: &errOut})
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
}

func TestRunVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"--version"}, Dependencies{Out: &out, ErrOut: &errOut})
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d (%s)", code, errOut.String())
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatal("expected version output")
	}
}

func TestRunQemuReleaseEndToEnd(t *testing.T) {
	sb := newSandbox(t)
	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE"}, sb.deps(runner, &out, &errOut))
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if !runner.ran("gcc") {
		t.Fatal("expected gcc version check")
	}
	if runner.ran("StitchLoader.py") {
		t.Fatal("stitcher must not run for Qemu")
	}
	data, err := os.ReadFile(sb.output)
	if err != nil || string(data) != "qemu image" {
		t.Fatalf("unexpected firmware: %q, %v", data, err)
	}
	copied, err := os.ReadFile(filepath.Join(sb.sbl, "PayloadPkg", "PayloadBins", "UefiPld.fd"))
	if err != nil || string(copied) != "payload" {
		t.Fatalf("unexpected payload copy: %q, %v", copied, err)
	}
}

func TestRunMissingPayloadExitsOne(t *testing.T) {
	sb := newSandbox(t)
	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "IA32", "DEBUG"}, sb.deps(runner, &out, &errOut))
	if code != ExitFatal {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "corresponding payload binary not found") {
		t.Fatalf("unexpected stderr: %q", errOut.String())
	}
	if runner.ran("python") {
		t.Fatalf("expected no build subprocess, got %v", runner.calls)
	}
}

func TestRunToolchainFromEnvironmentSkipsDetection(t *testing.T) {
	sb := newSandbox(t)
	t.Setenv("SBLPAYLOAD_TOOLCHAIN", "GCC5")
	runner := qemuRunner(t, sb.sbl)
	runner.gccVersion = "not-a-version"
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE"}, sb.deps(runner, &out, &errOut))
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if runner.ran("gcc") {
		t.Fatal("expected version check to be skipped")
	}
}

func TestRunToolchainFlagOverridesEnvironment(t *testing.T) {
	sb := newSandbox(t)
	t.Setenv("SBLPAYLOAD_TOOLCHAIN", "GCC49")
	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE", "--toolchain", "GCC5"}, sb.deps(runner, &out, &errOut))
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
}

func TestRunUnsupportedHostExitsOne(t *testing.T) {
	sb := newSandbox(t)
	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer
	deps := sb.deps(runner, &out, &errOut)
	deps.GOOS = "plan9"

	if code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE"}, deps); code != ExitFatal {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if runner.ran("python") {
		t.Fatal("expected no build steps")
	}
}

func TestRunConfigFileAndEnvFile(t *testing.T) {
	sb := newSandbox(t)
	writeFile(t, filepath.Join(sb.sbl, "sblpayload.yaml"), "version: 1\npython: python3\n")
	envFile := filepath.Join(sb.root, "build.env")
	writeFile(t, envFile, "SBLPAYLOAD_TOOLCHAIN=GCC5\n")
	t.Cleanup(func() { _ = os.Unsetenv("SBLPAYLOAD_TOOLCHAIN") })
	_ = os.Unsetenv("SBLPAYLOAD_TOOLCHAIN")

	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer
	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE", "--env-file", envFile}, sb.deps(runner, &out, &errOut))
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if runner.ran("gcc") {
		t.Fatal("expected toolchain from env file")
	}
	if !runner.ran("python3") {
		t.Fatalf("expected python from config, got %v", runner.calls)
	}
}

func TestRunMissingEnvFileExitsOne(t *testing.T) {
	sb := newSandbox(t)
	var out, errOut bytes.Buffer
	args := []string{"Qemu", "X64", "RELEASE", "--env-file", filepath.Join(sb.root, "missing.env")}
	if code := Run(context.Background(), args, sb.deps(qemuRunner(t, sb.sbl), &out, &errOut)); code != ExitFatal {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestRunInteractivePromptsMissingSelectors(t *testing.T) {
	sb := newSandbox(t)
	runner := qemuRunner(t, sb.sbl)
	prompter := &fakePrompter{answers: map[string]string{
		"Payload architecture": "X64",
		"Payload target":       "RELEASE",
	}}
	var out, errOut bytes.Buffer
	deps := sb.deps(runner, &out, &errOut)
	deps.Prompter = prompter
	deps.IsTerminal = func() bool { return true }

	code := Run(context.Background(), []string{"Qemu", "--interactive"}, deps)
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if strings.Join(prompter.titles, ",") != "Payload architecture,Payload target" {
		t.Fatalf("unexpected prompts: %v", prompter.titles)
	}
}

func TestRunInteractiveWithoutTerminalDoesNotPrompt(t *testing.T) {
	sb := newSandbox(t)
	prompter := &fakePrompter{}
	var out, errOut bytes.Buffer
	deps := sb.deps(qemuRunner(t, sb.sbl), &out, &errOut)
	deps.Prompter = prompter

	if code := Run(context.Background(), []string{"Qemu", "-i"}, deps); code != ExitUsage {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if len(prompter.titles) != 0 {
		t.Fatalf("unexpected prompts: %v", prompter.titles)
	}
}

func TestRunPublishRequiresBucket(t *testing.T) {
	sb := newSandbox(t)
	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE", "--publish"}, sb.deps(runner, &out, &errOut))
	if code != ExitFatal {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut.String(), "publish.bucket") {
		t.Fatalf("unexpected stderr: %q", errOut.String())
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected nothing to run, got %v", runner.calls)
	}
}

func TestRunPublishUsesConfiguredBucket(t *testing.T) {
	sb := newSandbox(t)
	writeFile(t, filepath.Join(sb.sbl, "sblpayload.yaml"), "version: 1\npublish:\n  bucket: firmware\n  region: eu-west-1\n")
	runner := qemuRunner(t, sb.sbl)
	pub := &fakePublisher{}
	var got config.PublishConfig
	var out, errOut bytes.Buffer
	deps := sb.deps(runner, &out, &errOut)
	deps.NewPublisher = func(_ context.Context, cfg config.PublishConfig) (integrate.Publisher, error) {
		got = cfg
		return pub, nil
	}

	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE", "--publish"}, deps)
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if got.Bucket != "firmware" || got.Region != "eu-west-1" {
		t.Fatalf("unexpected publish config: %+v", got)
	}
	if len(pub.images) != 1 || pub.images[0] != sb.output {
		t.Fatalf("unexpected published images: %v", pub.images)
	}
}

func TestRunDryRunLeavesNoOutput(t *testing.T) {
	sb := newSandbox(t)
	runner := qemuRunner(t, sb.sbl)
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE", "--dry-run"}, sb.deps(runner, &out, &errOut))
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if runner.ran("python") {
		t.Fatalf("expected no build subprocess, got %v", runner.calls)
	}
	if _, err := os.Stat(sb.output); !os.IsNotExist(err) {
		t.Fatalf("expected no firmware, got %v", err)
	}
}

func TestRunCleanFlagRemovesWorkingDirs(t *testing.T) {
	sb := newSandbox(t)
	writeFile(t, filepath.Join(sb.sbl, "Build", "QemuBoardPkg", "stale.obj"), "stale")
	writeFile(t, filepath.Join(sb.sbl, "Conf", "target.txt"), "stale")
	var sawStaleBuild bool
	runner := qemuRunner(t, sb.sbl)
	build := runner.onRun
	runner.onRun = func(c recordedCall) {
		if _, err := os.Stat(filepath.Join(sb.sbl, "Build", "QemuBoardPkg")); err == nil {
			sawStaleBuild = true
		}
		build(c)
	}
	var out, errOut bytes.Buffer

	code := Run(context.Background(), []string{"Qemu", "X64", "RELEASE", "-c"}, sb.deps(runner, &out, &errOut))
	if code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if sawStaleBuild {
		t.Fatal("Build/ must be removed before any subprocess runs")
	}
	for _, dir := range []string{"Build", "Conf"} {
		if _, err := os.Stat(filepath.Join(sb.sbl, dir)); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, got %v", dir, err)
		}
	}
	if _, err := os.Stat(sb.output); err != nil {
		t.Fatalf("expected firmware image: %v", err)
	}
}
