// Where: cli/internal/domain/layout/layout.go
// What: Named filesystem locations used by an integration run.
// Why: Thread explicit base paths through each step instead of changing directories.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

var (
	errRootRequired     = errors.New("sbl root is required")
	errCleanOutsideRoot = errors.New("clean directory must be inside the sbl root")
)

// Vars are the values available to path templates.
type Vars struct {
	Platform  string
	Arch      string
	Target    string
	Toolchain string
}

// Layout holds every path the driver touches. Relative entries are
// interpreted against SBLRoot.
type Layout struct {
	SBLRoot       string
	ToolsDir      string
	PayloadSource string
	PayloadDest   string
	OutputPath    string
	CleanDirs     []string
}

// Validate checks the layout is usable.
func (l Layout) Validate() error {
	if strings.TrimSpace(l.SBLRoot) == "" {
		return errRootRequired
	}
	for name, value := range map[string]string{
		"tools dir":      l.ToolsDir,
		"payload source": l.PayloadSource,
		"payload dest":   l.PayloadDest,
		"output path":    l.OutputPath,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	for _, dir := range l.CleanDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if !insideRoot(dir) {
			return fmt.Errorf("%w: %q", errCleanOutsideRoot, dir)
		}
	}
	return nil
}

// insideRoot reports whether a relative path names a strict descendant of the root.
func insideRoot(path string) bool {
	if filepath.IsAbs(path) || filepath.VolumeName(path) != "" {
		return false
	}
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || cleaned == ".." {
		return false
	}
	return !strings.HasPrefix(cleaned, ".."+string(filepath.Separator))
}

// Abs resolves a path against the SBL root.
func (l Layout) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.SBLRoot, filepath.FromSlash(path))
}

// Tools returns the directory holding TranslateConfig.py.
func (l Layout) Tools() string {
	return l.Abs(l.ToolsDir)
}

// Payload renders the location of the prebuilt UEFIPAYLOAD.fd.
func (l Layout) Payload(vars Vars) (string, error) {
	rendered, err := Render(l.PayloadSource, vars)
	if err != nil {
		return "", fmt.Errorf("render payload source: %w", err)
	}
	return l.Abs(rendered), nil
}

// PayloadTarget is where SBL expects the payload copy.
func (l Layout) PayloadTarget() string {
	return l.Abs(l.PayloadDest)
}

// Output renders the final firmware image location.
func (l Layout) Output(vars Vars) (string, error) {
	rendered, err := Render(l.OutputPath, vars)
	if err != nil {
		return "", fmt.Errorf("render output path: %w", err)
	}
	return l.Abs(rendered), nil
}

// Clean lists the directories removed by the clean flag.
func (l Layout) Clean() []string {
	out := make([]string, 0, len(l.CleanDirs))
	for _, dir := range l.CleanDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		out = append(out, l.Abs(dir))
	}
	return out
}

var templateCache sync.Map

// Render executes a path template with sprig functions.
func Render(text string, vars Vars) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := parseCached(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseCached(text string) (*template.Template, error) {
	if cached, ok := templateCache.Load(text); ok {
		return cached.(*template.Template), nil
	}
	tmpl, err := template.New("path").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, err
	}
	templateCache.Store(text, tmpl)
	return tmpl, nil
}
