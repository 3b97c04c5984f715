// Where: cli/internal/infra/config/file.go
// What: sblpayload.yaml load and merge.
// Why: Centralize fixed integration paths in a named configuration structure.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/poruru/sbl-payload/cli/internal/domain/layout"
	"github.com/poruru/sbl-payload/cli/internal/meta"
	"gopkg.in/yaml.v3"
)

// File represents sblpayload.yaml. Every field is optional; empty values
// keep the built-in defaults.
type File struct {
	Version         int           `yaml:"version,omitempty"`
	SBLRoot         string        `yaml:"sbl_root,omitempty"`
	Python          string        `yaml:"python,omitempty"`
	Toolchain       string        `yaml:"toolchain,omitempty"`
	StrictTranslate bool          `yaml:"strict_translate,omitempty"`
	Paths           Paths         `yaml:"paths,omitempty"`
	Publish         PublishConfig `yaml:"publish,omitempty"`
}

// Paths are SBL-root-relative locations. PayloadSource and Output accept
// template expressions such as {{ .Arch }}.
type Paths struct {
	Tools         string   `yaml:"tools,omitempty"`
	PayloadSource string   `yaml:"payload_source,omitempty"`
	PayloadDest   string   `yaml:"payload_dest,omitempty"`
	Output        string   `yaml:"output,omitempty"`
	Clean         []string `yaml:"clean,omitempty"`
}

// PublishConfig selects where --publish sends the final image.
type PublishConfig struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Table    string `yaml:"table,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Default returns the layout the integration script has always used.
func Default() File {
	return File{
		Version: 1,
		Python:  meta.DefaultPython,
		Paths: Paths{
			Tools:         meta.DefaultToolsDir,
			PayloadSource: meta.DefaultPayloadSource,
			PayloadDest:   meta.DefaultPayloadDest,
			Output:        meta.DefaultOutputPath,
			Clean:         append([]string{}, meta.DefaultCleanDirs...),
		},
	}
}

// Load reads, validates and decodes a config file, merged over Default.
func Load(path string) (File, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	if err := Validate(payload); err != nil {
		return File{}, fmt.Errorf("validate config %s: %w", path, err)
	}

	var cfg File
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	return Merge(Default(), cfg), nil
}

// LoadOptional behaves like Load but returns Default when the file is absent.
func LoadOptional(path string) (File, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	return File{}, false, err
}

// Merge overlays the non-empty fields of override onto base.
func Merge(base, override File) File {
	out := base
	if override.Version != 0 {
		out.Version = override.Version
	}
	out.SBLRoot = pick(base.SBLRoot, override.SBLRoot)
	out.Python = pick(base.Python, override.Python)
	out.Toolchain = pick(base.Toolchain, override.Toolchain)
	out.StrictTranslate = base.StrictTranslate || override.StrictTranslate

	out.Paths.Tools = pick(base.Paths.Tools, override.Paths.Tools)
	out.Paths.PayloadSource = pick(base.Paths.PayloadSource, override.Paths.PayloadSource)
	out.Paths.PayloadDest = pick(base.Paths.PayloadDest, override.Paths.PayloadDest)
	out.Paths.Output = pick(base.Paths.Output, override.Paths.Output)
	if override.Paths.Clean != nil {
		out.Paths.Clean = append([]string{}, override.Paths.Clean...)
	}

	out.Publish.Bucket = pick(base.Publish.Bucket, override.Publish.Bucket)
	out.Publish.Prefix = pick(base.Publish.Prefix, override.Publish.Prefix)
	out.Publish.Table = pick(base.Publish.Table, override.Publish.Table)
	out.Publish.Region = pick(base.Publish.Region, override.Publish.Region)
	out.Publish.Endpoint = pick(base.Publish.Endpoint, override.Publish.Endpoint)
	return out
}

// Layout builds the domain layout rooted at sblRoot.
func (f File) Layout(sblRoot string) layout.Layout {
	return layout.Layout{
		SBLRoot:       sblRoot,
		ToolsDir:      f.Paths.Tools,
		PayloadSource: f.Paths.PayloadSource,
		PayloadDest:   f.Paths.PayloadDest,
		OutputPath:    f.Paths.Output,
		CleanDirs:     append([]string{}, f.Paths.Clean...),
	}
}

func pick(base, override string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	return base
}
