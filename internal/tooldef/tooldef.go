// Package tooldef carries the embedded manifest describing every
// transfer operation the CLI exposes, so hosts integrating the binary
// can discover operations and their parameters without parsing help
// text.
package tooldef

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tools.yaml
var manifestYAML []byte

// Parameter describes one input of a tool.
type Parameter struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Default     string   `yaml:"default,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	Description string   `yaml:"description"`
}

// Tool describes one operation in the manifest.
type Tool struct {
	Name        string      `yaml:"name"`
	Label       string      `yaml:"label"`
	Description string      `yaml:"description"`
	Parameters  []Parameter `yaml:"parameters"`
}

type manifest struct {
	Tools []Tool `yaml:"tools"`
}

var (
	loadOnce sync.Once
	loaded   []Tool
	loadErr  error
)

// Load parses the embedded manifest. The parse happens once; later
// calls return the cached result.
func Load() ([]Tool, error) {
	loadOnce.Do(func() {
		var m manifest
		if err := yaml.Unmarshal(manifestYAML, &m); err != nil {
			loadErr = fmt.Errorf("error parsing tool manifest: %w", err)
			return
		}
		loaded = m.Tools
	})
	return loaded, loadErr
}

// Get looks a tool up by name.
func Get(name string) (Tool, error) {
	tools, err := Load()
	if err != nil {
		return Tool{}, err
	}
	for _, t := range tools {
		if t.Name == name {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("unknown tool: %s", name)
}
