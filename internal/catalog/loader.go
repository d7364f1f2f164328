package catalog

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultFS embed.FS

// file mirrors the YAML document structure of a catalog definition.
type file struct {
	Fields    []Field    `yaml:"fields"`
	Questions []Question `yaml:"questions"`
}

// LoadDefault builds the built-in catalog embedded in the binary.
func LoadDefault() (*Catalog, error) {
	data, err := defaultFS.ReadFile("catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}
	return parse(data)
}

// LoadFile builds a catalog from a user-supplied YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return New(f.Fields, f.Questions)
}
