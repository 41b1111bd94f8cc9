package cli

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// readFile decodes a YAML or JSON file into v.
func readFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
