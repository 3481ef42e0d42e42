package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPreset reads seeding options from a YAML file. Missing fields fall
// back to the defaults.
func LoadPreset(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read preset %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse preset %s: %w", path, err)
	}

	if opts.Users <= 0 {
		return opts, fmt.Errorf("preset %s: users must be positive", path)
	}
	if opts.Password == "" {
		opts.Password = DefaultOptions().Password
	}
	return opts, nil
}
