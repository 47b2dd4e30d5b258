// Package settings reads the locally persisted SDK settings.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are user-level overrides kept outside the environment
type Settings struct {
	// OverrideAPIURL replaces the per-chain hub endpoint table when set
	OverrideAPIURL string `yaml:"override_api_url"`
	// LiquidityHubDisabled is reported with the module-loaded telemetry event
	LiquidityHubDisabled bool `yaml:"liquidity_hub_disabled"`
}

// Load reads settings from path. A missing file or an empty path yields zero settings.
func Load(path string) (*Settings, error) {
	s := &Settings{}
	if path == "" {
		return s, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to path
func (s *Settings) Save(path string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
