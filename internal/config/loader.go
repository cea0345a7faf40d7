package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadEngine loads the engine configuration.
// Search order: customPath -> ~/.phantom/configs/engine.yaml ->
// ./configs/engine.yaml -> embedded default.
func LoadEngine(customPath string) (EngineConfig, error) {
	var cfg EngineConfig

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("engine.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/engine.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(defaultEngineYAML, &cfg); err != nil {
		return DefaultEngineConfig(), nil // fall back to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadTiers loads the difficulty tier table.
// Search order: customPath -> ~/.phantom/configs/tiers.yaml ->
// ./configs/tiers.yaml -> embedded default.
func LoadTiers(customPath string) (Tiers, error) {
	var tiers Tiers

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return tiers, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &tiers); err != nil {
			return tiers, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := validateTiers(tiers); err != nil {
			return tiers, fmt.Errorf("invalid tier table %s: %w", customPath, err)
		}
		return tiers, nil
	}

	if userCfgPath := userConfigPath("tiers.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &tiers); err == nil && validateTiers(tiers) == nil {
				return tiers, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/tiers.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &tiers); err == nil && validateTiers(tiers) == nil {
			return tiers, nil
		}
	}

	if err := yaml.Unmarshal(defaultTiersYAML, &tiers); err != nil {
		return DefaultTiers(), nil
	}
	return tiers, nil
}

func validateTiers(t Tiers) error {
	if len(t.Tiers) == 0 {
		return fmt.Errorf("no tiers defined")
	}
	seen := map[int]bool{}
	for _, tc := range t.Tiers {
		if tc.Tier < 1 {
			return fmt.Errorf("tier ordinal %d out of range", tc.Tier)
		}
		if seen[tc.Tier] {
			return fmt.Errorf("duplicate tier ordinal %d", tc.Tier)
		}
		seen[tc.Tier] = true
		if !tc.PermanentChase && tc.ScatterTicks <= 0 {
			return fmt.Errorf("tier %d: scatter_ticks must be positive", tc.Tier)
		}
		if tc.ChaseTicks <= 0 {
			return fmt.Errorf("tier %d: chase_ticks must be positive", tc.Tier)
		}
	}
	return nil
}

// userConfigPath returns the path to a config file in the user's config
// directory, or empty if the home directory cannot be determined.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".phantom", "configs", filename)
}
