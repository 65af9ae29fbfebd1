package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Load reads a YAML configuration file. Sections and parameters missing from
// the file keep their Default values; unknown keys are rejected. The result
// is validated before it is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	defaults := DefaultFeatures()

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Spectral = mergeFeatures(defaults, cfg.Spectral)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// mergeFeatures fills zero-valued (or unset) parameters of configured descriptors from
// their defaults and keeps default entries for descriptors not mentioned.
func mergeFeatures(defaults, configured FeaturesConfig) FeaturesConfig {
	merged := make(FeaturesConfig, len(defaults))
	for name, fc := range defaults {
		merged[name] = fc
	}

	for name, fc := range configured {
		def, ok := defaults[name]
		if !ok {
			merged[name] = fc
			continue
		}
		p := &fc.Params
		d := def.Params
		if p.BlockSize == 0 {
			p.BlockSize = d.BlockSize
		}
		if p.StepSize == 0 {
			p.StepSize = d.StepSize
		}
		if p.CepsNbCoeffs == 0 {
			p.CepsNbCoeffs = d.CepsNbCoeffs
		}
		if p.CepsIgnoreFirstCoeff == nil && d.CepsIgnoreFirstCoeff != nil {
			v := *d.CepsIgnoreFirstCoeff
			p.CepsIgnoreFirstCoeff = &v
		}
		if p.MelNbFilters == 0 {
			p.MelNbFilters = d.MelNbFilters
		}
		if p.MelMinFreq == 0 {
			p.MelMinFreq = d.MelMinFreq
		}
		if p.MelMaxFreq == 0 {
			p.MelMaxFreq = d.MelMaxFreq
		}
		if p.LPCNbCoeffs == 0 {
			p.LPCNbCoeffs = d.LPCNbCoeffs
		}
		if p.RolloffPercent == 0 {
			p.RolloffPercent = d.RolloffPercent
		}
		merged[name] = fc
	}
	return merged
}
