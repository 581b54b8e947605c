// Package config loads inference options from a YAML file using a
// double-hop viper-then-yaml decode: viper reads the file into a generic
// envelope, which is re-marshalled and decoded into the typed config
// struct. The indirection works around viper's loose typing of nested
// structures under a kind-selector envelope.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OuterConfig is the top-level envelope: Kind selects the inference
// strategy (currently only "map-trace" is implemented), Def is the
// strategy-specific payload decoded into InferConfig.
type OuterConfig struct {
	Kind string `mapstructure:"kind"`
	Def  any    `mapstructure:"def"`
}

// InferConfig holds every infer_map option. The yaml tags are lowercase
// because viper lowercases every key it reads, so the camelCase keys of the
// config file reach the second decode hop in lowercase.
type InferConfig struct {
	NumberOfPasses  int    `yaml:"numberofpasses"`
	NumberOfSamples int    `yaml:"numberofsamples"`
	NumberOfMaps    int    `yaml:"numberofmaps"`
	NumberOfHDraws  int    `yaml:"numberofhdraws"`
	OutputFormat    string `yaml:"outputformat"`
	Results         struct {
		Predicts bool `yaml:"predicts"`
		Trace    bool `yaml:"trace"`
	} `yaml:"results"`
}

// Default returns the documented defaults, except NumberOfSamples, which
// is caller-required in practice and so has no sane default here.
func Default() InferConfig {
	cfg := InferConfig{
		NumberOfPasses: 1,
		NumberOfMaps:   1,
		NumberOfHDraws: 1,
		OutputFormat:   "text",
	}
	cfg.Results.Predicts = true
	cfg.Results.Trace = true
	return cfg
}

// Validate catches option combinations that cannot yield a meaningful
// inference run. A non-positive NumberOfPasses or NumberOfMaps is reset to
// 1; the other fields are left as they are.
func (c *InferConfig) Validate() error {
	if c.NumberOfPasses <= 0 {
		c.NumberOfPasses = 1
	}
	if c.NumberOfSamples <= 0 {
		return fmt.Errorf("config: numberOfSamples must be positive, got %d", c.NumberOfSamples)
	}
	if c.NumberOfMaps <= 0 {
		c.NumberOfMaps = 1
	}
	return nil
}

// FromYAML loads an InferConfig from the file at path, following the
// teacher's FromYaml shape: viper decodes the outer envelope, then a
// yaml.Marshal/Unmarshal round trip produces the typed inner config.
func FromYAML(path string) (*InferConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	outer := &OuterConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, fmt.Errorf("config: decoding envelope: %w", err)
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, fmt.Errorf("config: re-marshaling def: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(spec, &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding inference config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
