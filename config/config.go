// Package config loads and validates the experiment configuration shared by
// the train and evaluate entry points.
//
// The configuration is read once by an entry point and then passed by
// pointer to the orchestrators; nothing below cmd/ reads files on its own.
package config

import (
	"bytes"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/baseline/pkg/errors"
	"github.com/YuminosukeSato/baseline/pkg/log"
)

// DefaultPath is the configuration file read when no -config flag is given.
const DefaultPath = "config/train.yaml"

// Dataset kinds understood by the dataset resolver.
const (
	KindIris = "iris"
	KindCSV  = "csv"
)

// Defaults applied to optional keys.
const (
	DefaultArtifactsDir = "artifacts"
	DefaultLogDir       = "logs"
	DefaultLogLevel     = "info"
)

// Config is the whole experiment configuration.
type Config struct {
	Data         DataConfig    `yaml:"data"`
	Split        SplitConfig   `yaml:"split"`
	Model        ModelConfig   `yaml:"model"`
	ArtifactsDir string        `yaml:"artifacts_dir"`
	Logging      LoggingConfig `yaml:"logging"`
}

// DataConfig selects the dataset source.
type DataConfig struct {
	Kind   string `yaml:"kind"`
	Path   string `yaml:"path"`   // csv only
	Target string `yaml:"target"` // csv only
}

// SplitConfig controls the stratified train/test split.
type SplitConfig struct {
	TestSize    float64 `yaml:"test_size"`
	RandomState int64   `yaml:"random_state"`
}

// ModelConfig names the classifier and carries its hyperparameters. Every
// key other than name is passed through to the model verbatim.
type ModelConfig struct {
	Name   string                 `yaml:"name"`
	Params map[string]interface{} `yaml:",inline"`
}

// LoggingConfig configures the log sink of the entry points.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigurationError("path", "configuration file does not exist", path)
		}
		return nil, errors.Wrapf(err, "read configuration %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewConfigurationError("yaml", err.Error(), nil)
	}
	if err := requireKeys(raw); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.NewConfigurationError("yaml", err.Error(), nil)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// requireKeys checks the presence of the mandatory sections and keys, which
// zero values alone cannot distinguish from explicit values.
func requireKeys(raw map[string]interface{}) error {
	required := map[string][]string{
		"data":  {"kind"},
		"split": {"test_size", "random_state"},
		"model": {"name"},
	}
	sections := make([]string, 0, len(required))
	for section := range required {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		value, ok := raw[section]
		if !ok {
			return errors.NewConfigurationError(section, "section is required", nil)
		}
		fields, ok := value.(map[string]interface{})
		if !ok {
			return errors.NewConfigurationError(section, "section must be a mapping", value)
		}
		for _, key := range required[section] {
			if _, ok := fields[key]; !ok {
				return errors.NewConfigurationError(section+"."+key, "key is required", nil)
			}
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ArtifactsDir == "" {
		c.ArtifactsDir = DefaultArtifactsDir
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = DefaultLogDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Validate checks the invariants every orchestrator relies on. Whether
// model.name names a known model is checked by the model factory.
func (c *Config) Validate() error {
	switch c.Data.Kind {
	case KindIris:
	case KindCSV:
		if c.Data.Path == "" {
			return errors.NewConfigurationError("data.path", "required for csv datasets", nil)
		}
		if c.Data.Target == "" {
			return errors.NewConfigurationError("data.target", "required for csv datasets", nil)
		}
	case "":
		return errors.NewConfigurationError("data.kind", "must not be empty", nil)
	default:
		return errors.NewConfigurationError("data.kind", "unknown dataset kind", c.Data.Kind)
	}

	if !(c.Split.TestSize > 0 && c.Split.TestSize < 1) {
		return errors.NewConfigurationError("split.test_size", "must be in the open interval (0, 1)", c.Split.TestSize)
	}

	if c.Model.Name == "" {
		return errors.NewConfigurationError("model.name", "must not be empty", nil)
	}

	if c.ArtifactsDir == "" {
		return errors.NewConfigurationError("artifacts_dir", "must not be empty", nil)
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return errors.NewConfigurationError("logging.level", err.Error(), c.Logging.Level)
	}
	return nil
}

// LogLevel returns the parsed logging level. Validate guarantees it parses.
func (c *Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Logging.Level)
	return level
}

// Hyperparameters returns a copy of the pass-through model parameters.
func (m ModelConfig) Hyperparameters() map[string]interface{} {
	params := make(map[string]interface{}, len(m.Params))
	for k, v := range m.Params {
		params[k] = v
	}
	return params
}
