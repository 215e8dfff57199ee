package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"worldupgrade/internal/datafix"
	"worldupgrade/internal/store"
)

// Duration wraps time.Duration so configuration files can use human
// readable strings such as "5s" in both JSON and YAML, while numeric values
// are still read as nanoseconds.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// number of nanoseconds. Empty strings and null decode to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return errors.New("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "duration: decode string")
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return errors.Errorf("duration: invalid value %s", string(b))
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("duration: line %d: expected a scalar", node.Line)
	}
	if node.Tag == "!!int" || node.Tag == "!!float" {
		var f float64
		if err := node.Decode(&f); err != nil {
			return errors.Wrap(err, "duration: decode number")
		}
		*d = Duration(time.Duration(f))
		return nil
	}
	if node.Tag == "!!null" {
		*d = 0
		return nil
	}
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "duration: parse %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures everything needed to run one world upgrade.
type Config struct {
	World   WorldConfig   `json:"world" yaml:"world"`
	Source  StoreConfig   `json:"source" yaml:"source"`
	Sink    StoreConfig   `json:"sink" yaml:"sink"` // empty kind rewrites the source in place
	Upgrade UpgradeConfig `json:"upgrade" yaml:"upgrade"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

type WorldConfig struct {
	Dimension string `json:"dimension" yaml:"dimension"` // e.g. "minecraft:overworld"
	Generator string `json:"generator" yaml:"generator"` // e.g. "minecraft:noise"
}

type StoreConfig struct {
	Kind string `json:"kind" yaml:"kind"` // memory, log, badger or region
	Path string `json:"path" yaml:"path"`
}

type UpgradeConfig struct {
	TargetVersion    int      `json:"targetVersion" yaml:"targetVersion"`   // 0 upgrades to the newest registered fix
	DefaultVersion   int      `json:"defaultVersion" yaml:"defaultVersion"` // assumed when a record has no DataVersion
	Workers          int      `json:"workers" yaml:"workers"`
	BatchSize        int      `json:"batchSize" yaml:"batchSize"`
	FailFast         bool     `json:"failFast" yaml:"failFast"`
	DryRun           bool     `json:"dryRun" yaml:"dryRun"`
	ProgressInterval Duration `json:"progressInterval" yaml:"progressInterval"`
}

type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"` // debug, info, warn or error
	Development bool   `json:"development" yaml:"development"`
}

type MetricsConfig struct {
	ListenAddr string `json:"listenAddr" yaml:"listenAddr"` // empty disables the /metrics endpoint
}

// Load reads configuration from a file if provided. Files ending in .yaml or
// .yml are parsed as YAML, anything else as JSON. An empty path returns
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Dimension: datafix.DimensionOverworld,
			Generator: datafix.GeneratorNoise,
		},
		Source: StoreConfig{
			Kind: store.KindRegion,
			Path: "world/region",
		},
		Upgrade: UpgradeConfig{
			DefaultVersion:   2586,
			Workers:          4,
			BatchSize:        256,
			ProgressInterval: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

var storeKinds = map[string]bool{
	store.KindMemory: true,
	store.KindLog:    true,
	store.KindBadger: true,
	store.KindRegion: true,
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

func (c *Config) Validate() error {
	if c.World.Dimension == "" {
		return errors.New("world.dimension must be set")
	}
	if !storeKinds[c.Source.Kind] {
		return errors.Errorf("source.kind %q is not supported", c.Source.Kind)
	}
	if c.Source.Kind != store.KindMemory && c.Source.Path == "" {
		return errors.New("source.path must be set")
	}
	if c.Sink.Kind != "" {
		if !storeKinds[c.Sink.Kind] {
			return errors.Errorf("sink.kind %q is not supported", c.Sink.Kind)
		}
		if c.Sink.Kind != store.KindMemory && c.Sink.Path == "" {
			return errors.New("sink.path must be set")
		}
	}
	if c.Upgrade.TargetVersion < 0 || c.Upgrade.DefaultVersion < 0 {
		return errors.New("upgrade versions cannot be negative")
	}
	if c.Upgrade.TargetVersion > 0 && c.Upgrade.TargetVersion <= c.Upgrade.DefaultVersion {
		return errors.New("upgrade.targetVersion must be greater than upgrade.defaultVersion")
	}
	if c.Upgrade.Workers <= 0 {
		return errors.New("upgrade.workers must be positive")
	}
	if c.Upgrade.BatchSize < 0 {
		return errors.New("upgrade.batchSize cannot be negative")
	}
	if c.Upgrade.ProgressInterval < 0 {
		return errors.New("upgrade.progressInterval cannot be negative")
	}
	if !logLevels[c.Logging.Level] {
		return errors.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
