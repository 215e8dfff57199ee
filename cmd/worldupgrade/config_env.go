package main

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"worldupgrade/internal/config"
)

const (
	envConfigJSON    = "WORLDUPGRADE_CONFIG_JSON"
	envConfigYAMLB64 = "WORLDUPGRADE_CONFIG_YAML_B64"
)

// writeConfigFromEnv materializes a configuration handed over through the
// environment at cfgPath. It reports false when neither variable is set.
// Fields missing from the payload keep their defaults.
func writeConfigFromEnv(cfgPath string) (bool, error) {
	jsonPayload := os.Getenv(envConfigJSON)
	yamlPayload := os.Getenv(envConfigYAMLB64)

	if jsonPayload == "" && yamlPayload == "" {
		return false, nil
	}
	if cfgPath == "" {
		return false, errors.New("configuration provided through the environment but no -config path supplied")
	}

	cfg := config.Default()
	if jsonPayload != "" {
		if err := json.Unmarshal([]byte(jsonPayload), cfg); err != nil {
			return false, errors.Wrap(err, "decode environment config json")
		}
	} else {
		data, err := base64.StdEncoding.DecodeString(yamlPayload)
		if err != nil {
			return false, errors.Wrap(err, "decode environment config yaml")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return false, errors.Wrap(err, "parse environment config yaml")
		}
	}

	if err := cfg.Validate(); err != nil {
		return false, errors.Wrap(err, "validate environment config")
	}

	dir := filepath.Dir(cfgPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, errors.Wrap(err, "create config directory")
		}
	}
	var (
		data []byte
		err  error
	)
	switch filepath.Ext(cfgPath) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return false, errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return false, errors.Wrap(err, "write config file")
	}
	return true, nil
}
