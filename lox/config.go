package lox

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// LoadConfig reads interpreter limits from a YAML file such as
//
//	step_quota: 100000
//	recursion_limit: 256
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.StepQuota < 0 {
		return Config{}, errors.Errorf("config %s: step_quota must not be negative", path)
	}
	if cfg.RecursionLimit < 0 {
		return Config{}, errors.Errorf("config %s: recursion_limit must not be negative", path)
	}
	return cfg, nil
}
