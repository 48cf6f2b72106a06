package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/pcedit/logging"
	"go.viam.com/pcedit/spatialmath"
)

// Read reads a config from the given file. Environment variables in the file, e.g. ${HOME},
// are expanded before it is parsed.
func Read(
	ctx context.Context,
	filePath string,
	logger logging.Logger,
) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(
	ctx context.Context,
	originalPath string,
	r io.Reader,
	logger logging.Logger,
) (*Config, error) {
	cfg := Config{
		ConfigFilePath: originalPath,
	}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Ensure(); err != nil {
		return nil, err
	}

	if cfg.Quaternion != nil && !cfg.Normalize && !spatialmath.IsUnitQuaternion(cfg.Quaternion.Number(), 0) {
		logger.Warnw("quaternion is not of unit length and will scale points as well as rotate them",
			"config", originalPath, "quaternion", *cfg.Quaternion)
	}
	return &cfg, nil
}

// ConfigureLogging sets the level of root from the config and applies its per logger levels to
// registry.
func (c *Config) ConfigureLogging(root logging.Logger, registry *logging.Registry) error {
	if c.LogLevel != "" {
		level, err := logging.LevelFromString(c.LogLevel)
		if err != nil {
			return err
		}
		root.SetLevel(level)
	}
	return registry.UpdateConfig(c.LogConfig, root)
}
