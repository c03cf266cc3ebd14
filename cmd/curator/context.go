package main

import (
	"errors"
	"log/slog"
	"path/filepath"

	"curator/internal/config"
	"curator/internal/logging"
)

// commandContext carries lazily-loaded configuration shared by subcommands.
type commandContext struct {
	configFlag *string

	cfg        *config.Config
	configPath string
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads and caches the configuration named by the --config flag
// or the default search path.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	flagPath := ""
	if c.configFlag != nil {
		flagPath = *c.configFlag
	}
	cfg, resolvedPath, _, err := config.Load(flagPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = resolvedPath
	return cfg, nil
}

// ensureLogger builds the process logger from the loaded configuration.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "curator.log")},
	})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}
