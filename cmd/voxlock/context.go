package main

import (
	"log/slog"
	"strings"
	"sync"

	"voxlock/internal/config"
	"voxlock/internal/credentials"
	"voxlock/internal/flow"
	"voxlock/internal/logging"
	"voxlock/internal/recorder"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger, nil
}

func (c *commandContext) openStore() (*credentials.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return credentials.Open(cfg)
}

// newManager assembles a flow manager fed by the given WAV recordings.
func (c *commandContext) newManager(store *credentials.Store, samplePaths []string, observer flow.Observer) (*flow.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	mic, err := recorder.FromFiles(samplePaths...)
	if err != nil {
		return nil, err
	}

	opts := []flow.Option{flow.WithRecorder(mic)}
	if observer != nil {
		opts = append(opts, flow.WithObserver(observer))
	}
	return flow.NewManager(cfg, store, logger, opts...), nil
}
