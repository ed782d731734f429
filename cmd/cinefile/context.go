package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cinefile/internal/api"
	"cinefile/internal/config"
	"cinefile/internal/logging"
	"cinefile/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
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
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

type access int

const (
	readOnly access = iota
	readWrite
)

// withService opens the catalog for one command. readWrite commands hold the
// data directory lock for their whole run.
func (c *commandContext) withService(cmd *cobra.Command, mode access, fn func(context.Context, *api.Service) error) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if mode == readWrite {
		lock, err := store.AcquireLock(cfg.LockPath())
		if err != nil {
			if errors.Is(err, store.ErrLocked) {
				return fmt.Errorf("another cinefile command is updating %s; try again when it finishes", cfg.Paths.DataDir)
			}
			return err
		}
		defer lock.Release()
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := api.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, svc.Close(context.WithoutCancel(ctx)))
	}()
	return fn(ctx, svc)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
