package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/r1cA18/make-slide-script/internal/config"
	"github.com/r1cA18/make-slide-script/internal/script"
	"github.com/r1cA18/make-slide-script/internal/services"
	"github.com/r1cA18/make-slide-script/internal/storage"
)

type commandContext struct {
	storeFlag    *string
	dataDirFlag  *string
	settingsFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(storeFlag, dataDirFlag, settingsFlag *string) *commandContext {
	return &commandContext{
		storeFlag:    storeFlag,
		dataDirFlag:  dataDirFlag,
		settingsFlag: settingsFlag,
	}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.LoadConfig()
		if err != nil {
			c.configErr = err
			return
		}

		if dir := flagValue(c.dataDirFlag); dir != "" {
			abs, err := filepath.Abs(dir)
			if err != nil {
				c.configErr = fmt.Errorf("resolve data dir: %w", err)
				return
			}
			cfg.DataDir = abs
		}
		if backend := flagValue(c.storeFlag); backend != "" {
			cfg.StoreBackend = backend
		}
		// Projects must outlive a single invocation.
		if strings.EqualFold(cfg.StoreBackend, storage.BackendMemory) {
			cfg.StoreBackend = storage.BackendFile
		}
		if path := flagValue(c.settingsFlag); path != "" {
			if err := cfg.ApplySettingsFile(path); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withService opens the configured repository for the duration of fn.
func (c *commandContext) withService(fn func(*services.ProjectService) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	repo, err := storage.Open(cfg.StoreBackend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer repo.Close()

	patterns, err := cfg.CompilePatterns()
	if err != nil {
		return err
	}

	svc := services.NewProjectService(repo, services.NewHTTPFetcher(cfg), script.NewSynthesizer(patterns), cfg.Defaults)
	return fn(svc)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}
