// Package commands implements the arcmd CLI commands.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Parrot-Developers/libARCommands-sub000/internal/config"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
)

// Env is the state shared by the commands: configuration, command registry
// and operational logger.
type Env struct {
	Config   *config.Config
	Registry *model.Registry
	Logger   *slog.Logger
}

// LoadEnv loads the configuration at path, or the defaults when path is
// empty, and the registry it names. Operational logs go to stderr.
func LoadEnv(path string, stderr io.Writer) (*Env, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}
	logger.Debug("registry loaded", "commands", reg.Len(), "schemas", len(cfg.Schemas))
	return &Env{Config: cfg, Registry: reg, Logger: logger}, nil
}
