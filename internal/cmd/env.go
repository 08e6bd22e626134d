package cmd

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/fredbi/csvviz/internal/pkg/config"
)

const envPrefix = "CSVVIZ"

// environment holds overrides taken from CSVVIZ_* environment variables.
//
// They apply on top of the configuration file, and CLI flags apply on top of them.
type environment struct {
	DataDir string        `envconfig:"DATA_DIR"`
	Format  string        `envconfig:"FORMAT"`
	Timeout time.Duration `envconfig:"TIMEOUT"`
}

func loadEnv() (environment, error) {
	var env environment
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return env, fmt.Errorf("reading environment: %w", err)
	}

	return env, nil
}

func (e environment) apply(cfg *config.Config) {
	if e.DataDir != "" {
		cfg.BaseDir = e.DataDir
	}

	if e.Format != "" {
		cfg.Render.Format = config.Format(e.Format)
	}
}
