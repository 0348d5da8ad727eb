package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Validator is implemented by config structs that check cross-field rules
// after environment parsing.
type Validator interface {
	Validate() error
}

// Load parses environment variables into the struct pointed to by cfg using
// its `env` tags, then runs cfg.Validate when cfg implements Validator.
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"3000"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}
	return nil
}
