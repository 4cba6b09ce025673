package cmd

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// environment holds the process environment indicators the CLI honors.
type environment struct {
	// Debug turns on debug logging and detailed errors. Any value other than
	// empty, "0" or "false" enables it.
	Debug string `env:"DEBUG"`
	// Mode set to "development" has the same effect as Debug.
	Mode    string `env:"BUMP_ENV" envDefault:"production"`
	NoColor string `env:"NO_COLOR"`
}

func loadEnvironment() (environment, error) {
	var e environment
	err := env.Parse(&e)
	return e, err
}

func (e environment) debug() bool {
	switch strings.ToLower(strings.TrimSpace(e.Debug)) {
	case "", "0", "false":
	default:
		return true
	}
	return strings.EqualFold(e.Mode, "development")
}

func (e environment) colorDisabled() bool {
	return e.NoColor != ""
}
