package env

import (
	"github.com/cobalt-cloud/mavengraph/pkg/log"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

var variables = new(Environment)

// Process the environment variables set for mavengraph.
func Process() error {
	if err := envconfig.Process("mavengraph", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	if err := log.SetLevel(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used
// by mavengraph.
type Environment struct {
	LogLevel        string `default:"info"`
	DatabaseType    string `default:"sqlite"`
	DatabaseDSN     string `default:"file:mavengraph.db?cache=shared"`
	CleanupSchedule string `default:"0 3 * * *"`
}
