package cmd

import (
	"github.com/dmitrymomot/recyclebin/pkg/email"
	"github.com/dmitrymomot/recyclebin/pkg/httpserver"
	"github.com/dmitrymomot/recyclebin/pkg/logger"
	"github.com/dmitrymomot/recyclebin/svc/files"
)

// Config is the full application configuration read from the environment.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"recyclebin"`
	LogLevel string `env:"LOG_LEVEL"`

	Files files.Config
	Email email.Config
	HTTP  httpserver.Config
}

func (c Config) loggerOptions() []logger.Option {
	return []logger.Option{
		logger.WithEnvironment(c.Env, c.Name),
		logger.WithLevelName(c.LogLevel),
	}
}
