// Package config loads typed configuration structs from environment variables.
//
// Values come from three layers, lowest priority first: dotenv files (".env" by
// default, or those passed with WithEnvFiles), the process environment, and
// explicit overrides (WithOverrides). Struct fields are bound with
// github.com/caarlos0/env tags; dotenv files are parsed with github.com/joho/godotenv.
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	config.MustLoad(&cfg)
//
// Tests and tools that must not depend on the host environment use Isolated:
//
//	err := config.Load(&cfg, config.Isolated(), config.WithOverrides(map[string]string{
//		"HTTP_ADDR": ":0",
//	}))
package config
