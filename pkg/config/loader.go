package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no env files are given. A missing file is not an error.
const DefaultEnvFile = ".env"

type options struct {
	files     []string
	overrides map[string]string
	prefix    string
	isolated  bool
}

// Option configures Load.
type Option func(*options)

// WithEnvFiles reads variables from the given dotenv files instead of DefaultEnvFile.
// Later files do not override earlier ones; process variables win over all files.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.files = append(o.files, paths...) }
}

// WithOverrides sets variables that take precedence over files and the process environment.
func WithOverrides(vars map[string]string) Option {
	return func(o *options) {
		if o.overrides == nil {
			o.overrides = make(map[string]string, len(vars))
		}
		for k, v := range vars {
			o.overrides[k] = v
		}
	}
}

// WithPrefix requires every variable name to start with prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// Isolated ignores the process environment and DefaultEnvFile.
// Only WithEnvFiles and WithOverrides contribute values.
func Isolated() Option {
	return func(o *options) { o.isolated = true }
}

// Load parses environment variables into v according to its `env` struct tags.
// Nothing is cached and the process environment is never modified.
//
// Example:
//
//	type StorageConfig struct {
//		Root   string `env:"STORAGE_ROOT" envDefault:"./data"`
//		Policy string `env:"RECYCLE_COLLISION_POLICY" envDefault:"overwrite"`
//	}
//
//	var cfg StorageConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	vars, err := o.environment()
	if err != nil {
		return err
	}

	if err := env.ParseWithOptions(v, env.Options{
		Environment: vars,
		Prefix:      o.prefix,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// environment merges env files, the process environment and overrides, in increasing priority.
func (o *options) environment() (map[string]string, error) {
	vars := make(map[string]string)

	files := o.files
	if len(files) == 0 && !o.isolated {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			files = []string{DefaultEnvFile}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrEnvFile, DefaultEnvFile, err)
		}
	}

	for _, path := range files {
		fileVars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrEnvFile, path, err)
		}
		for k, val := range fileVars {
			if _, ok := vars[k]; !ok {
				vars[k] = val
			}
		}
	}

	if !o.isolated {
		for _, kv := range os.Environ() {
			if k, val, ok := strings.Cut(kv, "="); ok {
				vars[k] = val
			}
		}
	}

	for k, val := range o.overrides {
		vars[k] = val
	}
	return vars, nil
}
