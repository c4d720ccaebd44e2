// Package config loads typed configuration from environment variables,
// optionally seeded from .env files.
//
// Structs describe their variables with github.com/caarlos0/env tags:
//
//	type Config struct {
//		Addr   string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Cookie cookie.Config `envPrefix:""`
//	}
//
//	cfg, err := config.Load[Config]()
//
// .env files are read with github.com/joho/godotenv. Variables already set in
// the process environment win over values from files.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// LoadEnv loads the given .env files into the process environment.
// Without arguments it loads ".env" from the working directory and ignores
// its absence; named files must exist.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		err := godotenv.Load(defaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Join(ErrLoadingEnvFile, err)
		}
		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Load reads the .env files (see LoadEnv) and parses the environment into
// a new value of type T.
func Load[T any](files ...string) (T, error) {
	var zero T
	if err := LoadEnv(files...); err != nil {
		return zero, err
	}

	v, err := env.ParseAs[T]()
	if err != nil {
		return zero, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// MustLoad is like Load but panics on failure. Use it for configuration the
// process cannot start without.
func MustLoad[T any](files ...string) T {
	v, err := Load[T](files...)
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return v
}
