// Package config resolves settings from defaults, an optional dotenv file and
// the environment. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"beep/note"
	"beep/sink"
)

// DefaultEnvFile is read from the working directory when BEEP_ENV_FILE is unset.
const DefaultEnvFile = ".beeprc.env"

type Config struct {
	Backend string
	A4      float64
	Output  string
	LogPath string

	// EnvFile is the dotenv file that was loaded, if any.
	EnvFile string
}

func Default() Config {
	return Config{
		Backend: sink.DefaultBackend,
		A4:      note.DefaultA4,
	}
}

// Load builds a Config. Variables already set in the process environment win
// over the dotenv file. An explicitly named env file must exist; the default
// one is optional.
func Load() (Config, error) {
	envFile := os.Getenv("BEEP_ENV_FILE")
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	loaded := envFile
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
		loaded = ""
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return Config{}, err
	}
	cfg.EnvFile = loaded
	return cfg, nil
}

// FromEnv applies BEEP_* variables from getenv over the defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("BEEP_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := getenv("BEEP_A4"); v != "" {
		a4, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("BEEP_A4: %q is not a number", v)
		}
		if err := note.ValidateReference(a4); err != nil {
			return Config{}, fmt.Errorf("BEEP_A4: %w", err)
		}
		cfg.A4 = a4
	}
	cfg.Output = getenv("BEEP_OUTPUT")
	cfg.LogPath = getenv("BEEP_LOG_PATH")

	return cfg, nil
}
