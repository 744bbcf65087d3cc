package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	path = "infra/config"
	// DirEnv overrides the directory the config files are loaded from.
	DirEnv = "FIT_CONFIG_DIR"
)

// Fit is the configuration of the fitting service and tools.
type Fit struct {
	// Port is the http port of the fit server.
	Port int `json:"port"`
	// Digits is the default output precision. Negative values disable rounding.
	Digits int `json:"digits"`
	// Engine is the default solver.
	Engine string `json:"engine"`
	// Debug enables debug logging and request payload logging.
	Debug bool `json:"debug"`
	// Origins are the allowed CORS origins.
	Origins []string `json:"origins"`
	// BatchLimit bounds the number of fits of a batch that run in parallel.
	BatchLimit int `json:"batch_limit"`
}

// Default returns the configuration used when no file is present.
func Default() Fit {
	return Fit{
		Port:       6090,
		Digits:     2,
		Engine:     "qr",
		Origins:    []string{"*"},
		BatchLimit: 8,
	}
}

// Dir returns the directory config files are read from.
func Dir() string {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir
	}
	return path
}

// Load loads the config for the given key.
func Load(key string, v interface{}) ([]byte, error) {
	p := filepath.Join(Dir(), fmt.Sprintf("%s.json", key))
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("could not load config for %s: %w", key, err)
	}
	err = json.Unmarshal(b, v)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}
	log.Info().Str("config", key).Str("path", p).Msg("loaded config")
	return b, nil
}

// MustLoad loads the config for the given key
func MustLoad(key string, v interface{}) []byte {
	b, err := Load(key, v)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// LoadFit loads the fit config on top of the defaults and applies the environment overrides.
// A missing file falls back to the defaults.
func LoadFit(key string) Fit {
	cfg := Default()
	if _, err := Load(key, &cfg); err != nil {
		log.Warn().Err(err).Str("config", key).Msg("using default config")
	}
	return cfg.Env()
}

// Env applies the FIT_PORT, FIT_DIGITS, FIT_ENGINE and FIT_DEBUG overrides.
func (f Fit) Env() Fit {
	if port, err := strconv.Atoi(os.Getenv("FIT_PORT")); err == nil {
		f.Port = port
	}
	if digits, err := strconv.Atoi(os.Getenv("FIT_DIGITS")); err == nil {
		f.Digits = digits
	}
	if engine := os.Getenv("FIT_ENGINE"); engine != "" {
		f.Engine = engine
	}
	if debug, err := strconv.ParseBool(os.Getenv("FIT_DEBUG")); err == nil {
		f.Debug = debug
	}
	return f
}
