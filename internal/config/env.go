package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings read from the process environment.
type Env struct {
	// MaxInput caps the size in bytes of a single input document.
	MaxInput int64 `env:"HTMLCLEAN_MAX_INPUT" envDefault:"4194304"`

	// Policy is a policy file used when --config is not given.
	Policy string `env:"HTMLCLEAN_POLICY"`

	// LogFile receives debug logs instead of stderr.
	LogFile string `env:"HTMLCLEAN_LOG_FILE"`

	Debug bool `env:"HTMLCLEAN_DEBUG"`
}

// LoadEnv parses Env from environ, or from the process environment when
// environ is nil.
func LoadEnv(environ map[string]string) (Env, error) {
	e, err := env.ParseAsWithOptions[Env](env.Options{Environment: environ})
	if err != nil {
		return Env{}, fmt.Errorf("config: environment: %w", err)
	}
	if e.MaxInput <= 0 {
		return Env{}, fmt.Errorf("config: environment: %w: HTMLCLEAN_MAX_INPUT must be positive", ErrInvalid)
	}
	return e, nil
}
