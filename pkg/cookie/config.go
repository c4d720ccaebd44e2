package cookie

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds cookie handler configuration.
type Config struct {
	Secrets     string   `env:"COOKIE_SECRETS" envDefault:""`
	Path        string   `env:"COOKIE_PATH" envDefault:"/"`
	Domain      string   `env:"COOKIE_DOMAIN" envDefault:""`
	MaxAge      int      `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure      bool     `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly    bool     `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite    SameSite `env:"COOKIE_SAME_SITE" envDefault:"Lax"`
	Partitioned bool     `env:"COOKIE_PARTITIONED" envDefault:"false"`
	PresetsFile string   `env:"COOKIE_PRESETS_FILE" envDefault:""`
}

func DefaultConfig() Config {
	return Config{
		Path:     "/",
		HttpOnly: true,
		SameSite: SameSiteLax,
	}
}

// parseSecrets splits the comma separated secrets, dropping blanks.
func (c Config) parseSecrets() []string {
	if c.Secrets == "" {
		return nil
	}

	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// Options converts the config into cookie defaults. Unlike the other
// fields, HttpOnly and SameSite are always applied since their zero values
// are meaningful.
func (c Config) Options() ([]Option, error) {
	opts := make([]Option, 0, 7)
	if c.Path != "" {
		opts = append(opts, WithPath(c.Path))
	}
	if c.Domain != "" {
		opts = append(opts, WithDomain(c.Domain))
	}
	if c.MaxAge != 0 {
		opts = append(opts, WithMaxAge(c.MaxAge))
	}
	if c.Secure {
		opts = append(opts, WithSecure(true))
	}
	if c.Partitioned {
		opts = append(opts, WithPartitioned(true))
	}
	opts = append(opts, WithHTTPOnly(c.HttpOnly), WithSameSite(c.SameSite))

	if _, err := applyOptions(defaultOptions(), opts).normalize(); err != nil {
		return nil, err
	}
	return opts, nil
}

// HandlerOptions builds the handler options described by the config:
// cookie defaults, a Signer when secrets are set, and the logger.
func (c Config) HandlerOptions(log *slog.Logger) ([]HandlerOption, error) {
	defaults, err := c.Options()
	if err != nil {
		return nil, err
	}

	hopts := []HandlerOption{WithDefaults(defaults...), WithLogger(log)}

	if secrets := c.parseSecrets(); len(secrets) > 0 {
		signer, err := NewSigner(secrets...)
		if err != nil {
			return nil, err
		}
		hopts = append(hopts, WithSigner(signer))
	}

	return hopts, nil
}

// LoadPresetsFile reads the presets file named by the config.
// It returns nil presets when no file is configured.
func (c Config) LoadPresetsFile() (Presets, error) {
	if c.PresetsFile == "" {
		return nil, nil
	}

	f, err := os.Open(c.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("open cookie presets: %w", err)
	}
	defer f.Close()

	return LoadPresets(f)
}

// NewHandlerFromConfig creates a Handler from the provided Config.
func NewHandlerFromConfig(cfg Config, log *slog.Logger, opts ...HandlerOption) (*Handler, error) {
	hopts, err := cfg.HandlerOptions(log)
	if err != nil {
		return nil, err
	}
	return NewHandler(append(hopts, opts...)...), nil
}
