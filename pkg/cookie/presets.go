package cookie

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Preset is a named set of cookie attributes, typically loaded from YAML:
//
//	session:
//	  path: /
//	  secure: true
//	  same_site: strict
//	  max_age: 3600
//	tracking:
//	  same_site: none
//	  secure: true
//	  partitioned: true
//	  ttl: 720h
type Preset struct {
	Path        string        `yaml:"path"`
	Domain      string        `yaml:"domain"`
	Secure      bool          `yaml:"secure"`
	HttpOnly    *bool         `yaml:"http_only"`
	SameSite    SameSite      `yaml:"same_site"`
	Partitioned bool          `yaml:"partitioned"`
	MaxAge      *int          `yaml:"max_age"`
	TTL         time.Duration `yaml:"ttl"`
}

type Presets map[string]Preset

// LoadPresets decodes presets from YAML and validates each of them.
func LoadPresets(r io.Reader) (Presets, error) {
	var p Presets
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Presets{}, nil
		}
		return nil, errors.Join(ErrInvalidPresets, err)
	}

	for name, preset := range p {
		if _, err := applyOptions(defaultOptions(), preset.Options(time.Now())).normalize(); err != nil {
			return nil, fmt.Errorf("%w: preset %q: %w", ErrInvalidPresets, name, err)
		}
	}
	return p, nil
}

// Options converts the preset into cookie options. A TTL becomes an
// Expires attribute relative to now.
func (p Preset) Options(now time.Time) []Option {
	opts := make([]Option, 0, 8)
	if p.Path != "" {
		opts = append(opts, WithPath(p.Path))
	}
	if p.Domain != "" {
		opts = append(opts, WithDomain(p.Domain))
	}
	if p.Secure {
		opts = append(opts, WithSecure(true))
	}
	if p.HttpOnly != nil {
		opts = append(opts, WithHTTPOnly(*p.HttpOnly))
	}
	if p.SameSite != "" {
		opts = append(opts, WithSameSite(p.SameSite))
	}
	if p.Partitioned {
		opts = append(opts, WithPartitioned(true))
	}
	if p.MaxAge != nil {
		opts = append(opts, WithMaxAge(*p.MaxAge))
	}
	if p.TTL > 0 {
		opts = append(opts, WithExpiresAt(now.Add(p.TTL)))
	}
	return opts
}

// Create registers a cookie on h using the named preset followed by opts.
func (p Presets) Create(h *Handler, preset, name, value string, opts ...Option) (*Cookie, error) {
	pr, ok := p[preset]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidPresets, preset)
	}
	return h.Create(name, value, append(pr.Options(time.Now()), opts...)...)
}
