package routes

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Config is the parsed route-configuration artifact
type Config struct {
	Routes      map[string]Route  `toml:"routes"`
	Collections []Collection      `toml:"collections"`
	Taxonomies  map[string]string `toml:"taxonomies"`
}

// Route maps a fixed path to a template
type Route struct {
	Template string `toml:"template"`
	Data     string `toml:"data"`
}

// Collection is a permalink-generating content collection
type Collection struct {
	Route     string `toml:"route"`
	Permalink string `toml:"permalink"`
	Template  string `toml:"template"`
	Filter    string `toml:"filter"`
}

// Parse decodes and validates an uploaded artifact. A malformed artifact is
// rejected before it ever reaches the active path.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse routes artifact")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural invariants of the artifact
func (c *Config) Validate() error {
	for path, route := range c.Routes {
		if !strings.HasPrefix(path, "/") {
			return goerr.New("route path must start with /", goerr.V("path", path))
		}
		if route.Template == "" {
			return goerr.New("route template is required", goerr.V("path", path))
		}
	}

	for i, col := range c.Collections {
		if !strings.HasPrefix(col.Route, "/") {
			return goerr.New("collection route must start with /", goerr.V("index", i))
		}
		if !strings.Contains(col.Permalink, "{slug}") {
			return goerr.New("collection permalink must contain {slug}", goerr.V("route", col.Route))
		}
	}

	for name, pattern := range c.Taxonomies {
		if !strings.Contains(pattern, "{slug}") {
			return goerr.New("taxonomy pattern must contain {slug}", goerr.V("taxonomy", name))
		}
	}

	return nil
}
