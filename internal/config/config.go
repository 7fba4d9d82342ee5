// Package config loads scopealign's runtime configuration: environment
// variables for the HTTP surface, logging a warning and falling back to a
// default for anything missing or malformed except the auth settings, which
// fail the load, and an optional YAML site file for the geographic
// reference position and alignment hint.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/star/scopealign/internal/astro"
)

// Config is the process-wide runtime configuration.
type Config struct {
	HTTPAddr        string
	AuthEnabled     bool
	AuthToken       string
	RebuildInterval time.Duration
	SiteFile        string
	TrustProxy      bool
}

// Load reads environment variables into a Config, logging a warning and
// falling back to a default for any value that's missing or malformed. The
// exceptions are auth: a malformed SCOPEALIGN_AUTH_ENABLED, or auth enabled
// without SCOPEALIGN_AUTH_TOKEN, returns an error.
func Load(logger *slog.Logger) (Config, error) {
	cfg := Config{
		HTTPAddr:        ":8080",
		RebuildInterval: 5 * time.Second,
		SiteFile:        "site.yaml",
	}

	if v := os.Getenv("SCOPEALIGN_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	if v := os.Getenv("SCOPEALIGN_SITE_FILE"); v != "" {
		cfg.SiteFile = v
	}

	if v := os.Getenv("SCOPEALIGN_REBUILD_INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SCOPEALIGN_REBUILD_INTERVAL_SECONDS value, using default",
				"value", v, "default", cfg.RebuildInterval.Seconds())
		} else {
			cfg.RebuildInterval = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("SCOPEALIGN_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("SCOPEALIGN_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.AuthEnabled = enabled
	}
	if cfg.AuthEnabled {
		cfg.AuthToken = os.Getenv("SCOPEALIGN_AUTH_TOKEN")
		if cfg.AuthToken == "" {
			return cfg, fmt.Errorf("SCOPEALIGN_AUTH_TOKEN is required when auth is enabled")
		}
	}

	if v := os.Getenv("SCOPEALIGN_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SCOPEALIGN_TRUST_PROXY value, using default",
				"value", v, "default", cfg.TrustProxy)
		} else {
			cfg.TrustProxy = trust
		}
	}

	logger.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"auth_enabled", cfg.AuthEnabled,
		"rebuild_interval_seconds", cfg.RebuildInterval.Seconds(),
		"site_file", cfg.SiteFile,
		"trust_proxy", cfg.TrustProxy,
	)

	return cfg, nil
}

// Site is the observatory's geographic position and mount alignment hint,
// persisted separately from the rest of the runtime config because it
// changes only when the telescope is physically relocated or re-rigged.
type Site struct {
	LatitudeDeg  float64 `yaml:"latitude_deg"`
	LongitudeDeg float64 `yaml:"longitude_deg"`
	ElevationM   float64 `yaml:"elevation_m"`
	Hint         string  `yaml:"alignment_hint"` // zenith|north_celestial_pole|south_celestial_pole
}

// LoadSite reads a Site from a YAML file. A missing file is not an error:
// it returns the zero Site with ok=false so the caller can wait for the
// operator to configure one via the API instead of refusing to start.
func LoadSite(path string) (pos astro.Position, hint astro.Hint, ok bool, err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return astro.Position{}, astro.Zenith, false, nil
		}
		return astro.Position{}, astro.Zenith, false, fmt.Errorf("read site file: %w", readErr)
	}

	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return astro.Position{}, astro.Zenith, false, fmt.Errorf("unmarshal site yaml: %w", err)
	}

	h, err := parseHint(s.Hint)
	if err != nil {
		return astro.Position{}, astro.Zenith, false, err
	}

	pos = astro.Position{
		LatitudeDeg:  s.LatitudeDeg,
		LongitudeDeg: s.LongitudeDeg,
		ElevationM:   s.ElevationM,
	}
	return pos, h, true, nil
}

func parseHint(s string) (astro.Hint, error) {
	switch s {
	case "", "zenith":
		return astro.Zenith, nil
	case "north_celestial_pole":
		return astro.NorthCelestialPole, nil
	case "south_celestial_pole":
		return astro.SouthCelestialPole, nil
	default:
		return astro.Zenith, fmt.Errorf("unknown alignment_hint %q", s)
	}
}
