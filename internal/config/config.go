package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/rusbers/iannabeauty/internal/seo"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultReadHeaderTime  = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultCompression     = 5
	defaultContentDir      = "content"
	defaultContentCacheTTL = 5 * time.Minute
	defaultTemplatesDir    = "templates"
	defaultPublicDir       = "public"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Site    SiteConfig
	CMS     CMSConfig
	Paths   PathsConfig
	DevMode bool
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	CompressionLevel  int
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// SiteConfig holds the public identity used in page metadata.
type SiteConfig struct {
	BaseURL        string
	Name           string
	Creator        string
	TwitterCreator string
	CountryName    string
	Locale         string
}

// CMSConfig points at the content sources.
type CMSConfig struct {
	BaseURL    string
	ContentDir string
	CacheTTL   time.Duration
}

// PathsConfig lists on-disk locations for templates and static assets.
type PathsConfig struct {
	Templates string
	Public    string
}

// SEOSite returns the site value injected into metadata assembly.
func (c Config) SEOSite() seo.Site {
	return seo.Site{
		BaseURL:        c.Site.BaseURL,
		Name:           c.Site.Name,
		Creator:        c.Site.Creator,
		TwitterCreator: c.Site.TwitterCreator,
		CountryName:    c.Site.CountryName,
		Locale:         c.Site.Locale,
	}.WithDefaults()
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration by combining defaults, .env overrides and environment
// variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	// Cloud Run injects PORT; the app-specific key wins when both are set.
	port := stringWithDefault(lookup, "IANNA_WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:              port,
			ReadTimeout:       durationWithDefault(lookup, "IANNA_WEB_READ_TIMEOUT", defaultReadTimeout),
			ReadHeaderTimeout: durationWithDefault(lookup, "IANNA_WEB_READ_HEADER_TIMEOUT", defaultReadHeaderTime),
			WriteTimeout:      durationWithDefault(lookup, "IANNA_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "IANNA_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout:    durationWithDefault(lookup, "IANNA_WEB_REQUEST_TIMEOUT", defaultRequestTimeout),
			CompressionLevel:  intWithDefault(lookup, "IANNA_WEB_COMPRESSION_LEVEL", defaultCompression),
		},
		Site: SiteConfig{
			BaseURL:        strings.TrimRight(stringWithDefault(lookup, "IANNA_WEB_BASE_URL", ""), "/"),
			Name:           stringWithDefault(lookup, "IANNA_WEB_SITE_NAME", seo.DefaultSiteName),
			Creator:        stringWithDefault(lookup, "IANNA_WEB_CREATOR", seo.DefaultCreator),
			TwitterCreator: stringWithDefault(lookup, "IANNA_WEB_TWITTER_CREATOR", seo.DefaultTwitterCreator),
			CountryName:    stringWithDefault(lookup, "IANNA_WEB_COUNTRY_NAME", seo.DefaultCountryName),
			Locale:         stringWithDefault(lookup, "IANNA_WEB_LOCALE", seo.DefaultLocale),
		},
		CMS: CMSConfig{
			BaseURL:    stringWithDefault(lookup, "IANNA_WEB_CMS_BASE_URL", ""),
			ContentDir: stringWithDefault(lookup, "IANNA_WEB_CONTENT_DIR", defaultContentDir),
			CacheTTL:   durationWithDefault(lookup, "IANNA_WEB_CONTENT_CACHE_TTL", defaultContentCacheTTL),
		},
		Paths: PathsConfig{
			Templates: stringWithDefault(lookup, "IANNA_WEB_TEMPLATES_DIR", defaultTemplatesDir),
			Public:    stringWithDefault(lookup, "IANNA_WEB_PUBLIC_DIR", defaultPublicDir),
		},
		DevMode: boolWithDefault(lookup, "IANNA_WEB_DEV", false),
	}

	locale, localeErr := canonicalLocale(cfg.Site.Locale)
	cfg.Site.Locale = locale

	if err := validateConfig(cfg, localeErr); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, localeErr error) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if !isAbsoluteHTTPURL(cfg.Site.BaseURL) {
		missing = append(missing, "Site.BaseURL")
	}
	if localeErr != nil {
		missing = append(missing, "Site.Locale")
	}
	if cfg.CMS.BaseURL != "" && !isAbsoluteHTTPURL(cfg.CMS.BaseURL) {
		missing = append(missing, "CMS.BaseURL")
	}
	if cfg.CMS.CacheTTL <= 0 {
		missing = append(missing, "CMS.CacheTTL")
	}
	if cfg.Server.CompressionLevel < 1 || cfg.Server.CompressionLevel > 9 {
		missing = append(missing, "Server.CompressionLevel")
	}
	if cfg.Server.RequestTimeout <= 0 {
		missing = append(missing, "Server.RequestTimeout")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func canonicalLocale(tag string) (string, error) {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	parsed, err := language.Parse(tag)
	if err != nil {
		return tag, err
	}
	return parsed.String(), nil
}

func isAbsoluteHTTPURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
