package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "KINLINK_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (KINLINK_*). Nested keys use a double
// underscore: KINLINK_HIGHLIGHT__STYLE -> highlight.style.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if len(c.Locales) == 0 {
		return fmt.Errorf("at least one locale is required")
	}
	for _, l := range c.Locales {
		if !slices.Contains(SupportedLocales, l) {
			return fmt.Errorf("unsupported locale %q: must be one of %s", l, strings.Join(SupportedLocales, ", "))
		}
	}
	if !slices.Contains(c.Locales, c.DefaultLocale) {
		return fmt.Errorf("default_locale %q is not listed in locales", c.DefaultLocale)
	}

	switch c.LocalePrefix {
	case PrefixAsNeeded, PrefixAlways:
	default:
		return fmt.Errorf("invalid locale_prefix %q: must be as-needed or always", c.LocalePrefix)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}

	if c.Highlight.Delay < 0 {
		return fmt.Errorf("highlight.delay must be non-negative")
	}
	if c.Copy.ResetAfter <= 0 {
		return fmt.Errorf("copy.reset_after must be positive")
	}
	if c.Copy.WriteTimeout <= 0 {
		return fmt.Errorf("copy.write_timeout must be positive")
	}

	return nil
}
