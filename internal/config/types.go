package config

import "time"

// LocalePrefix controls when the locale segment appears in URLs.
type LocalePrefix string

const (
	// PrefixAsNeeded omits the prefix for the default locale.
	PrefixAsNeeded LocalePrefix = "as-needed"
	// PrefixAlways prefixes every localized route, the default locale included.
	PrefixAlways LocalePrefix = "always"
)

// Config is the top-level kinlink-docs configuration, corresponding to .kinlink.yml.
type Config struct {
	Port          int             `yaml:"port" koanf:"port"`
	SiteName      string          `yaml:"site_name" koanf:"site_name"`
	DefaultLocale string          `yaml:"default_locale" koanf:"default_locale"`
	Locales       []string        `yaml:"locales" koanf:"locales"`
	LocalePrefix  LocalePrefix    `yaml:"locale_prefix" koanf:"locale_prefix"`
	DetectLocale  bool            `yaml:"detect_locale" koanf:"detect_locale"`
	ContentDir    string          `yaml:"content_dir" koanf:"content_dir"`
	OutputDir     string          `yaml:"output_dir" koanf:"output_dir"`
	DataDir       string          `yaml:"data_dir" koanf:"data_dir"`
	CORSAllowAll  bool            `yaml:"cors_allow_all" koanf:"cors_allow_all"`
	Watch         bool            `yaml:"watch" koanf:"watch"`
	LogLevel      string          `yaml:"log_level" koanf:"log_level"`
	LogFormat     string          `yaml:"log_format" koanf:"log_format"`
	Highlight     HighlightConfig `yaml:"highlight" koanf:"highlight"`
	Copy          CopyConfig      `yaml:"copy" koanf:"copy"`
}

// HighlightConfig holds syntax highlighting settings.
type HighlightConfig struct {
	// Style is a chroma style name.
	Style string `yaml:"style" koanf:"style"`
	// Delay is how long a deferred scan waits before walking the panel.
	Delay       time.Duration `yaml:"delay" koanf:"delay"`
	LineNumbers bool          `yaml:"line_numbers" koanf:"line_numbers"`
}

// CopyConfig holds copy button settings.
type CopyConfig struct {
	ResetAfter   time.Duration `yaml:"reset_after" koanf:"reset_after"`
	WriteTimeout time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
}
