package config

import "time"

// SupportedLocales lists the locales the bundled content ships with.
var SupportedLocales = []string{"en", "zh"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:          8080,
		SiteName:      "Kinlink Developers",
		DefaultLocale: "zh",
		Locales:       append([]string(nil), SupportedLocales...),
		LocalePrefix:  PrefixAsNeeded,
		OutputDir:     "dist",
		DataDir:       ".kinlink",
		LogLevel:      "info",
		LogFormat:     "text",
		Highlight: HighlightConfig{
			Style: "github",
			Delay: 100 * time.Millisecond,
		},
		Copy: CopyConfig{
			ResetAfter:   2 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
	}
}
