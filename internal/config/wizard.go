package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// highlightStyles are the chroma styles offered by the wizard.
var highlightStyles = []string{"github", "monokai", "dracula", "solarized-light", "nord"}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to kinlink-docs! Let's configure the site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Enabled locales.
	localesPrompt := promptui.Prompt{
		Label:   "Enabled locales (comma-separated)",
		Default: strings.Join(SupportedLocales, ","),
	}
	localesStr, err := localesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("locales: %w", err)
	}
	if locales := splitAndTrim(localesStr); len(locales) > 0 {
		cfg.Locales = locales
	}

	// 2. Default locale.
	localePrompt := promptui.Select{
		Label: "Default locale (served without a URL prefix)",
		Items: cfg.Locales,
	}
	_, locale, err := localePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("locale selection: %w", err)
	}
	cfg.DefaultLocale = locale

	// 3. Prefix mode.
	prefixPrompt := promptui.Select{
		Label: "Locale prefix mode",
		Items: []string{
			"as-needed (default locale has no prefix)",
			"always (every route carries /en or /zh)",
		},
	}
	prefixIdx, _, err := prefixPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prefix selection: %w", err)
	}
	cfg.LocalePrefix = []LocalePrefix{PrefixAsNeeded, PrefixAlways}[prefixIdx]

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 5. Highlight style.
	stylePrompt := promptui.Select{
		Label: "Code highlighting style",
		Items: highlightStyles,
	}
	_, style, err := stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("style selection: %w", err)
	}
	cfg.Highlight.Style = style

	// 6. Output directory for static builds.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for static builds",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			token := trimSpace(s[start:i])
			if token != "" {
				result = append(result, token)
			}
			start = i + 1
		}
	}
	return result
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}
