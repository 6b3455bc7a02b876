package i18n

import (
	"fmt"

	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Messages translates UI strings. Keys missing from a locale render as the
// key itself.
type Messages struct {
	router  *Router
	catalog *catalog.Builder
}

// NewMessages builds a catalog from per-locale key/value maps.
func NewMessages(r *Router, byLocale map[string]map[string]string) (*Messages, error) {
	b := catalog.NewBuilder(catalog.Fallback(r.Tag(r.Default)))
	for locale, msgs := range byLocale {
		if !r.Supported(locale) {
			continue
		}
		tag := r.Tag(locale)
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("message %s/%s: %w", locale, key, err)
			}
		}
	}
	return &Messages{router: r, catalog: b}, nil
}

// Printer returns a printer for locale.
func (m *Messages) Printer(locale string) *message.Printer {
	return message.NewPrinter(m.router.Tag(locale), message.Catalog(m.catalog))
}

// T translates key in locale, formatting args into the message.
func (m *Messages) T(locale, key string, args ...any) string {
	return m.Printer(locale).Sprintf(key, args...)
}
