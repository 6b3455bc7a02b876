// Package i18n resolves the locale of a request from its path prefix and
// rewrites the request to the locale-free route.
//
// With the "as-needed" prefix mode the default locale is served unprefixed
// and a request for /<default>/... is redirected to the bare route. With
// "always" every page route carries its locale.
package i18n

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Prefix modes.
const (
	PrefixAsNeeded = "as-needed"
	PrefixAlways   = "always"
)

// CookieName stores the last locale a reader visited.
const CookieName = "KINLINK_LOCALE"

// excluded paths are never locale-prefixed. Entries ending in "/" cover
// their whole subtree; the rest match exactly.
var excluded = []string{"/api/", "/static/", "/ws", "/healthz", "/favicon.ico", "/search-index.json"}

type ctxKey struct{}

// WithLocale returns ctx carrying locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// FromContext returns the locale stored by the middleware, or "".
func FromContext(ctx context.Context) string {
	l, _ := ctx.Value(ctxKey{}).(string)
	return l
}

// Router maps between localized paths and routes.
type Router struct {
	Default string
	Locales []string
	Prefix  string
	// Detect enables cookie and Accept-Language detection for unprefixed
	// requests.
	Detect bool

	tags    []language.Tag
	matcher language.Matcher
}

// New creates a router. Default must be one of locales.
func New(def string, locales []string, prefix string, detect bool) (*Router, error) {
	if !slices.Contains(locales, def) {
		return nil, fmt.Errorf("default locale %q not in %v", def, locales)
	}
	if prefix == "" {
		prefix = PrefixAsNeeded
	}
	if prefix != PrefixAsNeeded && prefix != PrefixAlways {
		return nil, fmt.Errorf("unknown locale prefix mode %q", prefix)
	}

	// The default goes first so that a failed match resolves to it.
	ordered := append([]string{def}, slices.DeleteFunc(slices.Clone(locales), func(l string) bool { return l == def })...)
	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", l, err)
		}
		tags = append(tags, tag)
	}

	return &Router{
		Default: def,
		Locales: ordered,
		Prefix:  prefix,
		Detect:  detect,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Supported reports whether locale is served.
func (r *Router) Supported(locale string) bool {
	return slices.Contains(r.Locales, locale)
}

// Split separates a leading locale segment from p. The returned route
// always starts with "/".
func (r *Router) Split(p string) (locale, route string, prefixed bool) {
	trimmed := strings.TrimPrefix(p, "/")
	seg, rest, _ := strings.Cut(trimmed, "/")
	if r.Supported(seg) {
		return seg, "/" + rest, true
	}
	if p == "" {
		p = "/"
	}
	return r.Default, p, false
}

// LocalizedPath returns the public path of route in locale.
func (r *Router) LocalizedPath(locale, route string) string {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if r.Prefix == PrefixAsNeeded && locale == r.Default {
		return route
	}
	if route == "/" {
		return "/" + locale
	}
	return "/" + locale + route
}

// Match picks the best supported locale for an Accept-Language header.
func (r *Router) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.Default
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.Default
	}
	return r.Locales[idx]
}

// Tag returns the language tag of locale.
func (r *Router) Tag(locale string) language.Tag {
	for i, l := range r.Locales {
		if l == locale {
			return r.tags[i]
		}
	}
	return r.tags[0]
}

func (r *Router) preferred(req *http.Request) string {
	if c, err := req.Cookie(CookieName); err == nil && r.Supported(c.Value) {
		return c.Value
	}
	return r.Match(req.Header.Get("Accept-Language"))
}

func isExcluded(p string) bool {
	for _, e := range excluded {
		if !strings.HasSuffix(e, "/") {
			if p == e {
				return true
			}
			continue
		}
		if p == strings.TrimSuffix(e, "/") || strings.HasPrefix(p, e) {
			return true
		}
	}
	return false
}

// Middleware resolves the request locale, redirects non-canonical paths and
// strips the locale prefix before routing.
func (r *Router) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if isExcluded(req.URL.Path) {
			locale := r.Default
			if c, err := req.Cookie(CookieName); err == nil && r.Supported(c.Value) {
				locale = c.Value
			}
			next.ServeHTTP(w, req.WithContext(WithLocale(req.Context(), locale)))
			return
		}

		locale, route, prefixed := r.Split(req.URL.Path)
		switch {
		case prefixed && r.Prefix == PrefixAsNeeded && locale == r.Default:
			redirect(w, req, route)
			return
		case !prefixed && r.Prefix == PrefixAlways:
			if r.Detect {
				locale = r.preferred(req)
			}
			redirect(w, req, r.LocalizedPath(locale, route))
			return
		case !prefixed && r.Detect:
			if _, err := req.Cookie(CookieName); err != nil {
				if pref := r.preferred(req); pref != r.Default {
					redirect(w, req, r.LocalizedPath(pref, route))
					return
				}
			}
		}

		http.SetCookie(w, &http.Cookie{Name: CookieName, Value: locale, Path: "/", SameSite: http.SameSiteLaxMode})

		r2 := req.WithContext(WithLocale(req.Context(), locale))
		u := *req.URL
		u.Path = route
		u.RawPath = ""
		r2.URL = &u
		next.ServeHTTP(w, r2)
	})
}

func redirect(w http.ResponseWriter, req *http.Request, target string) {
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	http.Redirect(w, req, target, http.StatusTemporaryRedirect)
}
