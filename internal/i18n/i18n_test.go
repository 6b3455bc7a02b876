package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, prefix string, detect bool) *Router {
	t.Helper()
	r, err := New("zh", []string{"en", "zh"}, prefix, detect)
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	r := newRouter(t, "", false)
	assert.Equal(t, PrefixAsNeeded, r.Prefix)
	assert.Equal(t, []string{"zh", "en"}, r.Locales)

	_, err := New("fr", []string{"en", "zh"}, "", false)
	assert.Error(t, err)
	_, err = New("zh", []string{"en", "zh"}, "sometimes", false)
	assert.Error(t, err)
	_, err = New("zh", []string{"zh", "!!"}, "", false)
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	r := newRouter(t, PrefixAsNeeded, false)
	tests := []struct {
		path     string
		locale   string
		route    string
		prefixed bool
	}{
		{"/", "zh", "/", false},
		{"", "zh", "/", false},
		{"/docs", "zh", "/docs", false},
		{"/en", "en", "/", true},
		{"/en/docs/installation", "en", "/docs/installation", true},
		{"/zh/examples", "zh", "/examples", true},
		{"/english/docs", "zh", "/english/docs", false},
	}
	for _, tt := range tests {
		locale, route, prefixed := r.Split(tt.path)
		assert.Equal(t, tt.locale, locale, tt.path)
		assert.Equal(t, tt.route, route, tt.path)
		assert.Equal(t, tt.prefixed, prefixed, tt.path)
	}
}

func TestLocalizedPath(t *testing.T) {
	r := newRouter(t, PrefixAsNeeded, false)
	assert.Equal(t, "/docs", r.LocalizedPath("zh", "/docs"))
	assert.Equal(t, "/en/docs", r.LocalizedPath("en", "/docs"))
	assert.Equal(t, "/en", r.LocalizedPath("en", "/"))
	assert.Equal(t, "/", r.LocalizedPath("zh", "/"))
	assert.Equal(t, "/en/docs", r.LocalizedPath("en", "docs"))

	always := newRouter(t, PrefixAlways, false)
	assert.Equal(t, "/zh/docs", always.LocalizedPath("zh", "/docs"))
}

func TestMatch(t *testing.T) {
	r := newRouter(t, PrefixAsNeeded, true)
	assert.Equal(t, "en", r.Match("en-US,en;q=0.9"))
	assert.Equal(t, "zh", r.Match("zh-CN,zh;q=0.9"))
	assert.Equal(t, "zh", r.Match("fr-FR"))
	assert.Equal(t, "zh", r.Match(""))
	assert.Equal(t, "en", r.Match("fr;q=0.9,en;q=0.8"))
}

type captured struct {
	locale string
	path   string
}

func serve(r *Router, req *http.Request) (*httptest.ResponseRecorder, captured) {
	var got captured
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = captured{locale: FromContext(req.Context()), path: req.URL.Path}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, got
}

func TestMiddlewareAsNeeded(t *testing.T) {
	r := newRouter(t, PrefixAsNeeded, false)

	tests := []struct {
		path     string
		status   int
		location string
		locale   string
		route    string
	}{
		{"/", http.StatusOK, "", "zh", "/"},
		{"/docs/installation", http.StatusOK, "", "zh", "/docs/installation"},
		{"/en/docs/installation", http.StatusOK, "", "en", "/docs/installation"},
		{"/en", http.StatusOK, "", "en", "/"},
		{"/zh/docs", http.StatusTemporaryRedirect, "/docs", "", ""},
		{"/zh?x=1", http.StatusTemporaryRedirect, "/?x=1", "", ""},
		{"/api/search", http.StatusOK, "", "zh", "/api/search"},
		{"/static/style.css", http.StatusOK, "", "zh", "/static/style.css"},
		{"/ws", http.StatusOK, "", "zh", "/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, got := serve(r, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
				return
			}
			assert.Equal(t, tt.locale, got.locale)
			assert.Equal(t, tt.route, got.path)
		})
	}
}

func TestMiddlewareAlways(t *testing.T) {
	r := newRouter(t, PrefixAlways, false)

	rec, _ := serve(r, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/zh/docs", rec.Header().Get("Location"))

	rec, got := serve(r, httptest.NewRequest(http.MethodGet, "/zh/docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, captured{"zh", "/docs"}, got)

	// Only the exact socket path bypasses prefixing.
	rec, got = serve(r, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, captured{"zh", "/ws"}, got)

	for _, p := range []string{"/wsdl", "/ws-guide", "/healthzone"} {
		rec, _ = serve(r, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code, p)
		assert.Equal(t, "/zh"+p, rec.Header().Get("Location"), p)
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/ws", true},
		{"/wsdl", false},
		{"/ws/extra", false},
		{"/api", true},
		{"/api/search", true},
		{"/apis", false},
		{"/static/site.js", true},
		{"/healthz", true},
		{"/healthzone", false},
		{"/search-index.json", true},
		{"/docs", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isExcluded(tt.path), tt.path)
	}
}

func TestMiddlewareDetect(t *testing.T) {
	r := newRouter(t, PrefixAsNeeded, true)

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec, _ := serve(r, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/en/docs", rec.Header().Get("Location"))

	// An explicit earlier choice wins over the header.
	req = httptest.NewRequest(http.MethodGet, "/docs", nil)
	req.Header.Set("Accept-Language", "en-US")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "zh"})
	rec, got := serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "zh", got.locale)
}

func TestMiddlewareSetsCookie(t *testing.T) {
	r := newRouter(t, PrefixAsNeeded, false)
	rec, _ := serve(r, httptest.NewRequest(http.MethodGet, "/en/docs", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "en", cookies[0].Value)
}

func TestMessages(t *testing.T) {
	r := newRouter(t, PrefixAsNeeded, false)
	m, err := NewMessages(r, map[string]map[string]string{
		"zh": {"copy.copied": "已复制", "footer": "© %s"},
		"en": {"copy.copied": "Copied"},
		"fr": {"copy.copied": "Copié"},
	})
	require.NoError(t, err)

	assert.Equal(t, "已复制", m.T("zh", "copy.copied"))
	assert.Equal(t, "Copied", m.T("en", "copy.copied"))
	assert.Equal(t, "© Kinlink", m.T("zh", "footer", "Kinlink"))
	assert.Equal(t, "missing.key", m.T("en", "missing.key"))
}
