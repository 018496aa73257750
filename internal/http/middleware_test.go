package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAuth bool

func (a staticAuth) Authenticated() bool { return bool(a) }

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	})
}

func TestRequestIDAssignsAndHonors(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-Id"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "upstream-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "upstream-id", seen)
}

func TestBrowserSessionIssuesAndReusesCookie(t *testing.T) {
	var seen string
	h := BrowserSession()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetBrowserSessionID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, BrowserSessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: BrowserSessionCookie, Value: "existing-sid"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "existing-sid", seen)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthContextExposesState(t *testing.T) {
	var seen bool
	h := AuthContext(staticAuth(true))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = IsAuthenticatedRequest(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, seen)

	h = AuthContext(staticAuth(false))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = IsAuthenticatedRequest(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, seen)
}

func TestRequireAuthBrowserRedirectsToLogin(t *testing.T) {
	h := RequireAuthBrowser(staticAuth(false))(okHandler("secret"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members?page=2", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2Fmembers%3Fpage%3D2", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRequireAuthBrowserHTMXRedirect(t *testing.T) {
	h := RequireAuthBrowser(staticAuth(false))(okHandler("secret"))

	r := httptest.NewRequest(http.MethodGet, "/payments/dues-preview?member=3", nil)
	r.Header.Set("Hx-Request", "true")
	r.Header.Set("Hx-Current-Url", "http://localhost:8080/payments")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/auth/login?redirect_uri=%2Fpayments", w.Header().Get("Hx-Redirect"))
}

func TestRequireAuthBrowserPassesAuthenticated(t *testing.T) {
	h := RequireAuthBrowser(staticAuth(true))(okHandler("secret"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "secret")
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/members?page=2", safeRedirectPath("/members?page=2"))
	assert.Empty(t, safeRedirectPath("https://evil.example/phish"))
	assert.Empty(t, safeRedirectPath("//evil.example/phish"))
	assert.Empty(t, safeRedirectPath("members"))
	assert.Empty(t, safeRedirectPath(""))
}

func TestBrowserDetection(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    bool
	}{
		{name: "html accept", path: "/members", headers: map[string]string{"Accept": "text/html,application/xhtml+xml"}, want: true},
		{name: "htmx", path: "/members", headers: map[string]string{"Hx-Request": "true", "Accept": "*/*"}, want: true},
		{name: "no accept header", path: "/members", want: true},
		{name: "json client", path: "/members", headers: map[string]string{"Accept": "application/json"}, want: false},
		{name: "static asset", path: "/static/css/styles.css", headers: map[string]string{"Accept": "text/html"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen bool
			h := BrowserDetection()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = IsBrowserRequest(r)
			}))
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestCSRFIssuesTokenOnGet(t *testing.T) {
	var seen string
	h := CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetCSRFToken(r)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members", nil))

	require.NotEmpty(t, seen)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCSRFCookieName, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.False(t, cookies[0].HttpOnly)
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	h := CSRFProtection(CSRFConfig{})(okHandler("done"))

	r := httptest.NewRequest(http.MethodPost, "/members", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-1"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCSRFAcceptsHeaderToken(t *testing.T) {
	h := CSRFProtection(CSRFConfig{})(okHandler("done"))

	r := httptest.NewRequest(http.MethodPost, "/members", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-1"})
	r.Header.Set(DefaultCSRFHeaderName, "tok-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "done")
}

func TestCSRFAcceptsFormToken(t *testing.T) {
	h := CSRFProtection(CSRFConfig{})(okHandler("done"))

	r := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader("csrf_token=tok-1&name=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-1"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	h := CSRFProtection(CSRFConfig{})(okHandler("done"))

	r := httptest.NewRequest(http.MethodPost, "/members", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-1"})
	r.Header.Set(DefaultCSRFHeaderName, "tok-2")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompressionGzipsHTML(t *testing.T) {
	body := strings.Repeat("<p>hello gym console</p>", 50)
	h := Compression(CompressionConfig{Level: 6, Logger: discardLogger()})(okHandler(body))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	decoded, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(decoded))
}

func TestCompressionSkipsWithoutAcceptEncoding(t *testing.T) {
	h := Compression(CompressionConfig{Logger: discardLogger()})(okHandler("plain"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "plain", w.Body.String())
}

func TestCompressionSkipsNoContent(t *testing.T) {
	h := Compression(CompressionConfig{Logger: discardLogger()})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestAcceptsGzip(t *testing.T) {
	assert.True(t, acceptsGzip("gzip"))
	assert.True(t, acceptsGzip("gzip, deflate, br"))
	assert.True(t, acceptsGzip("deflate, GZIP;q=0.8"))
	assert.False(t, acceptsGzip("gzip;q=0"))
	assert.False(t, acceptsGzip("deflate"))
	assert.False(t, acceptsGzip(""))
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
