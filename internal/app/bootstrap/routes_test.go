package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/cleansite/internal/app/system/auth"
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
	"github.com/dalemusser/cleansite/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCSRFKey = []byte(strings.Repeat("k", 32))

func noneManaged(string) bool { return false }

func csrfRig() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/csrf", csrfToken)
	mux.HandleFunc("/api/content/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	managed := func(t string) bool { return t == "locations" }
	return csrfMiddleware(testCSRFKey, false, "", csrfExempt(managed), zap.NewNop())(mux)
}

func cookieAdmin(r *http.Request) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{ID: "a-1", Role: auth.RoleAdmin, Via: auth.ViaCookie})
}

// tokenFrom pulls the CSRF token out of a GET /api/csrf response.
func tokenFrom(t *testing.T, body string) string {
	t.Helper()
	start := strings.Index(body, `"token":"`)
	require.GreaterOrEqual(t, start, 0, body)
	token := body[start+len(`"token":"`):]
	return token[:strings.Index(token, `"`)]
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRF_CookieAdminWriteNeedsToken(t *testing.T) {
	h := csrfRig()
	req := cookieAdmin(httptest.NewRequest(http.MethodPost, "/api/content/hero", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestCSRF_TokenRoundTrip(t *testing.T) {
	h := csrfRig()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := cookieNamed(rec, "cleansite_csrf")
	require.NotNil(t, cookie, "csrf cookie must be set")
	token := tokenFrom(t, rec.Body.String())

	req := cookieAdmin(httptest.NewRequest(http.MethodPost, "/api/content/hero", strings.NewReader(`{}`)))
	req.AddCookie(cookie)
	req.Header.Set("X-CSRF-Token", token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_Exemptions(t *testing.T) {
	tests := []struct {
		name string
		path string
		user *auth.SessionUser
		auth string
	}{
		{name: "anonymous", path: "/api/content/hero"},
		{name: "editor cookie", path: "/api/content/hero", user: &auth.SessionUser{ID: "e", Role: auth.RoleEditor, Via: auth.ViaCookie}},
		{name: "admin session token", path: "/api/content/hero", user: &auth.SessionUser{ID: "a", Role: auth.RoleAdmin, Via: auth.ViaToken}},
		{name: "bearer header", path: "/api/content/hero", auth: "Bearer abc.def.ghi"},
		{name: "cms managed list", path: "/api/content/locations", user: &auth.SessionUser{ID: "a", Role: auth.RoleAdmin, Via: auth.ViaCookie}},
		{name: "cms managed slug", path: "/api/content/Locations/austin", user: &auth.SessionUser{ID: "a", Role: auth.RoleAdmin, Via: auth.ViaCookie}},
	}
	h := csrfRig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(`{}`))
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestContentTypeOf(t *testing.T) {
	assert.Equal(t, "locations", contentTypeOf("/api/content/locations"))
	assert.Equal(t, "locations", contentTypeOf("/api/content/Locations/austin"))
	assert.Equal(t, "", contentTypeOf("/api/faq"))
	assert.False(t, csrfExempt(noneManaged)(httptest.NewRequest(http.MethodGet, "/api/faq", nil)))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Full handler                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	testSessionKey  = "session-signing-key-0123456789abcdef"
	testSessionName = "cleansite-session"
	testTokenSecret = "token-signing-secret-with-32-bytes!!"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	conn := mongoconn.New(mongoconn.Config{
		URI:                    "mongodb://127.0.0.1:1",
		Database:               "cleansite_routes",
		ConnectTimeout:         100 * time.Millisecond,
		ServerSelectionTimeout: 100 * time.Millisecond,
	}, zap.NewNop())
	appCfg := AppConfig{
		SessionKey:     testSessionKey,
		SessionName:    testSessionName,
		SessionMaxAge:  time.Hour,
		TokenSecret:    testTokenSecret,
		CSRFKey:        string(testCSRFKey),
		PreviewSecrets: "preview-secret",
		DraftKey:       strings.Repeat("d", 32),
		DraftMaxAge:    time.Hour,
		SiteName:       "Sparkle",
		BaseURL:        "https://sparkle.example",
	}
	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, appCfg, DBDeps{Mongo: conn, CMS: cms.Disabled{}}, zap.NewNop())
	require.NoError(t, err)
	return h
}

func adminToken(t *testing.T) string {
	t.Helper()
	v, err := auth.NewTokenVerifier(testTokenSecret, "", zap.NewNop())
	require.NoError(t, err)
	tok, err := v.Sign("a-1", "Admin", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestBuildHandler_WriteStatuses(t *testing.T) {
	h := newTestHandler(t)
	adminCookie := testutil.SessionCookie(t, testSessionKey, testSessionName, testutil.AdminUser())
	editorCookie := testutil.SessionCookie(t, testSessionKey, testSessionName, testutil.EditorUser())
	tokenCookie := &http.Cookie{Name: "session-token", Value: adminToken(t)}

	tests := []struct {
		name   string
		path   string
		body   string
		cookie *http.Cookie
		bearer bool
		want   int
		substr string
	}{
		{name: "anonymous section write", path: "/api/content/hero", body: `{}`, want: http.StatusUnauthorized, substr: "Unauthorized"},
		{name: "editor section write", path: "/api/content/hero", body: `{}`, cookie: editorCookie, want: http.StatusUnauthorized},
		{name: "anonymous slug write", path: "/api/content/locations/x", body: `{}`, want: http.StatusBadRequest, substr: "Edit via CMS admin panel"},
		{name: "admin slug write", path: "/api/content/locations/x", body: `{}`, cookie: adminCookie, want: http.StatusBadRequest, substr: "Edit via CMS admin panel"},
		{name: "admin slug list write", path: "/api/content/services", body: `{}`, cookie: adminCookie, want: http.StatusBadRequest},
		{name: "anonymous dedupe", path: "/api/faq/dedupe", want: http.StatusUnauthorized},
		{name: "admin cookie without csrf token", path: "/api/faq", body: `{"question":"  "}`, cookie: adminCookie, want: http.StatusForbidden, substr: "CSRF"},
		{name: "admin session-token cookie", path: "/api/faq", body: `{"question":"  "}`, cookie: tokenCookie, want: http.StatusBadRequest, substr: "question is required"},
		{name: "admin bearer", path: "/api/faq", body: `{"question":"  "}`, bearer: true, want: http.StatusBadRequest, substr: "question is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if tt.bearer {
				req.Header.Set("Authorization", "Bearer "+adminToken(t))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"success":false`)
			if tt.substr != "" {
				assert.Contains(t, rec.Body.String(), tt.substr)
			}
		})
	}
}

func TestBuildHandler_CookieAdminWithCSRFToken(t *testing.T) {
	h := newTestHandler(t)
	adminCookie := testutil.SessionCookie(t, testSessionKey, testSessionName, testutil.AdminUser())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	csrfCookie := cookieNamed(rec, "cleansite_csrf")
	require.NotNil(t, csrfCookie)

	req := httptest.NewRequest(http.MethodPost, "/api/faq", strings.NewReader(`{"question":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", tokenFrom(t, rec.Body.String()))
	req.AddCookie(adminCookie)
	req.AddCookie(csrfCookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "question is required")
}

func TestBuildHandler_UnknownRouteIsJSON(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
