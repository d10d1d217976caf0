// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	contentfeature "github.com/dalemusser/cleansite/internal/app/features/content"
	errorsfeature "github.com/dalemusser/cleansite/internal/app/features/errors"
	faqfeature "github.com/dalemusser/cleansite/internal/app/features/faq"
	healthfeature "github.com/dalemusser/cleansite/internal/app/features/health"
	previewfeature "github.com/dalemusser/cleansite/internal/app/features/preview"
	faqstore "github.com/dalemusser/cleansite/internal/app/store/faq"
	"github.com/dalemusser/cleansite/internal/app/system/auth"
	"github.com/dalemusser/cleansite/internal/app/system/draftmode"
	"github.com/dalemusser/cleansite/internal/app/system/jsonutil"
	"github.com/dalemusser/cleansite/internal/app/system/normalize"
	"github.com/dalemusser/cleansite/internal/app/system/seo"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// Global middleware, in order: request ID, request timeout, CORS, security
// headers, session resolution, draft-mode flagging and CSRF. Routes:
//   - /api/csrf            CSRF token for cookie-authenticated writes
//   - /api/content/{type}  section and slug-keyed page content
//   - /api/faq             FAQ list, append and duplicate sweep
//   - /api/preview         enter or leave draft mode
//   - /health, /ready, /livez
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	if appCfg.TokenSecret != "" {
		verifier, err := auth.NewTokenVerifier(appCfg.TokenSecret, appCfg.TokenIssuer, logger)
		if err != nil {
			logger.Error("session token verifier init failed", zap.Error(err))
			return nil, err
		}
		sessionMgr.SetTokenVerifier(verifier)
	}

	draft := draftmode.NewManager([]byte(appCfg.DraftKey), appCfg.DraftMaxAge, secure, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	site := seo.Site{
		Name:               appCfg.SiteName,
		BaseURL:            appCfg.BaseURL,
		DefaultDescription: appCfg.SiteDescription,
		DefaultOGImage:     appCfg.DefaultOGImage,
		TwitterHandle:      appCfg.TwitterHandle,
		AllowCustomScripts: appCfg.AllowCustomScripts,
	}
	registry := contentfeature.DefaultRegistry(contentfeature.Deps{
		CMS:    deps.CMS,
		DB:     deps.Mongo,
		Site:   site,
		Logger: logger,
	})
	cmsManaged := func(contentType string) bool {
		_, ok := registry.Pages(contentType)
		return ok
	}

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: resolves the caller from cookie or session token.
	r.Use(sessionMgr.LoadSessionUser)

	// Draft mode: flags the request context when a valid draft cookie is present.
	r.Use(draft.Middleware)

	r.Use(csrfMiddleware([]byte(appCfg.CSRFKey), secure, appCfg.SessionDomain, csrfExempt(cmsManaged), logger))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	r.Get("/api/csrf", csrfToken)

	contentHandler := contentfeature.NewHandler(registry, errLog, logger)
	r.Mount("/api/content", contentfeature.Routes(contentHandler))

	faqHandler := faqfeature.NewHandler(deps.CMS, faqstore.New(deps.Mongo), errLog, logger)
	r.Mount("/api/faq", faqfeature.Routes(faqHandler))

	previewHandler := previewfeature.NewHandler(appCfg.PreviewSecretList(), draft, logger)
	r.Mount("/api/preview", previewfeature.Routes(previewHandler))

	healthHandler := healthfeature.NewHandler(deps.Mongo, deps.CMS.Enabled(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	logger.Info("routes mounted", zap.Strings("content_types", registry.Keys()))
	return r, nil
}

// trustedDevOrigins are accepted as CSRF origins outside production so a
// local front end can call the API.
var trustedDevOrigins = []string{
	"localhost:8080",
	"localhost:3000",
	"127.0.0.1:8080",
	"127.0.0.1:3000",
}

// csrfMiddleware protects writes made with the dashboard session cookie.
// Requests for which exempt reports true pass straight through.
// Outside production, plain-HTTP requests are marked as such so the origin
// check does not demand a TLS Referer.
func csrfMiddleware(key []byte, secure bool, domain string, exempt func(*http.Request) bool, logger *zap.Logger) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("cleansite_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			jsonutil.Error(w, http.StatusForbidden, "CSRF token invalid or missing")
		})),
	}
	if !secure {
		opts = append(opts, csrf.TrustedOrigins(trustedDevOrigins))
	}
	if domain != "" {
		opts = append(opts, csrf.Domain(domain))
	}
	protect := csrf.Protect(key, opts...)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if exempt(req) {
				next.ServeHTTP(w, req)
				return
			}
			if !secure && req.TLS == nil {
				req = csrf.PlaintextHTTPRequest(req)
			}
			protected.ServeHTTP(w, req)
		})
	}
}

// csrfExempt returns the predicate for requests that skip the CSRF check.
// Only a write that would succeed on the strength of the dashboard cookie
// is checked:
//   - a Bearer header or a session token is not a forgeable ambient cookie
//   - a caller who is not admin is refused by the handler anyway
//   - writes to CMS-managed content types are always rejected
//
// Safe methods still pass through the protector so the token cookie is set.
func csrfExempt(cmsManaged func(contentType string) bool) func(*http.Request) bool {
	return func(r *http.Request) bool {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			return false
		}
		if auth.BearerToken(r) != "" {
			return true
		}
		u, ok := auth.CurrentUser(r)
		if !ok || !u.IsAdmin() || u.Via != auth.ViaCookie {
			return true
		}
		return cmsManaged(contentTypeOf(r.URL.Path))
	}
}

// contentTypeOf returns the {type} segment of /api/content/{type}[/...],
// or "" for any other path.
func contentTypeOf(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/content/")
	if !ok {
		return ""
	}
	typ, _, _ := strings.Cut(rest, "/")
	return normalize.ContentType(typ)
}

// csrfToken returns the masked token the client echoes in X-CSRF-Token.
func csrfToken(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"token": csrf.Token(r)})
}
