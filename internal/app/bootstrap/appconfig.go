// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS); everything the
// content service itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI                    string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase               string        // Database name within MongoDB
	MongoMaxPoolSize            uint64        // Maximum connections in pool
	MongoMinPoolSize            uint64        // Minimum connections to keep warm
	MongoConnectTimeout         time.Duration // Dial and initial ping timeout
	MongoIdleTimeout            time.Duration // Idle pooled connections are closed after this
	MongoServerSelectionTimeout time.Duration // How long to wait for a usable server

	// Dashboard session cookie
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: cleansite-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime

	// Externally issued session tokens (blank secret disables token auth)
	TokenSecret string // HS256 signing secret shared with the identity provider
	TokenIssuer string // Required iss claim (blank accepts any issuer)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Headless CMS (blank URL runs on local content only)
	CMSURL     string
	CMSToken   string
	CMSTimeout time.Duration
	CMSVersion int // Strapi major version, 4 or 5

	// Preview / draft mode
	PreviewSecrets string        // Comma-separated list of accepted preview secrets
	DraftKey       string        // Signing key for the draft cookie
	DraftMaxAge    time.Duration // Draft cookie lifetime

	// Site-wide SEO defaults
	SiteName           string
	BaseURL            string // e.g., "https://www.example.com"
	SiteDescription    string
	DefaultOGImage     string
	TwitterHandle      string
	AllowCustomScripts bool // Pass page-level custom scripts through to metadata

	// Store operation timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BatchTimeout time.Duration

	// Seed the local locations/services fallback set during EnsureSchema
	SeedFallback bool
}
