package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/denylist"
	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"

	_ "github.com/aussiebroadwan/sessiond/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	decoder      jwtx.Decoder
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger

	SessionManager *service.SessionManager
	UserService    *service.UserService
	Denylist       denylist.Denylist
	RateLimits     httpx.RateLimitProfiles
	Metrics        http.Handler // Optional: /metrics is not mounted when nil
	CookieSecure   bool
	ClockSkew      time.Duration // Grace past access-token exp and nbf
}

func NewRouter(
	decoder jwtx.Decoder,
	buildVersion string,
	db Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		decoder:      decoder,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		db:           db,
		logger:       logger,
		RateLimits:   httpx.DefaultRateLimitProfiles(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Session Service API
//	@version		0.1.0
//	@description	Login sessions for API clients: a short-lived HS256 access token plus a single-use, rotating refresh token carried in an HttpOnly cookie.
//	@description
//	@description				Presenting a refresh token that was already rotated revokes the whole session.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/sessiond
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Sessions:     r.SessionManager,
		Users:        r.UserService,
		Decoder:      r.decoder,
		Denylist:     r.Denylist,
		CookieSecure: r.CookieSecure,
		ClockSkew:    r.ClockSkew,
	}

	// Credential checks - strict rate limit by IP + username to slow brute force
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIPAndJSONField(r.RateLimits.Strict, "username"),
		),
	)
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.RateLimits.Strict, "username"),
		),
	)

	// Rotation and logout - moderate rate limit by IP
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.RateLimits.Moderate),
		),
	)
	r.Mux.Handle("POST /auth/refresh/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(r.RateLimits.Moderate),
		),
	)

	// Authenticated endpoint - lenient rate limit by user
	var revoked httpx.RevocationChecker
	if r.Denylist != nil {
		revoked = r.Denylist
	}
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.decoder, revoked, httpx.WithClockSkew(r.ClockSkew)),
			httpx.RateLimitByUser(r.RateLimits.Lenient),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)

	// Only a shared deny-list is worth probing.
	var shared Pinger
	if p, ok := r.Denylist.(Pinger); ok {
		shared = p
	}
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, shared),
			httpx.RateLimitByIP(r.RateLimits.Lenient),
		),
	)

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics)
	}
}
