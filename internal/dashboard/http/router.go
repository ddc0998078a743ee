package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/pkg/httpx"
	"github.com/phishguard/dashboard/pkg/jwtx"
	"github.com/phishguard/dashboard/pkg/slogx"

	_ "github.com/phishguard/dashboard/api/dashboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Per-user quotas enforced through the shared store, so the numbers hold no
// matter how many dashboard instances are running. Unauthenticated endpoints
// rely on the process-local per-IP shield instead.
var (
	codeIssuePolicy = service.RateLimitPolicy{Limit: 10, Window: time.Minute}
	heartbeatPolicy = service.RateLimitPolicy{Limit: 30, Window: time.Minute}
	sessionsPolicy  = service.RateLimitPolicy{Limit: 60, Window: time.Minute}
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	UserService  *service.UserService
	Vault        *service.CodeVault
	TokenService *service.TokenService
	RateLimiter  *service.RateLimiter
	Registry     *service.SessionRegistry
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSessions()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			PhishGuard Dashboard Companion API
//	@version		0.1.0
//	@description	Trust handshake between the PhishGuard dashboard and its desktop companion:
//	@description	one-time authorization codes, signed token pairs, per-user rate limiting,
//	@description	and desktop session presence.
//
//	@contact.name				PhishGuard Team
//	@contact.url				https://github.com/phishguard/dashboard
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
	// POST /auth/login - strict per-IP limit (credential guessing surface)
	loginHandler := &LoginHandler{UserService: r.UserService, TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/code - authenticated browser session mints a companion code
	codeHandler := &CodeHandler{Vault: r.Vault}
	r.Mux.Handle("POST /v1/auth/code",
		httpx.Chain(codeHandler,
			httpx.AuthnMiddleware(r.verifier),
			rateLimitByUser(r.RateLimiter, "auth/code", codeIssuePolicy),
		),
	)

	// POST /auth/token - code redemption and refresh; callers hold no access
	// token yet, so only the per-IP shield applies
	tokenHandler := &TokenHandler{
		Vault:        r.Vault,
		UserService:  r.UserService,
		TokenService: r.TokenService,
		Verifier:     r.verifier,
	}
	r.Mux.Handle("POST /v1/auth/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{Registry: r.Registry}

	// Operator views are admin-only.
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyRole(domain.RoleAdmin),
		rateLimitByUser(r.RateLimiter, "sessions", sessionsPolicy),
		implicitHeartbeat(r.Registry),
	)
	securedDeactivate := httpx.Chain(http.HandlerFunc(h.HandleDeactivate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyRole(domain.RoleAdmin),
		rateLimitByUser(r.RateLimiter, "sessions", sessionsPolicy),
	)

	// Heartbeats come from any authenticated desktop client.
	securedHeartbeat := httpx.Chain(http.HandlerFunc(h.HandleHeartbeat),
		httpx.AuthnMiddleware(r.verifier),
		rateLimitByUser(r.RateLimiter, "sessions/heartbeat", heartbeatPolicy),
	)

	r.Mux.Handle("GET /v1/sessions", securedList)
	r.Mux.Handle("DELETE /v1/sessions/{id}", securedDeactivate)
	r.Mux.Handle("POST /v1/sessions/heartbeat", securedHeartbeat)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
