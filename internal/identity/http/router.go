package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dayplanr/identity/internal/identity/provider"
	"github.com/dayplanr/identity/internal/identity/service"
	"github.com/dayplanr/identity/internal/identity/store"
	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/jwtx"
	"github.com/dayplanr/identity/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// webOrigin is the browser origin allowed by CORS and targeted by the
	// social callback relay page.
	webOrigin string

	// secureCookies controls the Secure flag on the refresh cookie; off only
	// in local development over plain HTTP.
	secureCookies bool

	// exposeInternal includes wrapped causes in error bodies (dev only).
	exposeInternal bool

	store     store.Store
	providers provider.Registry

	AuthService   *service.AuthService
	TokenService  *service.TokenService
	SignUpService *service.SignUpService
	UserService   *service.UserService
}

type RouterConfig struct {
	Verifier       jwtx.Verifier
	BuildVersion   string
	WebOrigin      string
	SecureCookies  bool
	ExposeInternal bool
	Store          store.Store
	Providers      provider.Registry
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		verifier:       cfg.Verifier,
		buildVersion:   cfg.BuildVersion,
		startTime:      time.Now(),
		webOrigin:      cfg.WebOrigin,
		secureCookies:  cfg.SecureCookies,
		exposeInternal: cfg.ExposeInternal,
		store:          cfg.Store,
		providers:      cfg.Providers,
		logger:         cfg.Logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(r.webOrigin),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSocial()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{
		AuthService:    r.AuthService,
		SecureCookies:  r.secureCookies,
		ExposeInternal: r.exposeInternal,
	}

	// POST /auth/login - strict rate limit (credential attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	logoutHandler := &LogoutHandler{
		TokenService:   r.TokenService,
		SecureCookies:  r.secureCookies,
		ExposeInternal: r.exposeInternal,
	}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	refreshHandler := &RefreshHandler{
		TokenService:   r.TokenService,
		ExposeInternal: r.exposeInternal,
	}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	signUpHandler := &SignUpHandler{
		SignUpService:  r.SignUpService,
		ExposeInternal: r.exposeInternal,
	}
	r.Mux.Handle("POST /v1/auth/sign-up",
		httpx.Chain(signUpHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	checkDuplicateHandler := &CheckDuplicateHandler{
		SignUpService:  r.SignUpService,
		ExposeInternal: r.exposeInternal,
	}
	r.Mux.Handle("POST /v1/auth/check-duplicate",
		httpx.Chain(checkDuplicateHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /auth/me - authenticated profile read, lenient limit by user
	meHandler := &MeHandler{
		UserService:    r.UserService,
		ExposeInternal: r.exposeInternal,
	}
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSocial() {
	// One exchange pair per configured provider. Unconfigured providers get
	// no routes, so the surface matches deployment credentials.
	for pt, client := range r.providers {
		authHandler := &SocialAuthHandler{
			Client:         client,
			ExposeInternal: r.exposeInternal,
		}
		userHandler := &SocialUserHandler{
			Client:         client,
			ExposeInternal: r.exposeInternal,
		}

		r.Mux.Handle("POST /v1/auth/"+string(pt)+"-auth",
			httpx.Chain(authHandler,
				httpx.RateLimitByIP(httpx.StrictLimit),
			),
		)
		r.Mux.Handle("POST /v1/auth/"+string(pt)+"-user",
			httpx.Chain(userHandler,
				httpx.RateLimitByIP(httpx.ModerateLimit),
			),
		)
	}

	callbackHandler := &CallbackHandler{
		Providers: r.providers,
		WebOrigin: r.webOrigin,
	}
	r.Mux.Handle("GET /v1/auth/callback/{provider}",
		httpx.Chain(callbackHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	lookupHandler := &LookupHandler{
		UserService:    r.UserService,
		ExposeInternal: r.exposeInternal,
	}
	r.Mux.Handle("GET /v1/users/lookup",
		httpx.Chain(lookupHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
