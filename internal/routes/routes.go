package routes

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AnshRaj112/crypto-dca-backend/docs" // Swagger docs
	"github.com/AnshRaj112/crypto-dca-backend/internal/handlers"
	"github.com/AnshRaj112/crypto-dca-backend/internal/middleware"
	"github.com/AnshRaj112/crypto-dca-backend/internal/observability"
)

// Deps are the collaborators the router hands to handlers and middleware.
type Deps struct {
	Auth     handlers.AuthService
	Users    handlers.UserService
	Verifier middleware.TokenVerifier
	Reporter observability.Reporter

	GatewayKey         string
	RequireBearerUsers bool
	AllowedOrigins     []string
	TrustProxy         bool
	HSTS               bool
}

// NewRouter builds the API router with its global middleware chain.
func NewRouter(deps Deps) *chi.Mux {
	if deps.Reporter == nil {
		deps.Reporter = observability.NopReporter{}
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.RequestLogger(deps.TrustProxy))
	r.Use(chimiddleware.Recoverer)
	// Inside Recoverer: sentry reports the panic, then repanics into it.
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)

	SetupRoutes(r, deps)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return r
}

// SetupRoutes mounts the /api tree on r.
func SetupRoutes(r chi.Router, deps Deps) {
	rep := deps.Reporter
	bearer := middleware.Bearer(deps.Verifier)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.GatewayKey(deps.GatewayKey))
		r.Use(middleware.SecurityHeaders(deps.HSTS))

		r.Get("/status", handlers.Status)

		signUp := handlers.NewSignUpHandler(deps.Auth, rep)
		r.Post("/user", signUp)
		r.Post("/users", signUp)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handlers.NewLogInHandler(deps.Auth, rep))
			r.Post("/logout", handlers.NewLogOutHandler(deps.Auth, rep))
			r.Post("/refresh", handlers.NewRefreshHandler(deps.Auth, rep))
			r.Post("/forgot", handlers.NewForgotPasswordHandler(deps.Auth, rep))
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			if deps.RequireBearerUsers {
				r.Use(bearer, middleware.RequirePathUser("userId"))
			}

			r.Get("/profile", handlers.NewGetProfileHandler(deps.Users, rep))
			r.Patch("/profile", handlers.NewUpdateProfileHandler(deps.Users, rep))

			r.Get("/watch_pairs", handlers.NewGetWatchPairsHandler(deps.Users, rep))
			r.Put("/watch_pairs", handlers.NewSetWatchPairsHandler(deps.Users, rep))

			r.Post("/transactions", handlers.NewCreateTransactionHandler(deps.Users, rep))
			r.Get("/transactions", handlers.NewListTransactionsHandler(deps.Users, rep))
			r.Get("/transactions/{transactionId}", handlers.NewGetTransactionHandler(deps.Users, rep))
			r.Put("/transactions/{transactionId}", handlers.NewReplaceTransactionHandler(deps.Users, rep))
			r.Delete("/transactions/{transactionId}", handlers.NewDeleteTransactionHandler(deps.Users, rep))
		})

		// Deprecated routes kept for older clients.
		r.Group(func(r chi.Router) {
			r.Use(bearer)
			r.Get("/profile", handlers.NewLegacyProfileHandler(deps.Users, rep))
			r.Get("/user", http.HandlerFunc(handlers.LegacyPortfolio))
		})
	})
}
