package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/iamasit07/tic-tac-toe/backend/internal/transport/http/middleware"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/httputil"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Auth           *AuthHandler
	Stats          *StatsHandler
	WebSocket      http.HandlerFunc
	Tokens         middleware.TokenValidator
	Cookies        httputil.CookieOptions
	AllowedOrigins []string
	Logger         *zap.SugaredLogger
}

// NewRouter wires every HTTP route.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identify(cfg.Tokens, cfg.Cookies, cfg.Logger))

		r.Route("/api", func(r chi.Router) {
			r.Post("/auth/register", cfg.Auth.Register)
			r.Post("/auth/login", cfg.Auth.Login)
			r.Post("/auth/logout", cfg.Auth.Logout)
			r.Get("/auth/me", cfg.Auth.Me)

			r.Get("/leaderboard", cfg.Stats.GetLeaderboard)
			r.Get("/stats", cfg.Stats.GetStats)
			r.Get("/history", cfg.Stats.GetHistory)
		})

		if cfg.WebSocket != nil {
			r.Get("/ws", cfg.WebSocket)
		}
	})
	return r
}
