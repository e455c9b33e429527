// Package fakeapi is an in-memory implementation of the restaurant platform API.
// It serves the same envelopes, bearer authentication and multipart contracts as
// the real service, records every request it receives, and can be told to fail
// specific routes. The client tests and `pivoctl dev-server` run against it.
package fakeapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common"
	"github.com/thepivo/pivoadmin/internal/common/logtrace"
	"github.com/thepivo/pivoadmin/internal/common/middleware"
	"github.com/thepivo/pivoadmin/internal/models"
)

// APIPrefix is the path every route is mounted under.
const APIPrefix = "/api"

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = 24 * time.Hour

// Options configures a Server. The zero value is usable.
type Options struct {
	Secret         []byte        // HS256 signing key; random when empty
	TokenTTL       time.Duration // defaults to DefaultTokenTTL
	AllowedOrigins []string      // CORS origins; defaults to all
	HandlerTimeout time.Duration // zero disables the handler timeout
	PrintRoutes    bool          // logs the route table on mount
}

// Server is the fake service. It is safe for concurrent use.
type Server struct {
	Router *chi.Mux

	secret   []byte
	tokenTTL time.Duration
	opts     Options

	accounts     *table[account]
	news         *table[models.News]
	restaurants  *table[models.Restaurant]
	reservations *table[models.Reservation]
	menu         *table[models.MenuItem]

	mu       sync.Mutex
	revoked  map[string]time.Time
	failures map[string]Failure
	requests []RecordedRequest
}

// New creates a server with empty collections and its routes mounted.
func New(opts ...Options) (*Server, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	s := &Server{
		Router:       chi.NewRouter(),
		secret:       o.Secret,
		tokenTTL:     o.TokenTTL,
		opts:         o,
		accounts:     newTable(func(a *account) *string { return &a.User.ID }),
		news:         newTable(func(n *models.News) *string { return &n.ID }),
		restaurants:  newTable(func(r *models.Restaurant) *string { return &r.ID }),
		reservations: newTable(func(r *models.Reservation) *string { return &r.ID }),
		menu:         newTable(func(m *models.MenuItem) *string { return &m.ID }),
		revoked:      make(map[string]time.Time),
		failures:     make(map[string]Failure),
	}
	if len(s.secret) == 0 {
		key, err := common.RandomCode(48)
		if err != nil {
			return nil, fmt.Errorf("generating signing key: %w", err)
		}
		s.secret = []byte(key)
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = DefaultTokenTTL
	}
	s.MountHandlers()
	return s, nil
}

// MountHandlers sets up the middleware chain and every route.
func (s *Server) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	s.Router.Use(s.HandleCORS)
	s.Router.Use(middleware.SetTimeout(s.opts.HandlerTimeout))
	s.Router.Route(APIPrefix, s.mountResourceHandlers)

	if s.opts.PrintRoutes {
		walkFunc := func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			log.Info().Str("method", method).Str("route", route).Msg("route")
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			log.Error().Err(err).Msg("error walking router")
		}
	}
}

func (s *Server) mountResourceHandlers(r chi.Router) {
	r.Use(s.recordRequests)
	r.Use(s.injectFailures)

	r.Post("/auth/login", wrap(s.login))
	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/auth/logout", wrap(s.logout))
		r.Get("/auth/me", wrap(s.me))

		r.Route("/news", func(r chi.Router) {
			mountCollection(r, s.newsHandlers(), nil)
		})
		r.Route("/restaurants", func(r chi.Router) {
			mountCollection(r, s.restaurantHandlers(), nil)
		})
		r.Route("/menu", func(r chi.Router) {
			mountCollection(r, s.menuHandlers(), nil)
		})
		r.Route("/reservations", func(r chi.Router) {
			mountCollection(r, s.reservationHandlers(), nil)
		})
		r.Route("/users", func(r chi.Router) {
			mountCollection(r, s.userHandlers(), s.requireAdmin)
		})
	})
}

// HandleCORS allows browser consoles on other origins to call the service.
func (s *Server) HandleCORS(next http.Handler) http.Handler {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", logtrace.RequestIDHeader},
		ExposedHeaders:   []string{"Location", logtrace.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// ServeHTTP makes the server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
