package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/COSYNTRA/cosyntrafinal3/internal/careers"
	"github.com/COSYNTRA/cosyntrafinal3/internal/contact"
)

// ListingViewer is satisfied by *careers.Loader.
type ListingViewer interface {
	View() careers.ListingView
}

type Options struct {
	MaxUploadBytes int64
	SubmitRPS      float64
	WebDir         string
}

type Server struct {
	router    *chi.Mux
	listing   ListingViewer
	sender    careers.ApplicationSender
	mailer    contact.Sender
	validate  *validator.Validate
	applyRate *clientLimiter
	mailRate  *clientLimiter
	maxUpload int64
	webDir    string

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

func NewServer(listing ListingViewer, sender careers.ApplicationSender, mailer contact.Sender, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	limit := rate.Inf
	if opts.SubmitRPS > 0 {
		limit = rate.Limit(opts.SubmitRPS)
	}

	s := &Server{
		router:    chi.NewRouter(),
		listing:   listing,
		sender:    sender,
		mailer:    mailer,
		validate:  validator.New(),
		applyRate: newClientLimiter(limit, 5),
		mailRate:  newClientLimiter(limit, 5),
		maxUpload: opts.MaxUploadBytes,
		webDir:    opts.WebDir,
		inflight:  make(map[string]struct{}),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Route("/careers", func(r chi.Router) {
		r.Get("/positions", s.handlePositions)
		r.With(limitByClient(s.applyRate)).Post("/apply", s.handleApply)
	})
	s.router.With(limitByClient(s.mailRate)).Post("/contact", s.handleContact)

	if s.webDir != "" {
		FileServer(s.router, "/", http.Dir(s.webDir))
	}
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

// maxTrackedClients bounds the per-client limiter map; it is cleared when full.
const maxTrackedClients = 10000

// clientLimiter hands out one token bucket per client address.
type clientLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (c *clientLimiter) allow(client string) bool {
	c.mu.Lock()
	l, ok := c.clients[client]
	if !ok {
		if len(c.clients) >= maxTrackedClients {
			c.clients = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(c.limit, c.burst)
		c.clients[client] = l
	}
	c.mu.Unlock()
	return l.Allow()
}

func limitByClient(c *clientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !c.allow(clientAddr(r)) {
				respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr is the request's remote host, already rewritten by middleware.RealIP.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// acquire marks key as in flight; it reports false if it already was.
func (s *Server) acquire(key string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Server) release(key string) {
	s.inflightMu.Lock()
	delete(s.inflight, key)
	s.inflightMu.Unlock()
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
