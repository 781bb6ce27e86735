package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/datakey"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/aiact-compliance/pkg/server/store/gorm"
)

// Options configures NewServer. DB, Logger and Issuer are required.
type Options struct {
	DB     *gorm.DB
	Config *config.Config
	Logger logger.Logger
	Cipher datakey.Cipher
	Issuer *auth.Issuer

	// KeyManager defaults to a manager persisting through the API keys store.
	KeyManager *providers.KeyManager
	// Clients defaults to providers.DefaultClients.
	Clients        []providers.Client
	SearchEngineID string

	Host string
	Port string
}

// Stores groups the storage interfaces used by the endpoints.
type Stores struct {
	UsersStore       store.UsersStore
	SystemsStore     store.SystemsStore
	AssessmentsStore store.AssessmentsStore
	TrainingStore    store.TrainingStore
	ApprovalsStore   store.ApprovalsStore
	ActivitiesStore  store.ActivitiesStore
	APIKeysStore     store.APIKeysStore
	TermsStore       store.TermsStore
	AlertsStore      store.AlertsStore
	DashboardStore   store.DashboardStore
	HealthStore      store.HealthStore
}

type Server struct {
	*Stores

	Router *mux.Router
	// API is the /api subrouter; every route on it requires a session
	// token except POST /api/auth/login.
	API *mux.Router

	DB            *gorm.DB
	Logger        logger.Logger
	Cipher        datakey.Cipher
	Issuer        *auth.Issuer
	JWTMiddleware *middleware.JWTAuthenticator
	RateLimiter   *middleware.IPRateLimiter
	LoginLimiter  *middleware.IPRateLimiter

	KeyManager *providers.KeyManager
	Clients    []providers.Client
	Searcher   *providers.Searcher

	mu    sync.RWMutex
	cfg   *config.Config
	chain *providers.Chain

	handler http.Handler
	srv     *http.Server
}

func NewServer(opts Options) (*Server, error) {
	if opts.DB == nil {
		return nil, errors.New("server: database is required")
	}
	if opts.Issuer == nil {
		return nil, errors.New("server: token issuer is required")
	}
	lggr := opts.Logger
	if lggr == nil {
		lggr = logger.Nop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Get()
	}

	stores := NewGormStores(opts.DB)

	keys := opts.KeyManager
	if keys == nil {
		keys = providers.NewKeyManager(lggr,
			providers.WithMaxRetries(cfg.ProviderMaxRetries),
			providers.WithRetryDelay(cfg.ProviderRetryDelay()),
			providers.WithStateStore(stores.APIKeysStore),
		)
	}

	clients := opts.Clients
	if clients == nil {
		clients = providers.DefaultClients(&http.Client{Timeout: cfg.ProviderTimeout()}, opts.SearchEngineID)
	}
	var searcher *providers.Searcher
	for _, c := range clients {
		if gs, ok := c.(*providers.GoogleSearchClient); ok {
			searcher = providers.NewSearcher(gs, keys, lggr)
		}
	}

	router := mux.NewRouter().UseEncodedPath()
	s := &Server{
		Stores:        stores,
		Router:        router,
		API:           router.PathPrefix("/api").Subrouter(),
		DB:            opts.DB,
		Logger:        lggr.Named("Server"),
		Cipher:        opts.Cipher,
		Issuer:        opts.Issuer,
		JWTMiddleware: middleware.NewJWTAuthenticator(opts.Issuer),
		RateLimiter:   middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		LoginLimiter:  middleware.LoginRateLimiter(),
		KeyManager:    keys,
		Clients:       clients,
		Searcher:      searcher,
		cfg:           cfg,
		chain:         providers.NewChain(keys, cfg.FallbackChain(), lggr, clients...),
	}
	s.API.Use(s.authenticate)

	s.handler = s.wrap(router, cfg)

	writeTimeout := 15 * time.Second
	if t := cfg.ProviderTimeout() + 15*time.Second; t > writeTimeout {
		writeTimeout = t
	}
	s.srv = &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, s.handler),
		Addr:         net.JoinHostPort(opts.Host, opts.Port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
	}
	return s, nil
}

// NewGormStores builds the GORM implementation of every store.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		UsersStore:       gormstore.NewUsersStore(db),
		SystemsStore:     gormstore.NewSystemsStore(db),
		AssessmentsStore: gormstore.NewAssessmentsStore(db),
		TrainingStore:    gormstore.NewTrainingStore(db),
		ApprovalsStore:   gormstore.NewApprovalsStore(db),
		ActivitiesStore:  gormstore.NewActivitiesStore(db),
		APIKeysStore:     gormstore.NewAPIKeysStore(db),
		TermsStore:       gormstore.NewTermsStore(db),
		AlertsStore:      gormstore.NewAlertsStore(db),
		DashboardStore:   gormstore.NewDashboardStore(db),
		HealthStore:      gormstore.NewHealthStore(db),
	}
}

// wrap applies the global middleware, outermost first: request id,
// recoverer, metrics, security headers, CORS, rate limit, body limit.
func (s *Server) wrap(h http.Handler, cfg *config.Config) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RequestLog(s.Logger.Named("http")),
		middleware.Recoverer(s.Logger),
		middleware.Prometheus,
		middleware.SecurityHeaders(false),
		middleware.CORS(func(origin string) bool { return s.Config().IsAllowedOrigin(origin) }),
		s.RateLimiter.Middleware,
		middleware.MaxBytes(cfg.MaxBodyBytes),
	}
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	protected := s.JWTMiddleware.Middleware(next)
	login := s.LoginLimiter.Middleware(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/auth/login" {
			login.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})
}

// Config returns the configuration currently in effect.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Chain returns the provider fallback chain currently in effect.
func (s *Server) Chain() *providers.Chain {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain
}

// ApplyConfig switches to cfg after a reload. The listen address, timeouts
// and body limit keep their startup values.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.chain = providers.NewChain(s.KeyManager, cfg.FallbackChain(), s.Logger, s.Clients...)
	s.mu.Unlock()

	s.RateLimiter.SetLimit(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	s.KeyManager.SetRetryPolicy(cfg.ProviderMaxRetries, cfg.ProviderRetryDelay())
	s.Issuer.SetTTL(cfg.TokenTTL())
	s.Logger.Infow("Configuration applied", "chain", cfg.FallbackChain(), "rate_limit_rps", cfg.RateLimitRPS)
}

// LoadProviderKeys loads provider keys from the environment and the
// database into the key manager.
func (s *Server) LoadProviderKeys(ctx context.Context) error {
	envKeys := s.KeyManager.LoadFromEnv()

	stored, err := s.APIKeysStore.ListKeys(ctx)
	if err != nil {
		return err
	}
	s.KeyManager.SetStored(stored)

	s.Logger.Infow("Provider keys loaded", "env", envKeys, "stored", len(stored))
	return nil
}

// Handler returns the router wrapped in the global middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start listens until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithListener serves on an existing listener until Shutdown is called.
func (s *Server) StartWithListener(l net.Listener) error {
	if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
