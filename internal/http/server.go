package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expensedash/internal/cache"
	"expensedash/internal/credentials"
	"expensedash/internal/dashboard"
	"expensedash/internal/expenseapi"
	applog "expensedash/internal/log"
	"expensedash/internal/middleware/ratelimit"
	"expensedash/internal/middleware/security"
	"expensedash/internal/middleware/trace"
	"expensedash/internal/notify"
)

// Options configures a Server. API is required; everything else has a default.
type Options struct {
	Addr string
	API  *expenseapi.Client
	// Fallback supplies a token when a request carries no bearer header.
	Fallback           credentials.Provider
	Notifier           notify.Publisher
	Metrics            dashboard.Metrics
	Logger             *applog.Logger
	SessionCacheSize   int
	SessionTTL         time.Duration
	RateLimitPerMinute int
	// Ready is an optional readiness probe for local dependencies.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	api      *expenseapi.Client
	creds    credentials.Provider
	sessions *sessionStore
	notifier notify.Publisher
	logger   *applog.Logger
	ready    func(ctx context.Context) error
	started  time.Time

	cacheManager    *cache.Manager
	rateLimiter     *ratelimit.Limiter
	detector        *security.Detector
	traceMiddleware *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	if opts.SessionCacheSize <= 0 {
		opts.SessionCacheSize = 100
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogPublisher(logger)
	}

	creds := credentials.Chain{credentials.ContextToken{}, opts.Fallback}
	api := opts.API.WithCredentials(creds)
	httpLogger := logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		api:             api,
		creds:           creds,
		sessions:        newSessionStore(opts.API, opts.SessionCacheSize, opts.SessionTTL, opts.Metrics, logger),
		notifier:        notifier,
		logger:          httpLogger,
		ready:           opts.Ready,
		started:         time.Now(),
		cacheManager:    cache.NewManager(logger),
		rateLimiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}, logger),
		detector:        security.NewDetector(logger),
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	s.cacheManager.Register(s.sessions.views)
	s.cacheManager.StartCleanup(time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	apiMux.HandleFunc("DELETE /api/dashboard", s.handleDashboardClose)
	apiMux.HandleFunc("GET /api/dashboard/monthly", s.handleMonthlySeries)
	apiMux.HandleFunc("GET /api/dashboard/weekly", s.handleWeeklySeries)
	apiMux.HandleFunc("GET /api/dashboard/categories", s.handleCategoryShares)

	apiMux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	apiMux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	apiMux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	apiMux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	apiMux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	apiMux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	apiMux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	apiMux.HandleFunc("GET /api/recurring/{id}", s.handleGetRecurring)
	apiMux.HandleFunc("PUT /api/recurring/{id}", s.handleUpdateRecurring)
	apiMux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)
	apiMux.HandleFunc("POST /api/recurring/{id}/toggle", s.handleToggleRecurring)

	apiMux.HandleFunc("POST /api/auth/login", s.handleLogin)
	apiMux.HandleFunc("POST /api/auth/register", s.handleRegister)
	apiMux.HandleFunc("GET /api/profile", s.handleProfile)
	apiMux.HandleFunc("GET /api/meta", s.handleMeta)

	limited := s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
	})(credentials.HeaderMiddleware(apiMux))
	mux.Handle("/api/", limited)

	var handler http.Handler = mux
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s
}

// Shutdown stops background routines, closes every session and then shuts
// the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
		s.sessions.views.Purge()
		if err := s.notifier.Close(); err != nil {
			s.logger.Warn("Notifier close failed", applog.FieldError, err.Error())
		}
	})
	return shutdownErr
}

// publish sends a toast to the notification bus. Failures are logged only.
func (s *Server) publish(ctx context.Context, n notify.Notification) {
	n.Profile = shortKey(sessionKey(s.requestToken(ctx)))
	if err := s.notifier.Publish(ctx, n); err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentAMQP).WarnContext(ctx, "Notification publish failed",
			applog.FieldError, err.Error(),
			"notification_type", n.Type,
			"title", n.Title)
	}
}

func (s *Server) requestLogger(r *http.Request) *applog.Logger {
	return applog.FromContext(r.Context()).WithComponent(applog.ComponentHTTP)
}
