package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/codeveil/codeveil/internal/audit"
	"github.com/codeveil/codeveil/internal/config"
	"github.com/codeveil/codeveil/internal/logger"
	"github.com/codeveil/codeveil/internal/sanitize"
	"github.com/codeveil/codeveil/internal/scoring"
	"github.com/codeveil/codeveil/internal/session"
	"github.com/codeveil/codeveil/internal/web"
	"github.com/codeveil/codeveil/internal/websocket"
)

// Server is the HTTP front end for the rewrite engine and calculator.
// The session and audit stores are optional; handlers treat a nil store
// as the feature being disabled.
type Server struct {
	config *config.Config
	logger *logger.Logger

	// mu guards engine and calculator, which are swapped on config reload.
	mu         sync.RWMutex
	engine     *sanitize.Engine
	calculator *scoring.Calculator

	sessions   *session.Store
	auditTrail *audit.Store
	wsHub      *websocket.Hub
	router     *mux.Router
	server     *http.Server
	limiter    *rateLimiter

	startTime     time.Time
	totalRequests int64
}

// New assembles the server and its routes.
func New(cfg *config.Config, log *logger.Logger, sessions *session.Store, auditTrail *audit.Store) *Server {
	engine := sanitize.New(cfg.Sanitizer, log.WithComponent("sanitize"))
	calculator := scoring.New(cfg.Scoring, log.WithComponent("scoring"))
	wsHub := websocket.NewHub(cfg.WebSocket, log.WithComponent("websocket"))

	s := &Server{
		config:     cfg,
		logger:     log.WithComponent("server"),
		engine:     engine,
		calculator: calculator,
		sessions:   sessions,
		auditTrail: auditTrail,
		wsHub:      wsHub,
		router:     mux.NewRouter(),
		limiter:    newRateLimiter(cfg.RateLimit),
		startTime:  time.Now(),
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	s.router.HandleFunc("/", web.ServeDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard", web.ServeDashboard).Methods("GET")

	if s.config.WebSocket.Enabled {
		s.router.HandleFunc(s.config.WebSocket.Path, s.handleWebSocket).Methods("GET")
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/sanitize", s.handleSanitize).Methods("POST")
	api.HandleFunc("/sessions/{key}", s.handleSessionGet).Methods("GET")
	api.HandleFunc("/sessions/{key}", s.handleSessionDelete).Methods("DELETE")
	api.HandleFunc("/demo", s.handleDemoList).Methods("GET")
	api.HandleFunc("/demo/{category}", s.handleDemo).Methods("GET")
	api.HandleFunc("/audit", s.handleAuditList).Methods("GET")
}

// Start starts the HTTP server and the WebSocket hub.
func (s *Server) Start() error {
	cfg := s.currentConfig()
	s.logger.Info("starting server",
		zap.Int("port", cfg.Server.Port),
		zap.String("default_profile", cfg.Sanitizer.DefaultProfile),
		zap.Bool("sessions", s.sessions != nil),
		zap.Bool("audit", s.auditTrail != nil),
	)

	if cfg.WebSocket.Enabled {
		go s.wsHub.Run()
		go s.statusLoop(cfg.WebSocket.StatusInterval)
	}

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// Reload rebuilds the rewrite engine and calculator from a freshly
// validated configuration. Port and store changes still need a restart.
func (s *Server) Reload(cfg *config.Config) {
	engine := sanitize.New(cfg.Sanitizer, s.logger.WithComponent("sanitize"))
	calculator := scoring.New(cfg.Scoring, s.logger.WithComponent("scoring"))

	s.mu.Lock()
	s.config = cfg
	s.engine = engine
	s.calculator = calculator
	s.mu.Unlock()

	s.logger.Info("configuration applied",
		zap.String("default_profile", cfg.Sanitizer.DefaultProfile))
}

// pipeline returns the current engine and calculator pair.
func (s *Server) pipeline() (*sanitize.Engine, *scoring.Calculator) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.calculator
}

// currentConfig returns the configuration pointer under the same lock
// that Reload swaps it under.
func (s *Server) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Server) defaultProfile() string {
	return s.currentConfig().Sanitizer.DefaultProfile
}

func (s *Server) countRequest() {
	atomic.AddInt64(&s.totalRequests, 1)
}

func (s *Server) requestTotal() int64 {
	return atomic.LoadInt64(&s.totalRequests)
}

// statusEvent snapshots the server state for the periodic status push.
func (s *Server) statusEvent() websocket.Event {
	engine, _ := s.pipeline()
	return websocket.Event{
		Type:      websocket.EventTypeSystemStatus,
		Timestamp: time.Now(),
		Data: websocket.SystemStatusEvent{
			Status:           "healthy",
			Uptime:           time.Since(s.startTime).String(),
			TotalRequests:    s.requestTotal(),
			ActiveRules:      engine.RuleCount(),
			ConnectedClients: s.wsHub.ClientCount(),
		},
	}
}

// statusLoop pushes a system status event to the hub on a fixed cadence.
func (s *Server) statusLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.wsHub.Broadcast(s.statusEvent())
	}
}
