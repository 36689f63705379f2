package playground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/element"
	httpmw "github.com/vango-dev/tagkit/pkg/middleware"
	"github.com/vango-dev/tagkit/pkg/telemetry"
)

// DefaultMaxMessageSize limits websocket dispatch messages.
const DefaultMaxMessageSize = 64 * 1024

// Config configures a playground server.
type Config struct {
	// Registry resolves component tags. Required.
	Registry *element.Registry

	// Markup is the initial document.
	Markup string

	// AllowedOrigins lists CORS and websocket origins. "*" allows any
	// origin; empty allows same-origin requests only.
	AllowedOrigins []string

	// Namespace is the metrics namespace (default: "tagkit").
	Namespace string

	// TracerName names the tracer for render spans (default: "tagkit").
	TracerName string

	// Logger receives request and diagnostic logs (default: slog.Default()).
	Logger *slog.Logger

	// DocumentOptions are passed to element.NewDocument after the
	// playground's own options.
	DocumentOptions []element.Option

	// MaxMessageSize limits websocket messages (default: 64 KiB).
	MaxMessageSize int64
}

// DispatchRequest names an event to deliver.
type DispatchRequest struct {
	Selector string `json:"selector"`
	Event    string `json:"event"`
	Data     string `json:"data,omitempty"`
}

// DispatchResponse is the document after a dispatch and the diagnostics
// the dispatch reported.
type DispatchResponse struct {
	HTML        string            `json:"html"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Error       string            `json:"error,omitempty"`
}

// InstanceInfo describes one attached instance.
type InstanceInfo struct {
	Tag     string         `json:"tag"`
	Scope   string         `json:"scope"`
	Phase   string         `json:"phase"`
	Renders int            `json:"renders"`
	State   map[string]any `json:"state"`
}

// Server exposes one document over HTTP.
type Server struct {
	mu  sync.Mutex
	doc *element.Document
	rec *diag.Recorder

	config   Config
	router   *chi.Mux
	upgrader websocket.Upgrader
	metrics  *prometheus.Registry
	logger   *slog.Logger
}

// New loads cfg.Markup into a fresh document and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("playground: registry is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = DefaultMaxMessageSize
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "tagkit"
	}
	if cfg.TracerName == "" {
		cfg.TracerName = "tagkit"
	}

	s := &Server{
		config:  cfg,
		rec:     diag.NewRecorder(),
		metrics: prometheus.NewRegistry(),
		logger:  cfg.Logger,
	}

	observer := element.Observers(
		telemetry.NewMetrics(
			telemetry.WithRegistry(s.metrics),
			telemetry.WithNamespace(cfg.Namespace),
		),
		telemetry.NewTracing(telemetry.WithTracerName(cfg.TracerName)),
	)
	opts := []element.Option{
		element.WithDiagnostics(diag.Multi(s.rec, diag.NewLogger(cfg.Logger))),
		element.WithLogger(cfg.Logger),
		element.WithObserver(observer),
	}
	s.doc = element.NewDocument(cfg.Registry, append(opts, cfg.DocumentOptions...)...)
	if err := s.doc.LoadString(cfg.Markup); err != nil {
		return nil, fmt.Errorf("playground: load markup: %w", err)
	}
	if n := len(s.rec.Drain()); n > 0 {
		cfg.Logger.Info("document loaded with diagnostics", "count", n)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router = chi.NewRouter()
	s.router.Use(middleware.Recoverer)
	s.router.Use(httpmw.Prometheus(
		httpmw.WithRegistry(s.metrics),
		httpmw.WithNamespace(s.config.Namespace),
	))
	s.router.Use(httpmw.OpenTelemetry(
		httpmw.WithTracerName(s.config.TracerName),
		httpmw.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics" && r.URL.Path != "/healthz"
		}),
	))
	if len(s.config.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	s.router.Get("/", s.handleDocument)
	s.router.Get("/instances", s.handleInstances)
	s.router.Post("/dispatch", s.handleDispatch)
	s.router.Get("/ws", s.handleWebSocket)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("playground listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Dispatch delivers one event and returns the resulting document.
func (s *Server) Dispatch(req DispatchRequest) (DispatchResponse, error) {
	if req.Selector == "" || req.Event == "" {
		return DispatchResponse{}, errors.New("selector and event are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.doc.DispatchSelector(req.Selector, req.Event, req.Data)
	resp := DispatchResponse{
		HTML:        s.doc.BodyHTML(),
		Diagnostics: s.rec.Drain(),
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []diag.Diagnostic{}
	}
	return resp, err
}

// Instances returns every attached instance in document order.
func (s *Server) Instances() []InstanceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	insts := s.doc.Instances()
	out := make([]InstanceInfo, 0, len(insts))
	for _, inst := range insts {
		out = append(out, InstanceInfo{
			Tag:     inst.Tag(),
			Scope:   inst.ScopeID(),
			Phase:   inst.Phase().String(),
			Renders: inst.Renders(),
			State:   inst.State().Snapshot(),
		})
	}
	return out
}

// HTML returns the serialised document.
func (s *Server) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.HTML()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.config.AllowedOrigins, "*") || slices.Contains(s.config.AllowedOrigins, origin) {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.HTML()))
}

func (s *Server) handleInstances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Instances())
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxMessageSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, DispatchResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.Dispatch(req)
	if err != nil {
		resp.Error = err.Error()
		status := http.StatusBadRequest
		if errors.Is(err, element.ErrNoTarget) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(s.config.MaxMessageSize)
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var resp DispatchResponse
		var req DispatchRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			resp.Error = "invalid message: " + err.Error()
		} else if resp, err = s.Dispatch(req); err != nil {
			resp.Error = err.Error()
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
