// Package server exposes the dashboard forms, booking lists and login flag
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	ordercomponent "github.com/goliatone/go-propdash/components/orders"
	"github.com/goliatone/go-propdash/internal/config"
	"github.com/goliatone/go-propdash/pkg/forms"
	"github.com/goliatone/go-propdash/pkg/orders"
	"github.com/goliatone/go-propdash/pkg/session"
	"github.com/goliatone/go-propdash/pkg/submission"
	"github.com/goliatone/go-propdash/pkg/validation"
)

// Deps are the collaborators a Server needs. Nil fields get defaults.
type Deps struct {
	Forms   *forms.Registry
	Sink    submission.Sink
	Session *session.Flag
	Catalog *orders.Catalog
	Logger  *zap.Logger
}

// Server wires the HTTP routes.
type Server struct {
	cfg     config.Config
	logger  *zap.Logger
	forms   *forms.Registry
	sink    submission.Sink
	session *session.Flag
	catalog *orders.Catalog
	limiter *submitLimiter
	doc     *openapi3.T
	docJSON []byte
	handler http.Handler
}

// New validates the API document, fills default collaborators and builds the
// route table.
func New(ctx context.Context, cfg config.Config, deps Deps) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  deps.Logger,
		forms:   deps.Forms,
		sink:    deps.Sink,
		session: deps.Session,
		catalog: deps.Catalog,
		limiter: newSubmitLimiter(cfg.Limits.SubmitRate, cfg.Limits.SubmitBurst),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.catalog == nil {
		s.catalog = orders.Sample()
	}
	if s.session == nil {
		s.session = session.New()
	}
	if s.sink == nil {
		s.sink = submission.NewSimulated(
			submission.WithDelay(cfg.Forms.SubmitDelay),
			submission.WithLogger(s.logger.Named("submission")),
		)
	}
	if s.forms == nil {
		reg, err := DefaultForms(cfg.Forms, s.catalog)
		if err != nil {
			return nil, err
		}
		s.forms = reg
	}

	doc, err := LoadAPIDocument(ctx)
	if err != nil {
		return nil, err
	}
	s.doc = doc
	if s.docJSON, err = json.Marshal(doc); err != nil {
		return nil, fmt.Errorf("server: encode openapi: %w", err)
	}

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		return nil, err
	}
	s.handler = requestLogger(s.logger, mux)
	return s, nil
}

// DefaultForms loads the built-in forms with the catalog properties bound
// to the room form and the configured hide policy.
func DefaultForms(cfg config.FormsConfig, catalog *orders.Catalog) (*forms.Registry, error) {
	return forms.Default(
		forms.WithOptionSource("properties", catalog.PropertyOptions()),
		forms.WithPolicy(visibilityPolicy(cfg.HidePolicy)),
	)
}

func (s *Server) routes(mux *http.ServeMux) error {
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET "+session.DashboardPath, s.handleDashboard)
	mux.HandleFunc("GET "+session.LoginPath, s.handleLoginPage)
	mux.HandleFunc("GET /api/dashboard", s.handleAPIDashboard)

	mux.HandleFunc("GET /api/forms/{id}", s.handleFormDefinition)
	mux.HandleFunc("POST /api/forms/{id}/validate", s.handleValidate)
	mux.HandleFunc("POST /api/forms/{id}/submit", s.handleSubmit)

	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("POST /api/session/login", s.handleLogin)
	mux.HandleFunc("POST /api/session/logout", s.handleLogout)

	lists := []*ordercomponent.Component{
		ordercomponent.New(
			ordercomponent.WithRoutePath("/api/orders"),
			ordercomponent.WithRecords(s.catalog.ActiveRecords(), s.catalog.ActiveStatuses()),
		),
		ordercomponent.New(
			ordercomponent.WithRoutePath("/api/order-history"),
			ordercomponent.WithRecords(s.catalog.HistoryRecords(), s.catalog.HistoryStatuses()),
		),
	}
	for _, list := range lists {
		if _, err := list.RegisterRoutes(mux, "/"); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// API returns the validated OpenAPI document.
func (s *Server) API() *openapi3.T { return s.doc }

// Forms returns the form registry in use.
func (s *Server) Forms() *forms.Registry { return s.forms }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}

func (s *Server) lookupForm(w http.ResponseWriter, r *http.Request) (*forms.Form, bool) {
	form, err := s.forms.Form(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return form, true
}

func (s *Server) decodeValues(w http.ResponseWriter, r *http.Request) (validation.Values, bool) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxBodySize)
	defer body.Close()

	var values validation.Values
	dec := json.NewDecoder(body)
	if err := dec.Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object of field values")
		return nil, false
	}
	if values == nil {
		values = validation.Values{}
	}
	return values, true
}
