package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opendata-univ/barometre/config"
	"github.com/opendata-univ/barometre/logger"
	"github.com/opendata-univ/barometre/render"
	"github.com/opendata-univ/barometre/schema"
	"github.com/opendata-univ/barometre/session"
	"github.com/opendata-univ/barometre/views"
)

// SessionCookie names the cookie carrying the session UUID.
const SessionCookie = "barometre_session"

// Server serves the dashboard pages and their JSON projections.
type Server struct {
	env      *views.Env
	sessions *session.Store
	tpl      *template.Template
}

// NewServer wires a Server over env with its own session store, bounded by
// limits.
func NewServer(env *views.Env, limits config.SessionConfig) *Server {
	return &Server{
		env:      env,
		sessions: session.NewStore(limits.MaxSessions, limits.TTL),
		tpl:      pageTemplate,
	}
}

// Routes returns the HTTP handler, wrapped in request logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /pages/{id}", s.handlePage)
	mux.HandleFunc("POST /pages/{id}/controls", s.handleControl)
	mux.HandleFunc("GET /api/pages/{id}", s.handlePageJSON)
	mux.HandleFunc("GET /api/schema", s.handleSchema)
	return withLogging(mux)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("🚀 Dashboard listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rows": s.env.Data.Len()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/pages/intro", http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	st := s.lookupSession(r)
	page, err := views.Build(s.env, st, r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	data := pageData{Nav: views.Pages(), Page: page, Assets: render.AssetsURL}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		logger.Log.Errorf("❌ Template %s: %v", page.ID, err)
	}
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	st := s.session(w, r)
	if err := views.ApplyControl(s.env, st, id, r.PostForm.Get("field"), r.PostForm.Get("value")); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	http.Redirect(w, r, "/pages/"+id, http.StatusSeeOther)
}

func (s *Server) handlePageJSON(w http.ResponseWriter, r *http.Request) {
	st := s.lookupSession(r)
	page, err := views.Build(s.env, st, r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	lo, hi := s.env.Data.YearRange()
	writeJSON(w, http.StatusOK, map[string]any{
		"schema":   schema.Broadcast(),
		"rows":     s.env.Data.Len(),
		"topics":   s.env.Data.Topics(),
		"channels": s.env.Data.Channels(),
		"years":    []int{lo, hi},
		"events":   s.env.Events.Events(),
		"pages":    views.Pages(),
	})
}

// ============================================================================
// HELPERS
// ============================================================================

// lookupSession returns the request's existing session, or nil. Pages built
// without one use default selections; only control changes create sessions.
func (s *Server) lookupSession(r *http.Request) *session.State {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	st, ok := s.sessions.Get(c.Value)
	if !ok {
		return nil
	}
	return st
}

// session resolves the request's session, issuing a cookie for new ones.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.State {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	st, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    st.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return st
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, views.ErrUnknownPage):
		return http.StatusNotFound
	case errors.Is(err, views.ErrUnknownControl), errors.Is(err, views.ErrInvalidValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Debugf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}
