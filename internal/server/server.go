// Package server exposes the layouts over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/render"
	"github.com/runoshun/timegrid/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// errBadQuery marks a malformed query parameter.
var errBadQuery = errors.New("bad query parameter")

// Deps holds the use cases the handlers call.
type Deps struct {
	Timeline  *usecase.ShowTimeline
	Calendar  *usecase.ShowCalendar
	ListTasks *usecase.ListTasks
	ShowTask  *usecase.ShowTask
	Logger    *slog.Logger
}

// Server routes HTTP requests to the layout use cases.
type Server struct {
	deps   Deps
	router *mux.Router
}

// New creates a Server and registers its routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{deps: deps, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tasks", s.handleTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", s.handleTask).Methods(http.MethodGet)
	api.HandleFunc("/timeline", s.handleTimeline).Methods(http.MethodGet)
	api.HandleFunc("/calendar/{view:day|week|month}", s.handleCalendar).Methods(http.MethodGet)

	r.HandleFunc("/timeline.svg", s.handleTimelineSVG).Methods(http.MethodGet)
	r.HandleFunc("/calendar/{view:day|week}.svg", s.handleCalendarSVG).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.deps.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.deps.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.ListTasks.Execute(r.Context(), usecase.ListTasksInput{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	docs := make([]render.TaskDoc, 0, len(out.Items))
	for _, item := range out.Items {
		docs = append(docs, render.NewTaskDoc(item.Task))
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.ShowTask.Execute(r.Context(), usecase.ShowTaskInput{ID: mux.Vars(r)["id"]})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewTaskDoc(out.Task))
}

func (s *Server) timeline(r *http.Request) (*usecase.ShowTimelineOutput, error) {
	q := r.URL.Query()
	return s.deps.Timeline.Execute(r.Context(), usecase.ShowTimelineInput{
		Date: q.Get("week"),
		Zoom: q.Get("zoom"),
	})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	out, err := s.timeline(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewTimelineDoc(out.Timeline))
}

func (s *Server) handleTimelineSVG(w http.ResponseWriter, r *http.Request) {
	out, err := s.timeline(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeSVG(w, render.TimelineSVG(out.Timeline))
}

func (s *Server) calendar(r *http.Request) (*usecase.ShowCalendarOutput, error) {
	q := r.URL.Query()
	in := usecase.ShowCalendarInput{
		View: mux.Vars(r)["view"],
		Date: q.Get("date"),
	}
	if raw := q.Get("narrow"); raw != "" {
		narrow, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: narrow=%q", errBadQuery, raw)
		}
		in.Narrow = &narrow
	}
	return s.deps.Calendar.Execute(r.Context(), in)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	out, err := s.calendar(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewCalendarDoc(out.View, out.Date, out.Days, out.Month, out.Viewport))
}

func (s *Server) handleCalendarSVG(w http.ResponseWriter, r *http.Request) {
	out, err := s.calendar(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeSVG(w, render.CalendarSVG(out.Days, out.Viewport))
}

// fail maps err to a status code and writes it as a JSON error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.deps.Logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadQuery),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidZoom),
		errors.Is(err, domain.ErrInvalidView):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = render.WriteJSON(w, v)
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}
