package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/platformboard/internal/board"
	"github.com/danpilch/platformboard/internal/departures"
	"github.com/danpilch/platformboard/internal/render"
	"github.com/danpilch/platformboard/internal/stations"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the departures proxy, the station directory and the server
// rendered board page.
type Server struct {
	service   *departures.Service
	directory *stations.Directory
	logger    *logrus.Logger
	handler   http.Handler
}

func New(service *departures.Service, directory *stations.Directory, allowedOrigins []string, logger *logrus.Logger) *Server {
	s := &Server{
		service:   service,
		directory: directory,
		logger:    logger,
	}

	r := mux.NewRouter()
	r.Use(recoveryMiddleware(logger), loggingMiddleware(logger))

	r.HandleFunc("/api/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/departures/{code}", s.handleDepartures).Methods(http.MethodGet)
	r.HandleFunc("/api/stations", s.handleSuggestions).Methods(http.MethodGet)
	r.HandleFunc("/data/stations.json", s.handleDirectory).Methods(http.MethodGet)
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(r)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"name": "platformboard"}, http.StatusOK)
}

func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	groups, err := s.service.Lookup(r.Context(), code)
	if err != nil {
		var lookupErr *departures.Error
		if errors.As(err, &lookupErr) {
			writeError(w, lookupErr.Message, lookupErr.Kind.HTTPStatus())
			return
		}
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, groups, http.StatusOK)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	matches, err := s.directory.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "Failed to load station directory", http.StatusInternalServerError)
		return
	}
	writeJSON(w, matches, http.StatusOK)
}

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	list, err := s.directory.Stations(r.Context())
	if err != nil {
		writeError(w, "Failed to load station directory", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("station")
	data := render.PageData{Query: query}

	if query != "" {
		b := board.New(board.LocalFetcher{Service: s.service}, s.logger)
		res, err := b.Submit(r.Context(), query)
		if err != nil {
			data.Message = err.Error()
		} else {
			data.Result = &res
			data.Message = res.Message
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, data); err != nil {
		s.logger.WithField("error", err).Error("failed to render page")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"error": message}, status)
}
