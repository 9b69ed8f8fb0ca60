// Package api exposes the client pipeline and the store's records over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	crm "github.com/hcviolins/crm"
	"github.com/hcviolins/crm/gormcrm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server wires the HTTP surface to the store and the list pipeline.
type Server struct {
	store  *gormcrm.Store
	runner crm.Runner
	log    zerolog.Logger
}

// Options for the pipeline the server runs list requests through.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

func NewServer(store *gormcrm.Store, log zerolog.Logger, opts Options) *Server {
	if opts.DefaultPageSize < 1 {
		opts.DefaultPageSize = 25
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}

	runner := crm.New(
		store,
		crm.EnsureLimits(opts.DefaultPageSize, opts.MaxPageSize),
		crm.EnsureDefaultOrder(crm.Order{Field: "first_name", Direction: crm.OrderDirectionAsc}),
	)

	return &Server{store: store, runner: runner, log: log}
}

// Routes builds the router. Paths mirror the upstream data store's generated
// routes so the browser client can point at either.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/clients", s.handleListClients).Methods(http.MethodGet)
	r.HandleFunc("/clients", s.handleCreateClient).Methods(http.MethodPost)
	r.HandleFunc("/clients/options", s.handleClientOptions).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", s.handleGetClient).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", s.handleUpdateClient).Methods(http.MethodPut)
	r.HandleFunc("/clients/{id}", s.handleDeleteClient).Methods(http.MethodDelete)

	r.HandleFunc("/clients/{id}/contacts", s.handleListContacts).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}/contacts", s.handleAddContact).Methods(http.MethodPost)

	r.HandleFunc("/clients/{id}/reminders", s.handleListReminders).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}/reminders", s.handleCreateReminder).Methods(http.MethodPost)
	r.HandleFunc("/reminders/{id}/complete", s.handleCompleteReminder).Methods(http.MethodPost)

	r.HandleFunc("/instruments", s.handleCreateInstrument).Methods(http.MethodPost)
	r.HandleFunc("/clients/{id}/instruments", s.handleListInstruments).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}/instruments", s.handleLinkInstrument).Methods(http.MethodPost)
	r.HandleFunc("/clients/{id}/instruments/{instrumentID}", s.handleUnlinkInstrument).Methods(http.MethodDelete)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, gormcrm.ErrNotFound) {
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
