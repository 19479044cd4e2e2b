// Package server exposes organization data over a small JSON HTTP API.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/kirksw/orgscope/internal/github"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientFactory builds a fresh client for one organization.
type ClientFactory func(org string) *github.OrgClient

type Server struct {
	newClient ClientFactory
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
}

func New(newClient ClientFactory, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{newClient: newClient, gatherer: gatherer, logger: logger}
}

type reposResponse struct {
	Org     string   `json:"org"`
	License string   `json:"license,omitempty"`
	Repos   []string `json:"repos"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	router.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, map[string]string{"status": "ok"})
		})
		r.Get("/orgs/{org}", s.getOrg)
		r.Get("/orgs/{org}/repos", s.getRepos)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: http.StatusText(http.StatusNotFound)})
	})

	return router
}

func (s *Server) getOrg(w http.ResponseWriter, r *http.Request) {
	client := s.newClient(chi.URLParam(r, "org"))

	org, err := client.Org(r.Context())
	if err != nil {
		s.handleError(w, r, client.Name(), err)
		return
	}

	render.JSON(w, r, org)
}

func (s *Server) getRepos(w http.ResponseWriter, r *http.Request) {
	client := s.newClient(chi.URLParam(r, "org"))
	license := r.URL.Query().Get("license")

	repos, err := client.PublicRepos(r.Context(), license)
	if err != nil {
		s.handleError(w, r, client.Name(), err)
		return
	}

	render.JSON(w, r, reposResponse{
		Org:     client.Name(),
		License: license,
		Repos:   repos,
	})
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, org string, err error) {
	status := http.StatusBadGateway
	if github.IsNotFound(err) {
		status = http.StatusNotFound
	} else if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		status = http.StatusServiceUnavailable
	}

	s.logger.Warn("request failed",
		"org", org,
		"path", r.URL.Path,
		"status", status,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}
