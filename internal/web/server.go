// Package web serves the FinQuery pages: search, company history tables,
// downloads and the query log.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"FinQuery/internal/model"
	"FinQuery/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Refresher runs the fetch-and-cache pipeline for one ticker.
type Refresher interface {
	FetchAndCache(ctx context.Context, ticker string) (*model.History, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	Refresher Refresher
	Store     store.Store
	StaticDir string
	Companies []model.Company

	pages *template.Template
}

// NewServer parses the embedded templates and returns a ready Server.
func NewServer(r Refresher, st store.Store, staticDir string) (*Server, error) {
	pages, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		Refresher: r,
		Store:     st,
		StaticDir: staticDir,
		Companies: model.FeaturedCompanies,
		pages:     pages,
	}, nil
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(s.recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleSearch)
	r.Get("/company/{ticker}", s.handleCompany)
	r.Get("/company/{ticker}/download", s.handleDownload)
	r.Get("/clear_queries", s.handleClearQueries)
	r.Get("/delete_query/{ticker}", s.handleDeleteQuery)

	if s.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	}
	r.NotFound(s.handleNotFound)
	return r
}
