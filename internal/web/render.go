package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"FinQuery/internal/collector"
	"FinQuery/internal/model"
)

type errorPage struct {
	Code        int
	Message     string
	Description string
}

var funcMap = template.FuncMap{
	"chunk":     chunk,
	"money":     func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
	"thousands": humanize.Comma,
	"percent":   func(f float64) string { return strconv.FormatFloat(f*100, 'f', 0, 64) },
	"signed":    func(f float64) string { return fmt.Sprintf("%+.2f", f) },
	"stamp":     func(t time.Time) string { return t.Local().Format("2006-01-02 15:04:05") },
	"pathEsc":   companyPath,
}

// render executes a page into a buffer first so a template failure still
// produces a clean 500 page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Str("request_id", middleware.GetReqID(r.Context())).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError maps pipeline errors to the 404, 502 and 500 pages.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isNotFound(err):
		ticker := collector.NormalizeTicker(tickerFromPath(r.URL.Path))
		s.renderStatus(w, r, http.StatusNotFound, "No Encontrado",
			"No se encontró información para el ticker: "+ticker)
	case errors.Is(err, collector.ErrProviderUnavailable):
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("provider unavailable")
		s.renderStatus(w, r, http.StatusBadGateway, "502 - Proveedor No Disponible",
			"No se pudo contactar al proveedor de datos. Por favor, inténtalo nuevamente más tarde.")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
		s.renderStatus(w, r, http.StatusInternalServerError, "500 - Error Interno",
			"Ocurrió un error en el servidor. Por favor, inténtalo nuevamente más tarde.")
	}
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, code int, msg, desc string) {
	s.render(w, r, code, "error.html", errorPage{Code: code, Message: msg, Description: desc})
}

func tickerFromPath(p string) string {
	p = strings.TrimPrefix(p, "/company/")
	p, _, _ = strings.Cut(p, "/")
	return p
}

// chunk splits companies into groups of n for the carousel slides.
func chunk(companies []model.Company, n int) [][]model.Company {
	if n <= 0 {
		return nil
	}
	var out [][]model.Company
	for i := 0; i < len(companies); i += n {
		end := min(i+n, len(companies))
		out = append(out, companies[i:end])
	}
	return out
}
