package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"FinQuery/internal/calculator"
	"FinQuery/internal/collector"
	"FinQuery/internal/export"
	"FinQuery/internal/model"
)

type indexPage struct {
	Companies []model.Company
	Queries   []model.QueryLogEntry
}

type columnLink struct {
	Label  string
	Href   string
	Active bool
	Order  string
}

type companyPage struct {
	Ticker  string
	Name    string
	Rows    []model.PriceRow
	Columns []columnLink
	Summary *model.Summary
	HideNav bool
}

var columnLabels = map[model.SortColumn]string{
	model.SortByDate:     "Fecha",
	model.SortByOpen:     "Apertura",
	model.SortByHigh:     "Máximo",
	model.SortByLow:      "Mínimo",
	model.SortByClose:    "Cierre",
	model.SortByAdjClose: "Cierre Ajustado",
	model.SortByVolume:   "Volumen",
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	queries, err := s.Store.ListQueries(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", indexPage{Companies: s.Companies, Queries: queries})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ticker := collector.NormalizeTicker(r.PostFormValue("ticker"))
	if ticker == "" {
		s.handleIndex(w, r)
		return
	}
	http.Redirect(w, r, companyPath(ticker), http.StatusFound)
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	col, ord := sortParams(r)
	h, err := s.Refresher.FetchAndCache(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	rows, err := s.Store.ReadHistory(r.Context(), h.Ticker, col, ord)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	summary, _ := calculator.Summarize(rows)
	s.render(w, r, http.StatusOK, "company.html", companyPage{
		Ticker:  h.Ticker,
		Name:    h.Name,
		Rows:    rows,
		Columns: columnLinks(col, ord),
		Summary: summary,
	})
}

// handleDownload serves the cached history as an attachment. It never calls the provider.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ticker := collector.NormalizeTicker(chi.URLParam(r, "ticker"))
	col, ord := sortParams(r)

	format := r.URL.Query().Get("format")
	var exp export.Exporter
	if format != "" && format != "html" {
		if exp = export.New(format); exp == nil {
			s.renderStatus(w, r, http.StatusBadRequest, "Formato no soportado",
				fmt.Sprintf("El formato %q no está disponible. Usa html, csv, json o parquet.", format))
			return
		}
	}

	rows, err := s.Store.ReadHistory(r.Context(), ticker, col, ord)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if len(rows) == 0 {
		s.renderError(w, r, fmt.Errorf("%w: nothing cached for %s", collector.ErrNotFound, ticker))
		return
	}

	var buf bytes.Buffer
	contentType, ext := "text/html; charset=utf-8", "html"
	if exp == nil {
		err = s.pages.ExecuteTemplate(&buf, "company.html", companyPage{
			Ticker:  ticker,
			Name:    ticker,
			Rows:    rows,
			Columns: columnLinks(col, ord),
			HideNav: true,
		})
	} else {
		contentType, ext = exp.ContentType(), exp.Extension()
		err = exp.Write(&buf, rows)
	}
	if err != nil {
		s.renderError(w, r, fmt.Errorf("export %s as %s: %w", ticker, ext, err))
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(buf.Bytes()), 16) + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename(ticker, ext))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug().Err(err).Str("ticker", ticker).Msg("download interrupted")
	}
}

func (s *Server) handleClearQueries(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.ClearQueries(r.Context()); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDeleteQuery(w http.ResponseWriter, r *http.Request) {
	ticker := collector.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err := s.Store.DeleteQuery(r.Context(), ticker); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderStatus(w, r, http.StatusNotFound, "404 - Página No Encontrada", "La página que buscas no existe.")
}

// sortParams reads sort and order. Only the closed enums reach the store.
func sortParams(r *http.Request) (model.SortColumn, model.SortOrder) {
	q := r.URL.Query()
	return model.ParseSortColumn(q.Get("sort")), model.ParseSortOrder(q.Get("order"))
}

// columnLinks builds the header links. Clicking the active ascending column
// flips it to descending; any other click sorts ascending.
func columnLinks(active model.SortColumn, ord model.SortOrder) []columnLink {
	links := make([]columnLink, 0, len(model.SortColumns))
	for _, c := range model.SortColumns {
		next := model.Ascending
		if c == active && ord == model.Ascending {
			next = ord.Toggle()
		}
		v := url.Values{}
		v.Set("sort", c.String())
		v.Set("order", next.String())
		l := columnLink{Label: columnLabels[c], Href: "?" + v.Encode(), Active: c == active}
		if l.Active {
			l.Order = ord.String()
		}
		links = append(links, l)
	}
	return links
}

func companyPath(ticker string) string {
	return "/company/" + url.PathEscape(ticker)
}

func isNotFound(err error) bool {
	return errors.Is(err, collector.ErrNotFound)
}
