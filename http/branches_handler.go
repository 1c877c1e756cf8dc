package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/branch-search/source"
	"github.com/yourorg/branch-search/widget"
)

type BranchesDeps struct {
	Source source.Adapter
}

// RegisterBranches exposes the normalized records as JSON.
func RegisterBranches(r chi.Router, d BranchesDeps) {
	r.Route("/api/branches", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			records, err := widget.Search(req.Context(), d.Source, req.URL.Query().Get("q"))
			if err != nil {
				upstreamError(w, req, err)
				return
			}
			render.JSON(w, req, map[string]any{
				"ok":       true,
				"source":   d.Source.Name(),
				"count":    len(records),
				"branches": records,
			})
		})

		r.Get("/{code}", func(w http.ResponseWriter, req *http.Request) {
			code := chi.URLParam(req, "code")
			records, err := widget.Lookup(req.Context(), d.Source, code)
			if err != nil {
				upstreamError(w, req, err)
				return
			}
			if len(records) == 0 {
				render.Status(req, http.StatusNotFound)
				render.JSON(w, req, map[string]any{"error": "not_found", "location_code": code})
				return
			}
			render.JSON(w, req, map[string]any{
				"ok":         true,
				"branch":     records[0],
				"record_url": d.Source.RecordURL(),
			})
		})
	})
}

func upstreamError(w http.ResponseWriter, req *http.Request, err error) {
	code := "upstream_error"
	if source.IsKind(err, source.ParseFailure) {
		code = "parse_error"
	}
	render.Status(req, http.StatusBadGateway)
	render.JSON(w, req, map[string]any{"error": code, "detail": err.Error()})
}
