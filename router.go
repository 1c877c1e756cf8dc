package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	httpapi "github.com/yourorg/branch-search/http"
	"github.com/yourorg/branch-search/internal/logger"
	"github.com/yourorg/branch-search/source"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Source             source.Adapter
	Sessions           *httpapi.Sessions
	Log                *zap.Logger
	RateLimitPerMinute int
	Title              string
	SecureCookie       bool
}

func BuildRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(deps.Log))
	r.Use(httprate.LimitByIP(deps.RateLimitPerMinute, 1*time.Minute)) // protect upstream quota
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{"ok": true, "source": deps.Source.Name()})
	})

	httpapi.RegisterWidget(r, httpapi.WidgetDeps{
		Sessions:     deps.Sessions,
		Title:        deps.Title,
		SecureCookie: deps.SecureCookie,
	})
	httpapi.RegisterBranches(r, httpapi.BranchesDeps{Source: deps.Source})

	return r
}
