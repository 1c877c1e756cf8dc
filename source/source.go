package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yourorg/branch-search/branch"
	"github.com/yourorg/branch-search/internal/config"
	"github.com/yourorg/branch-search/internal/refresh"
	"go.uber.org/zap"
)

// Adapter fetches raw branch rows from one backend.
type Adapter interface {
	// FetchRows returns the backend's rows, narrowed by query when the
	// backend filters server-side. Failures are *FetchError.
	FetchRows(ctx context.Context, query string) ([]branch.RawRow, error)
	// FiltersServerSide reports whether FetchRows already applied query.
	FiltersServerSide() bool
	Name() string
	// RecordURL links to the full backing record set, or "".
	RecordURL() string
}

// New builds the adapter selected by cfg.Backend. cache may be nil. The
// returned func releases background workers and connections.
func New(cfg config.Config, cache Store, log *zap.Logger) (Adapter, func(), error) {
	newGetter := func(h http.Header) (Getter, func()) {
		var g Getter = NewClient(ClientOptions{
			Timeout:   cfg.RequestTimeout,
			PerSecond: cfg.UpstreamPerSecond,
			Header:    h,
			Logger:    log,
		})
		if cache == nil || !cfg.CacheEnabled() {
			return g, func() {}
		}
		cg := NewCachedGetter(g, cache, cfg.CacheTTL, cfg.StaleAfter, log)
		cg.Refresher = refresh.New(64, 2, cfg.RequestTimeout*2, cg.Revalidate)
		return cg, cg.Refresher.Close
	}

	switch cfg.Backend {
	case config.BackendSheets:
		g, closeFn := newGetter(nil)
		return NewSheets(cfg.SheetID, g, log), closeFn, nil
	case config.BackendList:
		h := http.Header{}
		h.Set("Accept", "application/json;odata=nometadata")
		if cfg.ListToken != "" {
			h.Set("Authorization", "Bearer "+cfg.ListToken)
		}
		g, closeFn := newGetter(h)
		return NewListService(cfg.ListEndpoint, g, log), closeFn, nil
	case config.BackendDatabase:
		db, err := OpenDatabase(cfg.DatabaseDSN, log)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func fail(log *zap.Logger, backend string, kind Kind, err error) error {
	fe := &FetchError{Kind: kind, Backend: backend, Err: err}
	log.Warn("branch fetch failed",
		zap.String("backend", backend),
		zap.Stringer("kind", kind),
		zap.Error(err),
	)
	return fe
}
