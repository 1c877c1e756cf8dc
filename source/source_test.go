package source

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/branch-search/internal/redisx"
)

type getterFunc func(ctx context.Context, u string) ([]byte, error)

func (f getterFunc) Get(ctx context.Context, u string) ([]byte, error) { return f(ctx, u) }

// countingGetter records every URL it is asked for.
type countingGetter struct {
	mu   sync.Mutex
	urls []string
	body []byte
	err  error
}

func (g *countingGetter) Get(_ context.Context, u string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.urls = append(g.urls, u)
	return g.body, g.err
}

func (g *countingGetter) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.urls)
}

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redisx.ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, val string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	m.ttls[key] = ttl
	return nil
}

// feed wraps a gviz JSON document the way the published feed does.
func feed(rows ...string) []byte {
	return []byte(fmt.Sprintf("%s{\"version\":\"0.6\",\"status\":\"ok\",\"table\":{\"cols\":[],\"rows\":[%s]}}%s",
		feedPrefix, strings.Join(rows, ","), feedSuffix))
}

// feedRow builds a gviz row with the given leading cells, remaining
// columns absent.
func feedRow(code any, city, state string) string {
	codeJSON := fmt.Sprintf("%v", code)
	if s, ok := code.(string); ok {
		codeJSON = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`{"c":[{"v":%s},{"v":"Branch"},null,null,{"v":"South"},{"v":"Pat"},{"v":"1 Main St"},null,{"v":%q},{"v":%q},{"v":78701}]}`,
		codeJSON, city, state)
}
