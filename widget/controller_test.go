package widget

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/branch-search/branch"
	"github.com/yourorg/branch-search/source"
	"github.com/yourorg/branch-search/view"
)

const gvizPrefix = "/*O_o*/\ngoogle.visualization.Query.setResponse("

func gviz(rows ...string) string {
	return gvizPrefix + `{"status":"ok","table":{"rows":[` + strings.Join(rows, ",") + `]}}` + ");"
}

// gvizRow fills code, city, state, phone and manager email.
func gvizRow(code int, city, state, email string) string {
	cells := make([]string, len(branch.SheetColumns))
	for i := range cells {
		cells[i] = "null"
	}
	cells[0] = fmt.Sprintf(`{"v":%d}`, code)
	cells[5] = `{"v":"Pat Lee"}`
	cells[6] = `{"v":"100 Main St"}`
	cells[8] = fmt.Sprintf(`{"v":%q}`, city)
	cells[9] = fmt.Sprintf(`{"v":%q}`, state)
	cells[11] = `{"v":"512-555-0100"}`
	if email != "" {
		cells[14] = fmt.Sprintf(`{"v":%q}`, email)
	}
	return `{"c":[` + strings.Join(cells, ",") + `]}`
}

func sheetsServer(t *testing.T, body string) (*source.Sheets, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	s := source.NewSheets("sheet", source.NewClient(source.ClientOptions{Retries: -1}), nil)
	s.BaseURL = srv.URL
	return s, &hits
}

func TestInitRendersUnfilteredList(t *testing.T) {
	src, _ := sheetsServer(t, gviz(gvizRow(4010, "Austin", "TX", ""), gvizRow(75, "Dallas", "TX", "")))
	buf := &Buffer{}
	c := New(src, buf, nil)

	require.NoError(t, c.Init(context.Background()))
	assert.True(t, buf.Mounted())
	content, _ := buf.Snapshot()
	assert.Equal(t, []string{"4010", "75"}, view.CardCodes(content))
	assert.Equal(t, RenderedList, c.State())
}

func TestScenarioSheetsQueryFiltersClientSide(t *testing.T) {
	src, _ := sheetsServer(t, gviz(
		gvizRow(4010, "Austin", "TX", ""),
		gvizRow(75, "Dallas", "TX", ""),
		gvizRow(120, "Tulsa", "OK", ""),
	))
	buf := &Buffer{}
	c := New(src, buf, nil)

	require.NoError(t, c.Input(context.Background(), "austin"))
	content, _ := buf.Snapshot()
	assert.Equal(t, []string{"4010"}, view.CardCodes(content))
}

func TestScenarioListServiceKeepsSubstringMatches(t *testing.T) {
	var filter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("$filter")
		_, _ = w.Write([]byte(`{"value":[
			{"Title":"7501","City":"Austin","State":"TX"},
			{"Title":"1175","City":"Waco","State":"TX"},
			{"Title":"300","Address1":"75 Elm","City":"Plano 75","State":"TX"}
		]}`))
	}))
	defer srv.Close()

	src := source.NewListService(srv.URL+"/_api/web/lists/getbytitle('Branches')/items",
		source.NewClient(source.ClientOptions{Retries: -1}), nil)
	buf := &Buffer{}
	c := New(src, buf, nil)

	require.NoError(t, c.Input(context.Background(), "75"))
	content, _ := buf.Snapshot()
	assert.Equal(t, []string{"7501", "1175", "300"}, view.CardCodes(content))
	assert.Contains(t, filter, "substringof('75',Title)")
}

func TestScenarioCardClickRefetchesDetail(t *testing.T) {
	src, hits := sheetsServer(t, gviz(
		gvizRow(4010, "Austin", "TX", "pat@example.com"),
		gvizRow(75, "Dallas", "TX", ""),
	))
	buf := &Buffer{}
	c := New(src, buf, nil)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	before := hits.Load()

	require.NoError(t, c.ClickCard(ctx, "4010"))
	assert.Equal(t, before+1, hits.Load(), "click fetches again")
	content, value := buf.Snapshot()
	assert.Equal(t, "4010", value)
	assert.Contains(t, content, `href="mailto:pat@example.com"`)
	assert.Contains(t, content, src.RecordURL())
	assert.Equal(t, RenderedDetail, c.State())

	// detail markup has no cards, so the old list cards are gone
	assert.ErrorIs(t, c.ClickCard(ctx, "75"), view.ErrNotBound)

	require.NoError(t, c.Input(ctx, "dallas"))
	require.NoError(t, c.ClickCard(ctx, "75"))
	content, value = buf.Snapshot()
	assert.Equal(t, "75", value)
	assert.NotContains(t, content, "mailto:")
}

// gatedAdapter blocks each query until its gate is released.
type gatedAdapter struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	fail  map[string]error
}

func newGated() *gatedAdapter {
	return &gatedAdapter{gates: map[string]chan struct{}{}, fail: map[string]error{}}
}

func (g *gatedAdapter) gate(q string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[q]
	if !ok {
		ch = make(chan struct{})
		g.gates[q] = ch
	}
	return ch
}

func (g *gatedAdapter) FetchRows(ctx context.Context, q string) ([]branch.RawRow, error) {
	<-g.gate(q)
	g.mu.Lock()
	err := g.fail[q]
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return []branch.RawRow{branch.Item{"Title": q, "City": q}}, nil
}

func (g *gatedAdapter) FiltersServerSide() bool { return true }
func (g *gatedAdapter) Name() string            { return "gated" }
func (g *gatedAdapter) RecordURL() string       { return "" }

func TestStaleResponseIsDiscarded(t *testing.T) {
	src := newGated()
	buf := &Buffer{}
	c := New(src, buf, nil)
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- c.Input(ctx, "1") }()
	waitLatest(t, c, 1)
	assert.Equal(t, Loading, c.State())

	fast := make(chan error, 1)
	go func() { fast <- c.Input(ctx, "2") }()
	waitLatest(t, c, 2)

	close(src.gate("2"))
	require.NoError(t, <-fast)
	close(src.gate("1"))
	assert.ErrorIs(t, <-slow, ErrSuperseded)

	content, _ := buf.Snapshot()
	assert.Equal(t, []string{"2"}, view.CardCodes(content))
	assert.Equal(t, RenderedList, c.State())
}

func TestFetchFailureShowsNoticeAndRecovers(t *testing.T) {
	src := newGated()
	close(src.gate("down"))
	close(src.gate("up"))
	src.fail["down"] = &source.FetchError{Kind: source.NetworkFailure, Backend: "gated", Err: errors.New("refused")}

	buf := &Buffer{}
	c := New(src, buf, nil)

	err := c.Input(context.Background(), "down")
	assert.True(t, source.IsKind(err, source.NetworkFailure))
	assert.Equal(t, Failed, c.State())
	content, _ := buf.Snapshot()
	assert.Contains(t, content, FailureNotice)

	require.NoError(t, c.Input(context.Background(), "up"))
	content, _ = buf.Snapshot()
	assert.Equal(t, []string{"up"}, view.CardCodes(content))
}

func TestEmptyResultIsNotFailure(t *testing.T) {
	src, _ := sheetsServer(t, gviz(gvizRow(4010, "Austin", "TX", "")))
	buf := &Buffer{}
	c := New(src, buf, nil)

	require.NoError(t, c.Input(context.Background(), "nowhere"))
	content, _ := buf.Snapshot()
	assert.Equal(t, "", content)
	assert.Equal(t, RenderedList, c.State())
}

func TestClickTextCodedCardRendersDetail(t *testing.T) {
	src := &staticAdapter{rows: []branch.RawRow{
		textCodeRow("AUS1", "Austin"),
		textCodeRow("75", "Dallas"),
	}}
	buf := &Buffer{}
	c := New(src, buf, nil)
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	content, _ := buf.Snapshot()
	require.Equal(t, []string{"AUS1", "75"}, view.CardCodes(content))

	require.NoError(t, c.ClickCard(ctx, "AUS1"))
	content, value := buf.Snapshot()
	assert.Equal(t, "AUS1", value)
	assert.Contains(t, content, "Austin")
	assert.NotContains(t, content, "Dallas")
	assert.Equal(t, RenderedDetail, c.State())
}
