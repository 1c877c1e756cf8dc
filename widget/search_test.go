package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/branch-search/branch"
)

type staticAdapter struct {
	rows       []branch.RawRow
	serverSide bool
	queries    []string
}

func (s *staticAdapter) FetchRows(ctx context.Context, q string) ([]branch.RawRow, error) {
	s.queries = append(s.queries, q)
	return s.rows, nil
}
func (s *staticAdapter) FiltersServerSide() bool { return s.serverSide }
func (s *staticAdapter) Name() string            { return "static" }
func (s *staticAdapter) RecordURL() string       { return "" }

func TestSearchSkipsClientFilterForServerFilteredAdapters(t *testing.T) {
	rows := []branch.RawRow{branch.Item{"Title": "7501", "City": "Austin"}}

	server := &staticAdapter{rows: rows, serverSide: true}
	got, err := Search(context.Background(), server, "75")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	client := &staticAdapter{rows: rows}
	got, err = Search(context.Background(), client, "75")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupPrefersExactCode(t *testing.T) {
	src := &staticAdapter{serverSide: true, rows: []branch.RawRow{
		branch.Item{"Title": "14010"},
		branch.Item{"Title": "4010"},
	}}
	got, err := Lookup(context.Background(), src, "4010")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4010", got[0].Code())
	assert.Equal(t, []string{"4010"}, src.queries)
}

func TestLookupUnknownCodeReturnsNothing(t *testing.T) {
	// a substring filter for "999" hands back "19990"
	src := &staticAdapter{serverSide: true, rows: []branch.RawRow{
		branch.Item{"Title": "19990", "City": "Reno"},
	}}
	got, err := Lookup(context.Background(), src, "999")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLookupFindsTextCodeOnClientFilteredBackend(t *testing.T) {
	src := &staticAdapter{rows: []branch.RawRow{
		textCodeRow("AUS1", "Austin"),
		textCodeRow("75", "Dallas"),
	}}
	got, err := Lookup(context.Background(), src, "AUS1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Austin", got[0].City)
}

func textCodeRow(code, city string) branch.Cells {
	cells := make(branch.Cells, len(branch.SheetColumns))
	cells[0] = &branch.Cell{V: code}
	cells[8] = &branch.Cell{V: city}
	cells[9] = &branch.Cell{V: "TX"}
	return cells
}
