package widget

import (
	"context"

	"github.com/yourorg/branch-search/branch"
	"github.com/yourorg/branch-search/source"
)

// Search runs fetch, normalize and, when the adapter left it to the client,
// the exact-match filter. Server-filtered results are returned untouched so
// the list service's substring matches survive.
func Search(ctx context.Context, src source.Adapter, query string) ([]branch.Record, error) {
	rows, err := src.FetchRows(ctx, query)
	if err != nil {
		return nil, err
	}
	records := branch.NormalizeAll(rows)
	if !src.FiltersServerSide() {
		records = branch.Filter(records, query)
	}
	return records, nil
}

// Lookup fetches one branch by code, bypassing any payload cache. Only
// exact code matches are returned: server-side substring filtering can send
// neighbours ("14010" for "4010"), and an unknown code yields no records.
// Client-filtered backends skip the search filter so text codes such as
// "AUS1" are still found.
func Lookup(ctx context.Context, src source.Adapter, code string) ([]branch.Record, error) {
	rows, err := src.FetchRows(source.WithFresh(ctx), code)
	if err != nil {
		return nil, err
	}
	return branch.ByCode(branch.NormalizeAll(rows), code), nil
}
