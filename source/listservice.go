package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yourorg/branch-search/branch"
	"go.uber.org/zap"
)

// ListService reads the branch list through its REST items endpoint and
// lets the service do the filtering.
type ListService struct {
	Endpoint string
	get      Getter
	log      *zap.Logger
}

func NewListService(endpoint string, get Getter, log *zap.Logger) *ListService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ListService{Endpoint: endpoint, get: get, log: log}
}

func (l *ListService) Name() string { return "list" }

func (l *ListService) FiltersServerSide() bool { return true }

// RecordURL is the site hosting the list.
func (l *ListService) RecordURL() string {
	if i := strings.Index(l.Endpoint, "/_api/"); i >= 0 {
		return l.Endpoint[:i]
	}
	return ""
}

// QueryURL selects the fixed field set and, for a non-empty query, adds a
// case-sensitive substring filter over code, city and state.
func (l *ListService) QueryURL(query string) string {
	q := url.Values{}
	q.Set("$select", strings.Join(branch.ListSelect, ","))
	q.Set("$expand", branch.ListExpand)
	if query = strings.TrimSpace(query); query != "" {
		q.Set("$filter", SubstringFilter(query))
	}
	sep := "?"
	if strings.Contains(l.Endpoint, "?") {
		sep = "&"
	}
	return l.Endpoint + sep + q.Encode()
}

// SubstringFilter builds the OData clause for query.
func SubstringFilter(query string) string {
	lit := "'" + strings.ReplaceAll(query, "'", "''") + "'"
	fields := []string{branch.ListFieldCode, branch.ListFieldCity, branch.ListFieldState}
	clauses := make([]string, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, fmt.Sprintf("substringof(%s,%s)", lit, f))
	}
	return strings.Join(clauses, " or ")
}

func (l *ListService) FetchRows(ctx context.Context, query string) ([]branch.RawRow, error) {
	body, err := l.get.Get(ctx, l.QueryURL(query))
	if err != nil {
		return nil, fail(l.log, l.Name(), NetworkFailure, err)
	}
	rows, err := ParseItems(body)
	if err != nil {
		return nil, fail(l.log, l.Name(), ParseFailure, err)
	}
	return rows, nil
}

// ParseItems decodes a {"value": [...]} response.
func ParseItems(body []byte) ([]branch.RawRow, error) {
	var root struct {
		Value *[]branch.Item `json:"value"`
	}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, err
	}
	if root.Value == nil {
		return nil, errors.New(`response has no "value" array`)
	}
	out := make([]branch.RawRow, 0, len(*root.Value))
	for _, it := range *root.Value {
		out = append(out, it)
	}
	return out, nil
}
