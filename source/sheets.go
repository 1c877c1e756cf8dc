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

// The gviz feed wraps its JSON in a JSONP-style callback.
const (
	feedPrefix = "/*O_o*/\ngoogle.visualization.Query.setResponse("
	feedSuffix = ");"
)

// Sheets reads the published spreadsheet feed. It never filters
// server-side; the whole sheet comes back on every fetch.
type Sheets struct {
	SheetID string
	BaseURL string
	get     Getter
	log     *zap.Logger
}

func NewSheets(sheetID string, get Getter, log *zap.Logger) *Sheets {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sheets{SheetID: sheetID, BaseURL: "https://docs.google.com", get: get, log: log}
}

func (s *Sheets) Name() string { return "sheets" }

func (s *Sheets) FiltersServerSide() bool { return false }

func (s *Sheets) RecordURL() string {
	return fmt.Sprintf("%s/spreadsheets/d/%s", s.BaseURL, url.PathEscape(s.SheetID))
}

func (s *Sheets) FeedURL() string {
	return s.RecordURL() + "/gviz/tq?tqx=out:json"
}

func (s *Sheets) FetchRows(ctx context.Context, _ string) ([]branch.RawRow, error) {
	body, err := s.get.Get(ctx, s.FeedURL())
	if err != nil {
		return nil, fail(s.log, s.Name(), NetworkFailure, err)
	}
	rows, err := ParseFeed(body)
	if err != nil {
		return nil, fail(s.log, s.Name(), ParseFailure, err)
	}
	return rows, nil
}

// ParseFeed strips the callback wrapper and returns each row's cells.
func ParseFeed(body []byte) ([]branch.RawRow, error) {
	text := strings.TrimRight(string(body), " \t\r\n")
	if !strings.HasPrefix(text, feedPrefix) || !strings.HasSuffix(text, feedSuffix) ||
		len(text) < len(feedPrefix)+len(feedSuffix) {
		return nil, errors.New("feed wrapper not found")
	}
	text = text[len(feedPrefix) : len(text)-len(feedSuffix)]

	var root struct {
		Status string `json:"status"`
		Errors []struct {
			Message  string `json:"message"`
			Detailed string `json:"detailed_message"`
		} `json:"errors"`
		Table *struct {
			Rows []struct {
				C branch.Cells `json:"c"`
			} `json:"rows"`
		} `json:"table"`
	}
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}
	if root.Table == nil {
		if root.Status == "error" && len(root.Errors) > 0 {
			return nil, fmt.Errorf("feed error: %s", root.Errors[0].Message)
		}
		return nil, errors.New("feed has no table")
	}
	out := make([]branch.RawRow, 0, len(root.Table.Rows))
	for _, r := range root.Table.Rows {
		out = append(out, r.C)
	}
	return out, nil
}
