package source

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/yourorg/branch-search/branch"
	"go.uber.org/zap"
)

// Database reads a branches table whose columns follow the spreadsheet
// layout, so each row normalizes exactly like a feed row.
type Database struct {
	DB    *sql.DB
	Table string
	log   *zap.Logger
}

func OpenDatabase(dsn string, log *zap.Logger) (*Database, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return NewDatabase(db, log), nil
}

func NewDatabase(db *sql.DB, log *zap.Logger) *Database {
	if log == nil {
		log = zap.NewNop()
	}
	return &Database{DB: db, Table: "branches", log: log}
}

func (d *Database) Name() string { return "database" }

func (d *Database) FiltersServerSide() bool { return false }

func (d *Database) RecordURL() string { return "" }

func (d *Database) Ping(ctx context.Context) error { return d.DB.PingContext(ctx) }

func (d *Database) Close() error { return d.DB.Close() }

func (d *Database) SelectSQL() (string, []any, error) {
	return sq.Select(branch.SheetColumns...).
		From(d.Table).
		OrderBy("location_code").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func (d *Database) FetchRows(ctx context.Context, _ string) ([]branch.RawRow, error) {
	query, args, err := d.SelectSQL()
	if err != nil {
		return nil, fail(d.log, d.Name(), ParseFailure, err)
	}
	rows, err := d.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail(d.log, d.Name(), NetworkFailure, err)
	}
	defer rows.Close()

	out := []branch.RawRow{}
	for rows.Next() {
		vals := make([]any, len(branch.SheetColumns))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fail(d.log, d.Name(), ParseFailure, err)
		}
		out = append(out, toCells(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fail(d.log, d.Name(), NetworkFailure, err)
	}
	return out, nil
}

func toCells(vals []any) branch.Cells {
	cells := make(branch.Cells, len(vals))
	for i, v := range vals {
		if v != nil {
			cells[i] = &branch.Cell{V: v}
		}
	}
	return cells
}
