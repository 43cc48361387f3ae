// Package store persists candidate records in a single relational table.
//
// A Store owns one long-lived *sql.DB limited to a single open connection.
// Every mutating method is one auto-committed statement.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nonsonwune/hirehub/filter"
	"github.com/nonsonwune/hirehub/logger"
	"github.com/nonsonwune/hirehub/models"
)

var (
	ErrColumnNotMutable = errors.New("column cannot be updated")
	ErrInvalidTable     = errors.New("invalid table name")
)

// DefaultTable is the table used when HIREHUB_TABLE is unset.
const DefaultTable = "hirehubdata_cleaned"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Store is the record store handle passed to every operation.
type Store struct {
	db      *sql.DB
	table   string
	dialect Dialect
}

// Open connects with driver and dsn and verifies the connection.
func Open(ctx context.Context, driver, dsn, table string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := New(db, driver, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Log.Debug("database connection established", "driver", driver, "table", s.table)
	return s, nil
}

// New wraps an already open handle.
func New(db *sql.DB, driver, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, table: table, dialect: d}, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the handle for schema checks and bulk import.
func (s *Store) DB() *sql.DB { return s.db }

// Table is the validated table identifier.
func (s *Store) Table() string { return s.table }

// Placeholder returns the dialect's bind marker for argument n.
func (s *Store) Placeholder(n int) string { return s.dialect.Placeholder(n) }

func (s *Store) selectColumns() string {
	return fmt.Sprintf("SELECT %s FROM %s", models.JoinColumns(models.StoreColumns), s.table)
}

func (s *Store) like(col models.Column, n int) string {
	return fmt.Sprintf("%s LIKE %s ESCAPE '\\'", col, s.Placeholder(n))
}

// FetchAll returns every record in the store's natural order.
func (s *Store) FetchAll(ctx context.Context) (models.ResultSet, error) {
	rs, err := s.query(ctx, s.selectColumns())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	return rs, nil
}

// FetchFiltered returns the records matching spec. An empty spec behaves
// like FetchAll.
func (s *Store) FetchFiltered(ctx context.Context, spec filter.Spec) (models.ResultSet, error) {
	q := s.selectColumns()
	where, args := filter.Build(spec).SQL(s.Placeholder, 1)
	if where != "" {
		q += " WHERE " + where
	}
	rs, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter candidates: %w", err)
	}
	return rs, nil
}

// FindByName returns the records whose name contains pattern.
func (s *Store) FindByName(ctx context.Context, pattern string) (models.ResultSet, error) {
	q := s.selectColumns() + " WHERE " + s.like(models.ColumnName, 1)
	rs, err := s.query(ctx, q, filter.LikePattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates by name: %w", err)
	}
	return rs, nil
}

// QuickSearch returns the records whose name, skills or college contains term.
func (s *Store) QuickSearch(ctx context.Context, term string) (models.ResultSet, error) {
	q := fmt.Sprintf("%s WHERE %s OR %s OR %s", s.selectColumns(),
		s.like(models.ColumnName, 1),
		s.like(models.ColumnSkills, 2),
		s.like(models.ColumnCollege, 3))
	p := filter.LikePattern(term)
	rs, err := s.query(ctx, q, p, p, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}
	return rs, nil
}

// Insert appends c. Empty values are stored as given.
func (s *Store) Insert(ctx context.Context, c models.Candidate) error {
	q := s.insertSQL()
	if _, err := s.db.ExecContext(ctx, q, c.Args()...); err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	logger.Log.Debug("candidate inserted", "name", c.Get(models.ColumnName))
	return nil
}

func (s *Store) insertSQL() string {
	marks := make([]string, len(models.StoreColumns))
	for i := range marks {
		marks[i] = s.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table, models.JoinColumns(models.StoreColumns), strings.Join(marks, ", "))
}

// Update sets column to value on every record whose name contains
// namePattern and returns the number of rows changed.
func (s *Store) Update(ctx context.Context, column models.Column, value, namePattern string) (int64, error) {
	if !column.Mutable() {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotMutable, column)
	}
	q := fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s", s.table, column, s.Placeholder(1), s.like(models.ColumnName, 2))
	res, err := s.db.ExecContext(ctx, q, value, filter.LikePattern(namePattern))
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	logger.Log.Debug("candidates updated", "column", string(column), "pattern", namePattern, "rows", n)
	return n, nil
}

// Delete removes every record whose name contains namePattern and returns
// the number of rows removed.
func (s *Store) Delete(ctx context.Context, namePattern string) (int64, error) {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s", s.table, s.like(models.ColumnName, 1))
	res, err := s.db.ExecContext(ctx, q, filter.LikePattern(namePattern))
	if err != nil {
		return 0, fmt.Errorf("failed to delete candidates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	logger.Log.Debug("candidates deleted", "pattern", namePattern, "rows", n)
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) (models.ResultSet, error) {
	logger.Log.Debug("query", "sql", q, "args", len(args))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rs models.ResultSet
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(c.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		rs = append(rs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
