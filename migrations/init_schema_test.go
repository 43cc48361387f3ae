package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T, ddl string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if ddl != "" {
		_, err = db.Exec(ddl)
		require.NoError(t, err)
	}
	return db
}

func TestVerifySchema(t *testing.T) {
	db := openDB(t, `CREATE TABLE candidates (
		id INTEGER PRIMARY KEY, name TEXT, skills TEXT, college TEXT,
		degree TEXT, field TEXT, company TEXT, position TEXT
	)`)
	assert.NoError(t, VerifySchema(context.Background(), db, "candidates"))
}

func TestVerifySchemaMissingTable(t *testing.T) {
	db := openDB(t, "")
	err := VerifySchema(context.Background(), db, "candidates")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required table candidates")
}

func TestVerifySchemaMissingColumn(t *testing.T) {
	db := openDB(t, `CREATE TABLE candidates (name TEXT, skills TEXT, college TEXT, degree TEXT, field TEXT, company TEXT)`)
	err := VerifySchema(context.Background(), db, "candidates")
	assert.Error(t, err)
}
