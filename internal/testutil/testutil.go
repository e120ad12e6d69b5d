package testutil

import (
	"database/sql"
	"testing"
	"time"

	"tiffinOrderManagement/internal/auth"
	"tiffinOrderManagement/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies
// migrations. The DB is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so multiple connections see the same database.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// AdminToken returns a signed admin JWT for request tests.
func AdminToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.IssueAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}
	return token
}
