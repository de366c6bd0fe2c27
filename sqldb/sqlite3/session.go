package sqlite3

import (
	"database/sql"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// NewSessionStore creates the table for cookie sessions and returns an scs store which removes expired sessions every cleanupInterval.
func NewSessionStore(db *sql.DB, cleanupInterval time.Duration) (scs.Store, error) {

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		)`); err != nil {
		return nil, err
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry)`); err != nil {
		return nil, err
	}

	return sqlite3store.NewWithCleanupInterval(db, cleanupInterval), nil
}
