package mysql

import (
	"database/sql"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
)

// NewSessionStore creates the table for cookie sessions and returns an scs store which removes expired sessions every cleanupInterval.
// The index is part of the table definition because MySQL has no CREATE INDEX IF NOT EXISTS.
func NewSessionStore(db *sql.DB, cleanupInterval time.Duration) (scs.Store, error) {

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token CHAR(43) PRIMARY KEY,
			data BLOB NOT NULL,
			expiry TIMESTAMP(6) NOT NULL,
			INDEX sessions_expiry_idx (expiry)
		)`); err != nil {
		return nil, err
	}

	return mysqlstore.NewWithCleanupInterval(db, cleanupInterval), nil
}
