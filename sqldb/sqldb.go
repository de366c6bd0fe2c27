// Package sqldb implements the stores of package core with database/sql.
//
// Every store creates its tables on construction. Statements are prepared once and panic on failure, because that is a programming error.
package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/engelsystem/engelsystem/core"
)

// A Dialect contains the few differences between the supported databases.
type Dialect struct {
	Name string
	ID   string // auto-incrementing primary key column
}

var (
	MySQL   = Dialect{Name: "mysql", ID: "INTEGER PRIMARY KEY AUTO_INCREMENT"}
	SQLite3 = Dialect{Name: "sqlite3", ID: "INTEGER PRIMARY KEY"}
)

func DialectOf(driver string) (Dialect, error) {
	switch driver {
	case MySQL.Name:
		return MySQL, nil
	case SQLite3.Name:
		return SQLite3, nil
	default:
		return Dialect{}, fmt.Errorf("unknown database backend: %s", driver)
	}
}

// Fill creates all stores and assigns them to the CoreDB. The order matters because of foreign keys.
func Fill(c *core.CoreDB, db *sql.DB, d Dialect) {
	c.UserDB = NewUserDB(db, d)
	c.RoleDB = NewRoleDB(db, d)
	c.PermissionDB = NewPermissionDB(db, d)
	c.SessionDB = NewSessionDB(db, d)
	c.RoomDB = NewRoomDB(db, d)
	c.ShiftDB = NewShiftDB(db, d)
	c.TaskDB = NewTaskDB(db, d)
	c.EntryDB = NewEntryDB(db, d)
}

func mustExec(db *sql.DB, query string) {
	if _, err := db.Exec(query); err != nil {
		panic(fmt.Errorf("%w: %s", err, query))
	}
}

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(fmt.Errorf("%w: %s", err, query))
	}
	return stmt
}

// notFound translates sql.ErrNoRows.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

func insertID(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullID maps 0 to NULL.
func nullID(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}

func unix(ts int64) time.Time {
	return time.Unix(ts, 0)
}
