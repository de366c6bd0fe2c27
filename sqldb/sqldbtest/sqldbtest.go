// Package sqldbtest provides a CoreDB on an in-memory SQLite database for tests.
package sqldbtest

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap/zaptest"

	"github.com/engelsystem/engelsystem/core"
	"github.com/engelsystem/engelsystem/sqldb"
)

// Open returns a CoreDB backed by a fresh in-memory database with the given name.
// Cookie sessions are kept in memory.
func Open(t *testing.T, name string) *core.CoreDB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("ping test db: %v", err)
	}

	var c = &core.CoreDB{
		Log: zaptest.NewLogger(t),
	}
	c.Init(nil, "")
	sqldb.Fill(c, db, sqldb.SQLite3)
	return c
}

// MustUser inserts a user with the given password, which may be empty.
func MustUser(t *testing.T, c *core.CoreDB, username, password string) *core.User {
	t.Helper()
	u, err := c.InsertUser(username)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if password != "" {
		if err := c.SetPassword(u, password); err != nil {
			t.Fatalf("set password: %v", err)
		}
	}
	return u
}

// MustGrant creates the role and permission if necessary, grants the permission to the role and adds the users to it.
func MustGrant(t *testing.T, c *core.CoreDB, roleName, permissionName string, members ...*core.User) {
	t.Helper()

	role, err := c.GetRoleByName(roleName)
	if err != nil {
		if role, err = c.InsertRole(roleName); err != nil {
			t.Fatalf("insert role: %v", err)
		}
	}

	perm, err := c.GetPermissionByName(permissionName)
	if err != nil {
		if perm, err = c.InsertPermission(permissionName, ""); err != nil {
			t.Fatalf("insert permission: %v", err)
		}
	}

	if err := c.Grant(role, perm); err != nil {
		t.Fatalf("grant: %v", err)
	}

	for _, u := range members {
		if err := c.Join(role, u); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
}
