package core

import (
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"
)

var (
	ErrNoSuchPermission = errors.New("no such permission")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
)

type CoreDB struct {
	EntryDB
	PermissionDB
	RoleDB
	RoomDB
	SessionDB
	ShiftDB
	TaskDB
	UserDB
	SessionManager *scs.SessionManager
	Log            *zap.Logger

	KeyLifetime time.Duration    // zero means that session keys don't expire
	Now         func() time.Time // for tests, defaults to time.Now
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) {

	if c.Log == nil {
		c.Log = zap.NewNop()
	}

	c.SessionManager = scs.New()
	if sessionStore != nil {
		c.SessionManager.Store = sessionStore // else scs uses its memstore
	}
	c.SessionManager.Cookie.Name = "engelsystem"
	c.SessionManager.Cookie.Path = cookiePath + "/"
	c.SessionManager.Cookie.Persist = false                 // no cookie across browser sessions
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // GET requests don't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour
}

func (c *CoreDB) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
