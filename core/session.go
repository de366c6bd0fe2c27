package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/engelsystem/engelsystem/auth"
	"go.uber.org/zap"
)

// A Session grants access to a user via a key in the URL. It is unrelated to the cookie session of SessionManager.
type Session struct {
	ID     int64
	UserID int
	Time   time.Time // creation
}

// Key returns the session key, as used in the "key" query parameter.
func (s *Session) Key() string {
	return auth.FormatKey(s.ID)
}

type SessionDB interface {
	GetSession(id int64) (*Session, error)
	GetSessionsOf(u *User) ([]*Session, error)
	InsertSession(s *Session) error
	DeleteSession(id int64) error
}

// NewSession creates a session for the given user.
func (c *CoreDB) NewSession(u *User) (*Session, error) {
	id, err := auth.NewKeyID()
	if err != nil {
		return nil, err
	}
	var s = &Session{
		ID:     id,
		UserID: u.ID,
		Time:   c.now().Truncate(time.Second),
	}
	if err := c.InsertSession(s); err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

// GetUserByKey returns the user of the session with the given key.
// Expired sessions are deleted and reported as ErrNotFound.
func (c *CoreDB) GetUserByKey(key string) (*User, error) {

	id, err := auth.ParseKey(key)
	if err != nil {
		return nil, err
	}

	s, err := c.GetSession(id)
	if err != nil {
		return nil, err
	}

	if c.KeyLifetime > 0 && c.now().Sub(s.Time) > c.KeyLifetime {
		if err := c.DeleteSession(s.ID); err != nil {
			c.Log.Warn("deleting expired session", zap.Int64("session", s.ID), zap.Error(err))
		}
		return nil, fmt.Errorf("session expired: %w", ErrNotFound)
	}

	u, err := c.GetUser(s.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("user of session: %w", err)
	}
	return u, err
}
