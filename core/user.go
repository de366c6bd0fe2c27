package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/engelsystem/engelsystem/auth"
)

// A User is an angel. Password holds a bcrypt hash and is never serialized.
type User struct {
	ID       int
	Username string
	RealName string
	Password string
	Hometown string
	Arrived  bool
	Active   bool
	TShirt   bool
	Locale   string
}

func (u *User) String() string {
	return u.Username
}

type UserDB interface {
	CountUsers() (int, error)
	GetUser(id int) (*User, error)
	GetUserByName(username string) (*User, error)
	GetAllUsers(limit, offset int) ([]*User, error)
	InsertUser(u *User) error // sets u.ID
	SetPassword(u *User, hash string) error
}

var (
	ErrEmptyUsername   = errors.New("username can't be empty")
	ErrUsernameTooLong = errors.New("username too long")
)

// CheckUsername returns an error if the username can't be stored. Usernames are stored as given.
func CheckUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if len(username) > 32 {
		return ErrUsernameTooLong
	}
	return nil
}

// InsertUser shadows UserDB.InsertUser. It creates a user with default settings and no password.
func (c *CoreDB) InsertUser(username string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := CheckUsername(username); err != nil {
		return nil, err
	}
	var u = &User{
		Username: username,
		Locale:   "en",
	}
	if err := c.UserDB.InsertUser(u); err != nil {
		return nil, fmt.Errorf("inserting user %s: %w", username, err)
	}
	return u, nil
}

// SetPassword shadows UserDB.SetPassword. It takes a plaintext password and stores its hash.
func (c *CoreDB) SetPassword(u *User, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := c.UserDB.SetPassword(u, hash); err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// LoginUser returns the user with the given name if the password matches.
// It returns auth.ErrAuth if the user does not exist or the password is wrong.
func (c *CoreDB) LoginUser(username, password string) (*User, error) {
	u, err := c.GetUserByName(username)
	if errors.Is(err, ErrNotFound) {
		return nil, auth.ErrAuth
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}
