package auth

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
)

var ErrMalformedKey = errors.New("malformed session key")

// NewKeyID returns a random positive int64, suitable as session id.
func NewKeyID() (int64, error) {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return 0, err
		}
		id := int64(binary.BigEndian.Uint64(b[:]) >> 1) // clear sign bit
		if id != 0 {
			return id, nil
		}
	}
}

// FormatKey returns the session key for a session id.
func FormatKey(id int64) string {
	return strconv.FormatInt(id, 16)
}

// ParseKey parses a session key into a session id.
func ParseKey(key string) (int64, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "-") || strings.HasPrefix(key, "+") {
		return 0, ErrMalformedKey
	}
	id, err := strconv.ParseInt(key, 16, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformedKey
	}
	return id, nil
}
