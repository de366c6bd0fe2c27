package mysql

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sessions").WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewSessionStore(db, 0)
	require.NoError(t, err)
	assert.NotNil(t, store)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS sessions").WillReturnError(errors.New("access denied"))
	_, err = NewSessionStore(db, 0)
	assert.EqualError(t, err, "access denied")

	assert.NoError(t, mock.ExpectationsWereMet())
}
