package sqldb

import (
	"database/sql"

	"github.com/engelsystem/engelsystem/core"
)

// SessionDB stores session keys. The scs cookie sessions live in the "sessions" table, see packages mysql and sqlite3.
type SessionDB struct {
	*sql.DB
	delete *sql.Stmt
	get    *sql.Stmt
	getOf  *sql.Stmt
	insert *sql.Stmt
}

func NewSessionDB(db *sql.DB, d Dialect) *SessionDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS api_session (
			id BIGINT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES usr(id),
			time BIGINT NOT NULL
		)`)

	var sessionDB = &SessionDB{}
	sessionDB.DB = db
	sessionDB.delete = mustPrepare(db, "DELETE FROM api_session WHERE id = ?")
	sessionDB.get = mustPrepare(db, "SELECT id, user_id, time FROM api_session WHERE id = ?")
	sessionDB.getOf = mustPrepare(db, "SELECT id, user_id, time FROM api_session WHERE user_id = ? ORDER BY time DESC")
	sessionDB.insert = mustPrepare(db, "INSERT INTO api_session (id, user_id, time) VALUES (?, ?, ?)")
	return sessionDB
}

func scanSession(row scanner) (*core.Session, error) {
	var s = &core.Session{}
	var ts int64
	if err := row.Scan(&s.ID, &s.UserID, &ts); err != nil {
		return nil, notFound(err)
	}
	s.Time = unix(ts)
	return s, nil
}

func (db *SessionDB) GetSession(id int64) (*core.Session, error) {
	return scanSession(db.get.QueryRow(id))
}

func (db *SessionDB) GetSessionsOf(u *core.User) ([]*core.Session, error) {

	rows, err := db.getOf.Query(u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions = []*core.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (db *SessionDB) InsertSession(s *core.Session) error {
	_, err := db.insert.Exec(s.ID, s.UserID, s.Time.Unix())
	return err
}

func (db *SessionDB) DeleteSession(id int64) error {
	_, err := db.delete.Exec(id)
	return err
}
