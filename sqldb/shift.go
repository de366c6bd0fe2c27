package sqldb

import (
	"database/sql"

	"github.com/engelsystem/engelsystem/core"
)

const shiftColumns = "id, room_id, title, comment, url, begin_ts, end_ts"

type ShiftDB struct {
	*sql.DB
	get    *sql.Stmt
	getOf  *sql.Stmt
	insert *sql.Stmt
}

func NewShiftDB(db *sql.DB, d Dialect) *ShiftDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS shift (
			id `+d.ID+`,
			room_id INTEGER NOT NULL REFERENCES room(id),
			title varchar(64),
			comment varchar(256),
			url varchar(256),
			begin_ts BIGINT NOT NULL,
			end_ts BIGINT NOT NULL
		)`)

	var shiftDB = &ShiftDB{}
	shiftDB.DB = db
	shiftDB.get = mustPrepare(db, "SELECT "+shiftColumns+" FROM shift WHERE id = ?")
	shiftDB.getOf = mustPrepare(db, "SELECT "+shiftColumns+" FROM shift WHERE room_id = ? ORDER BY begin_ts, id")
	shiftDB.insert = mustPrepare(db, "INSERT INTO shift (room_id, title, comment, url, begin_ts, end_ts) VALUES (?, ?, ?, ?, ?, ?)")
	return shiftDB
}

func scanShift(row scanner) (*core.Shift, error) {
	var s = &core.Shift{}
	var title, comment, url sql.NullString
	var begin, end int64
	if err := row.Scan(&s.ID, &s.RoomID, &title, &comment, &url, &begin, &end); err != nil {
		return nil, notFound(err)
	}
	s.Title = title.String
	s.Comment = comment.String
	s.URL = url.String
	s.Begin = unix(begin)
	s.End = unix(end)
	return s, nil
}

func (db *ShiftDB) GetShift(id int) (*core.Shift, error) {
	return scanShift(db.get.QueryRow(id))
}

func (db *ShiftDB) GetShiftsOf(r *core.Room) ([]*core.Shift, error) {

	rows, err := db.getOf.Query(r.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts = []*core.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func (db *ShiftDB) InsertShift(s *core.Shift) error {
	var err error
	s.ID, err = insertID(db.insert.Exec(s.RoomID, nullString(s.Title), nullString(s.Comment), nullString(s.URL), s.Begin.Unix(), s.End.Unix()))
	return err
}
