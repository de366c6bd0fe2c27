package sqldb

import (
	"database/sql"

	"github.com/engelsystem/engelsystem/core"
)

const roomColumns = "id, name, description, comment, visible, sort_order, source"

type RoomDB struct {
	*sql.DB
	get        *sql.Stmt
	getAll     *sql.Stmt
	getVisible *sql.Stmt
	insert     *sql.Stmt
}

func NewRoomDB(db *sql.DB, d Dialect) *RoomDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS room (
			id `+d.ID+`,
			name varchar(64) NOT NULL,
			description varchar(256),
			comment varchar(256),
			visible BOOLEAN NOT NULL,
			sort_order INTEGER,
			source varchar(256),
			UNIQUE(name)
		)`)

	var roomDB = &RoomDB{}
	roomDB.DB = db
	roomDB.get = mustPrepare(db, "SELECT "+roomColumns+" FROM room WHERE id = ?")
	roomDB.getAll = mustPrepare(db, "SELECT "+roomColumns+" FROM room ORDER BY sort_order IS NULL, sort_order, name")
	roomDB.getVisible = mustPrepare(db, "SELECT "+roomColumns+" FROM room WHERE visible ORDER BY sort_order IS NULL, sort_order, name")
	roomDB.insert = mustPrepare(db, "INSERT INTO room (name, description, comment, visible, sort_order, source) VALUES (?, ?, ?, ?, ?, ?)")
	return roomDB
}

func scanRoom(row scanner) (*core.Room, error) {
	var r = &core.Room{}
	var description, comment, source sql.NullString
	var order sql.NullInt64
	if err := row.Scan(&r.ID, &r.Name, &description, &comment, &r.Visible, &order, &source); err != nil {
		return nil, notFound(err)
	}
	r.Description = description.String
	r.Comment = comment.String
	r.Source = source.String
	if order.Valid {
		var o = int(order.Int64)
		r.Order = &o
	}
	return r, nil
}

func getRooms(stmt *sql.Stmt) ([]*core.Room, error) {

	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms = []*core.Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (db *RoomDB) GetRoom(id int) (*core.Room, error) {
	return scanRoom(db.get.QueryRow(id))
}

func (db *RoomDB) GetAllRooms() ([]*core.Room, error) {
	return getRooms(db.getAll)
}

func (db *RoomDB) GetVisibleRooms() ([]*core.Room, error) {
	return getRooms(db.getVisible)
}

func (db *RoomDB) InsertRoom(r *core.Room) error {
	var order sql.NullInt64
	if r.Order != nil {
		order = sql.NullInt64{Int64: int64(*r.Order), Valid: true}
	}
	var err error
	r.ID, err = insertID(db.insert.Exec(r.Name, nullString(r.Description), nullString(r.Comment), r.Visible, order, nullString(r.Source)))
	return err
}
