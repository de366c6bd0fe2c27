package sqldb

import (
	"database/sql"

	"github.com/engelsystem/engelsystem/core"
)

type EntryDB struct {
	*sql.DB
	getOf     *sql.Stmt
	getOfUser *sql.Stmt
	insert    *sql.Stmt
}

func NewEntryDB(db *sql.DB, d Dialect) *EntryDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS shift_entry (
			id `+d.ID+`,
			task_allocation_id INTEGER NOT NULL REFERENCES task_allocation(id),
			user_id INTEGER NOT NULL REFERENCES usr(id),
			freeloaded BOOLEAN NOT NULL
		)`)

	var entryDB = &EntryDB{}
	entryDB.DB = db
	entryDB.getOf = mustPrepare(db, "SELECT id, task_allocation_id, user_id, freeloaded FROM shift_entry WHERE task_allocation_id = ? ORDER BY id")
	entryDB.getOfUser = mustPrepare(db, "SELECT id, task_allocation_id, user_id, freeloaded FROM shift_entry WHERE user_id = ? ORDER BY id")
	entryDB.insert = mustPrepare(db, "INSERT INTO shift_entry (task_allocation_id, user_id, freeloaded) VALUES (?, ?, ?)")
	return entryDB
}

func getEntries(stmt *sql.Stmt, arg int) ([]*core.ShiftEntry, error) {

	rows, err := stmt.Query(arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries = []*core.ShiftEntry{}
	for rows.Next() {
		var e = &core.ShiftEntry{}
		if err := rows.Scan(&e.ID, &e.TaskAllocationID, &e.UserID, &e.Freeloaded); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (db *EntryDB) GetEntriesOf(a *core.TaskAllocation) ([]*core.ShiftEntry, error) {
	return getEntries(db.getOf, a.ID)
}

func (db *EntryDB) GetEntriesOfUser(u *core.User) ([]*core.ShiftEntry, error) {
	return getEntries(db.getOfUser, u.ID)
}

func (db *EntryDB) InsertEntry(e *core.ShiftEntry) error {
	var err error
	e.ID, err = insertID(db.insert.Exec(e.TaskAllocationID, e.UserID, e.Freeloaded))
	return err
}
