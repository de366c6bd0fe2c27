package sqldb

import (
	"database/sql"
	"errors"

	"github.com/engelsystem/engelsystem/core"
)

const userColumns = "id, username, realname, password, hometown, arrived, active, tshirt, locale"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*core.User, error) {
	var u = &core.User{}
	var realname, hometown sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &realname, &u.Password, &hometown, &u.Arrived, &u.Active, &u.TShirt, &u.Locale); err != nil {
		return nil, notFound(err)
	}
	u.RealName = realname.String
	u.Hometown = hometown.String
	return u, nil
}

type UserDB struct {
	*sql.DB
	count       *sql.Stmt
	get         *sql.Stmt
	getAll      *sql.Stmt
	getByName   *sql.Stmt
	insert      *sql.Stmt
	setPassword *sql.Stmt
}

func NewUserDB(db *sql.DB, d Dialect) *UserDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS usr (
			id `+d.ID+`,
			username varchar(32) NOT NULL,
			realname varchar(64),
			password varchar(128) NOT NULL,
			hometown varchar(64),
			arrived BOOLEAN NOT NULL,
			active BOOLEAN NOT NULL,
			tshirt BOOLEAN NOT NULL,
			locale varchar(2) NOT NULL,
			UNIQUE(username)
		)`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.count = mustPrepare(db, "SELECT COUNT(*) FROM usr")
	userDB.get = mustPrepare(db, "SELECT "+userColumns+" FROM usr WHERE id = ?")
	userDB.getAll = mustPrepare(db, "SELECT "+userColumns+" FROM usr ORDER BY username LIMIT ? OFFSET ?")
	userDB.getByName = mustPrepare(db, "SELECT "+userColumns+" FROM usr WHERE username = ?")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (username, realname, password, hometown, arrived, active, tshirt, locale) VALUES (?, ?, ?, ?, ?, ?, ?, ?)") // empty password field is safe because no bcrypt hash equals it
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET password = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) CountUsers() (int, error) {
	var n int
	if err := db.count.QueryRow().Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (db *UserDB) GetUser(id int) (*core.User, error) {
	return scanUser(db.get.QueryRow(id))
}

func (db *UserDB) GetUserByName(username string) (*core.User, error) {
	return scanUser(db.getByName.QueryRow(username))
}

func (db *UserDB) GetAllUsers(limit, offset int) ([]*core.User, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, u)
	}
	return all, rows.Err()
}

func (db *UserDB) InsertUser(u *core.User) error {
	var err error
	u.ID, err = insertID(db.insert.Exec(u.Username, nullString(u.RealName), u.Password, nullString(u.Hometown), u.Arrived, u.Active, u.TShirt, u.Locale))
	return err
}

func (db *UserDB) SetPassword(u *core.User, hash string) error {
	if u.ID == 0 {
		return errors.New("can't set password of user 0")
	}
	_, err := db.setPassword.Exec(hash, u.ID)
	return err
}
