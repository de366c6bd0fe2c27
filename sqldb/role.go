package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/engelsystem/engelsystem/core"
)

type RoleDB struct {
	*sql.DB
	get       *sql.Stmt
	getAll    *sql.Stmt
	getByName *sql.Stmt
	getOf     *sql.Stmt
	insert    *sql.Stmt
	join      *sql.Stmt
	leave     *sql.Stmt
}

func NewRoleDB(db *sql.DB, d Dialect) *RoleDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS role (
			id `+d.ID+`,
			name varchar(32) NOT NULL,
			UNIQUE(name)
		)`)
	mustExec(db, `
		CREATE TABLE IF NOT EXISTS user_roles (
			user_id INTEGER NOT NULL REFERENCES usr(id),
			role_id INTEGER NOT NULL REFERENCES role(id),
			PRIMARY KEY (user_id, role_id)
		)`)

	var roleDB = &RoleDB{}
	roleDB.DB = db
	roleDB.get = mustPrepare(db, "SELECT id, name FROM role WHERE id = ?")
	roleDB.getAll = mustPrepare(db, "SELECT id, name FROM role ORDER BY name")
	roleDB.getByName = mustPrepare(db, "SELECT id, name FROM role WHERE name = ?")
	roleDB.getOf = mustPrepare(db, "SELECT role.id, role.name FROM role, user_roles WHERE role.id = user_roles.role_id AND user_roles.user_id = ? ORDER BY role.name")
	roleDB.insert = mustPrepare(db, "INSERT INTO role (name) VALUES (?)")
	roleDB.join = mustPrepare(db, "INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)")
	roleDB.leave = mustPrepare(db, "DELETE FROM user_roles WHERE user_id = ? AND role_id = ?")
	return roleDB
}

func getRoles(stmt *sql.Stmt, args ...interface{}) ([]*core.Role, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles = []*core.Role{}
	for rows.Next() {
		var r = &core.Role{}
		if err = rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (db *RoleDB) GetRole(id int) (*core.Role, error) {
	var r = &core.Role{}
	return r, notFound(db.get.QueryRow(id).Scan(&r.ID, &r.Name))
}

func (db *RoleDB) GetRoleByName(name string) (*core.Role, error) {
	var r = &core.Role{}
	return r, notFound(db.getByName.QueryRow(strings.TrimSpace(name)).Scan(&r.ID, &r.Name))
}

func (db *RoleDB) GetAllRoles() ([]*core.Role, error) {
	return getRoles(db.getAll)
}

func (db *RoleDB) GetRolesOf(u *core.User) ([]*core.Role, error) {
	return getRoles(db.getOf, u.ID)
}

func (db *RoleDB) InsertRole(name string) (*core.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("role name can't be empty")
	}
	id, err := insertID(db.insert.Exec(name))
	if err != nil {
		return nil, err
	}
	return &core.Role{ID: id, Name: name}, nil
}

func (db *RoleDB) Join(r *core.Role, u *core.User) error {
	_, err := db.join.Exec(u.ID, r.ID)
	return err
}

func (db *RoleDB) Leave(r *core.Role, u *core.User) error {
	_, err := db.leave.Exec(u.ID, r.ID)
	return err
}
