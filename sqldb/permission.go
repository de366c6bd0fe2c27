package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/engelsystem/engelsystem/core"
)

type PermissionDB struct {
	*sql.DB
	getAll    *sql.Stmt
	getByName *sql.Stmt
	grant     *sql.Stmt
	insert    *sql.Stmt
	revoke    *sql.Stmt
	rolesWith *sql.Stmt
}

func NewPermissionDB(db *sql.DB, d Dialect) *PermissionDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS permission (
			id `+d.ID+`,
			name varchar(32) NOT NULL,
			description varchar(256),
			UNIQUE(name)
		)`)
	mustExec(db, `
		CREATE TABLE IF NOT EXISTS role_permissions (
			role_id INTEGER NOT NULL REFERENCES role(id),
			permission_id INTEGER NOT NULL REFERENCES permission(id),
			PRIMARY KEY (role_id, permission_id)
		)`)

	var permDB = &PermissionDB{}
	permDB.DB = db
	permDB.getAll = mustPrepare(db, "SELECT id, name, description FROM permission ORDER BY name")
	permDB.getByName = mustPrepare(db, "SELECT id, name, description FROM permission WHERE name = ?")
	permDB.grant = mustPrepare(db, "INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)")
	permDB.insert = mustPrepare(db, "INSERT INTO permission (name, description) VALUES (?, ?)")
	permDB.revoke = mustPrepare(db, "DELETE FROM role_permissions WHERE role_id = ? AND permission_id = ?")
	permDB.rolesWith = mustPrepare(db, "SELECT role.id, role.name FROM role, role_permissions WHERE role.id = role_permissions.role_id AND role_permissions.permission_id = ? ORDER BY role.name")
	return permDB
}

func scanPermission(row scanner) (*core.Permission, error) {
	var p = &core.Permission{}
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &description); err != nil {
		return nil, notFound(err)
	}
	p.Description = description.String
	return p, nil
}

func (db *PermissionDB) GetPermissionByName(name string) (*core.Permission, error) {
	return scanPermission(db.getByName.QueryRow(name))
}

func (db *PermissionDB) GetAllPermissions() ([]*core.Permission, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.Permission{}
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, p)
	}
	return all, rows.Err()
}

func (db *PermissionDB) GetRolesWith(p *core.Permission) ([]*core.Role, error) {
	return getRoles(db.rolesWith, p.ID)
}

func (db *PermissionDB) InsertPermission(name, description string) (*core.Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("permission name can't be empty")
	}
	id, err := insertID(db.insert.Exec(name, nullString(description)))
	if err != nil {
		return nil, err
	}
	return &core.Permission{ID: id, Name: name, Description: description}, nil
}

func (db *PermissionDB) Grant(r *core.Role, p *core.Permission) error {
	_, err := db.grant.Exec(r.ID, p.ID)
	return err
}

func (db *PermissionDB) Revoke(r *core.Role, p *core.Permission) error {
	_, err := db.revoke.Exec(r.ID, p.ID)
	return err
}
