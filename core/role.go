package core

type Role struct {
	ID   int
	Name string
}

type RoleDB interface {
	GetRole(id int) (*Role, error)
	GetRoleByName(name string) (*Role, error)
	GetAllRoles() ([]*Role, error)
	GetRolesOf(u *User) ([]*Role, error)
	InsertRole(name string) (*Role, error)
	Join(r *Role, u *User) error
	Leave(r *Role, u *User) error
}

func roleIDs(roles []*Role) []int {
	var ids = make([]int, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	return ids
}
