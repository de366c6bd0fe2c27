package core

import (
	"errors"
	"fmt"

	"github.com/engelsystem/engelsystem/auth"
)

// A Permission is identified by its name, like "show_user". Handlers refer to permissions by name.
type Permission struct {
	ID          int
	Name        string
	Description string
}

type PermissionDB interface {
	GetPermissionByName(name string) (*Permission, error)
	GetAllPermissions() ([]*Permission, error)
	GetRolesWith(p *Permission) ([]*Role, error)
	InsertPermission(name, description string) (*Permission, error)
	Grant(r *Role, p *Permission) error
	Revoke(r *Role, p *Permission) error
}

// HasPermission returns whether one of the roles of the user has been granted the named permission.
//
// The nil user has no permissions, so anonymous requests never look up the permission.
// For other users, asking for a permission which does not exist returns ErrNoSuchPermission instead of false.
func (c *CoreDB) HasPermission(u *User, name string) (bool, error) {

	if u == nil {
		return false, nil
	}

	perm, err := c.GetPermissionByName(name)
	if errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("%w: %s", ErrNoSuchPermission, name)
	}
	if err != nil {
		return false, err
	}

	userRoles, err := c.GetRolesOf(u)
	if err != nil {
		return false, err
	}

	permRoles, err := c.GetRolesWith(perm)
	if err != nil {
		return false, err
	}

	return auth.Permitted(roleIDs(userRoles), roleIDs(permRoles)), nil
}

// RequirePermission returns ErrUnauthorized if the user does not have the named permission.
func (c *CoreDB) RequirePermission(u *User, name string) error {
	ok, err := c.HasPermission(u, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// GrantByName grants the named permission to the named role.
func (c *CoreDB) GrantByName(roleName, permissionName string) error {
	role, err := c.GetRoleByName(roleName)
	if err != nil {
		return fmt.Errorf("role %s: %w", roleName, err)
	}
	perm, err := c.GetPermissionByName(permissionName)
	if err != nil {
		return fmt.Errorf("permission %s: %w", permissionName, err)
	}
	return c.Grant(role, perm)
}

// JoinByName adds the named user to the named role.
func (c *CoreDB) JoinByName(roleName, username string) error {
	role, err := c.GetRoleByName(roleName)
	if err != nil {
		return fmt.Errorf("role %s: %w", roleName, err)
	}
	user, err := c.GetUserByName(username)
	if err != nil {
		return fmt.Errorf("user %s: %w", username, err)
	}
	return c.Join(role, user)
}
