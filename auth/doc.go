/*
Package auth contains the small pieces of authentication and authorization which don't need a database: password hashes, session keys and the permission predicate.

Roles and Permissions

A user is a member of any number of roles. A permission is granted to any number of roles.
A user has a permission if and only if at least one of their roles has been granted the permission.
There is no hierarchy, neither of roles nor of permissions.

  Example: role "Angel" has "show_user", role "Shift Coordinator" has "show_user" and "edit_shift"

Session Keys

A session key is the lowercase hexadecimal representation of a random positive 63 bit integer.
It is passed as the "key" query parameter, so feeds and calendar clients can authenticate without cookies.
*/
package auth
