package auth

// Permitted reports whether the role ids of a user and the role ids of a permission have at least one element in common.
func Permitted(userRoles []int, permissionRoles []int) bool {
	for _, userRole := range userRoles {
		for _, permissionRole := range permissionRoles {
			if userRole == permissionRole {
				return true
			}
		}
	}
	return false
}
