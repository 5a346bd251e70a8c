package auth

// Role values stored on users and embedded in tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CanModify is the single ownership/role decision used wherever a resource
// may be changed by its owner or by an administrator.
func CanModify(actorID uint, actorRole string, ownerID uint) bool {
	return actorID == ownerID || actorRole == RoleAdmin
}

// IsAdmin reports whether the role grants administrative access.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// IsValidRole reports whether role is one of the two recognised values.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
