package rbac

// Permissions
const (
	PermBankWrite = "bank:write"
	PermEventView = "event:view"
)

// RolePermissions is the default policy. Login only issues the admin role.
var RolePermissions = map[string][]string{
	"admin": {
		"*", // everything
	},
}
