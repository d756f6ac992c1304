package domain

// Route allow-lists. Routes declare one of these at registration time.
var (
	AdminOnly = []Role{RoleAdmin}
	AllRoles  = []Role{RoleAdmin, RoleManager, RoleUser}
)

// TaskOwnerScope returns the assignee id every task query must be restricted
// to for actor. An empty result means the actor may act on any task.
func TaskOwnerScope(actor *User) string {
	if actor.IsAdmin() {
		return ""
	}
	return actor.ID
}

// TaskAssignee resolves who a new task belongs to. Only admins may assign a
// task to somebody else; everyone else always gets their own task.
func TaskAssignee(actor *User, requested string) string {
	if actor.IsAdmin() && requested != "" {
		return requested
	}
	return actor.ID
}

// CanGrantRole reports whether actor may provision an account with role.
func CanGrantRole(actor *User, role Role) bool {
	if role == RoleAdmin {
		return actor.IsAdmin()
	}
	return actor != nil
}
