package query

import "github.com/vibework/vibework/internal/workspace"

// UserCriteria holds the user directory filter selections. Empty fields
// and "all" disable the matching predicate.
type UserCriteria struct {
	Search     string // name, email or position
	Status     string
	Role       string // global role
	Department string // department id
}

// UserResult is the visible users plus directory-wide figures.
type UserResult struct {
	Users []workspace.User

	// Figures over the whole, unfiltered directory.
	Total    int
	Active   int
	Admins   int
	Inactive int

	Matching int
}

// FilterUsers keeps the users that satisfy every active predicate of c, in
// input order.
func FilterUsers(users []workspace.User, c UserCriteria) UserResult {
	res := UserResult{
		Users: make([]workspace.User, 0, len(users)),
		Total: len(users),
	}

	for _, u := range users {
		switch u.Status {
		case workspace.StatusActive:
			res.Active++
		case workspace.StatusInactive:
			res.Inactive++
		}
		if u.GlobalRole == workspace.RoleAdmin || u.GlobalRole == workspace.RoleSuperAdmin {
			res.Admins++
		}

		if !contains(c.Search, u.Name, u.Email, u.Position) {
			continue
		}
		if !disabled(c.Status) && u.Status != c.Status {
			continue
		}
		if !disabled(c.Role) && u.GlobalRole != c.Role {
			continue
		}
		if !disabled(c.Department) && !u.InDepartment(c.Department) {
			continue
		}
		res.Users = append(res.Users, u)
	}
	res.Matching = len(res.Users)

	return res
}
