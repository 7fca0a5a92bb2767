package workspace

import (
	"fmt"
	"strings"
	"time"
)

// User statuses.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

// Global and department roles.
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleUser       = "user"
	RoleReadOnly   = "readonly"
)

// UserStatuses and GlobalRoles list the accepted values in display order.
var (
	UserStatuses = []string{StatusActive, StatusInactive, StatusSuspended, StatusPending}
	GlobalRoles  = []string{RoleSuperAdmin, RoleAdmin, RoleManager, RoleUser, RoleReadOnly}
)

// ParseUserStatus validates a user status filter value, case-insensitively.
// "" is accepted as "all".
func ParseUserStatus(s string) (string, error) {
	return parseFilterValue("status", s, UserStatuses)
}

// ParseGlobalRole validates a global role filter value, case-insensitively.
// "" is accepted as "all".
func ParseGlobalRole(s string) (string, error) {
	return parseFilterValue("role", s, GlobalRoles)
}

func parseFilterValue(kind, s string, allowed []string) (string, error) {
	v := strings.ToLower(s)
	if v == "" || v == "all" {
		return "all", nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q (use all, %s)", kind, s, strings.Join(allowed, ", "))
}

// User is a member of the workspace together with the departments they
// belong to and the per-department permission grid.
type User struct {
	ID                    string
	Name                  string
	Email                 string
	Position              string
	Avatar                string
	Status                string
	LastActive            *time.Time
	GlobalRole            string
	Departments           []Membership
	Permissions           map[string]map[string]bool
	CreatedAt             *time.Time
	Phone                 string
	IsTemporary           bool
	RequirePasswordChange bool
}

// Membership links a user to a department with a department-level role.
type Membership struct {
	ID   string
	Name string
	Role string
}

// InDepartment reports whether the user is a member of the department id.
func (u User) InDepartment(id string) bool {
	for _, m := range u.Departments {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Activity is one entry of the audit trail. Department, Timestamp and
// Success are optional: nil means the source did not carry the value (or
// carried one that could not be parsed).
type Activity struct {
	ID         string
	UserID     string
	UserName   string
	Action     string
	Target     string
	Department *string
	Timestamp  *time.Time
	IP         string
	UserAgent  string
	Success    *bool
}

// DepartmentName returns the department or "" when absent.
func (a Activity) DepartmentName() string {
	if a.Department == nil {
		return ""
	}
	return *a.Department
}

// Role is a named bundle of permissions.
type Role struct {
	ID          string
	Name        string
	Description string
	Color       string
	Permissions []string
	UserCount   int
}

// Department is an organizational unit of the workspace.
type Department struct {
	ID        string
	Name      string
	Icon      string
	Color     string
	UserCount int
}

// Dataset is a complete set of workspace records.
type Dataset struct {
	Users       []User
	Roles       []Role
	Departments []Department
	Activity    []Activity
}

// String returns a pointer to s. Used for the optional Activity fields.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }
