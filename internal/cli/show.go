package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vibework/vibework/internal/render"
	"github.com/vibework/vibework/internal/storage"
	"github.com/vibework/vibework/internal/workspace"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for show command")
	}

	sess, err := newSession(c.globals, c.out)
	if err != nil {
		return err
	}
	defer sess.logger.Sync() //nolint:errcheck

	dbPath, err := sess.resolveDBPath(c.globals)
	if err != nil {
		return err
	}
	store, db, err := sess.openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(context.Background(), sess, store)
}

// executeWithStore prints the user from a provided store (for testing).
func (c *ShowCommand) executeWithStore(ctx context.Context, sess *session, store storage.Store) error {
	user, err := store.GetUser(ctx, c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("user not found: %s", c.ID)
		}
		return fmt.Errorf("load user: %w", err)
	}

	// JSON output (--json global flag)
	if c.globals != nil && c.globals.JSON {
		return c.outputJSON(sess, user)
	}

	switch c.Format {
	case "json":
		return c.outputJSON(sess, user)
	case "md":
		c.outputMarkdown(sess, user)
		return nil
	case "", "full":
		return c.outputFull(sess, user)
	default:
		return fmt.Errorf("invalid --format value %q (use full, md or json)", c.Format)
	}
}

type permissionEntry struct {
	Department string
	Permission string
	Granted    bool
}

// permissionGrid flattens the permission map, departments in membership
// order first and any others after them alphabetically.
func permissionGrid(u *workspace.User) []permissionEntry {
	order := make([]string, 0, len(u.Permissions))
	seen := map[string]bool{}
	for _, m := range u.Departments {
		if _, ok := u.Permissions[m.ID]; ok && !seen[m.ID] {
			order = append(order, m.ID)
			seen[m.ID] = true
		}
	}
	var rest []string
	for dept := range u.Permissions {
		if !seen[dept] {
			rest = append(rest, dept)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var grid []permissionEntry
	for _, dept := range order {
		perms := make([]string, 0, len(u.Permissions[dept]))
		for perm := range u.Permissions[dept] {
			perms = append(perms, perm)
		}
		sort.Strings(perms)
		for _, perm := range perms {
			grid = append(grid, permissionEntry{Department: dept, Permission: perm, Granted: u.Permissions[dept][perm]})
		}
	}
	return grid
}

func (c *ShowCommand) outputFull(sess *session, u *workspace.User) error {
	p := sess.printer

	p.Header(u.Name)
	p.Field("ID", u.ID)
	p.Field("Email", u.Email)
	p.Field("Position", u.Position)
	p.Field("Status", p.UserStatusBadge(u.Status))
	p.Field("Role", u.GlobalRole)
	if u.Phone != "" {
		p.Field("Phone", u.Phone)
	}
	if u.CreatedAt != nil {
		p.Field("Created", u.CreatedAt.Format("2006-01-02"))
	}
	if u.LastActive != nil {
		p.Field("Last active", u.LastActive.Format("2006-01-02 15:04"))
	}
	if u.IsTemporary {
		p.Field("Temporary", "yes")
	}
	if u.RequirePasswordChange {
		p.Field("Password", "change required")
	}

	p.Print("")
	p.Print("Departments:")
	if len(u.Departments) == 0 {
		p.Print("  (none)")
	}
	for _, m := range u.Departments {
		p.Print("  %s %s", p.DepartmentBadge(sess.palette, m.Name), m.Role)
	}

	grid := permissionGrid(u)
	if len(grid) == 0 {
		return nil
	}

	p.Print("")
	p.Print("Permissions:")
	table := render.NewTable(p.Out(), []string{"Department", "Permission", "Granted"})
	for _, e := range grid {
		granted := "no"
		if e.Granted {
			granted = "yes"
		}
		table.AddRow([]string{e.Department, e.Permission, granted})
	}
	return table.Render()
}

func (c *ShowCommand) outputMarkdown(sess *session, u *workspace.User) {
	p := sess.printer

	p.Print("---")
	p.Print("id: %s", u.ID)
	p.Print("name: %s", u.Name)
	p.Print("email: %s", u.Email)
	p.Print("position: %s", u.Position)
	p.Print("status: %s", u.Status)
	p.Print("role: %s", u.GlobalRole)
	if u.LastActive != nil {
		p.Print("last_active: %s", formatOptionalTime(u.LastActive))
	}
	p.Print("---")
	p.Print("")
	p.Print("## Departments")
	p.Print("")
	for _, m := range u.Departments {
		p.Print("- %s (%s)", m.Name, m.Role)
	}

	grid := permissionGrid(u)
	if len(grid) == 0 {
		return
	}
	p.Print("")
	p.Print("## Permissions")
	p.Print("")
	for _, e := range grid {
		mark := " "
		if e.Granted {
			mark = "x"
		}
		p.Print("- [%s] %s/%s", mark, e.Department, e.Permission)
	}
}

type membershipJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type userDetailJSON struct {
	ID                    string                     `json:"id"`
	Name                  string                     `json:"name"`
	Email                 string                     `json:"email"`
	Position              string                     `json:"position"`
	Avatar                string                     `json:"avatar,omitempty"`
	Status                string                     `json:"status"`
	Role                  string                     `json:"role"`
	Phone                 string                     `json:"phone,omitempty"`
	LastActive            string                     `json:"last_active,omitempty"`
	CreatedAt             string                     `json:"created_at,omitempty"`
	IsTemporary           bool                       `json:"is_temporary"`
	RequirePasswordChange bool                       `json:"require_password_change"`
	Departments           []membershipJSON           `json:"departments"`
	Permissions           map[string]map[string]bool `json:"permissions"`
}

func (c *ShowCommand) outputJSON(sess *session, u *workspace.User) error {
	out := userDetailJSON{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		Position:              u.Position,
		Avatar:                u.Avatar,
		Status:                u.Status,
		Role:                  u.GlobalRole,
		Phone:                 u.Phone,
		LastActive:            formatOptionalTime(u.LastActive),
		CreatedAt:             formatOptionalTime(u.CreatedAt),
		IsTemporary:           u.IsTemporary,
		RequirePasswordChange: u.RequirePasswordChange,
		Departments:           make([]membershipJSON, len(u.Departments)),
		Permissions:           u.Permissions,
	}
	for i, m := range u.Departments {
		out.Departments[i] = membershipJSON{ID: m.ID, Name: m.Name, Role: m.Role}
	}
	if out.Permissions == nil {
		out.Permissions = map[string]map[string]bool{}
	}

	return writeJSON(sess.printer.Out(), out)
}
