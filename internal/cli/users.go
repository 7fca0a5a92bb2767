package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vibework/vibework/internal/query"
	"github.com/vibework/vibework/internal/render"
	"github.com/vibework/vibework/internal/storage"
	"github.com/vibework/vibework/internal/workspace"
)

// Execute implements the go-flags Commander interface for UsersCommand.
func (c *UsersCommand) Execute(args []string) error {
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

func (c *UsersCommand) criteria() (query.UserCriteria, error) {
	status, err := workspace.ParseUserStatus(c.Status)
	if err != nil {
		return query.UserCriteria{}, fmt.Errorf("--status: %w", err)
	}
	role, err := workspace.ParseGlobalRole(c.Role)
	if err != nil {
		return query.UserCriteria{}, fmt.Errorf("--role: %w", err)
	}
	return query.UserCriteria{
		Search:     c.Search,
		Status:     status,
		Role:       role,
		Department: c.Department,
	}, nil
}

// executeWithStore runs the directory listing against a provided store (for testing).
func (c *UsersCommand) executeWithStore(ctx context.Context, sess *session, store storage.Store) error {
	criteria, err := c.criteria()
	if err != nil {
		return err
	}
	now, err := parseNow(c.Now)
	if err != nil {
		return err
	}
	locale := query.LookupLocale(firstNonEmpty(c.Locale, sess.cfg.Display.Locale))

	users, err := store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	res := query.FilterUsers(users, criteria)
	sess.logger.Debug("users filtered", zap.Int("total", res.Total), zap.Int("matching", res.Matching))

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(sess, res, now, locale)
	}
	return c.printHuman(sess, res, now, locale)
}

func (c *UsersCommand) printHuman(sess *session, res query.UserResult, now time.Time, locale query.Locale) error {
	p := sess.printer

	p.Header("Users")
	p.Field("Total", fmt.Sprintf("%d", res.Total))
	p.Field("Active", fmt.Sprintf("%d", res.Active))
	p.Field("Admins", fmt.Sprintf("%d", res.Admins))
	p.Field("Inactive", fmt.Sprintf("%d", res.Inactive))
	p.Print("")

	if res.Matching == 0 {
		p.Print("No users match the current filters")
		return nil
	}

	p.Print("%s", plural(res.Matching, "user", "users"))
	p.Print("")

	table := render.NewTable(p.Out(), []string{"Name", "Email", "Position", "Status", "Role", "Departments", "Last active"})
	for _, u := range res.Users {
		table.AddRow([]string{
			u.Name,
			u.Email,
			u.Position,
			p.UserStatusBadge(u.Status),
			u.GlobalRole,
			membershipNames(u.Departments),
			query.LabelFor(u.LastActive, now, locale),
		})
	}
	return table.Render()
}

func membershipNames(ms []workspace.Membership) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

type userRowJSON struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Position        string   `json:"position"`
	Status          string   `json:"status"`
	Role            string   `json:"role"`
	Departments     []string `json:"departments"`
	LastActive      string   `json:"last_active,omitempty"`
	LastActiveLabel string   `json:"last_active_label,omitempty"`
}

type usersOutputJSON struct {
	Total    int           `json:"total"`
	Active   int           `json:"active"`
	Admins   int           `json:"admins"`
	Inactive int           `json:"inactive"`
	Matching int           `json:"matching"`
	Users    []userRowJSON `json:"users"`
}

func (c *UsersCommand) printJSON(sess *session, res query.UserResult, now time.Time, locale query.Locale) error {
	out := usersOutputJSON{
		Total:    res.Total,
		Active:   res.Active,
		Admins:   res.Admins,
		Inactive: res.Inactive,
		Matching: res.Matching,
		Users:    make([]userRowJSON, len(res.Users)),
	}

	for i, u := range res.Users {
		depts := make([]string, len(u.Departments))
		for j, m := range u.Departments {
			depts[j] = m.ID
		}
		out.Users[i] = userRowJSON{
			ID:              u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Position:        u.Position,
			Status:          u.Status,
			Role:            u.GlobalRole,
			Departments:     depts,
			LastActive:      formatOptionalTime(u.LastActive),
			LastActiveLabel: query.LabelFor(u.LastActive, now, locale),
		}
	}

	return writeJSON(sess.printer.Out(), out)
}
