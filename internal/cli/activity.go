package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vibework/vibework/internal/query"
	"github.com/vibework/vibework/internal/storage"
	"github.com/vibework/vibework/internal/workspace"
)

// Execute implements the go-flags Commander interface for ActivityCommand.
func (c *ActivityCommand) Execute(args []string) error {
	if c.User == "" {
		return fmt.Errorf("--user is required for activity command")
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

// criteria validates the filter flags. Window and locale fall back to the
// display section of the config.
func (c *ActivityCommand) criteria(sess *session) (query.Criteria, error) {
	status, err := query.ParseStatus(c.Status)
	if err != nil {
		return query.Criteria{}, fmt.Errorf("--status: %w", err)
	}
	window, err := query.ParseTimeWindow(firstNonEmpty(c.Window, sess.cfg.Display.DefaultWindow))
	if err != nil {
		return query.Criteria{}, fmt.Errorf("--window: %w", err)
	}
	return query.Criteria{
		UserID:     c.User,
		Search:     c.Search,
		Department: c.Department,
		Status:     status,
		Window:     window,
	}, nil
}

// executeWithStore runs the activity query against a provided store (for testing).
func (c *ActivityCommand) executeWithStore(ctx context.Context, sess *session, store storage.Store) error {
	criteria, err := c.criteria(sess)
	if err != nil {
		return err
	}
	now, err := parseNow(c.Now)
	if err != nil {
		return err
	}
	locale := query.LookupLocale(firstNonEmpty(c.Locale, sess.cfg.Display.Locale))

	user, err := store.GetUser(ctx, c.User)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("unknown user %q", c.User)
		}
		return fmt.Errorf("load user: %w", err)
	}

	records, err := store.ListActivity(ctx, c.User)
	if err != nil {
		return fmt.Errorf("load activity: %w", err)
	}

	res := query.Evaluate(records, criteria, now)
	sess.logger.Debug("activity evaluated",
		zap.String("user", c.User),
		zap.Int("total", res.Total),
		zap.Int("matching", res.Matching),
	)

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(sess, criteria, res, now, locale)
	}
	return c.printHuman(sess, user, criteria, res, now, locale)
}

func (c *ActivityCommand) printHuman(sess *session, user *workspace.User, criteria query.Criteria, res query.Result, now time.Time, locale query.Locale) error {
	p := sess.printer

	p.Header(fmt.Sprintf("Activity: %s (%s)", user.Name, user.ID))
	p.Field("Total", fmt.Sprintf("%d", res.Total))
	p.Field("Successful", fmt.Sprintf("%d", res.SuccessCount))
	p.Field("Failed", fmt.Sprintf("%d", res.FailureCount))
	p.Field("Departments", fmt.Sprintf("%d", res.Departments))
	p.Print("")

	if res.Matching == 0 {
		p.Print("No activity matches the current filters (%s)", describeCriteria(criteria))
		return nil
	}

	p.Print("%s (%s)", plural(res.Matching, "record", "records"), describeCriteria(criteria))
	p.Print("")

	for i, a := range res.Records {
		kind := query.ClassifyAction(a.Action, a.Success)

		line := fmt.Sprintf("%s %s", p.Glyph(kind), p.Bold(a.Action))
		if a.Target != "" {
			line += " · " + a.Target
		}
		if badge := p.DepartmentBadge(sess.palette, a.DepartmentName()); badge != "" {
			line += "  " + badge
		}
		p.Print("%s", line)

		meta := []string{}
		if label := query.LabelFor(a.Timestamp, now, locale); label != "" {
			meta = append(meta, label)
		}
		if a.IP != "" {
			meta = append(meta, a.IP)
		}
		if a.UserAgent != "" {
			meta = append(meta, a.UserAgent)
		}
		if kind == query.ActionFailed {
			meta = append(meta, p.Outcome(a.Success))
		}
		if len(meta) > 0 {
			p.Print("  %s", p.Dim(strings.Join(meta, " · ")))
		}

		if i < len(res.Records)-1 {
			p.Print("")
		}
	}

	return nil
}

func describeCriteria(c query.Criteria) string {
	parts := []string{"window " + string(c.Window)}
	if c.Status != "" && c.Status != query.StatusAll {
		parts = append(parts, "status "+string(c.Status))
	}
	if c.Department != "" && !strings.EqualFold(c.Department, query.All) {
		parts = append(parts, "department "+c.Department)
	}
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", c.Search))
	}
	return strings.Join(parts, ", ")
}

type activityRecordJSON struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	Action     string  `json:"action"`
	Target     string  `json:"target"`
	Department *string `json:"department,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"`
	Label      string  `json:"label,omitempty"`
	IP         string  `json:"ip,omitempty"`
	UserAgent  string  `json:"user_agent,omitempty"`
	Success    *bool   `json:"success,omitempty"`
	Kind       string  `json:"kind"`
}

type activityCriteriaJSON struct {
	UserID     string `json:"user_id"`
	Search     string `json:"search"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Window     string `json:"window"`
}

type activityOutputJSON struct {
	Criteria     activityCriteriaJSON `json:"criteria"`
	Total        int                  `json:"total"`
	Matching     int                  `json:"matching"`
	SuccessCount int                  `json:"success_count"`
	FailureCount int                  `json:"failure_count"`
	Departments  int                  `json:"departments"`
	Records      []activityRecordJSON `json:"records"`
}

func (c *ActivityCommand) printJSON(sess *session, criteria query.Criteria, res query.Result, now time.Time, locale query.Locale) error {
	out := activityOutputJSON{
		Criteria: activityCriteriaJSON{
			UserID:     criteria.UserID,
			Search:     criteria.Search,
			Department: criteria.Department,
			Status:     string(criteria.Status),
			Window:     string(criteria.Window),
		},
		Total:        res.Total,
		Matching:     res.Matching,
		SuccessCount: res.SuccessCount,
		FailureCount: res.FailureCount,
		Departments:  res.Departments,
		Records:      make([]activityRecordJSON, len(res.Records)),
	}

	for i, a := range res.Records {
		out.Records[i] = activityRecordJSON{
			ID:         a.ID,
			UserID:     a.UserID,
			UserName:   a.UserName,
			Action:     a.Action,
			Target:     a.Target,
			Department: a.Department,
			Timestamp:  formatOptionalTime(a.Timestamp),
			Label:      query.LabelFor(a.Timestamp, now, locale),
			IP:         a.IP,
			UserAgent:  a.UserAgent,
			Success:    a.Success,
			Kind:       query.ClassifyAction(a.Action, a.Success).String(),
		}
	}

	return writeJSON(sess.printer.Out(), out)
}
