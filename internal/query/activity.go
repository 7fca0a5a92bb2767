package query

import (
	"strings"
	"time"

	"github.com/vibework/vibework/internal/workspace"
)

// Result is the visible activity plus the headline figures for the scope.
type Result struct {
	Records []workspace.Activity

	// Figures over the scoped, unfiltered collection.
	Total        int
	SuccessCount int
	FailureCount int
	Departments  int

	// Matching is len(Records).
	Matching int
}

// Evaluate scopes records to c.UserID (when set) and keeps the entries that
// satisfy every active predicate of c, preserving input order. now is the
// reference instant for the time window.
//
// Absent optional fields never satisfy an active equality or window
// predicate and search as the empty string.
func Evaluate(records []workspace.Activity, c Criteria, now time.Time) Result {
	scoped := records
	if c.UserID != "" {
		scoped = make([]workspace.Activity, 0, len(records))
		for _, a := range records {
			if a.UserID == c.UserID {
				scoped = append(scoped, a)
			}
		}
	}

	res := Result{
		Records: make([]workspace.Activity, 0, len(scoped)),
		Total:   len(scoped),
	}

	departments := make(map[string]struct{})
	for _, a := range scoped {
		if a.Success != nil {
			if *a.Success {
				res.SuccessCount++
			} else {
				res.FailureCount++
			}
		}
		if a.Department != nil {
			departments[*a.Department] = struct{}{}
		}

		if matchActivity(a, c, now) {
			res.Records = append(res.Records, a)
		}
	}
	res.Departments = len(departments)
	res.Matching = len(res.Records)

	return res
}

func matchActivity(a workspace.Activity, c Criteria, now time.Time) bool {
	return contains(c.Search, a.Action, a.Target, a.DepartmentName()) &&
		matchDepartment(a, c.Department) &&
		matchStatus(a, c.Status) &&
		matchWindow(a, c.Window, now)
}

func matchDepartment(a workspace.Activity, department string) bool {
	if disabled(department) {
		return true
	}
	return a.Department != nil && strings.EqualFold(*a.Department, department)
}

func matchStatus(a workspace.Activity, s Status) bool {
	switch Status(strings.ToLower(string(s))) {
	case StatusSuccess:
		return a.Success != nil && *a.Success
	case StatusFailed:
		return a.Success != nil && !*a.Success
	default:
		return true
	}
}

func matchWindow(a workspace.Activity, w TimeWindow, now time.Time) bool {
	var limit int
	switch TimeWindow(strings.ToLower(string(w))) {
	case Window24h:
		limit = 0
	case Window7Days:
		limit = 7
	case Window30Days:
		limit = 30
	default:
		return true
	}
	if a.Timestamp == nil {
		return false
	}

	days := DaysSince(*a.Timestamp, now)
	if limit == 0 {
		return days == 0
	}
	return days <= limit
}
