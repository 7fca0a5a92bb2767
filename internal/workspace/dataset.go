package workspace

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// yamlDataset mirrors Dataset with the wire shape used in dataset files.
// Timestamps stay strings so a malformed value degrades to "absent"
// instead of failing the whole file.
type yamlDataset struct {
	Users       []yamlUser       `yaml:"users"`
	Roles       []yamlRole       `yaml:"roles"`
	Departments []yamlDepartment `yaml:"departments"`
	Activity    []yamlActivity   `yaml:"activity"`
}

type yamlUser struct {
	ID                    string                     `yaml:"id"`
	Name                  string                     `yaml:"name"`
	Email                 string                     `yaml:"email"`
	Position              string                     `yaml:"position"`
	Avatar                string                     `yaml:"avatar"`
	Status                string                     `yaml:"status"`
	LastActive            string                     `yaml:"last_active"`
	GlobalRole            string                     `yaml:"global_role"`
	Departments           []yamlMembership           `yaml:"departments"`
	Permissions           map[string]map[string]bool `yaml:"permissions"`
	CreatedAt             string                     `yaml:"created_at"`
	Phone                 string                     `yaml:"phone"`
	IsTemporary           bool                       `yaml:"is_temporary"`
	RequirePasswordChange bool                       `yaml:"require_password_change"`
}

type yamlMembership struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type yamlRole struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Color       string   `yaml:"color"`
	Permissions []string `yaml:"permissions"`
	UserCount   int      `yaml:"user_count"`
}

type yamlDepartment struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Icon      string `yaml:"icon"`
	Color     string `yaml:"color"`
	UserCount int    `yaml:"user_count"`
}

type yamlActivity struct {
	ID         string  `yaml:"id"`
	UserID     string  `yaml:"user_id"`
	UserName   string  `yaml:"user_name"`
	Action     string  `yaml:"action"`
	Target     string  `yaml:"target"`
	Department *string `yaml:"department"`
	Timestamp  string  `yaml:"timestamp"`
	IP         string  `yaml:"ip"`
	UserAgent  string  `yaml:"user_agent"`
	Success    *bool   `yaml:"success"`
}

// DecodeDataset reads a YAML dataset. Users, roles and departments must
// carry an id. Activity entries without one get a name-based UUID derived
// from their content, so decoding the same file twice yields the same ids.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var raw yamlDataset
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Dataset{}, nil
		}
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}

	ds := Dataset{
		Users:       make([]User, 0, len(raw.Users)),
		Roles:       make([]Role, 0, len(raw.Roles)),
		Departments: make([]Department, 0, len(raw.Departments)),
		Activity:    make([]Activity, 0, len(raw.Activity)),
	}

	for i, u := range raw.Users {
		if u.ID == "" {
			return Dataset{}, fmt.Errorf("user #%d: missing id", i+1)
		}
		user := User{
			ID:                    u.ID,
			Name:                  u.Name,
			Email:                 u.Email,
			Position:              u.Position,
			Avatar:                u.Avatar,
			Status:                u.Status,
			LastActive:            optionalTime(u.LastActive),
			GlobalRole:            u.GlobalRole,
			Permissions:           u.Permissions,
			CreatedAt:             optionalTime(u.CreatedAt),
			Phone:                 u.Phone,
			IsTemporary:           u.IsTemporary,
			RequirePasswordChange: u.RequirePasswordChange,
		}
		for _, m := range u.Departments {
			user.Departments = append(user.Departments, Membership(m))
		}
		ds.Users = append(ds.Users, user)
	}

	for i, role := range raw.Roles {
		if role.ID == "" {
			return Dataset{}, fmt.Errorf("role #%d: missing id", i+1)
		}
		ds.Roles = append(ds.Roles, Role(role))
	}

	for i, d := range raw.Departments {
		if d.ID == "" {
			return Dataset{}, fmt.Errorf("department #%d: missing id", i+1)
		}
		ds.Departments = append(ds.Departments, Department(d))
	}

	for _, a := range raw.Activity {
		id := a.ID
		if id == "" {
			id = activityID(a)
		}
		ds.Activity = append(ds.Activity, Activity{
			ID:         id,
			UserID:     a.UserID,
			UserName:   a.UserName,
			Action:     a.Action,
			Target:     a.Target,
			Department: a.Department,
			Timestamp:  optionalTime(a.Timestamp),
			IP:         a.IP,
			UserAgent:  a.UserAgent,
			Success:    a.Success,
		})
	}

	return ds, nil
}

func activityID(a yamlActivity) string {
	department := ""
	if a.Department != nil {
		department = *a.Department
	}
	key := strings.Join([]string{a.UserID, a.Action, a.Target, department, a.Timestamp}, "\x00")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

func optionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil
	}
	return &t
}

// ParseTimestamp tries the timestamp layouts found in datasets and in
// SQLite columns.
func ParseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}
