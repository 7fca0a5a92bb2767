package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// Stats holds aggregate statistics about the workspace database.
type Stats struct {
	TotalUsers       int64
	TotalActivity    int64
	TotalRoles       int64
	TotalDepartments int64
	OldestActivity   time.Time
	NewestActivity   time.Time
	TopDepartments   []DepartmentCount
}

// DepartmentCount pairs a department with its activity count.
type DepartmentCount struct {
	Department string
	Count      int64
}

// ImportSummary reports how many records an import wrote.
type ImportSummary struct {
	Users       int
	Roles       int
	Departments int
	Activity    int
}
