package config

// DefaultColorKey is the department_colors entry used for departments
// without their own colour.
const DefaultColorKey = "default"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/vibework",
			SQLiteFile:        "vibework.db",
			SQLiteJournalMode: "wal",
		},
		Display: DisplayConfig{
			Locale:           "en",
			DefaultWindow:    "7days",
			Colors:           true,
			DepartmentColors: DefaultDepartmentColors(),
		},
		Logging: LoggingConfig{
			Level:      "warn",
			File:       "",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultDepartmentColors returns the badge colour of each built-in
// department.
func DefaultDepartmentColors() map[string]string {
	return map[string]string{
		"Marketing":     "green",
		"Finance":       "yellow",
		"Sales":         "red",
		"HR":            "magenta",
		"IT":            "cyan",
		"General":       "blue",
		DefaultColorKey: "white",
	}
}
