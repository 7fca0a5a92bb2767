package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db" description:"Path to the SQLite data source (overrides config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Color   string `long:"color" description:"Color output: auto | always | never" default:"auto"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ActivityCommand filters one user's activity log.
type ActivityCommand struct {
	User       string `long:"user" description:"User ID whose activity is shown (required)"`
	Search     string `long:"search" description:"Case-insensitive text over action, target and department"`
	Department string `long:"department" description:"Department name, or all" default:"all"`
	Status     string `long:"status" description:"Outcome: all | success | failed" default:"all"`
	Window     string `long:"window" description:"Recency: all | 24h | 7days | 30days (default from config)"`
	Now        string `long:"now" description:"Reference time as RFC 3339 (default: current time)"`
	Locale     string `long:"locale" description:"Label language: en | es (default from config)"`

	globals *GlobalFlags
	version string
	out     io.Writer // nil means stdout
}

// UsersCommand lists the user directory with filters.
type UsersCommand struct {
	Search     string `long:"search" description:"Case-insensitive text over name, email and position"`
	Status     string `long:"status" description:"Account status: all | active | inactive | suspended | pending" default:"all"`
	Role       string `long:"role" description:"Global role: all | super-admin | admin | manager | user | readonly" default:"all"`
	Department string `long:"department" description:"Department ID membership, or all" default:"all"`
	Now        string `long:"now" description:"Reference time as RFC 3339 (default: current time)"`
	Locale     string `long:"locale" description:"Label language: en | es (default from config)"`

	globals *GlobalFlags
	version string
	out     io.Writer
}

// ShowCommand prints one user's profile, memberships and permissions.
type ShowCommand struct {
	ID     string `long:"id" description:"User ID (required)"`
	Format string `long:"format" description:"Output format: full | md | json" default:"full"`

	globals *GlobalFlags
	version string
	out     io.Writer
}

// StatusCommand shows data source statistics and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	out     io.Writer
}

// ImportCommand upserts a YAML dataset into the data source.
type ImportCommand struct {
	File string `long:"file" description:"Path to the YAML dataset (required)"`

	globals *GlobalFlags
	version string
	out     io.Writer
}
