package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Activity *ActivityCommand
	Users    *UsersCommand
	Show     *ShowCommand
	Status   *StatusCommand
	Import   *ImportCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "vibework"
	parser.LongDescription = "Inspect the workspace user directory and activity log from the terminal."

	cmds := &commands{
		Activity: &ActivityCommand{globals: &globals, version: version},
		Users:    &UsersCommand{globals: &globals, version: version},
		Show:     &ShowCommand{globals: &globals, version: version},
		Status:   &StatusCommand{globals: &globals, version: version},
		Import:   &ImportCommand{globals: &globals, version: version},
	}

	parser.AddCommand("activity", "Filter a user's activity log", "Filter a user's activity log by text, department, outcome and recency, with headline statistics.", cmds.Activity)
	parser.AddCommand("users", "List the user directory", "List users with directory statistics, filtered by text, status, role and department.", cmds.Users)
	parser.AddCommand("show", "Print one user's profile", "Print one user's profile, department memberships and permission grid.", cmds.Show)
	parser.AddCommand("status", "Show data source statistics", "Show data source location, record counts and configuration summary.", cmds.Status)
	parser.AddCommand("import", "Import a YAML dataset", "Decode a YAML dataset and upsert its users, roles, departments and activity.", cmds.Import)

	return parser, &globals, cmds
}

// Run is the main entry point for the vibework CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("vibework %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
