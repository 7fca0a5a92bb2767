package main

import (
	"os"

	"github.com/vibework/vibework/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// The parser prints errors itself (goflags.PrintErrors).
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
