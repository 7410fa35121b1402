package config

import (
	"flag"
	"os"

	"github.com/adelorme/partage/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   server base URL (e.g., "http://localhost:8080")
//	-b string   path to the local state database
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with subcommand flag sets.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerBaseURL, "s", config.ServerBaseURL, "server base URL")
	fs.StringVar(&config.DatabasePath, "b", config.DatabasePath, "local state database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
