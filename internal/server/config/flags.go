package config

import (
	"flag"
	"os"
	"time"

	"github.com/adelorme/partage/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-f string   blob data directory
//	-i int      sweep interval, seconds
//	-t int      provisional session TTL, hours
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-f", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "blob data directory")

	sweepInterval := fs.Int("i", int(config.SweepInterval.Seconds()), "sweep interval (in seconds)")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session TTL (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SweepInterval = time.Duration(*sweepInterval) * time.Second
	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
}
