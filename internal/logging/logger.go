// Package logging is the structured-logging seam between the transfer
// components and whatever backend actually writes records. Server, sweeper
// and client controllers log through the Logger interface only.
package logging

import "context"

// Logger accepts a message plus alternating key-value args, slog style:
//
//	log.Info(ctx, "session opened", "secret_key", key)
type Logger interface {
	// Info records normal operation.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records conditions that are survivable but worth noticing, such
	// as stale client state or an offset hint that disagrees with the server.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger whose records always carry args.
	With(args ...any) Logger
}
