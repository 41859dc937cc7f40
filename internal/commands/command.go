// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"flowlist/internal/config"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires an authenticated
	// session. The dispatcher bootstraps the stored token before Run;
	// commands like help, version, login, and register return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg and sess are always provided; svc is the remote gateway.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int
}
