package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"flowlist/internal/commands"
	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

// ServiceFactory creates a Service from config and a token source.
// Used to inject the backend during dispatch (tests pass a FakeService).
type ServiceFactory func(ctx context.Context, cfg *config.Config, token service.TokenFunc) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		// The flag package's own message names the offending flag.
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	// The token func closes over the session pointer so the gateway always
	// sees the token the session currently holds.
	var sess *session.Session
	svc, err := d.factory(ctx, cfg, func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	sess = session.New(cfg, svc)

	// Session-gated commands settle the stored token before running.
	if cmd.NeedsAuth() {
		if sess.Status() == session.Unauthenticated {
			fmt.Fprintln(errOut, "error: not logged in (run: flowlist login)")
			return exitcode.AuthError
		}
		if err := sess.Bootstrap(ctx); err != nil {
			// Stored credential was rejected and has been cleared.
			fmt.Fprintln(errOut, "error: session expired (run: flowlist login)")
			return exitcode.AuthError
		}
	}

	return cmd.Run(ctx, cfg, sess, svc, positionalArgs, out, errOut)
}
