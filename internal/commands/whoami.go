package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/output"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the signed-in identity, backend-verified.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "flowlist whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	user := sess.User()
	if user == nil {
		// Dispatcher bootstraps before Run, so this is unreachable in
		// practice, but don't crash if the contract is broken.
		fmt.Fprintln(errOut, "error: not logged in (run: flowlist login)")
		return exitcode.AuthError
	}

	output.FormatUser(out, *user)
	if info, ok := sess.InspectToken(); ok && !info.ExpiresAt.IsZero() && !cfg.Quiet {
		fmt.Fprintf(out, "session expires %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return exitcode.Success
}
