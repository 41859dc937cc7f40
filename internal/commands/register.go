package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

// minPasswordLen matches the backend's registration rule.
const minPasswordLen = 6

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	email    string
	password string

	// Input is where interactive prompts read from. Defaults to stdin.
	Input io.Reader
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *RegisterCmd) Usage() string {
	return "flowlist register [--name <name>] [--email <email>] [--password <password>]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	src := c.Input
	if src == nil {
		src = os.Stdin
	}
	in := bufio.NewReader(src)

	name, email, password := c.name, c.email, c.password
	var err error
	if name == "" {
		if name, err = readLine(in, errOut, "Name: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if email == "" {
		if email, err = readLine(in, errOut, "Email: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if password == "" {
		if password, err = readPassword(src, in, errOut, "Password: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if name == "" || email == "" || password == "" {
		fmt.Fprintln(errOut, "error: name, email, and password required")
		return exitcode.UserError
	}
	if len(password) < minPasswordLen {
		fmt.Fprintf(errOut, "error: password must be at least %d characters\n", minPasswordLen)
		return exitcode.UserError
	}

	err = sess.Register(ctx, name, email, password)
	if errors.Is(err, session.ErrRegisteredLoginFailed) {
		// The account exists; only the chained sign-in failed.
		if !cfg.Quiet {
			fmt.Fprintln(out, "Account created. Please sign in with: flowlist login")
		}
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", service.UserMessage(err, "Registration failed. Please try again."))
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		if user := sess.User(); user != nil {
			fmt.Fprintf(out, "registered and signed in as %s <%s>\n", user.Name, user.Email)
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
