package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string

	// Input is where interactive prompts read from. Defaults to stdin.
	Input io.Reader
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in and store the session token" }
func (c *LoginCmd) Usage() string     { return "flowlist login [--email <email>] [--password <password>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	src := c.Input
	if src == nil {
		src = os.Stdin
	}
	in := bufio.NewReader(src)

	email := c.email
	if email == "" {
		var err error
		email, err = readLine(in, errOut, "Email: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	password := c.password
	if password == "" {
		var err error
		password, err = readPassword(src, in, errOut, "Password: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if email == "" || password == "" {
		fmt.Fprintln(errOut, "error: email and password required")
		return exitcode.UserError
	}

	if err := sess.Login(ctx, email, password); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", service.UserMessage(err, "Login failed. Please try again."))
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		if user := sess.User(); user != nil {
			fmt.Fprintf(out, "signed in as %s <%s>\n", user.Name, user.Email)
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
