package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"flowlist/internal/exitcode"
	"flowlist/internal/notify"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

// cliSink renders notifications as plain command output.
type cliSink struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

func (s cliSink) Success(msg string) {
	if !s.quiet {
		fmt.Fprintln(s.out, msg)
	}
}

func (s cliSink) Error(msg string) {
	fmt.Fprintf(s.errOut, "error: %s\n", msg)
}

// handleFailure routes err through the shared notification policy and maps
// the outcome to an exit code. Auth expiry has already torn the session
// down by the time this returns.
func handleFailure(err error, fallback string, sess *session.Session, errOut io.Writer) int {
	router := &notify.Router{Session: sess, Sink: cliSink{out: errOut, errOut: errOut}}
	if router.Handle(err, fallback) {
		return exitcode.AuthError
	}
	if errors.Is(err, service.ErrNotFound) {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// readLine prompts on errOut and reads one line. The buffered reader must
// be shared across prompts on the same source or read-ahead loses input.
func readLine(r *bufio.Reader, errOut io.Writer, prompt string) (string, error) {
	fmt.Fprint(errOut, prompt)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts on errOut and reads without echo when the source is
// a terminal. Falls back to a plain line read otherwise (tests, pipes).
func readPassword(src io.Reader, r *bufio.Reader, errOut io.Writer, prompt string) (string, error) {
	if f, ok := src.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(errOut, prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(errOut)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return readLine(r, errOut, prompt)
}
