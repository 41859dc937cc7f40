package commands_test

import (
	"bytes"
	"context"
	"flag"
	"io"
	"strings"
	"testing"

	"flowlist/internal/commands"
	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/service"
	"flowlist/internal/session"
	"flowlist/internal/testutil"
)

// runCommand parses args the way the dispatcher does (flags first, then
// positional args) and runs cmd against svc with a fresh session over a
// temp credential store.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}
	sess := session.New(cfg, svc)
	return runWithSession(t, cmd, cfg, sess, svc, args)
}

func runWithSession(t *testing.T, cmd commands.Command, cfg *config.Config, sess *session.Session, svc service.Service, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("flag parse failed: %v", err)
	}

	code = cmd.Run(context.Background(), cfg, sess, svc, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "flowlist 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
}

func TestListCommand_PartitionsPendingBeforeCompleted(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedTask("Buy milk", "", "low", false)
	svc.SeedTask("File taxes", "", "high", true)
	svc.SeedTask("Walk dog", "", "medium", false)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_partitioned", stdout)
}

func TestListCommand_SearchMatchesTitleAndDescription(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedTask("Buy MILK", "", "low", false)
	svc.SeedTask("Walk dog", "grab milk bones too", "medium", false)
	svc.SeedTask("File taxes", "", "high", false)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, []string{"--search", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Buy MILK") || !strings.Contains(stdout, "Walk dog") {
		t.Errorf("search should match title and description, got %q", stdout)
	}
	if strings.Contains(stdout, "File taxes") {
		t.Errorf("unmatched task should be hidden, got %q", stdout)
	}
}

func TestListCommand_NoTasks(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "No tasks yet") {
		t.Errorf("expected first-task guidance, got %q", stdout)
	}
}

func TestListCommand_NoMatches(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedTask("Buy milk", "", "low", false)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, []string{"--search", "zzz"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "No matching tasks") {
		t.Errorf("expected filter guidance, got %q", stdout)
	}
}

func TestListCommand_InvalidStatusFilter(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), []string{"--status", "bogus"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "invalid status filter") {
		t.Errorf("expected filter error, got %q", stderr)
	}
}

func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr=%q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "Task created: 1") {
		t.Errorf("expected creation notice, got %q", stdout)
	}

	tasks, _ := svc.ListAll(context.Background())
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("expected one task titled 'Buy milk', got %+v", tasks)
	}
	if tasks[0].Priority != service.PriorityMedium {
		t.Errorf("default priority should be medium, got %q", tasks[0].Priority)
	}
}

func TestAddCommand_TitleRequired(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("expected title error, got %q", stderr)
	}
}

func TestAddCommand_InvalidPriority(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeService(), []string{"--priority", "urgent", "Buy", "milk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "invalid priority") {
		t.Errorf("expected priority error, got %q", stderr)
	}
}

func TestDoneCommand_TogglesBothWays(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{seeded.ID}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Task completed") {
		t.Errorf("expected completion notice, got %q", stdout)
	}

	stdout, _, code = runCommand(t, &commands.DoneCmd{}, svc, []string{seeded.ID}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Task reopened") {
		t.Errorf("expected reopen notice, got %q", stdout)
	}
}

func TestDoneCommand_MissingTask(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeService(), []string{"999"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "Task not found: 999") {
		t.Errorf("expected server message verbatim, got %q", stderr)
	}
}

func TestRmCommand_WithYesSkipsPrompt(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"--yes", seeded.ID}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if strings.Contains(stderr, "Are you sure") {
		t.Errorf("--yes must not prompt, got %q", stderr)
	}
	if !strings.Contains(stdout, "Task deleted") {
		t.Errorf("expected deletion notice, got %q", stdout)
	}
	tasks, _ := svc.ListAll(context.Background())
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %+v", tasks)
	}
}

func TestRmCommand_PromptConfirmed(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)

	cmd := &commands.RmCmd{Input: strings.NewReader("y\n")}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{seeded.ID}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stderr, "Are you sure you want to delete this task?") {
		t.Errorf("expected confirmation prompt, got %q", stderr)
	}
	if !strings.Contains(stdout, "Task deleted") {
		t.Errorf("expected deletion notice, got %q", stdout)
	}
}

func TestRmCommand_Aborted(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)

	cmd := &commands.RmCmd{Input: strings.NewReader("n\n")}
	stdout, _, code := runCommand(t, cmd, svc, []string{seeded.ID}, false)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "aborted") {
		t.Errorf("expected abort notice, got %q", stdout)
	}
	tasks, _ := svc.ListAll(context.Background())
	if len(tasks) != 1 {
		t.Errorf("task should survive an aborted delete, got %+v", tasks)
	}
}

func TestRmCommand_RetryAfterDeleteIsDomainError(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)

	_, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"--yes", seeded.ID}, false)
	if code != exitcode.Success {
		t.Fatalf("first delete should succeed, got %d", code)
	}

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"--yes", seeded.ID}, false)
	if code != exitcode.BackendError {
		t.Errorf("second delete should be a domain error, got %d", code)
	}
	if !strings.Contains(stderr, "Task not found") {
		t.Errorf("expected not-found message, got %q", stderr)
	}
}

func TestEditCommand_OnlySetFlagsPatch(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "from the corner shop", "low", false)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"--priority", "high", seeded.ID}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr=%q)", code, stderr)
	}

	got, err := svc.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Priority != service.PriorityHigh {
		t.Errorf("priority should be updated, got %q", got.Priority)
	}
	if got.Title != "Buy milk" || got.Description != "from the corner shop" {
		t.Errorf("unset fields must be untouched, got %+v", got)
	}
}

func TestEditCommand_NoFieldsIsUserError(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.SeedTask("Buy milk", "", "low", false)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{seeded.ID}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr == "" {
		t.Error("expected an error message")
	}
}

func TestMutation_AuthExpiryForcesLogout(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ToggleErr = service.ErrUnauthenticated

	cfg := &config.Config{Dir: t.TempDir()}
	if err := cfg.SaveToken("token-user@example.com"); err != nil {
		t.Fatal(err)
	}
	sess := session.New(cfg, svc)

	_, stderr, code := runWithSession(t, &commands.DoneCmd{}, cfg, sess, svc, []string{"1"})

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "Session expired. Please sign in again.") {
		t.Errorf("expected session-expired message, got %q", stderr)
	}
	if sess.Status() != session.Unauthenticated {
		t.Errorf("session should be torn down, got %v", sess.Status())
	}
	if cfg.HasToken() {
		t.Error("credential store should be cleared on auth expiry")
	}
}

func TestLoginCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("Ada", "ada@example.com", "hunter22")

	cfg := &config.Config{Dir: t.TempDir()}
	sess := session.New(cfg, svc)

	cmd := &commands.LoginCmd{Input: strings.NewReader("ada@example.com\nhunter22\n")}
	stdout, stderr, code := runWithSession(t, cmd, cfg, sess, svc, nil)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr=%q)", code, stderr)
	}
	if sess.Status() != session.Authenticated {
		t.Errorf("expected authenticated session, got %v", sess.Status())
	}
	if cfg.Token() != "token-ada@example.com" {
		t.Errorf("token should be persisted after login, got %q", cfg.Token())
	}
	if !strings.Contains(stdout, "signed in as Ada <ada@example.com>") {
		t.Errorf("expected identity in output, got %q", stdout)
	}
}

func TestLoginCommand_BadPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("Ada", "ada@example.com", "hunter22")

	cfg := &config.Config{Dir: t.TempDir()}
	sess := session.New(cfg, svc)

	cmd := &commands.LoginCmd{Input: strings.NewReader("ada@example.com\nwrong\n")}
	_, stderr, code := runWithSession(t, cmd, cfg, sess, svc, nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "Invalid email or password") {
		t.Errorf("expected server message, got %q", stderr)
	}
	if sess.Status() != session.Unauthenticated {
		t.Errorf("failed login must not authenticate, got %v", sess.Status())
	}
	if cfg.HasToken() {
		t.Error("failed login must not persist a token")
	}
}

func TestRegisterCommand_AutoLogin(t *testing.T) {
	svc := testutil.NewFakeService()

	cfg := &config.Config{Dir: t.TempDir()}
	sess := session.New(cfg, svc)

	cmd := &commands.RegisterCmd{Input: strings.NewReader("Ada\nada@example.com\nhunter22\n")}
	stdout, stderr, code := runWithSession(t, cmd, cfg, sess, svc, nil)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr=%q)", code, stderr)
	}
	if sess.Status() != session.Authenticated {
		t.Errorf("expected authenticated session after register, got %v", sess.Status())
	}
	if !strings.Contains(stdout, "registered and signed in as Ada <ada@example.com>") {
		t.Errorf("expected identity in output, got %q", stdout)
	}
}

func TestRegisterCommand_ChainedLoginFails(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = &service.DomainError{Message: "Account pending activation"}

	cfg := &config.Config{Dir: t.TempDir()}
	sess := session.New(cfg, svc)

	cmd := &commands.RegisterCmd{Input: strings.NewReader("Ada\nada@example.com\nhunter22\n")}
	stdout, _, code := runWithSession(t, cmd, cfg, sess, svc, nil)

	if code != exitcode.Success {
		t.Fatalf("registration itself succeeded; expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Please sign in with: flowlist login") {
		t.Errorf("expected registered-please-sign-in notice, got %q", stdout)
	}
	if sess.Status() != session.Unauthenticated {
		t.Errorf("session must stay unauthenticated, got %v", sess.Status())
	}
}

func TestRegisterCommand_DuplicateEmail(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("Ada", "ada@example.com", "hunter22")

	cfg := &config.Config{Dir: t.TempDir()}
	sess := session.New(cfg, svc)

	cmd := &commands.RegisterCmd{Input: strings.NewReader("Ada\nada@example.com\nhunter22\n")}
	_, stderr, code := runWithSession(t, cmd, cfg, sess, svc, nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "Email already registered") {
		t.Errorf("expected server message, got %q", stderr)
	}
}

func TestRegisterCommand_ShortPassword(t *testing.T) {
	svc := testutil.NewFakeService()

	cfg := &config.Config{Dir: t.TempDir()}
	sess := session.New(cfg, svc)

	cmd := &commands.RegisterCmd{Input: strings.NewReader("Ada\nada@example.com\nabc\n")}
	_, stderr, code := runWithSession(t, cmd, cfg, sess, svc, nil)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "at least 6 characters") {
		t.Errorf("expected password length error, got %q", stderr)
	}
}

func TestLogoutCommand_Idempotent(t *testing.T) {
	svc := testutil.NewFakeService()

	cfg := &config.Config{Dir: t.TempDir()}
	if err := cfg.SaveToken("token-user@example.com"); err != nil {
		t.Fatal(err)
	}
	sess := session.New(cfg, svc)

	stdout, _, code := runWithSession(t, &commands.LogoutCmd{}, cfg, sess, svc, nil)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if cfg.HasToken() {
		t.Error("token should be removed")
	}

	stdout, _, code = runWithSession(t, &commands.LogoutCmd{}, cfg, sess, svc, nil)
	if code != exitcode.Success {
		t.Fatalf("second logout should also succeed, got %d", code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected not-logged-in notice, got %q", stdout)
	}
}

func TestQuietSuppressesChrome(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "milk"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout != "" {
		t.Errorf("quiet mode should print nothing on success, got %q", stdout)
	}
}
