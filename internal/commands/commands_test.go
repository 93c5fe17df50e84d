package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"strings"
	"testing"

	"todoai/internal/commands"
	"todoai/internal/config"
	"todoai/internal/core"
	"todoai/internal/exitcode"
	"todoai/internal/store"
	"todoai/internal/sync"
	"todoai/internal/testutil"
)

const owner = "user-1"

// runCommand runs a command against a fresh config dir and returns its
// output and exit code.
func runCommand(t *testing.T, cmd commands.Command, svc *sync.Coordinator, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func newService(st *testutil.FakeStore) *sync.Coordinator {
	return sync.New(st, core.NewCache(), owner)
}

// parseFlags runs the command's flag registration over argv the way
// the dispatcher would and returns the positional remainder.
func parseFlags(t *testing.T, cmd commands.Command, argv []string) []string {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("flag parse: %v", err)
	}
	return fs.Args()
}

func seedTasks(st *testutil.FakeStore, titles ...string) {
	for i, title := range titles {
		task := core.NewTask(title)
		task.Position = i
		st.SeedTask(owner, task)
	}
}

// fakeParser records its input and returns a canned draft.
type fakeParser struct {
	called bool
	input  string
	draft  core.Draft
}

func (p *fakeParser) Parse(ctx context.Context, input string) core.Draft {
	p.called = true
	p.input = input
	return p.draft
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todoai 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
	if !strings.Contains(stdout, "TODOAI_URL") {
		t.Error("help output should document the environment variables")
	}
}

// Tests for list command
func TestListCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "buy milk", "write report")

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, newService(st), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "buy milk") || !strings.Contains(stdout, "write report") {
		t.Errorf("expected both tasks listed, got %q", stdout)
	}
	// Position order, not insertion order.
	if strings.Index(stdout, "buy milk") > strings.Index(stdout, "write report") {
		t.Errorf("tasks out of order: %q", stdout)
	}
}

func TestListCommandEmpty(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, newService(testutil.NewFakeStore()), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "no tasks") {
		t.Errorf("expected empty-list message, got %q", stdout)
	}
}

func TestListCommandRejectsArgs(t *testing.T) {
	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, newService(testutil.NewFakeStore()), []string{"extra"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr == "" {
		t.Error("expected error message on stderr")
	}
}

func TestListCommandBackendError(t *testing.T) {
	st := testutil.NewFakeStore()
	st.ListTasksErr = &store.NetworkError{Op: "list tasks", Err: errors.New("connection refused")}

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, newService(st), nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "error:") {
		t.Errorf("expected error on stderr, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommandParsed(t *testing.T) {
	st := testutil.NewFakeStore()
	parser := &fakeParser{draft: core.Draft{Title: "buy milk", Priority: core.High}}

	cmd := &commands.AddCmd{}
	cmd.SetParser(parser)
	stdout, stderr, code := runCommand(t, cmd, newService(st), []string{"urgent", "buy", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if !parser.called {
		t.Fatal("expected the parser to run")
	}
	if parser.input != "urgent buy milk" {
		t.Errorf("parser input = %q, want joined args", parser.input)
	}
	if stdout != "added: buy milk\n" {
		t.Errorf("unexpected output: %q", stdout)
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if len(tasks) != 1 || tasks[0].Priority != core.High {
		t.Errorf("expected one high-priority task, got %+v", tasks)
	}
}

func TestAddCommandRaw(t *testing.T) {
	st := testutil.NewFakeStore()
	parser := &fakeParser{draft: core.Draft{Title: "should not be used"}}

	cmd := &commands.AddCmd{}
	cmd.SetParser(parser)
	args := parseFlags(t, cmd, []string{"--raw", "urgent", "buy", "milk"})

	stdout, _, code := runCommand(t, cmd, newService(st), args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if parser.called {
		t.Error("--raw must bypass the parser")
	}
	if stdout != "added: urgent buy milk\n" {
		t.Errorf("raw add should keep the text verbatim, got %q", stdout)
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if len(tasks) != 1 || tasks[0].Priority != core.Medium {
		t.Errorf("raw add should default to medium priority, got %+v", tasks)
	}
}

func TestAddCommandSeparateInvocations(t *testing.T) {
	st := testutil.NewFakeStore()

	// Two process runs: each gets a fresh coordinator over the same
	// store, the way main wires it. Positions must not collide.
	for _, title := range []string{"one", "two"} {
		cmd := &commands.AddCmd{}
		cmd.SetParser(&fakeParser{draft: core.Draft{Title: title, Priority: core.Medium}})
		if _, stderr, code := runCommand(t, cmd, newService(st), []string{title}, true); code != exitcode.Success {
			t.Fatalf("add %q failed with code %d (stderr: %q)", title, code, stderr)
		}
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if len(tasks) != 2 || tasks[0].Position == tasks[1].Position {
		t.Fatalf("expected distinct positions across invocations, got %+v", tasks)
	}
	if tasks[0].Title != "one" || tasks[1].Title != "two" {
		t.Errorf("unexpected display order: %+v", tasks)
	}
}

func TestAddCommandNoText(t *testing.T) {
	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, newService(testutil.NewFakeStore()), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "text required") {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "buy milk")

	cmd := &commands.DoneCmd{}
	stdout, _, code := runCommand(t, cmd, newService(st), []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected output: %q", stdout)
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if !tasks[0].Done {
		t.Error("expected task marked done")
	}
}

func TestDoneCommandInvalidNumber(t *testing.T) {
	cmd := &commands.DoneCmd{}

	for _, arg := range []string{"x", "0", "-1"} {
		_, stderr, code := runCommand(t, cmd, newService(testutil.NewFakeStore()), []string{arg}, false)
		if code != exitcode.UserError {
			t.Errorf("arg %q: expected exit code %d, got %d", arg, exitcode.UserError, code)
		}
		if stderr == "" {
			t.Errorf("arg %q: expected error on stderr", arg)
		}
	}
}

func TestDoneCommandOutOfRange(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "only one")

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, newService(st), []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "no task at 5") {
		t.Errorf("expected out-of-range message, got %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "buy milk")

	cmd := &commands.EditCmd{}
	args := parseFlags(t, cmd, []string{"--title", "buy oat milk", "--priority", "high", "1"})

	_, stderr, code := runCommand(t, cmd, newService(st), args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if tasks[0].Title != "buy oat milk" || tasks[0].Priority != core.High {
		t.Errorf("edit not applied: %+v", tasks[0])
	}
}

func TestEditCommandKeepsUntouchedFields(t *testing.T) {
	st := testutil.NewFakeStore()
	task := core.NewTask("buy milk")
	task.Priority = core.Low
	st.SeedTask(owner, task)

	cmd := &commands.EditCmd{}
	args := parseFlags(t, cmd, []string{"--title", "buy oat milk", "1"})

	_, _, code := runCommand(t, cmd, newService(st), args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if tasks[0].Priority != core.Low {
		t.Errorf("untouched priority changed: %v", tasks[0].Priority)
	}
}

func TestEditCommandBadInput(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "buy milk")

	cmd := &commands.EditCmd{}

	// No flags at all.
	_, stderr, code := runCommand(t, cmd, newService(st), []string{"1"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "nothing to change") {
		t.Errorf("expected nothing-to-change message, got %q", stderr)
	}

	// Unknown priority value.
	cmd = &commands.EditCmd{}
	args := parseFlags(t, cmd, []string{"--priority", "sideways", "1"})
	_, stderr, code = runCommand(t, cmd, newService(st), args, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "invalid priority") {
		t.Errorf("expected invalid-priority message, got %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "buy milk", "write report")

	cmd := &commands.RmCmd{}
	_, _, code := runCommand(t, cmd, newService(st), []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if len(tasks) != 1 || tasks[0].Title != "write report" {
		t.Errorf("expected first task removed, got %+v", tasks)
	}
}

// Tests for move command
func TestMoveCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "A", "B", "C")

	cmd := &commands.MoveCmd{}
	stdout, _, code := runCommand(t, cmd, newService(st), []string{"1", "2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected output: %q", stdout)
	}

	tasks, _ := st.ListTasks(context.Background(), owner)
	if tasks[0].Title != "B" || tasks[1].Title != "A" || tasks[2].Title != "C" {
		t.Errorf("expected order B,A,C, got %+v", tasks)
	}
}

func TestMoveCommandPartialFailure(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "A", "B", "C")
	st.FailReorderAt = 1

	cmd := &commands.MoveCmd{}
	_, stderr, code := runCommand(t, cmd, newService(st), []string{"1", "3"}, false)

	// Partial reorder is a warning, not a failure.
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "warning:") {
		t.Errorf("expected warning on stderr, got %q", stderr)
	}
}

func TestMoveCommandInvalidArgs(t *testing.T) {
	cmd := &commands.MoveCmd{}

	cases := [][]string{nil, {"1"}, {"a", "b"}, {"0", "2"}}
	for _, args := range cases {
		_, _, code := runCommand(t, cmd, newService(testutil.NewFakeStore()), args, false)
		if code != exitcode.UserError {
			t.Errorf("args %v: expected exit code %d, got %d", args, exitcode.UserError, code)
		}
	}
}

// Tests for sync command
func TestSyncCommand(t *testing.T) {
	st := testutil.NewFakeStore()
	seedTasks(st, "A", "B")

	cmd := &commands.SyncCmd{}
	stdout, _, code := runCommand(t, cmd, newService(st), nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "synced 2 tasks\n" {
		t.Errorf("unexpected output: %q", stdout)
	}
}

// Tests for register command
func TestRegisterCommand(t *testing.T) {
	st := testutil.NewFakeStore()

	cmd := &commands.RegisterCmd{}
	cmd.SetStore(st)
	args := parseFlags(t, cmd, []string{"--password", "secret", "alice", "alice@example.com"})

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}
	code := cmd.Run(context.Background(), cfg, nil, args, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "registered alice\n" {
		t.Errorf("unexpected output: %q", outBuf.String())
	}

	// Registration signs the user in.
	if !cfg.HasSession() {
		t.Fatal("expected a saved session")
	}
	session, err := cfg.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if session.Username != "alice" || session.UserID == "" {
		t.Errorf("unexpected session: %+v", session)
	}
}

func TestRegisterCommandDuplicate(t *testing.T) {
	st := testutil.NewFakeStore()
	st.SeedUser(core.User{ID: "u1", Username: "alice"})

	cmd := &commands.RegisterCmd{}
	cmd.SetStore(st)
	args := parseFlags(t, cmd, []string{"--password", "secret", "alice", "alice@example.com"})

	_, stderr, code := runCommand(t, cmd, nil, args, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "registration failed") {
		t.Errorf("expected store diagnostic, got %q", stderr)
	}
}

func TestRegisterCommandMissingArgs(t *testing.T) {
	cmd := &commands.RegisterCmd{}
	_, _, code := runCommand(t, cmd, nil, []string{"alice"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
}

// Tests for login command
func TestLoginCommand(t *testing.T) {
	st := testutil.NewFakeStore()

	// Register through the real path so the stored hash is valid.
	reg := &commands.RegisterCmd{}
	reg.SetStore(st)
	regArgs := parseFlags(t, reg, []string{"--password", "secret", "alice", "alice@example.com"})
	if _, _, code := runCommand(t, reg, nil, regArgs, true); code != exitcode.Success {
		t.Fatalf("register failed with code %d", code)
	}

	cmd := &commands.LoginCmd{}
	cmd.SetStore(st)
	args := parseFlags(t, cmd, []string{"--password", "secret", "alice"})

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}
	code := cmd.Run(context.Background(), cfg, nil, args, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "logged in as alice\n" {
		t.Errorf("unexpected output: %q", outBuf.String())
	}
	if !cfg.HasSession() {
		t.Error("expected a saved session")
	}
}

func TestLoginCommandWrongPassword(t *testing.T) {
	st := testutil.NewFakeStore()

	reg := &commands.RegisterCmd{}
	reg.SetStore(st)
	regArgs := parseFlags(t, reg, []string{"--password", "secret", "alice", "alice@example.com"})
	runCommand(t, reg, nil, regArgs, true)

	cmd := &commands.LoginCmd{}
	cmd.SetStore(st)
	args := parseFlags(t, cmd, []string{"--password", "wrong", "alice"})

	_, stderr, code := runCommand(t, cmd, nil, args, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "invalid credentials") {
		t.Errorf("expected invalid-credentials message, got %q", stderr)
	}
}

func TestLoginCommandUnknownUser(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetStore(testutil.NewFakeStore())
	args := parseFlags(t, cmd, []string{"--password", "secret", "nobody"})

	_, stderr, code := runCommand(t, cmd, nil, args, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "user not found") {
		t.Errorf("expected user-not-found message, got %q", stderr)
	}
}

// Tests for logout command
func TestLogoutCommand(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if err := cfg.SaveSession(config.Session{UserID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cmd := &commands.LogoutCmd{}
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if cfg.HasSession() {
		t.Error("expected session removed")
	}
}

func TestLogoutCommandNotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	stdout, _, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "not logged in") {
		t.Errorf("unexpected output: %q", stdout)
	}
}

// Tests for config command
func TestConfigCommandShow(t *testing.T) {
	cmd := &commands.ConfigCmd{}
	stdout, _, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "auto parse: true") {
		t.Errorf("expected default auto-parse setting, got %q", stdout)
	}
	if !strings.Contains(stdout, "move_down") {
		t.Errorf("expected keybindings listed, got %q", stdout)
	}
}

func TestConfigCommandRebind(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	cmd := &commands.ConfigCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, []string{"move_down", "ctrl+j"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, errBuf.String())
	}

	settings := cfg.LoadSettings()
	if settings.Keybindings["move_down"] != "ctrl+j" {
		t.Errorf("rebind not persisted: %q", settings.Keybindings["move_down"])
	}
}

func TestConfigCommandUnknownAction(t *testing.T) {
	cmd := &commands.ConfigCmd{}
	_, stderr, code := runCommand(t, cmd, nil, []string{"launch_missiles", "x"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "unknown action") {
		t.Errorf("expected unknown-action message, got %q", stderr)
	}
}
