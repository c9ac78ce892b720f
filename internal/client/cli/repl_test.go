package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/console"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) BioLogin(ctx context.Context) error {
	return f.record("bio-login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(ctx context.Context) error     { return f.record("whoami") }
func (f *fakeExec) Biometrics(ctx context.Context) error { return f.record("biometrics") }
func (f *fakeExec) BioEnable(ctx context.Context) error  { return f.record("bio-enable") }
func (f *fakeExec) BioDisable(ctx context.Context) error { return f.record("bio-disable") }
func (f *fakeExec) List(ctx context.Context) error       { return f.record("list") }
func (f *fakeExec) Add(ctx context.Context) error        { return f.record("add") }
func (f *fakeExec) Edit(ctx context.Context, args []string) error {
	f.args = append(f.args, args)
	return f.record("edit")
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	f.args = append(f.args, args)
	return f.record("delete")
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"add",
		"l",
		"edit 7",
		"delete 7",
		"whoami",
		"biometrics",
		"bio-enable",
		"bio-disable",
		"foobar",
		"logout",
		"bio-login",
		"register",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "(status)" }, rdr(input), &out)

	require.Equal(t, []string{
		"login", "add", "list", "edit", "delete", "whoami", "biometrics",
		"bio-enable", "bio-disable", "logout", "bio-login", "register",
	}, exec.calls)
	require.Equal(t, [][]string{{"7"}, {"7"}}, exec.args)

	text := out.String()
	require.Contains(t, text, helpLoggedOut)
	require.Contains(t, text, helpLoggedIn)
	require.Contains(t, text, "Unknown command: foobar")
	require.Contains(t, text, "ek (status)> ")
	require.Contains(t, text, "Bye!")
}

func TestRunREPL_PrintsUserMessageOnError(t *testing.T) {
	exec := &fakeExec{loggedIn: true, err: client.ErrServerUnreachable}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr("list\nquit\n"), &out)

	require.Equal(t, []string{"list"}, exec.calls)
	require.Contains(t, out.String(), "Error: Unable to connect to server")
	require.Contains(t, out.String(), "ek> ")
}

func TestRunREPL_EOFAndLastLineWithoutNewline(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	var out bytes.Buffer

	runREPL(context.Background(), exec, func() string { return "" }, rdr("whoami"), &out)

	require.Equal(t, []string{"whoami"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(ctx, exec, func() string { return "" }, rdr("login\n"), &out)

	require.Empty(t, exec.calls)
}

func TestRunREPL_StopsWhileWaitingForInput(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, &fakeExec{}, func() string { return "" }, console.NewLineReader(r), io.Discard)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("REPL kept waiting after cancel")
	}
}
