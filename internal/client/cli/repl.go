package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/expensekeeper/internal/client/console"
	"github.com/dmitrijs2005/expensekeeper/internal/client/services"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	BioLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Biometrics(ctx context.Context) error
	BioEnable(ctx context.Context) error
	BioDisable(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, bio-login, exit"
	helpLoggedIn  = "Available commands: (l)ist, add, edit <id>, delete <id>, whoami, biometrics, bio-enable, bio-disable, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the ExpenseKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The remaining tokens are passed to commands
// that take arguments. The loop exits on EOF, on ctx cancellation, or when
// the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account and log in
//	  - login          authenticate with email and password
//	  - bio-login      authenticate with the biometric shortcut
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - list | l       list expenses with their total
//	  - add            add an expense
//	  - edit <id>      edit an expense
//	  - delete <id>    delete an expense
//	  - whoami         show the current user
//	  - biometrics     show the biometric status
//	  - bio-enable     enable the biometric shortcut
//	  - bio-disable    disable the biometric shortcut
//	  - logout         log out and forget stored credentials
//
// Handler errors never stop the loop; they are printed as a short
// user-facing message.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *console.LineReader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "ek%s> ", prefixSpace(statusFn()))

		line, err := reader.ReadLine(ctx)
		if err != nil {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "bio-login":
			cmdErr = a.BioLogin(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.Whoami(ctx)

		case "biometrics":
			cmdErr = a.Biometrics(ctx)

		case "bio-enable":
			cmdErr = a.BioEnable(ctx)

		case "bio-disable":
			cmdErr = a.BioDisable(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "add":
			cmdErr = a.Add(ctx)

		case "edit":
			cmdErr = a.Edit(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", services.UserMessage(cmdErr))
		}
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
