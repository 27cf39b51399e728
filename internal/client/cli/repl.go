package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Show(ctx context.Context, ref string) error
	SetCompleted(ctx context.Context, ref string, completed bool) error
	Edit(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: list, add, show <id>, done <id>, undone <id>, edit <id>, delete <id>, profile, logout, help, exit\n" +
		"<id> may be a todo id or its number in the last list"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The prompt shows statusFn. Todo and session commands require a login.
// The loop exits on EOF, on "exit"/"quit" or when ctx is cancelled.
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("todo> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn(describeError(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	switch cmd {
	case "logout", "profile", "l", "list", "add", "show", "done", "undone", "edit", "delete":
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}

	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "profile":
		return a.Profile(ctx)
	case "l", "list":
		return a.List(ctx)
	case "add":
		return a.Add(ctx)
	}

	if len(args) != 1 {
		printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
		return nil
	}
	ref := args[0]

	switch cmd {
	case "show":
		return a.Show(ctx, ref)
	case "done":
		return a.SetCompleted(ctx, ref, true)
	case "undone":
		return a.SetCompleted(ctx, ref, false)
	case "edit":
		return a.Edit(ctx, ref)
	default:
		return a.Delete(ctx, ref)
	}
}

// describeError turns an API failure into a line for the user.
func describeError(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "Session expired, please login again"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later"
	case errors.Is(err, client.ErrNotFound):
		return "Not found"
	case errors.As(err, &apiErr):
		return "Error: " + apiErr.Error()
	}
	return "Error: " + err.Error()
}
