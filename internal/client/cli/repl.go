package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Heartbeat(ctx context.Context) error
	Status(ctx context.Context) error
	Settings(ctx context.Context) error
	AddMessage(ctx context.Context) error
	AddKey(ctx context.Context) error
	AddDocument(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Delete(ctx context.Context) error
	AddHeir(ctx context.Context) error
	ListHeirs(ctx context.Context) error
	DeleteHeir(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("lk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: heartbeat, status, settings, addmessage, addkey, adddoc, (l)ist, show, delete, addheir, heirs, delheir, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "heartbeat", "checkin":
			_ = a.Heartbeat(ctx)

		case "status":
			_ = a.Status(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "addmessage":
			_ = a.AddMessage(ctx)

		case "addkey":
			_ = a.AddKey(ctx)

		case "adddoc":
			_ = a.AddDocument(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "addheir":
			_ = a.AddHeir(ctx)

		case "heirs":
			_ = a.ListHeirs(ctx)

		case "delheir":
			_ = a.DeleteHeir(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
