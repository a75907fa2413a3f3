package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	New(ctx context.Context) error
	List(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	CloseView(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Unwatch(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = `Available commands:
  new                      create a venture
  (l)ist                   list ventures
  open <n>                 show venture n and follow its changes
  close                    stop following the open venture
  edit <n>                 change name or description
  upload <n> <path...>     attach files to venture n
  rm <n> <file#>           delete one file
  clear <n>                delete all files of venture n
  delete <n>               delete venture n and its folder
  watch <n> [dir]          upload every file dropped into dir
  unwatch <n>              stop watching
  logout, help, exit`
)

// runREPL starts a simple read–eval–print loop for the Genio shell.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Venture commands require a session. Errors
// returned by handlers are printed and the loop goes on. The loop exits on
// EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("genio %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn(errorStyle.Render(err.Error()))
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "login":
			report(a.Login(ctx))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isKnown(cmd) {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "new":
			report(a.New(ctx))
		case "l", "list":
			report(a.List(ctx))
		case "open":
			report(a.Open(ctx, args))
		case "close":
			report(a.CloseView(ctx))
		case "edit":
			report(a.Edit(ctx, args))
		case "upload":
			report(a.Upload(ctx, args))
		case "rm":
			report(a.Remove(ctx, args))
		case "clear":
			report(a.Clear(ctx, args))
		case "delete":
			report(a.Delete(ctx, args))
		case "watch":
			report(a.Watch(ctx, args))
		case "unwatch":
			report(a.Unwatch(ctx, args))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var knownCommands = map[string]struct{}{
	"logout": {}, "new": {}, "l": {}, "list": {}, "open": {}, "close": {},
	"edit": {}, "upload": {}, "rm": {}, "clear": {}, "delete": {},
	"watch": {}, "unwatch": {},
}

func isKnown(cmd string) bool {
	_, ok := knownCommands[cmd]
	return ok
}

func report(err error) {
	if err != nil {
		printlnFn(errorStyle.Render("error: " + err.Error()))
	}
}
