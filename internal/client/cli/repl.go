package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. Tests replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddLicense(ctx context.Context) error
	ListLicenses(ctx context.Context) error
	RemoveLicense(ctx context.Context) error
	QueryPlate(ctx context.Context) error
	ScanImage(ctx context.Context) error
	AttachPhoto(ctx context.Context) error
}

// runREPL reads lines from the scanner, parses the first token as the command
// and dispatches to methods on a. Unknown commands are reported back to the
// user. The loop exits on scanner EOF or when the user types "exit" or "quit".
//
// The two command sets correspond to the two views of the app: logged out
// (register, login) and logged in (add, list, remove, query, scan, photo,
// logout).
//
// Errors returned by command handlers are ignored here; handlers print their
// own status messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("px %s> ", statusFn()))
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
				printlnFn("Available commands: add, (l)ist, remove, query, scan, photo, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "add":
			_ = a.AddLicense(ctx)

		case "l", "list":
			_ = a.ListLicenses(ctx)

		case "remove":
			_ = a.RemoveLicense(ctx)

		case "query":
			_ = a.QueryPlate(ctx)

		case "scan":
			_ = a.ScanImage(ctx)

		case "photo":
			_ = a.AttachPhoto(ctx)

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
