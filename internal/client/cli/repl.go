package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Verify(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EnableTwoFactor(ctx context.Context) error
	ConfirmTwoFactor(ctx context.Context) error
	DisableTwoFactor(ctx context.Context) error

	Vaults(ctx context.Context) error
	ShowVault(ctx context.Context) error
	NewVault(ctx context.Context) error
	Secrets(ctx context.Context) error
	NewSecret(ctx context.Context) error
	ReadSecret(ctx context.Context) error
	Members(ctx context.Context) error
	AddMember(ctx context.Context) error

	Logs(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Export(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, verify, exit"
	helpLoggedIn  = "Available commands: profile, 2fa-enable, 2fa-confirm, 2fa-disable, " +
		"vaults, vault, newvault, secrets, newsecret, read, members, addmember, " +
		"logs, dashboard, export, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit". A failing
// command is reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cipher %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "verify":
			cmdErr = a.Verify(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "2fa-enable":
			cmdErr = a.EnableTwoFactor(ctx)
		case "2fa-confirm":
			cmdErr = a.ConfirmTwoFactor(ctx)
		case "2fa-disable":
			cmdErr = a.DisableTwoFactor(ctx)

		case "vaults":
			cmdErr = a.Vaults(ctx)
		case "vault":
			cmdErr = a.ShowVault(ctx)
		case "newvault":
			cmdErr = a.NewVault(ctx)
		case "secrets":
			cmdErr = a.Secrets(ctx)
		case "newsecret":
			cmdErr = a.NewSecret(ctx)
		case "read":
			cmdErr = a.ReadSecret(ctx)
		case "members":
			cmdErr = a.Members(ctx)
		case "addmember":
			cmdErr = a.AddMember(ctx)

		case "logs":
			cmdErr = a.Logs(ctx)
		case "dashboard":
			cmdErr = a.Dashboard(ctx)
		case "export":
			cmdErr = a.Export(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}

		if err != nil {
			return
		}
	}
}
