package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/cipher/internal/client/client"
	"github.com/dmitrijs2005/cipher/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewCipherClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, reader: bufio.NewReader(in), out: out}
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	log.Println("Welcome to Cipher CLI (type 'help' for commands)")

	if err := a.client.Ping(ctx); err != nil {
		log.Printf("Server %s is not reachable: %s", a.config.ServerEndpointAddr, describe(err))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.client.Scope() == client.ScopeFull
}

func (a *App) getStatus() string {
	switch a.client.Scope() {
	case client.ScopeFull:
		return fmt.Sprintf("(%s)", a.email)
	case client.ScopePending:
		return fmt.Sprintf("(%s, 2fa pending)", a.email)
	}
	return ""
}

// describe renders err for the user.
func describe(err error) string {
	if errors.Is(err, client.ErrUnavailable) {
		return "server unavailable"
	}
	return err.Error()
}
