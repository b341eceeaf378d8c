// Package cli is the interactive terminal client. All key derivation and
// encryption happens here, on the user's machine; the server only ever
// receives the salt, the key verifier and opaque ciphertext.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/legacykeeper/internal/client/api"
	"github.com/dmitrijs2005/legacykeeper/internal/client/config"
	"github.com/dmitrijs2005/legacykeeper/internal/common"
)

type App struct {
	config    *config.Config
	api       *api.Client
	reader    *bufio.Reader
	masterKey []byte
	email     string
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerBaseURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.masterKey != nil
}

func (a *App) Logout(ctx context.Context) error {
	common.WipeByteArray(a.masterKey)
	a.masterKey = nil
	a.email = ""
	a.api.SetToken("")
	printlnFn("Logged out.")
	return nil
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.email
	}
	return "not logged in"
}
