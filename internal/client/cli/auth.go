package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/cryptox"
)

// Register creates an account. The salt is generated locally, the master
// key is derived from the passphrase and only its verifier leaves the
// machine. Losing the passphrase makes the vault unrecoverable; nobody,
// including the server operator, can reset it.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	salt := common.GenerateRandByteArray(cryptox.KeySize)

	key := cryptox.DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	if err := a.api.Register(ctx, email, salt, cryptox.MakeVerifier(key)); err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return err
	}

	printlnFn("Registered. Use 'login' to open your vault.")
	return nil
}

// Login fetches the account salt, re-derives the master key from the
// passphrase and authenticates with the verifier. On success the key is
// held in memory for the session.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	salt, err := a.api.GetSalt(ctx, email)
	if err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return err
	}

	key := cryptox.DeriveKey(password, salt)

	token, err := a.api.Login(ctx, email, cryptox.MakeVerifier(key))
	if err != nil {
		common.WipeByteArray(key)
		fmt.Printf("Login failed: %v\n", err)
		return err
	}

	a.api.SetToken(token)
	a.masterKey = key
	a.email = email

	printlnFn("Logged in.")
	return nil
}
