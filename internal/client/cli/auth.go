package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cipher/internal/client/client"
	"github.com/dmitrijs2005/cipher/internal/common"
)

// getSimpleText, getPassword and getHidden are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getHidden = GetHidden

// Register prompts for an email and password and creates an account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	account, err := a.client.Register(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s\n", account.Email)
	return nil
}

// Login authenticates with email and password. When the account has TOTP
// enabled the server answers with a pending token and the code is asked for
// right away. A wrong code leaves the session pending so "verify" can retry.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.email = email

	if resp.Scope == client.ScopePending {
		fmt.Fprintln(a.out, "Two-factor authentication required")
		return a.Verify(ctx)
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Verify completes a pending login with a TOTP code.
func (a *App) Verify(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter TOTP code", a.out)
	if err != nil {
		return err
	}

	if _, err := a.client.CompleteSecondFactor(ctx, code); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the token. Tokens are not revoked server side.
func (a *App) Logout(_ context.Context) error {
	a.client.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	acc, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}

	twoFactor := "disabled"
	if acc.TwoFactorEnabled {
		twoFactor = "enabled"
	}

	fmt.Fprintf(a.out, "ID:         %s\n", acc.ID)
	fmt.Fprintf(a.out, "Email:      %s\n", acc.Email)
	fmt.Fprintf(a.out, "2FA:        %s\n", twoFactor)
	fmt.Fprintf(a.out, "Created at: %s\n", formatTime(acc.CreatedAt))
	return nil
}

// EnableTwoFactor starts enrollment and shows the secret to add to an
// authenticator app. Nothing is enforced until 2fa-confirm succeeds.
func (a *App) EnableTwoFactor(ctx context.Context) error {
	enr, err := a.client.EnableSecondFactor(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Secret: %s\n", enr.Secret)
	fmt.Fprintf(a.out, "URI:    %s\n", enr.ProvisioningURI)
	fmt.Fprintln(a.out, "Add it to your authenticator app, then run 2fa-confirm")
	return nil
}

func (a *App) ConfirmTwoFactor(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter TOTP code", a.out)
	if err != nil {
		return err
	}

	if err := a.client.ConfirmSecondFactor(ctx, code); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Two-factor authentication enabled")
	return nil
}

func (a *App) DisableTwoFactor(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter TOTP code", a.out)
	if err != nil {
		return err
	}

	if err := a.client.DisableSecondFactor(ctx, code); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Two-factor authentication disabled")
	return nil
}
