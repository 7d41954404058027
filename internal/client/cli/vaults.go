package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cipher/internal/common"
)

func (a *App) Vaults(ctx context.Context) error {
	vaults, err := a.client.ListVaults(ctx)
	if err != nil {
		return err
	}

	if len(vaults) == 0 {
		fmt.Fprintln(a.out, "No vaults")
		return nil
	}

	printVaults(a.out, vaults)
	return nil
}

func (a *App) ShowVault(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID", a.out)
	if err != nil {
		return err
	}

	v, err := a.client.GetVault(ctx, vaultID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:            %s\n", v.ID)
	fmt.Fprintf(a.out, "Name:          %s\n", v.Name)
	fmt.Fprintf(a.out, "Description:   %s\n", deref(v.Description))
	fmt.Fprintf(a.out, "Role:          %s\n", v.Role)
	fmt.Fprintf(a.out, "Secrets:       %d\n", v.SecretsCount)
	fmt.Fprintf(a.out, "Members:       %d\n", v.MembersCount)
	fmt.Fprintf(a.out, "Created at:    %s\n", formatTime(v.CreatedAt))
	fmt.Fprintf(a.out, "Last activity: %s\n", formatTimePtr(v.LastActivityAt))
	return nil
}

func (a *App) NewVault(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter vault name", a.out)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	v, err := a.client.CreateVault(ctx, name, optional(description))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created vault %s (%s)\n", v.Name, v.ID)
	return nil
}

func (a *App) Secrets(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID", a.out)
	if err != nil {
		return err
	}

	secrets, err := a.client.ListSecrets(ctx, vaultID)
	if err != nil {
		return err
	}

	if len(secrets) == 0 {
		fmt.Fprintln(a.out, "No secrets")
		return nil
	}

	printSecrets(a.out, secrets)
	return nil
}

// NewSecret reads the value without echo and wipes it afterwards.
func (a *App) NewSecret(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID", a.out)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter secret name", a.out)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	value, err := getHidden("Enter secret value", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(value)

	s, err := a.client.CreateSecret(ctx, vaultID, name, optional(description), string(value))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created secret %s (%s)\n", s.Name, s.ID)
	return nil
}

// ReadSecret reveals a secret value. Every read is recorded in the vault's
// audit log.
func (a *App) ReadSecret(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID", a.out)
	if err != nil {
		return err
	}

	secretID, err := getSimpleText(a.reader, "Enter secret ID", a.out)
	if err != nil {
		return err
	}

	v, err := a.client.ReadSecret(ctx, vaultID, secretID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %s\n", v.Name, v.Value)
	return nil
}

func (a *App) Members(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID", a.out)
	if err != nil {
		return err
	}

	members, err := a.client.ListMembers(ctx, vaultID)
	if err != nil {
		return err
	}

	if len(members) == 0 {
		fmt.Fprintln(a.out, "No members")
		return nil
	}

	printMembers(a.out, members)
	return nil
}

// AddMember shares a vault. A blank role lets the server apply its default.
func (a *App) AddMember(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter member email", a.out)
	if err != nil {
		return err
	}

	role, err := getSimpleText(a.reader, "Enter role (default member)", a.out)
	if err != nil {
		return err
	}

	m, err := a.client.AddMember(ctx, vaultID, email, role)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added %s as %s\n", m.Email, m.Role)
	return nil
}
