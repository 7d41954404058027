// Package cli provides the interactive Cipher command-line client.
//
// It wires configuration, the gRPC client and a REPL. Login is two-stage when
// the account has TOTP enabled: the password yields a pending token and the
// CLI asks for the code straight away.
//
// Commands cover the account (register, login, verify, logout, profile, the
// 2fa-* family), vaults and secrets (vaults, vault, newvault, secrets,
// newsecret, read), sharing (members, addmember) and auditing (logs,
// dashboard, export). Export downloads the presigned document into ./exports.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
