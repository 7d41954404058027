package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/auditlog"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/members"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/secrets"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/vaults"
)

// RepositoryManager vends repositories bound to a DBTX so that services can
// run several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Vaults(db dbx.DBTX) vaults.Repository
	Members(db dbx.DBTX) members.Repository
	Secrets(db dbx.DBTX) secrets.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
}
