package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/cryptox"
	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/auth"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/auditlog"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/members"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/secrets"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/vaults"
	"github.com/dmitrijs2005/cipher/internal/server/totp"
	"github.com/google/uuid"
	"github.com/juju/clock/testclock"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// --- in-memory storage ---

type memStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	vaults   map[string]*models.Vault
	members  []models.Membership
	secrets  map[string]*models.Secret
	audit    []models.AuditRecord
	nextID   int64

	journals    map[int64]*txJournal
	nextJournal int64

	appendErr error
	// memberGets, when set, holds every Members.Get call until all callers
	// have arrived, forcing a check-then-act race.
	memberGets *sync.WaitGroup
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]*models.Account{},
		vaults:   map[string]*models.Vault{},
		secrets:  map[string]*models.Secret{},
		journals: map[int64]*txJournal{},
	}
}

// --- transactions ---

// txIdentityQuery is answered by journalConn with the id of the journal
// bound to the open transaction.
const txIdentityQuery = "-- cipher:journal"

// txJournal collects the undo steps of writes made inside one transaction.
// It is guarded by memStore.mu.
type txJournal struct {
	undo []func(s *memStore)
}

// add is a no-op outside a transaction.
func (j *txJournal) add(undo func(s *memStore)) {
	if j != nil {
		j.undo = append(j.undo, undo)
	}
}

func (s *memStore) openJournal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextJournal++
	s.journals[s.nextJournal] = &txJournal{}
	return s.nextJournal
}

// closeJournal drops the journal, reverting its writes when rollback is set.
func (s *memStore) closeJournal(id int64, rollback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.journals[id]
	delete(s.journals, id)
	if !ok || !rollback {
		return
	}
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i](s)
	}
}

func (s *memStore) journalByID(id int64) *txJournal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journals[id]
}

// journalConnector opens sqlmock connections wrapped in journalConn so that
// commit and rollback reach the in-memory store.
type journalConnector struct {
	drv   driver.Driver
	dsn   string
	store *memStore
}

func (c journalConnector) Connect(context.Context) (driver.Conn, error) {
	inner, err := c.drv.Open(c.dsn)
	if err != nil {
		return nil, err
	}
	return &journalConn{Conn: inner, store: c.store}, nil
}

func (c journalConnector) Driver() driver.Driver { return c.drv }

type journalConn struct {
	driver.Conn
	store   *memStore
	current int64
}

func (c *journalConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *journalConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	var (
		tx  driver.Tx
		err error
	)
	if b, ok := c.Conn.(driver.ConnBeginTx); ok {
		tx, err = b.BeginTx(ctx, opts)
	} else {
		tx, err = c.Conn.Begin()
	}
	if err != nil {
		return nil, err
	}
	c.current = c.store.openJournal()
	return &journalTx{Tx: tx, conn: c, id: c.current}, nil
}

func (c *journalConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if query == txIdentityQuery {
		return journalResult(c.current), nil
	}
	if e, ok := c.Conn.(driver.ExecerContext); ok {
		return e.ExecContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

func (c *journalConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if q, ok := c.Conn.(driver.QueryerContext); ok {
		return q.QueryContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

type journalTx struct {
	driver.Tx
	conn *journalConn
	id   int64
}

// Commit keeps the writes unless the commit itself fails.
func (t *journalTx) Commit() error {
	err := t.Tx.Commit()
	t.conn.current = 0
	t.conn.store.closeJournal(t.id, err != nil)
	return err
}

func (t *journalTx) Rollback() error {
	err := t.Tx.Rollback()
	t.conn.current = 0
	t.conn.store.closeJournal(t.id, true)
	return err
}

type journalResult int64

func (r journalResult) LastInsertId() (int64, error) { return int64(r), nil }
func (r journalResult) RowsAffected() (int64, error) { return 0, nil }

type memRepoManager struct{ s *memStore }

// journal returns the journal of the transaction behind db, or nil when db
// is not a transaction.
func (m *memRepoManager) journal(db dbx.DBTX) *txJournal {
	tx, ok := db.(*sql.Tx)
	if !ok {
		return nil
	}
	res, err := tx.ExecContext(context.Background(), txIdentityQuery)
	if err != nil {
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		return nil
	}
	return m.s.journalByID(id)
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memRepoManager) Accounts(db dbx.DBTX) accounts.Repository {
	return memAccounts{s: m.s, j: m.journal(db)}
}

func (m *memRepoManager) Vaults(db dbx.DBTX) vaults.Repository {
	return memVaults{s: m.s, j: m.journal(db)}
}

func (m *memRepoManager) Members(db dbx.DBTX) members.Repository {
	return memMembers{s: m.s, j: m.journal(db)}
}

func (m *memRepoManager) Secrets(db dbx.DBTX) secrets.Repository {
	return memSecrets{s: m.s, j: m.journal(db)}
}

func (m *memRepoManager) AuditLog(db dbx.DBTX) auditlog.Repository {
	return memAudit{s: m.s, j: m.journal(db)}
}

type memAccounts struct {
	s *memStore
	j *txJournal
}

func (r memAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.Email == a.Email {
			return nil, common.ErrConflict
		}
	}
	a.ID = uuid.NewString()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.s.accounts[a.ID] = &cp
	id := a.ID
	r.j.add(func(s *memStore) { delete(s.accounts, id) })
	return a, nil
}

func (r memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memAccounts) UpdateSecondFactor(_ context.Context, id string, secret *string, enabled bool, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	prev := *a
	r.j.add(func(s *memStore) { s.accounts[id] = &prev })
	if secret != nil {
		v := *secret
		a.TwoFactorSecret = &v
	} else {
		a.TwoFactorSecret = nil
	}
	a.TwoFactorEnabled = enabled
	a.UpdatedAt = at
	return nil
}

type memVaults struct {
	s *memStore
	j *txJournal
}

func (r memVaults) Create(_ context.Context, v *models.Vault) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = uuid.NewString()
	v.UpdatedAt = v.CreatedAt
	cp := *v
	r.s.vaults[v.ID] = &cp
	id := v.ID
	r.j.add(func(s *memStore) { delete(s.vaults, id) })
	return v, nil
}

func (r memVaults) GetByID(_ context.Context, id string) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vaults[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (r memVaults) ListAccessible(_ context.Context, accountID string) ([]models.VaultSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]models.VaultSummary, 0)
	for _, v := range r.s.vaults {
		role := ""
		if v.OwnerID == accountID {
			role = models.RoleOwner
		} else {
			for _, m := range r.s.members {
				if m.VaultID == v.ID && m.AccountID == accountID {
					role = m.Role
				}
			}
		}
		if role == "" {
			continue
		}
		s := r.s.summarizeLocked(v)
		s.Role = role
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r memVaults) Summarize(_ context.Context, v *models.Vault) (*models.VaultSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.summarizeLocked(v), nil
}

func (s *memStore) summarizeLocked(v *models.Vault) *models.VaultSummary {
	sum := &models.VaultSummary{Vault: *v}
	for _, sec := range s.secrets {
		if sec.VaultID == v.ID {
			sum.SecretsCount++
		}
	}
	for _, m := range s.members {
		if m.VaultID == v.ID {
			sum.MembersCount++
		}
	}
	for _, a := range s.audit {
		if a.VaultID != nil && *a.VaultID == v.ID {
			if sum.LastActivityAt == nil || a.CreatedAt.After(*sum.LastActivityAt) {
				t := a.CreatedAt
				sum.LastActivityAt = &t
			}
		}
	}
	return sum
}

type memMembers struct {
	s *memStore
	j *txJournal
}

// Add enforces the (vault, account) uniqueness like the database constraint.
func (r memMembers) Add(_ context.Context, m *models.Membership) (*models.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.members {
		if existing.VaultID == m.VaultID && existing.AccountID == m.AccountID {
			return nil, common.ErrConflict
		}
	}
	m.ID = uuid.NewString()
	r.s.members = append(r.s.members, *m)
	id := m.ID
	r.j.add(func(s *memStore) {
		kept := s.members[:0]
		for _, existing := range s.members {
			if existing.ID != id {
				kept = append(kept, existing)
			}
		}
		s.members = kept
	})
	return m, nil
}

func (r memMembers) Get(_ context.Context, vaultID, accountID string) (*models.Membership, error) {
	if wg := r.s.memberGets; wg != nil {
		wg.Done()
		wg.Wait()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.VaultID == vaultID && m.AccountID == accountID {
			cp := m
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memMembers) ListByVault(_ context.Context, vaultID string) ([]models.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]models.Membership, 0)
	for _, m := range r.s.members {
		if m.VaultID == vaultID {
			if a, ok := r.s.accounts[m.AccountID]; ok {
				m.Email = a.Email
			}
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *memStore) countMembers(vaultID, accountID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.members {
		if m.VaultID == vaultID && m.AccountID == accountID {
			n++
		}
	}
	return n
}

type memSecrets struct {
	s *memStore
	j *txJournal
}

func (r memSecrets) Create(_ context.Context, sec *models.Secret) (*models.Secret, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec.ID = uuid.NewString()
	sec.UpdatedAt = sec.CreatedAt
	cp := *sec
	r.s.secrets[sec.ID] = &cp
	id := sec.ID
	r.j.add(func(s *memStore) { delete(s.secrets, id) })
	return sec, nil
}

func (r memSecrets) Get(_ context.Context, vaultID, secretID string) (*models.Secret, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec, ok := r.s.secrets[secretID]
	if !ok || sec.VaultID != vaultID {
		return nil, common.ErrorNotFound
	}
	cp := *sec
	return &cp, nil
}

func (r memSecrets) ListByVault(_ context.Context, vaultID string) ([]models.Secret, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]models.Secret, 0)
	for _, sec := range r.s.secrets {
		if sec.VaultID == vaultID {
			cp := *sec
			cp.Payload = nil
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r memSecrets) Touch(_ context.Context, secretID string, at time.Time) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sec, ok := r.s.secrets[secretID]
	if !ok {
		return time.Time{}, common.ErrorNotFound
	}
	if sec.LastAccessedAt == nil || at.After(*sec.LastAccessedAt) {
		prev := sec.LastAccessedAt
		r.j.add(func(s *memStore) {
			if cur, ok := s.secrets[secretID]; ok {
				cur.LastAccessedAt = prev
			}
		})
		sec.LastAccessedAt = &at
	}
	return *sec.LastAccessedAt, nil
}

type memAudit struct {
	s *memStore
	j *txJournal
}

func (r memAudit) Append(_ context.Context, rec *models.AuditRecord) (*models.AuditRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.appendErr != nil {
		return nil, r.s.appendErr
	}
	r.s.nextID++
	rec.ID = r.s.nextID
	r.s.audit = append(r.s.audit, *rec)
	id := rec.ID
	r.j.add(func(s *memStore) {
		kept := s.audit[:0]
		for _, a := range s.audit {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		s.audit = kept
	})
	return rec, nil
}

func (r memAudit) ListByVault(_ context.Context, vaultID string, limit int) ([]models.AuditRecord, error) {
	return r.s.listAudit(func(a models.AuditRecord) bool {
		return a.VaultID != nil && *a.VaultID == vaultID
	}, limit), nil
}

func (r memAudit) ListAccessible(_ context.Context, accountID string, limit int) ([]models.AuditRecord, error) {
	reachable := r.s.reachable(accountID)
	return r.s.listAudit(func(a models.AuditRecord) bool {
		return a.VaultID != nil && reachable[*a.VaultID]
	}, limit), nil
}

func (r memAudit) CountAccessible(_ context.Context, accountID, action string) (int, error) {
	reachable := r.s.reachable(accountID)
	return len(r.s.listAudit(func(a models.AuditRecord) bool {
		return a.Action == action && a.VaultID != nil && reachable[*a.VaultID]
	}, 0)), nil
}

func (s *memStore) reachable(accountID string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]bool{}
	for _, v := range s.vaults {
		if v.OwnerID == accountID {
			out[v.ID] = true
		}
	}
	for _, m := range s.members {
		if m.AccountID == accountID {
			out[m.VaultID] = true
		}
	}
	return out
}

func (s *memStore) listAudit(keep func(models.AuditRecord) bool, limit int) []models.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]models.AuditRecord, 0)
	for _, a := range s.audit {
		if keep(a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (s *memStore) auditFor(action string) []models.AuditRecord {
	return s.listAudit(func(a models.AuditRecord) bool { return a.Action == action }, 0)
}

// --- object storage ---

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func (o *memObjects) Put(_ context.Context, key string, body []byte, _ string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.putErr != nil {
		return o.putErr
	}
	if o.objects == nil {
		o.objects = map[string][]byte{}
	}
	o.objects[key] = body
	return nil
}

func (o *memObjects) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "http://objects.local/" + key + "?ttl=" + ttl.String(), nil
}

// --- fixture ---

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	store    *memStore
	objects  *memObjects
	clk      *testclock.Clock
	verifier *totp.Verifier

	tokens   *TokenService
	twofa    *TwoFactorService
	accounts *AccountService
	vaults   *VaultService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "cipher_" + uuid.NewString()
	raw, mock, err := sqlmock.NewWithDSN(dsn)
	if err != nil {
		t.Fatalf("sqlmock.NewWithDSN error: %v", err)
	}

	store := newMemStore()
	db := sql.OpenDB(journalConnector{drv: raw.Driver(), dsn: dsn, store: store})
	t.Cleanup(func() {
		db.Close()
		raw.Close()
	})

	rm := &memRepoManager{s: store}
	clk := testclock.NewClock(epoch)
	verifier := totp.NewVerifier("Cipher", clk)
	signer := auth.NewSigner([]byte("test-secret"), clk)

	sealer, err := cryptox.NewSealer("test-seal-key")
	if err != nil {
		t.Fatalf("NewSealer error: %v", err)
	}

	objects := &memObjects{}
	tokens := NewTokenService(db, rm, signer, verifier, time.Hour)

	return &fixture{
		db:       db,
		mock:     mock,
		store:    store,
		objects:  objects,
		clk:      clk,
		verifier: verifier,
		tokens:   tokens,
		twofa:    NewTwoFactorService(db, rm, verifier, clk),
		accounts: NewAccountService(db, rm, clk),
		vaults: NewVaultService(VaultServiceDeps{
			DB:          db,
			Repomanager: rm,
			Tokens:      tokens,
			Access:      NewAccessController(rm),
			Audit:       NewAuditRecorder(rm, clk),
			Sealer:      sealer,
			Store:       objects,
			ExportTTL:   10 * time.Minute,
			Clock:       clk,
		}),
	}
}

func (f *fixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func (f *fixture) verifyTx(t *testing.T) {
	t.Helper()
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// addAccount stores an account directly, bypassing Register.
func (f *fixture) addAccount(t *testing.T, email, password string) *models.Account {
	t.Helper()
	a, err := memAccounts{s: f.store}.Create(context.Background(), &models.Account{
		Email:        email,
		PasswordHash: cryptox.HashPassword([]byte(password)),
		CreatedAt:    f.clk.Now(),
	})
	if err != nil {
		t.Fatalf("add account: %v", err)
	}
	return a
}

// addVault creates a vault through the service.
func (f *fixture) addVault(t *testing.T, ownerID, name string) *models.VaultSummary {
	t.Helper()
	f.expectCommit()
	v, err := f.vaults.CreateVault(context.Background(), ownerID, name, nil)
	if err != nil {
		t.Fatalf("create vault: %v", err)
	}
	return v
}

// enableSecondFactor runs Enable and Confirm for accountID and returns the secret.
func (f *fixture) enableSecondFactor(t *testing.T, accountID string) string {
	t.Helper()
	ctx := context.Background()

	f.expectCommit()
	e, err := f.twofa.Enable(ctx, accountID)
	if err != nil {
		t.Fatalf("enable: %v", err)
	}

	code, err := f.verifier.Code(e.Secret)
	if err != nil {
		t.Fatalf("code: %v", err)
	}

	f.expectCommit()
	if err := f.twofa.Confirm(ctx, accountID, code); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return e.Secret
}

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.NewVerifier("Cipher", testclock.NewClock(at)).Code(secret)
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	return code
}
