package secrets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+secrets\s*\(vault_id,\s*name,\s*description,\s*payload,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$5\)\s*RETURNING\s+id\s*$`

	desc := "prod db"
	mock.ExpectQuery(q).
		WithArgs("v-1", "db-password", desc, []byte{0x01, 0x02}, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s-1"))

	got, err := repo.Create(context.Background(), &models.Secret{
		VaultID: "v-1", Name: "db-password", Description: &desc, Payload: []byte{0x01, 0x02}, CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.ID)
	assert.Equal(t, now, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

var getQ = `(?s)^SELECT\s+id,\s*vault_id,\s*name,\s*description,\s*payload,.*FROM\s+secrets\s+WHERE\s+id\s*=\s*\$1\s+AND\s+vault_id\s*=\s*\$2\s*$`

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("s-1", "v-1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "vault_id", "name", "description", "payload", "created_at", "updated_at", "last_accessed_at"}).
			AddRow("s-1", "v-1", "db-password", nil, []byte("sealed"), now, now, nil))

	s, err := repo.Get(context.Background(), "v-1", "s-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("sealed"), s.Payload)
	assert.Nil(t, s.Description)
	assert.Nil(t, s.LastAccessedAt)
}

func TestGet_OtherVaultIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("s-1", "v-other").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "v-other", "s-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_MalformedIDIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("abc", "v-1").
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

	_, err := repo.Get(context.Background(), "v-1", "abc")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByVault(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*vault_id,\s*name,\s*description,\s*created_at,\s*updated_at,\s*last_accessed_at\s+FROM\s+secrets\s+WHERE\s+vault_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s*$`

	mock.ExpectQuery(q).WithArgs("v-1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "vault_id", "name", "description", "created_at", "updated_at", "last_accessed_at"}).
			AddRow("s-2", "v-1", "api-key", "stripe", now.Add(time.Minute), now.Add(time.Minute), now.Add(2*time.Minute)).
			AddRow("s-1", "v-1", "db-password", nil, now, now, nil))

	got, err := repo.ListByVault(context.Background(), "v-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s-2", got[0].ID)
	require.NotNil(t, got[0].LastAccessedAt)
	assert.Nil(t, got[0].Payload)
	assert.Nil(t, got[1].Description)
}

func TestTouch(t *testing.T) {
	q := `(?s)^UPDATE\s+secrets\s+SET\s+last_accessed_at\s*=\s*GREATEST\(COALESCE\(last_accessed_at,\s*\$2\),\s*\$2\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+last_accessed_at\s*$`

	t.Run("updates", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs("s-1", now).
			WillReturnRows(sqlmock.NewRows([]string{"last_accessed_at"}).AddRow(now))

		got, err := repo.Touch(context.Background(), "s-1", now)
		require.NoError(t, err)
		assert.Equal(t, now, got)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs("ghost", now).WillReturnError(sql.ErrNoRows)

		_, err := repo.Touch(context.Background(), "ghost", now)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WillReturnError(errors.New("boom"))

		_, err := repo.Touch(context.Background(), "s-1", now)
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})
}
