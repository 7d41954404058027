package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecorder_Record(t *testing.T) {
	f := newFixture(t)
	rec := NewAuditRecorder(&memRepoManager{s: f.store}, f.clk)

	ctx := WithRequestInfo(context.Background(), RequestInfo{
		IP:        "203.0.113.7",
		UserAgent: strings.Repeat("ж", 600),
	})
	vaultID, secretID := "v-1", "s-1"

	got, err := rec.Record(ctx, f.db, models.ActionSecretAccessed, "acc-1", &vaultID, &secretID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, models.ActionSecretAccessed, got.Action)
	assert.Equal(t, "acc-1", *got.ActorID)
	assert.Equal(t, "v-1", *got.VaultID)
	assert.Equal(t, "s-1", *got.SecretID)
	assert.Equal(t, "203.0.113.7", got.IP)
	assert.Equal(t, 500, len([]rune(got.UserAgent)), "user agent truncated, not rejected")
	assert.Equal(t, epoch, got.CreatedAt)
}

func TestAuditRecorder_MissingProvenance(t *testing.T) {
	f := newFixture(t)
	rec := NewAuditRecorder(&memRepoManager{s: f.store}, f.clk)

	got, err := rec.Record(context.Background(), f.db, models.ActionVaultCreated, "acc-1", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got.IP)
	assert.Empty(t, got.UserAgent)
	assert.Nil(t, got.SecretID)
}

func TestAuditRecorder_AppendError(t *testing.T) {
	f := newFixture(t)
	f.store.appendErr = errors.New("disk full")
	rec := NewAuditRecorder(&memRepoManager{s: f.store}, f.clk)

	_, err := rec.Record(context.Background(), f.db, models.ActionVaultCreated, "acc-1", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit vault.created")
	assert.Contains(t, err.Error(), "disk full")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "жж", truncate("жжж", 2))
	assert.Equal(t, "", truncate("", 2))
}
