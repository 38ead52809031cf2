package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database and migrates the given models
func newTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func createStoredClient(t *testing.T, repo *GormClientRepository, tenantID uuid.UUID, code, name string) *directory.Client {
	t.Helper()
	client, err := directory.NewClient(tenantID, code, name, directory.ClientTypeIndividual)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), client))
	return client
}

func TestGormClientRepository_FindByIDForTenant(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()
	client := createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")

	t.Run("finds client in its tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, client.ID)

		require.NoError(t, err)
		assert.Equal(t, client.ID, found.ID)
		assert.Equal(t, "ACME-01", found.Code)
	})

	t.Run("does not cross tenant boundaries", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), client.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClientRepository_FindByCode(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()
	createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")

	t.Run("matches case-insensitively", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, tenantID, "acme-01")

		require.NoError(t, err)
		assert.Equal(t, "ACME-01", found.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, tenantID, "NOPE-99")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClientRepository_FindByLegacyRef(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()

	client := createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")
	client.LegacyRef = "obj-42"
	require.NoError(t, repo.Save(ctx, client))

	t.Run("finds imported client", func(t *testing.T) {
		found, err := repo.FindByLegacyRef(ctx, tenantID, "obj-42")

		require.NoError(t, err)
		assert.Equal(t, client.ID, found.ID)
	})

	t.Run("rejects empty ref", func(t *testing.T) {
		_, err := repo.FindByLegacyRef(ctx, tenantID, "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_LEGACY_REF", domainErr.Code)
	})
}

func TestGormClientRepository_SaveWithLock(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()
	client := createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")

	require.NoError(t, client.Update("Acme Plumbing LLC"))
	require.NoError(t, repo.SaveWithLock(ctx, client))

	// The stored version has moved on, so replaying the same write must
	// fail with a conflict
	err := repo.SaveWithLock(ctx, client)

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormClientRepository_SaveWithLock_PersistsClearedFields(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()
	client := createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")

	client.SetNotes("call before visiting")
	require.NoError(t, repo.SaveWithLock(ctx, client))

	// Clearing a field writes a zero value; the locked update must not
	// skip it and leave the old value behind
	client.SetNotes("")
	require.NoError(t, repo.SaveWithLock(ctx, client))

	found, err := repo.FindByIDForTenant(ctx, tenantID, client.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Notes)
	assert.Equal(t, client.Version, found.Version)
}

func TestGormClientRepository_DeleteForTenant(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()
	client := createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")

	t.Run("soft-deletes and hides the client", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, client.ID))

		_, err := repo.FindByIDForTenant(ctx, tenantID, client.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("missing client", func(t *testing.T) {
		err := repo.DeleteForTenant(ctx, tenantID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClientRepository_FindAllForTenant(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()

	createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")
	createStoredClient(t, repo, tenantID, "BOLT-01", "Bolt Electric")
	createStoredClient(t, repo, uuid.New(), "OTHR-01", "Other Tenant Co")

	t.Run("scopes to the tenant", func(t *testing.T) {
		clients, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})

		require.NoError(t, err)
		assert.Len(t, clients, 2)
	})

	t.Run("orders and paginates", func(t *testing.T) {
		clients, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{
			OrderBy:  "name",
			OrderDir: "desc",
			Page:     1,
			PageSize: 1,
		})

		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "Bolt Electric", clients[0].Name)
	})
}

func TestGormClientRepository_ExistsByCode(t *testing.T) {
	repo := NewGormClientRepository(newTestDB(t, &directory.Client{}))
	ctx := context.Background()
	tenantID := uuid.New()
	createStoredClient(t, repo, tenantID, "ACME-01", "Acme Plumbing")

	exists, err := repo.ExistsByCode(ctx, tenantID, "acme-01")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, tenantID, "NOPE-99")
	require.NoError(t, err)
	assert.False(t, exists)
}
