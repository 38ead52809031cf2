package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockUserRepository creates a GormUserRepository over a mocked SQL
// connection, for asserting the exact queries GORM emits
func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(gormDB), mock, mockDB
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	t.Run("lowercases the email and scopes to the tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "email", "name", "role", "active"}).
			AddRow(userID, tenantID, "tech@fieldops.example", "Sam Rivera", "staff", true)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(tenant_id = \$1 AND email = \$2\)`).
			WithArgs(tenantID, "tech@fieldops.example", 1).
			WillReturnRows(rows)

		user, err := repo.FindByEmail(context.Background(), tenantID, "Tech@FieldOps.Example")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "Sam Rivera", user.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty email without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		_, err := repo.FindByEmail(context.Background(), uuid.New(), "")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WithArgs(tenantID, "ghost@fieldops.example", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByEmail(context.Background(), tenantID, "ghost@fieldops.example")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepository_FindByIDForTenant(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(tenant_id = \$1 AND id = \$2\)`).
		WithArgs(tenantID, userID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.FindByIDForTenant(context.Background(), tenantID, userID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_DeleteForTenant(t *testing.T) {
	t.Run("soft-deletes by setting deleted_at", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		userID := uuid.New()

		mock.ExpectExec(`UPDATE "users" SET "deleted_at"=\$1 WHERE \(tenant_id = \$2 AND id = \$3\)`).
			WithArgs(sqlmock.AnyArg(), tenantID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteForTenant(context.Background(), tenantID, userID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		userID := uuid.New()

		mock.ExpectExec(`UPDATE "users" SET "deleted_at"=\$1`).
			WithArgs(sqlmock.AnyArg(), tenantID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForTenant(context.Background(), tenantID, userID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepository_CountForTenant(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
