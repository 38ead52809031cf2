package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockSequenceRepository(t *testing.T) (*GormSequenceRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormSequenceRepository(gormDB), mock, mockDB
}

func TestGormSequenceRepository_NextNumber_IncrementsExistingCounter(t *testing.T) {
	repo, mock, mockDB := newMockSequenceRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE tenant_id = \$1 AND kind = \$2.*FOR UPDATE`).
		WithArgs(tenantID, "invoice", 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "kind", "next_value"}).
			AddRow(tenantID, "invoice", int64(7)))
	mock.ExpectExec(`UPDATE "document_sequences" SET "next_value"=next_value \+ 1 WHERE tenant_id = \$1 AND kind = \$2`).
		WithArgs(tenantID, "invoice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	value, err := repo.NextNumber(context.Background(), tenantID, billing.DocumentKindInvoice)

	require.NoError(t, err)
	assert.Equal(t, int64(7), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSequenceRepository_NextNumber_RetriesLostSeedRace(t *testing.T) {
	repo, mock, mockDB := newMockSequenceRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	dupErr := errors.New(`ERROR: duplicate key value violates unique constraint "document_sequences_pkey" (SQLSTATE 23505)`)

	// First attempt misses the row, then loses the seed insert to a
	// concurrent caller and rolls back
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE tenant_id = \$1 AND kind = \$2.*FOR UPDATE`).
		WithArgs(tenantID, "invoice", 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "kind", "next_value"}))
	mock.ExpectExec(`INSERT INTO "document_sequences"`).
		WithArgs(tenantID, "invoice", int64(2)).
		WillReturnError(dupErr)
	mock.ExpectRollback()

	// The retry locks the row the winner committed and increments it
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE tenant_id = \$1 AND kind = \$2.*FOR UPDATE`).
		WithArgs(tenantID, "invoice", 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "kind", "next_value"}).
			AddRow(tenantID, "invoice", int64(2)))
	mock.ExpectExec(`UPDATE "document_sequences" SET "next_value"=next_value \+ 1 WHERE tenant_id = \$1 AND kind = \$2`).
		WithArgs(tenantID, "invoice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	value, err := repo.NextNumber(context.Background(), tenantID, billing.DocumentKindInvoice)

	require.NoError(t, err)
	assert.Equal(t, int64(2), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSequenceRepository_NextNumber_DoesNotRetryCounterErrors(t *testing.T) {
	repo, mock, mockDB := newMockSequenceRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	connErr := errors.New("connection reset by peer")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE tenant_id = \$1 AND kind = \$2.*FOR UPDATE`).
		WithArgs(tenantID, "estimate", 1).
		WillReturnError(connErr)
	mock.ExpectRollback()

	_, err := repo.NextNumber(context.Background(), tenantID, billing.DocumentKindEstimate)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
