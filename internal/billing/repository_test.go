package billing

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/housefit/apartment-management-backend/database/databasetest"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create_DuplicateMonth(t *testing.T) {
	db, mock := databasetest.NewMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO "bills"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &Bill{FlatID: 1, TenantID: 2, Month: "2024-02", DueDate: time.Now()})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Contains(t, err.Error(), billExistsMsg)
}

func TestRepository_Mutate_RollsBackOnError(t *testing.T) {
	db, mock := databasetest.NewMock(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bills" WHERE "bills"."id" = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "rent"}).AddRow(3, StatusPaid, 1000))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), 3, func(b *Bill) error {
		return apperrors.Conflict("A paid bill cannot be edited")
	})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestRepository_Mutate_SavesCharges(t *testing.T) {
	db, mock := databasetest.NewMock(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bills"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "rent", "total"}).AddRow(3, StatusUnpaid, 1000, 1000))
	mock.ExpectExec(`UPDATE "bills" SET .*"discount"=.*"total"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bill, err := repo.Mutate(context.Background(), 3, func(b *Bill) error {
		b.Discount = 200
		b.Total = ComputeTotal(*b)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 800.0, bill.Total)
}
