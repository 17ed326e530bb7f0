package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/housefit/apartment-management-backend/database/databasetest"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	ID     uint
	Status string
}

func TestReviewPending(t *testing.T) {
	fields := map[string]interface{}{"status": "approved"}

	t.Run("pending row is updated", func(t *testing.T) {
		db, mock := databasetest.NewMock(t)
		mock.ExpectExec(`UPDATE "requests" SET "status"=\$1 WHERE id = \$2 AND status = \$3`).
			WithArgs("approved", 4, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, ReviewPending(db, &request{}, 4, fields, "Request not found"))
	})

	t.Run("already reviewed", func(t *testing.T) {
		db, mock := databasetest.NewMock(t)
		mock.ExpectExec(`UPDATE "requests"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "requests" WHERE id = \$1`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := ReviewPending(db, &request{}, 4, fields, "Request not found")
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := databasetest.NewMock(t)
		mock.ExpectExec(`UPDATE "requests"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "requests"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := ReviewPending(db, &request{}, 4, fields, "Request not found")
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}
