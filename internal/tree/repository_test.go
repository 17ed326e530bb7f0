package tree

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/housefit/apartment-management-backend/database/databasetest"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approveFields() map[string]interface{} {
	return map[string]interface{}{
		"status":         StatusApproved,
		"admin_decision": "",
		"reviewed_by":    uint(1),
		"reviewed_at":    time.Now(),
		"points_awarded": 10,
	}
}

func TestRepository_Approve_CreditsPoints(t *testing.T) {
	db, mock := databasetest.NewMock(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id","user_id" FROM "tree_submissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(3, 12))
	mock.ExpectExec(`UPDATE "tree_submissions" SET .* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "users" SET "tree_points"=tree_points \+ \$1 WHERE id = \$2`).
		WithArgs(10, 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Approve(context.Background(), 3, 10, approveFields()))
}

func TestRepository_Approve_AlreadyReviewed(t *testing.T) {
	db, mock := databasetest.NewMock(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id","user_id" FROM "tree_submissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(3, 12))
	mock.ExpectExec(`UPDATE "tree_submissions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tree_submissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), 3, 10, approveFields())
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestRepository_TopTenant_NoneEligible(t *testing.T) {
	db, mock := databasetest.NewMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT "id","first_name","last_name","tree_points" FROM "users" WHERE role = \$1 AND tree_points > 0 ORDER BY tree_points DESC, id ASC LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "tree_points"}))

	_, err := repo.TopTenant(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestRepository_Leaderboard_Order(t *testing.T) {
	db, mock := databasetest.NewMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`FROM "users" WHERE role = \$1 ORDER BY tree_points DESC, id ASC LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "tree_points"}).
			AddRow(12, "Nila", "Rahman", 30).
			AddRow(14, "Arif", "Hasan", 10))

	entries, err := repo.Leaderboard(context.Background(), leaderboardSize)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(12), entries[0].ID)
	assert.Equal(t, 30, entries[0].TreePoints)
}
