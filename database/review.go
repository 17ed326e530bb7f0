package database

import (
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"gorm.io/gorm"
)

const (
	StatusPending = "pending"

	AlreadyReviewedMsg = "Request has already been reviewed"
)

// ReviewPending moves a pending request row to its decided state with a
// conditional update. A missing row is NotFound, a row that already left
// pending is Conflict.
func ReviewPending(tx *gorm.DB, model interface{}, id uint, fields map[string]interface{}, notFound string) error {
	res := tx.Model(model).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound(notFound)
	}
	return apperrors.Conflict(AlreadyReviewedMsg)
}
