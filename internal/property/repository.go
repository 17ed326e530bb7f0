package property

import (
	"context"
	"strings"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	flatNotFoundMsg     = "Flat not found"
	buildingNotFoundMsg = "Building not found"
	flatExistsMsg       = "Flat number already exists in this building"
)

type Repository interface {
	// Buildings
	CreateBuilding(ctx context.Context, b *Building) error
	ListBuildings(ctx context.Context) ([]Building, error)
	GetBuilding(ctx context.Context, id uint) (*Building, error)
	UpdateBuilding(ctx context.Context, id uint, fields map[string]interface{}) error

	// Flats
	CreateFlat(ctx context.Context, f *Flat) error
	GetFlat(ctx context.Context, id uint) (*Flat, error)
	UpdateFlat(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteFlat(ctx context.Context, id uint) error
	ListFlats(ctx context.Context, filter FlatFilter) ([]Flat, error)
	SearchFlats(ctx context.Context, query string, limit int) ([]Flat, error)
	FlatsByOwner(ctx context.Context, ownerID uint) ([]Flat, error)
	AvailableFlats(ctx context.Context, limit int) ([]Flat, error)

	// AssignTenant links a tenant to a flat and marks it occupied.
	AssignTenant(ctx context.Context, flatID, tenantID uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// =============================
// Buildings
// =============================

func (r *repository) CreateBuilding(ctx context.Context, b *Building) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) ListBuildings(ctx context.Context) ([]Building, error) {
	var buildings []Building
	err := r.db.WithContext(ctx).Order("name ASC").Find(&buildings).Error
	return buildings, err
}

func (r *repository) GetBuilding(ctx context.Context, id uint) (*Building, error) {
	var b Building
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, database.TranslateError(err, buildingNotFoundMsg, "")
	}
	return &b, nil
}

func (r *repository) UpdateBuilding(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Building{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(buildingNotFoundMsg)
	}
	return nil
}

// =============================
// Flats
// =============================

func (r *repository) CreateFlat(ctx context.Context, f *Flat) error {
	err := r.db.WithContext(ctx).Omit("Building").Create(f).Error
	return database.TranslateError(err, flatNotFoundMsg, flatExistsMsg)
}

func (r *repository) GetFlat(ctx context.Context, id uint) (*Flat, error) {
	var f Flat
	if err := r.db.WithContext(ctx).Preload("Building").First(&f, id).Error; err != nil {
		return nil, database.TranslateError(err, flatNotFoundMsg, "")
	}
	return &f, nil
}

func (r *repository) UpdateFlat(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Flat{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return database.TranslateError(res.Error, flatNotFoundMsg, flatExistsMsg)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(flatNotFoundMsg)
	}
	return nil
}

func (r *repository) DeleteFlat(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Flat{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(flatNotFoundMsg)
	}
	return nil
}

func (r *repository) ListFlats(ctx context.Context, filter FlatFilter) ([]Flat, error) {
	query := r.db.WithContext(ctx).Model(&Flat{}).Preload("Building")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinRent != nil {
		query = query.Where("rent >= ?", *filter.MinRent)
	}
	if filter.MaxRent != nil {
		query = query.Where("rent <= ?", *filter.MaxRent)
	}
	if filter.Bedrooms != nil {
		query = query.Where("bedrooms = ?", *filter.Bedrooms)
	}
	if filter.BuildingID != nil {
		query = query.Where("building_id = ?", *filter.BuildingID)
	}

	var flats []Flat
	err := query.Order("created_at DESC").Find(&flats).Error
	return flats, err
}

func (r *repository) SearchFlats(ctx context.Context, query string, limit int) ([]Flat, error) {
	like := "%" + strings.ToLower(query) + "%"

	var flats []Flat
	err := r.db.WithContext(ctx).
		Preload("Building").
		Where("status = ?", StatusAvailable).
		Where("LOWER(flat_number) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Limit(limit).
		Find(&flats).Error
	return flats, err
}

func (r *repository) FlatsByOwner(ctx context.Context, ownerID uint) ([]Flat, error) {
	var flats []Flat
	err := r.db.WithContext(ctx).
		Preload("Building").
		Where("owner_id = ?", ownerID).
		Order("flat_number ASC").
		Find(&flats).Error
	return flats, err
}

func (r *repository) AvailableFlats(ctx context.Context, limit int) ([]Flat, error) {
	var flats []Flat
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusAvailable).
		Limit(limit).
		Find(&flats).Error
	return flats, err
}

func (r *repository) AssignTenant(ctx context.Context, flatID, tenantID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var flat Flat
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&flat, flatID).Error
		if err != nil {
			return database.TranslateError(err, flatNotFoundMsg, "")
		}
		if flat.CurrentTenantID != nil && *flat.CurrentTenantID != tenantID {
			return apperrors.Conflict("Flat is already occupied")
		}

		var role string
		err = tx.Table("users").Select("role").Where("id = ?", tenantID).Scan(&role).Error
		if err != nil {
			return err
		}
		if role == "" {
			return apperrors.NotFound("User not found")
		}
		if role != "tenant" {
			return apperrors.Validation("User is not a tenant")
		}

		// A tenant lives in one flat at a time.
		err = tx.Model(&Flat{}).
			Where("current_tenant_id = ? AND id <> ?", tenantID, flatID).
			Updates(map[string]interface{}{"current_tenant_id": nil, "status": StatusAvailable}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&Flat{}).Where("id = ?", flatID).Updates(map[string]interface{}{
			"current_tenant_id": tenantID,
			"status":            StatusOccupied,
		}).Error
		if err != nil {
			return err
		}

		return tx.Table("users").Where("id = ?", tenantID).Update("flat_id", flatID).Error
	})
}
