package property

import (
	"context"
	"strings"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const searchLimit = 20

type Service interface {
	CreateBuilding(ctx context.Context, managerID uint, in BuildingInput) (*Building, error)
	ListBuildings(ctx context.Context) ([]Building, error)
	GetBuilding(ctx context.Context, id uint) (*Building, error)
	UpdateBuilding(ctx context.Context, id uint, in BuildingInput) (*Building, error)

	CreateFlat(ctx context.Context, adminID uint, in FlatInput) (*Flat, error)
	UpdateFlat(ctx context.Context, adminID, id uint, in FlatUpdate) (*Flat, error)
	DeleteFlat(ctx context.Context, adminID, id uint) error
	GetFlat(ctx context.Context, id uint) (*Flat, error)
	ListFlats(ctx context.Context, filter FlatFilter) ([]Flat, error)
	SearchFlats(ctx context.Context, query string) ([]Flat, error)

	MyFlats(ctx context.Context, ownerID uint) ([]Flat, error)
	UpdateFare(ctx context.Context, ownerID, flatID uint, in FareInput) (*Flat, error)

	AssignTenant(ctx context.Context, adminID, flatID, tenantID uint) (*Flat, error)
	AvailableFlats(ctx context.Context, limit int) ([]Flat, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
	log      *zap.Logger
}

func NewService(repo Repository, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{repo: repo, auditSvc: auditSvc, log: log}
}

// =============================
// Buildings
// =============================

func (s *service) CreateBuilding(ctx context.Context, managerID uint, in BuildingInput) (*Building, error) {
	b := &Building{
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		TotalFloors: in.TotalFloors,
		TotalFlats:  in.TotalFlats,
		Facilities:  datatypes.JSONSlice[string](nonNil(in.Facilities)),
		ManagerID:   managerID,
	}
	if err := s.repo.CreateBuilding(ctx, b); err != nil {
		return nil, err
	}
	s.audit(ctx, managerID, "BUILDING_CREATED", "building", b.ID, map[string]interface{}{"name": b.Name})
	return b, nil
}

func (s *service) ListBuildings(ctx context.Context) ([]Building, error) {
	return s.repo.ListBuildings(ctx)
}

func (s *service) GetBuilding(ctx context.Context, id uint) (*Building, error) {
	return s.repo.GetBuilding(ctx, id)
}

func (s *service) UpdateBuilding(ctx context.Context, id uint, in BuildingInput) (*Building, error) {
	fields := map[string]interface{}{
		"name":         strings.TrimSpace(in.Name),
		"address":      strings.TrimSpace(in.Address),
		"total_floors": in.TotalFloors,
		"total_flats":  in.TotalFlats,
		"facilities":   datatypes.JSONSlice[string](nonNil(in.Facilities)),
	}
	if err := s.repo.UpdateBuilding(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetBuilding(ctx, id)
}

// =============================
// Flats
// =============================

func (s *service) CreateFlat(ctx context.Context, adminID uint, in FlatInput) (*Flat, error) {
	if _, err := s.repo.GetBuilding(ctx, in.BuildingID); err != nil {
		return nil, err
	}

	f := &Flat{
		BuildingID:         in.BuildingID,
		FlatNumber:         strings.TrimSpace(in.FlatNumber),
		FlatType:           orDefault(in.FlatType, "family"),
		Floor:              in.Floor,
		Area:               in.Area,
		Bedrooms:           in.Bedrooms,
		Bathrooms:          in.Bathrooms,
		Washrooms:          in.Bathrooms,
		Balconies:          in.Balconies,
		Kitchens:           1,
		Orientation:        orDefault(in.Orientation, "east"),
		Rent:               in.Rent,
		Status:             orDefault(in.Status, StatusAvailable),
		OwnerID:            in.OwnerID,
		DefaultMaintenance: in.DefaultMaintenance,
		DefaultCleaning:    in.DefaultCleaning,
		DefaultGarbage:     in.DefaultGarbage,
		Amenities:          datatypes.JSONSlice[string](nonNil(in.Amenities)),
		Images:             datatypes.JSONSlice[string](nonNil(in.Images)),
		Description:        in.Description,
	}
	if in.Washrooms != nil {
		f.Washrooms = *in.Washrooms
	}
	if in.Kitchens != nil {
		f.Kitchens = *in.Kitchens
	}

	if err := s.repo.CreateFlat(ctx, f); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "FLAT_CREATED", "flat", f.ID, map[string]interface{}{
		"building_id": f.BuildingID,
		"flat_number": f.FlatNumber,
	})
	return f, nil
}

func (s *service) UpdateFlat(ctx context.Context, adminID, id uint, in FlatUpdate) (*Flat, error) {
	fields := in.fields()
	if len(fields) == 0 {
		return s.repo.GetFlat(ctx, id)
	}
	if err := s.repo.UpdateFlat(ctx, id, fields); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "FLAT_UPDATED", "flat", id, nil)
	return s.repo.GetFlat(ctx, id)
}

func (s *service) DeleteFlat(ctx context.Context, adminID, id uint) error {
	if err := s.repo.DeleteFlat(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, adminID, "FLAT_DELETED", "flat", id, nil)
	return nil
}

func (s *service) GetFlat(ctx context.Context, id uint) (*Flat, error) {
	return s.repo.GetFlat(ctx, id)
}

func (s *service) ListFlats(ctx context.Context, filter FlatFilter) ([]Flat, error) {
	if filter.Status == "" {
		filter.Status = StatusAvailable
	}
	return s.repo.ListFlats(ctx, filter)
}

func (s *service) SearchFlats(ctx context.Context, query string) ([]Flat, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Validation("Search query is required")
	}
	return s.repo.SearchFlats(ctx, query, searchLimit)
}

// =============================
// Owner
// =============================

func (s *service) MyFlats(ctx context.Context, ownerID uint) ([]Flat, error) {
	return s.repo.FlatsByOwner(ctx, ownerID)
}

func (s *service) UpdateFare(ctx context.Context, ownerID, flatID uint, in FareInput) (*Flat, error) {
	flat, err := s.repo.GetFlat(ctx, flatID)
	if err != nil {
		return nil, err
	}
	if flat.OwnerID == nil || *flat.OwnerID != ownerID {
		return nil, apperrors.Forbidden("You can only update your own flats")
	}

	fields := map[string]interface{}{}
	if in.Rent != nil {
		fields["rent"] = *in.Rent
	}
	if in.DefaultMaintenance != nil {
		fields["default_maintenance"] = *in.DefaultMaintenance
	}
	if in.DefaultCleaning != nil {
		fields["default_cleaning"] = *in.DefaultCleaning
	}
	if in.DefaultGarbage != nil {
		fields["default_garbage"] = *in.DefaultGarbage
	}
	if len(fields) == 0 {
		return flat, nil
	}

	if err := s.repo.UpdateFlat(ctx, flatID, fields); err != nil {
		return nil, err
	}
	s.log.Info("🏠 Flat fare updated", zap.Uint("flat_id", flatID), zap.Uint("owner_id", ownerID))
	return s.repo.GetFlat(ctx, flatID)
}

func (s *service) AssignTenant(ctx context.Context, adminID, flatID, tenantID uint) (*Flat, error) {
	if err := s.repo.AssignTenant(ctx, flatID, tenantID); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "TENANT_ASSIGNED", "flat", flatID, map[string]interface{}{"tenant_id": tenantID})
	return s.repo.GetFlat(ctx, flatID)
}

func (s *service) AvailableFlats(ctx context.Context, limit int) ([]Flat, error) {
	return s.repo.AvailableFlats(ctx, limit)
}

func (s *service) audit(ctx context.Context, adminID uint, action, entity string, entityID uint, details map[string]interface{}) {
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: entity,
		EntityID:   &entityID,
		Details:    details,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

func (u FlatUpdate) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(col string, present bool, v interface{}) {
		if present {
			fields[col] = v
		}
	}
	if u.FlatNumber != nil {
		fields["flat_number"] = strings.TrimSpace(*u.FlatNumber)
	}
	set("flat_type", u.FlatType != nil, deref(u.FlatType))
	set("floor", u.Floor != nil, deref(u.Floor))
	set("area", u.Area != nil, deref(u.Area))
	set("bedrooms", u.Bedrooms != nil, deref(u.Bedrooms))
	set("bathrooms", u.Bathrooms != nil, deref(u.Bathrooms))
	set("washrooms", u.Washrooms != nil, deref(u.Washrooms))
	set("balconies", u.Balconies != nil, deref(u.Balconies))
	set("kitchens", u.Kitchens != nil, deref(u.Kitchens))
	set("orientation", u.Orientation != nil, deref(u.Orientation))
	set("rent", u.Rent != nil, deref(u.Rent))
	set("status", u.Status != nil, deref(u.Status))
	set("owner_id", u.OwnerID != nil, u.OwnerID)
	set("default_maintenance", u.DefaultMaintenance != nil, deref(u.DefaultMaintenance))
	set("default_cleaning", u.DefaultCleaning != nil, deref(u.DefaultCleaning))
	set("default_garbage", u.DefaultGarbage != nil, deref(u.DefaultGarbage))
	if u.Amenities != nil {
		fields["amenities"] = datatypes.JSONSlice[string](nonNil(*u.Amenities))
	}
	if u.Images != nil {
		fields["images"] = datatypes.JSONSlice[string](nonNil(*u.Images))
	}
	set("description", u.Description != nil, deref(u.Description))
	return fields
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
