package property

import (
	"context"
	"sync"
	"testing"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	mu        sync.Mutex
	buildings map[uint]*Building
	flats     map[uint]*Flat
	nextID    uint
	lastQuery FlatFilter
}

func newMemRepo() *memRepo {
	return &memRepo{buildings: map[uint]*Building{}, flats: map[uint]*Flat{}}
}

func (r *memRepo) CreateBuilding(_ context.Context, b *Building) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.buildings[b.ID] = &cp
	return nil
}

func (r *memRepo) ListBuildings(context.Context) ([]Building, error) { return nil, nil }

func (r *memRepo) GetBuilding(_ context.Context, id uint) (*Building, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buildings[id]
	if !ok {
		return nil, apperrors.NotFound(buildingNotFoundMsg)
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) UpdateBuilding(context.Context, uint, map[string]interface{}) error { return nil }

func (r *memRepo) CreateFlat(_ context.Context, f *Flat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	f.ID = r.nextID
	cp := *f
	r.flats[f.ID] = &cp
	return nil
}

func (r *memRepo) GetFlat(_ context.Context, id uint) (*Flat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flats[id]
	if !ok {
		return nil, apperrors.NotFound(flatNotFoundMsg)
	}
	cp := *f
	return &cp, nil
}

func (r *memRepo) UpdateFlat(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flats[id]
	if !ok {
		return apperrors.NotFound(flatNotFoundMsg)
	}
	for k, v := range fields {
		switch k {
		case "rent":
			f.Rent = v.(float64)
		case "default_maintenance":
			f.DefaultMaintenance = v.(float64)
		case "default_cleaning":
			f.DefaultCleaning = v.(float64)
		case "default_garbage":
			f.DefaultGarbage = v.(float64)
		case "status":
			f.Status = v.(string)
		}
	}
	return nil
}

func (r *memRepo) DeleteFlat(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flats[id]; !ok {
		return apperrors.NotFound(flatNotFoundMsg)
	}
	delete(r.flats, id)
	return nil
}

func (r *memRepo) ListFlats(_ context.Context, filter FlatFilter) ([]Flat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = filter
	return nil, nil
}

func (r *memRepo) SearchFlats(context.Context, string, int) ([]Flat, error) { return nil, nil }
func (r *memRepo) FlatsByOwner(context.Context, uint) ([]Flat, error) { return nil, nil }
func (r *memRepo) AvailableFlats(context.Context, int) ([]Flat, error) { return nil, nil }

func (r *memRepo) AssignTenant(_ context.Context, flatID, tenantID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flats[flatID]
	if !ok {
		return apperrors.NotFound(flatNotFoundMsg)
	}
	f.CurrentTenantID = &tenantID
	f.Status = StatusOccupied
	return nil
}

func newTestService() (*memRepo, *auditlogtest.Recorder, Service) {
	repo := newMemRepo()
	audit := &auditlogtest.Recorder{}
	return repo, audit, NewService(repo, audit, zap.NewNop())
}

func TestCreateFlat_RequiresBuilding(t *testing.T) {
	_, _, svc := newTestService()

	_, err := svc.CreateFlat(context.Background(), 1, FlatInput{BuildingID: 99, FlatNumber: "A1", Area: 900})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestCreateFlat_AppliesDefaults(t *testing.T) {
	repo, audit, svc := newTestService()
	b := &Building{Name: "Green View"}
	require.NoError(t, repo.CreateBuilding(context.Background(), b))

	flat, err := svc.CreateFlat(context.Background(), 1, FlatInput{
		BuildingID: b.ID,
		FlatNumber: " 3B ",
		Area:       1200,
		Bathrooms:  2,
		Rent:       25000,
	})
	require.NoError(t, err)

	assert.Equal(t, "3B", flat.FlatNumber)
	assert.Equal(t, "family", flat.FlatType)
	assert.Equal(t, "east", flat.Orientation)
	assert.Equal(t, StatusAvailable, flat.Status)
	assert.Equal(t, 2, flat.Washrooms)
	assert.Equal(t, 1, flat.Kitchens)
	assert.NotNil(t, flat.Amenities)
	assert.Equal(t, []string{"FLAT_CREATED"}, audit.Actions())
}

func TestUpdateFare_OnlyOwner(t *testing.T) {
	repo, _, svc := newTestService()
	owner := uint(7)
	flat := &Flat{FlatNumber: "1A", Rent: 20000, OwnerID: &owner}
	require.NoError(t, repo.CreateFlat(context.Background(), flat))

	rent := 22000.0
	_, err := svc.UpdateFare(context.Background(), 8, flat.ID, FareInput{Rent: &rent})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	updated, err := svc.UpdateFare(context.Background(), owner, flat.ID, FareInput{Rent: &rent})
	require.NoError(t, err)
	assert.Equal(t, 22000.0, updated.Rent)
}

func TestUpdateFare_UnownedFlatIsForbidden(t *testing.T) {
	repo, _, svc := newTestService()
	flat := &Flat{FlatNumber: "1A"}
	require.NoError(t, repo.CreateFlat(context.Background(), flat))

	_, err := svc.UpdateFare(context.Background(), 3, flat.ID, FareInput{})
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestListFlats_DefaultsToAvailable(t *testing.T) {
	repo, _, svc := newTestService()

	_, err := svc.ListFlats(context.Background(), FlatFilter{})
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, repo.lastQuery.Status)

	_, err = svc.ListFlats(context.Background(), FlatFilter{Status: StatusOccupied})
	require.NoError(t, err)
	assert.Equal(t, StatusOccupied, repo.lastQuery.Status)
}

func TestSearchFlats_RequiresQuery(t *testing.T) {
	_, _, svc := newTestService()

	_, err := svc.SearchFlats(context.Background(), "  ")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestAssignTenant_Audited(t *testing.T) {
	repo, audit, svc := newTestService()
	flat := &Flat{FlatNumber: "2C", Status: StatusAvailable}
	require.NoError(t, repo.CreateFlat(context.Background(), flat))

	got, err := svc.AssignTenant(context.Background(), 1, flat.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, StatusOccupied, got.Status)
	require.NotNil(t, got.CurrentTenantID)
	assert.Equal(t, uint(42), *got.CurrentTenantID)
	assert.Equal(t, []string{"TENANT_ASSIGNED"}, audit.Actions())
}

func TestFlatUpdateFields_OnlyPresent(t *testing.T) {
	rent := 30000.0
	status := StatusMaintenance
	fields := FlatUpdate{Rent: &rent, Status: &status}.fields()

	assert.Len(t, fields, 2)
	assert.Equal(t, 30000.0, fields["rent"])
	assert.Equal(t, StatusMaintenance, fields["status"])
}
