package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/notification/notificationtest"
	"github.com/housefit/apartment-management-backend/internal/property"
	"github.com/housefit/apartment-management-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	mu     sync.Mutex
	bills  map[uint]*Bill
	nextID uint
}

func newMemRepo() *memRepo {
	return &memRepo{bills: map[uint]*Bill{}}
}

func (r *memRepo) Create(_ context.Context, b *Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bills {
		if existing.FlatID == b.FlatID && existing.Month == b.Month {
			return apperrors.Conflict(billExistsMsg)
		}
	}
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bills[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uint) (*Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return nil, apperrors.NotFound(billNotFoundMsg)
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) ListByTenant(context.Context, uint) ([]Bill, error) { return nil, nil }
func (r *memRepo) List(context.Context, BillFilter) ([]Bill, error) { return nil, nil }

func (r *memRepo) LatestUnpaidForTenant(_ context.Context, tenantID uint) (*Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *Bill
	for _, b := range r.bills {
		if b.TenantID != tenantID || b.Status == StatusPaid {
			continue
		}
		if latest == nil || b.Month > latest.Month {
			latest = b
		}
	}
	if latest == nil {
		return nil, apperrors.NotFound("No unpaid bill found for the tenant")
	}
	cp := *latest
	return &cp, nil
}

func (r *memRepo) Mutate(_ context.Context, id uint, fn func(*Bill) error) (*Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return nil, apperrors.NotFound(billNotFoundMsg)
	}
	cp := *b
	if err := fn(&cp); err != nil {
		return nil, err
	}
	r.bills[id] = &cp
	out := cp
	return &out, nil
}

type flatStub map[uint]*property.Flat

func (f flatStub) GetFlat(_ context.Context, id uint) (*property.Flat, error) {
	flat, ok := f[id]
	if !ok {
		return nil, apperrors.NotFound("Flat not found")
	}
	return flat, nil
}

type userStub map[uint]*auth.User

func (u userStub) FindByID(_ context.Context, id uint) (*auth.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

type billFixture struct {
	repo     *memRepo
	notifier *notificationtest.Recorder
	audit    *auditlogtest.Recorder
	svc      Service
}

func newFixture() *billFixture {
	tenant := uint(20)
	flats := flatStub{
		1: {ID: 1, FlatNumber: "4A", Rent: 25000, DefaultMaintenance: 1000, CurrentTenantID: &tenant},
		2: {ID: 2, FlatNumber: "4B", Rent: 18000},
	}
	users := userStub{20: {ID: 20, Email: "tenant@example.com", FirstName: "Rahim", LastName: "Uddin"}}

	f := &billFixture{
		repo:     newMemRepo(),
		notifier: &notificationtest.Recorder{},
		audit:    &auditlogtest.Recorder{},
	}
	f.svc = NewService(f.repo, flats, users, f.notifier, f.audit, zap.NewNop())
	return f
}

func dueDate() *utils.Date {
	return &utils.Date{Time: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)}
}

func ptr(v float64) *float64 { return &v }

func TestComputeTotal_WorkedExample(t *testing.T) {
	b := Bill{Rent: 25000, Electricity: 2000, Gas: 500, Water: 300, Maintenance: 1000}
	assert.Equal(t, 28800.0, ComputeTotal(b))

	b.Discount = 800
	assert.Equal(t, 28000.0, ComputeTotal(b))
}

func TestGenerate_UsesFlatDefaultsAndCurrentTenant(t *testing.T) {
	f := newFixture()

	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{
		FlatID:      1,
		Month:       "2024-02",
		Electricity: ptr(2000),
		Gas:         ptr(500),
		Water:       ptr(300),
		DueDate:     dueDate(),
	})
	require.NoError(t, err)

	assert.Equal(t, uint(20), bill.TenantID)
	assert.Equal(t, 25000.0, bill.Rent)
	assert.Equal(t, 1000.0, bill.Maintenance)
	assert.Equal(t, 28800.0, bill.Total)
	assert.Equal(t, StatusUnpaid, bill.Status)
	assert.Equal(t, uint(1), bill.GeneratedBy)

	require.Len(t, f.notifier.Mails, 1)
	assert.Equal(t, "tenant@example.com", f.notifier.Mails[0].To)
	require.Len(t, f.notifier.Users, 1)
	assert.Equal(t, "New Bill Generated", f.notifier.Users[0].Msg.Title)
	assert.Equal(t, []string{"BILL_GENERATED"}, f.audit.Actions())
}

func TestGenerate_ExplicitValuesOverrideDefaults(t *testing.T) {
	f := newFixture()

	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{
		FlatID:      1,
		Month:       "2024-03",
		Rent:        ptr(0),
		Maintenance: ptr(500),
		DueDate:     dueDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, bill.Rent)
	assert.Equal(t, 500.0, bill.Total)
}

func TestGenerate_TenantRequired(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 2, Month: "2024-02", DueDate: dueDate()})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Equal(t, "Tenant is required for billing", err.Error())
}

func TestGenerate_MissingFlat(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 9, Month: "2024-02", DueDate: dueDate()})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestGenerate_DuplicateMonthConflicts(t *testing.T) {
	f := newFixture()
	in := GenerateInput{FlatID: 1, Month: "2024-02", DueDate: dueDate()}

	_, err := f.svc.Generate(context.Background(), 1, in)
	require.NoError(t, err)

	_, err = f.svc.Generate(context.Background(), 1, in)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestUpdate_RecomputesTotal(t *testing.T) {
	f := newFixture()
	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 1, Month: "2024-02", DueDate: dueDate()})
	require.NoError(t, err)
	require.Equal(t, 26000.0, bill.Total)

	updated, err := f.svc.Update(context.Background(), 1, bill.ID, UpdateInput{Electricity: ptr(1500), Discount: ptr(500)})
	require.NoError(t, err)
	assert.Equal(t, 27000.0, updated.Total)

	// Saving with no changes keeps the same total.
	again, err := f.svc.Update(context.Background(), 1, bill.ID, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, updated.Total, again.Total)
	assert.Equal(t, ComputeTotal(*again), again.Total)
}

func TestUpdate_PaidBillConflicts(t *testing.T) {
	f := newFixture()
	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 1, Month: "2024-02", DueDate: dueDate()})
	require.NoError(t, err)
	f.repo.bills[bill.ID].Status = StatusPaid

	_, err = f.svc.Update(context.Background(), 1, bill.ID, UpdateInput{Gas: ptr(100)})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestGetBill_OwnerOrAdmin(t *testing.T) {
	f := newFixture()
	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 1, Month: "2024-02", DueDate: dueDate()})
	require.NoError(t, err)

	_, err = f.svc.GetBill(context.Background(), 20, "tenant", bill.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetBill(context.Background(), 1, "admin", bill.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetBill(context.Background(), 21, "tenant", bill.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestApplyRewardDiscount_LatestUnpaid(t *testing.T) {
	f := newFixture()
	older, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 1, Month: "2024-01", DueDate: dueDate()})
	require.NoError(t, err)
	newer, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 1, Month: "2024-02", DueDate: dueDate()})
	require.NoError(t, err)

	bill, err := f.svc.ApplyRewardDiscount(context.Background(), 20, 1000)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, bill.ID)
	assert.Equal(t, 1000.0, bill.Discount)
	assert.Equal(t, newer.Total-1000, bill.Total)
	assert.Equal(t, older.Total, f.repo.bills[older.ID].Total)
}

func TestApplyRewardDiscount_CappedAtTotal(t *testing.T) {
	f := newFixture()
	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 1, Month: "2024-03", DueDate: dueDate()})
	require.NoError(t, err)

	got, err := f.svc.ApplyRewardDiscount(context.Background(), 20, bill.Total+5000)
	require.NoError(t, err)
	assert.Equal(t, bill.Total, got.Discount)
	assert.Equal(t, 0.0, got.Total)
}

func TestApplyRewardDiscount_NeverRaisesBill(t *testing.T) {
	f := newFixture()
	// a row saved before discounts were checked against the charges
	f.repo.bills[7] = &Bill{ID: 7, FlatID: 2, TenantID: 20, Month: "2024-05", Rent: 18000, Discount: 90000, Total: -72000, Status: StatusUnpaid}

	got, err := f.svc.ApplyRewardDiscount(context.Background(), 20, 1000)
	require.NoError(t, err)
	assert.Equal(t, 90000.0, got.Discount)
	assert.Equal(t, -72000.0, got.Total)
}

func TestGenerate_DiscountAboveChargesRejected(t *testing.T) {
	f := newFixture()
	tenant := uint(20)

	_, err := f.svc.Generate(context.Background(), 1, GenerateInput{
		FlatID:   2,
		TenantID: &tenant,
		Month:    "2024-02",
		Discount: 50000,
		DueDate:  dueDate(),
	})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Empty(t, f.repo.bills)

	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{
		FlatID:   2,
		TenantID: &tenant,
		Month:    "2024-02",
		Discount: 18000,
		DueDate:  dueDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, bill.Total)
}

func TestUpdate_DiscountAboveChargesRejected(t *testing.T) {
	f := newFixture()
	bill, err := f.svc.Generate(context.Background(), 1, GenerateInput{FlatID: 1, Month: "2024-02", DueDate: dueDate()})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), 1, bill.ID, UpdateInput{Discount: ptr(90000)})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Equal(t, 0.0, f.repo.bills[bill.ID].Discount)
	assert.Equal(t, bill.Total, f.repo.bills[bill.ID].Total)

	// lowering the rent below an existing discount is rejected the same way
	_, err = f.svc.Update(context.Background(), 1, bill.ID, UpdateInput{Discount: ptr(5000)})
	require.NoError(t, err)
	_, err = f.svc.Update(context.Background(), 1, bill.ID, UpdateInput{Rent: ptr(1000), Maintenance: ptr(0)})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestApplyRewardDiscount_NoBill(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ApplyRewardDiscount(context.Background(), 20, 1000)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
