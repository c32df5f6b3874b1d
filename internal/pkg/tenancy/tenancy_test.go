package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/memstore"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

var operator = models.SystemActor

func newService(t *testing.T) (*Service, *memstore.Store, *audit.Trail) {
	t.Helper()
	store := memstore.New()
	trail := audit.NewTrail(nil)
	return NewService(store, trail), store, trail
}

func count(t *testing.T, store *memstore.Store, trail *audit.Trail) int64 {
	t.Helper()
	n, err := trail.Count(context.Background(), store)
	require.NoError(t, err)
	return n
}

func TestSelfServiceEnrollmentWaitsForReview(t *testing.T) {
	svc, store, trail := newService(t)
	ctx := context.Background()
	require.NoError(t, store.Transaction(ctx, func(repos *repository.Repositories) error {
		return repos.Permission.Grant(models.RoleBusinessOwner, permissions.TenantEnroll)
	}))
	owner := models.Actor{ID: 12, Name: "Budi", Role: models.RoleBusinessOwner}

	tenant, err := svc.Enroll(ctx, owner, Enrollment{Name: "Kost Melati", Category: models.CategoryBoardingHouse})
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusPending, tenant.Status)
	assert.Equal(t, models.PlanBasic, tenant.Plan)
	assert.Equal(t, owner.ID, tenant.OwnerID)

	tenant, err = svc.RequestInfo(ctx, operator, tenant.ID, "missing permit")
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusInfoRequested, tenant.Status)

	owner.TenantID = tenant.ID
	tenant, err = svc.Resubmit(ctx, owner, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusPending, tenant.Status)

	tenant, err = svc.Approve(ctx, operator, tenant.ID)
	require.NoError(t, err)
	assert.True(t, tenant.IsActive())
	assert.Equal(t, int64(4), count(t, store, trail))

	entries, err := trail.Query(ctx, store, audit.Filter{Target: "tenant:1"})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "requested information from Kost Melati: missing permit", entries[1].Action)
}

func TestOperatorEnrollsActiveTenant(t *testing.T) {
	svc, _, _ := newService(t)

	tenant, err := svc.Enroll(context.Background(), operator, Enrollment{Name: "Grand Hotel", Category: models.CategoryHotel, Plan: models.PlanPremium, OwnerID: 5})
	require.NoError(t, err)
	assert.True(t, tenant.IsActive())
	assert.Equal(t, uint(5), tenant.OwnerID)

	_, err = svc.Enroll(context.Background(), operator, Enrollment{Name: "Castle", Category: "castle"})
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.Enroll(context.Background(), operator, Enrollment{Name: "Gold Inn", Category: models.CategoryHotel, Plan: "gold"})
	assert.True(t, apperror.IsValidation(err))
}

func TestSuspendActivateTerminate(t *testing.T) {
	svc, store, trail := newService(t)
	ctx := context.Background()
	tenant, err := svc.Enroll(ctx, operator, Enrollment{Name: "Grand Hotel", Category: models.CategoryHotel})
	require.NoError(t, err)

	tenant, err = svc.Suspend(ctx, operator, tenant.ID, "chargebacks")
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusSuspended, tenant.Status)

	_, err = svc.Suspend(ctx, operator, tenant.ID, "")
	assert.True(t, apperror.IsInvalidTransition(err))

	tenant, err = svc.Activate(ctx, operator, tenant.ID)
	require.NoError(t, err)
	assert.True(t, tenant.IsActive())

	tenant, err = svc.Terminate(ctx, operator, tenant.ID, "")
	require.NoError(t, err)
	assert.True(t, tenant.IsTerminated())

	for _, cmd := range []func() error{
		func() error { _, err := svc.Activate(ctx, operator, tenant.ID); return err },
		func() error { _, err := svc.Terminate(ctx, operator, tenant.ID, ""); return err },
		func() error { _, err := svc.Penalize(ctx, operator, tenant.ID, ""); return err },
		func() error { _, err := svc.ChangePlan(ctx, operator, tenant.ID, models.PlanPro); return err },
	} {
		assert.True(t, apperror.IsInvalidTransition(cmd()))
	}

	security, err := trail.Query(ctx, store, audit.Filter{Category: models.AuditSecurity})
	require.NoError(t, err)
	assert.Len(t, security, 3)
	assert.Equal(t, int64(4), count(t, store, trail))
}

func TestPenalizeCountsViolations(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	tenant, err := svc.Enroll(ctx, operator, Enrollment{Name: "Grand Hotel", Category: models.CategoryHotel})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		tenant, err = svc.Penalize(ctx, operator, tenant.ID, "fake photos")
		require.NoError(t, err)
		assert.Equal(t, i, tenant.Penalties)
	}
}

func TestFeaturedFlow(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	tenant, err := svc.Enroll(ctx, operator, Enrollment{Name: "Grand Hotel", Category: models.CategoryHotel})
	require.NoError(t, err)

	require.NoError(t, store.Transaction(ctx, func(repos *repository.Repositories) error {
		return repos.Permission.Grant(models.RoleBusinessOwner, permissions.TenantFeatureRequest)
	}))
	owner := models.Actor{ID: 3, Name: "Owner", Role: models.RoleBusinessOwner, TenantID: tenant.ID}
	stranger := models.Actor{ID: 4, Name: "Stranger", Role: models.RoleBusinessOwner, TenantID: 99}

	_, err = svc.RequestFeatured(ctx, stranger, tenant.ID)
	assert.True(t, apperror.IsPermissionDenied(err))

	tenant, err = svc.RequestFeatured(ctx, owner, tenant.ID)
	require.NoError(t, err)
	assert.True(t, tenant.FeaturedRequested)

	_, err = svc.SetFeatured(ctx, owner, tenant.ID, true)
	assert.True(t, apperror.IsPermissionDenied(err))

	tenant, err = svc.SetFeatured(ctx, operator, tenant.ID, true)
	require.NoError(t, err)
	assert.True(t, tenant.Featured)
	assert.False(t, tenant.FeaturedRequested)
}

func TestChangePlan(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	tenant, err := svc.Enroll(ctx, operator, Enrollment{Name: "Grand Hotel", Category: models.CategoryHotel})
	require.NoError(t, err)

	tenant, err = svc.ChangePlan(ctx, operator, tenant.ID, models.PlanPremium)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, tenant.Plan)

	_, err = svc.ChangePlan(ctx, operator, tenant.ID, "gold")
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.ChangePlan(ctx, operator, 404, models.PlanPro)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListIsOperatorOnly(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Enroll(ctx, operator, Enrollment{Name: "Grand Hotel", Category: models.CategoryHotel})
	require.NoError(t, err)

	tenants, err := svc.List(ctx, operator)
	require.NoError(t, err)
	assert.Len(t, tenants, 1)

	_, err = svc.List(ctx, models.Actor{Role: models.RoleAdminStaff, TenantID: 1})
	assert.True(t, apperror.IsPermissionDenied(err))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.TenantStatusPending, models.TenantStatusActive))
	assert.False(t, CanTransition(models.TenantStatusRejected, models.TenantStatusActive))
	for _, to := range []models.TenantStatus{models.TenantStatusActive, models.TenantStatusPending, models.TenantStatusSuspended} {
		assert.False(t, CanTransition(models.TenantStatusTerminated, to))
	}
}
