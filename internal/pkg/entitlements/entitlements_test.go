package entitlements

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
)

func fixture() *ModuleConfig {
	return &ModuleConfig{
		Version: 4,
		Category: map[models.Category]ModuleSet{
			models.CategoryHotel:         NewModuleSet(models.ModuleBooking, models.ModulePayment, models.ModuleMaintenance, models.ModuleInventory, models.ModuleTeam),
			models.CategoryBoardingHouse: NewModuleSet(models.ModuleMonthlyRental, models.ModulePayment, models.ModuleMaintenance),
		},
		Plan: map[models.Plan]ModuleSet{
			models.PlanBasic:   NewModuleSet(models.ModuleBooking, models.ModulePayment, models.ModuleMonthlyRental),
			models.PlanPremium: NewModuleSet(models.Modules...),
		},
	}
}

func TestEffectiveModulesIntersectsCategoryAndPlan(t *testing.T) {
	cfg := fixture()

	tests := []struct {
		name   string
		tenant models.Tenant
		want   []models.Module
	}{
		{"hotel basic", models.Tenant{Category: models.CategoryHotel, Plan: models.PlanBasic}, []models.Module{models.ModuleBooking, models.ModulePayment}},
		{"hotel premium", models.Tenant{Category: models.CategoryHotel, Plan: models.PlanPremium}, []models.Module{models.ModuleBooking, models.ModulePayment, models.ModuleMaintenance, models.ModuleInventory, models.ModuleTeam}},
		{"boarding basic", models.Tenant{Category: models.CategoryBoardingHouse, Plan: models.PlanBasic}, []models.Module{models.ModulePayment, models.ModuleMonthlyRental}},
		{"plan without map entry", models.Tenant{Category: models.CategoryHotel, Plan: models.PlanPro}, nil},
		{"unknown category", models.Tenant{Category: "castle", Plan: models.PlanPremium}, nil},
		{"unknown plan", models.Tenant{Category: models.CategoryHotel, Plan: "gold"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveModules(&tt.tenant, cfg))
		})
	}
}

func TestEffectiveModulesIsSubsetOfBothMaps(t *testing.T) {
	cfg := fixture()
	for _, c := range models.Categories {
		for _, p := range models.Plans {
			tenant := &models.Tenant{Category: c, Plan: p}
			for _, m := range EffectiveModules(tenant, cfg) {
				assert.True(t, cfg.Category[c].Has(m), "%s/%s: %s not in category map", c, p, m)
				assert.True(t, cfg.Plan[p].Has(m), "%s/%s: %s not in plan map", c, p, m)
				assert.True(t, Allows(tenant, cfg, m))
			}
		}
	}
}

func TestCategoryOnlyAndHidden(t *testing.T) {
	cfg := fixture()
	tenant := &models.Tenant{Category: models.CategoryHotel, Plan: models.PlanBasic}

	assert.Len(t, CategoryOnly(tenant, cfg), 5)
	assert.Equal(t, []models.Module{models.ModuleMaintenance, models.ModuleInventory, models.ModuleTeam}, Hidden(tenant, cfg))
	assert.False(t, Allows(tenant, cfg, models.ModuleTeam))
	assert.Nil(t, EffectiveModules(nil, cfg))
}

func TestServiceEditsAreAuditedAndVersioned(t *testing.T) {
	store := memstore.New()
	trail := audit.NewTrail(nil)
	svc := NewService(store, trail)
	ctx := context.Background()

	var tenantID uint
	require.NoError(t, store.Transaction(ctx, func(repos *repository.Repositories) error {
		tenant := &models.Tenant{Name: "Sunrise", Category: models.CategoryHotel, Plan: models.PlanBasic, Status: models.TenantStatusActive}
		if err := repos.Tenant.Create(tenant); err != nil {
			return err
		}
		tenantID = tenant.ID
		return nil
	}))

	_, err := svc.SetCategoryModule(ctx, models.SystemActor, models.CategoryHotel, models.ModuleBooking, true)
	require.NoError(t, err)

	modules, err := svc.EffectiveModules(ctx, tenantID)
	require.NoError(t, err)
	assert.Empty(t, modules, "plan map still empty")

	cfg, err := svc.SetPlanModule(ctx, models.SystemActor, models.PlanBasic, models.ModuleBooking, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cfg.Version)

	modules, err = svc.EffectiveModules(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, []models.Module{models.ModuleBooking}, modules)

	entries, err := trail.Query(ctx, store, audit.Filter{Category: models.AuditManagement})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "enabled module booking for plan/basic", entries[1].Action)
	assert.Equal(t, "module_map:plan/basic", entries[1].TargetRef())
}

func TestServiceRejectsInvalidEdits(t *testing.T) {
	store := memstore.New()
	trail := audit.NewTrail(nil)
	svc := NewService(store, trail)
	ctx := context.Background()
	owner := models.Actor{ID: 2, Name: "Owner", Role: models.RoleBusinessOwner, TenantID: 1}

	_, err := svc.SetCategoryModule(ctx, models.SystemActor, "castle", models.ModuleBooking, true)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.SetPlanModule(ctx, models.SystemActor, models.PlanPro, "teleport", true)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.SetPlanModule(ctx, owner, models.PlanPro, models.ModuleFinance, true)
	assert.True(t, apperror.IsPermissionDenied(err))

	_, err = svc.EffectiveModules(ctx, 42)
	assert.True(t, apperror.IsNotFound(err))

	n, err := trail.Count(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, n)
}
