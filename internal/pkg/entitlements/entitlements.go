package entitlements

import (
	"fmt"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
)

// ModuleSet is a set of modules
type ModuleSet map[models.Module]struct{}

// NewModuleSet builds a set from a list
func NewModuleSet(modules ...models.Module) ModuleSet {
	s := make(ModuleSet, len(modules))
	for _, m := range modules {
		s[m] = struct{}{}
	}
	return s
}

// Has reports whether m is in the set. A nil set is empty.
func (s ModuleSet) Has(m models.Module) bool {
	_, ok := s[m]
	return ok
}

// ModuleConfig is a versioned snapshot of the category and plan module maps.
// A category or plan without an entry has no modules.
type ModuleConfig struct {
	Version  int64
	Category map[models.Category]ModuleSet
	Plan     map[models.Plan]ModuleSet
}

// NewModuleConfig builds a config from stored rows
func NewModuleConfig(version int64, categories []models.CategoryModule, plans []models.PlanModule) *ModuleConfig {
	cfg := &ModuleConfig{
		Version:  version,
		Category: make(map[models.Category]ModuleSet),
		Plan:     make(map[models.Plan]ModuleSet),
	}
	for _, row := range categories {
		if cfg.Category[row.Category] == nil {
			cfg.Category[row.Category] = make(ModuleSet)
		}
		cfg.Category[row.Category][row.Module] = struct{}{}
	}
	for _, row := range plans {
		if cfg.Plan[row.Plan] == nil {
			cfg.Plan[row.Plan] = make(ModuleSet)
		}
		cfg.Plan[row.Plan][row.Module] = struct{}{}
	}
	return cfg
}

// LoadConfig reads the current module maps through repos
func LoadConfig(repos *repository.Repositories) (*ModuleConfig, error) {
	version, err := repos.ConfigVersion.Get(models.ConfigModules)
	if err != nil {
		return nil, fmt.Errorf("failed to read module version: %w", err)
	}
	categories, err := repos.ModuleMap.ListCategoryModules()
	if err != nil {
		return nil, fmt.Errorf("failed to load category modules: %w", err)
	}
	plans, err := repos.ModuleMap.ListPlanModules()
	if err != nil {
		return nil, fmt.Errorf("failed to load plan modules: %w", err)
	}
	return NewModuleConfig(version, categories, plans), nil
}

// EffectiveModules returns the modules tenant may use: those its category
// allows and its plan unlocks, in navigation order. Unknown category or plan
// yields nothing.
func EffectiveModules(tenant *models.Tenant, cfg *ModuleConfig) []models.Module {
	if tenant == nil || cfg == nil {
		return nil
	}
	byCategory := cfg.Category[tenant.Category]
	byPlan := cfg.Plan[tenant.Plan]

	var out []models.Module
	for _, m := range models.Modules {
		if byCategory.Has(m) && byPlan.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Allows reports whether module is among the tenant's effective modules
func Allows(tenant *models.Tenant, cfg *ModuleConfig, module models.Module) bool {
	if tenant == nil || cfg == nil {
		return false
	}
	return cfg.Category[tenant.Category].Has(module) && cfg.Plan[tenant.Plan].Has(module)
}

// CategoryOnly returns the modules of the tenant's category ignoring its plan.
// This is how the owner navigation gated modules before plans were enforced;
// kept to report which modules a plan change would hide.
func CategoryOnly(tenant *models.Tenant, cfg *ModuleConfig) []models.Module {
	if tenant == nil || cfg == nil {
		return nil
	}
	var out []models.Module
	for _, m := range models.Modules {
		if cfg.Category[tenant.Category].Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Hidden returns the category modules the tenant's plan does not unlock
func Hidden(tenant *models.Tenant, cfg *ModuleConfig) []models.Module {
	var out []models.Module
	for _, m := range CategoryOnly(tenant, cfg) {
		if !cfg.Plan[tenant.Plan].Has(m) {
			out = append(out, m)
		}
	}
	return out
}
