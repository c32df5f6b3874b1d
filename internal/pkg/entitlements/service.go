package entitlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// Service edits and resolves module entitlements
type Service struct {
	store repository.Store
	trail *audit.Trail
}

// NewService creates an entitlement service
func NewService(store repository.Store, trail *audit.Trail) *Service {
	return &Service{store: store, trail: trail}
}

// Config returns the current module maps
func (s *Service) Config(ctx context.Context) (*ModuleConfig, error) {
	var cfg *ModuleConfig
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		cfg, err = LoadConfig(repos)
		return err
	})
	return cfg, err
}

// EffectiveModules resolves the modules of a stored tenant against the current maps
func (s *Service) EffectiveModules(ctx context.Context, tenantID uint) ([]models.Module, error) {
	var out []models.Module
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		tenant, err := repos.Tenant.GetByID(tenantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound("tenant %d not found", tenantID)
			}
			return fmt.Errorf("failed to load tenant: %w", err)
		}
		cfg, err := LoadConfig(repos)
		if err != nil {
			return err
		}
		out = EffectiveModules(tenant, cfg)
		return nil
	})
	return out, err
}

// SetCategoryModule enables or disables module for every tenant of category
func (s *Service) SetCategoryModule(ctx context.Context, actor models.Actor, category models.Category, module models.Module, enabled bool) (*ModuleConfig, error) {
	if !category.Valid() {
		return nil, apperror.Validation("unknown category %q", category)
	}
	return s.edit(ctx, actor, module, enabled, audit.Named(models.TargetModuleMap, "category/"+string(category)),
		func(repos *repository.Repositories) error {
			return repos.ModuleMap.SetCategoryModule(category, module, enabled)
		})
}

// SetPlanModule enables or disables module for every tenant on plan
func (s *Service) SetPlanModule(ctx context.Context, actor models.Actor, plan models.Plan, module models.Module, enabled bool) (*ModuleConfig, error) {
	if !plan.Valid() {
		return nil, apperror.Validation("unknown plan %q", plan)
	}
	return s.edit(ctx, actor, module, enabled, audit.Named(models.TargetModuleMap, "plan/"+string(plan)),
		func(repos *repository.Repositories) error {
			return repos.ModuleMap.SetPlanModule(plan, module, enabled)
		})
}

func (s *Service) edit(ctx context.Context, actor models.Actor, module models.Module, enabled bool, target audit.Target, apply func(*repository.Repositories) error) (*ModuleConfig, error) {
	if !module.Valid() {
		return nil, apperror.Validation("unknown module %q", module)
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	action := fmt.Sprintf("%s module %s for %s", verb, module, target.ID)

	var cfg *ModuleConfig
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := permissions.Authorize(repos, actor, permissions.ModulesManage); err != nil {
			return err
		}
		if err := apply(repos); err != nil {
			return fmt.Errorf("failed to update module map: %w", err)
		}
		if _, err := repos.ConfigVersion.Bump(models.ConfigModules); err != nil {
			return fmt.Errorf("failed to bump module version: %w", err)
		}
		if _, err := s.trail.Record(repos, actor, action, target, models.AuditManagement); err != nil {
			return err
		}

		var err error
		cfg, err = LoadConfig(repos)
		return err
	})
	if err != nil {
		log.Warnf("[Entitlements] %s rejected: %v", action, err)
		return nil, err
	}

	log.Infof("[Entitlements] %s by %s (version %d)", action, actor.Name, cfg.Version)
	return cfg, nil
}
