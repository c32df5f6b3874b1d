package oversight

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// Report is the result of one oversight run
type Report struct {
	Bookings []AnomalyReport
	Tenants  []TenantReport
	Scanned  int
}

// Service runs scans over a fresh snapshot of the store
type Service struct {
	store repository.Store
	opts  Options
}

// NewService creates an oversight service
func NewService(store repository.Store, opts Options) *Service {
	return &Service{store: store, opts: opts.withDefaults()}
}

// Scan reads the current bookings and tenants and flags anomalies.
// Tenant-bound actors only see their own tenant and get no tenant flags.
func (s *Service) Scan(ctx context.Context, actor models.Actor, filter Filter) (*Report, error) {
	if actor.Role == models.RoleGuest {
		return nil, apperror.PermissionDenied("guests cannot run oversight scans")
	}
	platform := actor.Role == models.RoleSuperAdmin
	if !platform {
		if filter.TenantID == 0 {
			filter.TenantID = actor.TenantID
		}
		if err := permissions.RequireTenantScope(actor, filter.TenantID); err != nil {
			return nil, err
		}
	}

	report := &Report{}
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := permissions.Authorize(repos, actor, permissions.OversightView); err != nil {
			return err
		}

		bookings, err := repos.Booking.List(repository.BookingFilter{TenantID: filter.TenantID})
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}
		report.Scanned = len(bookings)
		report.Bookings = ScanAnomalies(bookings, filter, s.opts)

		if platform {
			tenants, err := repos.Tenant.List()
			if err != nil {
				return fmt.Errorf("failed to list tenants: %w", err)
			}
			report.Tenants = ScanTenants(tenants, s.opts)
		}
		return nil
	})
	if err != nil {
		log.Warnf("[Oversight] scan by %s rejected: %v", actor.Name, err)
		return nil, err
	}

	log.Infof("[Oversight] scanned %d bookings: %d flagged bookings, %d flagged tenants", report.Scanned, len(report.Bookings), len(report.Tenants))
	return report, nil
}
