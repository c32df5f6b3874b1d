// Package memstore is an in-process implementation of repository.Store.
// Each transaction works on a copy of every table and publishes it on success,
// so a failed command leaves no trace and readers never see partial writes.
package memstore

import (
	"context"
	"sync"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
)

type tables struct {
	tenants         map[uint]models.Tenant
	units           map[uint]models.Unit
	bookings        map[uint]models.Booking
	users           map[uint]models.User
	audit           []models.AuditLogEntry
	categoryModules []models.CategoryModule
	planModules     []models.PlanModule
	permissions     []models.RolePermission
	versions        map[string]int64
	seq             map[string]uint
}

func newTables() *tables {
	return &tables{
		tenants:  make(map[uint]models.Tenant),
		units:    make(map[uint]models.Unit),
		bookings: make(map[uint]models.Booking),
		users:    make(map[uint]models.User),
		versions: make(map[string]int64),
		seq:      make(map[string]uint),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		tenants:         make(map[uint]models.Tenant, len(t.tenants)),
		units:           make(map[uint]models.Unit, len(t.units)),
		bookings:        make(map[uint]models.Booking, len(t.bookings)),
		users:           make(map[uint]models.User, len(t.users)),
		audit:           append([]models.AuditLogEntry(nil), t.audit...),
		categoryModules: append([]models.CategoryModule(nil), t.categoryModules...),
		planModules:     append([]models.PlanModule(nil), t.planModules...),
		permissions:     append([]models.RolePermission(nil), t.permissions...),
		versions:        make(map[string]int64, len(t.versions)),
		seq:             make(map[string]uint, len(t.seq)),
	}
	for k, v := range t.tenants {
		c.tenants[k] = v
	}
	for k, v := range t.units {
		c.units[k] = v
	}
	for k, v := range t.bookings {
		c.bookings[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.versions {
		c.versions[k] = v
	}
	for k, v := range t.seq {
		c.seq[k] = v
	}
	return c
}

func (t *tables) next(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

func (t *tables) repositories() *repository.Repositories {
	return &repository.Repositories{
		Tenant:        &tenantRepo{t: t},
		Unit:          &unitRepo{t: t},
		Booking:       &bookingRepo{t: t},
		AuditLog:      &auditRepo{t: t},
		ModuleMap:     &moduleMapRepo{t: t},
		Permission:    &permissionRepo{t: t},
		ConfigVersion: &versionRepo{t: t},
		User:          &userRepo{t: t},
	}
}

// Store is a transactional in-memory store. The zero value is not usable; call New.
type Store struct {
	mu   sync.Mutex
	data *tables
}

// New creates an empty store
func New() *Store {
	return &Store{data: newTables()}
}

// Transaction runs fn against a private copy of the data and publishes the copy
// only if fn succeeds. Transactions are fully serialised.
func (s *Store) Transaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(work.repositories()); err != nil {
		return err
	}
	s.data = work
	return nil
}

var _ repository.Store = (*Store)(nil)
