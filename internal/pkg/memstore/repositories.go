package memstore

import (
	"sort"
	"time"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
)

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

type tenantRepo struct{ t *tables }

func (r *tenantRepo) Create(tenant *models.Tenant) error {
	tenant.ID = r.t.next("tenants")
	stamp(&tenant.CreatedAt, &tenant.UpdatedAt)
	r.t.tenants[tenant.ID] = *tenant
	return nil
}

func (r *tenantRepo) GetByID(id uint) (*models.Tenant, error) {
	tenant, ok := r.t.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &tenant, nil
}

func (r *tenantRepo) GetForUpdate(id uint) (*models.Tenant, error) {
	return r.GetByID(id)
}

func (r *tenantRepo) Update(tenant *models.Tenant) error {
	if _, ok := r.t.tenants[tenant.ID]; !ok {
		return repository.ErrNotFound
	}
	stamp(nil, &tenant.UpdatedAt)
	r.t.tenants[tenant.ID] = *tenant
	return nil
}

func (r *tenantRepo) List() ([]models.Tenant, error) {
	out := make([]models.Tenant, 0, len(r.t.tenants))
	for _, tenant := range r.t.tenants {
		out = append(out, tenant)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type unitRepo struct{ t *tables }

func (r *unitRepo) Create(unit *models.Unit) error {
	unit.ID = r.t.next("units")
	stamp(&unit.CreatedAt, &unit.UpdatedAt)
	r.t.units[unit.ID] = *unit
	return nil
}

func (r *unitRepo) GetByID(id uint) (*models.Unit, error) {
	unit, ok := r.t.units[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &unit, nil
}

func (r *unitRepo) GetForUpdate(id uint) (*models.Unit, error) {
	return r.GetByID(id)
}

func (r *unitRepo) Update(unit *models.Unit) error {
	if _, ok := r.t.units[unit.ID]; !ok {
		return repository.ErrNotFound
	}
	stamp(nil, &unit.UpdatedAt)
	r.t.units[unit.ID] = *unit
	return nil
}

func (r *unitRepo) ListByTenant(tenantID uint) ([]models.Unit, error) {
	var out []models.Unit
	for _, unit := range r.t.units {
		if unit.TenantID == tenantID {
			out = append(out, unit)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type bookingRepo struct{ t *tables }

func (r *bookingRepo) Create(booking *models.Booking) error {
	booking.ID = r.t.next("bookings")
	stamp(&booking.CreatedAt, &booking.UpdatedAt)
	r.t.bookings[booking.ID] = *booking
	return nil
}

func (r *bookingRepo) GetByID(id uint) (*models.Booking, error) {
	booking, ok := r.t.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &booking, nil
}

func (r *bookingRepo) GetForUpdate(id uint) (*models.Booking, error) {
	return r.GetByID(id)
}

func (r *bookingRepo) Update(booking *models.Booking) error {
	if _, ok := r.t.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	stamp(nil, &booking.UpdatedAt)
	r.t.bookings[booking.ID] = *booking
	return nil
}

func (r *bookingRepo) List(filter repository.BookingFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.t.bookings {
		if filter.TenantID != 0 && b.TenantID != filter.TenantID {
			continue
		}
		if filter.UnitID != 0 && b.UnitID != filter.UnitID {
			continue
		}
		if filter.GuestID != 0 && b.GuestID != filter.GuestID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, b.Status) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func hasStatus(statuses []models.BookingStatus, s models.BookingStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

type auditRepo struct{ t *tables }

func (r *auditRepo) Append(entry *models.AuditLogEntry) error {
	entry.ID = r.t.next("audit_logs")
	r.t.audit = append(r.t.audit, *entry)
	return nil
}

func (r *auditRepo) Latest() (*models.AuditLogEntry, error) {
	if len(r.t.audit) == 0 {
		return nil, nil
	}
	entry := r.t.audit[len(r.t.audit)-1]
	return &entry, nil
}

func (r *auditRepo) Query(q repository.AuditQuery) ([]models.AuditLogEntry, error) {
	var out []models.AuditLogEntry
	for _, e := range r.t.audit {
		if q.ActorID != nil && e.ActorID != *q.ActorID {
			continue
		}
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		if !q.From.IsZero() && e.CreatedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && e.CreatedAt.After(q.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *auditRepo) Count() (int64, error) {
	return int64(len(r.t.audit)), nil
}

type moduleMapRepo struct{ t *tables }

func (r *moduleMapRepo) ListCategoryModules() ([]models.CategoryModule, error) {
	return append([]models.CategoryModule(nil), r.t.categoryModules...), nil
}

func (r *moduleMapRepo) ListPlanModules() ([]models.PlanModule, error) {
	return append([]models.PlanModule(nil), r.t.planModules...), nil
}

func (r *moduleMapRepo) SetCategoryModule(category models.Category, module models.Module, enabled bool) error {
	kept := r.t.categoryModules[:0:0]
	found := false
	for _, row := range r.t.categoryModules {
		if row.Category == category && row.Module == module {
			found = true
			if !enabled {
				continue
			}
		}
		kept = append(kept, row)
	}
	if enabled && !found {
		kept = append(kept, models.CategoryModule{ID: r.t.next("category_modules"), Category: category, Module: module, CreatedAt: time.Now()})
	}
	r.t.categoryModules = kept
	return nil
}

func (r *moduleMapRepo) SetPlanModule(plan models.Plan, module models.Module, enabled bool) error {
	kept := r.t.planModules[:0:0]
	found := false
	for _, row := range r.t.planModules {
		if row.Plan == plan && row.Module == module {
			found = true
			if !enabled {
				continue
			}
		}
		kept = append(kept, row)
	}
	if enabled && !found {
		kept = append(kept, models.PlanModule{ID: r.t.next("plan_modules"), Plan: plan, Module: module, CreatedAt: time.Now()})
	}
	r.t.planModules = kept
	return nil
}

type permissionRepo struct{ t *tables }

func (r *permissionRepo) List() ([]models.RolePermission, error) {
	return append([]models.RolePermission(nil), r.t.permissions...), nil
}

func (r *permissionRepo) Grant(role models.Role, permission string) error {
	for _, row := range r.t.permissions {
		if row.Role == role && row.Permission == permission {
			return nil
		}
	}
	r.t.permissions = append(r.t.permissions, models.RolePermission{
		ID:         r.t.next("role_permissions"),
		Role:       role,
		Permission: permission,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (r *permissionRepo) Revoke(role models.Role, permission string) error {
	kept := r.t.permissions[:0:0]
	for _, row := range r.t.permissions {
		if row.Role == role && row.Permission == permission {
			continue
		}
		kept = append(kept, row)
	}
	r.t.permissions = kept
	return nil
}

type versionRepo struct{ t *tables }

func (r *versionRepo) Get(name string) (int64, error) {
	return r.t.versions[name], nil
}

func (r *versionRepo) Bump(name string) (int64, error) {
	r.t.versions[name]++
	return r.t.versions[name], nil
}

type userRepo struct{ t *tables }

func (r *userRepo) Create(user *models.User) error {
	for _, existing := range r.t.users {
		if existing.Email == user.Email {
			return errDuplicateEmail
		}
	}
	user.ID = r.t.next("users")
	stamp(&user.CreatedAt, &user.UpdatedAt)
	r.t.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.t.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.t.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) Update(user *models.User) error {
	if _, ok := r.t.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stamp(nil, &user.UpdatedAt)
	r.t.users[user.ID] = *user
	return nil
}

func (r *userRepo) List(offset, limit int) ([]models.User, error) {
	all := make([]models.User, 0, len(r.t.users))
	for _, user := range r.t.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
