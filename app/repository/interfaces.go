package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned by every repository when a record does not exist.
// It aliases the GORM sentinel so callers can use errors.Is with either name.
var ErrNotFound = gorm.ErrRecordNotFound

// TenantRepository defines the interface for tenant-related database operations
type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetByID(id uint) (*models.Tenant, error)
	GetForUpdate(id uint) (*models.Tenant, error)
	Update(tenant *models.Tenant) error
	List() ([]models.Tenant, error)
}

// UnitRepository defines the interface for unit-related database operations
type UnitRepository interface {
	Create(unit *models.Unit) error
	GetByID(id uint) (*models.Unit, error)
	GetForUpdate(id uint) (*models.Unit, error)
	Update(unit *models.Unit) error
	ListByTenant(tenantID uint) ([]models.Unit, error)
}

// BookingFilter narrows booking listings. Zero values mean "any".
type BookingFilter struct {
	TenantID uint
	UnitID   uint
	GuestID  uint
	Statuses []models.BookingStatus
}

// BookingRepository defines the interface for booking-related database operations
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	GetForUpdate(id uint) (*models.Booking, error)
	Update(booking *models.Booking) error
	List(filter BookingFilter) ([]models.Booking, error)
}

// AuditQuery narrows audit entries on indexed columns. Zero values mean "any".
type AuditQuery struct {
	ActorID  *uint
	Category models.AuditCategory
	From     time.Time
	To       time.Time
}

// AuditLogRepository is append-only: there is no update or delete.
type AuditLogRepository interface {
	Append(entry *models.AuditLogEntry) error
	// Latest returns the most recently appended entry, or nil when the log is empty.
	// It holds the log's tail until the transaction ends, so entries are
	// appended one transaction at a time and id order matches created_at order.
	Latest() (*models.AuditLogEntry, error)
	Query(q AuditQuery) ([]models.AuditLogEntry, error)
	Count() (int64, error)
}

// ModuleMapRepository stores the category and plan module maps
type ModuleMapRepository interface {
	ListCategoryModules() ([]models.CategoryModule, error)
	ListPlanModules() ([]models.PlanModule, error)
	SetCategoryModule(category models.Category, module models.Module, enabled bool) error
	SetPlanModule(plan models.Plan, module models.Module, enabled bool) error
}

// PermissionRepository stores the role permission matrix
type PermissionRepository interface {
	List() ([]models.RolePermission, error)
	Grant(role models.Role, permission string) error
	Revoke(role models.Role, permission string) error
}

// ConfigVersionRepository tracks edit versions of configuration objects
type ConfigVersionRepository interface {
	Get(name string) (int64, error)
	Bump(name string) (int64, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
}

// Repositories struct holds all repository instances bound to one transaction
type Repositories struct {
	Tenant        TenantRepository
	Unit          UnitRepository
	Booking       BookingRepository
	AuditLog      AuditLogRepository
	ModuleMap     ModuleMapRepository
	Permission    PermissionRepository
	ConfigVersion ConfigVersionRepository
	User          UserRepository
}

// Store runs fn atomically: either every write made through repos is committed
// or none is. Implementations must serialise conflicting transactions.
type Store interface {
	Transaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tenant:        NewTenantRepository(db),
		Unit:          NewUnitRepository(db),
		Booking:       NewBookingRepository(db),
		AuditLog:      NewAuditLogRepository(db),
		ModuleMap:     NewModuleMapRepository(db),
		Permission:    NewPermissionRepository(db),
		ConfigVersion: NewConfigVersionRepository(db),
		User:          NewUserRepository(db),
	}
}

// gormStore implements Store on top of GORM transactions
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by GORM
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Transaction runs fn inside a database transaction with repositories bound to it
func (s *gormStore) Transaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
