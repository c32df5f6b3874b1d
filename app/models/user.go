package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// User is a console account: platform operator, business owner, front-desk staff or guest.
// Authentication lives outside the core; only identity and role are kept here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email     string    `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Role      Role      `gorm:"type:varchar(32);default:'guest'" json:"role" validate:"oneof=super_admin business_owner admin_staff guest"`
	TenantID  uint      `gorm:"index" json:"tenant_id"`
	Status    string    `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(name string, email string, role Role, tenantID uint) (*User, error) {
	u := &User{
		Name:     name,
		Email:    email,
		Role:     role,
		TenantID: tenantID,
		Status:   STATUS_ACTIVE,
	}

	err := u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// Actor returns the identity used to authorise and audit commands issued by this user
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role, TenantID: u.TenantID}
}

// Actor identifies who issues a command. TenantID is zero for platform-wide actors.
type Actor struct {
	ID       uint
	Name     string
	Role     Role
	TenantID uint
}

// SystemActor is used for seeding and maintenance commands
var SystemActor = Actor{ID: 0, Name: "system", Role: RoleSuperAdmin}
