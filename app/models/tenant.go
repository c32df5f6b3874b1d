package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Category is the business type of a tenant
type Category string

const (
	CategoryHotel          Category = "hotel"
	CategoryHomestay       Category = "homestay"
	CategoryBoardingHouse  Category = "boarding_house"
	CategoryRentalHouse    Category = "rental_house"
	CategoryPropertySales  Category = "property_sales"
	CategoryHousingComplex Category = "housing_complex"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryHotel,
	CategoryHomestay,
	CategoryBoardingHouse,
	CategoryRentalHouse,
	CategoryPropertySales,
	CategoryHousingComplex,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Plan is the subscription tier of a tenant
type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPro     Plan = "pro"
	PlanPremium Plan = "premium"
)

// Plans lists every known plan from lowest to highest tier
var Plans = []Plan{PlanBasic, PlanPro, PlanPremium}

// Valid reports whether p is one of the known plans
func (p Plan) Valid() bool {
	for _, known := range Plans {
		if p == known {
			return true
		}
	}
	return false
}

// TenantStatus is the platform lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusPending       TenantStatus = "pending"
	TenantStatusActive        TenantStatus = "active"
	TenantStatusSuspended     TenantStatus = "suspended"
	TenantStatusRejected      TenantStatus = "rejected"
	TenantStatusInfoRequested TenantStatus = "info_requested"
	TenantStatusTerminated    TenantStatus = "terminated"
)

// Tenant is a business operating on the platform. Tenants are never deleted;
// termination is a terminal status.
type Tenant struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	Name              string       `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Category          Category     `gorm:"type:varchar(32);not null;index" json:"category" validate:"required,oneof=hotel homestay boarding_house rental_house property_sales housing_complex"`
	Plan              Plan         `gorm:"type:varchar(16);not null;default:'basic'" json:"plan" validate:"required,oneof=basic pro premium"`
	Status            TenantStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"required,oneof=pending active suspended rejected info_requested terminated"`
	Penalties         int          `gorm:"not null;default:0" json:"penalties" validate:"gte=0"`
	FeaturedRequested bool         `gorm:"default:false" json:"featured_requested"`
	Featured          bool         `gorm:"default:false" json:"featured"`
	OwnerID           uint         `gorm:"index" json:"owner_id"`
	CreatedAt         time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Tenant) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

// IsActive reports whether the tenant may currently operate
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// IsTerminated reports whether the tenant reached its terminal status
func (t *Tenant) IsTerminated() bool {
	return t.Status == TenantStatusTerminated
}
