// Package seed installs default configuration and demo data.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
)

// Defaults installs the module maps and the permission matrix when they were
// never configured. It reports whether anything was written.
func Defaults(ctx context.Context, store repository.Store, trail *audit.Trail) (bool, error) {
	var seeded bool
	err := store.Transaction(ctx, func(repos *repository.Repositories) error {
		var parts []string

		version, err := repos.ConfigVersion.Get(models.ConfigModules)
		if err != nil {
			return err
		}
		if version == 0 {
			for category, modules := range CategoryModules {
				for _, m := range modules {
					if err := repos.ModuleMap.SetCategoryModule(category, m, true); err != nil {
						return fmt.Errorf("failed to seed category modules: %w", err)
					}
				}
			}
			for plan, modules := range PlanModules {
				for _, m := range modules {
					if err := repos.ModuleMap.SetPlanModule(plan, m, true); err != nil {
						return fmt.Errorf("failed to seed plan modules: %w", err)
					}
				}
			}
			if _, err := repos.ConfigVersion.Bump(models.ConfigModules); err != nil {
				return err
			}
			parts = append(parts, "module maps")
		}

		version, err = repos.ConfigVersion.Get(models.ConfigPermissions)
		if err != nil {
			return err
		}
		if version == 0 {
			for role, tokens := range Permissions {
				for _, token := range tokens {
					if err := repos.Permission.Grant(role, token); err != nil {
						return fmt.Errorf("failed to seed permissions: %w", err)
					}
				}
			}
			if _, err := repos.ConfigVersion.Bump(models.ConfigPermissions); err != nil {
				return err
			}
			parts = append(parts, "permission matrix")
		}

		if len(parts) == 0 {
			return nil
		}
		seeded = true
		action := "installed default " + strings.Join(parts, " and ")
		_, err = trail.Record(repos, models.SystemActor, action, audit.Named(models.TargetModuleMap, "defaults"), models.AuditSystem)
		return err
	})
	if err != nil {
		return false, err
	}
	if seeded {
		log.Info("[Seed] default configuration installed")
	}
	return seeded, nil
}

// DemoData is what Demo created
type DemoData struct {
	Tenants  []models.Tenant
	Units    []models.Unit
	Users    []models.User
	Bookings []models.Booking
}

// Demo stores a small set of tenants, units, users and bookings for local use
func Demo(ctx context.Context, store repository.Store, trail *audit.Trail, today time.Time) (*DemoData, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	data := &DemoData{}

	err := store.Transaction(ctx, func(repos *repository.Repositories) error {
		tenants := []*models.Tenant{
			{Name: "Sunrise Hotel", Category: models.CategoryHotel, Plan: models.PlanPro, Status: models.TenantStatusActive},
			{Name: "Kost Melati", Category: models.CategoryBoardingHouse, Plan: models.PlanBasic, Status: models.TenantStatusActive, Penalties: 3},
			{Name: "Lakeside Homestay", Category: models.CategoryHomestay, Plan: models.PlanPremium, Status: models.TenantStatusPending, FeaturedRequested: true},
		}
		for _, t := range tenants {
			if err := t.Validate(); err != nil {
				return err
			}
			if err := repos.Tenant.Create(t); err != nil {
				return err
			}
			data.Tenants = append(data.Tenants, *t)
		}
		hotel, kost := tenants[0], tenants[1]

		users := []struct {
			name, email string
			role        models.Role
			tenantID    uint
		}{
			{"Platform Operator", "operator@propertyfox.test", models.RoleSuperAdmin, 0},
			{"Sunrise Owner", "owner@sunrise.test", models.RoleBusinessOwner, hotel.ID},
			{"Sunrise Front Desk", "desk@sunrise.test", models.RoleAdminStaff, hotel.ID},
			{"Ana Guest", "ana@guest.test", models.RoleGuest, 0},
		}
		for _, u := range users {
			user, err := models.CreateUser(u.name, u.email, u.role, u.tenantID)
			if err != nil {
				return err
			}
			if err := repos.User.Create(user); err != nil {
				return err
			}
			data.Users = append(data.Users, *user)
		}
		guest := data.Users[3]

		units := []*models.Unit{
			models.NewUnit(hotel.ID, "Room 101", models.UnitStatusReady),
			models.NewUnit(hotel.ID, "Room 102", models.UnitStatusDirty),
			models.NewUnit(hotel.ID, "Room 103", models.UnitStatusMaintenance),
			models.NewUnit(kost.ID, "Kamar A", models.UnitStatusReady),
		}
		for _, u := range units {
			if err := repos.Unit.Create(u); err != nil {
				return err
			}
			data.Units = append(data.Units, *u)
		}

		bookings := []*models.Booking{
			{TenantID: hotel.ID, UnitID: units[0].ID, GuestID: guest.ID, CheckInDate: day, CheckOutDate: day.AddDate(0, 0, 2), TotalPrice: 1_800_000, Status: models.BookingStatusConfirmed, VerifiedPayment: true},
			{TenantID: hotel.ID, UnitID: units[1].ID, GuestID: guest.ID, CheckInDate: day.AddDate(0, 0, 3), CheckOutDate: day.AddDate(0, 0, 10), TotalPrice: 5_200_000, Status: models.BookingStatusConfirmed},
			{TenantID: hotel.ID, UnitID: units[0].ID, GuestID: guest.ID, CheckInDate: day.AddDate(0, 0, 14), CheckOutDate: day.AddDate(0, 0, 15), TotalPrice: 900_000, Status: models.BookingStatusPending},
			{TenantID: kost.ID, UnitID: units[3].ID, GuestID: guest.ID, CheckInDate: day.AddDate(0, -1, 0), CheckOutDate: day, TotalPrice: 1_200_000, Status: models.BookingStatusCompleted, VerifiedPayment: true},
		}
		for _, b := range bookings {
			if err := b.Validate(); err != nil {
				return err
			}
			if err := repos.Booking.Create(b); err != nil {
				return err
			}
			data.Bookings = append(data.Bookings, *b)
		}

		action := fmt.Sprintf("loaded demo data: %d tenants, %d units, %d bookings", len(tenants), len(units), len(bookings))
		_, err := trail.Record(repos, models.SystemActor, action, audit.Ref(models.TargetTenant, hotel.ID), models.AuditSystem)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load demo data: %w", err)
	}

	log.Infof("[Seed] demo data loaded (%d tenants)", len(data.Tenants))
	return data, nil
}
