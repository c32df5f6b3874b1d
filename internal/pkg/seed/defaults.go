package seed

import (
	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

// CategoryModules is the module map installed on a fresh database
var CategoryModules = map[models.Category][]models.Module{
	models.CategoryHotel: {
		models.ModuleBooking, models.ModulePayment, models.ModuleReviews, models.ModuleMaintenance,
		models.ModuleMarketing, models.ModuleInventory, models.ModuleFinance, models.ModuleTeam,
	},
	models.CategoryHomestay: {
		models.ModuleBooking, models.ModulePayment, models.ModuleReviews, models.ModuleMaintenance,
		models.ModuleMarketing, models.ModuleFinance,
	},
	models.CategoryBoardingHouse: {
		models.ModuleMonthlyRental, models.ModulePayment, models.ModuleMaintenance, models.ModuleFinance, models.ModuleTeam,
	},
	models.CategoryRentalHouse: {
		models.ModuleMonthlyRental, models.ModulePayment, models.ModuleMaintenance, models.ModuleFinance,
	},
	models.CategoryPropertySales: {
		models.ModuleSalesPurchase, models.ModuleMarketing, models.ModuleFinance, models.ModuleTeam,
	},
	models.CategoryHousingComplex: {
		models.ModuleSalesPurchase, models.ModuleMonthlyRental, models.ModuleMaintenance, models.ModuleFinance, models.ModuleTeam,
	},
}

// PlanModules is the plan map installed on a fresh database
var PlanModules = map[models.Plan][]models.Module{
	models.PlanBasic: {
		models.ModuleBooking, models.ModulePayment, models.ModuleReviews, models.ModuleMonthlyRental, models.ModuleSalesPurchase,
	},
	models.PlanPro: {
		models.ModuleBooking, models.ModulePayment, models.ModuleReviews, models.ModuleMonthlyRental, models.ModuleSalesPurchase,
		models.ModuleMaintenance, models.ModuleInventory, models.ModuleTeam,
	},
	models.PlanPremium: models.Modules,
}

// Permissions is the role matrix installed on a fresh database.
// Platform operators are not listed: their authority is not data.
var Permissions = map[models.Role][]string{
	models.RoleBusinessOwner: {
		permissions.BookingCreate, permissions.BookingConfirm, permissions.BookingCheckIn,
		permissions.BookingCheckOut, permissions.BookingCancel, permissions.PaymentVerify,
		permissions.UnitManage, permissions.UnitSetStatus,
		permissions.TenantEnroll, permissions.TenantFeatureRequest,
		permissions.UsersManage, permissions.OversightView,
	},
	models.RoleAdminStaff: {
		permissions.BookingConfirm, permissions.BookingCheckIn, permissions.BookingCheckOut,
		permissions.BookingCancel, permissions.PaymentVerify, permissions.UnitSetStatus,
	},
	models.RoleGuest: {
		permissions.BookingCreate, permissions.BookingCancel, permissions.TenantEnroll,
	},
}
