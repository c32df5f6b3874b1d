package permissions

// Permission tokens checked before state-changing commands
const (
	BookingCreate   = "booking.create"
	BookingConfirm  = "booking.confirm"
	BookingCheckIn  = "booking.check_in"
	BookingCheckOut = "booking.check_out"
	BookingCancel   = "booking.cancel"
	PaymentVerify   = "payment.verify"

	UnitManage    = "unit.manage"
	UnitSetStatus = "unit.set_status"

	TenantEnroll         = "tenant.enroll"
	TenantApprove        = "tenant.approve"
	TenantSuspend        = "tenant.suspend"
	TenantTerminate      = "tenant.terminate"
	TenantPenalize       = "tenant.penalize"
	TenantFeatureRequest = "tenant.feature_request"
	TenantFeature        = "tenant.feature"
	TenantPlan           = "tenant.plan"
	ModulesManage        = "modules.manage"
	PermissionsManage    = "permissions.manage"
	UsersManage          = "users.manage"
	AuditView            = "audit.view"
	OversightView        = "oversight.view"
)

// All lists every known token
var All = []string{
	BookingCreate,
	BookingConfirm,
	BookingCheckIn,
	BookingCheckOut,
	BookingCancel,
	PaymentVerify,
	UnitManage,
	UnitSetStatus,
	TenantEnroll,
	TenantApprove,
	TenantSuspend,
	TenantTerminate,
	TenantPenalize,
	TenantFeatureRequest,
	TenantFeature,
	TenantPlan,
	ModulesManage,
	PermissionsManage,
	UsersManage,
	AuditView,
	OversightView,
}

// Known reports whether token is a defined permission
func Known(token string) bool {
	for _, t := range All {
		if t == token {
			return true
		}
	}
	return false
}
