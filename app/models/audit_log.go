package models

import (
	"fmt"
	"time"
)

// AuditCategory groups audit entries for filtering
type AuditCategory string

const (
	AuditManagement  AuditCategory = "management"
	AuditSecurity    AuditCategory = "security"
	AuditSystem      AuditCategory = "system"
	AuditFinancial   AuditCategory = "financial"
	AuditOperational AuditCategory = "operational"
)

// AuditCategories lists every audit category
var AuditCategories = []AuditCategory{
	AuditManagement,
	AuditSecurity,
	AuditSystem,
	AuditFinancial,
	AuditOperational,
}

// Valid reports whether c is a known audit category
func (c AuditCategory) Valid() bool {
	for _, known := range AuditCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Target type names used in audit references
const (
	TargetTenant      = "tenant"
	TargetUnit        = "unit"
	TargetBooking     = "booking"
	TargetUser        = "user"
	TargetRole        = "role"
	TargetModuleMap   = "module_map"
	TargetAuditExport = "audit_export"
)

// AuditLogEntry is an append-only record of one state-changing command.
// ID is the append sequence and defines the total order together with CreatedAt.
type AuditLogEntry struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID     uint          `gorm:"index;not null" json:"actor_id"`
	ActorName   string        `gorm:"type:varchar(150)" json:"actor_name"`
	ActorRole   Role          `gorm:"type:varchar(32);index" json:"actor_role"`
	Action      string        `gorm:"type:varchar(255);not null" json:"action"`
	TargetType  string        `gorm:"type:varchar(32);index;not null" json:"target_type"`
	TargetID    string        `gorm:"type:varchar(64);index;not null" json:"target_id"`
	RelatedType string        `gorm:"type:varchar(32)" json:"related_type,omitempty"`
	RelatedID   string        `gorm:"type:varchar(64)" json:"related_id,omitempty"`
	Category    AuditCategory `gorm:"type:varchar(20);index;not null" json:"category"`
	CreatedAt   time.Time     `gorm:"index;not null" json:"created_at"`
}

// TableName keeps the historical table name
func (AuditLogEntry) TableName() string {
	return "audit_logs"
}

// TargetRef renders the primary target as "type:id"
func (e *AuditLogEntry) TargetRef() string {
	return fmt.Sprintf("%s:%s", e.TargetType, e.TargetID)
}

// RelatedRef renders the related target as "type:id", or "" when there is none
func (e *AuditLogEntry) RelatedRef() string {
	if e.RelatedType == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", e.RelatedType, e.RelatedID)
}
