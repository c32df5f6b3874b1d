package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
)

// Clock supplies timestamps for new entries
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now returns f()
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock uses time.Now in UTC
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Target references the entity a command acted on
type Target struct {
	Type string
	ID   string
}

// Ref builds a target from a type name and numeric id
func Ref(targetType string, id uint) Target {
	return Target{Type: targetType, ID: fmt.Sprintf("%d", id)}
}

// Named builds a target identified by a name rather than a number
func Named(targetType, name string) Target {
	return Target{Type: targetType, ID: name}
}

func (t Target) String() string {
	return t.Type + ":" + t.ID
}

// Trail appends and queries the audit log
type Trail struct {
	clock Clock
}

// NewTrail creates a trail stamping entries with clock; nil means SystemClock
func NewTrail(clock Clock) *Trail {
	if clock == nil {
		clock = SystemClock
	}
	return &Trail{clock: clock}
}

// Record appends exactly one entry through repos, which must be bound to the
// caller's transaction so the entry commits or rolls back with the command.
func (tr *Trail) Record(repos *repository.Repositories, actor models.Actor, action string, target Target, category models.AuditCategory) (*models.AuditLogEntry, error) {
	return tr.RecordRelated(repos, actor, action, target, Target{}, category)
}

// RecordRelated is Record with a secondary target, e.g. the unit of a booking
func (tr *Trail) RecordRelated(repos *repository.Repositories, actor models.Actor, action string, target, related Target, category models.AuditCategory) (*models.AuditLogEntry, error) {
	if !category.Valid() {
		return nil, apperror.Validation("unknown audit category %q", category)
	}
	if strings.TrimSpace(action) == "" || target.Type == "" || target.ID == "" {
		return nil, apperror.Validation("audit entry needs an action and a target")
	}

	// Latest locks the tail of the log, so the clamp below holds across
	// concurrent transactions. Sequence (id) order is the total order.
	now := tr.clock.Now()
	latest, err := repos.AuditLog.Latest()
	if err != nil {
		return nil, fmt.Errorf("failed to read latest audit entry: %w", err)
	}
	if latest != nil && now.Before(latest.CreatedAt) {
		now = latest.CreatedAt
	}

	entry := &models.AuditLogEntry{
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorRole:   actor.Role,
		Action:      action,
		TargetType:  target.Type,
		TargetID:    target.ID,
		RelatedType: related.Type,
		RelatedID:   related.ID,
		Category:    category,
		CreatedAt:   now,
	}
	if err := repos.AuditLog.Append(entry); err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}

	log.Debugf("[Audit] %s %s by %s (%s)", category, entry.TargetRef(), actor.Name, action)
	return entry, nil
}
