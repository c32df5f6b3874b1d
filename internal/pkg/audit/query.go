package audit

import (
	"context"
	"strings"
	"time"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
)

// Filter selects audit entries. Zero values mean "any"; all set fields must match.
type Filter struct {
	ActorID *uint
	// Target matches as a case-insensitive substring of "type:id" of the
	// primary or the related target.
	Target   string
	Category models.AuditCategory
	From     time.Time
	To       time.Time
}

// Query returns matching entries in append order
func (tr *Trail) Query(ctx context.Context, store repository.Store, filter Filter) ([]models.AuditLogEntry, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperror.Validation("unknown audit category %q", filter.Category)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, apperror.Validation("time range ends before it starts")
	}

	var out []models.AuditLogEntry
	err := store.Transaction(ctx, func(repos *repository.Repositories) error {
		entries, err := repos.AuditLog.Query(repository.AuditQuery{
			ActorID:  filter.ActorID,
			Category: filter.Category,
			From:     filter.From,
			To:       filter.To,
		})
		if err != nil {
			return err
		}
		out = MatchTarget(entries, filter.Target)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MatchTarget keeps entries whose primary or related reference contains needle
func MatchTarget(entries []models.AuditLogEntry, needle string) []models.AuditLogEntry {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return entries
	}

	out := make([]models.AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.TargetRef()), needle) ||
			strings.Contains(strings.ToLower(e.RelatedRef()), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of stored entries
func (tr *Trail) Count(ctx context.Context, store repository.Store) (int64, error) {
	var n int64
	err := store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		n, err = repos.AuditLog.Count()
		return err
	})
	return n, err
}
