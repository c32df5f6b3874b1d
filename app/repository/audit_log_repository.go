package repository

import (
	"errors"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// auditLogRepository implements the AuditLogRepository interface
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository instance
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Append inserts a new entry. Existing entries are never touched.
func (r *auditLogRepository) Append(entry *models.AuditLogEntry) error {
	return r.db.Create(entry).Error
}

// Latest returns the entry with the highest sequence number and locks it
// together with the gap above it, so concurrent appenders serialise until
// the caller's transaction ends.
func (r *auditLogRepository) Latest() (*models.AuditLogEntry, error) {
	var entry models.AuditLogEntry
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Order("id DESC").Limit(1).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Query returns entries matching the indexed filters in append order
func (r *auditLogRepository) Query(q AuditQuery) ([]models.AuditLogEntry, error) {
	query := r.db.Model(&models.AuditLogEntry{})
	if q.ActorID != nil {
		query = query.Where("actor_id = ?", *q.ActorID)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if !q.From.IsZero() {
		query = query.Where("created_at >= ?", q.From)
	}
	if !q.To.IsZero() {
		query = query.Where("created_at <= ?", q.To)
	}

	var entries []models.AuditLogEntry
	err := query.Order("id ASC").Find(&entries).Error
	return entries, err
}

// Count returns the number of entries in the log
func (r *auditLogRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.AuditLogEntry{}).Count(&count).Error
	return count, err
}
