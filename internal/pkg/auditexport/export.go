// Package auditexport archives audit entries as JSON lines in S3.
package auditexport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/config"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/permissions"
)

const contentType = "application/x-ndjson"

// Result describes one uploaded archive
type Result struct {
	Bucket  string
	Key     string
	Entries int
	Size    int64
}

// Exporter uploads filtered audit entries
type Exporter struct {
	client ObjectPutter
	bucket string
	prefix string
	store  repository.Store
	trail  *audit.Trail
	clock  audit.Clock
}

// NewExporter creates an exporter writing to cfg.Bucket under cfg.Prefix
func NewExporter(client ObjectPutter, cfg config.S3, store repository.Store, trail *audit.Trail, clock audit.Clock) *Exporter {
	if clock == nil {
		clock = audit.SystemClock
	}
	return &Exporter{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		store:  store,
		trail:  trail,
		clock:  clock,
	}
}

// Encode writes entries as JSON lines
func Encode(w io.Writer, entries []models.AuditLogEntry) error {
	enc := json.NewEncoder(w)
	for i := range entries {
		if err := enc.Encode(&entries[i]); err != nil {
			return fmt.Errorf("failed to encode audit entry %d: %w", entries[i].ID, err)
		}
	}
	return nil
}

// ObjectKey returns prefix/YYYY/MM/DD/<uuid>.jsonl for the export time
func (e *Exporter) ObjectKey(at time.Time) string {
	return path.Join(e.prefix, at.Format("2006/01/02"), uuid.NewString()+".jsonl")
}

// Export uploads the entries matching filter and records the export in the trail
func (e *Exporter) Export(ctx context.Context, actor models.Actor, filter audit.Filter) (*Result, error) {
	err := e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		if err := permissions.Authorize(repos, actor, permissions.AuditView); err != nil {
			return err
		}
		if actor.Role != models.RoleSuperAdmin && actor.TenantID != 0 {
			return apperror.PermissionDenied("tenant-bound actors cannot export the platform audit trail")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries, err := e.trail.Query(ctx, e.store, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, entries); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	result := &Result{Bucket: e.bucket, Key: e.ObjectKey(now), Entries: len(entries), Size: int64(buf.Len())}

	log.Infof("[AuditExport] uploading %d entries -> s3://%s/%s (%d bytes)", result.Entries, result.Bucket, result.Key, result.Size)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(result.Key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(result.Size),
		Metadata: map[string]string{
			"entries":       fmt.Sprintf("%d", result.Entries),
			"upload-source": "propertyfox-audit-export",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload audit export: %w", err)
	}

	err = e.store.Transaction(ctx, func(repos *repository.Repositories) error {
		action := fmt.Sprintf("exported %d audit entries to s3://%s/%s", result.Entries, result.Bucket, result.Key)
		_, err := e.trail.Record(repos, actor, action, audit.Named(models.TargetAuditExport, result.Key), models.AuditSystem)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
