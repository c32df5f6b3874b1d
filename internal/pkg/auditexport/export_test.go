package auditexport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/config"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/memstore"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

var exportTime = time.Date(2024, 7, 9, 18, 30, 0, 0, time.UTC)

func seedTrail(t *testing.T) (*memstore.Store, *audit.Trail) {
	t.Helper()
	store := memstore.New()
	trail := audit.NewTrail(audit.ClockFunc(func() time.Time { return exportTime.Add(-time.Hour) }))
	desk := models.Actor{ID: 7, Name: "Desk", Role: models.RoleAdminStaff, TenantID: 1}

	require.NoError(t, store.Transaction(context.Background(), func(repos *repository.Repositories) error {
		if _, err := trail.Record(repos, desk, "checked in booking 1 to Room 101", audit.Ref(models.TargetBooking, 1), models.AuditOperational); err != nil {
			return err
		}
		_, err := trail.Record(repos, desk, "verified payment of booking 1", audit.Ref(models.TargetBooking, 1), models.AuditFinancial)
		return err
	}))
	return store, trail
}

func newExporter(putter ObjectPutter, store repository.Store, trail *audit.Trail) *Exporter {
	cfg := config.S3{Bucket: "pf-audit", Prefix: "audit"}
	return NewExporter(putter, cfg, store, trail, audit.ClockFunc(func() time.Time { return exportTime }))
}

func TestExportUploadsJSONLines(t *testing.T) {
	store, trail := seedTrail(t)
	putter := &fakePutter{}
	exporter := newExporter(putter, store, trail)

	result, err := exporter.Export(context.Background(), models.SystemActor, audit.Filter{Category: models.AuditOperational})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Entries)
	assert.Equal(t, "pf-audit", aws.ToString(putter.input.Bucket))
	assert.True(t, strings.HasPrefix(result.Key, "audit/2024/07/09/"))
	assert.True(t, strings.HasSuffix(result.Key, ".jsonl"))
	assert.Equal(t, contentType, aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(len(putter.body)), result.Size)

	scanner := bufio.NewScanner(bytes.NewReader(putter.body))
	var lines []models.AuditLogEntry
	for scanner.Scan() {
		var entry models.AuditLogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, "booking", lines[0].TargetType)

	system, err := trail.Query(context.Background(), store, audit.Filter{Category: models.AuditSystem})
	require.NoError(t, err)
	require.Len(t, system, 1)
	assert.Equal(t, "audit_export:"+result.Key, system[0].TargetRef())
}

func TestExportFailureRecordsNothing(t *testing.T) {
	store, trail := seedTrail(t)
	exporter := newExporter(&fakePutter{err: errors.New("bucket gone")}, store, trail)

	_, err := exporter.Export(context.Background(), models.SystemActor, audit.Filter{})
	assert.Error(t, err)

	n, err := trail.Count(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestExportRequiresPlatformAuditAccess(t *testing.T) {
	store, trail := seedTrail(t)
	putter := &fakePutter{}
	exporter := newExporter(putter, store, trail)

	owner := models.Actor{ID: 3, Name: "Owner", Role: models.RoleBusinessOwner, TenantID: 1}
	_, err := exporter.Export(context.Background(), owner, audit.Filter{})
	assert.True(t, apperror.IsPermissionDenied(err))
	assert.Nil(t, putter.input)
}
