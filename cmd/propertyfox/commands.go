package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PropertyFox/app/models"
	"github.com/ManuelReschke/PropertyFox/app/repository"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/audit"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/auditexport"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/entitlements"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/oversight"
	"github.com/ManuelReschke/PropertyFox/internal/pkg/seed"
)

var errUsage = errors.New("missing or invalid arguments")

// Run dispatches one command
func (a *Application) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "seed":
		return a.seed(ctx, args)
	case "modules":
		return a.modules(ctx, args)
	case "report":
		return a.report(ctx, args)
	case "checkin", "checkout":
		return a.occupancy(ctx, command, args)
	case "audit":
		return a.audit(ctx, args)
	case "export":
		return a.export(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *Application) seed(ctx context.Context, args []string) error {
	if _, err := seed.Defaults(ctx, a.Store, a.Trail); err != nil {
		return err
	}
	if len(args) > 0 && args[0] == "demo" {
		data, err := seed.Demo(ctx, a.Store, a.Trail, time.Now().UTC())
		if err != nil {
			return err
		}
		for _, u := range data.Users {
			fmt.Printf("user %d\t%s\t%s\n", u.ID, u.Role, u.Email)
		}
	}
	return nil
}

func (a *Application) modules(ctx context.Context, args []string) error {
	tenantID, err := idArg(args, 0)
	if err != nil {
		return err
	}

	var tenant *models.Tenant
	var cfg *entitlements.ModuleConfig
	err = a.Store.Transaction(ctx, func(repos *repository.Repositories) error {
		t, err := repos.Tenant.GetByID(tenantID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("tenant %d not found", tenantID)
		}
		if err != nil {
			return err
		}
		tenant = t
		cfg, err = entitlements.LoadConfig(repos)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s, %s) module config v%d\n", tenant.Name, tenant.Category, tenant.Plan, cfg.Version)
	fmt.Printf("  effective: %s\n", joinModules(entitlements.EffectiveModules(tenant, cfg)))
	fmt.Printf("  hidden:    %s\n", joinModules(entitlements.Hidden(tenant, cfg)))
	return nil
}

func (a *Application) report(ctx context.Context, args []string) error {
	var filter oversight.Filter
	if len(args) > 0 {
		tenantID, err := idArg(args, 0)
		if err != nil {
			return err
		}
		filter.TenantID = tenantID
	}
	if len(args) > 1 {
		filter.Date = args[1]
	}

	opts := oversight.Options{
		PriceThreshold:     a.Config.Oversight.PriceThreshold,
		ViolationThreshold: a.Config.Oversight.ViolationThreshold,
	}
	report, err := oversight.NewService(a.Store, opts).Scan(ctx, models.SystemActor, filter)
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d bookings\n", report.Scanned)
	for _, r := range report.Bookings {
		fmt.Printf("booking %d\ttenant %d\t%s\t%d\t%v\n", r.Booking.ID, r.Booking.TenantID, r.Booking.CheckInDay(), r.Booking.TotalPrice, r.Flags)
	}
	for _, r := range report.Tenants {
		fmt.Printf("tenant %d\t%s\t%d penalties\t%v\n", r.Tenant.ID, r.Tenant.Name, r.Tenant.Penalties, r.Flags)
	}
	return nil
}

func (a *Application) occupancy(ctx context.Context, command string, args []string) error {
	bookingID, err := idArg(args, 0)
	if err != nil {
		return err
	}
	actor, err := a.actor(ctx, args, 1)
	if err != nil {
		return err
	}

	run := a.Engine.CheckIn
	if command == "checkout" {
		run = a.Engine.CheckOut
	}
	occ, err := run(ctx, actor, bookingID)
	if err != nil {
		return err
	}
	fmt.Printf("booking %d %s, %s %s\n", occ.Booking.ID, occ.Booking.Status, occ.Unit.Name, occ.Unit.Status)
	return nil
}

func (a *Application) audit(ctx context.Context, args []string) error {
	filter := audit.Filter{}
	if len(args) > 0 {
		filter.Target = args[0]
	}
	entries, err := a.Trail.Query(ctx, a.Store, filter)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s\t%-11s\t%s (%s)\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339), e.Category, e.ActorName, e.ActorRole, e.Action, e.TargetRef())
	}
	return nil
}

func (a *Application) export(ctx context.Context, args []string) error {
	if !a.Config.S3.Enabled {
		return apperror.Validation("audit export is disabled, set AUDIT_EXPORT_ENABLED=true")
	}

	filter := audit.Filter{}
	if len(args) > 0 {
		category := models.AuditCategory(args[0])
		if !category.Valid() {
			return apperror.Validation("unknown audit category %q", args[0])
		}
		filter.Category = category
	}

	client, err := auditexport.NewS3Client(ctx, a.Config.S3)
	if err != nil {
		return err
	}
	exporter := auditexport.NewExporter(client, a.Config.S3, a.Store, a.Trail, nil)
	result, err := exporter.Export(ctx, models.SystemActor, filter)
	if err != nil {
		return err
	}

	log.Infof("[PropertyFox] exported %d entries to s3://%s/%s", result.Entries, result.Bucket, result.Key)
	return nil
}

// actor loads the user named by args[i] and returns its identity
func (a *Application) actor(ctx context.Context, args []string, i int) (models.Actor, error) {
	userID, err := idArg(args, i)
	if err != nil {
		return models.Actor{}, err
	}

	var actor models.Actor
	err = a.Store.Transaction(ctx, func(repos *repository.Repositories) error {
		u, err := repos.User.GetByID(userID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user %d not found", userID)
		}
		if err != nil {
			return err
		}
		if !u.IsActive() {
			return apperror.PermissionDenied("user %d is %s", userID, u.Status)
		}
		actor = u.Actor()
		return nil
	})
	return actor, err
}

func idArg(args []string, i int) (uint, error) {
	if len(args) <= i {
		return 0, errUsage
	}
	id, err := strconv.ParseUint(args[i], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q is not an id", errUsage, args[i])
	}
	return uint(id), nil
}

func joinModules(modules []models.Module) string {
	if len(modules) == 0 {
		return "-"
	}
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
