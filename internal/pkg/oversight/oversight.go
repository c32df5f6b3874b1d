// Package oversight flags bookings and tenants for manual review.
// Scans are pure functions of the snapshot they are given.
package oversight

import (
	"strings"

	"github.com/ManuelReschke/PropertyFox/app/models"
)

// Flag names a heuristic that matched
type Flag string

const (
	FlagPriceOutlier        Flag = "price_outlier"
	FlagUnverifiedConfirmed Flag = "unverified_confirmed"
	FlagRepeatedViolations  Flag = "repeated_violations"
)

const (
	DefaultPriceThreshold     int64 = 4_000_000
	DefaultViolationThreshold       = 3
)

// Options tunes the heuristics. Zero values fall back to the defaults.
type Options struct {
	PriceThreshold     int64
	ViolationThreshold int
}

// DefaultOptions returns the thresholds used when nothing is configured
func DefaultOptions() Options {
	return Options{PriceThreshold: DefaultPriceThreshold, ViolationThreshold: DefaultViolationThreshold}
}

func (o Options) withDefaults() Options {
	if o.PriceThreshold <= 0 {
		o.PriceThreshold = DefaultPriceThreshold
	}
	if o.ViolationThreshold <= 0 {
		o.ViolationThreshold = DefaultViolationThreshold
	}
	return o
}

// Filter narrows a booking scan. TenantID zero means every tenant; Date is
// matched as a substring of the check-in day (2006-01-02), so "2024-07"
// selects a month.
type Filter struct {
	TenantID uint
	Date     string
}

func (f Filter) match(b *models.Booking) bool {
	if f.TenantID != 0 && b.TenantID != f.TenantID {
		return false
	}
	if f.Date != "" && !strings.Contains(b.CheckInDay(), f.Date) {
		return false
	}
	return true
}

// AnomalyReport is a booking with at least one flag
type AnomalyReport struct {
	Booking models.Booking
	Flags   []Flag
}

// Has reports whether flag is set
func (r AnomalyReport) Has(flag Flag) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// BookingFlags returns every heuristic b matches
func BookingFlags(b *models.Booking, opts Options) []Flag {
	opts = opts.withDefaults()
	var flags []Flag
	if b.TotalPrice > opts.PriceThreshold {
		flags = append(flags, FlagPriceOutlier)
	}
	if b.Status == models.BookingStatusConfirmed && !b.VerifiedPayment {
		flags = append(flags, FlagUnverifiedConfirmed)
	}
	return flags
}

// ScanAnomalies reports the flagged bookings matching filter, in input order
func ScanAnomalies(bookings []models.Booking, filter Filter, opts Options) []AnomalyReport {
	var out []AnomalyReport
	for i := range bookings {
		b := &bookings[i]
		if !filter.match(b) {
			continue
		}
		if flags := BookingFlags(b, opts); len(flags) > 0 {
			out = append(out, AnomalyReport{Booking: *b, Flags: flags})
		}
	}
	return out
}

// TenantReport is a tenant with at least one flag
type TenantReport struct {
	Tenant models.Tenant
	Flags  []Flag
}

// ScanTenants reports tenants whose penalty count reached the violation threshold.
// Terminated tenants are skipped.
func ScanTenants(tenants []models.Tenant, opts Options) []TenantReport {
	opts = opts.withDefaults()
	var out []TenantReport
	for _, t := range tenants {
		if t.IsTerminated() {
			continue
		}
		if t.Penalties >= opts.ViolationThreshold {
			out = append(out, TenantReport{Tenant: t, Flags: []Flag{FlagRepeatedViolations}})
		}
	}
	return out
}
