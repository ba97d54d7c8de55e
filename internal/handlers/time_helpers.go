package handlers

import (
	"time"

	"github.com/groomly/grooming-scheduler/internal/models"
	"github.com/groomly/grooming-scheduler/internal/timezone"
)

// All request dates/times are interpreted in the tenant's timezone;
// weekday boundaries shift across zones, so never do naive UTC math.

func locationFromTenant(tenant *models.Tenant) *time.Location {
	if tenant != nil {
		return timezone.Location(tenant.Timezone)
	}
	return time.UTC
}

func parseDateInTenant(tenant *models.Tenant, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromTenant(tenant),
	)
}

func parseDateTimeInTenant(
	tenant *models.Tenant,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromTenant(tenant),
	)
}
