package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Location sources recorded on a report.
const (
	LocationSourceUpstream = "upstream"
	LocationSourceResolved = "resolved"
	LocationSourceFailed   = "failed"
)

// EnrichWithLocation replaces a bare "lat, lon" location label with a place
// name from resolver. A nil resolver or a failed lookup leaves the report as
// it was, with LocationSource recording what happened.
func EnrichWithLocation(ctx context.Context, report OutlookReport, resolver LocationResolver, logger *slog.Logger) OutlookReport {
	if resolver == nil {
		return report
	}
	if !isCoordinateLabel(report.Location) {
		report.LocationSource = LocationSourceUpstream
		return report
	}

	loc, err := resolver.LocationByCoordinates(ctx, report.Latitude, report.Longitude)
	if err != nil {
		logger.Warn("location lookup failed",
			"report_id", report.ID,
			"lat", report.Latitude,
			"lon", report.Longitude,
			"error", err,
		)
		report.LocationSource = LocationSourceFailed
		return report
	}
	if name := displayName(loc); name != "" {
		report.Location = name
		report.LocationSource = LocationSourceResolved
		return report
	}
	report.LocationSource = LocationSourceUpstream
	return report
}

// isCoordinateLabel reports whether s is empty or the upstream "lat, lon" form.
func isCoordinateLabel(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	var lat, lon float64
	n, err := fmt.Sscanf(s, "%g, %g", &lat, &lon)
	return err == nil && n == 2
}

func displayName(loc Location) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.Name, loc.State, loc.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
