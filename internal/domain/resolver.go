package domain

import "context"

// ProbabilitySource fetches historical probability analyses for a query.
type ProbabilitySource interface {
	GetProbabilities(ctx context.Context, q WeatherQuery) (WeatherResponse, error)
}

// LocationResolver names places from coordinates.
type LocationResolver interface {
	// LocationByCoordinates returns the closest known location to lat/lon,
	// or a zero Location when nothing is nearby.
	LocationByCoordinates(ctx context.Context, lat, lon float64) (Location, error)
}
