package weather

import "context"

// LiveReading is the current-conditions result for one city. Temperature is
// absent when the provider response lacks it; coordinates are only populated
// alongside a temperature.
type LiveReading struct {
	City        string   `json:"city"`
	Temperature *float64 `json:"temperature"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

// HasTemperature reports whether the provider returned a temperature.
func (r LiveReading) HasTemperature() bool {
	return r.Temperature != nil
}

// HasCoordinates reports whether the reading carries usable coordinates.
func (r LiveReading) HasCoordinates() bool {
	return r.Lat != nil && r.Lon != nil
}

// Provider abstracts a current-weather data source.
type Provider interface {
	Name() string
	Current(ctx context.Context, city, apiKey string) (LiveReading, error)
}
