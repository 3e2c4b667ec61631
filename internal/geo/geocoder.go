// Package geo resolves city names to coordinates through the Google
// geocoding API. It backs the map view when the weather payload lacks
// usable coordinates.
package geo

import (
	"log"

	"github.com/kelvins/geocoder"
)

// Resolver looks up city coordinates. A Resolver built without an API key is
// valid and never resolves anything.
type Resolver struct {
	enabled bool
}

// NewResolver configures the geocoding client. An empty apiKey disables the
// resolver.
func NewResolver(apiKey string) *Resolver {
	if apiKey == "" {
		return &Resolver{}
	}
	geocoder.ApiKey = apiKey
	return &Resolver{enabled: true}
}

// Locate returns the coordinates for a city name. ok is false when the
// resolver is disabled or the lookup fails.
func (r *Resolver) Locate(city string) (lat, lon float64, ok bool) {
	if !r.enabled {
		return 0, 0, false
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		log.Printf("geocoding failed for %s: %v", city, err)
		return 0, 0, false
	}
	return loc.Latitude, loc.Longitude, true
}
