package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Locator resolves a city name to coordinates. Used as a fallback when the
// weather payload carries a temperature but no coordinates.
type Locator interface {
	Locate(city string) (lat, lon float64, ok bool)
}

// Fetcher retrieves live temperatures for a set of cities with one request
// per city, all in flight concurrently.
type Fetcher struct {
	provider Provider
	locator  Locator
}

// NewFetcher creates a Fetcher. locator may be nil.
func NewFetcher(provider Provider, locator Locator) *Fetcher {
	return &Fetcher{
		provider: provider,
		locator:  locator,
	}
}

// FetchAll issues one request per city, all concurrently, and blocks until
// every request has resolved. A response without a temperature field is a
// valid absent result; a transport or decode failure on any request fails
// the whole batch with a single error.
func (f *Fetcher) FetchAll(ctx context.Context, cities []string, apiKey string) (map[string]LiveReading, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  = make(map[string]LiveReading, len(cities))
		firstErr error
	)

	for _, city := range cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := f.provider.Current(ctx, city, apiKey)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("provider %s fetch failed for %s: %v", f.provider.Name(), city, err)
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[city] = r
		}()
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("live temperature fetch failed: %w", firstErr)
	}

	f.fillCoordinates(results)
	return results, nil
}

// fillCoordinates resolves missing coordinates through the locator for
// readings that do have a temperature.
func (f *Fetcher) fillCoordinates(results map[string]LiveReading) {
	if f.locator == nil {
		return
	}
	for city, r := range results {
		if !r.HasTemperature() || r.HasCoordinates() {
			continue
		}
		lat, lon, ok := f.locator.Locate(city)
		if !ok {
			continue
		}
		r.Lat = &lat
		r.Lon = &lon
		results[city] = r
	}
}
