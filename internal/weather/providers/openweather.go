package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/climascope/climascope/internal/weather"
)

// OpenWeather implements the weather.Provider interface for the
// OpenWeatherMap current-weather endpoint.
type OpenWeather struct {
	name    string
	baseURL string
	client  *http.Client
	backoff Backoff
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeather(client *http.Client) *OpenWeather {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeather{
		name:    "openweathermap",
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  client,
		backoff: Backoff{
			MaxRetries: 3,
			Initial:    500 * time.Millisecond,
			Max:        5 * time.Second,
		},
		circuit: cb,
	}
}

func (p *OpenWeather) Name() string {
	return p.name
}

// Current fetches the live conditions for one city. A well-formed response
// without a main.temp field yields an absent reading, not an error.
func (p *OpenWeather) Current(ctx context.Context, city, apiKey string) (weather.LiveReading, error) {
	if apiKey == "" {
		return weather.LiveReading{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("units", "metric")
		values.Set("APPID", apiKey)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.backoff, buildRequest)
	if err != nil {
		return weather.LiveReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Coord *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.LiveReading{}, fmt.Errorf("failed to decode openweather response: %w", err)
	}

	reading := weather.LiveReading{City: city}
	if payload.Main == nil || payload.Main.Temp == nil {
		return reading, nil
	}

	reading.Temperature = payload.Main.Temp
	if payload.Coord != nil {
		lat, lon := payload.Coord.Lat, payload.Coord.Lon
		reading.Lat = &lat
		reading.Lon = &lon
	}
	return reading, nil
}
