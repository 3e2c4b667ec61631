package httpapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/climascope/climascope/internal/analysis"
	"github.com/climascope/climascope/internal/dataset"
	"github.com/climascope/climascope/internal/season"
	"github.com/climascope/climascope/internal/weather"
)

var validate = validator.New()

//go:embed dashboard.html
var dashboardHTML []byte

// Deps bundles what the handlers need.
type Deps struct {
	Store   *dataset.MemoryStore
	Fetcher *weather.Fetcher

	// DefaultAPIKey is used when the request carries no appid.
	DefaultAPIKey string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html")
		return c.Send(dashboardHTML)
	})

	v1 := app.Group("/api/v1")

	v1.Post("/datasets", func(c *fiber.Ctx) error {
		return handleUpload(c, deps)
	})

	v1.Get("/datasets/:id/cities", func(c *fiber.Ctx) error {
		ds, err := loadDataset(c, deps)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":     ds.ID,
			"cities": ds.Cities(),
		})
	})

	v1.Get("/datasets/:id/analysis", func(c *fiber.Ctx) error {
		return handleAnalysis(c, deps)
	})

	v1.Get("/datasets/:id/live", func(c *fiber.Ctx) error {
		return handleLive(c, deps)
	})
}

func handleUpload(c *fiber.Ctx, deps Deps) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "a csv file upload is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	ds, err := dataset.ParseCSV(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid dataset: %v", err))
	}

	id := deps.Store.Add(ds)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     id,
		"cities": ds.Cities(),
		"rows":   len(ds.Readings),
	})
}

// cityQuery holds the query parameters shared by the analysis and live
// endpoints.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return q, errors.New("city query parameter is required")
	}
	return q, nil
}

func loadDataset(c *fiber.Ctx, deps Deps) (*dataset.Dataset, error) {
	ds, err := deps.Store.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "unknown dataset id")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load dataset")
	}
	return ds, nil
}

func citySeries(c *fiber.Ctx, deps Deps) (*dataset.Dataset, []dataset.Reading, error) {
	q, err := parseCityQuery(c)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ds, err := loadDataset(c, deps)
	if err != nil {
		return nil, nil, err
	}

	if !ds.HasCity(q.City) {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "dataset has no readings for the selected city")
	}

	return ds, ds.CitySeries(q.City), nil
}

// analysisPoint is the chart-ready view of one analyzed observation.
// RollingStd is null only for a series of length 1, where nothing can be
// back-filled.
type analysisPoint struct {
	Timestamp       time.Time     `json:"timestamp"`
	Temperature     float64       `json:"temperature"`
	Season          season.Season `json:"season"`
	RollingMean     float64       `json:"rollingMean"`
	RollingStd      *float64      `json:"rollingStd"`
	SeasonalMean    float64       `json:"seasonalMean"`
	SeasonalStd     float64       `json:"seasonalStd"`
	RollingAnomaly  bool          `json:"rollingAnomaly"`
	SeasonalAnomaly bool          `json:"seasonalAnomaly"`
}

func handleAnalysis(c *fiber.Ctx, deps Deps) error {
	_, series, err := citySeries(c, deps)
	if err != nil {
		return err
	}

	points := analysis.Analyze(series)
	out := make([]analysisPoint, len(points))
	for i, p := range points {
		out[i] = analysisPoint{
			Timestamp:       p.Reading.Timestamp,
			Temperature:     p.Reading.Temperature,
			Season:          p.Reading.Season,
			RollingMean:     p.RollingMean,
			SeasonalMean:    p.SeasonalMean,
			SeasonalStd:     p.SeasonalStd,
			RollingAnomaly:  p.RollingAnomaly,
			SeasonalAnomaly: p.SeasonalAnomaly,
		}
		if p.RollingStdOK {
			std := p.RollingStd
			out[i].RollingStd = &std
		}
	}

	return c.JSON(fiber.Map{
		"city":   c.Query("city"),
		"points": out,
	})
}

func handleLive(c *fiber.Ctx, deps Deps) error {
	_, series, err := citySeries(c, deps)
	if err != nil {
		return err
	}
	city := c.Query("city")

	apiKey := c.Query("appid")
	if apiKey == "" {
		apiKey = deps.DefaultAPIKey
	}
	if apiKey == "" {
		return fiber.NewError(fiber.StatusBadRequest, "an OpenWeatherMap api key is required")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	results, err := deps.Fetcher.FetchAll(ctx, []string{city}, apiKey)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch the current temperature")
	}

	reading := results[city]
	if !reading.HasTemperature() {
		return c.JSON(fiber.Map{
			"city":        city,
			"temperature": nil,
			"message":     fmt.Sprintf("could not retrieve the current temperature for %s", city),
		})
	}

	current := season.FromTime(time.Now().UTC())
	verdict, stats := analysis.SeasonalVerdict(*reading.Temperature, series, current)

	var message string
	switch verdict {
	case analysis.VerdictNormal:
		message = fmt.Sprintf("the temperature in %s is normal for %s", city, current)
	case analysis.VerdictAnomalous:
		message = fmt.Sprintf("the temperature in %s is anomalous for %s", city, current)
	default:
		message = fmt.Sprintf("no historical readings for %s in %s", current, city)
	}

	return c.JSON(fiber.Map{
		"city":        city,
		"season":      current,
		"temperature": reading.Temperature,
		"lat":         reading.Lat,
		"lon":         reading.Lon,
		"verdict":     verdict,
		"seasonStats": stats,
		"message":     message,
	})
}
