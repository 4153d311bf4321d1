package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"AgroLens/Weather"
)

// WeatherController exposes the 7-day forecast to the frontend
type WeatherController struct {
	Forecaster Weather.Forecaster
}

func NewWeatherController(forecaster Weather.Forecaster) *WeatherController {
	return &WeatherController{Forecaster: forecaster}
}

// GetForecast returns the forecast for the given coordinates. A degraded
// placeholder series is still a 200 response.
func (w *WeatherController) GetForecast(ctx *fiber.Ctx) error {
	latitude, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid latitude"})
	}
	longitude, err := strconv.ParseFloat(ctx.Query("long"), 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid longitude"})
	}

	forecast, err := w.Forecaster.Forecast(ctx.Context(), latitude, longitude)
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch weather forecast"})
	}

	return ctx.JSON(fiber.Map{"forecast": forecast})
}
