package Weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"
)

// Forecast icon vocabulary shared with the frontend.
const (
	IconSunny        = "Sunny"
	IconPartlyCloudy = "Partly-Cloudy"
	IconCloudy       = "Cloudy"
	IconRain         = "Rain"
	IconSnow         = "Snow"
)

// Day is one entry of the 7-day forecast.
type Day struct {
	Day         string `json:"day"`
	Temp        int    `json:"temp"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Forecaster returns a 7-day forecast for a coordinate pair. Implementations
// degrade to a placeholder series instead of failing wherever possible, so a
// non-nil error is rare and means the caller gets no forecast at all.
type Forecaster interface {
	Forecast(ctx context.Context, latitude, longitude float64) ([]Day, error)
}

// Client fetches daily forecasts from an Open-Meteo compatible endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// Now is overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Now:     time.Now,
	}
}

type openMeteoResponse struct {
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
	} `json:"daily"`
}

// Forecast returns exactly 7 daily entries starting today. On any upstream
// failure it logs the cause and returns the fixed placeholder series instead;
// callers must treat that as a legitimate, if degraded, response.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64) ([]Day, error) {
	url := fmt.Sprintf("%s/v1/forecast?latitude=%f&longitude=%f&daily=weather_code,temperature_2m_max&forecast_days=7&timezone=auto",
		c.BaseURL, latitude, longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("Weather request build failed: %v", err)
		return c.placeholder(), nil
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("Weather request failed: %v", err)
		return c.placeholder(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Weather API returned status %d", resp.StatusCode)
		return c.placeholder(), nil
	}

	var data openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("Weather response decode failed: %v", err)
		return c.placeholder(), nil
	}

	if len(data.Daily.WeatherCode) < 7 || len(data.Daily.TempMax) < 7 {
		log.Printf("Weather API returned short series (%d days)", len(data.Daily.WeatherCode))
		return c.placeholder(), nil
	}

	forecast := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		icon := iconForCode(data.Daily.WeatherCode[i])
		forecast = append(forecast, Day{
			Day:         c.dayLabel(i),
			Temp:        int(math.Round(data.Daily.TempMax[i])),
			Icon:        icon,
			Description: descriptionForIcon(icon),
		})
	}
	return forecast, nil
}

func (c *Client) placeholder() []Day {
	series := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		series = append(series, Day{
			Day:         c.dayLabel(i),
			Temp:        25,
			Icon:        IconCloudy,
			Description: "API Error",
		})
	}
	return series
}

func (c *Client) dayLabel(offset int) string {
	if offset == 0 {
		return "Today"
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().AddDate(0, 0, offset).Format("Mon")
}

// iconForCode maps WMO weather codes onto the fixed icon vocabulary.
func iconForCode(code int) string {
	switch {
	case code == 0:
		return IconSunny
	case code == 1 || code == 2:
		return IconPartlyCloudy
	case code >= 71 && code <= 77, code == 85, code == 86:
		return IconSnow
	case code >= 51 && code <= 67, code >= 80 && code <= 82, code >= 95:
		return IconRain
	default:
		return IconCloudy
	}
}

func descriptionForIcon(icon string) string {
	switch icon {
	case IconSunny:
		return "Clear skies"
	case IconPartlyCloudy:
		return "Few clouds"
	case IconRain:
		return "Rain showers"
	case IconSnow:
		return "Snowfall"
	default:
		return "Overcast"
	}
}
