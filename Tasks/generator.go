package Tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"AgroLens/Models"
	"AgroLens/Weather"
)

// maxTasks caps one generation run.
const maxTasks = 7

// Input describes the field a timeline is generated for.
type Input struct {
	Crop         string
	City         string
	Country      string
	Latitude     float64
	Longitude    float64
	PlantingDate time.Time
}

// Generator produces a short list of dated farming tasks from fixed periodic
// rules cross-referenced against the 7-day forecast. Rules are intentionally
// simple and independent; the UI lets users regenerate.
type Generator struct {
	Forecaster Weather.Forecaster

	// Now is overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func NewGenerator(forecaster Weather.Forecaster) *Generator {
	return &Generator{Forecaster: forecaster, Now: time.Now}
}

// Generate builds the task batch. At most one task per calendar date survives
// (first emitted wins) and the result holds at most 7 tasks sorted by date.
// A forecaster failure is propagated; in practice the forecaster degrades to
// a placeholder series instead.
func (g *Generator) Generate(ctx context.Context, input Input) ([]Models.Task, error) {
	forecast, err := g.Forecaster.Forecast(ctx, input.Latitude, input.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather forecast: %w", err)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	today := truncateToDate(now())
	planting := truncateToDate(input.PlantingDate)
	ageDays := int(today.Sub(planting).Hours() / 24)

	var tasks []Models.Task
	used := make(map[time.Time]bool)
	emit := func(offset int, category, title, description string) {
		date := today.AddDate(0, 0, offset)
		if used[date] {
			return
		}
		used[date] = true
		tasks = append(tasks, Models.Task{
			Title:       title,
			Description: description,
			Date:        date,
			Category:    category,
		})
	}

	// Watering: every third day unless rain is expected that day or the day
	// before.
	for i := 0; i <= 6; i++ {
		if i%3 != 0 {
			continue
		}
		rain := hasRainSignal(forecast, i) || (i > 0 && hasRainSignal(forecast, i-1))
		if rain {
			continue
		}
		emit(i, Models.CategoryWatering,
			fmt.Sprintf("Water the %s field", input.Crop),
			"No rain is expected around this day, so irrigate on schedule.")
	}

	// Fertilizing: young crops on a weekly cadence, dated tomorrow.
	if ageDays < 30 && (ageDays%7 == 0 || len(tasks) < 2) {
		emit(1, Models.CategoryFertilizing,
			fmt.Sprintf("Fertilize the %s", input.Crop),
			fmt.Sprintf("Your crop is %d days old and in its early growth window.", ageDays))
	}

	// Pest control: established crops on a five-day cadence, dated day 2.
	if ageDays > 14 && (ageDays%5 == 0 || len(tasks) < 3) {
		emit(2, Models.CategoryPestControl,
			fmt.Sprintf("Check the %s for pests", input.Crop),
			"Walk the rows and look under leaves for early infestation signs.")
	}

	// A general inspection always lands on day 4.
	emit(4, Models.CategoryOther,
		"General field inspection",
		fmt.Sprintf("Review overall crop health around %s and note anything unusual.", input.City))

	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Date.Before(tasks[j].Date) })
	if len(tasks) > maxTasks {
		tasks = tasks[:maxTasks]
	}
	return tasks, nil
}

// hasRainSignal reports whether the forecast entry at the given offset
// mentions rain in its icon or description.
func hasRainSignal(forecast []Weather.Day, offset int) bool {
	if offset < 0 || offset >= len(forecast) {
		return false
	}
	day := forecast[offset]
	return strings.Contains(strings.ToLower(day.Icon), "rain") ||
		strings.Contains(strings.ToLower(day.Description), "rain")
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
