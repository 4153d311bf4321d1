package Tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AgroLens/Models"
	"AgroLens/Weather"
)

var testToday = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

type fakeForecaster struct {
	days []Weather.Day
	err  error
}

func (f *fakeForecaster) Forecast(_ context.Context, _, _ float64) ([]Weather.Day, error) {
	return f.days, f.err
}

func series(icons ...string) []Weather.Day {
	days := make([]Weather.Day, len(icons))
	for i, icon := range icons {
		days[i] = Weather.Day{Day: fmt.Sprintf("d%d", i), Temp: 25, Icon: icon, Description: icon}
	}
	return days
}

func allSunny() []Weather.Day {
	return series(Weather.IconSunny, Weather.IconSunny, Weather.IconSunny,
		Weather.IconSunny, Weather.IconSunny, Weather.IconSunny, Weather.IconSunny)
}

func newGenerator(f Weather.Forecaster) *Generator {
	g := NewGenerator(f)
	g.Now = func() time.Time { return testToday.Add(9 * time.Hour) }
	return g
}

func input(plantingDaysAgo int) Input {
	return Input{
		Crop:         "Rice",
		City:         "Bangalore",
		Country:      "India",
		Latitude:     12.97,
		Longitude:    77.59,
		PlantingDate: testToday.AddDate(0, 0, -plantingDaysAgo),
	}
}

func datesByCategory(tasks []Models.Task, category string) []time.Time {
	var dates []time.Time
	for _, task := range tasks {
		if task.Category == category {
			dates = append(dates, task.Date)
		}
	}
	return dates
}

func TestGenerateFreshPlantingSunnyWeek(t *testing.T) {
	g := newGenerator(&fakeForecaster{days: allSunny()})
	tasks, err := g.Generate(context.Background(), input(0))
	require.NoError(t, err)

	// Watering on days 0, 3 and 6; fertilizing tomorrow (age 0 hits the
	// weekly cadence); no pest check yet; inspection on day 4.
	assert.Equal(t, []time.Time{
		testToday,
		testToday.AddDate(0, 0, 3),
		testToday.AddDate(0, 0, 6),
	}, datesByCategory(tasks, Models.CategoryWatering))
	assert.Equal(t, []time.Time{testToday.AddDate(0, 0, 1)},
		datesByCategory(tasks, Models.CategoryFertilizing))
	assert.Empty(t, datesByCategory(tasks, Models.CategoryPestControl))
	assert.Equal(t, []time.Time{testToday.AddDate(0, 0, 4)},
		datesByCategory(tasks, Models.CategoryOther))
	assert.Len(t, tasks, 5)
}

func TestGenerateFertilizingAlwaysPresentAtAgeZero(t *testing.T) {
	g := newGenerator(&fakeForecaster{days: allSunny()})
	tasks, err := g.Generate(context.Background(), input(0))
	require.NoError(t, err)
	require.Len(t, datesByCategory(tasks, Models.CategoryFertilizing), 1)
}

func TestGenerateRainSuppressesWatering(t *testing.T) {
	// Rain today and on day 2; day 3 watering is suppressed by the adjacent
	// prior rain day, day 6 survives.
	days := series(Weather.IconRain, Weather.IconSunny, Weather.IconRain,
		Weather.IconSunny, Weather.IconSunny, Weather.IconSunny, Weather.IconSunny)

	g := newGenerator(&fakeForecaster{days: days})
	tasks, err := g.Generate(context.Background(), input(3))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{testToday.AddDate(0, 0, 6)},
		datesByCategory(tasks, Models.CategoryWatering))
}

func TestGenerateRainMatchIsCaseInsensitiveOnDescription(t *testing.T) {
	days := allSunny()
	days[0].Icon = Weather.IconCloudy
	days[0].Description = "Heavy RAIN expected"

	g := newGenerator(&fakeForecaster{days: days})
	tasks, err := g.Generate(context.Background(), input(3))
	require.NoError(t, err)

	for _, date := range datesByCategory(tasks, Models.CategoryWatering) {
		assert.NotEqual(t, testToday, date)
	}
}

func TestGenerateEstablishedCropGetsPestCheck(t *testing.T) {
	g := newGenerator(&fakeForecaster{days: allSunny()})
	tasks, err := g.Generate(context.Background(), input(35))
	require.NoError(t, err)

	// Age 35: past the fertilizing window, on the five-day pest cadence.
	assert.Empty(t, datesByCategory(tasks, Models.CategoryFertilizing))
	assert.Equal(t, []time.Time{testToday.AddDate(0, 0, 2)},
		datesByCategory(tasks, Models.CategoryPestControl))
}

func TestGenerateOffCadencePestCheckSkippedWhenEnoughTasks(t *testing.T) {
	g := newGenerator(&fakeForecaster{days: allSunny()})
	tasks, err := g.Generate(context.Background(), input(21))
	require.NoError(t, err)

	// Age 21 is off the five-day cadence and the sunny week already produced
	// three watering tasks, so no pest check is added.
	assert.Empty(t, datesByCategory(tasks, Models.CategoryPestControl))
	// 21 is on the weekly fertilizing cadence.
	assert.Len(t, datesByCategory(tasks, Models.CategoryFertilizing), 1)
}

func TestGenerateRainyWeekFallsBackToFewTasks(t *testing.T) {
	days := series(Weather.IconRain, Weather.IconRain, Weather.IconRain,
		Weather.IconRain, Weather.IconRain, Weather.IconRain, Weather.IconRain)

	g := newGenerator(&fakeForecaster{days: days})
	tasks, err := g.Generate(context.Background(), input(3))
	require.NoError(t, err)

	// No watering at all; fertilizing fires through the fewer-than-2 branch.
	assert.Empty(t, datesByCategory(tasks, Models.CategoryWatering))
	assert.Len(t, datesByCategory(tasks, Models.CategoryFertilizing), 1)
	assert.Len(t, datesByCategory(tasks, Models.CategoryOther), 1)
}

func TestGenerateInvariants(t *testing.T) {
	forecasts := [][]Weather.Day{
		allSunny(),
		series(Weather.IconRain, Weather.IconRain, Weather.IconRain,
			Weather.IconRain, Weather.IconRain, Weather.IconRain, Weather.IconRain),
		series(Weather.IconSunny, Weather.IconRain, Weather.IconCloudy,
			Weather.IconSnow, Weather.IconRain, Weather.IconSunny, Weather.IconPartlyCloudy),
	}
	ages := []int{0, 1, 7, 15, 20, 30, 100}

	for _, forecast := range forecasts {
		for _, age := range ages {
			g := newGenerator(&fakeForecaster{days: forecast})
			tasks, err := g.Generate(context.Background(), input(age))
			require.NoError(t, err)

			assert.LessOrEqual(t, len(tasks), 7)

			seen := make(map[time.Time]bool)
			for i, task := range tasks {
				assert.False(t, seen[task.Date], "duplicate date %v", task.Date)
				seen[task.Date] = true
				if i > 0 {
					assert.True(t, tasks[i-1].Date.Before(task.Date), "tasks not sorted")
				}
			}

			// The day-4 inspection survives every combination of rules.
			assert.Len(t, datesByCategory(tasks, Models.CategoryOther), 1)
		}
	}
}

func TestGenerateForecasterFailurePropagates(t *testing.T) {
	g := newGenerator(&fakeForecaster{err: fmt.Errorf("upstream gone")})
	_, err := g.Generate(context.Background(), input(0))
	require.Error(t, err)
}
