package Models

import (
	"time"

	"gorm.io/gorm"
)

// Task categories. Fixed vocabulary shared with the frontend.
const (
	CategoryWatering    = "Watering"
	CategoryFertilizing = "Fertilizing"
	CategoryPestControl = "Pest Control"
	CategoryPlanting    = "Planting"
	CategoryHarvesting  = "Harvesting"
	CategoryOther       = "Other"
)

// Task is one scheduled farming action. Date carries only the calendar day
// (midnight UTC); generation guarantees at most one task per date per batch.
type Task struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"index"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed" gorm:"default:false"`
}

type GenerateTimelineRequest struct {
	Crop         string `json:"crop" validate:"required"`
	PlantingDate string `json:"planting_date" validate:"required,datetime=2006-01-02"`
}
