package Models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"unique"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`

	// Profile data. Latitude/Longitude and CurrentCrop are optional; a user
	// missing any of them is not eligible for distance-based alerts.
	Latitude     *float64   `json:"lat"`
	Longitude    *float64   `json:"long"`
	CurrentCrop  *string    `json:"current_crop"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	PlantingDate *time.Time `json:"planting_date"`

	// FCM device token for push alerts. Empty means no push delivery.
	FCMToken string `json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"long" validate:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

type UpdateCropRequest struct {
	CurrentCrop  string `json:"current_crop" validate:"required"`
	PlantingDate string `json:"planting_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateTokenRequest struct {
	Value string `json:"value" validate:"required"`
}
