package Models

import "gorm.io/gorm"

// DiseaseReport is one confirmed disease sighting submitted from the crop
// scanner. Reports are immutable after creation and never deleted.
type DiseaseReport struct {
	gorm.Model
	Disease         string  `json:"disease"`
	Latitude        float64 `json:"lat"`
	Longitude       float64 `json:"long"`
	ReportingUserID uint    `json:"reporting_user_id"`
	ImagePath       string  `json:"image_path"`
	Confidence      float64 `json:"confidence"`
}
