package Models

import "gorm.io/gorm"

// Notification is one alert delivered to one nearby farmer for one
// DiseaseReport. Distance is computed once at alert time and never re-derived.
type Notification struct {
	gorm.Model
	UserID             uint    `json:"user_id" gorm:"index"`
	ReportID           uint    `json:"report_id"`
	Disease            string  `json:"disease"`
	Distance           float64 `json:"distance"`
	PreventiveMeasures string  `json:"preventive_measures"`
	Read               bool    `json:"read" gorm:"default:false"`
}
