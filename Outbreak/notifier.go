package Outbreak

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"AgroLens/AI"
	"AgroLens/Geo"
	"AgroLens/Models"
)

// AlertRadiusKM is how far, in kilometers, a disease sighting reaches.
const AlertRadiusKM = 5.0

// genericAdvice is stored when no Advisor is configured.
const genericAdvice = "A disease outbreak was reported near your farm. " +
	"Inspect your crop closely over the next few days and remove any infected plants."

// Pusher delivers a push notification to one device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// NewReport is a farmer-submitted disease sighting, as produced by the
// crop-scanner flow.
type NewReport struct {
	Disease         string
	Latitude        float64
	Longitude       float64
	ReportingUserID uint
	ImagePath       string
	Confidence      float64
}

// Result reports what one Notify call did.
type Result struct {
	ReportID      uint `json:"report_id"`
	NotifiedCount int  `json:"notified_count"`
}

// Notifier persists disease reports and fans alerts out to nearby farmers.
// Advisor and Push are optional; without them recipients get generic advice
// and no push delivery.
type Notifier struct {
	DB       *gorm.DB
	Advisor  AI.Advisor
	Push     Pusher
	RadiusKM float64
}

func NewNotifier(db *gorm.DB, advisor AI.Advisor, push Pusher) *Notifier {
	return &Notifier{DB: db, Advisor: advisor, Push: push, RadiusKM: AlertRadiusKM}
}

// Notify stores the report, then creates one Notification per registered user
// within the alert radius. The report write must succeed before any scanning
// happens; failures for individual recipients are logged and skipped so a
// partial alert list is still delivered.
func (n *Notifier) Notify(ctx context.Context, input NewReport) (Result, error) {
	report := Models.DiseaseReport{
		Disease:         input.Disease,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		ReportingUserID: input.ReportingUserID,
		ImagePath:       input.ImagePath,
		Confidence:      input.Confidence,
	}
	if err := n.DB.WithContext(ctx).Create(&report).Error; err != nil {
		return Result{}, fmt.Errorf("failed to store disease report: %w", err)
	}

	// Full-table scan; fine at the current user counts. A spatial index can
	// replace this query without changing the contract.
	var users []Models.User
	if err := n.DB.WithContext(ctx).Find(&users).Error; err != nil {
		return Result{ReportID: report.ID}, fmt.Errorf("failed to load users: %w", err)
	}

	notified := 0
	for i := range users {
		user := &users[i]
		if user.ID == input.ReportingUserID {
			continue
		}
		// Users without a known location or an active crop are silently
		// ineligible, not an error.
		if user.Latitude == nil || user.Longitude == nil || user.CurrentCrop == nil {
			continue
		}

		distance := Geo.Distance(input.Latitude, input.Longitude, *user.Latitude, *user.Longitude)
		if distance > n.RadiusKM {
			continue
		}

		measures := genericAdvice
		if n.Advisor != nil {
			location := user.City
			if user.Country != "" {
				if location != "" {
					location += ", "
				}
				location += user.Country
			}
			advice, err := n.Advisor.PreventiveMeasures(ctx, input.Disease, *user.CurrentCrop, location)
			if err != nil {
				log.Printf("Preventive measures failed for user %d: %v", user.ID, err)
				continue
			}
			measures = advice
		}

		notification := Models.Notification{
			UserID:             user.ID,
			ReportID:           report.ID,
			Disease:            input.Disease,
			Distance:           distance,
			PreventiveMeasures: measures,
			Read:               false,
		}
		if err := n.DB.WithContext(ctx).Create(&notification).Error; err != nil {
			log.Printf("Failed to store notification for user %d: %v", user.ID, err)
			continue
		}
		notified++

		if n.Push != nil && user.FCMToken != "" {
			err := n.Push.Send(ctx, user.FCMToken,
				"Disease Alert Nearby",
				fmt.Sprintf("%s reported %.1f km from your farm", input.Disease, distance),
				map[string]string{
					"report_id": fmt.Sprint(report.ID),
					"disease":   input.Disease,
				})
			if err != nil {
				log.Printf("Push delivery failed for user %d: %v", user.ID, err)
			}
		}
	}

	return Result{ReportID: report.ID, NotifiedCount: notified}, nil
}
