package Controllers

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"AgroLens/Models"
	"AgroLens/Outbreak"
)

// ScanImageDir is where normalized scan photos are stored and served from.
const ScanImageDir = "ScanImages"

// ScanController accepts analyzed crop-scan results and triggers the
// outbreak alert pipeline.
type ScanController struct {
	DB       *gorm.DB
	Notifier *Outbreak.Notifier
}

func NewScanController(db *gorm.DB, notifier *Outbreak.Notifier) *ScanController {
	return &ScanController{DB: db, Notifier: notifier}
}

// ReportScan persists a confirmed disease sighting and alerts nearby farmers.
// The disease name comes from the upstream image analyzer; healthy scans are
// not submitted here.
func (s *ScanController) ReportScan(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	disease := ctx.FormValue("disease")
	if disease == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Disease name is required"})
	}

	latitude, err := strconv.ParseFloat(ctx.FormValue("lat"), 64)
	if err != nil || latitude < -90 || latitude > 90 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid latitude"})
	}
	longitude, err := strconv.ParseFloat(ctx.FormValue("long"), 64)
	if err != nil || longitude < -180 || longitude > 180 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid longitude"})
	}
	confidence, _ := strconv.ParseFloat(ctx.FormValue("confidence"), 64)

	imagePath := ""
	if file, err := ctx.FormFile("image"); err == nil {
		imagePath, err = s.saveScanImage(file, user.ID)
		if err != nil {
			log.Printf("Failed to store scan image: %v", err)
			imagePath = ""
		}
	}

	result, err := s.Notifier.Notify(ctx.Context(), Outbreak.NewReport{
		Disease:         disease,
		Latitude:        latitude,
		Longitude:       longitude,
		ReportingUserID: user.ID,
		ImagePath:       imagePath,
		Confidence:      confidence,
	})
	if err != nil {
		log.Println(err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process disease report"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(result)
}

// GetScans returns the user's own disease reports, newest first
func (s *ScanController) GetScans(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var reports []Models.DiseaseReport
	if err := s.DB.Where("reporting_user_id = ?", user.ID).
		Order("created_at desc").Find(&reports).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve scans"})
	}

	return ctx.JSON(reports)
}

// saveScanImage normalizes the uploaded photo to a bounded-width jpeg.
func (s *ScanController) saveScanImage(file *multipart.FileHeader, userID uint) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode scan image: %w", err)
	}
	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(ScanImageDir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("scan_%d_%d.jpg", userID, time.Now().UnixNano())
	outputPath := filepath.Join(ScanImageDir, name)
	if err := imaging.Save(img, outputPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save scan image: %w", err)
	}
	return outputPath, nil
}
