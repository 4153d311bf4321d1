package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"AgroLens/Models"
)

// ProfileController handles farmer profile updates
type ProfileController struct {
	DB *gorm.DB
}

func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{DB: db}
}

// UpdateLocation stores the user's most recently resolved position
func (p *ProfileController) UpdateLocation(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var req Models.UpdateLocationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
		"city":      req.City,
		"country":   req.Country,
	}
	if err := p.DB.Model(&user).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update location"})
	}

	return ctx.JSON(user)
}

// UpdateCrop sets the user's active crop and optional planting date
func (p *ProfileController) UpdateCrop(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var req Models.UpdateCropRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{"current_crop": req.CurrentCrop}
	if req.PlantingDate != "" {
		planted, _ := time.Parse("2006-01-02", req.PlantingDate)
		updates["planting_date"] = planted
	}
	if err := p.DB.Model(&user).Updates(updates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update crop"})
	}

	return ctx.JSON(user)
}

// UpdateFCMToken registers the device token push alerts are sent to
func (p *ProfileController) UpdateFCMToken(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var req Models.UpdateTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token value is required"})
	}

	if err := p.DB.Model(&user).Update("fcm_token", req.Value).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update token"})
	}

	return ctx.JSON(fiber.Map{"message": "Token updated successfully"})
}
