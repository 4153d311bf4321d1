package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"AgroLens/Models"
)

// NotificationController serves each farmer's own disease alerts
type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications returns the user's alerts, newest first
func (n *NotificationController) GetNotifications(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var notifications []Models.Notification
	if err := n.DB.Where("user_id = ?", user.ID).
		Order("created_at desc").Find(&notifications).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve notifications"})
	}

	return ctx.JSON(notifications)
}

// MarkRead flags one of the user's notifications as read
func (n *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	var notification Models.Notification
	if err := n.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&notification).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	if err := n.DB.Model(&notification).Update("read", true).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}

	return ctx.JSON(notification)
}
