package Controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"AgroLens/Models"
	"AgroLens/Tasks"
)

// TaskController manages each farmer's generated task timeline
type TaskController struct {
	DB        *gorm.DB
	Generator *Tasks.Generator
}

func NewTaskController(db *gorm.DB, generator *Tasks.Generator) *TaskController {
	return &TaskController{DB: db, Generator: generator}
}

// GenerateTimeline builds a fresh task batch for the user's field and
// replaces any previously generated batch.
func (t *TaskController) GenerateTimeline(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var req Models.GenerateTimelineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if user.Latitude == nil || user.Longitude == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Set your farm location before generating a task plan",
		})
	}

	plantingDate, _ := time.Parse("2006-01-02", req.PlantingDate)

	tasks, err := t.Generator.Generate(ctx.Context(), Tasks.Input{
		Crop:         req.Crop,
		City:         user.City,
		Country:      user.Country,
		Latitude:     *user.Latitude,
		Longitude:    *user.Longitude,
		PlantingDate: plantingDate,
	})
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to generate task plan"})
	}

	// Replace the previous batch so regeneration stays idempotent for the UI.
	err = t.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&Models.Task{}).Error; err != nil {
			return err
		}
		for i := range tasks {
			tasks[i].UserID = user.ID
		}
		if len(tasks) == 0 {
			return nil
		}
		return tx.Create(&tasks).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save task plan"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"tasks": tasks})
}

// GetTasks returns the user's tasks sorted by date
func (t *TaskController) GetTasks(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var tasks []Models.Task
	if err := t.DB.Where("user_id = ?", user.ID).Order("date").Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}

	return ctx.JSON(fiber.Map{"tasks": tasks})
}

// ToggleTask flips a task's completion flag
func (t *TaskController) ToggleTask(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if err := t.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&task).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	if err := t.DB.Model(&task).Update("completed", !task.Completed).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}

	return ctx.JSON(task)
}

// DeleteTask removes one task
func (t *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	result := t.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&Models.Task{})
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	return ctx.JSON(fiber.Map{"message": "Task deleted"})
}

// DeleteAllTasks clears the user's whole timeline, used when a field is
// removed.
func (t *TaskController) DeleteAllTasks(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	if err := t.DB.Where("user_id = ?", user.ID).Delete(&Models.Task{}).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete tasks"})
	}

	return ctx.JSON(fiber.Map{"message": "All tasks deleted"})
}
