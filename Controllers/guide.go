package Controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"AgroLens/AI"
	"AgroLens/Models"
)

// GuideController serves AI-generated growth roadmaps. Advisor may be nil
// when no LLM backend is configured.
type GuideController struct {
	Advisor AI.Advisor
}

func NewGuideController(advisor AI.Advisor) *GuideController {
	return &GuideController{Advisor: advisor}
}

// GetGuide returns a personalized growing guide for the user's active crop
func (g *GuideController) GetGuide(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	if g.Advisor == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "The AI assistant is not available on this server",
		})
	}
	if user.CurrentCrop == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Set your current crop before requesting a guide",
		})
	}

	location := user.City
	if user.Country != "" {
		if location != "" {
			location += ", "
		}
		location += user.Country
	}

	guide, err := g.Advisor.GrowthGuide(ctx.Context(), *user.CurrentCrop, location)
	if err != nil {
		log.Printf("Growth guide failed for user %d: %v", user.ID, err)
		if AI.IsRateLimited(err) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "The AI is currently busy. Please try again later.",
			})
		}
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not fetch your personalized guide. Please try again in a moment.",
		})
	}

	return ctx.JSON(fiber.Map{"guide": guide})
}
