// handlers/milestones.go
package handlers

import (
	"time"

	"paceline/middleware"
	"paceline/milestones"
	"paceline/services"

	"github.com/gofiber/fiber/v2"
)

// MilestoneInfo is the outward shape of a definition. The evaluator itself
// stays server-side.
type MilestoneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Repeatable  bool   `json:"repeatable"`
}

type SnapshotRequest struct {
	Current  map[string]float64 `json:"current"`
	Previous map[string]float64 `json:"previous"`
}

func milestoneInfo(def milestones.Definition) MilestoneInfo {
	return MilestoneInfo{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Category:    string(def.Category),
		Repeatable:  def.Repeatable,
	}
}

// GetMilestones lists the registry, optionally filtered by ?category=
func GetMilestones(c *fiber.Ctx) error {
	engine := services.GetMilestoneEngine()

	var defs []milestones.Definition
	if category := c.Query("category"); category != "" {
		defs = engine.GetMilestonesByCategory(milestones.Category(category))
	} else {
		defs = engine.GetAllMilestones()
	}

	infos := make([]MilestoneInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, milestoneInfo(def))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"milestones": infos,
		"total":      len(infos),
	})
}

// GetAchievedMilestones lists the caller's achievements in achievement order
func GetAchievedMilestones(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	engine := services.GetMilestoneEngine()
	records := engine.GetAchievedMilestones(userID)

	achieved := make([]fiber.Map, 0, len(records))
	for _, rec := range records {
		entry := fiber.Map{
			"milestone_id":      rec.MilestoneID,
			"achieved_at":       rec.AchievedAt,
			"achievement_count": rec.AchievementCount,
		}
		if def, ok := engine.GetMilestone(rec.MilestoneID); ok {
			entry["name"] = def.Name
			entry["description"] = def.Description
			entry["category"] = string(def.Category)
		}
		achieved = append(achieved, entry)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achieved,
		"total":        len(achieved),
	})
}

// GetMilestoneStatus reports whether the caller has achieved one milestone
func GetMilestoneStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	engine := services.GetMilestoneEngine()
	id := c.Params("id")

	def, ok := engine.GetMilestone(id)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Unknown milestone"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"milestone": milestoneInfo(def),
		"achieved":  engine.IsAchieved(userID, id),
	})
}

// EvaluateSnapshot evaluates a raw metrics snapshot supplied by the client.
// Used by upstream trackers that compute metrics the server does not hold
// (e.g. on-device step counters reporting daily totals).
func EvaluateSnapshot(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req SnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	engine := services.GetMilestoneEngine()
	achieved := engine.Evaluate(milestones.Context{
		Current:  req.Current,
		Previous: req.Previous,
		UserID:   userID,
	})

	return c.JSON(fiber.Map{
		"success":          true,
		"new_achievements": achieved,
	})
}

// GrantMilestone records an achievement detected outside the snapshot model
func GrantMilestone(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	engine := services.GetMilestoneEngine()
	id := c.Params("id")

	if _, ok := engine.GetMilestone(id); !ok {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Unknown milestone"})
	}

	granted := engine.PersistAchievement(userID, id)
	return c.JSON(fiber.Map{
		"success": true,
		"granted": granted,
	})
}

// ResetAchievements clears every achievement of the caller
func ResetAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	engine := services.GetMilestoneEngine()
	if err := engine.ResetAchievements(userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to reset achievements"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"reset_at": time.Now().UTC(),
	})
}
