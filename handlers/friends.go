// handlers/friends.go
package handlers

import (
	"time"

	"paceline/database"
	"paceline/middleware"
	"paceline/milestones"
	"paceline/models"
	"paceline/services"

	"github.com/gofiber/fiber/v2"
)

type FriendRequestBody struct {
	Username string `json:"username"`
}

type AcceptFriendBody struct {
	RequestID uint `json:"request_id"`
}

// GetFriends lists the caller's accepted friendships
func GetFriends(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var friendships []models.Friend
	if err := db.Preload("User").Preload("Friend").
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Find(&friendships).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch friends"})
	}

	friends := make([]UserInfo, 0, len(friendships))
	for _, f := range friendships {
		other := f.Friend
		if f.FriendID == userID {
			other = f.User
		}
		if other != nil {
			friends = append(friends, userInfo(*other))
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"friends": friends,
		"total":   len(friends),
	})
}

// SendFriendRequest creates a pending request to another user
func SendFriendRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req FriendRequestBody
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username required"})
	}

	db := database.GetDB()
	var target models.User
	if err := db.Where("username = ?", req.Username).First(&target).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if target.ID == userID {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot befriend yourself"})
	}

	var existing models.Friend
	if err := db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, target.ID, target.ID, userID).First(&existing).Error; err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Already friends"})
	}

	var pending models.FriendRequest
	if err := db.Where("from_user_id = ? AND to_user_id = ? AND status = ?",
		userID, target.ID, "pending").First(&pending).Error; err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Request already sent"})
	}

	request := models.FriendRequest{
		FromUserID: userID,
		ToUserID:   target.ID,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}
	if err := db.Create(&request).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to send request"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"request": request,
	})
}

// AcceptFriendRequest accepts a pending request and evaluates the social
// milestones for both sides of the new friendship.
func AcceptFriendRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req AcceptFriendBody
	if err := c.BodyParser(&req); err != nil || req.RequestID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Request ID required"})
	}

	db := database.GetDB()
	var request models.FriendRequest
	if err := db.First(&request, req.RequestID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Request not found"})
	}
	if request.ToUserID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "Not your request to accept"})
	}
	if request.Status != "pending" {
		return c.Status(400).JSON(fiber.Map{"error": "Request already handled"})
	}

	// Friend counts before the new edge, for both users.
	fromBefore := services.CountFriends(db, request.FromUserID)
	toBefore := services.CountFriends(db, request.ToUserID)

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&request).Update("status", "accepted").Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to accept request"})
	}
	friendship := models.Friend{
		UserID:    request.FromUserID,
		FriendID:  request.ToUserID,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&friendship).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create friendship"})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	newAchievements := evaluateFriendCount(request.ToUserID, toBefore)
	evaluateFriendCount(request.FromUserID, fromBefore)

	return c.JSON(fiber.Map{
		"success":          true,
		"friendship":       friendship,
		"new_achievements": newAchievements,
	})
}

// GetFriendRequests lists pending requests addressed to the caller
func GetFriendRequests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var requests []models.FriendRequest
	if err := db.Preload("FromUser").
		Where("to_user_id = ? AND status = ?", userID, "pending").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch requests"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"requests": requests,
		"total":    len(requests),
	})
}

func evaluateFriendCount(userID uint, before int64) []milestones.AchievedMilestone {
	after := services.CountFriends(database.GetDB(), userID)
	return services.GetMilestoneEngine().Evaluate(milestones.Context{
		Current:  map[string]float64{milestones.MetricFriendCount: float64(after)},
		Previous: map[string]float64{milestones.MetricFriendCount: float64(before)},
		UserID:   userID,
	})
}
