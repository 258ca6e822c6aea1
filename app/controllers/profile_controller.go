package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// ProfileController serves the logged-in user's account data.
type ProfileController struct {
	repos *repository.Repositories
}

// NewProfileController creates a new profile controller with repository dependencies
func NewProfileController(repos *repository.Repositories) *ProfileController {
	return &ProfileController{repos: repos}
}

var profileController *ProfileController

// InitializeProfileController initializes the global profile controller
func InitializeProfileController(repos *repository.Repositories) {
	profileController = NewProfileController(repos)
}

// HandleGetProfile - adapter for reading the profile
func HandleGetProfile(c *fiber.Ctx) error {
	return profileController.HandleGet(c)
}

// HandleUpdateProfile - adapter for updating the profile
func HandleUpdateProfile(c *fiber.Ctx) error {
	return profileController.HandleUpdate(c)
}

// HandleGet returns the account data of the current user.
func (pc *ProfileController) HandleGet(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	user, err := pc.repos.User.GetByID(userID)
	if err != nil {
		return respondInternalError(c, "load profile", err)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":            user.ID,
			"uuid":          user.UUID,
			"name":          user.Name,
			"email":         user.Email,
			"plan":          user.Plan,
			"avatar_url":    user.AvatarURL,
			"last_login_at": formatTimePtr(user.LastLoginAt),
			"created_at":    apiTimestamp(user.CreatedAt),
		},
	})
}

type profileUpdateRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Password  string `json:"password"`
}

// HandleUpdate applies partial changes to the account. Email and plan are
// not editable here.
func (pc *ProfileController) HandleUpdate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	user, err := pc.repos.User.GetByID(userID)
	if err != nil {
		return respondInternalError(c, "load profile", err)
	}

	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Invalid password",
				"message": err.Error(),
			})
		}
	}

	if err := user.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid profile data",
			"message": err.Error(),
		})
	}

	if err := pc.repos.User.Update(user); err != nil {
		return respondInternalError(c, "update profile", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"plan":       user.Plan,
			"avatar_url": user.AvatarURL,
		},
	})
}
