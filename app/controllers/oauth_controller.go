package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
)

// OAuthController completes the provider login flow.
type OAuthController struct {
	repos *repository.Repositories
}

// NewOAuthController creates a new OAuth controller with repository dependencies
func NewOAuthController(repos *repository.Repositories) *OAuthController {
	return &OAuthController{repos: repos}
}

var oauthController *OAuthController

// InitializeOAuthController initializes the global OAuth controller
func InitializeOAuthController(repos *repository.Repositories) {
	oauthController = NewOAuthController(repos)
}

// HandleOAuthBegin - adapter that starts the provider flow
func HandleOAuthBegin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback - adapter that completes the provider flow
func HandleOAuthCallback(c *fiber.Ctx) error {
	return oauthController.HandleCallback(c)
}

// HandleCallback completes the provider flow and logs the user in,
// creating an account on first login.
func (oc *OAuthController) HandleCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "OAuth failed",
			"message": err.Error(),
		})
	}

	user, err := oc.repos.User.GetByEmail(u.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First login through the provider. The account needs a password
		// to satisfy validation; a random placeholder that is never used
		// for login fills the slot.
		placeholder := fmt.Sprintf("oauth_%d", time.Now().UnixNano())
		user, err = models.CreateUser(firstNonEmpty(u.Name, u.NickName, u.Email, "User"), u.Email, placeholder)
		if err != nil {
			return respondInternalError(c, "complete login", err)
		}
		user.AvatarURL = u.AvatarURL
		if err := oc.repos.User.Create(user); err != nil {
			return respondInternalError(c, "complete login", err)
		}
	} else if err != nil {
		return respondInternalError(c, "complete login", err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if user.AvatarURL == "" && u.AvatarURL != "" {
		user.AvatarURL = u.AvatarURL
	}
	if err := oc.repos.User.Update(user); err != nil {
		return respondInternalError(c, "complete login", err)
	}

	if err := openSession(c, user); err != nil {
		return respondInternalError(c, "complete login", err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
