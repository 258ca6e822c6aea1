package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/session"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// AuthController handles registration, login and logout for the dashboard.
type AuthController struct {
	repos *repository.Repositories
}

// NewAuthController creates a new auth controller with repository dependencies
func NewAuthController(repos *repository.Repositories) *AuthController {
	return &AuthController{repos: repos}
}

var authController *AuthController

// InitializeAuthController initializes the global auth controller
func InitializeAuthController(repos *repository.Repositories) {
	authController = NewAuthController(repos)
}

// HandleRegister - adapter for user registration
func HandleRegister(c *fiber.Ctx) error {
	return authController.HandleRegister(c)
}

// HandleLogin - adapter for user login
func HandleLogin(c *fiber.Ctx) error {
	return authController.HandleLogin(c)
}

// HandleLogout - adapter for user logout
func HandleLogout(c *fiber.Ctx) error {
	return authController.HandleLogout(c)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account and opens a session for it.
func (ac *AuthController) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if _, err := ac.repos.User.GetByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email already registered",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondInternalError(c, "register user", err)
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid registration data",
			"message": err.Error(),
		})
	}

	if err := ac.repos.User.Create(user); err != nil {
		return respondInternalError(c, "register user", err)
	}

	if err := openSession(c, user); err != nil {
		return respondInternalError(c, "register user", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"plan":  user.Plan,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and opens a session. The error message
// never says which of the two fields was wrong.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	user, err := ac.repos.User.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		return respondInternalError(c, "log in", err)
	}

	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := ac.repos.User.Update(user); err != nil {
		return respondInternalError(c, "log in", err)
	}

	if err := openSession(c, user); err != nil {
		return respondInternalError(c, "log in", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"plan":  user.Plan,
		},
	})
}

// HandleLogout destroys the current session.
func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			return respondInternalError(c, "log out", err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}

// openSession writes the identity keys the user context middleware reads
// on every request.
func openSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set("user_plan", user.Plan)
	return sess.Save()
}
