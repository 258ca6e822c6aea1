package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/statistics"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// ContactController manages the user's contact list through the dashboard API.
type ContactController struct {
	repos *repository.Repositories
}

// NewContactController creates a new contact controller with repository dependencies
func NewContactController(repos *repository.Repositories) *ContactController {
	return &ContactController{repos: repos}
}

var contactController *ContactController

// InitializeContactController initializes the global contact controller
func InitializeContactController(repos *repository.Repositories) {
	contactController = NewContactController(repos)
}

// HandleListContacts - adapter for listing contacts
func HandleListContacts(c *fiber.Ctx) error {
	return contactController.HandleList(c)
}

// HandleCreateContact - adapter for creating a contact
func HandleCreateContact(c *fiber.Ctx) error {
	return contactController.HandleCreate(c)
}

// HandleDeleteContact - adapter for deleting a contact
func HandleDeleteContact(c *fiber.Ctx) error {
	return contactController.HandleDelete(c)
}

// HandleList returns the user's contacts, newest first.
func (cc *ContactController) HandleList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	contacts, err := cc.repos.Contact.ListByUser(userID, limit)
	if err != nil {
		return respondInternalError(c, "load contacts", err)
	}

	return c.JSON(fiber.Map{
		"contacts": contacts,
		"total":    len(contacts),
	})
}

type contactRequest struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Tags  []string `json:"tags"`
}

// HandleCreate validates and stores a manually entered contact.
func (cc *ContactController) HandleCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	contact := models.Contact{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Origin: models.ContactOriginManual,
		Tags:   models.StringList(req.Tags),
	}
	if err := contact.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid contact data",
			"message": err.Error(),
		})
	}

	if err := cc.repos.Contact.Create(&contact); err != nil {
		return respondInternalError(c, "create contact", err)
	}
	statistics.InvalidateDashboardStats(userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"contact": contact,
	})
}

// HandleDelete removes a contact the user owns.
func (cc *ContactController) HandleDelete(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact id",
		})
	}

	if err := cc.repos.Contact.Delete(userID, uint(id)); err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Contact not found",
			})
		}
		return respondInternalError(c, "delete contact", err)
	}
	statistics.InvalidateDashboardStats(userID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contact deleted",
	})
}
