package controllers

import (
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// ActivityController serves the merged recent activity feed.
type ActivityController struct {
	repos *repository.Repositories
}

// NewActivityController creates a new activity controller with repository dependencies
func NewActivityController(repos *repository.Repositories) *ActivityController {
	return &ActivityController{repos: repos}
}

var activityController *ActivityController

// InitializeActivityController initializes the global activity controller
func InitializeActivityController(repos *repository.Repositories) {
	activityController = NewActivityController(repos)
}

// HandleActivities - adapter for the activity feed
func HandleActivities(c *fiber.Ctx) error {
	return activityController.HandleFeed(c)
}

// Activity is one entry of the feed.
type Activity struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// mergeActivities interleaves the per-entity feeds into one list, newest
// first, trimmed to limit.
func mergeActivities(limit int, agents []models.Agent, conversations []models.Conversation, contacts []models.Contact) []Activity {
	feed := make([]Activity, 0, len(agents)+len(conversations)+len(contacts))

	for _, a := range agents {
		feed = append(feed, Activity{
			Type:        "agent_created",
			Title:       a.Name,
			Description: fmt.Sprintf("New %s agent", a.Kind),
			Timestamp:   a.CreatedAt,
		})
	}
	for _, cv := range conversations {
		feed = append(feed, Activity{
			Type:        "conversation_started",
			Title:       cv.ClientName,
			Description: fmt.Sprintf("Conversation via %s", cv.Origin),
			Timestamp:   cv.CreatedAt,
		})
	}
	for _, ct := range contacts {
		feed = append(feed, Activity{
			Type:        "contact_added",
			Title:       ct.Name,
			Description: fmt.Sprintf("Contact added via %s", ct.Origin),
			Timestamp:   ct.CreatedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

// HandleFeed merges the newest agents, conversations and contacts into a
// single chronological feed.
func (ac *ActivityController) HandleFeed(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	agents, err := ac.repos.Agent.ListRecentByUser(userID, limit)
	if err != nil {
		return respondInternalError(c, "load activities", err)
	}
	conversations, err := ac.repos.Conversation.ListRecentByUser(userID, limit)
	if err != nil {
		return respondInternalError(c, "load activities", err)
	}
	contacts, err := ac.repos.Contact.ListByUser(userID, limit)
	if err != nil {
		return respondInternalError(c, "load activities", err)
	}

	return c.JSON(fiber.Map{
		"activities": mergeActivities(limit, agents, conversations, contacts),
		"timestamp":  nowTimestamp(),
	})
}
