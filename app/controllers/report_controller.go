package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// ReportController builds the time-ranged reports behind the dashboard charts.
type ReportController struct {
	repos *repository.Repositories
}

// NewReportController creates a new report controller with repository dependencies
func NewReportController(repos *repository.Repositories) *ReportController {
	return &ReportController{repos: repos}
}

var reportController *ReportController

// InitializeReportController initializes the global report controller
func InitializeReportController(repos *repository.Repositories) {
	reportController = NewReportController(repos)
}

// HandleReports - adapter for the reports endpoint
func HandleReports(c *fiber.Ctx) error {
	return reportController.HandleReports(c)
}

// reportPeriodDays maps the period query parameter to a day span.
// Anything unknown falls back to a week.
func reportPeriodDays(period string) (string, int) {
	switch period {
	case "30d":
		return "30d", 30
	case "90d":
		return "90d", 90
	default:
		return "7d", 7
	}
}

// DayCount is one bucket of a per-day series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// bucketConversationsByDay distributes conversations over one bucket per
// day of the period, oldest first. Days without conversations keep a zero
// bucket so charts render a continuous axis.
func bucketConversationsByDay(conversations []models.Conversation, start time.Time, days int) []DayCount {
	counts := make(map[string]int, days)
	for _, cv := range conversations {
		counts[cv.CreatedAt.UTC().Format("2006-01-02")]++
	}

	buckets := make([]DayCount, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		buckets[i] = DayCount{Date: date, Count: counts[date]}
	}
	return buckets
}

// countAgentKinds builds the agent distribution by kind.
func countAgentKinds(agents []models.Agent) map[string]int {
	kinds := make(map[string]int, len(agents))
	for _, a := range agents {
		kinds[a.Kind]++
	}
	return kinds
}

// HandleReports returns the per-day conversation series, the agent kind
// distribution and a period summary.
func (rc *ReportController) HandleReports(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	period, days := reportPeriodDays(c.Query("period"))
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))

	conversations, err := rc.repos.Conversation.ListByUserSince(userID, start)
	if err != nil {
		return respondInternalError(c, "load reports", err)
	}

	agents, err := rc.repos.Agent.ListByUser(userID)
	if err != nil {
		return respondInternalError(c, "load reports", err)
	}

	totalContacts, err := rc.repos.Contact.CountByUser(userID)
	if err != nil {
		return respondInternalError(c, "load reports", err)
	}

	activeAgents := 0
	for _, a := range agents {
		if a.IsActive() {
			activeAgents++
		}
	}

	return c.JSON(fiber.Map{
		"period":                period,
		"conversations_per_day": bucketConversationsByDay(conversations, start, days),
		"agents_by_kind":        countAgentKinds(agents),
		"summary": fiber.Map{
			"total_conversations": len(conversations),
			"total_contacts":      totalContacts,
			"total_agents":        len(agents),
			"active_agents":       activeAgents,
		},
		"timestamp": nowTimestamp(),
	})
}
