package statistics

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/cache"
)

const (
	CacheKeyDashboard = "statistics:dashboard:%d" // Format with the user id
	CacheExpiration   = 5 * time.Minute
)

// DashboardStats holds the per-user counters shown on the dashboard.
type DashboardStats struct {
	TotalAgents         int64 `json:"total_agents"`
	ActiveAgents        int64 `json:"active_agents"`
	TotalContacts       int64 `json:"total_contacts"`
	TotalConversations  int64 `json:"total_conversations"`
	ActiveConversations int64 `json:"active_conversations"`
	ConversationsToday  int64 `json:"conversations_today"`

	// Summed over every agent's stats block
	SessionsHandled int64 `json:"sessions_handled"`
	MessagesSent    int64 `json:"messages_sent"`

	Plan string `json:"plan"`
}

// GetDashboardStats returns the dashboard counters for a user, serving
// from the cache when a fresh entry exists.
func GetDashboardStats(repos *repository.Repositories, userID uint) (*DashboardStats, error) {
	key := fmt.Sprintf(CacheKeyDashboard, userID)

	if cached, err := cache.Get(key); err == nil && cached != "" {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
		// A corrupt entry falls through to a recount.
	}

	stats, err := computeDashboardStats(repos, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := cache.Set(key, string(payload), CacheExpiration); err != nil {
			log.Printf("Error caching dashboard statistics for user %d: %v", userID, err)
		}
	}

	return stats, nil
}

// InvalidateDashboardStats drops the cached counters for a user so the
// next read recounts.
func InvalidateDashboardStats(userID uint) {
	key := fmt.Sprintf(CacheKeyDashboard, userID)
	if err := cache.Delete(key); err != nil {
		log.Printf("Error invalidating dashboard statistics for user %d: %v", userID, err)
	}
}

func computeDashboardStats(repos *repository.Repositories, userID uint) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalAgents, err = repos.Agent.CountByUser(userID); err != nil {
		return nil, err
	}
	if stats.ActiveAgents, err = repos.Agent.CountByUserAndStatus(userID, models.AgentStatusActive); err != nil {
		return nil, err
	}
	if stats.TotalContacts, err = repos.Contact.CountByUser(userID); err != nil {
		return nil, err
	}
	if stats.TotalConversations, err = repos.Conversation.CountByUser(userID); err != nil {
		return nil, err
	}
	if stats.ActiveConversations, err = repos.Conversation.CountByUserAndStatus(userID, models.ConversationStatusActive); err != nil {
		return nil, err
	}

	todayStart := time.Now().UTC().Truncate(24 * time.Hour)
	today, err := repos.Conversation.ListByUserSince(userID, todayStart)
	if err != nil {
		return nil, err
	}
	stats.ConversationsToday = int64(len(today))

	agents, err := repos.Agent.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, agent := range agents {
		stats.SessionsHandled += agent.Stats.SessionsHandled
		stats.MessagesSent += agent.Stats.MessagesSent
	}

	user, err := repos.User.GetByID(userID)
	if err != nil {
		return nil, err
	}
	stats.Plan = user.Plan

	return stats, nil
}
