package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masteragentes/masteragentes/app/models"
)

func TestReportPeriodDays(t *testing.T) {
	for input, want := range map[string]int{
		"7d":  7,
		"30d": 30,
		"90d": 90,
		"":    7,
		"1y":  7,
	} {
		period, days := reportPeriodDays(input)
		assert.Equal(t, want, days, input)
		assert.NotEmpty(t, period)
	}
}

func TestBucketConversationsByDay(t *testing.T) {
	start := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	conversations := []models.Conversation{
		{CreatedAt: start.Add(2 * time.Hour)},
		{CreatedAt: start.Add(5 * time.Hour)},
		{CreatedAt: start.AddDate(0, 0, 2)},
	}

	buckets := bucketConversationsByDay(conversations, start, 7)
	require.Len(t, buckets, 7)

	assert.Equal(t, "2026-08-25", buckets[0].Date)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, 0, buckets[1].Count)
	assert.Equal(t, "2026-08-27", buckets[2].Date)
	assert.Equal(t, 1, buckets[2].Count)

	// Empty days still render as zero buckets through the end of the period
	assert.Equal(t, "2026-08-31", buckets[6].Date)
	assert.Equal(t, 0, buckets[6].Count)
}

func TestBucketConversationsByDayEmpty(t *testing.T) {
	start := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	buckets := bucketConversationsByDay(nil, start, 30)
	require.Len(t, buckets, 30)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func TestCountAgentKinds(t *testing.T) {
	agents := []models.Agent{
		{Kind: models.AgentKindSales},
		{Kind: models.AgentKindSales},
		{Kind: models.AgentKindSupport},
	}

	kinds := countAgentKinds(agents)
	assert.Equal(t, 2, kinds[models.AgentKindSales])
	assert.Equal(t, 1, kinds[models.AgentKindSupport])
	assert.NotContains(t, kinds, models.AgentKindLeads)
}
