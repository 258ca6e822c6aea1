package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masteragentes/masteragentes/app/models"
)

func conversationRows(id uint, externalID, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "uuid", "user_id", "client_name", "phone", "email", "status", "origin", "external_id", "messages", "agent_id", "created_at", "updated_at"}).
		AddRow(id, "b2c4d6e8-0000-0000-0000-000000000002", 7, "Jane", "", "", status, models.ConversationOriginChatVolt, externalID, `[]`, nil, now, now)
}

func TestGetByExternalID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs(uint(7), "cv-9", 1).
		WillReturnRows(conversationRows(11, "cv-9", models.ConversationStatusActive))

	conv, err := repo.GetByExternalID(7, "cv-9")
	require.NoError(t, err)
	assert.Equal(t, uint(11), conv.ID)
	require.NotNil(t, conv.ExternalID)
	assert.Equal(t, "cv-9", *conv.ExternalID)
}

func TestFindOrCreateByExternalIDFindsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs(uint(7), "cv-9", 1).
		WillReturnRows(conversationRows(11, "cv-9", models.ConversationStatusActive))

	externalID := "cv-9"
	conv, created, err := repo.FindOrCreateByExternalID(&models.Conversation{UserID: 7, ExternalID: &externalID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(11), conv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateByExternalIDRequiresExternalID(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewConversationRepository(db)

	_, _, err := repo.FindOrCreateByExternalID(&models.Conversation{UserID: 7})
	assert.Error(t, err)

	empty := ""
	_, _, err = repo.FindOrCreateByExternalID(&models.Conversation{UserID: 7, ExternalID: &empty})
	assert.Error(t, err)
}

func TestEndByExternalIDReportsAffectedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `conversations`").
		WithArgs(models.ConversationStatusEnded, sqlmock.AnyArg(), uint(7), "cv-9").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	affected, err := repo.EndByExternalID(7, "cv-9")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestEndByExternalIDNoMatches(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `conversations`").
		WithArgs(models.ConversationStatusEnded, sqlmock.AnyArg(), uint(7), "cv-unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := repo.EndByExternalID(7, "cv-unknown")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
