package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func configRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "api_key", "org_id", "webhook_secret", "active", "created_at", "updated_at"}).
		AddRow(1, 7, "cv_live_1234567890", "org_12345", "whsec_abc", true, now, now)
}

func TestResolveMatchesActiveCredential(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatVoltConfigRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `chat_volt_configs`").
		WithArgs("cv_live_1234567890", "org_12345", true, 1).
		WillReturnRows(configRows())

	cfg, err := repo.Resolve("cv_live_1234567890", "org_12345")
	require.NoError(t, err)
	assert.Equal(t, uint(7), cfg.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUnknownCredential(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatVoltConfigRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `chat_volt_configs`").
		WithArgs("cv_live_unknown000", "org_12345", true, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Resolve("cv_live_unknown000", "org_12345")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResolveByOrg(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatVoltConfigRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `chat_volt_configs`").
		WithArgs("org_12345", true, 1).
		WillReturnRows(configRows())

	cfg, err := repo.ResolveByOrg("org_12345")
	require.NoError(t, err)
	assert.Equal(t, uint(7), cfg.UserID)
	assert.Equal(t, "whsec_abc", cfg.WebhookSecret)
}

func TestSetActiveReportsAffectedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatVoltConfigRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `chat_volt_configs`").
		WithArgs(false, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.SetActive(7, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestSetActiveWithoutConfig(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatVoltConfigRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `chat_volt_configs`").
		WithArgs(true, sqlmock.AnyArg(), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := repo.SetActive(99, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
