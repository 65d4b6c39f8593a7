package services

import (
	"context"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func daysAgo(n int) time.Time {
	return fixedNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seed(t *testing.T, repo repositories.ClientRepo, name, phone string, status engagement.Status, days int) *models.Client {
	t.Helper()
	c := &models.Client{
		Name:              name,
		Phone:             phone,
		Status:            status,
		LastInteractionAt: daysAgo(days),
		CreatedAt:         daysAgo(days),
		UpdatedAt:         daysAgo(days),
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

// textProvider answers GenerateResponse only
type textProvider struct {
	response string
	err      error
	block    bool
	calls    int
	lastUser string
}

func (p *textProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	p.calls++
	p.lastUser = userMessage
	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.response, p.err
}

func (p *textProvider) GetProviderName() string { return "fake" }
func (p *textProvider) GetModel() string        { return "fake-model-1" }

// structuredProvider also supports schema-bound output
type structuredProvider struct {
	textProvider
	schemaName string
}

func (p *structuredProvider) GenerateStructured(ctx context.Context, systemPrompt, userMessage string, schema llm.Schema) (string, error) {
	p.schemaName = schema.Name
	return p.GenerateResponse(ctx, systemPrompt, userMessage)
}

type panickingProvider struct{ textProvider }

func (p *panickingProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	panic("boom")
}
