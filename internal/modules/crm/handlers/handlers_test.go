package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/repositories"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRunner struct {
	calls  int
	result *services.InactivationResult
	err    error
}

func (f *fakeRunner) RunInactivation(ctx context.Context, trigger string) (*services.InactivationResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeRunner) RecentRuns(ctx context.Context, limit int) ([]models.AutomationRun, error) {
	return []models.AutomationRun{{Trigger: services.TriggerHTTP, Status: models.RunStatusCompleted}}, nil
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

func newTestApp(t *testing.T, runner InactivationRunner) *fiber.App {
	t.Helper()
	db := newTestDB(t)

	clientRepo := repositories.NewClientRepo(db)
	clientService := services.NewClientService(clientRepo)
	analysisService := services.NewAnalysisService(nil, time.Second)
	if runner == nil {
		runner = services.NewInactivationService(clientRepo, repositories.NewAutomationRunRepo(db))
	}

	app := fiber.New()
	Routes{
		Health:     NewHealthHandler("crm-engagement-api", services.SourceFallback, nil),
		Clients:    NewClientHandler(clientService, analysisService),
		Analysis:   NewAnalysisHandler(analysisService),
		Automation: NewAutomationHandler(runner, scheduler.NewScheduler()),
	}.Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := doJSON(t, app, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "crm-engagement-api", body["service"])
	assert.Equal(t, "disabled", body["database"])
}

func TestClientLifecycle(t *testing.T) {
	app := newTestApp(t, nil)
	old := time.Now().UTC().Add(-45 * 24 * time.Hour)

	status, created := doJSON(t, app, http.MethodPost, "/clients", map[string]interface{}{
		"name":            "Ana",
		"phone":           "5550001",
		"status":          "active",
		"lastInteraction": old,
	}, nil)
	require.Equal(t, http.StatusCreated, status, created)
	assert.Equal(t, "Active", created["status"])
	id := created["id"].(string)

	status, body := doJSON(t, app, http.MethodPost, "/clients", map[string]interface{}{"name": "Dup", "phone": "5550001", "status": "Active"}, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "phone")

	status, _ = doJSON(t, app, http.MethodPost, "/clients", map[string]interface{}{"name": "", "phone": "5550002", "status": "Active"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodPost, "/clients", map[string]interface{}{"name": "Bea", "phone": "5550002"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "status")

	status, analysis := doJSON(t, app, http.MethodGet, "/clients/"+id+"/analysis", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, services.SourceFallback, analysis["sourceLabel"])
	assert.EqualValues(t, 45, analysis["daysSinceLastInteraction"])
	assert.Equal(t, "Inactive", analysis["recommendedStatus"])

	status, applied := doJSON(t, app, http.MethodPost, "/clients/"+id+"/apply-recommendation", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, applied["changed"])

	status, withNote := doJSON(t, app, http.MethodPost, "/clients/"+id+"/interactions", map[string]interface{}{"description": "called"}, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, withNote["interactions"], 1)

	status, stats := doJSON(t, app, http.MethodGet, "/clients/stats", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, stats["inactive"])

	status, _ = doJSON(t, app, http.MethodPut, "/clients/"+id, map[string]interface{}{"status": "Dormant"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, updated := doJSON(t, app, http.MethodPut, "/clients/"+id, map[string]interface{}{"status": "potential", "name": "Ana María"}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Potential", updated["status"])
	assert.Equal(t, "Ana María", updated["name"])

	status, deleted := doJSON(t, app, http.MethodDelete, "/clients/"+id, nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, deleted["softDeleted"])

	status, _ = doJSON(t, app, http.MethodGet, "/clients/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/clients/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAnalyzeClientEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	last := time.Now().UTC().Add(-45*24*time.Hour - time.Hour)

	status, body := doJSON(t, app, http.MethodPost, "/api/analyze-client", map[string]interface{}{
		"clientData": map[string]interface{}{
			"name":            "Ana",
			"phone":           "5550001",
			"status":          "Active",
			"lastInteraction": last,
			"interactions":    []map[string]interface{}{{"date": last, "description": "demo"}},
		},
	}, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 45, body["daysSinceLastInteraction"])
	assert.Equal(t, services.SourceFallback, body["sourceLabel"])
	assert.NotEmpty(t, body["analysis"])
	assert.NotEmpty(t, body["recommendation"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/analyze-client", map[string]interface{}{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/analyze-client", map[string]interface{}{
		"clientData": map[string]interface{}{"status": "Dormant", "lastInteraction": last},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMarkInactive_RequiresAuthorization(t *testing.T) {
	runner := &fakeRunner{result: &services.InactivationResult{Transitioned: 3}}
	app := newTestApp(t, runner)

	status, body := doJSON(t, app, http.MethodPost, "/api/automation/mark-inactive", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])
	assert.Equal(t, 0, runner.calls)
}

func TestMarkInactive_Success(t *testing.T) {
	for _, header := range []string{"Authorization", "Upstash-Signature"} {
		t.Run(header, func(t *testing.T) {
			runner := &fakeRunner{result: &services.InactivationResult{
				Transitioned: 3,
				Failures:     []services.TransitionFailure{{ClientID: uuid.New(), Error: "boom"}},
			}}
			app := newTestApp(t, runner)

			status, body := doJSON(t, app, http.MethodPost, "/api/automation/mark-inactive", nil, map[string]string{header: "anything"})
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, 1, runner.calls)
			assert.Equal(t, true, body["success"])
			assert.EqualValues(t, 3, body["inactiveClientsCount"])
			assert.EqualValues(t, 1, body["failedClientsCount"])

			_, err := time.Parse(time.RFC3339Nano, body["timestamp"].(string))
			assert.NoError(t, err)
		})
	}
}

func TestMarkInactive_InternalError(t *testing.T) {
	runner := &fakeRunner{result: &services.InactivationResult{}, err: errors.New("database unavailable")}
	app := newTestApp(t, runner)

	status, body := doJSON(t, app, http.MethodPost, "/api/automation/mark-inactive", nil, map[string]string{"Authorization": "Bearer x"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "database unavailable", body["details"])
}

func TestMarkInactive_RunsJobAgainstStorage(t *testing.T) {
	app := newTestApp(t, nil)
	now := time.Now().UTC()

	for i, days := range []int{45, 10, 2} {
		status, _ := doJSON(t, app, http.MethodPost, "/clients", map[string]interface{}{
			"name":            fmt.Sprintf("Client %d", i),
			"phone":           fmt.Sprintf("555000%d", i),
			"status":          "Active",
			"lastInteraction": now.Add(-time.Duration(days) * 24 * time.Hour),
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	auth := map[string]string{"Authorization": "Bearer x"}
	_, body := doJSON(t, app, http.MethodPost, "/api/automation/mark-inactive", nil, auth)
	assert.EqualValues(t, 1, body["inactiveClientsCount"])

	_, body = doJSON(t, app, http.MethodPost, "/api/automation/mark-inactive", nil, auth)
	assert.EqualValues(t, 0, body["inactiveClientsCount"])

	status, runs := doJSON(t, app, http.MethodGet, "/api/automation/runs", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, runs["runs"], 2)
}

func TestMarkInactiveHealth_DoesNotRunJob(t *testing.T) {
	runner := &fakeRunner{}
	app := newTestApp(t, runner)

	status, body := doJSON(t, app, http.MethodGet, "/api/automation/mark-inactive", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "mark-inactive-automation", body["service"])
	assert.Equal(t, 0, runner.calls)
}

func TestSchedules(t *testing.T) {
	app := newTestApp(t, &fakeRunner{})

	status, created := doJSON(t, app, http.MethodPost, "/api/automation/schedules", nil, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, scheduler.DefaultSpec, created["schedule"])
	id := created["scheduleId"].(string)

	status, _ = doJSON(t, app, http.MethodPost, "/api/automation/schedules", map[string]interface{}{"cron": "every minute"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, list := doJSON(t, app, http.MethodGet, "/api/automation/schedules", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["schedules"], 1)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/automation/schedules/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/automation/schedules/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
