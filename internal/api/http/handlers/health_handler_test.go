package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func readiness(t *testing.T, postgres, redis Pinger) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/health/ready", NewHealthHandler("posts-service", "test", postgres, redis).Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReadyWhenDependenciesUp(t *testing.T) {
	status, body := readiness(t, stubPinger{}, stubPinger{})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyFailsWithoutPostgres(t *testing.T) {
	status, body := readiness(t, stubPinger{err: errors.New("connection refused")}, stubPinger{})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "connection refused", body["dependencies"].(map[string]any)["postgres"])
}

func TestReadyToleratesRedisOutage(t *testing.T) {
	status, body := readiness(t, stubPinger{}, stubPinger{err: errors.New("redis down")})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "redis down", body["dependencies"].(map[string]any)["redis"])
}
