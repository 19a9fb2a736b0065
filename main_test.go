package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"products/internal/config"
	"products/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Port:            ":0",
			Env:             "test",
			LogLevel:        "error",
			SeedDemoData:    true,
			ShutdownTimeout: time.Second,
		},
		Store:     config.StoreConfig{Driver: config.DriverMemory},
		RabbitMQ:  config.RabbitMQConfig{Exchange: "products"},
		Auth:      config.AuthConfig{JWTSecret: "test_jwt_secret"},
		Telemetry: config.TelemetryConfig{ServiceName: "products-test"},
	}
}

func newTestApplication(t *testing.T, cfg *config.Config) *application {
	t.Helper()
	app, err := newApplication(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, app.close(context.Background())) })
	return app
}

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t, testConfig())

	resp, err := app.fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.Contains(t, string(body), `"events":"disabled"`)
}

func TestSeededProductsAndMetrics(t *testing.T) {
	app := newTestApplication(t, testConfig())

	resp, err := app.fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 3)
	assert.Equal(t, "Laptop", products[0].Name)

	metricsResp, err := app.fiber.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	require.Equal(t, http.StatusOK, metricsResp.StatusCode)
	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "products_operations_total")
}

func TestWriteRoutesRequireToken(t *testing.T) {
	app := newTestApplication(t, testConfig())

	body := bytes.NewBufferString(`{"id":9,"name":"X","description":"","cost":1,"qty":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.fiber.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWriteRoutesOpenWithoutSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = ""
	cfg.App.SeedDemoData = false
	app := newTestApplication(t, cfg)

	body := bytes.NewBufferString(`{"id":9,"name":"X","description":"","cost":1,"qty":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.fiber.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestOpenProductRepository_SQLite(t *testing.T) {
	repo, closeRepo, err := openProductRepository(context.Background(), config.StoreConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:main_test?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, closeRepo(context.Background())) })

	records, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpenProductRepository_UnknownDriver(t *testing.T) {
	_, _, err := openProductRepository(context.Background(), config.StoreConfig{Driver: "mongo"})
	assert.ErrorContains(t, err, "unknown store driver")
}
