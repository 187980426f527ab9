package config

import (
	"os"
	"path/filepath"
	"testing"

	"hotelops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: hotelops
  environment: test
database:
  path: ./data/hotelops.db
api:
  enabled: true
  auth:
    api_keys:
      - key: secret-1
        name: frontdesk
        permissions: ["write:tickets"]
alerts:
  budget_pct: 90
hotels:
  - id: grand-palms
    name: Grand Palms
    active: true
services:
  - hotel_id: grand-palms
    key: housekeeping
    label: Housekeeping
    sla_minutes: 30
    active: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hotelops", cfg.App.Name)
	assert.Equal(t, "./data/hotelops.db", cfg.Database.Path)
	require.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, []string{"write:tickets"}, cfg.API.Auth.APIKeys[0].Permissions)
	assert.Equal(t, 90.0, cfg.Alerts.BudgetPct)
	assert.Len(t, cfg.Hotels, 1)
	assert.Len(t, cfg.Services, 1)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "from-env")

	path := writeConfigFile(t, `
database:
  path: ./data/hotelops.db
api:
  enabled: true
  auth:
    api_keys:
      - key: ${TEST_API_KEY}
        name: frontdesk
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, "from-env", cfg.API.Auth.APIKeys[0].Key)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDatabasePath(t *testing.T) {
	path := writeConfigFile(t, "app:\n  name: hotelops\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.API.Enabled = true
	cfg.applyDefaults()

	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.True(t, cfg.API.Auth.Enabled)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, models.RateLimitHits, cfg.API.RateLimit.Hits)
	assert.Equal(t, models.RateLimitWindow, cfg.API.RateLimit.Window)
	assert.Equal(t, "15m", cfg.Monitoring.SweepInterval)
	assert.Equal(t, models.BudgetAlertPct, cfg.Alerts.BudgetPct)
	assert.Equal(t, models.LateAlertPct, cfg.Alerts.LatePct)
	assert.Equal(t, int64(models.LateAlertMinClosures), cfg.Alerts.MinClosures)
	assert.Equal(t, 5, cfg.Notify.MaxRetries)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.API.HTTP.Port = 9999
	cfg.API.RateLimit = APIRateLimitConfig{Hits: 10, Window: 5}
	cfg.Alerts.BudgetPct = 50
	cfg.applyDefaults()

	assert.Equal(t, 9999, cfg.API.HTTP.Port)
	assert.Equal(t, 10, cfg.API.RateLimit.Hits)
	assert.Equal(t, 5, cfg.API.RateLimit.Window)
	assert.Equal(t, 50.0, cfg.Alerts.BudgetPct)
}

func TestValidateCatalog(t *testing.T) {
	hotels := []models.Hotel{
		{ID: "grand-palms", Name: "Grand Palms"},
		{ID: "sea-breeze", Name: "Sea Breeze"},
	}
	services := []models.Service{
		{HotelID: "grand-palms", Key: "housekeeping", Label: "Housekeeping", SLAMinutes: 30},
		{HotelID: "sea-breeze", Key: "housekeeping", Label: "Housekeeping", SLAMinutes: 45},
	}
	assert.NoError(t, ValidateCatalog(hotels, services))
}

func TestValidateCatalog_Failures(t *testing.T) {
	tests := []struct {
		name     string
		hotels   []models.Hotel
		services []models.Service
		wantErr  string
	}{
		{
			name:    "empty hotel id",
			hotels:  []models.Hotel{{Name: "Nameless"}},
			wantErr: "empty id",
		},
		{
			name: "duplicate hotel id",
			hotels: []models.Hotel{
				{ID: "grand-palms", Name: "A"},
				{ID: "grand-palms", Name: "B"},
			},
			wantErr: "duplicate hotel id",
		},
		{
			name: "service missing key",
			services: []models.Service{
				{HotelID: "grand-palms", Label: "Broken"},
			},
			wantErr: "missing hotel_id or key",
		},
		{
			name: "duplicate service pair",
			services: []models.Service{
				{HotelID: "grand-palms", Key: "spa", Label: "Spa"},
				{HotelID: "grand-palms", Key: "spa", Label: "Spa Again"},
			},
			wantErr: "duplicate service",
		},
		{
			name: "negative sla",
			services: []models.Service{
				{HotelID: "grand-palms", Key: "spa", Label: "Spa", SLAMinutes: -1},
			},
			wantErr: "negative sla_minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.hotels, tt.services)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
