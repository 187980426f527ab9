package database

import (
	"context"
	"testing"
	"time"

	"hotelops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrUpdateHotel(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	hotel := &models.Hotel{ID: "grand-palms", Name: "Grand Palms", Active: true}
	require.NoError(t, db.CreateOrUpdateHotel(ctx, hotel))

	// Upsert with a new name keeps the same row.
	hotel.Name = "Grand Palms Resort"
	require.NoError(t, db.CreateOrUpdateHotel(ctx, hotel))

	got, err := db.GetHotel(ctx, "grand-palms")
	require.NoError(t, err)
	assert.Equal(t, "Grand Palms Resort", got.Name)
}

func TestGetHotel_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetHotel(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestUpsertService_ReplacesByHotelAndKey(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	svc := &models.Service{HotelID: "grand-palms", Key: "housekeeping", Label: "Housekeeping", SLAMinutes: 30, Active: true}
	require.NoError(t, db.UpsertService(ctx, svc))

	svc.SLAMinutes = 20
	require.NoError(t, db.UpsertService(ctx, svc))

	services, err := db.GetServices(ctx, "grand-palms")
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, int64(20), services[0].SLAMinutes)
}

func TestGetServiceSLA(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	svc := &models.Service{HotelID: "grand-palms", Key: "room-service", Label: "Room Service", SLAMinutes: 45, Active: true}
	require.NoError(t, db.UpsertService(ctx, svc))

	sla, err := db.GetServiceSLA(ctx, "grand-palms", "room-service")
	require.NoError(t, err)
	assert.Equal(t, int64(45), sla)
}

func TestGetServiceSLA_UnknownKey(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetServiceSLA(context.Background(), "grand-palms", "spa")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetServiceSLA_InactiveRowDoesNotResolve(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	svc := &models.Service{HotelID: "grand-palms", Key: "laundry", Label: "Laundry", SLAMinutes: 60, Active: true}
	require.NoError(t, db.UpsertService(ctx, svc))
	require.NoError(t, db.DeactivateService(ctx, "grand-palms", "laundry"))

	_, err := db.GetServiceSLA(ctx, "grand-palms", "laundry")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDeactivateService_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.DeactivateService(context.Background(), "grand-palms", "missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUpsertAIUsage_And_GetForMonth(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	month := CurrentMonthUTC(time.Now())
	require.NoError(t, db.UpsertAIUsage(ctx, &models.AIUsage{HotelID: "grand-palms", Month: month, UsedTokens: 50, BudgetTokens: 100}))
	require.NoError(t, db.UpsertAIUsage(ctx, &models.AIUsage{HotelID: "grand-palms", Month: month, UsedTokens: 85, BudgetTokens: 100}))
	require.NoError(t, db.UpsertAIUsage(ctx, &models.AIUsage{HotelID: "sea-breeze", Month: "2020-01", UsedTokens: 10, BudgetTokens: 100}))

	records, err := db.GetAIUsageForMonth(ctx, month)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(85), records[0].UsedTokens)
}

func TestCurrentMonthUTC(t *testing.T) {
	at := time.Date(2025, 3, 31, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "2025-03", CurrentMonthUTC(at))

	// Local time past midnight still belongs to the UTC month.
	at = time.Date(2025, 4, 1, 3, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "2025-03", CurrentMonthUTC(at))
}
