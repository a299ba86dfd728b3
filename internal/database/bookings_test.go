package database

import (
	"context"
	"testing"

	"kovaidetail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func newTestBooking(userID int64, serviceType string) *models.Booking {
	return &models.Booking{
		UserID:        userID,
		FullName:      "Test Customer",
		PhoneNumber:   "9876543210",
		Email:         "customer@example.com",
		VehicleType:   "Hatchback",
		VehicleModel:  "Swift",
		ServiceType:   serviceType,
		Address:       "12 Race Course Rd, Coimbatore",
		PreferredDate: "2026-09-01",
		PreferredTime: "10:00",
	}
}

func TestCreateBooking_Defaults(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	user := createTestUser(t, db, "c@example.com")

	booking := newTestBooking(user.ID, "BASIC CAR WASH")
	err := db.CreateBooking(ctx, booking)
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)

	found, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, found.Status)
	assert.Nil(t, found.Lat)
	assert.Nil(t, found.Lng)
}

func TestCreateBooking_Coordinates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	user := createTestUser(t, db, "c@example.com")

	lat, lng := 11.0168, 76.9558
	booking := newTestBooking(user.ID, "INTERIOR DETAILING")
	booking.Lat = &lat
	booking.Lng = &lng
	require.NoError(t, db.CreateBooking(ctx, booking))

	found, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Lat)
	require.NotNil(t, found.Lng)
	assert.InDelta(t, lat, *found.Lat, 1e-9)
	assert.InDelta(t, lng, *found.Lng, 1e-9)
}

func TestGetBooking_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetBooking(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListBookings_Scoping(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.CreateBooking(ctx, newTestBooking(alice.ID, "BASIC CAR WASH")))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, db.CreateBooking(ctx, newTestBooking(bob.ID, "CERAMIC COATING")))
	}

	aliceRows, err := db.GetUserBookings(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceRows, 3)
	for _, b := range aliceRows {
		assert.Equal(t, alice.ID, b.UserID)
	}

	all, err := db.GetAllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListBookings_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	user := createTestUser(t, db, "c@example.com")

	first := newTestBooking(user.ID, "BASIC CAR WASH")
	require.NoError(t, db.CreateBooking(ctx, first))
	second := newTestBooking(user.ID, "INTERIOR DETAILING")
	require.NoError(t, db.CreateBooking(ctx, second))

	rows, err := db.GetAllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	user := createTestUser(t, db, "c@example.com")
	booking := newTestBooking(user.ID, "BASIC CAR WASH")
	require.NoError(t, db.CreateBooking(ctx, booking))

	affected, err := db.UpdateBookingStatus(ctx, booking.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, found.Status)
}

func TestUpdateBookingStatus_UnknownID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	affected, err := db.UpdateBookingStatus(context.Background(), 12345, models.StatusCompleted)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUpdateBookingStatus_InvalidValue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	user := createTestUser(t, db, "c@example.com")
	booking := newTestBooking(user.ID, "BASIC CAR WASH")
	require.NoError(t, db.CreateBooking(ctx, booking))

	_, err := db.UpdateBookingStatus(ctx, booking.ID, "Cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// The row must be untouched.
	found, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, found.Status)
}
