package domain

import (
	"context"
	"time"

	"kovaidetail/internal/models"
)

// Repository is the storage surface consumed by the services. The concrete
// implementation is *database.DB, injected in main.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EnsureAdmin(ctx context.Context, name, email, passwordHash string) (bool, error)
	CountCustomers(ctx context.Context) (int64, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
	GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) (int64, error)
	GetStats(ctx context.Context) (*models.Stats, error)
}

// SessionStore tracks revoked token IDs and per-key request budgets. Redis
// when available, process memory otherwise.
type SessionStore interface {
	RevokeToken(ctx context.Context, tokenID string, until time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportEnqueuer schedules background export work.
type ExportEnqueuer interface {
	EnqueueExport(ctx context.Context, reason string, bookingID int64) error
}

// Notifier delivers out-of-band messages to the business's staff.
type Notifier interface {
	NotifyBookingCreated(booking *models.Booking)
	NotifyStatusChanged(booking *models.Booking)
	NotifyUserRegistered(name, email string)
}
