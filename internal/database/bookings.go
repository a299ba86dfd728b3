package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kovaidetail/internal/models"
)

const bookingColumns = `id, user_id, full_name, phone_number, email, vehicle_type,
               vehicle_model, service_type, address, lat, lng,
               preferred_date, preferred_time, notes, status, created_at`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
                user_id, full_name, phone_number, email, vehicle_type, vehicle_model,
                service_type, address, lat, lng, preferred_date, preferred_time,
                notes, status, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}
	result, err := db.ExecContext(ctx, query,
		booking.UserID,
		booking.FullName,
		booking.PhoneNumber,
		booking.Email,
		booking.VehicleType,
		booking.VehicleModel,
		booking.ServiceType,
		booking.Address,
		nullFloat(booking.Lat),
		nullFloat(booking.Lng),
		booking.PreferredDate,
		booking.PreferredTime,
		booking.Notes,
		booking.Status,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	return nil
}

// GetAllBookings returns every booking, newest first.
func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings ORDER BY created_at DESC, id DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetUserBookings returns the bookings created by one user, newest first.
func (db *DB) GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)

	b := &models.Booking{}
	var lat, lng sql.NullFloat64
	var notes sql.NullString
	err := row.Scan(
		&b.ID, &b.UserID, &b.FullName, &b.PhoneNumber, &b.Email,
		&b.VehicleType, &b.VehicleModel, &b.ServiceType, &b.Address,
		&lat, &lng, &b.PreferredDate, &b.PreferredTime, &notes,
		&b.Status, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	applyNullables(b, lat, lng, notes)
	return b, nil
}

// UpdateBookingStatus sets a booking's status after validating the value
// against the closed enumeration. Returns the number of rows touched; zero
// means the id does not exist.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) (int64, error) {
	if !models.ValidStatus(status) {
		return 0, ErrInvalidStatus
	}

	result, err := db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var lat, lng sql.NullFloat64
		var notes sql.NullString
		err := rows.Scan(
			&b.ID, &b.UserID, &b.FullName, &b.PhoneNumber, &b.Email,
			&b.VehicleType, &b.VehicleModel, &b.ServiceType, &b.Address,
			&lat, &lng, &b.PreferredDate, &b.PreferredTime, &notes,
			&b.Status, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		applyNullables(b, lat, lng, notes)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func applyNullables(b *models.Booking, lat, lng sql.NullFloat64, notes sql.NullString) {
	if lat.Valid {
		v := lat.Float64
		b.Lat = &v
	}
	if lng.Valid {
		v := lng.Float64
		b.Lng = &v
	}
	b.Notes = notes.String
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
