package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kovaidetail/internal/models"
)

// GetStats computes the admin dashboard aggregates. All queries run inside a
// single read transaction so the numbers describe one snapshot even under
// concurrent writes.
func (db *DB) GetStats(ctx context.Context) (*models.Stats, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stats := &models.Stats{ServiceBreakdown: []models.ServiceCount{}}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&stats.TotalBookings); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = ?`, models.RoleUser,
	).Scan(&stats.TotalCustomers); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	// Server-local calendar day. date() alone would normalize the stored
	// timezone-suffixed timestamp to UTC and shift near-midnight rows into
	// the wrong day on non-UTC hosts.
	today := time.Now().Format("2006-01-02")
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE date(created_at, 'localtime') = ?`, today,
	).Scan(&stats.TodayBookings); err != nil {
		return nil, fmt.Errorf("failed to count today's bookings: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT service_type, COUNT(*) FROM bookings GROUP BY service_type ORDER BY service_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to get service breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc models.ServiceCount
		if err := rows.Scan(&sc.ServiceType, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan service breakdown: %w", err)
		}
		stats.ServiceBreakdown = append(stats.ServiceBreakdown, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, tx.Commit()
}
