package delivery

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bulkmates/bulkmates-api/internal/database"
)

// Repository handles delivery data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new delivery repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const deliveryColumns = `id, trip_id, claim_id, item_id, receiver_user_id, deliverer_user_id, is_delivered, delivered_at, confirmation_note, created_at`

func scanDelivery(row interface{ Scan(...any) error }) (*ItemDelivery, error) {
	d := &ItemDelivery{}
	err := row.Scan(
		&d.ID,
		&d.TripID,
		&d.ClaimID,
		&d.ItemID,
		&d.ReceiverUserID,
		&d.DelivererUserID,
		&d.IsDelivered,
		&d.DeliveredAt,
		&d.ConfirmationNote,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a delivery record. The unique claim constraint keeps the
// 1:1 claim-to-delivery shape; a duplicate surfaces as a pq unique violation.
func (r *Repository) Create(ctx context.Context, d *ItemDelivery) (*ItemDelivery, error) {
	query := `
		INSERT INTO item_deliveries (id, trip_id, claim_id, item_id, receiver_user_id, deliverer_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + deliveryColumns

	created, err := scanDelivery(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), d.TripID, d.ClaimID, d.ItemID, d.ReceiverUserID, d.DelivererUserID))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	return created, nil
}

// GetByID retrieves a delivery by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*ItemDelivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM item_deliveries WHERE id = $1`

	d, err := scanDelivery(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return d, nil
}

// GetByClaimID retrieves the delivery covering one claim
func (r *Repository) GetByClaimID(ctx context.Context, claimID string) (*ItemDelivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM item_deliveries WHERE claim_id = $1`

	d, err := scanDelivery(r.db.QueryRowContext(ctx, query, claimID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery by claim: %w", err)
	}

	return d, nil
}

// ListByTrip retrieves all deliveries on a trip
func (r *Repository) ListByTrip(ctx context.Context, tripID string) ([]*ItemDelivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM item_deliveries WHERE trip_id = $1 ORDER BY created_at`
	return r.list(ctx, query, tripID)
}

// ListByReceiver retrieves deliveries headed to one user
func (r *Repository) ListByReceiver(ctx context.Context, userID string) ([]*ItemDelivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM item_deliveries WHERE receiver_user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListByDeliverer retrieves deliveries one user has to make
func (r *Repository) ListByDeliverer(ctx context.Context, userID string) ([]*ItemDelivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM item_deliveries WHERE deliverer_user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*ItemDelivery, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*ItemDelivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, rows.Err()
}

// MarkDelivered confirms the handoff. The write is conditional on the
// delivery still being unconfirmed; re-confirmation surfaces ErrStaleSnapshot.
func (r *Repository) MarkDelivered(ctx context.Context, id string, note *string) (*ItemDelivery, error) {
	query := `
		UPDATE item_deliveries
		SET is_delivered = true, delivered_at = now(), confirmation_note = $2
		WHERE id = $1 AND is_delivered = false
		RETURNING ` + deliveryColumns

	d, err := scanDelivery(r.db.QueryRowContext(ctx, query, id, note))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to mark delivered: %w", err)
	}

	return d, nil
}
