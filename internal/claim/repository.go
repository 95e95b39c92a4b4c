package claim

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bulkmates/bulkmates-api/internal/database"
)

// Repository handles claim data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new claim repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const claimColumns = `id, trip_id, item_id, claimer_user_id, quantity_claimed, status, claimed_at, completed_at`

func scanClaim(row interface{ Scan(...any) error }) (*ItemClaim, error) {
	c := &ItemClaim{}
	err := row.Scan(
		&c.ID,
		&c.TripID,
		&c.ItemID,
		&c.ClaimerUserID,
		&c.QuantityClaimed,
		&c.Status,
		&c.ClaimedAt,
		&c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Submit inserts a pending claim only if the item's active claimed total
// plus the new quantity stays within quantity_needed. The check and the
// insert are one statement, so concurrent submissions cannot both pass
// against a stale snapshot. A failed guard surfaces ErrStaleSnapshot; the
// caller re-reads to decide whether the item is genuinely full.
func (r *Repository) Submit(ctx context.Context, tripID, itemID, claimerID string, quantity int) (*ItemClaim, error) {
	query := `
		INSERT INTO item_claims (id, trip_id, item_id, claimer_user_id, quantity_claimed)
		SELECT $1, $2, $3, $4, $5
		WHERE (
			SELECT COALESCE(SUM(quantity_claimed), 0)
			FROM item_claims
			WHERE item_id = $3 AND status IN ('pending', 'accepted')
		) + $5 <= (SELECT quantity_needed FROM trip_items WHERE id = $3)
		RETURNING ` + claimColumns

	c, err := scanClaim(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), tripID, itemID, claimerID, quantity))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to submit claim: %w", err)
	}

	return c, nil
}

// GetByID retrieves a claim by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*ItemClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM item_claims WHERE id = $1`

	c, err := scanClaim(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	return c, nil
}

// ListByTrip retrieves all claims on a trip
func (r *Repository) ListByTrip(ctx context.Context, tripID string) ([]*ItemClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM item_claims WHERE trip_id = $1 ORDER BY claimed_at`
	return r.list(ctx, query, tripID)
}

// ListByItem retrieves all claims against one item
func (r *Repository) ListByItem(ctx context.Context, itemID string) ([]*ItemClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM item_claims WHERE item_id = $1 ORDER BY claimed_at`
	return r.list(ctx, query, itemID)
}

// ListByClaimer retrieves all claims made by one user
func (r *Repository) ListByClaimer(ctx context.Context, claimerID string) ([]*ItemClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM item_claims WHERE claimer_user_id = $1 ORDER BY claimed_at DESC`
	return r.list(ctx, query, claimerID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*ItemClaim, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var claims []*ItemClaim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}

// UpdateStatus moves the claim between statuses. The write is conditional
// on the expected prior status; a lost race surfaces ErrStaleSnapshot.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to ClaimStatus) (*ItemClaim, error) {
	query := `
		UPDATE item_claims
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING ` + claimColumns

	c, err := scanClaim(r.db.QueryRowContext(ctx, query, id, from, to))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to update claim status: %w", err)
	}

	return c, nil
}

// CancelWithCascade cancels the claim and, in the same transaction, cancels
// any pending transaction that covers it. A claim that is no longer in the
// expected status surfaces ErrStaleSnapshot.
func (r *Repository) CancelWithCascade(ctx context.Context, id string, from ClaimStatus) (*ItemClaim, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	claimQuery := `
		UPDATE item_claims
		SET status = 'cancelled'
		WHERE id = $1 AND status = $2
		RETURNING ` + claimColumns

	c, err := scanClaim(tx.QueryRowContext(ctx, claimQuery, id, from))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to cancel claim: %w", err)
	}

	cascadeQuery := `
		UPDATE transactions
		SET status = 'cancelled'
		WHERE status = 'pending' AND item_claim_ids @> $1
	`

	if _, err := tx.ExecContext(ctx, cascadeQuery, pq.Array([]string{id})); err != nil {
		return nil, fmt.Errorf("failed to cascade cancellation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return c, nil
}

// IsDelivered reports whether the claim already has a confirmed delivery
func (r *Repository) IsDelivered(ctx context.Context, claimID string) (bool, error) {
	var delivered bool
	query := `SELECT COALESCE(
		(SELECT is_delivered FROM item_deliveries WHERE claim_id = $1), false)`

	if err := r.db.QueryRowContext(ctx, query, claimID).Scan(&delivered); err != nil {
		return false, fmt.Errorf("failed to check delivery: %w", err)
	}

	return delivered, nil
}
