package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bulkmates/bulkmates-api/internal/database"
)

// Repository handles transaction data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const txColumns = `id, trip_id, from_user_id, to_user_id, item_points, item_claim_ids, status, created_at, settled_at, notes`

func scanTransaction(row interface{ Scan(...any) error }) (*Transaction, error) {
	t := &Transaction{}
	err := row.Scan(
		&t.ID,
		&t.TripID,
		&t.FromUserID,
		&t.ToUserID,
		&t.ItemPoints,
		pq.Array(&t.ItemClaimIDs),
		&t.Status,
		&t.CreatedAt,
		&t.SettledAt,
		&t.Notes,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateBatch inserts a set of derived transactions in one transaction
func (r *Repository) CreateBatch(ctx context.Context, txs []*Transaction) ([]*Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO transactions (id, trip_id, from_user_id, to_user_id, item_points, item_claim_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING ` + txColumns

	created := make([]*Transaction, 0, len(txs))
	for _, t := range txs {
		row, err := scanTransaction(dbTx.QueryRowContext(ctx, query,
			uuid.NewString(), t.TripID, t.FromUserID, t.ToUserID, t.ItemPoints, pq.Array(t.ItemClaimIDs)))
		if err != nil {
			return nil, fmt.Errorf("failed to create transaction: %w", err)
		}
		created = append(created, row)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return created, nil
}

// GetByID retrieves a transaction by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// ListByTrip retrieves all transactions on a trip
func (r *Repository) ListByTrip(ctx context.Context, tripID string) ([]*Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE trip_id = $1 ORDER BY created_at`
	return r.list(ctx, query, tripID)
}

// ListByUser retrieves all transactions where the user owes or is owed
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	return txs, rows.Err()
}

// CoveredClaimIDs returns the ids of claims already covered by a
// non-cancelled transaction on the trip, so re-derivation never bills a
// claim twice.
func (r *Repository) CoveredClaimIDs(ctx context.Context, tripID string) (map[string]bool, error) {
	query := `
		SELECT item_claim_ids
		FROM transactions
		WHERE trip_id = $1 AND status != 'cancelled'
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list covered claims: %w", err)
	}
	defer rows.Close()

	covered := make(map[string]bool)
	for rows.Next() {
		var ids []string
		if err := rows.Scan(pq.Array(&ids)); err != nil {
			return nil, fmt.Errorf("failed to scan covered claims: %w", err)
		}
		for _, id := range ids {
			covered[id] = true
		}
	}

	return covered, rows.Err()
}

// UpdateStatus moves the transaction between statuses. Settling stamps
// settled_at. The write is conditional on the expected prior status; a lost
// race surfaces ErrStaleSnapshot.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to TransactionStatus, notes *string) (*Transaction, error) {
	query := `
		UPDATE transactions
		SET status = $3,
		    settled_at = CASE WHEN $3 = 'settled' THEN now() ELSE settled_at END,
		    notes = COALESCE($4, notes)
		WHERE id = $1 AND status = $2
		RETURNING ` + txColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, from, to, notes))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}

	return t, nil
}
