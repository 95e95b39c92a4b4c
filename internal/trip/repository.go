package trip

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bulkmates/bulkmates-api/internal/database"
)

// Repository handles trip data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const tripColumns = `id, group_id, creator_id, shopper_id, name, trip_type, store, scheduled_date, status, participants, admin_ids, viewer_ids, notes, created_at`

func scanTrip(row interface{ Scan(...any) error }) (*Trip, error) {
	t := &Trip{}
	err := row.Scan(
		&t.ID,
		&t.GroupID,
		&t.CreatorID,
		&t.ShopperID,
		&t.Name,
		&t.TripType,
		&t.Store,
		&t.ScheduledDate,
		&t.Status,
		pq.Array(&t.Participants),
		pq.Array(&t.AdminIDs),
		pq.Array(&t.ViewerIDs),
		&t.Notes,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new trip. The creator starts as shopper, sole admin and
// first participant.
func (r *Repository) Create(ctx context.Context, creatorID string, req *CreateTripRequest) (*Trip, error) {
	query := `
		INSERT INTO trips (id, group_id, creator_id, shopper_id, name, trip_type, store, scheduled_date, status, participants, admin_ids, viewer_ids, notes)
		VALUES ($1, $2, $3, $3, $4, $5, $6, $7, 'planned', $8, $8, '{}', $9)
		RETURNING ` + tripColumns

	tripType := req.TripType
	if tripType == "" {
		tripType = TypeShopping
	}
	store := req.Store
	if store == "" {
		store = "other"
	}

	t, err := scanTrip(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), req.GroupID, creatorID, req.Name, tripType, store,
		req.ScheduledDate, pq.Array([]string{creatorID}), req.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return t, nil
}

// GetByID retrieves a trip by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return t, nil
}

// ListByGroupID retrieves all trips belonging to a group
func (r *Repository) ListByGroupID(ctx context.Context, groupID string) ([]*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE group_id = $1 ORDER BY scheduled_date DESC`
	return r.list(ctx, query, groupID)
}

// ListByUserID retrieves all trips the user participates in
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE participants @> ARRAY[$1]::text[] ORDER BY scheduled_date DESC`
	return r.list(ctx, query, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Trip, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	return trips, rows.Err()
}

// Update modifies trip details
func (r *Repository) Update(ctx context.Context, id string, req *UpdateTripRequest) (*Trip, error) {
	query := `
		UPDATE trips
		SET name = COALESCE($2, name),
		    store = COALESCE($3, store),
		    scheduled_date = COALESCE($4, scheduled_date),
		    notes = COALESCE($5, notes)
		WHERE id = $1
		RETURNING ` + tripColumns

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id, req.Name, req.Store, req.ScheduledDate, req.Notes))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return t, nil
}

// UpdateStatus moves the trip between statuses. The write is conditional on
// the expected prior status; a lost race surfaces ErrStaleSnapshot.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to TripStatus) (*Trip, error) {
	query := `
		UPDATE trips
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING ` + tripColumns

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id, from, to))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to update trip status: %w", err)
	}

	return t, nil
}

// Complete moves an in-progress trip to completed and backfills delivery
// records for every accepted claim that does not have one yet, in one
// transaction.
func (r *Repository) Complete(ctx context.Context, id string) (*Trip, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statusQuery := `
		UPDATE trips
		SET status = 'completed'
		WHERE id = $1 AND status = 'in_progress'
		RETURNING ` + tripColumns

	t, err := scanTrip(tx.QueryRowContext(ctx, statusQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to complete trip: %w", err)
	}

	deliveriesQuery := `
		INSERT INTO item_deliveries (id, trip_id, claim_id, item_id, receiver_user_id, deliverer_user_id)
		SELECT gen_random_uuid()::text, c.trip_id, c.id, c.item_id, c.claimer_user_id, $2
		FROM item_claims c
		WHERE c.trip_id = $1 AND c.status = 'accepted'
		ON CONFLICT (claim_id) DO NOTHING
	`

	if _, err := tx.ExecContext(ctx, deliveriesQuery, id, t.ShopperID); err != nil {
		return nil, fmt.Errorf("failed to backfill deliveries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return t, nil
}

// UpdateRoles writes new membership lists with a compare-and-swap on the
// prior admin list. A concurrent role change surfaces ErrStaleSnapshot so
// the caller can re-read and recompute.
func (r *Repository) UpdateRoles(ctx context.Context, id string, expectedAdminIDs, adminIDs, viewerIDs []string) (*Trip, error) {
	query := `
		UPDATE trips
		SET admin_ids = $3, viewer_ids = $4
		WHERE id = $1 AND admin_ids = $2
		RETURNING ` + tripColumns

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id,
		pq.Array(expectedAdminIDs), pq.Array(adminIDs), pq.Array(viewerIDs)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to update trip roles: %w", err)
	}

	return t, nil
}

// AddParticipant joins the user to the trip as a viewer. Idempotent.
func (r *Repository) AddParticipant(ctx context.Context, id, userID string) (*Trip, error) {
	query := `
		UPDATE trips
		SET participants = array_append(participants, $2),
		    viewer_ids = array_append(viewer_ids, $2)
		WHERE id = $1
		  AND NOT participants @> ARRAY[$2]::text[]
		RETURNING ` + tripColumns

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return r.GetByID(ctx, id)
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	return t, nil
}

// RemoveParticipant drops the user from the trip's membership lists
func (r *Repository) RemoveParticipant(ctx context.Context, id, userID string) (*Trip, error) {
	query := `
		UPDATE trips
		SET participants = array_remove(participants, $2),
		    admin_ids = array_remove(admin_ids, $2),
		    viewer_ids = array_remove(viewer_ids, $2)
		WHERE id = $1
		RETURNING ` + tripColumns

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}

	return t, nil
}

const itemColumns = `id, trip_id, name, category, quantity_needed, estimated_unit_price, notes, is_completed, position, created_at`

func scanItem(row interface{ Scan(...any) error }) (*TripItem, error) {
	i := &TripItem{}
	err := row.Scan(
		&i.ID,
		&i.TripID,
		&i.Name,
		&i.Category,
		&i.QuantityNeeded,
		&i.EstimatedUnitPrice,
		&i.Notes,
		&i.IsCompleted,
		&i.Position,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// AddItem appends a new item at the end of the trip's list
func (r *Repository) AddItem(ctx context.Context, tripID string, req *AddItemRequest) (*TripItem, error) {
	query := `
		INSERT INTO trip_items (id, trip_id, name, category, quantity_needed, estimated_unit_price, notes, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM trip_items WHERE trip_id = $2))
		RETURNING ` + itemColumns

	category := req.Category
	if category == "" {
		category = "other"
	}

	i, err := scanItem(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), tripID, req.Name, category, req.QuantityNeeded, req.EstimatedUnitPrice, req.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	return i, nil
}

// GetItemByID retrieves a trip item by its ID
func (r *Repository) GetItemByID(ctx context.Context, itemID string) (*TripItem, error) {
	query := `SELECT ` + itemColumns + ` FROM trip_items WHERE id = $1`

	i, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return i, nil
}

// ListItems retrieves a trip's items in list order
func (r *Repository) ListItems(ctx context.Context, tripID string) ([]*TripItem, error) {
	query := `SELECT ` + itemColumns + ` FROM trip_items WHERE trip_id = $1 ORDER BY position, created_at`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*TripItem
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

// UpdateItem modifies a trip item
func (r *Repository) UpdateItem(ctx context.Context, itemID string, req *UpdateItemRequest) (*TripItem, error) {
	query := `
		UPDATE trip_items
		SET name = COALESCE($2, name),
		    category = COALESCE($3, category),
		    quantity_needed = COALESCE($4, quantity_needed),
		    estimated_unit_price = COALESCE($5, estimated_unit_price),
		    notes = COALESCE($6, notes),
		    is_completed = COALESCE($7, is_completed)
		WHERE id = $1
		RETURNING ` + itemColumns

	i, err := scanItem(r.db.QueryRowContext(ctx, query, itemID,
		req.Name, req.Category, req.QuantityNeeded, req.EstimatedUnitPrice, req.Notes, req.IsCompleted))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return i, nil
}

// DeleteItem removes a trip item
func (r *Repository) DeleteItem(ctx context.Context, itemID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trip_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item not found")
	}

	return nil
}

const requestColumns = `id, trip_id, requester_user_id, item_name, quantity_requested, category, notes, status, requested_at`

func scanRequest(row interface{ Scan(...any) error }) (*ItemRequest, error) {
	q := &ItemRequest{}
	err := row.Scan(
		&q.ID,
		&q.TripID,
		&q.RequesterUserID,
		&q.ItemName,
		&q.QuantityRequested,
		&q.Category,
		&q.Notes,
		&q.Status,
		&q.RequestedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// CreateItemRequest records a viewer's ask for an item
func (r *Repository) CreateItemRequest(ctx context.Context, tripID, requesterID string, req *RequestItemRequest) (*ItemRequest, error) {
	query := `
		INSERT INTO item_requests (id, trip_id, requester_user_id, item_name, quantity_requested, category, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + requestColumns

	category := req.Category
	if category == "" {
		category = "other"
	}

	q, err := scanRequest(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), tripID, requesterID, req.ItemName, req.QuantityRequested, category, req.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create item request: %w", err)
	}

	return q, nil
}

// GetItemRequestByID retrieves an item request by its ID
func (r *Repository) GetItemRequestByID(ctx context.Context, requestID string) (*ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE id = $1`

	q, err := scanRequest(r.db.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item request: %w", err)
	}

	return q, nil
}

// ListItemRequests retrieves a trip's item requests, newest first
func (r *Repository) ListItemRequests(ctx context.Context, tripID string) ([]*ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE trip_id = $1 ORDER BY requested_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	defer rows.Close()

	var requests []*ItemRequest
	for rows.Next() {
		q, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item request: %w", err)
		}
		requests = append(requests, q)
	}

	return requests, rows.Err()
}

// ResolveItemRequest moves a pending request to approved or rejected. On
// approval the requested item is appended to the trip's list in the same
// transaction. A request that is no longer pending surfaces ErrStaleSnapshot.
func (r *Repository) ResolveItemRequest(ctx context.Context, requestID string, approve bool) (*ItemRequest, *TripItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	status := RequestRejected
	if approve {
		status = RequestApproved
	}

	statusQuery := `
		UPDATE item_requests
		SET status = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + requestColumns

	q, err := scanRequest(tx.QueryRowContext(ctx, statusQuery, requestID, status))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, database.ErrStaleSnapshot
		}
		return nil, nil, fmt.Errorf("failed to resolve item request: %w", err)
	}

	var item *TripItem
	if approve {
		itemQuery := `
			INSERT INTO trip_items (id, trip_id, name, category, quantity_needed, notes, position)
			VALUES ($1, $2, $3, $4, $5, $6,
				(SELECT COALESCE(MAX(position), 0) + 1 FROM trip_items WHERE trip_id = $2))
			RETURNING ` + itemColumns

		item, err = scanItem(tx.QueryRowContext(ctx, itemQuery,
			uuid.NewString(), q.TripID, q.ItemName, q.Category, q.QuantityRequested, q.Notes))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to append approved item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit: %w", err)
	}

	return q, item, nil
}
