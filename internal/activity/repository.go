package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository handles activity data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new activity repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const activityColumns = `id, trip_id, user_id, user_name, type, message, image_url, location, system_activity_type, related_item_id, related_item_name, likes, created_at`

func scanActivity(row interface{ Scan(...any) error }) (*PlanActivity, error) {
	a := &PlanActivity{}
	err := row.Scan(
		&a.ID,
		&a.TripID,
		&a.UserID,
		&a.UserName,
		&a.Type,
		&a.Message,
		&a.ImageURL,
		&a.Location,
		&a.SystemActivityType,
		&a.RelatedItemID,
		&a.RelatedItemName,
		pq.Array(&a.Likes),
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Append inserts a new feed entry
func (r *Repository) Append(ctx context.Context, a *PlanActivity) (*PlanActivity, error) {
	query := `
		INSERT INTO plan_activities (id, trip_id, user_id, user_name, type, message, image_url, location, system_activity_type, related_item_id, related_item_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + activityColumns

	created, err := scanActivity(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), a.TripID, a.UserID, a.UserName, a.Type,
		a.Message, a.ImageURL, a.Location, a.SystemActivityType, a.RelatedItemID, a.RelatedItemName))
	if err != nil {
		return nil, fmt.Errorf("failed to append activity: %w", err)
	}

	return created, nil
}

// GetByID retrieves a feed entry by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*PlanActivity, error) {
	query := `SELECT ` + activityColumns + ` FROM plan_activities WHERE id = $1`

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return a, nil
}

// ListByTrip retrieves a trip's feed, newest first
func (r *Repository) ListByTrip(ctx context.Context, tripID string) ([]*PlanActivity, error) {
	query := `SELECT ` + activityColumns + ` FROM plan_activities WHERE trip_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*PlanActivity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// Like adds the user to the entry's like set. The array guard makes
// repeated likes idempotent.
func (r *Repository) Like(ctx context.Context, id, userID string) (*PlanActivity, error) {
	query := `
		UPDATE plan_activities
		SET likes = array_append(likes, $2)
		WHERE id = $1 AND NOT likes @> ARRAY[$2]::text[]
		RETURNING ` + activityColumns

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return r.GetByID(ctx, id)
		}
		return nil, fmt.Errorf("failed to like activity: %w", err)
	}

	return a, nil
}

// Unlike removes the user from the entry's like set. Idempotent.
func (r *Repository) Unlike(ctx context.Context, id, userID string) (*PlanActivity, error) {
	query := `
		UPDATE plan_activities
		SET likes = array_remove(likes, $2)
		WHERE id = $1
		RETURNING ` + activityColumns

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to unlike activity: %w", err)
	}

	return a, nil
}
