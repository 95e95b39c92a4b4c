package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bulkmates/bulkmates-api/internal/database"
)

// Repository handles notification data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const notificationColumns = `id, type, title, message, recipient_user_id, sender_user_id, sender_name, related_id, is_read, status, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*Notification, error) {
	n := &Notification{}
	err := row.Scan(
		&n.ID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.RecipientUserID,
		&n.SenderUserID,
		&n.SenderName,
		&n.RelatedID,
		&n.IsRead,
		&n.Status,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts a new notification
func (r *Repository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	query := `
		INSERT INTO notifications (id, type, title, message, recipient_user_id, sender_user_id, sender_name, related_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + notificationColumns

	status := n.Status
	if status == "" {
		status = StatusPending
	}

	created, err := scanNotification(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), n.Type, n.Title, n.Message, n.RecipientUserID, n.SenderUserID, n.SenderName, n.RelatedID, status))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return created, nil
}

// GetByID retrieves a notification by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return n, nil
}

// ListByRecipient retrieves a user's notifications, newest first
func (r *Repository) ListByRecipient(ctx context.Context, userID string) ([]*Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// UnreadCount returns how many of a user's notifications are unread
func (r *Repository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_user_id = $1 AND is_read = false`

	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead flags one notification as read
func (r *Repository) MarkAsRead(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllAsRead flags all of a user's notifications as read
func (r *Repository) MarkAllAsRead(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE recipient_user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Respond resolves a pending invitation. The status update is conditional
// on the invitation still being pending; a terminal invitation surfaces
// ErrStaleSnapshot. Accepting a group invitation also joins the recipient
// to the group and clears their invited-email entry, all in one
// transaction so no partial acceptance is ever observable.
func (r *Repository) Respond(ctx context.Context, id string, accept bool, recipientEmail string) (*Notification, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	status := StatusRejected
	if accept {
		status = StatusAccepted
	}

	statusQuery := `
		UPDATE notifications
		SET status = $2, is_read = true
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + notificationColumns

	n, err := scanNotification(tx.QueryRowContext(ctx, statusQuery, id, status))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrStaleSnapshot
		}
		return nil, fmt.Errorf("failed to respond to notification: %w", err)
	}

	if accept && n.Type == TypeGroupInvitation {
		memberQuery := `
			UPDATE groups
			SET members = array_append(members, $2),
			    invited_emails = array_remove(invited_emails, $3)
			WHERE id = $1 AND NOT members @> ARRAY[$2]::text[]
		`
		if _, err := tx.ExecContext(ctx, memberQuery, n.RelatedID, n.RecipientUserID, recipientEmail); err != nil {
			return nil, fmt.Errorf("failed to join group on acceptance: %w", err)
		}
	}

	if accept && n.Type == TypeTripInvitation {
		participantQuery := `
			UPDATE trips
			SET participants = array_append(participants, $2),
			    viewer_ids = array_append(viewer_ids, $2)
			WHERE id = $1 AND NOT participants @> ARRAY[$2]::text[]
		`
		if _, err := tx.ExecContext(ctx, participantQuery, n.RelatedID, n.RecipientUserID); err != nil {
			return nil, fmt.Errorf("failed to join trip on acceptance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return n, nil
}
