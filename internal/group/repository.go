package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const groupColumns = `id, name, description, members, invited_emails, icon, admin_id, is_active, invite_code, created_at`

func scanGroup(row interface{ Scan(...any) error }) (*Group, error) {
	g := &Group{}
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		pq.Array(&g.Members),
		pq.Array(&g.InvitedEmails),
		&g.Icon,
		&g.AdminID,
		&g.IsActive,
		&g.InviteCode,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, name, description, icon, adminID, inviteCode string) (*Group, error) {
	query := `
		INSERT INTO groups (id, name, description, members, invited_emails, icon, admin_id, is_active, invite_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)
		RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), name, description, pq.Array([]string{adminID}), pq.Array([]string{}), icon, adminID, inviteCode))
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return g, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return g, nil
}

// GetByInviteCode retrieves an active group by its invite code
func (r *Repository) GetByInviteCode(ctx context.Context, code string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE invite_code = $1 AND is_active = true`

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group by invite code: %w", err)
	}

	return g, nil
}

// ListByUserID retrieves all active groups the user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE members @> ARRAY[$1]::text[] AND is_active = true
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// Update modifies an existing group
func (r *Repository) Update(ctx context.Context, id string, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    icon = COALESCE($4, icon)
		WHERE id = $1
		RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.Icon))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return g, nil
}

// Deactivate soft-deletes a group
func (r *Repository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE groups SET is_active = false WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("group not found")
	}

	return nil
}

// AddMember appends the user to the member list. The guard on the array
// makes the operation idempotent under concurrent joins.
func (r *Repository) AddMember(ctx context.Context, groupID, userID string) (*Group, error) {
	query := `
		UPDATE groups
		SET members = array_append(members, $2)
		WHERE id = $1 AND NOT members @> ARRAY[$2]::text[]
		RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, groupID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			// Already a member, return the current state.
			return r.GetByID(ctx, groupID)
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return g, nil
}

// RemoveMember drops the user from the member list
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID string) (*Group, error) {
	query := `
		UPDATE groups
		SET members = array_remove(members, $2)
		WHERE id = $1
		RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, groupID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	return g, nil
}

// AddInvitedEmail records an outstanding email invitation on the group
func (r *Repository) AddInvitedEmail(ctx context.Context, groupID, email string) (*Group, error) {
	query := `
		UPDATE groups
		SET invited_emails = array_append(invited_emails, $2)
		WHERE id = $1 AND NOT invited_emails @> ARRAY[$2]::text[]
		RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, groupID, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return r.GetByID(ctx, groupID)
		}
		return nil, fmt.Errorf("failed to add invited email: %w", err)
	}

	return g, nil
}

// RemoveInvitedEmail clears an email invitation, typically after acceptance
func (r *Repository) RemoveInvitedEmail(ctx context.Context, groupID, email string) error {
	query := `UPDATE groups SET invited_emails = array_remove(invited_emails, $2) WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, groupID, email); err != nil {
		return fmt.Errorf("failed to remove invited email: %w", err)
	}

	return nil
}
