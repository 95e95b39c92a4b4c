package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// RunMigrations creates the schema if it does not exist yet. Statements are
// idempotent so the server can run them on every start.
func RunMigrations(db *sql.DB) error {
	slog.Info("Running database migrations")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar_url    TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			members        TEXT[] NOT NULL DEFAULT '{}',
			invited_emails TEXT[] NOT NULL DEFAULT '{}',
			icon           TEXT NOT NULL DEFAULT '',
			admin_id       TEXT NOT NULL REFERENCES users(id),
			is_active      BOOLEAN NOT NULL DEFAULT TRUE,
			invite_code    TEXT NOT NULL UNIQUE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trips (
			id             TEXT PRIMARY KEY,
			group_id       TEXT NOT NULL REFERENCES groups(id),
			creator_id     TEXT NOT NULL REFERENCES users(id),
			shopper_id     TEXT NOT NULL REFERENCES users(id),
			name           TEXT NOT NULL,
			trip_type      TEXT NOT NULL DEFAULT 'shopping',
			store          TEXT NOT NULL DEFAULT 'other',
			scheduled_date TIMESTAMPTZ NOT NULL,
			status         TEXT NOT NULL DEFAULT 'planned',
			participants   TEXT[] NOT NULL DEFAULT '{}',
			admin_ids      TEXT[] NOT NULL DEFAULT '{}',
			viewer_ids     TEXT[] NOT NULL DEFAULT '{}',
			notes          TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trip_items (
			id                   TEXT PRIMARY KEY,
			trip_id              TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			name                 TEXT NOT NULL,
			category             TEXT NOT NULL DEFAULT 'other',
			quantity_needed      INTEGER NOT NULL CHECK (quantity_needed > 0),
			estimated_unit_price DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (estimated_unit_price >= 0),
			notes                TEXT,
			is_completed         BOOLEAN NOT NULL DEFAULT FALSE,
			position             INTEGER NOT NULL DEFAULT 0,
			created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS item_claims (
			id               TEXT PRIMARY KEY,
			trip_id          TEXT NOT NULL REFERENCES trips(id),
			item_id          TEXT NOT NULL REFERENCES trip_items(id),
			claimer_user_id  TEXT NOT NULL REFERENCES users(id),
			quantity_claimed INTEGER NOT NULL CHECK (quantity_claimed > 0),
			status           TEXT NOT NULL DEFAULT 'pending',
			claimed_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			completed_at     TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS item_requests (
			id                 TEXT PRIMARY KEY,
			trip_id            TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			requester_user_id  TEXT NOT NULL REFERENCES users(id),
			item_name          TEXT NOT NULL,
			quantity_requested INTEGER NOT NULL CHECK (quantity_requested > 0),
			category           TEXT NOT NULL DEFAULT 'other',
			notes              TEXT,
			status             TEXT NOT NULL DEFAULT 'pending',
			requested_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS item_deliveries (
			id                TEXT PRIMARY KEY,
			trip_id           TEXT NOT NULL REFERENCES trips(id),
			claim_id          TEXT NOT NULL UNIQUE REFERENCES item_claims(id),
			item_id           TEXT NOT NULL REFERENCES trip_items(id),
			receiver_user_id  TEXT NOT NULL REFERENCES users(id),
			deliverer_user_id TEXT NOT NULL REFERENCES users(id),
			is_delivered      BOOLEAN NOT NULL DEFAULT FALSE,
			delivered_at      TIMESTAMPTZ,
			confirmation_note TEXT,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id             TEXT PRIMARY KEY,
			trip_id        TEXT NOT NULL REFERENCES trips(id),
			from_user_id   TEXT NOT NULL REFERENCES users(id),
			to_user_id     TEXT NOT NULL REFERENCES users(id),
			item_points    DOUBLE PRECISION NOT NULL DEFAULT 0,
			item_claim_ids TEXT[] NOT NULL DEFAULT '{}',
			status         TEXT NOT NULL DEFAULT 'pending',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			settled_at     TIMESTAMPTZ,
			notes          TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id                TEXT PRIMARY KEY,
			type              TEXT NOT NULL,
			title             TEXT NOT NULL,
			message           TEXT NOT NULL,
			recipient_user_id TEXT NOT NULL REFERENCES users(id),
			sender_user_id    TEXT NOT NULL REFERENCES users(id),
			sender_name       TEXT NOT NULL DEFAULT '',
			related_id        TEXT NOT NULL,
			is_read           BOOLEAN NOT NULL DEFAULT FALSE,
			status            TEXT NOT NULL DEFAULT 'pending',
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS plan_activities (
			id                   TEXT PRIMARY KEY,
			trip_id              TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			user_id              TEXT NOT NULL REFERENCES users(id),
			user_name            TEXT NOT NULL DEFAULT '',
			type                 TEXT NOT NULL,
			message              TEXT,
			image_url            TEXT,
			location             TEXT,
			system_activity_type TEXT,
			related_item_id      TEXT,
			related_item_name    TEXT,
			likes                TEXT[] NOT NULL DEFAULT '{}',
			created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_group_id ON trips(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trip_items_trip_id ON trip_items(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_item_claims_trip_id ON item_claims(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_item_claims_item_id ON item_claims(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_item_deliveries_trip_id ON item_deliveries(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_trip_id ON transactions(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_from_user ON transactions(from_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_to_user ON transactions(to_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_plan_activities_trip ON plan_activities(trip_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	slog.Info("Database migrations completed")
	return nil
}
