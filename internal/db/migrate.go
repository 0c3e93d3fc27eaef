package db

import (
	"context"
	"database/sql"
)

const subscribersMigration = `
CREATE TABLE IF NOT EXISTS subscribers (
    email text PRIMARY KEY,
    telegram_id bigint,
    invite_link text NOT NULL DEFAULT '',
    active_products jsonb NOT NULL DEFAULT '[]',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);
`

// RunSubscribersMigration creates the subscribers table. Emails are stored
// already normalized (lowercase, trimmed), so the primary key needs no
// LOWER() index.
func RunSubscribersMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, subscribersMigration)
	return err
}
