package data

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates the books table and its owner index when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS books (
	id         uuid        PRIMARY KEY DEFAULT gen_random_uuid(),
	title      text        NOT NULL,
	author     text        NOT NULL,
	status     text        NOT NULL DEFAULT 'reading'
	                       CHECK (status IN ('reading', 'completed', 'wishlist')),
	user_id    uuid        NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS books_user_id_created_at_idx
	ON books (user_id, created_at DESC);
`

// EnsureSchema applies Schema. It is safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply books schema: %w", err)
	}
	return nil
}
