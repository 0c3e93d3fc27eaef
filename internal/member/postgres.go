package member

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/db"
)

// PostgresStore is the durable record store. Update serializes per email
// with a row lock (SELECT ... FOR UPDATE) held for the duration of the
// mutator, so concurrent claims for one subscriber queue up while other
// emails proceed on their own rows.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, email string) (*Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx, `
		SELECT telegram_id, invite_link, active_products
		FROM subscribers
		WHERE email = $1
	`, email))
}

func (s *PostgresStore) Update(ctx context.Context, email string, fn UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("member: begin tx: %w", err)
	}
	defer tx.Rollback()

	// FOR UPDATE on a missing row locks nothing, so two first-time events
	// for one email could each see "no record" and overwrite each other.
	// Inserting a stub first gives every Update a row to contend on;
	// RETURNING distinguishes "we created it" (treated as no record, and
	// rolled back if fn declines to persist) from "it already existed".
	var stub bool
	err = tx.QueryRowContext(ctx, `
		INSERT INTO subscribers (email) VALUES ($1)
		ON CONFLICT (email) DO NOTHING
		RETURNING email
	`, email).Scan(new(string))
	switch {
	case err == nil:
		stub = true
	case errors.Is(err, sql.ErrNoRows):
	default:
		return fmt.Errorf("member: lock row for %s: %w", email, err)
	}

	var current *Record
	if !stub {
		current, err = scanRecord(tx.QueryRowContext(ctx, `
			SELECT telegram_id, invite_link, active_products
			FROM subscribers
			WHERE email = $1
			FOR UPDATE
		`, email))
		if err != nil {
			return err
		}
	}

	updated, err := fn(current)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	products, err := json.Marshal(updated.ActiveProducts)
	if err != nil {
		return fmt.Errorf("member: marshal products: %w", err)
	}

	var telegramID sql.NullInt64
	if updated.TelegramID != nil {
		telegramID = sql.NullInt64{Int64: *updated.TelegramID, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscribers (email, telegram_id, invite_link, active_products)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			telegram_id = EXCLUDED.telegram_id,
			invite_link = EXCLUDED.invite_link,
			active_products = EXCLUDED.active_products,
			updated_at = NOW()
	`, email, telegramID, updated.InviteLink, products)
	if err != nil {
		return fmt.Errorf("member: upsert %s: %w", email, err)
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		telegramID sql.NullInt64
		inviteLink string
		products   []byte
	)

	err := row.Scan(&telegramID, &inviteLink, &products)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("member: load record: %w", err)
	}

	rec := &Record{InviteLink: inviteLink}
	if telegramID.Valid {
		rec.TelegramID = &telegramID.Int64
	}
	if err := json.Unmarshal(products, &rec.ActiveProducts); err != nil {
		return nil, fmt.Errorf("member: decode products: %w", err)
	}
	return rec, nil
}
