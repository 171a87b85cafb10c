package database

import (
	"context"
	"database/sql"

	"github.com/fieldline/lead-relay/internal/entity"
)

// ReviewRepository is the durable needs-review outbox. Schema:
//
//	CREATE TABLE review_queue (
//	    id            UUID PRIMARY KEY,
//	    reason        TEXT NOT NULL,
//	    customer_name TEXT NOT NULL,
//	    amount        NUMERIC(12,2) NOT NULL,
//	    payment_date  DATE NOT NULL,
//	    invoice_no    TEXT,
//	    resolved      BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type ReviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Save(ctx context.Context, entry *entity.ReviewEntry) error {
	query := `
		INSERT INTO review_queue (id, reason, customer_name, amount, payment_date, invoice_no, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		entry.ID,
		entry.Reason,
		entry.CustomerName,
		entry.Amount.String(),
		entry.PaymentDate,
		nullString(entry.InvoiceNo),
	).Scan(&entry.CreatedAt)
}

func (r *ReviewRepository) ListOpen(ctx context.Context, limit int) ([]*entity.ReviewEntry, error) {
	query := `
		SELECT id, reason, customer_name, amount, payment_date, COALESCE(invoice_no, ''), resolved, created_at
		FROM review_queue
		WHERE NOT resolved
		ORDER BY created_at
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entity.ReviewEntry
	for rows.Next() {
		entry := &entity.ReviewEntry{}
		var amount string
		if err := rows.Scan(
			&entry.ID,
			&entry.Reason,
			&entry.CustomerName,
			&amount,
			&entry.PaymentDate,
			&entry.InvoiceNo,
			&entry.Resolved,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := entry.Amount.Scan(amount); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *ReviewRepository) Resolve(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE review_queue SET resolved = TRUE WHERE id = $1`, id)
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ entity.ReviewRepositoryInterface = (*ReviewRepository)(nil)
