package postgres

import (
	"context"

	"jobmarket-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type verificationRepo struct {
	db *pgxpool.Pool
}

func NewVerificationRepository(db *pgxpool.Pool) domain.VerificationRepository {
	return &verificationRepo{db: db}
}

func (r *verificationRepo) Upsert(ctx context.Context, accountID, code string) error {
	query := `INSERT INTO email_verification_codes (account_id, code, created_at)
              VALUES ($1, $2, NOW())
              ON CONFLICT (account_id) DO UPDATE SET code = EXCLUDED.code, created_at = EXCLUDED.created_at`
	_, err := r.db.Exec(ctx, query, accountID, code)
	return mapErr(err)
}

// Consume deletes the code and marks the email verified atomically, so a code
// can be redeemed once.
func (r *verificationRepo) Consume(ctx context.Context, accountID, code string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// 1. Delete the pair; zero rows means wrong or already used code
	tag, err := tx.Exec(ctx, `DELETE FROM email_verification_codes WHERE account_id = $1 AND code = $2`, accountID, code)
	if err := affected(tag, err); err != nil {
		return err
	}

	// 2. Mark the account
	if err := affected(tx.Exec(ctx, `UPDATE accounts SET is_email_verified = TRUE WHERE id = $1`, accountID)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
