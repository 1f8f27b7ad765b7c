package postgres

import (
	"context"
	"strings"

	"jobmarket-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, username, email, password_hash, first_name, last_name, role,
	is_email_verified, profile_image, title, about_me, latitude, longitude,
	work_hours_per_week, salary_usd::float8, is_active, date_joined`

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &accountRepo{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.Role,
		&a.IsEmailVerified, &a.ProfileImage, &a.Title, &a.AboutMe, &a.Latitude, &a.Longitude,
		&a.WorkHoursPerWeek, &a.SalaryUSD, &a.IsActive, &a.DateJoined,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, username, email, password_hash, first_name, last_name, role,
                  is_email_verified, is_active, date_joined)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Role,
		a.IsEmailVerified, a.IsActive, a.DateJoined,
	)
	return mapErr(err)
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(r.db.QueryRow(ctx, query, username))
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return scanAccount(r.db.QueryRow(ctx, query, email))
}

func (r *accountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	return exists, mapErr(err)
}

func (r *accountRepo) EmailTakenByOther(ctx context.Context, email, accountID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1) AND id <> $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email, accountID).Scan(&exists)
	return exists, mapErr(err)
}

func (r *accountRepo) SetEmail(ctx context.Context, accountID, email string) error {
	return affected(r.db.Exec(ctx, `UPDATE accounts SET email = $2 WHERE id = $1`, accountID, email))
}

func (r *accountRepo) SetRole(ctx context.Context, accountID string, role domain.Role) error {
	return affected(r.db.Exec(ctx, `UPDATE accounts SET role = $2 WHERE id = $1`, accountID, role))
}

func (r *accountRepo) SetPassword(ctx context.Context, accountID, passwordHash string) error {
	return affected(r.db.Exec(ctx, `UPDATE accounts SET password_hash = $2 WHERE id = $1`, accountID, passwordHash))
}

// UpdateFields writes only the non-nil columns and returns the updated row.
func (r *accountRepo) UpdateFields(ctx context.Context, accountID string, f domain.AccountFields) (*domain.Account, error) {
	query := `UPDATE accounts SET
                  title = COALESCE($2, title),
                  about_me = COALESCE($3, about_me),
                  work_hours_per_week = COALESCE($4, work_hours_per_week),
                  salary_usd = COALESCE($5, salary_usd),
                  latitude = COALESCE($6, latitude),
                  longitude = COALESCE($7, longitude),
                  profile_image = COALESCE($8, profile_image)
              WHERE id = $1
              RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRow(ctx, query, accountID,
		f.Title, f.AboutMe, f.WorkHoursPerWeek, f.SalaryUSD, f.Latitude, f.Longitude, f.ProfileImage,
	))
}

// Search matches username, first and last name case-insensitively. A query of
// two or more words is also tried as "first last" and "last first".
func (r *accountRepo) Search(ctx context.Context, query string, limit int) ([]domain.Account, error) {
	query = strings.TrimSpace(query)
	var first, last string
	if words := strings.Fields(query); len(words) >= 2 {
		first, last = words[0], strings.Join(words[1:], " ")
	}

	sql := `SELECT ` + accountColumns + ` FROM accounts
            WHERE is_active
              AND (username ILIKE '%' || $1 || '%'
                   OR first_name ILIKE '%' || $1 || '%'
                   OR last_name ILIKE '%' || $1 || '%'
                   OR ($2 <> '' AND first_name ILIKE '%' || $2 || '%' AND last_name ILIKE '%' || $3 || '%')
                   OR ($2 <> '' AND first_name ILIKE '%' || $3 || '%' AND last_name ILIKE '%' || $2 || '%'))
            ORDER BY username
            LIMIT $4`
	rows, err := r.db.Query(ctx, sql, query, first, last, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}
