package postgres

import (
	"context"

	"jobmarket-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const applicationSelect = `SELECT a.id, a.job_post_id, a.applicant_id, a.cover_letter, a.status, a.created_at,
        j.title, j.employer_id
    FROM job_applications a
    JOIN job_posts j ON j.id = a.job_post_id`

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(&a.ID, &a.JobPostID, &a.ApplicantID, &a.CoverLetter, &a.Status, &a.CreatedAt,
		&a.JobTitle, &a.JobEmployerID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *applicationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) Create(ctx context.Context, a *domain.Application) error {
	query := `INSERT INTO job_applications (job_post_id, applicant_id, cover_letter, status)
              VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query, a.JobPostID, a.ApplicantID, a.CoverLetter, a.Status).Scan(&a.ID, &a.CreatedAt))
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (r *applicationRepo) Exists(ctx context.Context, jobID int64, applicantID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM job_applications WHERE job_post_id = $1 AND applicant_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, applicantID).Scan(&exists)
	return exists, mapErr(err)
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.job_post_id = $1 ORDER BY a.created_at DESC, a.id DESC`, jobID)
}

func (r *applicationRepo) ListByEmployer(ctx context.Context, employerID string, jobID *int64) ([]domain.Application, error) {
	return r.list(ctx, applicationSelect+`
        WHERE j.employer_id = $1 AND ($2::bigint IS NULL OR a.job_post_id = $2)
        ORDER BY a.created_at DESC, a.id DESC`, employerID, jobID)
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.applicant_id = $1 ORDER BY a.created_at DESC, a.id DESC`, applicantID)
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	return affected(r.db.Exec(ctx, `UPDATE job_applications SET status = $2 WHERE id = $1`, id, status))
}

func (r *applicationRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id))
}

func (r *applicationRepo) DeleteByJobAndApplicant(ctx context.Context, jobID int64, applicantID string) error {
	query := `DELETE FROM job_applications WHERE job_post_id = $1 AND applicant_id = $2`
	return affected(r.db.Exec(ctx, query, jobID, applicantID))
}

// LoadApplicants fetches accounts, their latest resume and their skills in
// three queries regardless of how many applicants there are.
func (r *applicationRepo) LoadApplicants(ctx context.Context, accountIDs []string) (map[string]domain.ApplicantSource, error) {
	out := make(map[string]domain.ApplicantSource, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}

	// 1. Accounts
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id::text = ANY($1::text[])`, pq.Array(accountIDs))
	if err != nil {
		return nil, mapErr(err)
	}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out[a.ID] = domain.ApplicantSource{Account: a}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. Latest resume per account
	rows, err = r.db.Query(ctx, `SELECT DISTINCT ON (user_id) `+resumeColumns+` FROM resumes
        WHERE user_id::text = ANY($1::text[]) ORDER BY user_id, updated_at DESC, id DESC`, pq.Array(accountIDs))
	if err != nil {
		return nil, mapErr(err)
	}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		src := out[res.UserID]
		src.Resume = res
		out[res.UserID] = src
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 3. Skills
	rows, err = r.db.Query(ctx, `SELECT id, user_id, name FROM skills WHERE user_id::text = ANY($1::text[]) ORDER BY id`, pq.Array(accountIDs))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name); err != nil {
			return nil, mapErr(err)
		}
		src := out[s.UserID]
		src.Skills = append(src.Skills, s)
		out[s.UserID] = src
	}
	return out, rows.Err()
}
