package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"

	"jobmarket-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const jobColumns = `id, company_id, employer_id, title, skills, duration, budget_min::float8, budget_max::float8,
	is_fixed_price, location, is_remote, description, deadline, is_filled, is_active, plan, created_at`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row pgx.Row) (*domain.JobPost, error) {
	var j domain.JobPost
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.EmployerID, &j.Title, &j.Skills, &j.Duration, &j.BudgetMin, &j.BudgetMax,
		&j.IsFixedPrice, &j.Location, &j.IsRemote, &j.Description, &j.Deadline, &j.IsFilled, &j.IsActive, &j.Plan, &j.CreatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, j *domain.JobPost) error {
	query := `INSERT INTO job_posts (company_id, employer_id, title, skills, duration, budget_min, budget_max,
                  is_fixed_price, location, is_remote, description, deadline, is_filled, is_active, plan)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		j.CompanyID, j.EmployerID, j.Title, stringList(j.Skills), j.Duration, j.BudgetMin, j.BudgetMax,
		j.IsFixedPrice, j.Location, j.IsRemote, j.Description, j.Deadline, j.IsFilled, j.IsActive, j.Plan,
	).Scan(&j.ID, &j.CreatedAt)
	return mapErr(err)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.JobPost, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM job_posts WHERE id = $1`, id))
}

// List returns only posts with both budget bounds set, newest first.
func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.JobPost, int64, error) {
	conditions := []string{"budget_min IS NOT NULL", "budget_max IS NOT NULL"}
	args := []any{}
	argIndex := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", argIndex))
		args = append(args, filter.Search)
		argIndex++
	}
	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(location) = LOWER($%d)", argIndex))
		args = append(args, filter.Location)
		argIndex++
	}
	if filter.SalaryMin != nil {
		conditions = append(conditions, fmt.Sprintf("budget_min >= $%d", argIndex))
		args = append(args, *filter.SalaryMin)
		argIndex++
	}
	if filter.SalaryMax != nil {
		conditions = append(conditions, fmt.Sprintf("budget_max <= $%d", argIndex))
		args = append(args, *filter.SalaryMax)
		argIndex++
	}
	if filter.Plan != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(plan) = LOWER($%d)", argIndex))
		args = append(args, filter.Plan)
		argIndex++
	}
	if filter.EmployerID != "" {
		conditions = append(conditions, fmt.Sprintf("employer_id = $%d", argIndex))
		args = append(args, filter.EmployerID)
		argIndex++
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM job_posts%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, argIndex, argIndex+1)
	rows, err := r.db.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	jobs := []domain.JobPost{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, j *domain.JobPost) error {
	query := `UPDATE job_posts SET company_id = $2, title = $3, skills = $4, duration = $5, budget_min = $6,
                  budget_max = $7, is_fixed_price = $8, location = $9, is_remote = $10, description = $11,
                  deadline = $12, is_filled = $13, is_active = $14, plan = $15
              WHERE id = $1`
	return affected(r.db.Exec(ctx, query, j.ID,
		j.CompanyID, j.Title, stringList(j.Skills), j.Duration, j.BudgetMin,
		j.BudgetMax, j.IsFixedPrice, j.Location, j.IsRemote, j.Description,
		j.Deadline, j.IsFilled, j.IsActive, j.Plan,
	))
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM job_posts WHERE id = $1`, id))
}

// RatingStats rounds the average half to even.
func (r *jobRepo) RatingStats(ctx context.Context, jobID int64, viewerID string) (*domain.JobRatingStats, error) {
	query := `SELECT
                  COALESCE(ROUND(AVG(stars)::numeric, 6), 0)::float8,
                  COUNT(*),
                  COALESCE(MAX(stars) FILTER (WHERE user_id::text = $2), 0)
              FROM job_post_ratings WHERE job_post_id = $1`
	var (
		avg   float64
		stats domain.JobRatingStats
	)
	if err := r.db.QueryRow(ctx, query, jobID, viewerID).Scan(&avg, &stats.RatingsCount, &stats.UserRating); err != nil {
		return nil, mapErr(err)
	}
	stats.AverageStars = roundHalfEven(avg)
	return &stats, nil
}

func (r *jobRepo) RatingStatsFor(ctx context.Context, jobIDs []int64, viewerID string) (map[int64]domain.JobRatingStats, error) {
	out := make(map[int64]domain.JobRatingStats, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}

	query := `SELECT job_post_id,
                  COALESCE(ROUND(AVG(stars)::numeric, 6), 0)::float8,
                  COUNT(*),
                  COALESCE(MAX(stars) FILTER (WHERE user_id::text = $2), 0)
              FROM job_post_ratings WHERE job_post_id = ANY($1::bigint[])
              GROUP BY job_post_id`
	rows, err := r.db.Query(ctx, query, pq.Array(jobIDs), viewerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			avg   float64
			stats domain.JobRatingStats
		)
		if err := rows.Scan(&id, &avg, &stats.RatingsCount, &stats.UserRating); err != nil {
			return nil, mapErr(err)
		}
		stats.AverageStars = roundHalfEven(avg)
		out[id] = stats
	}
	return out, rows.Err()
}

func (r *jobRepo) UpsertRating(ctx context.Context, jobID int64, userID string, stars int) error {
	query := `INSERT INTO job_post_ratings (job_post_id, user_id, stars) VALUES ($1, $2, $3)
              ON CONFLICT (job_post_id, user_id) DO UPDATE SET stars = EXCLUDED.stars`
	_, err := r.db.Exec(ctx, query, jobID, userID, stars)
	return mapErr(err)
}

func (r *jobRepo) OpenByEmployer(ctx context.Context, employerID string, excludeID int64, limit int) ([]domain.VacancyRef, error) {
	query := `SELECT id, title FROM job_posts
              WHERE employer_id = $1 AND id <> $2 AND is_active AND NOT is_filled
              ORDER BY created_at DESC, id DESC LIMIT $3`
	rows, err := r.db.Query(ctx, query, employerID, excludeID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	refs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.VacancyRef])
	if err != nil {
		return nil, mapErr(err)
	}
	return refs, nil
}

func roundHalfEven(v float64) int {
	return int(math.RoundToEven(v))
}
