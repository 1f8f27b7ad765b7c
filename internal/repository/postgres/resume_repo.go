package postgres

import (
	"context"

	"jobmarket-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resumeColumns = `id, user_id, title, full_name, email, phone, location, birth_date, photo,
	desired_position, experience_level, employment_type, work_format, desired_salary, currency,
	summary, headline, skills, skills_text, languages, links, experience, education, certifications,
	is_active, created_at, updated_at`

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

func scanResume(row pgx.Row) (*domain.Resume, error) {
	var r domain.Resume
	err := row.Scan(
		&r.ID, &r.UserID, &r.Title, &r.FullName, &r.Email, &r.Phone, &r.Location, &r.BirthDate, &r.Photo,
		&r.DesiredPosition, &r.ExperienceLevel, &r.EmploymentType, &r.WorkFormat, &r.DesiredSalary, &r.Currency,
		&r.Summary, &r.Headline, &r.Skills, &r.SkillsText, &r.Languages, &r.Links, &r.Experience, &r.Education, &r.Certifications,
		&r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

// jsonList keeps JSONB columns as [] instead of null.
func jsonList(v []map[string]any) []map[string]any {
	if v == nil {
		return []map[string]any{}
	}
	return v
}

func stringList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (r *resumeRepo) Create(ctx context.Context, res *domain.Resume) error {
	query := `INSERT INTO resumes (user_id, title, full_name, email, phone, location, birth_date, photo,
                  desired_position, experience_level, employment_type, work_format, desired_salary, currency,
                  summary, headline, skills, skills_text, languages, links, experience, education, certifications, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		res.UserID, res.Title, res.FullName, res.Email, res.Phone, res.Location, res.BirthDate, res.Photo,
		res.DesiredPosition, res.ExperienceLevel, res.EmploymentType, res.WorkFormat, res.DesiredSalary, res.Currency,
		res.Summary, res.Headline, stringList(res.Skills), res.SkillsText, jsonList(res.Languages), jsonList(res.Links),
		jsonList(res.Experience), jsonList(res.Education), jsonList(res.Certifications), res.IsActive,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	return mapErr(err)
}

func (r *resumeRepo) GetByID(ctx context.Context, id int64) (*domain.Resume, error) {
	return scanResume(r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
}

func (r *resumeRepo) ListByUser(ctx context.Context, userID string) ([]domain.Resume, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	resumes := []domain.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *res)
	}
	return resumes, rows.Err()
}

func (r *resumeRepo) Latest(ctx context.Context, userID string) (*domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC, id DESC LIMIT 1`
	return scanResume(r.db.QueryRow(ctx, query, userID))
}

func (r *resumeRepo) Update(ctx context.Context, res *domain.Resume) error {
	query := `UPDATE resumes SET
                  title = $2, full_name = $3, email = $4, phone = $5, location = $6, birth_date = $7, photo = $8,
                  desired_position = $9, experience_level = $10, employment_type = $11, work_format = $12,
                  desired_salary = $13, currency = $14, summary = $15, headline = $16, skills = $17, skills_text = $18,
                  languages = $19, links = $20, experience = $21, education = $22, certifications = $23,
                  is_active = $24, updated_at = NOW()
              WHERE id = $1
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query, res.ID,
		res.Title, res.FullName, res.Email, res.Phone, res.Location, res.BirthDate, res.Photo,
		res.DesiredPosition, res.ExperienceLevel, res.EmploymentType, res.WorkFormat,
		res.DesiredSalary, res.Currency, res.Summary, res.Headline, stringList(res.Skills), res.SkillsText,
		jsonList(res.Languages), jsonList(res.Links), jsonList(res.Experience), jsonList(res.Education), jsonList(res.Certifications),
		res.IsActive,
	).Scan(&res.UpdatedAt)
	return mapErr(err)
}

func (r *resumeRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id))
}
