package postgres

import (
	"context"
	"errors"
	"strings"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/profile"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// queryAll runs query and collects one T per row using scan.
func queryAll[T any](ctx context.Context, db *pgxpool.Pool, query string, scan func(pgx.Rows, *T) error, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *profileRepo) LoadCollections(ctx context.Context, userID string) (*domain.ProfileCollections, error) {
	var (
		c   domain.ProfileCollections
		err error
	)
	if c.Skills, err = r.ListSkills(ctx, userID); err != nil {
		return nil, err
	}
	if c.Languages, err = r.ListLanguages(ctx, userID); err != nil {
		return nil, err
	}
	if c.Educations, err = r.ListEducations(ctx, userID); err != nil {
		return nil, err
	}
	if c.Certificates, err = r.ListCertificates(ctx, userID); err != nil {
		return nil, err
	}
	if c.Experiences, err = r.ListExperiences(ctx, userID); err != nil {
		return nil, err
	}
	if c.PortfolioProjects, err = r.ListProjects(ctx, userID); err != nil {
		return nil, err
	}
	return &c, nil
}

// Languages

func scanLanguage(row pgx.Rows, l *domain.LanguageSkill) error {
	return row.Scan(&l.ID, &l.UserID, &l.Language, &l.Level, &l.CreatedAt)
}

func (r *profileRepo) CreateLanguage(ctx context.Context, l *domain.LanguageSkill) error {
	query := `INSERT INTO language_skills (user_id, language, level) VALUES ($1, $2, $3) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query, l.UserID, l.Language, l.Level).Scan(&l.ID, &l.CreatedAt))
}

func (r *profileRepo) ListLanguages(ctx context.Context, userID string) ([]domain.LanguageSkill, error) {
	return queryAll(ctx, r.db, `SELECT id, user_id, language, level, created_at
        FROM language_skills WHERE user_id = $1 ORDER BY id`, scanLanguage, userID)
}

func (r *profileRepo) UpdateLanguage(ctx context.Context, l *domain.LanguageSkill) error {
	query := `UPDATE language_skills SET language = $3, level = $4 WHERE id = $1 AND user_id = $2 RETURNING created_at`
	return mapErr(r.db.QueryRow(ctx, query, l.ID, l.UserID, l.Language, l.Level).Scan(&l.CreatedAt))
}

func (r *profileRepo) DeleteLanguage(ctx context.Context, userID string, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM language_skills WHERE id = $1 AND user_id = $2`, id, userID))
}

// Educations

func scanEducation(row pgx.Rows, e *domain.Education) error {
	return row.Scan(&e.ID, &e.UserID, &e.AcademyName, &e.Degree, &e.StartYear, &e.EndYear, &e.CreatedAt)
}

func (r *profileRepo) CreateEducation(ctx context.Context, e *domain.Education) error {
	query := `INSERT INTO educations (user_id, academy_name, degree, start_year, end_year)
              VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query, e.UserID, e.AcademyName, e.Degree, e.StartYear, e.EndYear).Scan(&e.ID, &e.CreatedAt))
}

func (r *profileRepo) ListEducations(ctx context.Context, userID string) ([]domain.Education, error) {
	return queryAll(ctx, r.db, `SELECT id, user_id, academy_name, degree, start_year, end_year, created_at
        FROM educations WHERE user_id = $1 ORDER BY start_year DESC, id`, scanEducation, userID)
}

func (r *profileRepo) UpdateEducation(ctx context.Context, e *domain.Education) error {
	query := `UPDATE educations SET academy_name = $3, degree = $4, start_year = $5, end_year = $6
              WHERE id = $1 AND user_id = $2 RETURNING created_at`
	return mapErr(r.db.QueryRow(ctx, query, e.ID, e.UserID, e.AcademyName, e.Degree, e.StartYear, e.EndYear).Scan(&e.CreatedAt))
}

func (r *profileRepo) DeleteEducation(ctx context.Context, userID string, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM educations WHERE id = $1 AND user_id = $2`, id, userID))
}

// Certificates

func scanCertificate(row pgx.Rows, c *domain.Certificate) error {
	return row.Scan(&c.ID, &c.UserID, &c.Name, &c.Organization, &c.IssueDate, &c.FileURL, &c.CreatedAt)
}

func (r *profileRepo) CreateCertificate(ctx context.Context, c *domain.Certificate) error {
	query := `INSERT INTO certificates (user_id, name, organization, issue_date, file_url)
              VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query, c.UserID, c.Name, c.Organization, c.IssueDate, c.FileURL).Scan(&c.ID, &c.CreatedAt))
}

func (r *profileRepo) ListCertificates(ctx context.Context, userID string) ([]domain.Certificate, error) {
	return queryAll(ctx, r.db, `SELECT id, user_id, name, organization, issue_date, file_url, created_at
        FROM certificates WHERE user_id = $1 ORDER BY issue_date DESC, id`, scanCertificate, userID)
}

func (r *profileRepo) GetCertificate(ctx context.Context, userID string, id int64) (*domain.Certificate, error) {
	var c domain.Certificate
	err := r.db.QueryRow(ctx, `SELECT id, user_id, name, organization, issue_date, file_url, created_at
        FROM certificates WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Organization, &c.IssueDate, &c.FileURL, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *profileRepo) DeleteCertificate(ctx context.Context, userID string, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM certificates WHERE id = $1 AND user_id = $2`, id, userID))
}

// Work experience

func scanExperience(row pgx.Rows, e *domain.WorkExperience) error {
	return row.Scan(&e.ID, &e.UserID, &e.CompanyName, &e.Position, &e.StartDate, &e.EndDate,
		&e.Description, &e.City, &e.Country, &e.CreatedAt)
}

func (r *profileRepo) CreateExperience(ctx context.Context, e *domain.WorkExperience) error {
	query := `INSERT INTO work_experiences (user_id, company_name, position, start_date, end_date, description, city, country)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query, e.UserID, e.CompanyName, e.Position, e.StartDate, e.EndDate,
		e.Description, e.City, e.Country).Scan(&e.ID, &e.CreatedAt))
}

func (r *profileRepo) ListExperiences(ctx context.Context, userID string) ([]domain.WorkExperience, error) {
	return queryAll(ctx, r.db, `SELECT id, user_id, company_name, position, start_date, end_date,
            description, city, country, created_at
        FROM work_experiences WHERE user_id = $1 ORDER BY start_date DESC, id`, scanExperience, userID)
}

func (r *profileRepo) UpdateExperience(ctx context.Context, e *domain.WorkExperience) error {
	query := `UPDATE work_experiences SET company_name = $3, position = $4, start_date = $5, end_date = $6,
                  description = $7, city = $8, country = $9
              WHERE id = $1 AND user_id = $2 RETURNING created_at`
	return mapErr(r.db.QueryRow(ctx, query, e.ID, e.UserID, e.CompanyName, e.Position, e.StartDate, e.EndDate,
		e.Description, e.City, e.Country).Scan(&e.CreatedAt))
}

func (r *profileRepo) DeleteExperience(ctx context.Context, userID string, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM work_experiences WHERE id = $1 AND user_id = $2`, id, userID))
}

// Portfolio

func scanProject(row pgx.Rows, p *domain.PortfolioProject) error {
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Skills, &p.CreatedAt); err != nil {
		return err
	}
	p.SkillsList = profile.SplitSkills(p.Skills)
	p.Media = []domain.PortfolioMedia{}
	return nil
}

func (r *profileRepo) CreateProject(ctx context.Context, p *domain.PortfolioProject) error {
	query := `INSERT INTO portfolio_projects (user_id, title, description, skills)
              VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, query, p.UserID, p.Title, p.Description, p.Skills).Scan(&p.ID, &p.CreatedAt); err != nil {
		return mapErr(err)
	}
	p.SkillsList = profile.SplitSkills(p.Skills)
	if p.Media == nil {
		p.Media = []domain.PortfolioMedia{}
	}
	return nil
}

// ListProjects loads the projects and their media in two queries.
func (r *profileRepo) ListProjects(ctx context.Context, userID string) ([]domain.PortfolioProject, error) {
	projects, err := queryAll(ctx, r.db, `SELECT id, user_id, title, description, skills, created_at
        FROM portfolio_projects WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, scanProject, userID)
	if err != nil || len(projects) == 0 {
		return projects, err
	}

	media, err := queryAll(ctx, r.db, `SELECT m.id, m.project_id, m.file_url, m.file_type, m.created_at
        FROM portfolio_media m JOIN portfolio_projects p ON p.id = m.project_id
        WHERE p.user_id = $1 ORDER BY m.id`, scanMedia, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(projects))
	for i, p := range projects {
		index[p.ID] = i
	}
	for _, m := range media {
		if i, ok := index[m.ProjectID]; ok {
			projects[i].Media = append(projects[i].Media, m)
		}
	}
	return projects, nil
}

func (r *profileRepo) GetProject(ctx context.Context, userID string, id int64) (*domain.PortfolioProject, error) {
	var p domain.PortfolioProject
	err := r.db.QueryRow(ctx, `SELECT id, user_id, title, description, skills, created_at
        FROM portfolio_projects WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Skills, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	p.SkillsList = profile.SplitSkills(p.Skills)

	p.Media, err = queryAll(ctx, r.db, `SELECT id, project_id, file_url, file_type, created_at
        FROM portfolio_media WHERE project_id = $1 ORDER BY id`, scanMedia, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) UpdateProject(ctx context.Context, p *domain.PortfolioProject) error {
	query := `UPDATE portfolio_projects SET title = $3, description = $4, skills = $5
              WHERE id = $1 AND user_id = $2 RETURNING created_at`
	if err := r.db.QueryRow(ctx, query, p.ID, p.UserID, p.Title, p.Description, p.Skills).Scan(&p.CreatedAt); err != nil {
		return mapErr(err)
	}
	p.SkillsList = profile.SplitSkills(p.Skills)
	return nil
}

func (r *profileRepo) DeleteProject(ctx context.Context, userID string, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM portfolio_projects WHERE id = $1 AND user_id = $2`, id, userID))
}

func scanMedia(row pgx.Rows, m *domain.PortfolioMedia) error {
	return row.Scan(&m.ID, &m.ProjectID, &m.FileURL, &m.FileType, &m.CreatedAt)
}

func (r *profileRepo) AddMedia(ctx context.Context, m *domain.PortfolioMedia) error {
	query := `INSERT INTO portfolio_media (project_id, file_url, file_type) VALUES ($1, $2, $3) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query, m.ProjectID, m.FileURL, m.FileType).Scan(&m.ID, &m.CreatedAt))
}

func (r *profileRepo) GetMedia(ctx context.Context, userID string, mediaID int64) (*domain.PortfolioMedia, error) {
	var m domain.PortfolioMedia
	err := r.db.QueryRow(ctx, `SELECT m.id, m.project_id, m.file_url, m.file_type, m.created_at
        FROM portfolio_media m JOIN portfolio_projects p ON p.id = m.project_id
        WHERE m.id = $1 AND p.user_id = $2`, mediaID, userID).
		Scan(&m.ID, &m.ProjectID, &m.FileURL, &m.FileType, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *profileRepo) DeleteMedia(ctx context.Context, userID string, mediaID int64) error {
	query := `DELETE FROM portfolio_media m USING portfolio_projects p
              WHERE m.project_id = p.id AND m.id = $1 AND p.user_id = $2`
	return affected(r.db.Exec(ctx, query, mediaID, userID))
}

// Skills

func scanSkill(row pgx.Rows, s *domain.Skill) error {
	return row.Scan(&s.ID, &s.UserID, &s.Name)
}

func (r *profileRepo) ListSkills(ctx context.Context, userID string) ([]domain.Skill, error) {
	return queryAll(ctx, r.db, `SELECT id, user_id, name FROM skills WHERE user_id = $1 ORDER BY id`, scanSkill, userID)
}

// CreateSkills relies on the (user_id, lower(name)) unique index; names that
// already exist are skipped and not returned.
func (r *profileRepo) CreateSkills(ctx context.Context, userID string, names []string) ([]domain.Skill, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := []domain.Skill{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s := domain.Skill{UserID: userID, Name: name}
		err := tx.QueryRow(ctx, `INSERT INTO skills (user_id, name) VALUES ($1, $2)
            ON CONFLICT (user_id, LOWER(name)) DO NOTHING RETURNING id`, userID, name).Scan(&s.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, mapErr(err)
		}
		created = append(created, s)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *profileRepo) RenameSkill(ctx context.Context, userID string, id int64, name string) (*domain.Skill, error) {
	s := domain.Skill{ID: id, UserID: userID}
	err := r.db.QueryRow(ctx, `UPDATE skills SET name = $3 WHERE id = $1 AND user_id = $2 RETURNING name`,
		id, userID, name).Scan(&s.Name)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *profileRepo) DeleteSkill(ctx context.Context, userID string, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1 AND user_id = $2`, id, userID))
}

// UpsertSkillAnswer only accepts skills owned by the same user.
func (r *profileRepo) UpsertSkillAnswer(ctx context.Context, a *domain.SkillAnswer) error {
	query := `INSERT INTO skill_answers (user_id, skill_id, answer)
              SELECT $1, s.id, $3 FROM skills s WHERE s.id = $2 AND s.user_id = $1
              ON CONFLICT (user_id, skill_id) DO UPDATE SET answer = EXCLUDED.answer
              RETURNING id`
	if err := r.db.QueryRow(ctx, query, a.UserID, a.SkillID, a.Answer).Scan(&a.ID); err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *profileRepo) ListSkillAnswers(ctx context.Context, userID string) ([]domain.SkillAnswer, error) {
	return queryAll(ctx, r.db, `SELECT a.id, a.user_id, a.skill_id, s.name, a.answer
        FROM skill_answers a JOIN skills s ON s.id = a.skill_id
        WHERE a.user_id = $1 ORDER BY a.id`,
		func(row pgx.Rows, a *domain.SkillAnswer) error {
			return row.Scan(&a.ID, &a.UserID, &a.SkillID, &a.SkillName, &a.Answer)
		}, userID)
}
