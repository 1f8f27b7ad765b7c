package postgres

import (
	"context"

	"jobmarket-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const companyColumns = `c.id, c.owner_id, c.name, c.industry, c.website, c.location, c.logo, c.banner, c.description, c.created_at`

// companyCardSelect computes every aggregate from the related rows; $1 is the viewer id or ''.
const companyCardSelect = `SELECT ` + companyColumns + `,
        (SELECT COUNT(*) FROM company_reviews r WHERE r.company_id = c.id) AS reviews_count,
        (SELECT COUNT(*) FROM company_followers f WHERE f.company_id = c.id) AS followers_count,
        (SELECT COUNT(*) FROM job_posts j WHERE j.company_id = c.id) AS vacancies_count,
        (SELECT COUNT(*) FROM job_posts j WHERE j.company_id = c.id AND NOT j.is_filled) AS open_count,
        (SELECT COUNT(*) FROM job_posts j WHERE j.company_id = c.id AND j.is_filled) AS filled_count,
        COALESCE((SELECT AVG(r.rating)::float8 FROM company_reviews r WHERE r.company_id = c.id), 0) AS avg_rating,
        EXISTS(SELECT 1 FROM company_followers f WHERE f.company_id = c.id AND f.user_id::text = $1) AS is_following
    FROM companies c`

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Industry, &c.Website, &c.Location, &c.Logo, &c.Banner, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func scanCard(row pgx.Row) (*domain.CompanyCard, error) {
	var c domain.CompanyCard
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Industry, &c.Website, &c.Location, &c.Logo, &c.Banner, &c.Description, &c.CreatedAt,
		&c.ReviewsCount, &c.FollowersCount, &c.VacanciesCount, &c.OpenJobPostCount, &c.FilledCount, &c.AvgRating, &c.IsFollowing,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *companyRepo) cards(ctx context.Context, query string, args ...any) ([]domain.CompanyCard, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	cards := []domain.CompanyCard{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

func (r *companyRepo) Create(ctx context.Context, c *domain.Company) error {
	query := `INSERT INTO companies (owner_id, name, industry, website, location, logo, banner, description)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query,
		c.OwnerID, c.Name, c.Industry, c.Website, c.Location, c.Logo, c.Banner, c.Description,
	).Scan(&c.ID, &c.CreatedAt))
}

func (r *companyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies c WHERE c.id = $1`, id))
}

func (r *companyRepo) FirstOwnedBy(ctx context.Context, ownerID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies c WHERE c.owner_id = $1 ORDER BY c.created_at, c.id LIMIT 1`
	return scanCompany(r.db.QueryRow(ctx, query, ownerID))
}

func (r *companyRepo) FirstOwnedIDs(ctx context.Context, ownerIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT DISTINCT ON (owner_id) owner_id::text, id FROM companies
        WHERE owner_id::text = ANY($1::text[]) ORDER BY owner_id, created_at, id`, pq.Array(ownerIDs))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			owner string
			id    int64
		)
		if err := rows.Scan(&owner, &id); err != nil {
			return nil, mapErr(err)
		}
		out[owner] = id
	}
	return out, rows.Err()
}

func (r *companyRepo) Update(ctx context.Context, c *domain.Company) error {
	query := `UPDATE companies SET name = $2, industry = $3, website = $4, location = $5, banner = $6, description = $7
              WHERE id = $1`
	return affected(r.db.Exec(ctx, query, c.ID, c.Name, c.Industry, c.Website, c.Location, c.Banner, c.Description))
}

func (r *companyRepo) SetLogo(ctx context.Context, id int64, url string) error {
	return affected(r.db.Exec(ctx, `UPDATE companies SET logo = $2 WHERE id = $1`, id, url))
}

func (r *companyRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id))
}

func (r *companyRepo) GetCard(ctx context.Context, id int64, viewerID string) (*domain.CompanyCard, error) {
	return scanCard(r.db.QueryRow(ctx, companyCardSelect+` WHERE c.id = $2`, viewerID, id))
}

func (r *companyRepo) CardsByID(ctx context.Context, ids []int64, viewerID string) (map[int64]domain.CompanyCard, error) {
	out := make(map[int64]domain.CompanyCard, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cards, err := r.cards(ctx, companyCardSelect+` WHERE c.id = ANY($2::bigint[])`, viewerID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		out[c.ID] = c
	}
	return out, nil
}

// List returns every company, or only the owner's when ownerID is set.
func (r *companyRepo) List(ctx context.Context, ownerID, viewerID string) ([]domain.CompanyCard, error) {
	return r.cards(ctx, companyCardSelect+`
        WHERE ($2 = '' OR c.owner_id::text = $2)
        ORDER BY c.created_at DESC, c.id DESC`, viewerID, ownerID)
}

func (r *companyRepo) Top(ctx context.Context, limit int, viewerID string) ([]domain.CompanyCard, error) {
	return r.cards(ctx, companyCardSelect+` ORDER BY followers_count DESC, c.id ASC LIMIT $2`, viewerID, limit)
}

func (r *companyRepo) Stats(ctx context.Context, id int64, viewerID string) (*domain.CompanyStats, error) {
	query := `SELECT
                  (SELECT COUNT(*) FROM company_reviews WHERE company_id = c.id),
                  (SELECT COUNT(*) FROM company_followers WHERE company_id = c.id),
                  (SELECT COUNT(*) FROM job_posts WHERE company_id = c.id),
                  COALESCE((SELECT AVG(rating)::float8 FROM company_reviews WHERE company_id = c.id), 0),
                  (SELECT COUNT(*) FROM interview_experiences WHERE company_id = c.id),
                  (SELECT COUNT(*) FROM company_photos WHERE company_id = c.id),
                  EXISTS(SELECT 1 FROM company_followers WHERE company_id = c.id AND user_id::text = $2)
              FROM companies c WHERE c.id = $1`
	var s domain.CompanyStats
	err := r.db.QueryRow(ctx, query, id, viewerID).Scan(
		&s.ReviewsCount, &s.FollowersCount, &s.VacanciesCount, &s.AvgRating,
		&s.InterviewsCount, &s.PhotosCount, &s.IsFollowing,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (r *companyRepo) Follow(ctx context.Context, companyID int64, userID string) (bool, error) {
	query := `INSERT INTO company_followers (company_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	tag, err := r.db.Exec(ctx, query, companyID, userID)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *companyRepo) Unfollow(ctx context.Context, companyID int64, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM company_followers WHERE company_id = $1 AND user_id = $2`, companyID, userID)
	return mapErr(err)
}

func (r *companyRepo) FollowersCount(ctx context.Context, companyID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM company_followers WHERE company_id = $1`, companyID).Scan(&n)
	return n, mapErr(err)
}

func (r *companyRepo) CreateReview(ctx context.Context, rv *domain.CompanyReview) error {
	query := `WITH inserted AS (
                  INSERT INTO company_reviews (company_id, user_id, rating, text, country)
                  VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, user_id
              )
              SELECT i.id, i.created_at, a.username FROM inserted i JOIN accounts a ON a.id = i.user_id`
	return mapErr(r.db.QueryRow(ctx, query, rv.CompanyID, rv.UserID, rv.Rating, rv.Text, rv.Country).
		Scan(&rv.ID, &rv.CreatedAt, &rv.UserName))
}

func (r *companyRepo) ListReviews(ctx context.Context, companyID int64) ([]domain.CompanyReview, error) {
	return queryAll(ctx, r.db, `SELECT r.id, r.company_id, r.user_id, a.username, r.rating, r.text, r.country, r.created_at
        FROM company_reviews r JOIN accounts a ON a.id = r.user_id
        WHERE r.company_id = $1 ORDER BY r.created_at DESC, r.id DESC`,
		func(row pgx.Rows, rv *domain.CompanyReview) error {
			return row.Scan(&rv.ID, &rv.CompanyID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Text, &rv.Country, &rv.CreatedAt)
		}, companyID)
}

func (r *companyRepo) AddPhoto(ctx context.Context, p *domain.CompanyPhoto) error {
	query := `INSERT INTO company_photos (company_id, image, caption) VALUES ($1, $2, $3) RETURNING id, created_at`
	return mapErr(r.db.QueryRow(ctx, query, p.CompanyID, p.Image, p.Caption).Scan(&p.ID, &p.CreatedAt))
}

func (r *companyRepo) ListPhotos(ctx context.Context, companyID int64) ([]domain.CompanyPhoto, error) {
	return queryAll(ctx, r.db, `SELECT id, company_id, image, caption, created_at
        FROM company_photos WHERE company_id = $1 ORDER BY created_at DESC, id DESC`,
		func(row pgx.Rows, p *domain.CompanyPhoto) error {
			return row.Scan(&p.ID, &p.CompanyID, &p.Image, &p.Caption, &p.CreatedAt)
		}, companyID)
}

func (r *companyRepo) AddInterview(ctx context.Context, i *domain.InterviewExperience) error {
	query := `WITH inserted AS (
                  INSERT INTO interview_experiences (company_id, user_id, title, difficulty, text)
                  VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, user_id
              )
              SELECT i.id, i.created_at, a.username FROM inserted i JOIN accounts a ON a.id = i.user_id`
	return mapErr(r.db.QueryRow(ctx, query, i.CompanyID, i.UserID, i.Title, i.Difficulty, i.Text).
		Scan(&i.ID, &i.CreatedAt, &i.UserName))
}

func (r *companyRepo) ListInterviews(ctx context.Context, companyID int64) ([]domain.InterviewExperience, error) {
	return queryAll(ctx, r.db, `SELECT i.id, i.company_id, i.user_id, a.username, i.title, i.difficulty, i.text, i.created_at
        FROM interview_experiences i JOIN accounts a ON a.id = i.user_id
        WHERE i.company_id = $1 ORDER BY i.created_at DESC, i.id DESC`,
		func(row pgx.Rows, iv *domain.InterviewExperience) error {
			return row.Scan(&iv.ID, &iv.CompanyID, &iv.UserID, &iv.UserName, &iv.Title, &iv.Difficulty, &iv.Text, &iv.CreatedAt)
		}, companyID)
}
