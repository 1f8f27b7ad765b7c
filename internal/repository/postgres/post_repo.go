package postgres

import (
	"context"

	"jobmarket-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postSelect joins the author and computes the live like count; $1 is the viewer id or ''.
const postSelect = `SELECT p.id, p.author_id, p.content, p.image, p.created_at, p.updated_at,
        p.comments_count, p.shares_count,
        (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
        EXISTS(SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id::text = $1),
        ` + accountColumnsA + `
    FROM posts p
    JOIN accounts a ON a.id = p.author_id`

const accountColumnsA = `a.id, a.username, a.email, a.password_hash, a.first_name, a.last_name, a.role,
	a.is_email_verified, a.profile_image, a.title, a.about_me, a.latitude, a.longitude,
	a.work_hours_per_week, a.salary_usd::float8, a.is_active, a.date_joined`

type postRepo struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) domain.PostRepository {
	return &postRepo{db: db}
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		p domain.Post
		a domain.Account
	)
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Content, &p.Image, &p.CreatedAt, &p.UpdatedAt,
		&p.CommentsCount, &p.SharesCount, &p.LikesCount, &p.IsLiked,
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.Role,
		&a.IsEmailVerified, &a.ProfileImage, &a.Title, &a.AboutMe, &a.Latitude, &a.Longitude,
		&a.WorkHoursPerWeek, &a.SalaryUSD, &a.IsActive, &a.DateJoined,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	p.AuthorAccount = &a
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, p *domain.Post) error {
	query := `INSERT INTO posts (author_id, content, image) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	return mapErr(r.db.QueryRow(ctx, query, p.AuthorID, p.Content, p.Image).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *postRepo) Get(ctx context.Context, id int64, viewerID string) (*domain.Post, error) {
	return scanPost(r.db.QueryRow(ctx, postSelect+` WHERE p.id = $2`, viewerID, id))
}

func (r *postRepo) List(ctx context.Context, filter domain.PostFilter, viewerID string) ([]domain.Post, error) {
	query := postSelect + `
        WHERE ($2 = '' OR p.author_id::text = $2)
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, viewerID, filter.AuthorID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Update sets content and, when image is non-nil, the image.
func (r *postRepo) Update(ctx context.Context, id int64, content string, image *string) error {
	query := `UPDATE posts SET content = $2, image = COALESCE($3, image), updated_at = NOW() WHERE id = $1`
	return affected(r.db.Exec(ctx, query, id, content, image))
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id))
}

// ToggleLike removes the like when present and inserts it otherwise. The
// returned count is read inside the same transaction.
func (r *postRepo) ToggleLike(ctx context.Context, postID int64, userID string) (*domain.LikeState, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. Lock the post row so concurrent toggles by the same user serialize
	if err := lockPost(ctx, tx, postID); err != nil {
		return nil, err
	}

	// 2. Flip membership
	var state domain.LikeState
	tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID); err != nil {
			return nil, mapErr(err)
		}
		state.Liked = true
	}

	// 3. Live count
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&state.LikesCount); err != nil {
		return nil, mapErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *postRepo) IncrementShares(ctx context.Context, postID int64) (int, error) {
	var shares int
	err := r.db.QueryRow(ctx, `UPDATE posts SET shares_count = shares_count + 1 WHERE id = $1 RETURNING shares_count`, postID).Scan(&shares)
	return shares, mapErr(err)
}

// lockPost takes the post row lock. Comment writers must hold it before they
// touch comments so the recount statement that follows sees every committed row.
func lockPost(ctx context.Context, tx pgx.Tx, postID int64) error {
	var id int64
	return mapErr(tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&id))
}

// recountComments stores the live comment count on the post. The caller holds lockPost.
func recountComments(ctx context.Context, tx pgx.Tx, postID int64) error {
	query := `UPDATE posts SET comments_count = (SELECT COUNT(*) FROM comments WHERE post_id = $1) WHERE id = $1`
	return affected(tx.Exec(ctx, query, postID))
}

func (r *postRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockPost(ctx, tx, c.PostID); err != nil {
		return err
	}

	query := `WITH inserted AS (
                  INSERT INTO comments (post_id, author_id, content) VALUES ($1, $2, $3)
                  RETURNING id, created_at, author_id
              )
              SELECT i.id, i.created_at, a.username FROM inserted i JOIN accounts a ON a.id = i.author_id`
	if err := tx.QueryRow(ctx, query, c.PostID, c.AuthorID, c.Content).Scan(&c.ID, &c.CreatedAt, &c.AuthorName); err != nil {
		return mapErr(err)
	}
	if err := recountComments(ctx, tx, c.PostID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postRepo) GetComment(ctx context.Context, postID, commentID int64) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.QueryRow(ctx, `SELECT c.id, c.post_id, c.author_id, a.username, c.content, c.created_at
        FROM comments c JOIN accounts a ON a.id = c.author_id
        WHERE c.id = $1 AND c.post_id = $2`, commentID, postID).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *postRepo) UpdateComment(ctx context.Context, commentID int64, content string) error {
	return affected(r.db.Exec(ctx, `UPDATE comments SET content = $2 WHERE id = $1`, commentID, content))
}

func (r *postRepo) DeleteComment(ctx context.Context, postID, commentID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockPost(ctx, tx, postID); err != nil {
		return err
	}
	if err := affected(tx.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND post_id = $2`, commentID, postID)); err != nil {
		return err
	}
	if err := recountComments(ctx, tx, postID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return queryAll(ctx, r.db, `SELECT c.id, c.post_id, c.author_id, a.username, c.content, c.created_at
        FROM comments c JOIN accounts a ON a.id = c.author_id
        WHERE c.post_id = $1 ORDER BY c.created_at DESC, c.id DESC`,
		func(row pgx.Rows, c *domain.Comment) error {
			return row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt)
		}, postID)
}
