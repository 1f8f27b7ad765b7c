package domain

import (
	"context"
	"time"
)

// AuthorRef is the compact author block embedded in posts.
type AuthorRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

type Post struct {
	ID            int64     `json:"id"`
	AuthorID      string    `json:"-"`
	AuthorAccount *Account  `json:"-"`
	Author        AuthorRef `json:"author"`
	Content       string    `json:"content"`
	Image         string    `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	SharesCount   int       `json:"shares_count"`
	IsLiked       bool      `json:"is_liked"`
	IsOwner       bool      `json:"is_owner"`
}

type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post"`
	AuthorID   string    `json:"author"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type LikeState struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type PostFilter struct {
	AuthorID string
	Limit    int
	Offset   int
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	// Get loads the post with live likes count and the viewer flags; viewerID may be empty.
	Get(ctx context.Context, id int64, viewerID string) (*Post, error)
	List(ctx context.Context, filter PostFilter, viewerID string) ([]Post, error)
	Update(ctx context.Context, id int64, content string, image *string) error
	Delete(ctx context.Context, id int64) error
	// ToggleLike flips the (post, user) membership and returns the new state.
	ToggleLike(ctx context.Context, postID int64, userID string) (*LikeState, error)
	// IncrementShares adds one to shares_count in place and returns the new value.
	IncrementShares(ctx context.Context, postID int64) (int, error)

	// AddComment and DeleteComment recompute the post's comments_count from
	// the comment rows in the same transaction.
	AddComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, postID, commentID int64) (*Comment, error)
	UpdateComment(ctx context.Context, commentID int64, content string) error
	DeleteComment(ctx context.Context, postID, commentID int64) error
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
}

type PostInput struct {
	Content string `json:"content" form:"content"`
}

type CommunityUsecase interface {
	CreatePost(ctx context.Context, actor Actor, content string, image *Upload, baseURL string) (*Post, error)
	GetPost(ctx context.Context, actor Actor, id int64, baseURL string) (*Post, error)
	ListPosts(ctx context.Context, actor Actor, filter PostFilter, baseURL string) ([]Post, error)
	UpdatePost(ctx context.Context, actor Actor, id int64, content *string, image *Upload, baseURL string) (*Post, error)
	DeletePost(ctx context.Context, actor Actor, id int64) error
	ToggleLike(ctx context.Context, actor Actor, id int64) (*LikeState, error)
	SharePost(ctx context.Context, actor Actor, id int64) (int, error)

	AddComment(ctx context.Context, actor Actor, postID int64, content string) (*Comment, error)
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
	UpdateComment(ctx context.Context, actor Actor, postID, commentID int64, content string) (*Comment, error)
	DeleteComment(ctx context.Context, actor Actor, postID, commentID int64) error
}
