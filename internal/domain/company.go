package domain

import (
	"context"
	"time"
)

// Company is owned by exactly one account. Aggregates live on CompanyCard and
// are always computed from related rows when read.
type Company struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	Logo        string    `json:"logo"`
	Banner      string    `json:"banner"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CompanyInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Industry    string `json:"industry" binding:"max=255"`
	Website     string `json:"website" binding:"omitempty,url"`
	Location    string `json:"location" binding:"max=255"`
	Description string `json:"description"`
}

// CompanyCard is a company with its live aggregates.
type CompanyCard struct {
	Company
	ReviewsCount     int     `json:"reviews_count"`
	FollowersCount   int     `json:"followers_count"`
	VacanciesCount   int     `json:"vacancies_count"`
	OpenJobPostCount int     `json:"open_jobpost_count"`
	FilledCount      int     `json:"-"`
	AvgRating        float64 `json:"avg_rating"`
	HireRate         string  `json:"hire_rate"`
	IsFollowing      bool    `json:"is_following"`
}

type CompanyStats struct {
	ReviewsCount    int     `json:"reviews_count"`
	FollowersCount  int     `json:"followers_count"`
	VacanciesCount  int     `json:"vacancies_count"`
	AvgRating       float64 `json:"avg_rating"`
	InterviewsCount int     `json:"interviews_count"`
	PhotosCount     int     `json:"photos_count"`
	IsFollowing     bool    `json:"is_following"`
}

type FollowState struct {
	// Created is set when this call inserted the follow row.
	Created        bool `json:"-"`
	Followed       bool `json:"followed"`
	IsFollowing    bool `json:"is_following"`
	FollowersCount int  `json:"followers_count"`
}

type CompanyReview struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company"`
	UserID    string    `json:"user"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Text    string `json:"text"`
	Country string `json:"country" binding:"max=120"`
}

type CompanyPhoto struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type InterviewExperience struct {
	ID         int64     `json:"id"`
	CompanyID  int64     `json:"company"`
	UserID     string    `json:"user"`
	UserName   string    `json:"user_name"`
	Title      string    `json:"title"`
	Difficulty int       `json:"difficulty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type InterviewInput struct {
	Title      string `json:"title" binding:"required,max=255"`
	Difficulty int    `json:"difficulty" binding:"omitempty,min=1,max=5"`
	Text       string `json:"text" binding:"required"`
}

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id int64) (*Company, error)
	// FirstOwnedBy returns the oldest company owned by the account, or ErrNotFound.
	FirstOwnedBy(ctx context.Context, ownerID string) (*Company, error)
	// FirstOwnedIDs maps each owner to the id of their oldest company; owners
	// without a company are absent.
	FirstOwnedIDs(ctx context.Context, ownerIDs []string) (map[string]int64, error)
	Update(ctx context.Context, c *Company) error
	SetLogo(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error

	// GetCard, List and Top compute aggregates at read time; viewerID may be empty.
	GetCard(ctx context.Context, id int64, viewerID string) (*CompanyCard, error)
	CardsByID(ctx context.Context, ids []int64, viewerID string) (map[int64]CompanyCard, error)
	List(ctx context.Context, ownerID, viewerID string) ([]CompanyCard, error)
	Top(ctx context.Context, limit int, viewerID string) ([]CompanyCard, error)
	Stats(ctx context.Context, id int64, viewerID string) (*CompanyStats, error)

	// Follow inserts the membership if absent and reports whether a row was created.
	Follow(ctx context.Context, companyID int64, userID string) (bool, error)
	Unfollow(ctx context.Context, companyID int64, userID string) error
	FollowersCount(ctx context.Context, companyID int64) (int, error)

	// CreateReview fails with ErrConflict when the user already reviewed the company.
	CreateReview(ctx context.Context, r *CompanyReview) error
	ListReviews(ctx context.Context, companyID int64) ([]CompanyReview, error)
	AddPhoto(ctx context.Context, p *CompanyPhoto) error
	ListPhotos(ctx context.Context, companyID int64) ([]CompanyPhoto, error)
	AddInterview(ctx context.Context, i *InterviewExperience) error
	ListInterviews(ctx context.Context, companyID int64) ([]InterviewExperience, error)
}

type CompanyUsecase interface {
	Create(ctx context.Context, actor Actor, input CompanyInput) (*CompanyCard, error)
	Get(ctx context.Context, actor Actor, id int64, baseURL string) (*CompanyCard, error)
	List(ctx context.Context, actor Actor, mine bool, baseURL string) ([]CompanyCard, error)
	Update(ctx context.Context, actor Actor, id int64, input CompanyInput) (*CompanyCard, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	UploadLogo(ctx context.Context, actor Actor, id int64, file Upload) (*CompanyCard, error)

	Follow(ctx context.Context, actor Actor, id int64) (*FollowState, error)
	Unfollow(ctx context.Context, actor Actor, id int64) (*FollowState, error)
	Stats(ctx context.Context, actor Actor, id int64) (*CompanyStats, error)
	Top(ctx context.Context, actor Actor, limit int, baseURL string) ([]CompanyCard, error)

	ListReviews(ctx context.Context, id int64) ([]CompanyReview, error)
	SubmitReview(ctx context.Context, actor Actor, id int64, input ReviewInput) (*CompanyReview, error)
	ListPhotos(ctx context.Context, id int64, baseURL string) ([]CompanyPhoto, error)
	AddPhoto(ctx context.Context, actor Actor, id int64, caption string, file Upload) (*CompanyPhoto, error)
	ListInterviews(ctx context.Context, id int64) ([]InterviewExperience, error)
	AddInterview(ctx context.Context, actor Actor, id int64, input InterviewInput) (*InterviewExperience, error)
}
