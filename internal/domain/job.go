package domain

import (
	"context"
	"time"
)

type Plan string

const (
	PlanBasic   Plan = "Basic"
	PlanPro     Plan = "Pro"
	PlanPremium Plan = "Premium"
)

type JobPost struct {
	ID           int64      `json:"id"`
	CompanyID    *int64     `json:"company_id"`
	EmployerID   string     `json:"employer"`
	Title        string     `json:"title"`
	Skills       []string   `json:"skills"`
	Duration     string     `json:"duration"`
	BudgetMin    *float64   `json:"budget_min"`
	BudgetMax    *float64   `json:"budget_max"`
	IsFixedPrice bool       `json:"is_fixed_price"`
	Location     string     `json:"location"`
	IsRemote     bool       `json:"is_remote"`
	Description  string     `json:"description"`
	Deadline     *time.Time `json:"deadline"`
	IsFilled     bool       `json:"is_filled"`
	IsActive     bool       `json:"is_active"`
	Plan         *Plan      `json:"plan"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Open reports whether the job still accepts applications.
func (j *JobPost) Open() bool {
	return j.IsActive && !j.IsFilled
}

// JobPostInput is the writable part of a job post.
type JobPostInput struct {
	CompanyID    *int64     `json:"company_id"`
	Title        string     `json:"title" binding:"required,max=255"`
	Skills       []string   `json:"skills"`
	Duration     string     `json:"duration" binding:"max=100"`
	BudgetMin    *float64   `json:"budget_min" binding:"omitempty,gte=0"`
	BudgetMax    *float64   `json:"budget_max" binding:"omitempty,gte=0"`
	IsFixedPrice *bool      `json:"is_fixed_price"`
	Location     string     `json:"location" binding:"max=255"`
	IsRemote     bool       `json:"is_remote"`
	Description  string     `json:"description"`
	Deadline     *time.Time `json:"deadline"`
	IsFilled     bool       `json:"is_filled"`
	IsActive     *bool      `json:"is_active"`
	Plan         *Plan      `json:"plan" binding:"omitempty,oneof=Basic Pro Premium"`
}

// JobRatingStats are computed from job_post_ratings at read time.
type JobRatingStats struct {
	AverageStars int `json:"average_stars"`
	RatingsCount int `json:"ratings_count"`
	UserRating   int `json:"user_rating"`
}

type VacancyRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// JobPostDetail is a job post with its derived fields.
type JobPostDetail struct {
	JobPost
	JobRatingStats
	Budget         string        `json:"budget"`
	Company        *CompanyCard  `json:"company"`
	OtherVacancies []VacancyRef  `json:"otherVacancies,omitempty"`
}

type JobFilter struct {
	Search    string
	Location  string
	SalaryMin *float64
	SalaryMax *float64
	Plan      string
	// EmployerID restricts the listing to one employer's posts.
	EmployerID string
	Limit      int
	Offset     int
}

type JobRepository interface {
	Create(ctx context.Context, job *JobPost) error
	GetByID(ctx context.Context, id int64) (*JobPost, error)
	List(ctx context.Context, filter JobFilter) ([]JobPost, int64, error)
	Update(ctx context.Context, job *JobPost) error
	Delete(ctx context.Context, id int64) error
	// RatingStats returns the live rating aggregate; viewerID may be empty.
	RatingStats(ctx context.Context, jobID int64, viewerID string) (*JobRatingStats, error)
	// RatingStatsFor loads the aggregates of many jobs in one query. Jobs without
	// ratings are absent from the map.
	RatingStatsFor(ctx context.Context, jobIDs []int64, viewerID string) (map[int64]JobRatingStats, error)
	// UpsertRating writes the viewer's stars for the job atomically.
	UpsertRating(ctx context.Context, jobID int64, userID string, stars int) error
	OpenByEmployer(ctx context.Context, employerID string, excludeID int64, limit int) ([]VacancyRef, error)
}

type JobUsecase interface {
	Create(ctx context.Context, actor Actor, input JobPostInput) (*JobPost, error)
	Get(ctx context.Context, actor Actor, id int64, baseURL string) (*JobPostDetail, error)
	List(ctx context.Context, actor Actor, filter JobFilter, baseURL string) ([]JobPostDetail, int64, error)
	Update(ctx context.Context, actor Actor, id int64, input JobPostInput) (*JobPost, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	Rate(ctx context.Context, actor Actor, jobID int64, stars int) (*JobRatingStats, error)
}
