package domain

import (
	"context"
	"time"
)

// Resume is the secondary profile object of an account. Several may exist;
// the most recently updated one is the account's current resume.
type Resume struct {
	ID              int64            `json:"id"`
	UserID          string           `json:"user_id"`
	Title           string           `json:"title" binding:"required,max=255"`
	FullName        string           `json:"full_name" binding:"max=255"`
	Email           string           `json:"email" binding:"omitempty,email"`
	Phone           string           `json:"phone" binding:"max=50"`
	Location        string           `json:"location" binding:"max=255"`
	BirthDate       *time.Time       `json:"birth_date"`
	Photo           string           `json:"photo"`
	DesiredPosition string           `json:"desired_position" binding:"max=255"`
	ExperienceLevel string           `json:"experience_level" binding:"omitempty,oneof=junior middle senior lead"`
	EmploymentType  string           `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract intern temporary"`
	WorkFormat      string           `json:"work_format" binding:"omitempty,oneof=onsite remote hybrid"`
	DesiredSalary   *int64           `json:"desired_salary" binding:"omitempty,gte=0"`
	Currency        string           `json:"currency"`
	Summary         string           `json:"summary"`
	Headline        string           `json:"headline" binding:"max=255"`
	Skills          []string         `json:"skills"`
	// SkillsText is the legacy free-text skills column ("Go, Rust Python").
	SkillsText     string           `json:"skills_text"`
	Languages      []map[string]any `json:"languages"`
	Links          []map[string]any `json:"links"`
	Experience     []map[string]any `json:"experience"`
	Education      []map[string]any `json:"education"`
	Certifications []map[string]any `json:"certifications"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type ResumeRepository interface {
	Create(ctx context.Context, r *Resume) error
	GetByID(ctx context.Context, id int64) (*Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	// Latest returns the user's most recently updated resume or ErrNotFound.
	Latest(ctx context.Context, userID string) (*Resume, error)
	Update(ctx context.Context, r *Resume) error
	Delete(ctx context.Context, id int64) error
}
