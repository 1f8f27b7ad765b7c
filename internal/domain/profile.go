package domain

import (
	"context"
	"time"
)

type LanguageSkill struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"-"`
	Language  string    `json:"language" binding:"required,max=50"`
	Level     string    `json:"level" binding:"required,max=50"`
	CreatedAt time.Time `json:"created_at"`
}

type Education struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	AcademyName string    `json:"academy_name" binding:"required,max=255"`
	Degree      string    `json:"degree" binding:"required,max=255"`
	StartYear   int       `json:"start_year" binding:"required,gte=1900,lte=2100"`
	EndYear     int       `json:"end_year" binding:"required,gtefield=StartYear,lte=2100"`
	CreatedAt   time.Time `json:"created_at"`
}

type Certificate struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"-"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	IssueDate    time.Time `json:"issue_date"`
	FileURL      string    `json:"file_url"`
	CreatedAt    time.Time `json:"created_at"`
}

type WorkExperience struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"-"`
	CompanyName string     `json:"company_name" binding:"required,max=255"`
	Position    string     `json:"position" binding:"required,max=255"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description"`
	City        string     `json:"city" binding:"max=100"`
	Country     string     `json:"country" binding:"max=100"`
	CreatedAt   time.Time  `json:"created_at"`
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaText  MediaType = "text"
	MediaLink  MediaType = "link"
	MediaFile  MediaType = "file"
	MediaAudio MediaType = "audio"
)

type PortfolioMedia struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	FileURL   string    `json:"file_url"`
	FileType  MediaType `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}

type PortfolioProject struct {
	ID          int64  `json:"id"`
	UserID      string `json:"-"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	// Skills is stored comma separated; SkillsList is derived on read.
	Skills     string           `json:"skills" binding:"max=255"`
	SkillsList []string         `json:"skills_list"`
	Media      []PortfolioMedia `json:"media_files"`
	CreatedAt  time.Time        `json:"created_at"`
}

type Skill struct {
	ID     int64  `json:"id"`
	UserID string `json:"-"`
	Name   string `json:"name"`
}

type SkillAnswerValue string

const (
	AnswerYes  SkillAnswerValue = "yes"
	AnswerNo   SkillAnswerValue = "no"
	AnswerSkip SkillAnswerValue = "skip"
)

func (v SkillAnswerValue) Valid() bool {
	return v == AnswerYes || v == AnswerNo || v == AnswerSkip
}

type SkillAnswer struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"-"`
	SkillID   int64            `json:"skill_id"`
	SkillName string           `json:"skill_name,omitempty"`
	Answer    SkillAnswerValue `json:"answer"`
}

// ProfileCollections bundles every owned collection of an account, loaded eagerly.
type ProfileCollections struct {
	Skills            []Skill
	Languages         []LanguageSkill
	Educations        []Education
	Certificates      []Certificate
	Experiences       []WorkExperience
	PortfolioProjects []PortfolioProject
}

// ProfileRepository stores the per-account collections. Every mutating method is
// scoped by userID so that a row of another account is reported as ErrNotFound.
type ProfileRepository interface {
	LoadCollections(ctx context.Context, userID string) (*ProfileCollections, error)
	ListSkills(ctx context.Context, userID string) ([]Skill, error)

	CreateLanguage(ctx context.Context, l *LanguageSkill) error
	ListLanguages(ctx context.Context, userID string) ([]LanguageSkill, error)
	UpdateLanguage(ctx context.Context, l *LanguageSkill) error
	DeleteLanguage(ctx context.Context, userID string, id int64) error

	CreateEducation(ctx context.Context, e *Education) error
	ListEducations(ctx context.Context, userID string) ([]Education, error)
	UpdateEducation(ctx context.Context, e *Education) error
	DeleteEducation(ctx context.Context, userID string, id int64) error

	CreateCertificate(ctx context.Context, c *Certificate) error
	ListCertificates(ctx context.Context, userID string) ([]Certificate, error)
	GetCertificate(ctx context.Context, userID string, id int64) (*Certificate, error)
	DeleteCertificate(ctx context.Context, userID string, id int64) error

	CreateExperience(ctx context.Context, e *WorkExperience) error
	ListExperiences(ctx context.Context, userID string) ([]WorkExperience, error)
	UpdateExperience(ctx context.Context, e *WorkExperience) error
	DeleteExperience(ctx context.Context, userID string, id int64) error

	CreateProject(ctx context.Context, p *PortfolioProject) error
	ListProjects(ctx context.Context, userID string) ([]PortfolioProject, error)
	GetProject(ctx context.Context, userID string, id int64) (*PortfolioProject, error)
	UpdateProject(ctx context.Context, p *PortfolioProject) error
	DeleteProject(ctx context.Context, userID string, id int64) error
	AddMedia(ctx context.Context, m *PortfolioMedia) error
	GetMedia(ctx context.Context, userID string, mediaID int64) (*PortfolioMedia, error)
	DeleteMedia(ctx context.Context, userID string, mediaID int64) error

	// CreateSkills inserts the names not yet present for the user and returns only the new rows.
	CreateSkills(ctx context.Context, userID string, names []string) ([]Skill, error)
	RenameSkill(ctx context.Context, userID string, id int64, name string) (*Skill, error)
	DeleteSkill(ctx context.Context, userID string, id int64) error

	// UpsertSkillAnswer writes the answer for (user, skill) atomically.
	UpsertSkillAnswer(ctx context.Context, a *SkillAnswer) error
	ListSkillAnswers(ctx context.Context, userID string) ([]SkillAnswer, error)
}

// Upload is an uploaded file handed from the HTTP layer to a usecase.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
