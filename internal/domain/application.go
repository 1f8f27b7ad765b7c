package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "APPLIED"
	StatusShortlisted ApplicationStatus = "SHORTLISTED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusHired       ApplicationStatus = "HIRED"
)

var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:     {StatusShortlisted, StatusRejected, StatusHired},
	StatusShortlisted: {StatusRejected, StatusHired},
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusRejected, StatusHired:
		return true
	}
	return false
}

// CanTransition reports whether an employer may move an application from s to next.
// Rejected and hired are terminal.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Application struct {
	ID          int64             `json:"id"`
	JobPostID   int64             `json:"job_post"`
	ApplicantID string            `json:"applicant_id"`
	CoverLetter string            `json:"cover_letter"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`

	// Filled by repository joins
	JobTitle      string `json:"job_title,omitempty"`
	JobEmployerID string `json:"-"`
}

type ApplyInput struct {
	JobPostID   *int64 `json:"job_post"`
	CoverLetter string `json:"cover_letter"`
}

// ApplicationView is the list row shown to employers: the application plus the
// applicant flattened by the profile resolver.
type ApplicationView struct {
	ID          int64             `json:"id"`
	JobPostID   int64             `json:"job_post"`
	Job         VacancyRef        `json:"job"`
	Applicant   ApplicantMini     `json:"applicant"`
	CoverLetter string            `json:"cover_letter"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ApplicantSource carries everything the resolver needs for one applicant.
type ApplicantSource struct {
	Account *Account
	Resume  *Resume
	Skills  []Skill
}

type ApplicationRepository interface {
	// Create fails with ErrConflict when the (job, applicant) pair exists.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	Exists(ctx context.Context, jobID int64, applicantID string) (bool, error)
	ListByJob(ctx context.Context, jobID int64) ([]Application, error)
	ListByEmployer(ctx context.Context, employerID string, jobID *int64) ([]Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	UpdateStatus(ctx context.Context, id int64, status ApplicationStatus) error
	Delete(ctx context.Context, id int64) error
	// DeleteByJobAndApplicant returns ErrNotFound when nothing was deleted.
	DeleteByJobAndApplicant(ctx context.Context, jobID int64, applicantID string) error
	// LoadApplicants returns the resolver inputs keyed by account id.
	LoadApplicants(ctx context.Context, accountIDs []string) (map[string]ApplicantSource, error)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor Actor, input ApplyInput) (*Application, error)
	ListForJob(ctx context.Context, actor Actor, jobID int64, baseURL string) ([]ApplicationView, error)
	ListForEmployer(ctx context.Context, actor Actor, jobID *int64, baseURL string) ([]ApplicationView, error)
	ListMine(ctx context.Context, actor Actor) ([]Application, error)
	Get(ctx context.Context, actor Actor, id int64) (*Application, error)
	Cancel(ctx context.Context, actor Actor, jobID int64) error
	Delete(ctx context.Context, actor Actor, id int64) error
	UpdateStatus(ctx context.Context, actor Actor, id int64, status ApplicationStatus) (*Application, error)
	ViewApplicant(ctx context.Context, actor Actor, id int64, baseURL string) (*FullProfile, error)
	// Export renders the employer's applications as an XLSX workbook.
	Export(ctx context.Context, actor Actor, jobID *int64, baseURL string) ([]byte, string, error)
}
