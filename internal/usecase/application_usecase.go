package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/policy"
	"jobmarket-backend/internal/profile"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/logger"
	"jobmarket-backend/pkg/mq"

	"github.com/xuri/excelize/v2"
)

const (
	EventApplicationCreated       = "application.created"
	EventApplicationStatusChanged = "application.status_changed"
	EventApplicationDeleted       = "application.deleted"
)

// ApplicationEvent is the payload of every application.* event.
type ApplicationEvent struct {
	ApplicationID int64                    `json:"application_id"`
	JobPostID     int64                    `json:"job_post_id"`
	ApplicantID   string                   `json:"applicant_id"`
	EmployerID    string                   `json:"employer_id,omitempty"`
	Status        domain.ApplicationStatus `json:"status,omitempty"`
	ActorID       string                   `json:"actor_id"`
}

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	profileRepo     domain.ProfileRepository
	publisher       mq.Publisher
}

func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	profileRepo domain.ProfileRepository,
	publisher mq.Publisher,
) domain.ApplicationUsecase {
	if publisher == nil {
		publisher = mq.NoopPublisher{}
	}
	return &applicationUsecase{
		applicationRepo: appRepo,
		jobRepo:         jobRepo,
		profileRepo:     profileRepo,
		publisher:       publisher,
	}
}

// Apply creates the seeker's application for a job. A second application to
// the same job is a conflict.
func (uc *applicationUsecase) Apply(ctx context.Context, actor domain.Actor, input domain.ApplyInput) (*domain.Application, error) {
	// 1. Job seekers only
	if err := policy.Authorize(actor, policy.ApplicationApply, policy.Resource{}); err != nil {
		return nil, err
	}
	if input.JobPostID == nil || *input.JobPostID <= 0 {
		return nil, apperror.Validation("job_post is required")
	}

	// 2. Job must exist, belong to someone else and be open
	job, err := uc.jobRepo.GetByID(ctx, *input.JobPostID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Validation("Job post not found")
		}
		return nil, apperror.Internal(err)
	}
	if job.EmployerID == actor.ID {
		return nil, apperror.Conflict("You cannot apply to your own job post")
	}
	if !job.Open() {
		return nil, apperror.Validation("This job post is not accepting applications")
	}

	// 3. Pre-check; the unique constraint closes the race
	exists, err := uc.applicationRepo.Exists(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job")
	}

	app := &domain.Application{
		JobPostID:     job.ID,
		ApplicantID:   actor.ID,
		CoverLetter:   strings.TrimSpace(input.CoverLetter),
		Status:        domain.StatusApplied,
		JobTitle:      job.Title,
		JobEmployerID: job.EmployerID,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("You have already applied to this job")
		}
		return nil, apperror.Internal(err)
	}

	uc.publish(ctx, EventApplicationCreated, app, actor.ID)
	return app, nil
}

// ListForJob returns the job's applications, newest first, to the job's employer.
func (uc *applicationUsecase) ListForJob(ctx context.Context, actor domain.Actor, jobID int64, baseURL string) ([]domain.ApplicationView, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoErr(err, "Job post not found")
	}
	if err := policy.Authorize(actor, policy.ApplicationListForJob, policy.Resource{JobEmployerID: job.EmployerID}); err != nil {
		return nil, err
	}

	apps, err := uc.applicationRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return uc.views(ctx, apps, baseURL)
}

func (uc *applicationUsecase) ListForEmployer(ctx context.Context, actor domain.Actor, jobID *int64, baseURL string) ([]domain.ApplicationView, error) {
	if err := policy.Authorize(actor, policy.ApplicationListEmployer, policy.Resource{}); err != nil {
		return nil, err
	}
	apps, err := uc.applicationRepo.ListByEmployer(ctx, actor.ID, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return uc.views(ctx, apps, baseURL)
}

func (uc *applicationUsecase) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	if err := policy.Authorize(actor, policy.ApplicationListMine, policy.Resource{}); err != nil {
		return nil, err
	}
	apps, err := uc.applicationRepo.ListByApplicant(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

func (uc *applicationUsecase) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Application, error) {
	app, err := uc.load(ctx, actor, policy.ApplicationRead, id)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Cancel withdraws the seeker's own application to a job.
func (uc *applicationUsecase) Cancel(ctx context.Context, actor domain.Actor, jobID int64) error {
	if err := policy.Authorize(actor, policy.ApplicationCancel, policy.Resource{}); err != nil {
		return err
	}
	if _, err := uc.jobRepo.GetByID(ctx, jobID); err != nil {
		return repoErr(err, "Job post not found")
	}
	if err := uc.applicationRepo.DeleteByJobAndApplicant(ctx, jobID, actor.ID); err != nil {
		return repoErr(err, "Application not found")
	}

	uc.publish(ctx, EventApplicationDeleted, &domain.Application{JobPostID: jobID, ApplicantID: actor.ID}, actor.ID)
	return nil
}

// Delete is open to the applicant and to the employer who owns the job.
func (uc *applicationUsecase) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	app, err := uc.load(ctx, actor, policy.ApplicationDelete, id)
	if err != nil {
		return err
	}
	if err := uc.applicationRepo.Delete(ctx, app.ID); err != nil {
		return repoErr(err, "Application not found")
	}

	uc.publish(ctx, EventApplicationDeleted, app, actor.ID)
	return nil
}

// UpdateStatus moves an application forward. Rejected and hired are final.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("Invalid status %q", status))
	}

	app, err := uc.load(ctx, actor, policy.ApplicationUpdateStatus, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransition(status) {
		return nil, apperror.Validation(fmt.Sprintf("Cannot change status from %s to %s", app.Status, status))
	}

	if err := uc.applicationRepo.UpdateStatus(ctx, app.ID, status); err != nil {
		return nil, repoErr(err, "Application not found")
	}
	app.Status = status

	uc.publish(ctx, EventApplicationStatusChanged, app, actor.ID)
	return app, nil
}

// ViewApplicant returns the applicant's full profile to the job's employer.
func (uc *applicationUsecase) ViewApplicant(ctx context.Context, actor domain.Actor, id int64, baseURL string) (*domain.FullProfile, error) {
	app, err := uc.load(ctx, actor, policy.ApplicationViewApplicant, id)
	if err != nil {
		return nil, err
	}

	sources, err := uc.applicationRepo.LoadApplicants(ctx, []string{app.ApplicantID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	src, ok := sources[app.ApplicantID]
	if !ok || src.Account == nil {
		return nil, apperror.NotFound("Applicant not found")
	}
	collections, err := uc.profileRepo.LoadCollections(ctx, app.ApplicantID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	src.Skills = collections.Skills

	full := profile.New(baseURL).Full(profile.FromApplicant(src), collections)
	return &full, nil
}

var exportColumns = []string{"ID", "JOB", "APPLICANT", "POSITION", "SKILLS", "STATUS", "APPLIED AT", "COVER LETTER"}

// Export renders the employer's applications as an XLSX workbook.
func (uc *applicationUsecase) Export(ctx context.Context, actor domain.Actor, jobID *int64, baseURL string) ([]byte, string, error) {
	if err := policy.Authorize(actor, policy.ApplicationExport, policy.Resource{}); err != nil {
		return nil, "", err
	}
	views, err := uc.ListForEmployer(ctx, actor, jobID, baseURL)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Applications"
	f.SetSheetName("Sheet1", sheetName)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, v := range views {
		row := []interface{}{
			v.ID,
			v.Job.Title,
			v.Applicant.FullName,
			v.Applicant.Position,
			strings.Join(v.Applicant.Skills, ", "),
			string(v.Status),
			v.CreatedAt.Format(time.RFC3339),
			v.CoverLetter,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, "", apperror.Internal(err)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}
	filename := fmt.Sprintf("applications_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// load fetches an application and checks action against its two parties.
func (uc *applicationUsecase) load(ctx context.Context, actor domain.Actor, action policy.Action, id int64) (*domain.Application, error) {
	if !actor.Authenticated() {
		return nil, apperror.Unauthorized("Authentication credentials were not provided")
	}
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "Application not found")
	}
	res := policy.Resource{ApplicantID: app.ApplicantID, JobEmployerID: app.JobEmployerID}
	if err := policy.Authorize(actor, action, res); err != nil {
		return nil, err
	}
	return app, nil
}

func (uc *applicationUsecase) views(ctx context.Context, apps []domain.Application, baseURL string) ([]domain.ApplicationView, error) {
	out := make([]domain.ApplicationView, 0, len(apps))
	if len(apps) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(apps))
	seen := make(map[string]bool, len(apps))
	for _, a := range apps {
		if !seen[a.ApplicantID] {
			seen[a.ApplicantID] = true
			ids = append(ids, a.ApplicantID)
		}
	}
	sources, err := uc.applicationRepo.LoadApplicants(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	r := profile.New(baseURL)
	for _, a := range apps {
		src, ok := sources[a.ApplicantID]
		if !ok || src.Account == nil {
			src = domain.ApplicantSource{Account: &domain.Account{ID: a.ApplicantID}}
		}
		out = append(out, domain.ApplicationView{
			ID:          a.ID,
			JobPostID:   a.JobPostID,
			Job:         domain.VacancyRef{ID: a.JobPostID, Title: a.JobTitle},
			Applicant:   r.Applicant(profile.FromApplicant(src), a.CoverLetter),
			CoverLetter: a.CoverLetter,
			Status:      a.Status,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out, nil
}

// publish is fire and forget: the change is already committed.
func (uc *applicationUsecase) publish(ctx context.Context, eventType string, app *domain.Application, actorID string) {
	event := mq.Event{
		Type: eventType,
		Payload: ApplicationEvent{
			ApplicationID: app.ID,
			JobPostID:     app.JobPostID,
			ApplicantID:   app.ApplicantID,
			EmployerID:    app.JobEmployerID,
			Status:        app.Status,
			ActorID:       actorID,
		},
	}
	if err := uc.publisher.Publish(ctx, eventType, event); err != nil {
		logger.Log.Warn("failed to publish event", "type", eventType, "application_id", app.ID, "error", err)
	}
}
