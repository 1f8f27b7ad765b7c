package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/policy"
	"jobmarket-backend/internal/profile"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/logger"
)

const (
	defaultPageSize   = 20
	maxPageSize       = 100
	otherVacancyLimit = 5
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
}

func NewJobUsecase(jobRepo domain.JobRepository, companyRepo domain.CompanyRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo, companyRepo: companyRepo}
}

func (uc *jobUsecase) Create(ctx context.Context, actor domain.Actor, input domain.JobPostInput) (*domain.JobPost, error) {
	// 1. Employers only
	if err := policy.Authorize(actor, policy.JobCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	// 2. Payload and linked company
	if err := uc.checkInput(ctx, actor, input); err != nil {
		return nil, err
	}

	job := &domain.JobPost{EmployerID: actor.ID, IsActive: true, IsFixedPrice: true}
	applyJobInput(job, input)

	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (uc *jobUsecase) Get(ctx context.Context, actor domain.Actor, id int64, baseURL string) (*domain.JobPostDetail, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "Job post not found")
	}
	if err := policy.Authorize(actor, policy.JobRead, policy.Resource{OwnerID: job.EmployerID}); err != nil {
		return nil, err
	}

	detail, err := uc.detail(ctx, actor, job, baseURL)
	if err != nil {
		return nil, err
	}
	others, err := uc.jobRepo.OpenByEmployer(ctx, job.EmployerID, job.ID, otherVacancyLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	detail.OtherVacancies = others
	return detail, nil
}

// List returns jobs that carry a budget range, filtered by the query.
func (uc *jobUsecase) List(ctx context.Context, actor domain.Actor, filter domain.JobFilter, baseURL string) ([]domain.JobPostDetail, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Location = strings.TrimSpace(filter.Location)

	jobs, total, err := uc.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}

	out, err := uc.details(ctx, actor, jobs, baseURL)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (uc *jobUsecase) Update(ctx context.Context, actor domain.Actor, id int64, input domain.JobPostInput) (*domain.JobPost, error) {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "Job post not found")
	}
	if err := policy.Authorize(actor, policy.JobUpdate, policy.Resource{OwnerID: job.EmployerID}); err != nil {
		return nil, err
	}
	if err := uc.checkInput(ctx, actor, input); err != nil {
		return nil, err
	}

	applyJobInput(job, input)
	if err := uc.jobRepo.Update(ctx, job); err != nil {
		return nil, repoErr(err, "Job post not found")
	}
	return job, nil
}

func (uc *jobUsecase) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return repoErr(err, "Job post not found")
	}
	if err := policy.Authorize(actor, policy.JobDelete, policy.Resource{OwnerID: job.EmployerID}); err != nil {
		return err
	}
	if err := uc.jobRepo.Delete(ctx, id); err != nil {
		return repoErr(err, "Job post not found")
	}
	return nil
}

// Rate stores the caller's 1..5 stars for the job, replacing an earlier rating.
func (uc *jobUsecase) Rate(ctx context.Context, actor domain.Actor, jobID int64, stars int) (*domain.JobRatingStats, error) {
	if err := policy.Authorize(actor, policy.JobRate, policy.Resource{}); err != nil {
		return nil, err
	}
	if stars < 1 || stars > 5 {
		return nil, apperror.Validation("Stars must be between 1 and 5")
	}
	if _, err := uc.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, repoErr(err, "Job post not found")
	}

	if err := uc.jobRepo.UpsertRating(ctx, jobID, actor.ID, stars); err != nil {
		return nil, apperror.Internal(err)
	}
	stats, err := uc.jobRepo.RatingStats(ctx, jobID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stats, nil
}

func (uc *jobUsecase) checkInput(ctx context.Context, actor domain.Actor, input domain.JobPostInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperror.Validation("Title is required")
	}
	if input.BudgetMin != nil && input.BudgetMax != nil && *input.BudgetMin > *input.BudgetMax {
		return apperror.Validation("budget_min cannot be greater than budget_max")
	}
	if input.CompanyID == nil {
		return nil
	}
	company, err := uc.companyRepo.GetByID(ctx, *input.CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.Validation("Company not found")
		}
		return apperror.Internal(err)
	}
	return policy.Authorize(actor, policy.CompanyUpdate, policy.Resource{OwnerID: company.OwnerID})
}

func applyJobInput(job *domain.JobPost, in domain.JobPostInput) {
	job.CompanyID = in.CompanyID
	job.Title = strings.TrimSpace(in.Title)
	job.Skills = dropEmpty(in.Skills)
	job.Duration = in.Duration
	job.BudgetMin = in.BudgetMin
	job.BudgetMax = in.BudgetMax
	if in.IsFixedPrice != nil {
		job.IsFixedPrice = *in.IsFixedPrice
	}
	job.Location = strings.TrimSpace(in.Location)
	job.IsRemote = in.IsRemote
	job.Description = in.Description
	job.Deadline = in.Deadline
	job.IsFilled = in.IsFilled
	if in.IsActive != nil {
		job.IsActive = *in.IsActive
	}
	job.Plan = in.Plan
}

// detail adds the rating aggregate, budget label and employer company.
func (uc *jobUsecase) detail(ctx context.Context, actor domain.Actor, job *domain.JobPost, baseURL string) (*domain.JobPostDetail, error) {
	stats, err := uc.jobRepo.RatingStats(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	d := &domain.JobPostDetail{
		JobPost:        *job,
		JobRatingStats: *stats,
		Budget:         BudgetLabel(job.BudgetMin, job.BudgetMax),
	}

	var company *domain.Company
	if job.CompanyID != nil {
		company, err = uc.companyRepo.GetByID(ctx, *job.CompanyID)
	} else {
		company, err = uc.companyRepo.FirstOwnedBy(ctx, job.EmployerID)
	}
	switch {
	case err == nil:
		card, err := uc.companyRepo.GetCard(ctx, company.ID, actor.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		finishCard(card, profile.New(baseURL))
		d.Company = card
	case errors.Is(err, domain.ErrNotFound):
	default:
		logger.Log.Warn("failed to load job company", "job_id", job.ID, "error", err)
	}
	return d, nil
}

// details decorates a page of jobs with batched lookups, so the number of
// queries does not grow with the page size.
func (uc *jobUsecase) details(ctx context.Context, actor domain.Actor, jobs []domain.JobPost, baseURL string) ([]domain.JobPostDetail, error) {
	out := make([]domain.JobPostDetail, 0, len(jobs))
	if len(jobs) == 0 {
		return out, nil
	}

	// 1. Rating aggregates
	jobIDs := make([]int64, 0, len(jobs))
	for _, job := range jobs {
		jobIDs = append(jobIDs, job.ID)
	}
	stats, err := uc.jobRepo.RatingStatsFor(ctx, jobIDs, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 2. Company per job: the linked one, else the employer's oldest
	companyOf := make(map[int64]int64, len(jobs))
	var owners []string
	seenOwner := map[string]bool{}
	for _, job := range jobs {
		if job.CompanyID != nil {
			companyOf[job.ID] = *job.CompanyID
		} else if !seenOwner[job.EmployerID] {
			seenOwner[job.EmployerID] = true
			owners = append(owners, job.EmployerID)
		}
	}
	if len(owners) > 0 {
		firsts, err := uc.companyRepo.FirstOwnedIDs(ctx, owners)
		if err != nil {
			logger.Log.Warn("failed to load employer companies", "error", err)
		}
		for _, job := range jobs {
			if id, ok := firsts[job.EmployerID]; ok && job.CompanyID == nil {
				companyOf[job.ID] = id
			}
		}
	}
	cards := map[int64]domain.CompanyCard{}
	if len(companyOf) > 0 {
		loaded, err := uc.companyRepo.CardsByID(ctx, uniqueIDs(companyOf), actor.ID)
		if err != nil {
			logger.Log.Warn("failed to load job companies", "error", err)
		} else {
			cards = loaded
		}
	}

	// 3. Assemble in page order
	resolver := profile.New(baseURL)
	for _, job := range jobs {
		d := domain.JobPostDetail{
			JobPost:        job,
			JobRatingStats: stats[job.ID],
			Budget:         BudgetLabel(job.BudgetMin, job.BudgetMax),
		}
		if id, ok := companyOf[job.ID]; ok {
			if card, ok := cards[id]; ok {
				finishCard(&card, resolver)
				d.Company = &card
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func uniqueIDs(byJob map[int64]int64) []int64 {
	seen := make(map[int64]bool, len(byJob))
	ids := make([]int64, 0, len(byJob))
	for _, id := range byJob {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BudgetLabel renders the budget range for display.
func BudgetLabel(lo, hi *float64) string {
	set := func(v *float64) bool { return v != nil && *v != 0 }
	switch {
	case set(lo) && set(hi):
		return formatMoney(*lo) + " - " + formatMoney(*hi) + " USD"
	case set(lo):
		return formatMoney(*lo) + "+ USD"
	case set(hi):
		return "up to " + formatMoney(*hi) + " USD"
	}
	return "Not specified"
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}

func dropEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
