package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/policy"
	"jobmarket-backend/internal/profile"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/storage"
)

const (
	defaultTopCompanies = 5
	maxTopCompanies     = 50
	defaultDifficulty   = 3
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	store       storage.BlobStore
}

func NewCompanyUsecase(companyRepo domain.CompanyRepository, store storage.BlobStore) domain.CompanyUsecase {
	return &companyUsecase{companyRepo: companyRepo, store: store}
}

func (uc *companyUsecase) Create(ctx context.Context, actor domain.Actor, input domain.CompanyInput) (*domain.CompanyCard, error) {
	if err := policy.Authorize(actor, policy.CompanyCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("Name is required")
	}

	company := &domain.Company{OwnerID: actor.ID}
	applyCompanyInput(company, input)
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, apperror.Internal(err)
	}
	return uc.card(ctx, actor, company.ID, "")
}

func (uc *companyUsecase) Get(ctx context.Context, actor domain.Actor, id int64, baseURL string) (*domain.CompanyCard, error) {
	return uc.card(ctx, actor, id, baseURL)
}

// List returns every company, or only the caller's when mine is set.
func (uc *companyUsecase) List(ctx context.Context, actor domain.Actor, mine bool, baseURL string) ([]domain.CompanyCard, error) {
	ownerID := ""
	if mine && actor.Authenticated() {
		ownerID = actor.ID
	}
	cards, err := uc.companyRepo.List(ctx, ownerID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	r := profile.New(baseURL)
	for i := range cards {
		finishCard(&cards[i], r)
	}
	return cards, nil
}

func (uc *companyUsecase) Update(ctx context.Context, actor domain.Actor, id int64, input domain.CompanyInput) (*domain.CompanyCard, error) {
	company, err := uc.owned(ctx, actor, policy.CompanyUpdate, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.Validation("Name is required")
	}

	applyCompanyInput(company, input)
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, repoErr(err, "Company not found")
	}
	return uc.card(ctx, actor, id, "")
}

func (uc *companyUsecase) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	company, err := uc.owned(ctx, actor, policy.CompanyDelete, id)
	if err != nil {
		return err
	}
	if err := uc.companyRepo.Delete(ctx, id); err != nil {
		return repoErr(err, "Company not found")
	}
	discardBlob(ctx, uc.store, company.Logo)
	return nil
}

// UploadLogo replaces the logo; the old blob is removed only after the new URL is saved.
func (uc *companyUsecase) UploadLogo(ctx context.Context, actor domain.Actor, id int64, file domain.Upload) (*domain.CompanyCard, error) {
	company, err := uc.owned(ctx, actor, policy.CompanyUpdate, id)
	if err != nil {
		return nil, err
	}

	url, err := storeImage(ctx, uc.store, "company_logos", file)
	if err != nil {
		return nil, err
	}
	if err := uc.companyRepo.SetLogo(ctx, id, url); err != nil {
		discardBlob(ctx, uc.store, url)
		return nil, repoErr(err, "Company not found")
	}
	discardBlob(ctx, uc.store, company.Logo)

	return uc.card(ctx, actor, id, "")
}

// Follow is idempotent: following twice leaves one membership row.
func (uc *companyUsecase) Follow(ctx context.Context, actor domain.Actor, id int64) (*domain.FollowState, error) {
	if err := policy.Authorize(actor, policy.CompanyFollow, policy.Resource{}); err != nil {
		return nil, err
	}
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}

	created, err := uc.companyRepo.Follow(ctx, id, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	count, err := uc.companyRepo.FollowersCount(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.FollowState{Created: created, Followed: true, IsFollowing: true, FollowersCount: count}, nil
}

// Unfollow on a non-follower is a no-op.
func (uc *companyUsecase) Unfollow(ctx context.Context, actor domain.Actor, id int64) (*domain.FollowState, error) {
	if err := policy.Authorize(actor, policy.CompanyFollow, policy.Resource{}); err != nil {
		return nil, err
	}
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}

	if err := uc.companyRepo.Unfollow(ctx, id, actor.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	count, err := uc.companyRepo.FollowersCount(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.FollowState{Followed: false, IsFollowing: false, FollowersCount: count}, nil
}

// Stats computes every counter from the related rows at call time.
func (uc *companyUsecase) Stats(ctx context.Context, actor domain.Actor, id int64) (*domain.CompanyStats, error) {
	if err := policy.Authorize(actor, policy.CompanyRead, policy.Resource{}); err != nil {
		return nil, err
	}
	stats, err := uc.companyRepo.Stats(ctx, id, actor.ID)
	if err != nil {
		return nil, repoErr(err, "Company not found")
	}
	stats.AvgRating = round2(stats.AvgRating)
	return stats, nil
}

// Top orders companies by followers, most first, ties by id.
func (uc *companyUsecase) Top(ctx context.Context, actor domain.Actor, limit int, baseURL string) ([]domain.CompanyCard, error) {
	if limit <= 0 {
		limit = defaultTopCompanies
	}
	if limit > maxTopCompanies {
		limit = maxTopCompanies
	}
	cards, err := uc.companyRepo.Top(ctx, limit, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	r := profile.New(baseURL)
	for i := range cards {
		finishCard(&cards[i], r)
	}
	return cards, nil
}

func (uc *companyUsecase) ListReviews(ctx context.Context, id int64) ([]domain.CompanyReview, error) {
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}
	reviews, err := uc.companyRepo.ListReviews(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

// SubmitReview allows one review per user and company; a second one is a conflict.
func (uc *companyUsecase) SubmitReview(ctx context.Context, actor domain.Actor, id int64, input domain.ReviewInput) (*domain.CompanyReview, error) {
	if err := policy.Authorize(actor, policy.CompanyReview, policy.Resource{}); err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.Validation("Rating must be between 1 and 5")
	}
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}

	review := &domain.CompanyReview{
		CompanyID: id,
		UserID:    actor.ID,
		Rating:    input.Rating,
		Text:      strings.TrimSpace(input.Text),
		Country:   strings.TrimSpace(input.Country),
	}
	if err := uc.companyRepo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("You have already reviewed this company")
		}
		return nil, apperror.Internal(err)
	}
	return review, nil
}

func (uc *companyUsecase) ListPhotos(ctx context.Context, id int64, baseURL string) ([]domain.CompanyPhoto, error) {
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}
	photos, err := uc.companyRepo.ListPhotos(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	r := profile.New(baseURL)
	for i := range photos {
		photos[i].Image = r.URL(photos[i].Image)
	}
	return photos, nil
}

func (uc *companyUsecase) AddPhoto(ctx context.Context, actor domain.Actor, id int64, caption string, file domain.Upload) (*domain.CompanyPhoto, error) {
	if err := policy.Authorize(actor, policy.CompanyAddPhoto, policy.Resource{}); err != nil {
		return nil, err
	}
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}

	url, err := storeImage(ctx, uc.store, "company_photos", file)
	if err != nil {
		return nil, err
	}
	photo := &domain.CompanyPhoto{CompanyID: id, Image: url, Caption: strings.TrimSpace(caption)}
	if err := uc.companyRepo.AddPhoto(ctx, photo); err != nil {
		discardBlob(ctx, uc.store, url)
		return nil, apperror.Internal(err)
	}
	return photo, nil
}

func (uc *companyUsecase) ListInterviews(ctx context.Context, id int64) ([]domain.InterviewExperience, error) {
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}
	items, err := uc.companyRepo.ListInterviews(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (uc *companyUsecase) AddInterview(ctx context.Context, actor domain.Actor, id int64, input domain.InterviewInput) (*domain.InterviewExperience, error) {
	if err := policy.Authorize(actor, policy.CompanyAddStory, policy.Resource{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Text) == "" {
		return nil, apperror.Validation("Title and text are required")
	}
	if input.Difficulty == 0 {
		input.Difficulty = defaultDifficulty
	}
	if input.Difficulty < 1 || input.Difficulty > 5 {
		return nil, apperror.Validation("Difficulty must be between 1 and 5")
	}
	if _, err := uc.companyRepo.GetByID(ctx, id); err != nil {
		return nil, repoErr(err, "Company not found")
	}

	item := &domain.InterviewExperience{
		CompanyID:  id,
		UserID:     actor.ID,
		Title:      strings.TrimSpace(input.Title),
		Difficulty: input.Difficulty,
		Text:       input.Text,
	}
	if err := uc.companyRepo.AddInterview(ctx, item); err != nil {
		return nil, apperror.Internal(err)
	}
	return item, nil
}

// owned loads a company and checks a mutating action against its owner.
func (uc *companyUsecase) owned(ctx context.Context, actor domain.Actor, action policy.Action, id int64) (*domain.Company, error) {
	if !actor.Authenticated() {
		return nil, apperror.Unauthorized("Authentication credentials were not provided")
	}
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "Company not found")
	}
	if err := policy.Authorize(actor, action, policy.Resource{OwnerID: company.OwnerID}); err != nil {
		return nil, err
	}
	return company, nil
}

func (uc *companyUsecase) card(ctx context.Context, actor domain.Actor, id int64, baseURL string) (*domain.CompanyCard, error) {
	card, err := uc.companyRepo.GetCard(ctx, id, actor.ID)
	if err != nil {
		return nil, repoErr(err, "Company not found")
	}
	finishCard(card, profile.New(baseURL))
	return card, nil
}

func applyCompanyInput(c *domain.Company, in domain.CompanyInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Industry = strings.TrimSpace(in.Industry)
	c.Website = strings.TrimSpace(in.Website)
	c.Location = strings.TrimSpace(in.Location)
	c.Description = in.Description
}

// finishCard rounds the rating, derives the hire rate and absolutizes media URLs.
func finishCard(card *domain.CompanyCard, r profile.Resolver) {
	card.AvgRating = round2(card.AvgRating)
	card.Logo = r.URL(card.Logo)
	card.Banner = r.URL(card.Banner)
	card.HireRate = hireRate(card.FilledCount, card.VacanciesCount)
}

func hireRate(filled, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.RoundToEven(float64(filled)/float64(total)*100)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
