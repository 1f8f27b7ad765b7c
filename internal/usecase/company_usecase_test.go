package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/usecase"
	"jobmarket-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngUpload(t *testing.T) domain.Upload {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return domain.Upload{Filename: "logo.png", ContentType: "image/png", Data: buf.Bytes()}
}

func TestCompanyStatsRoundsAverage(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockBlobStore))

	// ratings 4, 5, 3 average to exactly 4
	repo.On("Stats", ctx, int64(1), "").Return(&domain.CompanyStats{ReviewsCount: 3, AvgRating: 4.0}, nil)
	repo.On("Stats", ctx, int64(2), "").Return(&domain.CompanyStats{ReviewsCount: 3, AvgRating: 11.0 / 3.0}, nil)
	repo.On("Stats", ctx, int64(3), "").Return(nil, domain.ErrNotFound)

	stats, err := uc.Stats(ctx, anon, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stats.AvgRating)

	stats, err = uc.Stats(ctx, anon, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.67, stats.AvgRating)

	_, err = uc.Stats(ctx, anon, 3)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestFollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockBlobStore))

	repo.On("GetByID", ctx, int64(1)).Return(&domain.Company{ID: 1, OwnerID: employer.ID}, nil)
	repo.On("Follow", ctx, int64(1), seeker.ID).Return(true, nil).Once()
	repo.On("Follow", ctx, int64(1), seeker.ID).Return(false, nil).Once()
	repo.On("FollowersCount", ctx, int64(1)).Return(1, nil)

	first, err := uc.Follow(ctx, seeker, 1)
	require.NoError(t, err)
	second, err := uc.Follow(ctx, seeker, 1)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.FollowersCount, second.FollowersCount)
	assert.True(t, second.IsFollowing)

	_, err = uc.Follow(ctx, anon, 1)
	assert.True(t, apperror.Is(err, apperror.KindAuth))
}

func TestUnfollowNonFollower(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockBlobStore))

	repo.On("GetByID", ctx, int64(1)).Return(&domain.Company{ID: 1}, nil)
	repo.On("Unfollow", ctx, int64(1), seeker.ID).Return(nil)
	repo.On("FollowersCount", ctx, int64(1)).Return(0, nil)

	state, err := uc.Unfollow(ctx, seeker, 1)
	require.NoError(t, err)
	assert.False(t, state.IsFollowing)
	assert.Equal(t, 0, state.FollowersCount)
}

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockBlobStore))
	repo.On("GetByID", ctx, int64(1)).Return(&domain.Company{ID: 1}, nil)

	t.Run("Should reject ratings outside 1..5", func(t *testing.T) {
		for _, r := range []int{0, 6, -1} {
			_, err := uc.SubmitReview(ctx, seeker, 1, domain.ReviewInput{Rating: r})
			assert.True(t, apperror.Is(err, apperror.KindValidation))
		}
	})

	t.Run("Should report a duplicate review as a conflict", func(t *testing.T) {
		repo.On("CreateReview", ctx, mock.AnythingOfType("*domain.CompanyReview")).Return(nil).Once()
		repo.On("CreateReview", ctx, mock.AnythingOfType("*domain.CompanyReview")).Return(domain.ErrConflict).Once()

		review, err := uc.SubmitReview(ctx, seeker, 1, domain.ReviewInput{Rating: 5, Text: " great "})
		require.NoError(t, err)
		assert.Equal(t, "great", review.Text)
		assert.Equal(t, seeker.ID, review.UserID)

		_, err = uc.SubmitReview(ctx, seeker, 1, domain.ReviewInput{Rating: 4})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})
}

func TestTopCompaniesDerivesCardFields(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockBlobStore))

	repo.On("Top", ctx, 5, "").Return([]domain.CompanyCard{
		{Company: domain.Company{ID: 2, Logo: "/media/a.png"}, FollowersCount: 9, VacanciesCount: 3, FilledCount: 1, AvgRating: 4.666},
		{Company: domain.Company{ID: 1, Logo: "https://cdn.test/b.png"}, FollowersCount: 9},
	}, nil)

	cards, err := uc.Top(ctx, anon, 0, "https://api.test")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "https://api.test/media/a.png", cards[0].Logo)
	assert.Equal(t, "33%", cards[0].HireRate)
	assert.Equal(t, 4.67, cards[0].AvgRating)
	assert.Equal(t, "https://cdn.test/b.png", cards[1].Logo)
	assert.Equal(t, "0%", cards[1].HireRate)
}

func TestCompanyOwnership(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockBlobStore))
	repo.On("GetByID", ctx, int64(1)).Return(&domain.Company{ID: 1, OwnerID: employer.ID}, nil)
	repo.On("GetByID", ctx, int64(2)).Return(nil, domain.ErrNotFound)

	_, err := uc.Update(ctx, seeker, 1, domain.CompanyInput{Name: "Hijack"})
	assert.True(t, apperror.Is(err, apperror.KindPermission))

	err = uc.Delete(ctx, seeker, 1)
	assert.True(t, apperror.Is(err, apperror.KindPermission))

	err = uc.Delete(ctx, seeker, 2)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = uc.Delete(ctx, anon, 1)
	assert.True(t, apperror.Is(err, apperror.KindAuth))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUploadLogoReplacesOldBlobAfterSave(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	store := new(MockBlobStore)
	uc := usecase.NewCompanyUsecase(repo, store)

	repo.On("GetByID", ctx, int64(1)).Return(&domain.Company{ID: 1, OwnerID: employer.ID, Logo: "/media/old.jpg"}, nil)
	store.On("Store", ctx, mock.MatchedBy(func(key string) bool {
		return len(key) > len("company_logos/") && key[:len("company_logos/")] == "company_logos/"
	}), mock.Anything, "image/jpeg").Return("/media/company_logos/new.jpg", nil)
	repo.On("SetLogo", ctx, int64(1), "/media/company_logos/new.jpg").Return(nil)
	store.On("Delete", ctx, "/media/old.jpg").Return(nil)
	repo.On("GetCard", ctx, int64(1), employer.ID).Return(&domain.CompanyCard{
		Company: domain.Company{ID: 1, Logo: "/media/company_logos/new.jpg"},
	}, nil)

	card, err := uc.UploadLogo(ctx, employer, 1, pngUpload(t))
	require.NoError(t, err)
	assert.Equal(t, "/media/company_logos/new.jpg", card.Logo)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)

	t.Run("Should reject files that are not images", func(t *testing.T) {
		_, err := uc.UploadLogo(ctx, employer, 1, domain.Upload{Filename: "x.txt", Data: []byte("plain text")})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestAddInterviewDefaultsDifficulty(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	uc := usecase.NewCompanyUsecase(repo, new(MockBlobStore))
	repo.On("GetByID", ctx, int64(1)).Return(&domain.Company{ID: 1}, nil)
	repo.On("AddInterview", ctx, mock.AnythingOfType("*domain.InterviewExperience")).Return(nil)

	item, err := uc.AddInterview(ctx, seeker, 1, domain.InterviewInput{Title: "Onsite", Text: "Two rounds"})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Difficulty)
}
