package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/usecase"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	accounts *MockAccountRepo
	resumes  *MockResumeRepo
	profiles *MockProfileRepo
	store    *MockBlobStore
	uc       domain.ProfileUsecase
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		accounts: new(MockAccountRepo),
		resumes:  new(MockResumeRepo),
		profiles: new(MockProfileRepo),
		store:    new(MockBlobStore),
	}
	f.uc = usecase.NewProfileUsecase(f.accounts, f.resumes, f.profiles, f.store)
	return f
}

func TestProfileFieldUpdatesRejectEmptyValues(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()

	_, err := f.uc.UpdateTitle(ctx, seeker, "  ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = f.uc.UpdateAboutMe(ctx, seeker, "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = f.uc.UpdateSalary(ctx, seeker, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	lat := 41.3
	_, err = f.uc.UpdateLocation(ctx, seeker, &lat, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	f.accounts.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateTitle(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	title := "Backend engineer"
	f.accounts.On("UpdateFields", ctx, seeker.ID, domain.AccountFields{Title: &title}).
		Return(&domain.Account{ID: seeker.ID, Title: title}, nil)

	acc, err := f.uc.UpdateTitle(ctx, seeker, " Backend engineer ")
	require.NoError(t, err)
	assert.Equal(t, title, acc.Title)

	_, err = f.uc.UpdateTitle(ctx, anon, title)
	assert.True(t, apperror.Is(err, apperror.KindAuth))
}

func TestReplaceProfileImageDeletesPreviousBlob(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	newURL := "/media/profile_images/new.jpg"

	f.accounts.On("GetByID", ctx, seeker.ID).Return(&domain.Account{ID: seeker.ID, ProfileImage: "/media/profile_images/old.jpg"}, nil)
	f.store.On("Store", ctx, mock.AnythingOfType("string"), mock.Anything, "image/jpeg").Return(newURL, nil)
	f.accounts.On("UpdateFields", ctx, seeker.ID, domain.AccountFields{ProfileImage: &newURL}).Return(&domain.Account{}, nil)
	f.store.On("Delete", ctx, "/media/profile_images/old.jpg").Return(nil)

	url, err := f.uc.ReplaceProfileImage(ctx, seeker, pngUpload(t))
	require.NoError(t, err)
	assert.Equal(t, newURL, url)
	f.store.AssertExpectations(t)
}

func TestReplaceProfileImageKeepsOldBlobWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	newURL := "/media/profile_images/new.jpg"

	f.accounts.On("GetByID", ctx, seeker.ID).Return(&domain.Account{ID: seeker.ID, ProfileImage: "/media/profile_images/old.jpg"}, nil)
	f.store.On("Store", ctx, mock.AnythingOfType("string"), mock.Anything, "image/jpeg").Return(newURL, nil)
	f.accounts.On("UpdateFields", ctx, seeker.ID, mock.Anything).Return(nil, assert.AnError)
	f.store.On("Delete", ctx, newURL).Return(nil)

	_, err := f.uc.ReplaceProfileImage(ctx, seeker, pngUpload(t))
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	f.store.AssertNotCalled(t, "Delete", ctx, "/media/profile_images/old.jpg")
}

func TestAddSkillsDedupes(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.profiles.On("CreateSkills", ctx, seeker.ID, []string{"Go", "SQL"}).
		Return([]domain.Skill{{ID: 2, Name: "SQL"}}, nil)

	created, err := f.uc.AddSkills(ctx, seeker, []string{"Go", " go ", "", "SQL"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Skill{{ID: 2, Name: "SQL"}}, created)

	_, err = f.uc.AddSkills(ctx, seeker, []string{" ", ""})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAnswerSkill(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.profiles.On("UpsertSkillAnswer", ctx, mock.MatchedBy(func(a *domain.SkillAnswer) bool {
		return a.UserID == seeker.ID && a.SkillID == 3
	})).Return(nil)
	f.profiles.On("UpsertSkillAnswer", ctx, mock.MatchedBy(func(a *domain.SkillAnswer) bool {
		return a.SkillID == 4
	})).Return(domain.ErrNotFound)

	a, err := f.uc.AnswerSkill(ctx, seeker, 3, domain.AnswerYes)
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerYes, a.Answer)

	_, err = f.uc.AnswerSkill(ctx, seeker, 3, "maybe")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.uc.AnswerSkill(ctx, seeker, 4, domain.AnswerNo)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteLanguageOfAnotherUser(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.profiles.On("DeleteLanguage", ctx, seeker.ID, int64(9)).Return(domain.ErrNotFound)

	err := f.uc.DeleteLanguage(ctx, seeker, 9)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestResumesArePrivate(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.resumes.On("GetByID", ctx, int64(1)).Return(&domain.Resume{ID: 1, UserID: seeker.ID, Title: "CV"}, nil)

	_, err := f.uc.GetResume(ctx, seeker2, 1)
	assert.True(t, apperror.Is(err, apperror.KindPermission))

	r, err := f.uc.GetResume(ctx, seeker, 1)
	require.NoError(t, err)
	assert.Equal(t, "CV", r.Title)

	f.resumes.On("Latest", ctx, seeker2.ID).Return(nil, domain.ErrNotFound)
	_, err = f.uc.MyResume(ctx, seeker2)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCreateResumeForcesOwner(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.resumes.On("Create", ctx, mock.MatchedBy(func(r *domain.Resume) bool {
		return r.UserID == seeker.ID && r.Skills != nil && r.Currency == "USD"
	})).Return(nil)

	r, err := f.uc.CreateResume(ctx, seeker, domain.Resume{UserID: "hacker_try", Title: "CV"})
	require.NoError(t, err)
	assert.Equal(t, seeker.ID, r.UserID)

	_, err = f.uc.CreateResume(ctx, seeker, domain.Resume{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestOwnProfileUsesLatestResume(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.accounts.On("GetByID", ctx, seeker.ID).Return(&domain.Account{ID: seeker.ID, FirstName: "Ada"}, nil)
	f.resumes.On("Latest", ctx, seeker.ID).Return(&domain.Resume{Headline: "Gopher", Skills: []string{"Go"}}, nil)
	f.profiles.On("LoadCollections", ctx, seeker.ID).Return(&domain.ProfileCollections{}, nil)

	full, err := f.uc.OwnProfile(ctx, seeker, "")
	require.NoError(t, err)
	assert.Equal(t, "Ada", full.FullName)
	assert.Equal(t, "Gopher", full.Bio)
	assert.Equal(t, []string{"Go"}, full.Skills)
	assert.Equal(t, domain.Placeholder, full.Position)
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()

	res, err := f.uc.SearchUsers(ctx, "  ", "")
	require.NoError(t, err)
	assert.Empty(t, res)
	f.accounts.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)

	f.accounts.On("Search", ctx, "ada love", 50).Return([]domain.Account{
		{ID: "a", Username: "ada", FirstName: "Ada", LastName: "Lovelace"},
	}, nil)
	res, err = f.uc.SearchUsers(ctx, " ada love ", "")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Ada Lovelace", res[0].FullName)
}

func TestCreateCertificateChecksFileContent(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	cert := domain.Certificate{Name: "CKA", Organization: "CNCF", IssueDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	spoofed := &domain.Upload{Filename: "cka.pdf", Data: []byte("MZ\x90\x00 not a pdf")}
	_, err := f.uc.CreateCertificate(ctx, seeker, cert, spoofed)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	f.store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	pdf := &domain.Upload{Filename: "cka.pdf", Data: []byte("%PDF-1.7\n%binary")}
	f.store.On("Store", ctx, mock.MatchedBy(func(key string) bool { return strings.HasSuffix(key, ".pdf") }), pdf.Data, mock.AnythingOfType("string")).
		Return("/media/certificates/x.pdf", nil)
	f.profiles.On("CreateCertificate", ctx, mock.AnythingOfType("*domain.Certificate")).Return(nil)

	got, err := f.uc.CreateCertificate(ctx, seeker, cert, pdf)
	require.NoError(t, err)
	assert.Equal(t, "/media/certificates/x.pdf", got.FileURL)
	assert.Equal(t, seeker.ID, got.UserID)
}

func TestScanRejectionIsAValidationError(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	cert := domain.Certificate{Name: "CKA", Organization: "CNCF", IssueDate: time.Now()}
	pdf := &domain.Upload{Filename: "cka.pdf", Data: []byte("%PDF-1.7\n%binary")}
	f.store.On("Store", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", storage.ErrRejected)

	_, err := f.uc.CreateCertificate(ctx, seeker, cert, pdf)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	f.profiles.AssertNotCalled(t, "CreateCertificate", mock.Anything, mock.Anything)
}
