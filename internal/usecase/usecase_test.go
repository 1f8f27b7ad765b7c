package usecase_test

import (
	"context"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/mq"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepo) EmailTakenByOther(ctx context.Context, email, accountID string) (bool, error) {
	args := m.Called(ctx, email, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepo) SetEmail(ctx context.Context, accountID, email string) error {
	return m.Called(ctx, accountID, email).Error(0)
}

func (m *MockAccountRepo) SetRole(ctx context.Context, accountID string, role domain.Role) error {
	return m.Called(ctx, accountID, role).Error(0)
}

func (m *MockAccountRepo) SetPassword(ctx context.Context, accountID, passwordHash string) error {
	return m.Called(ctx, accountID, passwordHash).Error(0)
}

func (m *MockAccountRepo) UpdateFields(ctx context.Context, accountID string, fields domain.AccountFields) (*domain.Account, error) {
	args := m.Called(ctx, accountID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) Search(ctx context.Context, query string, limit int) ([]domain.Account, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

type MockVerificationRepo struct {
	mock.Mock
}

func (m *MockVerificationRepo) Upsert(ctx context.Context, accountID, code string) error {
	return m.Called(ctx, accountID, code).Error(0)
}

func (m *MockVerificationRepo) Consume(ctx context.Context, accountID, code string) error {
	return m.Called(ctx, accountID, code).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.JobPost) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.JobPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPost), args.Error(1)
}

func (m *MockJobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.JobPost, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JobPost), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.JobPost) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJobRepo) RatingStats(ctx context.Context, jobID int64, viewerID string) (*domain.JobRatingStats, error) {
	args := m.Called(ctx, jobID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobRatingStats), args.Error(1)
}

func (m *MockJobRepo) RatingStatsFor(ctx context.Context, jobIDs []int64, viewerID string) (map[int64]domain.JobRatingStats, error) {
	args := m.Called(ctx, jobIDs, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.JobRatingStats), args.Error(1)
}

func (m *MockJobRepo) UpsertRating(ctx context.Context, jobID int64, userID string, stars int) error {
	return m.Called(ctx, jobID, userID, stars).Error(0)
}

func (m *MockJobRepo) OpenByEmployer(ctx context.Context, employerID string, excludeID int64, limit int) ([]domain.VacancyRef, error) {
	args := m.Called(ctx, employerID, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VacancyRef), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) Exists(ctx context.Context, jobID int64, applicantID string) (bool, error) {
	args := m.Called(ctx, jobID, applicantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByEmployer(ctx context.Context, employerID string, jobID *int64) ([]domain.Application, error) {
	args := m.Called(ctx, employerID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockApplicationRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockApplicationRepo) DeleteByJobAndApplicant(ctx context.Context, jobID int64, applicantID string) error {
	return m.Called(ctx, jobID, applicantID).Error(0)
}

func (m *MockApplicationRepo) LoadApplicants(ctx context.Context, accountIDs []string) (map[string]domain.ApplicantSource, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ApplicantSource), args.Error(1)
}

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepo) FirstOwnedBy(ctx context.Context, ownerID string) (*domain.Company, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepo) FirstOwnedIDs(ctx context.Context, ownerIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, ownerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockCompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCompanyRepo) SetLogo(ctx context.Context, id int64, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *MockCompanyRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCompanyRepo) GetCard(ctx context.Context, id int64, viewerID string) (*domain.CompanyCard, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyCard), args.Error(1)
}

func (m *MockCompanyRepo) CardsByID(ctx context.Context, ids []int64, viewerID string) (map[int64]domain.CompanyCard, error) {
	args := m.Called(ctx, ids, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.CompanyCard), args.Error(1)
}

func (m *MockCompanyRepo) List(ctx context.Context, ownerID, viewerID string) ([]domain.CompanyCard, error) {
	args := m.Called(ctx, ownerID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyCard), args.Error(1)
}

func (m *MockCompanyRepo) Top(ctx context.Context, limit int, viewerID string) ([]domain.CompanyCard, error) {
	args := m.Called(ctx, limit, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyCard), args.Error(1)
}

func (m *MockCompanyRepo) Stats(ctx context.Context, id int64, viewerID string) (*domain.CompanyStats, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyStats), args.Error(1)
}

func (m *MockCompanyRepo) Follow(ctx context.Context, companyID int64, userID string) (bool, error) {
	args := m.Called(ctx, companyID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRepo) Unfollow(ctx context.Context, companyID int64, userID string) error {
	return m.Called(ctx, companyID, userID).Error(0)
}

func (m *MockCompanyRepo) FollowersCount(ctx context.Context, companyID int64) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

func (m *MockCompanyRepo) CreateReview(ctx context.Context, r *domain.CompanyReview) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockCompanyRepo) ListReviews(ctx context.Context, companyID int64) ([]domain.CompanyReview, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyReview), args.Error(1)
}

func (m *MockCompanyRepo) AddPhoto(ctx context.Context, p *domain.CompanyPhoto) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCompanyRepo) ListPhotos(ctx context.Context, companyID int64) ([]domain.CompanyPhoto, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyPhoto), args.Error(1)
}

func (m *MockCompanyRepo) AddInterview(ctx context.Context, i *domain.InterviewExperience) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockCompanyRepo) ListInterviews(ctx context.Context, companyID int64) ([]domain.InterviewExperience, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterviewExperience), args.Error(1)
}

type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) Create(ctx context.Context, p *domain.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPostRepo) Get(ctx context.Context, id int64, viewerID string) (*domain.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepo) List(ctx context.Context, filter domain.PostFilter, viewerID string) ([]domain.Post, error) {
	args := m.Called(ctx, filter, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *MockPostRepo) Update(ctx context.Context, id int64, content string, image *string) error {
	return m.Called(ctx, id, content, image).Error(0)
}

func (m *MockPostRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostRepo) ToggleLike(ctx context.Context, postID int64, userID string) (*domain.LikeState, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LikeState), args.Error(1)
}

func (m *MockPostRepo) IncrementShares(ctx context.Context, postID int64) (int, error) {
	args := m.Called(ctx, postID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockPostRepo) GetComment(ctx context.Context, postID, commentID int64) (*domain.Comment, error) {
	args := m.Called(ctx, postID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockPostRepo) UpdateComment(ctx context.Context, commentID int64, content string) error {
	return m.Called(ctx, commentID, content).Error(0)
}

func (m *MockPostRepo) DeleteComment(ctx context.Context, postID, commentID int64) error {
	return m.Called(ctx, postID, commentID).Error(0)
}

func (m *MockPostRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, r *domain.Resume) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockResumeRepo) GetByID(ctx context.Context, id int64) (*domain.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) ListByUser(ctx context.Context, userID string) ([]domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) Latest(ctx context.Context, userID string) (*domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) Update(ctx context.Context, r *domain.Resume) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockResumeRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockProfileRepo embeds the interface so tests only stub what they touch;
// an unexpected call panics on the nil embedded value.
type MockProfileRepo struct {
	domain.ProfileRepository
	mock.Mock
}

func (m *MockProfileRepo) LoadCollections(ctx context.Context, userID string) (*domain.ProfileCollections, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileCollections), args.Error(1)
}

func (m *MockProfileRepo) ListSkills(ctx context.Context, userID string) ([]domain.Skill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Skill), args.Error(1)
}

func (m *MockProfileRepo) CreateSkills(ctx context.Context, userID string, names []string) ([]domain.Skill, error) {
	args := m.Called(ctx, userID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Skill), args.Error(1)
}

func (m *MockProfileRepo) UpsertSkillAnswer(ctx context.Context, a *domain.SkillAnswer) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockProfileRepo) CreateCertificate(ctx context.Context, c *domain.Certificate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockProfileRepo) DeleteLanguage(ctx context.Context, userID string, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

// Mock Collaborators

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event mq.Event) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}
