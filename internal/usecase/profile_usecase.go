package usecase

import (
	"context"
	"errors"
	"strings"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/policy"
	"jobmarket-backend/internal/profile"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/storage"
)

const searchLimit = 50

type profileUsecase struct {
	accountRepo domain.AccountRepository
	resumeRepo  domain.ResumeRepository
	profileRepo domain.ProfileRepository
	store       storage.BlobStore
}

func NewProfileUsecase(
	accountRepo domain.AccountRepository,
	resumeRepo domain.ResumeRepository,
	profileRepo domain.ProfileRepository,
	store storage.BlobStore,
) domain.ProfileUsecase {
	return &profileUsecase{
		accountRepo: accountRepo,
		resumeRepo:  resumeRepo,
		profileRepo: profileRepo,
		store:       store,
	}
}

// ==================== ACCOUNT FIELDS ====================

func (uc *profileUsecase) UpdateLocation(ctx context.Context, actor domain.Actor, lat, lng *float64) (*domain.Account, error) {
	if lat == nil || lng == nil {
		return nil, apperror.Validation("Both latitude and longitude are required")
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return nil, apperror.Validation("Coordinates are out of range")
	}
	return uc.updateFields(ctx, actor, domain.AccountFields{Latitude: lat, Longitude: lng})
}

func (uc *profileUsecase) UpdateWorkHours(ctx context.Context, actor domain.Actor, hours string) (*domain.Account, error) {
	hours = strings.TrimSpace(hours)
	if hours == "" {
		return nil, apperror.Validation("Work hours are required")
	}
	return uc.updateFields(ctx, actor, domain.AccountFields{WorkHoursPerWeek: &hours})
}

func (uc *profileUsecase) UpdateTitle(ctx context.Context, actor domain.Actor, title string) (*domain.Account, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("Title is required")
	}
	return uc.updateFields(ctx, actor, domain.AccountFields{Title: &title})
}

func (uc *profileUsecase) UpdateSalary(ctx context.Context, actor domain.Actor, salary *float64) (*domain.Account, error) {
	if salary == nil {
		return nil, apperror.Validation("Salary is required")
	}
	if *salary < 0 {
		return nil, apperror.Validation("Salary cannot be negative")
	}
	return uc.updateFields(ctx, actor, domain.AccountFields{SalaryUSD: salary})
}

func (uc *profileUsecase) UpdateAboutMe(ctx context.Context, actor domain.Actor, about string) (*domain.Account, error) {
	about = strings.TrimSpace(about)
	if about == "" {
		return nil, apperror.Validation("About me is required")
	}
	return uc.updateFields(ctx, actor, domain.AccountFields{AboutMe: &about})
}

// ReplaceProfileImage stores the new image, persists its URL and only then
// deletes the previous blob.
func (uc *profileUsecase) ReplaceProfileImage(ctx context.Context, actor domain.Actor, file domain.Upload) (string, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}
	// 1. Load current
	account, err := uc.accountRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return "", repoErr(err, "User not found")
	}
	previous := account.ProfileImage

	// 2. Store new blob
	url, err := storeImage(ctx, uc.store, "profile_images", file)
	if err != nil {
		return "", err
	}

	// 3. Persist
	if _, err := uc.accountRepo.UpdateFields(ctx, actor.ID, domain.AccountFields{ProfileImage: &url}); err != nil {
		discardBlob(ctx, uc.store, url)
		return "", repoErr(err, "User not found")
	}

	// 4. Drop the old one
	if previous != url {
		discardBlob(ctx, uc.store, previous)
	}
	return url, nil
}

func (uc *profileUsecase) updateFields(ctx context.Context, actor domain.Actor, fields domain.AccountFields) (*domain.Account, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	account, err := uc.accountRepo.UpdateFields(ctx, actor.ID, fields)
	if err != nil {
		return nil, repoErr(err, "User not found")
	}
	return account, nil
}

// ==================== VIEWS ====================

func (uc *profileUsecase) OwnProfile(ctx context.Context, actor domain.Actor, baseURL string) (*domain.FullProfile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	account, err := uc.accountRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, repoErr(err, "User not found")
	}
	resume, err := uc.latestResume(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	collections, err := uc.profileRepo.LoadCollections(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	full := profile.New(baseURL).Full(profile.WithProfile(account, resume, collections.Skills), collections)
	return &full, nil
}

func (uc *profileUsecase) PublicProfile(ctx context.Context, accountID, baseURL string) (*domain.ProfileMini, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, repoErr(err, "User not found")
	}
	resume, err := uc.latestResume(ctx, accountID)
	if err != nil {
		return nil, err
	}
	skills, err := uc.profileRepo.ListSkills(ctx, accountID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	mini := profile.New(baseURL).Mini(profile.WithProfile(account, resume, skills))
	return &mini, nil
}

// SearchUsers matches username, first or last name; an empty query matches nobody.
func (uc *profileUsecase) SearchUsers(ctx context.Context, query, baseURL string) ([]domain.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.UserSearchResult{}, nil
	}
	accounts, err := uc.accountRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	r := profile.New(baseURL)
	results := make([]domain.UserSearchResult, 0, len(accounts))
	for i := range accounts {
		results = append(results, r.SearchResult(&accounts[i]))
	}
	return results, nil
}

func (uc *profileUsecase) latestResume(ctx context.Context, userID string) (*domain.Resume, error) {
	resume, err := uc.resumeRepo.Latest(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return resume, nil
}

// ==================== LANGUAGES ====================

func (uc *profileUsecase) ListLanguages(ctx context.Context, actor domain.Actor) ([]domain.LanguageSkill, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.profileRepo.ListLanguages(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (uc *profileUsecase) CreateLanguage(ctx context.Context, actor domain.Actor, l domain.LanguageSkill) (*domain.LanguageSkill, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := checkLanguage(&l); err != nil {
		return nil, err
	}
	l.UserID = actor.ID
	if err := uc.profileRepo.CreateLanguage(ctx, &l); err != nil {
		return nil, apperror.Internal(err)
	}
	return &l, nil
}

func (uc *profileUsecase) UpdateLanguage(ctx context.Context, actor domain.Actor, id int64, l domain.LanguageSkill) (*domain.LanguageSkill, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := checkLanguage(&l); err != nil {
		return nil, err
	}
	l.ID, l.UserID = id, actor.ID
	if err := uc.profileRepo.UpdateLanguage(ctx, &l); err != nil {
		return nil, repoErr(err, "Language not found")
	}
	return &l, nil
}

func (uc *profileUsecase) DeleteLanguage(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return wrapDelete(uc.profileRepo.DeleteLanguage(ctx, actor.ID, id), "Language not found")
}

func checkLanguage(l *domain.LanguageSkill) error {
	l.Language = strings.TrimSpace(l.Language)
	l.Level = strings.TrimSpace(l.Level)
	if l.Language == "" || l.Level == "" {
		return apperror.Validation("Language and level are required")
	}
	return nil
}

// ==================== EDUCATIONS ====================

func (uc *profileUsecase) ListEducations(ctx context.Context, actor domain.Actor) ([]domain.Education, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.profileRepo.ListEducations(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (uc *profileUsecase) CreateEducation(ctx context.Context, actor domain.Actor, e domain.Education) (*domain.Education, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := checkEducation(&e); err != nil {
		return nil, err
	}
	e.UserID = actor.ID
	if err := uc.profileRepo.CreateEducation(ctx, &e); err != nil {
		return nil, apperror.Internal(err)
	}
	return &e, nil
}

func (uc *profileUsecase) UpdateEducation(ctx context.Context, actor domain.Actor, id int64, e domain.Education) (*domain.Education, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := checkEducation(&e); err != nil {
		return nil, err
	}
	e.ID, e.UserID = id, actor.ID
	if err := uc.profileRepo.UpdateEducation(ctx, &e); err != nil {
		return nil, repoErr(err, "Education not found")
	}
	return &e, nil
}

func (uc *profileUsecase) DeleteEducation(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return wrapDelete(uc.profileRepo.DeleteEducation(ctx, actor.ID, id), "Education not found")
}

func checkEducation(e *domain.Education) error {
	e.AcademyName = strings.TrimSpace(e.AcademyName)
	e.Degree = strings.TrimSpace(e.Degree)
	if e.AcademyName == "" || e.Degree == "" {
		return apperror.Validation("Academy name and degree are required")
	}
	if e.EndYear < e.StartYear {
		return apperror.Validation("End year cannot be before start year")
	}
	return nil
}

// ==================== CERTIFICATES ====================

func (uc *profileUsecase) ListCertificates(ctx context.Context, actor domain.Actor, baseURL string) ([]domain.Certificate, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.profileRepo.ListCertificates(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	r := profile.New(baseURL)
	for i := range items {
		items[i].FileURL = r.URL(items[i].FileURL)
	}
	return items, nil
}

func (uc *profileUsecase) CreateCertificate(ctx context.Context, actor domain.Actor, c domain.Certificate, file *domain.Upload) (*domain.Certificate, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Organization = strings.TrimSpace(c.Organization)
	if c.Name == "" || c.Organization == "" {
		return nil, apperror.Validation("Name and organization are required")
	}
	if c.IssueDate.IsZero() {
		return nil, apperror.Validation("Issue date is required")
	}

	c.UserID = actor.ID
	if file != nil {
		url, err := storeFile(ctx, uc.store, "certificates", *file, certificateKinds...)
		if err != nil {
			return nil, err
		}
		c.FileURL = url
	}
	if err := uc.profileRepo.CreateCertificate(ctx, &c); err != nil {
		discardBlob(ctx, uc.store, c.FileURL)
		return nil, apperror.Internal(err)
	}
	return &c, nil
}

func (uc *profileUsecase) DeleteCertificate(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	cert, err := uc.profileRepo.GetCertificate(ctx, actor.ID, id)
	if err != nil {
		return repoErr(err, "Certificate not found")
	}
	if err := uc.profileRepo.DeleteCertificate(ctx, actor.ID, id); err != nil {
		return repoErr(err, "Certificate not found")
	}
	discardBlob(ctx, uc.store, cert.FileURL)
	return nil
}

// ==================== EXPERIENCES ====================

func (uc *profileUsecase) ListExperiences(ctx context.Context, actor domain.Actor) ([]domain.WorkExperience, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.profileRepo.ListExperiences(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (uc *profileUsecase) CreateExperience(ctx context.Context, actor domain.Actor, e domain.WorkExperience) (*domain.WorkExperience, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := checkExperience(&e); err != nil {
		return nil, err
	}
	e.UserID = actor.ID
	if err := uc.profileRepo.CreateExperience(ctx, &e); err != nil {
		return nil, apperror.Internal(err)
	}
	return &e, nil
}

func (uc *profileUsecase) UpdateExperience(ctx context.Context, actor domain.Actor, id int64, e domain.WorkExperience) (*domain.WorkExperience, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := checkExperience(&e); err != nil {
		return nil, err
	}
	e.ID, e.UserID = id, actor.ID
	if err := uc.profileRepo.UpdateExperience(ctx, &e); err != nil {
		return nil, repoErr(err, "Experience not found")
	}
	return &e, nil
}

func (uc *profileUsecase) DeleteExperience(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return wrapDelete(uc.profileRepo.DeleteExperience(ctx, actor.ID, id), "Experience not found")
}

func checkExperience(e *domain.WorkExperience) error {
	e.CompanyName = strings.TrimSpace(e.CompanyName)
	e.Position = strings.TrimSpace(e.Position)
	if e.CompanyName == "" || e.Position == "" {
		return apperror.Validation("Company name and position are required")
	}
	if e.StartDate.IsZero() {
		return apperror.Validation("Start date is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return apperror.Validation("End date cannot be before start date")
	}
	return nil
}

// ==================== PORTFOLIO ====================

func (uc *profileUsecase) ListProjects(ctx context.Context, actor domain.Actor, baseURL string) ([]domain.PortfolioProject, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.profileRepo.ListProjects(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	r := profile.New(baseURL)
	out := make([]domain.PortfolioProject, 0, len(items))
	for _, p := range items {
		out = append(out, r.Project(p))
	}
	return out, nil
}

func (uc *profileUsecase) CreateProject(ctx context.Context, actor domain.Actor, p domain.PortfolioProject) (*domain.PortfolioProject, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, apperror.Validation("Title is required")
	}
	p.UserID = actor.ID
	p.Skills = strings.Join(profile.SplitSkills(p.Skills), ", ")
	if err := uc.profileRepo.CreateProject(ctx, &p); err != nil {
		return nil, apperror.Internal(err)
	}
	project := profile.New("").Project(p)
	return &project, nil
}

func (uc *profileUsecase) UpdateProject(ctx context.Context, actor domain.Actor, id int64, p domain.PortfolioProject) (*domain.PortfolioProject, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, apperror.Validation("Title is required")
	}
	p.ID, p.UserID = id, actor.ID
	p.Skills = strings.Join(profile.SplitSkills(p.Skills), ", ")
	if err := uc.profileRepo.UpdateProject(ctx, &p); err != nil {
		return nil, repoErr(err, "Project not found")
	}
	updated, err := uc.profileRepo.GetProject(ctx, actor.ID, id)
	if err != nil {
		return nil, repoErr(err, "Project not found")
	}
	project := profile.New("").Project(*updated)
	return &project, nil
}

func (uc *profileUsecase) DeleteProject(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	project, err := uc.profileRepo.GetProject(ctx, actor.ID, id)
	if err != nil {
		return repoErr(err, "Project not found")
	}
	if err := uc.profileRepo.DeleteProject(ctx, actor.ID, id); err != nil {
		return repoErr(err, "Project not found")
	}
	for _, m := range project.Media {
		discardBlob(ctx, uc.store, m.FileURL)
	}
	return nil
}

func (uc *profileUsecase) AddProjectMedia(ctx context.Context, actor domain.Actor, projectID int64, fileType domain.MediaType, file domain.Upload) (*domain.PortfolioMedia, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if fileType == "" {
		fileType = domain.MediaFile
	}
	if !validMediaType(fileType) {
		return nil, apperror.Validation("Invalid file type")
	}
	if _, err := uc.profileRepo.GetProject(ctx, actor.ID, projectID); err != nil {
		return nil, repoErr(err, "Project not found")
	}

	var (
		url string
		err error
	)
	if fileType == domain.MediaImage {
		url, err = storeImage(ctx, uc.store, "portfolio_media", file)
	} else {
		url, err = storeFile(ctx, uc.store, "portfolio_media", file, mediaKinds[fileType]...)
	}
	if err != nil {
		return nil, err
	}

	media := &domain.PortfolioMedia{ProjectID: projectID, FileURL: url, FileType: fileType}
	if err := uc.profileRepo.AddMedia(ctx, media); err != nil {
		discardBlob(ctx, uc.store, url)
		return nil, apperror.Internal(err)
	}
	return media, nil
}

func (uc *profileUsecase) DeleteProjectMedia(ctx context.Context, actor domain.Actor, mediaID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	media, err := uc.profileRepo.GetMedia(ctx, actor.ID, mediaID)
	if err != nil {
		return repoErr(err, "Media not found")
	}
	if err := uc.profileRepo.DeleteMedia(ctx, actor.ID, mediaID); err != nil {
		return repoErr(err, "Media not found")
	}
	discardBlob(ctx, uc.store, media.FileURL)
	return nil
}

func validMediaType(t domain.MediaType) bool {
	switch t {
	case domain.MediaImage, domain.MediaVideo, domain.MediaText, domain.MediaLink, domain.MediaFile, domain.MediaAudio:
		return true
	}
	return false
}

// ==================== SKILLS ====================

func (uc *profileUsecase) ListSkills(ctx context.Context, actor domain.Actor) ([]domain.Skill, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.profileRepo.ListSkills(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

// AddSkills inserts the names the user does not have yet and returns only those.
func (uc *profileUsecase) AddSkills(ctx context.Context, actor domain.Actor, names []string) ([]domain.Skill, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	clean := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		clean = append(clean, n)
	}
	if len(clean) == 0 {
		return nil, apperror.Validation("At least one skill name is required")
	}

	created, err := uc.profileRepo.CreateSkills(ctx, actor.ID, clean)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if created == nil {
		created = []domain.Skill{}
	}
	return created, nil
}

func (uc *profileUsecase) RenameSkill(ctx context.Context, actor domain.Actor, id int64, name string) (*domain.Skill, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("Name is required")
	}
	skill, err := uc.profileRepo.RenameSkill(ctx, actor.ID, id, name)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("Skill already exists")
		}
		return nil, repoErr(err, "Skill not found")
	}
	return skill, nil
}

func (uc *profileUsecase) DeleteSkill(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return wrapDelete(uc.profileRepo.DeleteSkill(ctx, actor.ID, id), "Skill not found")
}

func (uc *profileUsecase) ListSkillAnswers(ctx context.Context, actor domain.Actor) ([]domain.SkillAnswer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.profileRepo.ListSkillAnswers(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

// AnswerSkill keeps one answer per (user, skill); answering again overwrites it.
func (uc *profileUsecase) AnswerSkill(ctx context.Context, actor domain.Actor, skillID int64, answer domain.SkillAnswerValue) (*domain.SkillAnswer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !answer.Valid() {
		return nil, apperror.Validation("Answer must be one of yes, no, skip")
	}
	a := &domain.SkillAnswer{UserID: actor.ID, SkillID: skillID, Answer: answer}
	if err := uc.profileRepo.UpsertSkillAnswer(ctx, a); err != nil {
		return nil, repoErr(err, "Skill not found")
	}
	return a, nil
}

// ==================== RESUMES ====================

func (uc *profileUsecase) ListResumes(ctx context.Context, actor domain.Actor) ([]domain.Resume, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	items, err := uc.resumeRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (uc *profileUsecase) GetResume(ctx context.Context, actor domain.Actor, id int64) (*domain.Resume, error) {
	return uc.ownedResume(ctx, actor, policy.ResumeRead, id)
}

// MyResume is the most recently updated resume of the caller.
func (uc *profileUsecase) MyResume(ctx context.Context, actor domain.Actor) (*domain.Resume, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	resume, err := uc.resumeRepo.Latest(ctx, actor.ID)
	if err != nil {
		return nil, repoErr(err, "Resume not found")
	}
	return resume, nil
}

func (uc *profileUsecase) CreateResume(ctx context.Context, actor domain.Actor, r domain.Resume) (*domain.Resume, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := checkResume(&r); err != nil {
		return nil, err
	}
	r.ID = 0
	r.UserID = actor.ID
	r.IsActive = true
	if err := uc.resumeRepo.Create(ctx, &r); err != nil {
		return nil, apperror.Internal(err)
	}
	return &r, nil
}

func (uc *profileUsecase) UpdateResume(ctx context.Context, actor domain.Actor, id int64, r domain.Resume) (*domain.Resume, error) {
	current, err := uc.ownedResume(ctx, actor, policy.ResumeWrite, id)
	if err != nil {
		return nil, err
	}
	if err := checkResume(&r); err != nil {
		return nil, err
	}
	r.ID = current.ID
	r.UserID = current.UserID
	r.CreatedAt = current.CreatedAt
	if r.Photo == "" {
		r.Photo = current.Photo
	}
	if err := uc.resumeRepo.Update(ctx, &r); err != nil {
		return nil, repoErr(err, "Resume not found")
	}
	return &r, nil
}

func (uc *profileUsecase) DeleteResume(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := uc.ownedResume(ctx, actor, policy.ResumeWrite, id); err != nil {
		return err
	}
	return wrapDelete(uc.resumeRepo.Delete(ctx, id), "Resume not found")
}

func (uc *profileUsecase) ownedResume(ctx context.Context, actor domain.Actor, action policy.Action, id int64) (*domain.Resume, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	resume, err := uc.resumeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "Resume not found")
	}
	if err := policy.Authorize(actor, action, policy.Resource{OwnerID: resume.UserID}); err != nil {
		return nil, err
	}
	return resume, nil
}

func checkResume(r *domain.Resume) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return apperror.Validation("Title is required")
	}
	if r.DesiredSalary != nil && *r.DesiredSalary < 0 {
		return apperror.Validation("Desired salary cannot be negative")
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Currency == "" {
		r.Currency = "USD"
	}
	return nil
}

func requireActor(actor domain.Actor) error {
	if !actor.Authenticated() {
		return apperror.Unauthorized("Authentication credentials were not provided")
	}
	return nil
}

func wrapDelete(err error, notFoundMsg string) error {
	if err != nil {
		return repoErr(err, notFoundMsg)
	}
	return nil
}
