package domain

import "context"

// Placeholder is shown for text fields no source could fill.
const Placeholder = "—"

// ProfileMini is the canonical public shape of an account.
type ProfileMini struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Avatar   string   `json:"avatar"`
	Bio      string   `json:"bio"`
	Position string   `json:"position"`
	Skills   []string `json:"skills"`
}

// ApplicantMini is ProfileMini as shown in an application list.
type ApplicantMini = ProfileMini

// UserSearchResult is a row of the user search.
type UserSearchResult struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// FullProfile is ProfileMini with every owned collection, media URLs absolutized.
type FullProfile struct {
	ProfileMini
	WorkHoursPerWeek  string             `json:"work_hours_per_week"`
	SalaryUSD         *float64           `json:"salary_usd"`
	Languages         []LanguageSkill    `json:"languages"`
	Educations        []Education        `json:"educations"`
	PortfolioProjects []PortfolioProject `json:"portfolio_projects"`
	Certificates      []Certificate      `json:"certificates"`
	Experiences       []WorkExperience   `json:"experiences"`
}

// ProfileUsecase covers the account's own profile, its collections, resumes
// and the public user directory.
type ProfileUsecase interface {
	UpdateLocation(ctx context.Context, actor Actor, lat, lng *float64) (*Account, error)
	UpdateWorkHours(ctx context.Context, actor Actor, hours string) (*Account, error)
	UpdateTitle(ctx context.Context, actor Actor, title string) (*Account, error)
	UpdateSalary(ctx context.Context, actor Actor, salary *float64) (*Account, error)
	UpdateAboutMe(ctx context.Context, actor Actor, about string) (*Account, error)
	ReplaceProfileImage(ctx context.Context, actor Actor, file Upload) (string, error)

	OwnProfile(ctx context.Context, actor Actor, baseURL string) (*FullProfile, error)
	PublicProfile(ctx context.Context, accountID, baseURL string) (*ProfileMini, error)
	SearchUsers(ctx context.Context, query, baseURL string) ([]UserSearchResult, error)

	ListLanguages(ctx context.Context, actor Actor) ([]LanguageSkill, error)
	CreateLanguage(ctx context.Context, actor Actor, l LanguageSkill) (*LanguageSkill, error)
	UpdateLanguage(ctx context.Context, actor Actor, id int64, l LanguageSkill) (*LanguageSkill, error)
	DeleteLanguage(ctx context.Context, actor Actor, id int64) error

	ListEducations(ctx context.Context, actor Actor) ([]Education, error)
	CreateEducation(ctx context.Context, actor Actor, e Education) (*Education, error)
	UpdateEducation(ctx context.Context, actor Actor, id int64, e Education) (*Education, error)
	DeleteEducation(ctx context.Context, actor Actor, id int64) error

	ListCertificates(ctx context.Context, actor Actor, baseURL string) ([]Certificate, error)
	CreateCertificate(ctx context.Context, actor Actor, c Certificate, file *Upload) (*Certificate, error)
	DeleteCertificate(ctx context.Context, actor Actor, id int64) error

	ListExperiences(ctx context.Context, actor Actor) ([]WorkExperience, error)
	CreateExperience(ctx context.Context, actor Actor, e WorkExperience) (*WorkExperience, error)
	UpdateExperience(ctx context.Context, actor Actor, id int64, e WorkExperience) (*WorkExperience, error)
	DeleteExperience(ctx context.Context, actor Actor, id int64) error

	ListProjects(ctx context.Context, actor Actor, baseURL string) ([]PortfolioProject, error)
	CreateProject(ctx context.Context, actor Actor, p PortfolioProject) (*PortfolioProject, error)
	UpdateProject(ctx context.Context, actor Actor, id int64, p PortfolioProject) (*PortfolioProject, error)
	DeleteProject(ctx context.Context, actor Actor, id int64) error
	AddProjectMedia(ctx context.Context, actor Actor, projectID int64, fileType MediaType, file Upload) (*PortfolioMedia, error)
	DeleteProjectMedia(ctx context.Context, actor Actor, mediaID int64) error

	ListSkills(ctx context.Context, actor Actor) ([]Skill, error)
	AddSkills(ctx context.Context, actor Actor, names []string) ([]Skill, error)
	RenameSkill(ctx context.Context, actor Actor, id int64, name string) (*Skill, error)
	DeleteSkill(ctx context.Context, actor Actor, id int64) error

	ListSkillAnswers(ctx context.Context, actor Actor) ([]SkillAnswer, error)
	AnswerSkill(ctx context.Context, actor Actor, skillID int64, answer SkillAnswerValue) (*SkillAnswer, error)

	ListResumes(ctx context.Context, actor Actor) ([]Resume, error)
	GetResume(ctx context.Context, actor Actor, id int64) (*Resume, error)
	MyResume(ctx context.Context, actor Actor) (*Resume, error)
	CreateResume(ctx context.Context, actor Actor, r Resume) (*Resume, error)
	UpdateResume(ctx context.Context, actor Actor, id int64, r Resume) (*Resume, error)
	DeleteResume(ctx context.Context, actor Actor, id int64) error
}
