package profile_test

import (
	"testing"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/profile"

	"github.com/stretchr/testify/assert"
)

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust", "Python"}, profile.SplitSkills("Go, Rust Python"))
	assert.Equal(t, []string{"a", "b"}, profile.SplitSkills(" ,a,,\tb\n"))
	assert.Equal(t, []string{}, profile.SplitSkills(""))
}

func TestResolverSkillsChain(t *testing.T) {
	r := profile.New("https://api.example")
	acc := &domain.Account{ID: "u1"}

	t.Run("legacy delimited string", func(t *testing.T) {
		src := profile.WithProfile(acc, &domain.Resume{SkillsText: "Go, Rust Python"}, nil)
		assert.Equal(t, []string{"Go", "Rust", "Python"}, r.Skills(src))
	})

	t.Run("relation wins over profile", func(t *testing.T) {
		src := profile.WithProfile(acc,
			&domain.Resume{Skills: []string{"Java"}, SkillsText: "Perl"},
			[]domain.Skill{{Name: "Go"}, {Name: "SQL"}})
		assert.Equal(t, []string{"Go", "SQL"}, r.Skills(src))
	})

	t.Run("profile list before text", func(t *testing.T) {
		src := profile.WithProfile(acc, &domain.Resume{Skills: []string{"Java", " "}, SkillsText: "Perl"}, nil)
		assert.Equal(t, []string{"Java"}, r.Skills(src))
	})

	t.Run("no source gives an empty list", func(t *testing.T) {
		assert.Equal(t, []string{}, r.Skills(profile.FromAccount(acc, nil)))
	})
}

func TestResolverPlaceholders(t *testing.T) {
	r := profile.New("")
	mini := r.Mini(profile.FromAccount(&domain.Account{ID: "u1"}, nil))

	assert.Equal(t, "u1", mini.ID)
	assert.Equal(t, domain.Placeholder, mini.FullName)
	assert.Equal(t, domain.Placeholder, mini.Bio)
	assert.Equal(t, domain.Placeholder, mini.Position)
	assert.Equal(t, "", mini.Avatar)
	assert.NotNil(t, mini.Skills)
}

func TestResolverPriorityOrder(t *testing.T) {
	r := profile.New("https://api.example/")
	acc := &domain.Account{ID: "u1", FirstName: " Ada ", LastName: "Lovelace", Title: "Engineer"}
	resume := &domain.Resume{
		Title:           "My CV",
		DesiredPosition: "Backend developer",
		Photo:           "/media/resumes/ada.png",
		Headline:        "Builds things",
		Summary:         "Long summary",
	}

	mini := r.Mini(profile.WithProfile(acc, resume, nil))
	assert.Equal(t, "Ada Lovelace", mini.FullName)
	assert.Equal(t, "https://api.example/media/resumes/ada.png", mini.Avatar)
	assert.Equal(t, "Builds things", mini.Bio)
	assert.Equal(t, "Backend developer", mini.Position)

	acc.AboutMe = "From the account"
	acc.ProfileImage = "https://cdn.example/a.png"
	mini = r.Mini(profile.WithProfile(acc, resume, nil))
	assert.Equal(t, "From the account", mini.Bio)
	assert.Equal(t, "https://cdn.example/a.png", mini.Avatar)

	mini = r.Mini(profile.FromAccount(acc, nil))
	assert.Equal(t, "Engineer", mini.Position)
}

func TestResolverURL(t *testing.T) {
	r := profile.New("http://localhost:8080")
	assert.Equal(t, "http://localhost:8080/media/a.png", r.URL("/media/a.png"))
	assert.Equal(t, "http://localhost:8080/media/a.png", r.URL("media/a.png"))
	assert.Equal(t, "https://s3.example/a.png", r.URL("https://s3.example/a.png"))
	assert.Equal(t, "//cdn.example/a.png", r.URL("//cdn.example/a.png"))
	assert.Equal(t, "", r.URL(""))
	assert.Equal(t, "/media/a.png", profile.New("").URL("/media/a.png"))
}

func TestApplicantBioFallsBackToCoverLetter(t *testing.T) {
	r := profile.New("")
	src := profile.FromApplicant(domain.ApplicantSource{Account: &domain.Account{ID: "u1"}})

	assert.Equal(t, "Hire me", r.Applicant(src, "Hire me").Bio)
	assert.Equal(t, domain.Placeholder, r.Applicant(src, "").Bio)
}

func TestFullProfile(t *testing.T) {
	r := profile.New("https://api.example")
	salary := 1500.0
	acc := &domain.Account{ID: "u1", FirstName: "Ada", WorkHoursPerWeek: "More than 30 hrs/week", SalaryUSD: &salary}
	full := r.Full(profile.FromAccount(acc, nil), &domain.ProfileCollections{
		Certificates: []domain.Certificate{{Name: "CKA", FileURL: "/media/certs/cka.pdf"}},
		PortfolioProjects: []domain.PortfolioProject{{
			Title:  "Site",
			Skills: "Go,React",
			Media:  []domain.PortfolioMedia{{FileURL: "/media/p/1.png", FileType: domain.MediaImage}},
		}},
	})

	assert.Equal(t, "Ada", full.FullName)
	assert.Equal(t, "More than 30 hrs/week", full.WorkHoursPerWeek)
	assert.Equal(t, &salary, full.SalaryUSD)
	assert.Equal(t, "https://api.example/media/certs/cka.pdf", full.Certificates[0].FileURL)
	assert.Equal(t, []string{"Go", "React"}, full.PortfolioProjects[0].SkillsList)
	assert.Equal(t, "https://api.example/media/p/1.png", full.PortfolioProjects[0].Media[0].FileURL)
	assert.NotNil(t, full.Languages)
	assert.NotNil(t, full.Educations)
	assert.NotNil(t, full.Experiences)
}

func TestAuthorFallsBackToUsername(t *testing.T) {
	r := profile.New("")
	assert.Equal(t, "ada", r.Author(&domain.Account{ID: "u1", Username: "ada"}).FullName)
	assert.Equal(t, "Ada L", r.Author(&domain.Account{ID: "u1", Username: "ada", FirstName: "Ada", LastName: "L"}).FullName)
}

func TestSearchResultKeepsEmptyName(t *testing.T) {
	res := profile.New("").SearchResult(&domain.Account{ID: "u1", Username: "ada"})
	assert.Equal(t, "", res.FullName)
	assert.Equal(t, "ada", res.Username)
}
