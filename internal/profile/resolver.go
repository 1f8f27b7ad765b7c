// Package profile flattens an account and its optional secondary profile into
// the public profile shapes served by the API.
package profile

import (
	"net/url"
	"strings"

	"jobmarket-backend/internal/domain"
)

// Resolver produces profile shapes. BaseURL absolutizes relative media URLs;
// it is usually the scheme and host of the incoming request.
type Resolver struct {
	BaseURL string
}

func New(baseURL string) Resolver {
	return Resolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

// FullName resolves the display name, "—" when nothing is set.
func (r Resolver) FullName(src Source) string {
	if v, _, ok := resolve(src, fullNameChain, blank); ok {
		return v
	}
	return domain.Placeholder
}

// Avatar resolves the absolute avatar URL, "" when there is none.
func (r Resolver) Avatar(src Source) string {
	v, _, _ := resolve(src, avatarChain, blank)
	return r.URL(v)
}

func (r Resolver) Bio(src Source) string {
	if v, _, ok := resolve(src, bioChain, blank); ok {
		return v
	}
	return domain.Placeholder
}

func (r Resolver) Position(src Source) string {
	if v, _, ok := resolve(src, positionChain, blank); ok {
		return v
	}
	return domain.Placeholder
}

// Skills never returns nil.
func (r Resolver) Skills(src Source) []string {
	if v, _, ok := resolve(src, skillsChain, noItems); ok {
		return v
	}
	return []string{}
}

// Mini is the public profile shape used by the user page.
func (r Resolver) Mini(src Source) domain.ProfileMini {
	return domain.ProfileMini{
		ID:       src.account().ID,
		FullName: r.FullName(src),
		Avatar:   r.Avatar(src),
		Bio:      r.Bio(src),
		Position: r.Position(src),
		Skills:   r.Skills(src),
	}
}

// Applicant is Mini for an application row; an empty bio falls back to the cover letter.
func (r Resolver) Applicant(src Source, coverLetter string) domain.ApplicantMini {
	mini := r.Mini(src)
	if mini.Bio == domain.Placeholder && !blank(coverLetter) {
		mini.Bio = coverLetter
	}
	return mini
}

// Full is Mini plus every owned collection with media URLs absolutized.
func (r Resolver) Full(src Source, c *domain.ProfileCollections) domain.FullProfile {
	if c == nil {
		c = &domain.ProfileCollections{}
	}
	acc := src.account()
	full := domain.FullProfile{
		ProfileMini:       r.Mini(src),
		WorkHoursPerWeek:  acc.WorkHoursPerWeek,
		SalaryUSD:         acc.SalaryUSD,
		Languages:         nonNil(c.Languages),
		Educations:        nonNil(c.Educations),
		Certificates:      make([]domain.Certificate, 0, len(c.Certificates)),
		Experiences:       nonNil(c.Experiences),
		PortfolioProjects: make([]domain.PortfolioProject, 0, len(c.PortfolioProjects)),
	}
	for _, cert := range c.Certificates {
		cert.FileURL = r.URL(cert.FileURL)
		full.Certificates = append(full.Certificates, cert)
	}
	for _, p := range c.PortfolioProjects {
		full.PortfolioProjects = append(full.PortfolioProjects, r.Project(p))
	}
	return full
}

// Project derives the skills list and absolutizes media URLs.
func (r Resolver) Project(p domain.PortfolioProject) domain.PortfolioProject {
	p.SkillsList = SplitSkills(p.Skills)
	media := make([]domain.PortfolioMedia, 0, len(p.Media))
	for _, m := range p.Media {
		m.FileURL = r.URL(m.FileURL)
		media = append(media, m)
	}
	p.Media = media
	return p
}

// SearchResult is the user directory row. The full name here is the plain
// first and last name, empty when unset.
func (r Resolver) SearchResult(acc *domain.Account) domain.UserSearchResult {
	src := FromAccount(acc, nil)
	name, _, _ := resolve(src, fullNameChain, blank)
	return domain.UserSearchResult{
		ID:        acc.ID,
		Username:  acc.Username,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		FullName:  name,
		AvatarURL: r.Avatar(src),
	}
}

// Author is the compact block embedded in posts; the name falls back to the username.
func (r Resolver) Author(acc *domain.Account) domain.AuthorRef {
	if acc == nil {
		return domain.AuthorRef{FullName: domain.Placeholder}
	}
	src := FromAccount(acc, nil)
	chain := append(fullNameChain[:len(fullNameChain):len(fullNameChain)],
		fromAccount("username", func(a *domain.Account) string { return a.Username }))
	name, _, ok := resolve(src, chain, blank)
	if !ok {
		name = domain.Placeholder
	}
	return domain.AuthorRef{ID: acc.ID, FullName: name, Avatar: r.Avatar(src)}
}

// URL makes raw absolute against BaseURL. Absolute and scheme-relative URLs
// pass through unchanged, as does everything when no base is known.
func (r Resolver) URL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		return raw
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return raw
	}
	if r.BaseURL == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return r.BaseURL + raw
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
