package profile

import (
	"regexp"
	"strings"

	"jobmarket-backend/internal/domain"
)

// accessor reads one candidate value for a field from a Source.
type accessor[T any] struct {
	name string
	get  func(Source) T
}

// resolve walks the chain in order and returns the first non-empty value and the
// accessor that produced it.
func resolve[T any](src Source, chain []accessor[T], empty func(T) bool) (T, string, bool) {
	for _, a := range chain {
		if v := a.get(src); !empty(v) {
			return v, a.name, true
		}
	}
	var zero T
	return zero, "", false
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func noItems(s []string) bool { return len(s) == 0 }

func fromAccount(name string, f func(*domain.Account) string) accessor[string] {
	return accessor[string]{name: "account." + name, get: func(s Source) string {
		return f(s.account())
	}}
}

func fromProfile(name string, f func(*domain.Resume) string) accessor[string] {
	return accessor[string]{name: "profile." + name, get: func(s Source) string {
		if p, ok := s.profile(); ok {
			return f(p)
		}
		return ""
	}}
}

var fullNameChain = []accessor[string]{
	fromAccount("full_name", func(a *domain.Account) string { return a.FullName() }),
	fromAccount("first_last", func(a *domain.Account) string {
		return strings.TrimSpace(a.FirstName + " " + a.LastName)
	}),
}

var avatarChain = []accessor[string]{
	fromAccount("profile_image", func(a *domain.Account) string { return a.ProfileImage }),
	fromProfile("photo", func(r *domain.Resume) string { return r.Photo }),
}

var bioChain = []accessor[string]{
	fromAccount("about_me", func(a *domain.Account) string { return a.AboutMe }),
	fromProfile("headline", func(r *domain.Resume) string { return r.Headline }),
	fromProfile("summary", func(r *domain.Resume) string { return r.Summary }),
}

var positionChain = []accessor[string]{
	fromProfile("desired_position", func(r *domain.Resume) string { return r.DesiredPosition }),
	fromProfile("title", func(r *domain.Resume) string { return r.Title }),
	fromAccount("title", func(a *domain.Account) string { return a.Title }),
}

var skillsChain = []accessor[[]string]{
	{name: "account.skills", get: func(s Source) []string {
		names := make([]string, 0, len(s.Skills))
		for _, sk := range s.Skills {
			if !blank(sk.Name) {
				names = append(names, sk.Name)
			}
		}
		return names
	}},
	{name: "profile.skills", get: func(s Source) []string {
		if p, ok := s.profile(); ok {
			return dropBlank(p.Skills)
		}
		return nil
	}},
	{name: "profile.skills_text", get: func(s Source) []string {
		if p, ok := s.profile(); ok {
			return SplitSkills(p.SkillsText)
		}
		return nil
	}},
}

var skillSeparators = regexp.MustCompile(`[,\s]+`)

// SplitSkills splits a free-text skills value on commas and whitespace, dropping empties.
func SplitSkills(s string) []string {
	out := []string{}
	for _, part := range skillSeparators.Split(s, -1) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func dropBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
