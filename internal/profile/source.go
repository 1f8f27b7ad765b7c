package profile

import "jobmarket-backend/internal/domain"

// Kind tells which storage paths a Source carries.
type Kind int

const (
	// AccountOnly sources only have the account row and its relations.
	AccountOnly Kind = iota
	// AccountWithProfile sources also carry the secondary profile object (the latest resume).
	AccountWithProfile
)

func (k Kind) String() string {
	if k == AccountWithProfile {
		return "account+profile"
	}
	return "account"
}

// Source is everything the resolver may read for one account.
type Source struct {
	Kind    Kind
	Account *domain.Account
	Profile *domain.Resume
	Skills  []domain.Skill
}

// FromAccount builds an AccountOnly source.
func FromAccount(acc *domain.Account, skills []domain.Skill) Source {
	return Source{Kind: AccountOnly, Account: acc, Skills: skills}
}

// WithProfile builds an AccountWithProfile source, degrading to AccountOnly when resume is nil.
func WithProfile(acc *domain.Account, resume *domain.Resume, skills []domain.Skill) Source {
	if resume == nil {
		return FromAccount(acc, skills)
	}
	return Source{Kind: AccountWithProfile, Account: acc, Profile: resume, Skills: skills}
}

// FromApplicant adapts the repository's applicant bundle.
func FromApplicant(a domain.ApplicantSource) Source {
	return WithProfile(a.Account, a.Resume, a.Skills)
}

func (s Source) account() *domain.Account {
	if s.Account == nil {
		return &domain.Account{}
	}
	return s.Account
}

func (s Source) profile() (*domain.Resume, bool) {
	if s.Kind != AccountWithProfile || s.Profile == nil {
		return nil, false
	}
	return s.Profile, true
}
