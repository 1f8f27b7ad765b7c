// Package policy decides whether an actor may perform an action on a resource.
//
// Rules are plain predicates combined with And, Or and Not. Every action the
// API exposes has exactly one entry in the rule table; an action without an
// entry is denied.
package policy

import (
	"strings"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"
)

// Actor is the caller. The zero value is an anonymous caller.
type Actor = domain.Actor

// Resource carries the ownership facts a rule may inspect. Only the fields
// relevant to the action need to be set.
type Resource struct {
	// OwnerID is the owning account: company owner, job employer, post or
	// comment author, resume or collection owner.
	OwnerID string
	// ApplicantID and JobEmployerID describe a job application.
	ApplicantID   string
	JobEmployerID string
}

// Predicate is a single authorization rule.
type Predicate func(actor Actor, res Resource) bool

// And is true when every predicate is true. And() is true.
func And(ps ...Predicate) Predicate {
	return func(a Actor, r Resource) bool {
		for _, p := range ps {
			if !p(a, r) {
				return false
			}
		}
		return true
	}
}

// Or is true when any predicate is true. Or() is false.
func Or(ps ...Predicate) Predicate {
	return func(a Actor, r Resource) bool {
		for _, p := range ps {
			if p(a, r) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(a Actor, r Resource) bool { return !p(a, r) }
}

// Always allows everyone, anonymous callers included.
func Always(Actor, Resource) bool { return true }

func IsAuthenticated(a Actor, _ Resource) bool { return a.Authenticated() }

func HasRole(role domain.Role) Predicate {
	return func(a Actor, _ Resource) bool {
		return a.Authenticated() && a.Role == role
	}
}

func IsOwner(a Actor, r Resource) bool {
	return a.Authenticated() && r.OwnerID != "" && a.ID == r.OwnerID
}

func IsApplicant(a Actor, r Resource) bool {
	return a.Authenticated() && r.ApplicantID != "" && a.ID == r.ApplicantID
}

// IsEmployerOfJob holds for the employer who posted the job. The job's
// employer is read from JobEmployerID, falling back to OwnerID when the
// resource is the job itself.
func IsEmployerOfJob(a Actor, r Resource) bool {
	employer := r.JobEmployerID
	if employer == "" {
		employer = r.OwnerID
	}
	return a.Authenticated() && employer != "" && a.ID == employer
}

// CanDeleteApplication is shared by the two parties of an application.
var CanDeleteApplication = Or(IsApplicant, IsEmployerOfJob)

// Action names a guarded operation as "<resource>:<verb>".
type Action string

// Safe reports whether the action only reads state.
func (a Action) Safe() bool {
	_, verb, _ := strings.Cut(string(a), ":")
	return verb == "read" || verb == "list"
}

const (
	JobRead   Action = "job:read"
	JobCreate Action = "job:create"
	JobUpdate Action = "job:update"
	JobDelete Action = "job:delete"
	JobRate   Action = "job:rate"

	ApplicationApply         Action = "application:apply"
	ApplicationListForJob    Action = "application:list_for_job"
	ApplicationListEmployer  Action = "application:list_employer"
	ApplicationListMine      Action = "application:list_mine"
	ApplicationRead          Action = "application:read"
	ApplicationDelete        Action = "application:delete"
	ApplicationCancel        Action = "application:cancel"
	ApplicationViewApplicant Action = "application:view_applicant"
	ApplicationUpdateStatus  Action = "application:update_status"
	ApplicationExport        Action = "application:export"

	CompanyRead     Action = "company:read"
	CompanyCreate   Action = "company:create"
	CompanyUpdate   Action = "company:update"
	CompanyDelete   Action = "company:delete"
	CompanyFollow   Action = "company:follow"
	CompanyReview   Action = "company:review"
	CompanyAddPhoto Action = "company:add_photo"
	CompanyAddStory Action = "company:add_interview"

	PostRead      Action = "post:read"
	PostCreate    Action = "post:create"
	PostUpdate    Action = "post:update"
	PostDelete    Action = "post:delete"
	PostLike      Action = "post:like"
	PostShare     Action = "post:share"
	CommentCreate Action = "comment:create"
	CommentUpdate Action = "comment:update"
	CommentDelete Action = "comment:delete"

	ProfileRead   Action = "profile:read"
	ProfileUpdate Action = "profile:update"
	ProfileDelete Action = "profile:delete"

	ResumeRead  Action = "resume:read"
	ResumeWrite Action = "resume:write"
)

// OwnerOrReadOnly is the rule for publicly readable, owner-writable resources.
func OwnerOrReadOnly(action Action) Predicate {
	if action.Safe() {
		return Always
	}
	return IsOwner
}

// Rules maps each action to its predicate.
type Rules map[Action]Predicate

// Default is the rule table used by the API.
var Default = Rules{
	JobRead:   OwnerOrReadOnly(JobRead),
	JobCreate: HasRole(domain.RoleEmployer),
	JobUpdate: OwnerOrReadOnly(JobUpdate),
	JobDelete: OwnerOrReadOnly(JobDelete),
	JobRate:   IsAuthenticated,

	ApplicationApply:         HasRole(domain.RoleJobSeeker),
	ApplicationListForJob:    IsEmployerOfJob,
	ApplicationListEmployer:  HasRole(domain.RoleEmployer),
	ApplicationListMine:      IsAuthenticated,
	ApplicationRead:          CanDeleteApplication,
	ApplicationDelete:        CanDeleteApplication,
	ApplicationCancel:        HasRole(domain.RoleJobSeeker),
	ApplicationViewApplicant: IsEmployerOfJob,
	ApplicationUpdateStatus:  IsEmployerOfJob,
	ApplicationExport:        HasRole(domain.RoleEmployer),

	CompanyRead:     OwnerOrReadOnly(CompanyRead),
	CompanyCreate:   IsAuthenticated,
	CompanyUpdate:   OwnerOrReadOnly(CompanyUpdate),
	CompanyDelete:   OwnerOrReadOnly(CompanyDelete),
	CompanyFollow:   IsAuthenticated,
	CompanyReview:   IsAuthenticated,
	CompanyAddPhoto: IsAuthenticated,
	CompanyAddStory: IsAuthenticated,

	PostRead:      OwnerOrReadOnly(PostRead),
	PostCreate:    IsAuthenticated,
	PostUpdate:    OwnerOrReadOnly(PostUpdate),
	PostDelete:    OwnerOrReadOnly(PostDelete),
	PostLike:      IsAuthenticated,
	PostShare:     IsAuthenticated,
	CommentCreate: IsAuthenticated,
	CommentUpdate: IsOwner,
	CommentDelete: IsOwner,

	ProfileRead:   Always,
	ProfileUpdate: IsOwner,
	ProfileDelete: IsOwner,

	// Resumes are private to their owner, reads included.
	ResumeRead:  IsOwner,
	ResumeWrite: IsOwner,
}

// Decision is the outcome of evaluating a rule.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Decide evaluates the rule for action. Unknown actions are denied.
func (rs Rules) Decide(actor Actor, action Action, res Resource) Decision {
	p, ok := rs[action]
	if !ok {
		return Deny
	}
	return Decision(p(actor, res))
}

// Authorize turns a denial into an error: unauthenticated callers get 401 on
// non-public actions, authenticated ones get 403.
func (rs Rules) Authorize(actor Actor, action Action, res Resource) error {
	if rs.Decide(actor, action, res) == Allow {
		return nil
	}
	if !actor.Authenticated() {
		return apperror.Unauthorized("Authentication credentials were not provided")
	}
	return apperror.Forbidden("You do not have permission to perform this action")
}

// Authorize checks against the Default rule table.
func Authorize(actor Actor, action Action, res Resource) error {
	return Default.Authorize(actor, action, res)
}
