package policy_test

import (
	"net/http"
	"testing"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/policy"
	"jobmarket-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

var (
	seeker   = policy.Actor{ID: "seeker-1", Role: domain.RoleJobSeeker}
	seeker2  = policy.Actor{ID: "seeker-2", Role: domain.RoleJobSeeker}
	employer = policy.Actor{ID: "employer-1", Role: domain.RoleEmployer}
	anon     = policy.Actor{}
)

func TestCombinators(t *testing.T) {
	yes := func(policy.Actor, policy.Resource) bool { return true }
	no := func(policy.Actor, policy.Resource) bool { return false }

	assert.True(t, policy.And()(anon, policy.Resource{}))
	assert.False(t, policy.Or()(anon, policy.Resource{}))
	assert.True(t, policy.And(yes, yes)(anon, policy.Resource{}))
	assert.False(t, policy.And(yes, no)(anon, policy.Resource{}))
	assert.True(t, policy.Or(no, yes)(anon, policy.Resource{}))
	assert.True(t, policy.Not(no)(anon, policy.Resource{}))
}

func TestCanDeleteApplicationIsADisjunction(t *testing.T) {
	app := policy.Resource{ApplicantID: seeker.ID, JobEmployerID: employer.ID}

	assert.True(t, policy.CanDeleteApplication(seeker, app), "applicant")
	assert.True(t, policy.CanDeleteApplication(employer, app), "employer of the job")
	assert.False(t, policy.CanDeleteApplication(seeker2, app), "unrelated seeker")
	assert.False(t, policy.CanDeleteApplication(anon, app), "anonymous")
}

func TestIsOwnerNeverMatchesEmptyIDs(t *testing.T) {
	assert.False(t, policy.IsOwner(anon, policy.Resource{}))
	assert.False(t, policy.IsOwner(seeker, policy.Resource{}))
	assert.True(t, policy.IsOwner(seeker, policy.Resource{OwnerID: seeker.ID}))
}

func TestIsEmployerOfJobFallsBackToOwner(t *testing.T) {
	assert.True(t, policy.IsEmployerOfJob(employer, policy.Resource{OwnerID: employer.ID}))
	assert.False(t, policy.IsEmployerOfJob(employer, policy.Resource{OwnerID: employer.ID, JobEmployerID: "someone-else"}))
}

func TestReadWriteAsymmetry(t *testing.T) {
	company := policy.Resource{OwnerID: employer.ID}

	assert.Equal(t, policy.Allow, policy.Default.Decide(anon, policy.CompanyRead, company))
	assert.Equal(t, policy.Allow, policy.Default.Decide(seeker, policy.CompanyRead, company))
	assert.Equal(t, policy.Deny, policy.Default.Decide(seeker, policy.CompanyUpdate, company))
	assert.Equal(t, policy.Allow, policy.Default.Decide(employer, policy.CompanyUpdate, company))
	assert.True(t, policy.PostRead.Safe())
	assert.False(t, policy.PostDelete.Safe())
}

func TestRoleGatedActions(t *testing.T) {
	assert.Equal(t, policy.Allow, policy.Default.Decide(seeker, policy.ApplicationApply, policy.Resource{}))
	assert.Equal(t, policy.Deny, policy.Default.Decide(employer, policy.ApplicationApply, policy.Resource{}))
	assert.Equal(t, policy.Allow, policy.Default.Decide(employer, policy.JobCreate, policy.Resource{}))
	assert.Equal(t, policy.Deny, policy.Default.Decide(seeker, policy.JobCreate, policy.Resource{}))
}

func TestUnknownActionIsDenied(t *testing.T) {
	assert.Equal(t, policy.Deny, policy.Default.Decide(employer, policy.Action("admin:nuke"), policy.Resource{}))
}

func TestAuthorizeErrorKinds(t *testing.T) {
	err := policy.Authorize(anon, policy.PostCreate, policy.Resource{})
	assert.Equal(t, http.StatusUnauthorized, err.(*apperror.AppError).Code)

	err = policy.Authorize(seeker2, policy.ApplicationDelete, policy.Resource{ApplicantID: seeker.ID, JobEmployerID: employer.ID})
	assert.True(t, apperror.Is(err, apperror.KindPermission))

	assert.NoError(t, policy.Authorize(seeker, policy.ApplicationDelete, policy.Resource{ApplicantID: seeker.ID}))
}
