package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobmarket-backend/config"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes embed the usecase interface so only the methods a test exercises
// need an implementation.

type fakeAuth struct {
	domain.AuthUsecase
}

func (fakeAuth) Authenticate(_ context.Context, token string) (*domain.Account, error) {
	switch token {
	case "seeker":
		return &domain.Account{ID: "seeker-1", Role: domain.RoleJobSeeker}, nil
	case "employer":
		return &domain.Account{ID: "employer-1", Role: domain.RoleEmployer}, nil
	}
	return nil, apperror.Unauthorized("Given token not valid for any token type")
}

type fakeJobs struct {
	domain.JobUsecase
	lastFilter  domain.JobFilter
	lastBaseURL string
	created     *domain.JobPostInput
}

func (f *fakeJobs) List(_ context.Context, _ domain.Actor, filter domain.JobFilter, baseURL string) ([]domain.JobPostDetail, int64, error) {
	f.lastFilter = filter
	f.lastBaseURL = baseURL
	return []domain.JobPostDetail{{JobPost: domain.JobPost{ID: 1, Title: "Go developer"}}}, 42, nil
}

func (f *fakeJobs) Create(_ context.Context, actor domain.Actor, input domain.JobPostInput) (*domain.JobPost, error) {
	f.created = &input
	return &domain.JobPost{ID: 9, Title: input.Title, EmployerID: actor.ID}, nil
}

type fakeCompanies struct {
	domain.CompanyUsecase
	follows map[string]bool
}

func (f *fakeCompanies) Follow(_ context.Context, actor domain.Actor, _ int64) (*domain.FollowState, error) {
	created := !f.follows[actor.ID]
	f.follows[actor.ID] = true
	return &domain.FollowState{Created: created, Followed: true, IsFollowing: true, FollowersCount: len(f.follows)}, nil
}

type fakeHealth struct{ ok bool }

func (f fakeHealth) Check(context.Context) (map[string]string, bool) {
	if f.ok {
		return map[string]string{"status": "ok"}, true
	}
	return map[string]string{"status": "unavailable"}, false
}

type testAPI struct {
	router    *gin.Engine
	jobs      *fakeJobs
	companies *fakeCompanies
}

func newTestAPI(t *testing.T, healthy bool, tweaks ...func(*config.Config)) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CORSAllowedOrigins:       []string{"http://localhost:3000"},
		RateLimitWindowSeconds:   60,
		RateLimitLoginThreshold:  1000,
		RateLimitGlobalThreshold: 1000,
		MaxUploadBytes:           1 << 20,
	}
	for _, tweak := range tweaks {
		tweak(cfg)
	}

	api := &testAPI{
		jobs:      &fakeJobs{},
		companies: &fakeCompanies{follows: map[string]bool{}},
	}
	api.router = NewRouter(RouterDeps{
		AuthUC:    fakeAuth{},
		JobUC:     api.jobs,
		CompanyUC: api.companies,
		HealthUC:  fakeHealth{ok: healthy},
		Config:    cfg,
	})
	return api
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	w := newTestAPI(t, true).do(http.MethodGet, "/api/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "System operational", decode(t, w)["message"])

	w = newTestAPI(t, false).do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRouteRejectsAnonymous(t *testing.T) {
	api := newTestAPI(t, true)

	w := api.do(http.MethodPost, "/api/companies/1/follow", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = api.do(http.MethodPost, "/api/companies/1/follow", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessTokenCookieDoesNotAuthenticate(t *testing.T) {
	api := newTestAPI(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/companies/1/follow", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "seeker"})
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.companies.follows)

	req = httptest.NewRequest(http.MethodPost, "/api/companies/1/follow", nil)
	req.Header.Set("Authorization", "Token seeker")
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "only the Bearer scheme is accepted")
}

func TestFollowIsCreatedOnceThenOK(t *testing.T) {
	api := newTestAPI(t, true)

	w := api.do(http.MethodPost, "/api/companies/3/follow", "seeker", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodPost, "/api/companies/3/follow", "seeker", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Already following", body["message"])
	assert.Equal(t, true, body["data"].(map[string]interface{})["is_following"])
}

func TestJobListPagingMeta(t *testing.T) {
	api := newTestAPI(t, true)

	w := api.do(http.MethodGet, "/api/vacancies/jobposts?limit=500&offset=-3&search=go", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	meta := decode(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, float64(42), meta["total"])
	assert.Equal(t, float64(defaultJobPageSize), meta["limit"])
	assert.Equal(t, float64(0), meta["offset"])
	assert.Equal(t, "go", api.jobs.lastFilter.Search)
	assert.Empty(t, api.jobs.lastFilter.EmployerID)
}

func forwardedJobList(api *testAPI, remoteAddr string) {
	req := httptest.NewRequest(http.MethodGet, "/api/vacancies/jobposts", nil)
	req.Host = "internal:8080"
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-Host", "jobs.example.com")
	req.Header.Set("X-Forwarded-Proto", "https")
	api.router.ServeHTTP(httptest.NewRecorder(), req)
}

func TestMediaBaseURLIgnoresForwardedHeadersByDefault(t *testing.T) {
	api := newTestAPI(t, true)

	forwardedJobList(api, "203.0.113.5:4000")
	assert.Equal(t, "http://internal:8080", api.jobs.lastBaseURL)
}

func TestMediaBaseURLHonoursTrustedProxy(t *testing.T) {
	api := newTestAPI(t, true, func(cfg *config.Config) {
		cfg.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.10"}
	})

	forwardedJobList(api, "10.1.2.3:4000")
	assert.Equal(t, "https://jobs.example.com", api.jobs.lastBaseURL)

	forwardedJobList(api, "192.0.2.10:4000")
	assert.Equal(t, "https://jobs.example.com", api.jobs.lastBaseURL)

	forwardedJobList(api, "192.0.2.11:4000")
	assert.Equal(t, "http://internal:8080", api.jobs.lastBaseURL, "peer outside the proxy list")
}

func TestMalformedProxyListTrustsNobody(t *testing.T) {
	api := newTestAPI(t, true, func(cfg *config.Config) {
		cfg.TrustedProxies = []string{"10.0.0.0/8", "proxy.internal"}
	})

	forwardedJobList(api, "10.1.2.3:4000")
	assert.Equal(t, "http://internal:8080", api.jobs.lastBaseURL)
}

func TestJobListMineNeedsAuthentication(t *testing.T) {
	api := newTestAPI(t, true)

	w := api.do(http.MethodGet, "/api/vacancies/jobposts?mine=true", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/vacancies/jobposts?mine=true", "employer", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "employer-1", api.jobs.lastFilter.EmployerID)
}

func TestJobListRejectsBadNumbers(t *testing.T) {
	w := newTestAPI(t, true).do(http.MethodGet, "/api/vacancies/jobposts?salary_min=lots", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateJobValidatesBody(t *testing.T) {
	api := newTestAPI(t, true)

	w := api.do(http.MethodPost, "/api/vacancies/jobposts", "employer", `{"plan":"Gold"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, api.jobs.created)

	w = api.do(http.MethodPost, "/api/vacancies/jobposts", "employer", `{"title":"Go developer","plan":"Pro"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, api.jobs.created)
	assert.Equal(t, "Go developer", api.jobs.created.Title)
}

func TestUnknownIDIsNotFound(t *testing.T) {
	w := newTestAPI(t, true).do(http.MethodPost, "/api/companies/abc/follow", "seeker", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
