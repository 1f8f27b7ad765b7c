package v1

import (
	"net/http"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	defaultJobPageSize = 20
	maxJobPageSize     = 100
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler registers job post routes. Reads are public; writes need a token.
func NewJobHandler(public, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	publicJobs := public.Group("/vacancies/jobposts")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.Get)
	}

	protectedJobs := protected.Group("/vacancies/jobposts")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PATCH("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
		protectedJobs.POST("/:id/rate", handler.Rate)
	}
}

// List godoc
// @Summary      List job posts
// @Description  Only posts with both budget bounds are listed, newest first.
// @Tags         jobs
// @Produce      json
// @Param        search      query     string  false  "Title contains (case-insensitive)"
// @Param        location    query     string  false  "Exact location (case-insensitive)"
// @Param        salary_min  query     number  false  "Minimum budget_min"
// @Param        salary_max  query     number  false  "Maximum budget_max"
// @Param        plan        query     string  false  "Basic, Pro or Premium"
// @Param        mine        query     bool    false  "Only the caller's posts"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Param        offset      query     int     false  "Offset"
// @Success      200         {object}  response.Response{data=[]domain.JobPostDetail}
// @Failure      400         {object}  response.Response
// @Router       /vacancies/jobposts [get]
func (h *JobHandler) List(c *gin.Context) {
	// 1. Parse filters
	filter := domain.JobFilter{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Plan:     c.Query("plan"),
	}
	var err error
	if filter.SalaryMin, err = queryFloat(c, "salary_min"); err != nil {
		c.Error(err)
		return
	}
	if filter.SalaryMax, err = queryFloat(c, "salary_max"); err != nil {
		c.Error(err)
		return
	}
	if filter.Limit, err = queryInt(c, "limit", defaultJobPageSize); err != nil {
		c.Error(err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		c.Error(err)
		return
	}
	if filter.Limit <= 0 || filter.Limit > maxJobPageSize {
		filter.Limit = defaultJobPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	actor := middleware.ActorFrom(c)
	if c.Query("mine") == "true" {
		if !actor.Authenticated() {
			c.Error(apperror.Unauthorized("Authentication credentials were not provided"))
			return
		}
		filter.EmployerID = actor.ID
	}

	// 2. Query
	jobs, total, err := h.jobUC.List(c.Request.Context(), actor, filter, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Page(c, "Job posts retrieved", jobs, total, filter.Limit, filter.Offset)
}

// Get godoc
// @Summary      Get a job post
// @Description  Includes rating aggregate, budget label, company summary and the employer's other open vacancies.
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response{data=domain.JobPostDetail}
// @Failure      404  {object}  response.Response
// @Router       /vacancies/jobposts/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	job, err := h.jobUC.Get(c.Request.Context(), middleware.ActorFrom(c), id, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post retrieved", job)
}

// Create godoc
// @Summary      Create a job post
// @Description  Employers only.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.JobPostInput  true  "Job post"
// @Success      201   {object}  response.Response{data=domain.JobPost}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /vacancies/jobposts [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.JobPostInput
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	job, err := h.jobUC.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job post created", job)
}

// Update godoc
// @Summary      Update a job post
// @Description  Owner only.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Job ID"
// @Param        body  body      domain.JobPostInput  true  "Job post"
// @Success      200   {object}  response.Response{data=domain.JobPost}
// @Failure      403   {object}  response.Response
// @Router       /vacancies/jobposts/{id} [patch]
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.JobPostInput
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	job, err := h.jobUC.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job post updated", job)
}

// Delete godoc
// @Summary      Delete a job post
// @Tags         jobs
// @Security     BearerAuth
// @Param        id   path  int  true  "Job ID"
// @Success      204
// @Failure      403  {object}  response.Response
// @Router       /vacancies/jobposts/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.jobUC.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type RateRequest struct {
	Stars int `json:"stars" binding:"required,min=1,max=5"`
}

// Rate godoc
// @Summary      Rate a job post
// @Description  One rating per user; rating again replaces the previous stars.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Job ID"
// @Param        body  body      RateRequest  true  "Stars (1-5)"
// @Success      200   {object}  response.Response{data=domain.JobRatingStats}
// @Failure      400   {object}  response.Response
// @Router       /vacancies/jobposts/{id}/rate [post]
func (h *JobHandler) Rate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req RateRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	stats, err := h.jobUC.Rate(c.Request.Context(), middleware.ActorFrom(c), id, req.Stars)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Rating saved", stats)
}
