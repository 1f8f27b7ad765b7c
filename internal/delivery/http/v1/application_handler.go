package v1

import (
	"net/http"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes. Every route needs an
// authenticated caller; role and ownership checks happen in the usecase.
func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	apps := protected.Group("/applications")
	{
		// Job seeker
		apps.POST("/apply", handler.Apply)
		apps.GET("/mine", handler.ListMine)
		apps.DELETE("/jobs/:jobId/mine", handler.Cancel)

		// Employer
		apps.GET("/jobs/:jobId/applications", handler.ListForJob)
		apps.GET("/my/applications", handler.ListForEmployer)
		apps.GET("/my/export", handler.Export)
		apps.PATCH("/:id/status", handler.UpdateStatus)
		apps.GET("/:id/applicant", handler.ViewApplicant)

		// Either party
		apps.GET("/:id", handler.Get)
		apps.DELETE("/:id", handler.Delete)
	}
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Job seekers only. The job must be active and not filled; a second application to the same job is rejected.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.ApplyInput  true  "Application"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /applications/apply [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	// 1. Bind request
	var req domain.ApplyInput
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	// 2. Apply
	app, err := h.applicationUC.Apply(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListMine godoc
// @Summary      My applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Router       /applications/mine [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.applicationUC.ListMine(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// Cancel godoc
// @Summary      Withdraw my application to a job
// @Tags         applications
// @Security     BearerAuth
// @Param        jobId  path  int  true  "Job ID"
// @Success      204
// @Failure      404    {object}  response.Response
// @Router       /applications/jobs/{jobId}/mine [delete]
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.applicationUC.Cancel(c.Request.Context(), middleware.ActorFrom(c), jobID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListForJob godoc
// @Summary      Applications for one job
// @Description  Only the employer who posted the job.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.ApplicationView}
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /applications/jobs/{jobId}/applications [get]
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}
	views, err := h.applicationUC.ListForJob(c.Request.Context(), middleware.ActorFrom(c), jobID, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", views)
}

// ListForEmployer godoc
// @Summary      Applications across my jobs
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        job  query     int  false  "Restrict to one job"
// @Success      200  {object}  response.Response{data=[]domain.ApplicationView}
// @Failure      403  {object}  response.Response
// @Router       /applications/my/applications [get]
func (h *ApplicationHandler) ListForEmployer(c *gin.Context) {
	jobID, err := queryInt64Ptr(c, "job")
	if err != nil {
		c.Error(err)
		return
	}
	views, err := h.applicationUC.ListForEmployer(c.Request.Context(), middleware.ActorFrom(c), jobID, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", views)
}

// Export godoc
// @Summary      Export applications
// @Description  Downloads the employer's applications as an XLSX workbook.
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        job  query  int  false  "Restrict to one job"
// @Success      200  {file}  file
// @Failure      403  {object}  response.Response
// @Router       /applications/my/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	jobID, err := queryInt64Ptr(c, "job")
	if err != nil {
		c.Error(err)
		return
	}
	data, filename, err := h.applicationUC.Export(c.Request.Context(), middleware.ActorFrom(c), jobID, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// UpdateStatusRequest moves an application through the hiring pipeline.
type UpdateStatusRequest struct {
	Status domain.ApplicationStatus `json:"status" binding:"required,oneof=APPLIED SHORTLISTED REJECTED HIRED"`
}

// UpdateStatus godoc
// @Summary      Update application status
// @Description  Employer of the job only. APPLIED may move to SHORTLISTED, REJECTED or HIRED; SHORTLISTED to REJECTED or HIRED.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      UpdateStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	app, err := h.applicationUC.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}

// ViewApplicant godoc
// @Summary      Applicant profile
// @Description  Full profile of the applicant, visible to the employer of the job.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.FullProfile}
// @Failure      403  {object}  response.Response
// @Router       /applications/{id}/applicant [get]
func (h *ApplicationHandler) ViewApplicant(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	profile, err := h.applicationUC.ViewApplicant(c.Request.Context(), middleware.ActorFrom(c), id, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applicant profile", profile)
}

// Get godoc
// @Summary      Get an application
// @Description  Visible to the applicant and to the employer of the job.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	app, err := h.applicationUC.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// Delete godoc
// @Summary      Delete an application
// @Description  The applicant or the employer of the job.
// @Tags         applications
// @Security     BearerAuth
// @Param        id   path  int  true  "Application ID"
// @Success      204
// @Failure      403  {object}  response.Response
// @Router       /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.applicationUC.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
