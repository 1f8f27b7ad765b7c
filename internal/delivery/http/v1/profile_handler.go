package v1

import (
	"net/http"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
	maxUpload int64
}

// NewProfileHandler registers the editable account fields and the profile read models.
func NewProfileHandler(public, protected *gin.RouterGroup, profileUC domain.ProfileUsecase, maxUpload int64) {
	handler := &ProfileHandler{profileUC: profileUC, maxUpload: maxUpload}

	publicAuth := public.Group("/auth")
	{
		publicAuth.GET("/users/search", handler.SearchUsers)
		publicAuth.GET("/users/:id", handler.PublicProfile)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/profile/full", handler.OwnProfile)
		protectedAuth.PATCH("/profile/photo", handler.UpdatePhoto)
		protectedAuth.POST("/update-location", handler.UpdateLocation)
		protectedAuth.PATCH("/update-work-hours", handler.UpdateWorkHours)
		protectedAuth.PATCH("/update-title", handler.UpdateTitle)
		protectedAuth.PATCH("/update-salary", handler.UpdateSalary)
		protectedAuth.PATCH("/update-about", handler.UpdateAboutMe)
	}

	handler.registerCollections(protected)
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type WorkHoursRequest struct {
	WorkHoursPerWeek string `json:"work_hours_per_week"`
}

type TitleRequest struct {
	Title string `json:"title"`
}

type SalaryRequest struct {
	SalaryUSD *float64 `json:"salary_usd"`
}

type AboutMeRequest struct {
	AboutMe string `json:"about_me"`
}

// accountResult runs a field update and writes the updated account.
func accountResult(c *gin.Context, message string, account *domain.Account, err error) {
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, account)
}

// UpdateLocation godoc
// @Summary      Save coordinates
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      LocationRequest  true  "Latitude and longitude"
// @Success      200   {object}  response.Response{data=domain.Account}
// @Failure      400   {object}  response.Response
// @Router       /auth/update-location [post]
func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	var req LocationRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	acc, err := h.profileUC.UpdateLocation(c.Request.Context(), middleware.ActorFrom(c), req.Latitude, req.Longitude)
	accountResult(c, "Location saved", acc, err)
}

// UpdateWorkHours godoc
// @Summary      Update weekly work hours
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      WorkHoursRequest  true  "Work hours"
// @Success      200   {object}  response.Response{data=domain.Account}
// @Failure      400   {object}  response.Response
// @Router       /auth/update-work-hours [patch]
func (h *ProfileHandler) UpdateWorkHours(c *gin.Context) {
	var req WorkHoursRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	acc, err := h.profileUC.UpdateWorkHours(c.Request.Context(), middleware.ActorFrom(c), req.WorkHoursPerWeek)
	accountResult(c, "Work hours updated", acc, err)
}

// UpdateTitle godoc
// @Summary      Update profile title
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      TitleRequest  true  "Title"
// @Success      200   {object}  response.Response{data=domain.Account}
// @Failure      400   {object}  response.Response
// @Router       /auth/update-title [patch]
func (h *ProfileHandler) UpdateTitle(c *gin.Context) {
	var req TitleRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	acc, err := h.profileUC.UpdateTitle(c.Request.Context(), middleware.ActorFrom(c), req.Title)
	accountResult(c, "Title updated successfully", acc, err)
}

// UpdateSalary godoc
// @Summary      Update expected salary
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      SalaryRequest  true  "Salary in USD"
// @Success      200   {object}  response.Response{data=domain.Account}
// @Failure      400   {object}  response.Response
// @Router       /auth/update-salary [patch]
func (h *ProfileHandler) UpdateSalary(c *gin.Context) {
	var req SalaryRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	acc, err := h.profileUC.UpdateSalary(c.Request.Context(), middleware.ActorFrom(c), req.SalaryUSD)
	accountResult(c, "Salary updated successfully", acc, err)
}

// UpdateAboutMe godoc
// @Summary      Update about me
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      AboutMeRequest  true  "About me"
// @Success      200   {object}  response.Response{data=domain.Account}
// @Failure      400   {object}  response.Response
// @Router       /auth/update-about [patch]
func (h *ProfileHandler) UpdateAboutMe(c *gin.Context) {
	var req AboutMeRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	acc, err := h.profileUC.UpdateAboutMe(c.Request.Context(), middleware.ActorFrom(c), req.AboutMe)
	accountResult(c, "About me updated successfully", acc, err)
}

// UpdatePhoto godoc
// @Summary      Replace profile photo
// @Description  Multipart upload in field profile_image. The image is re-encoded as JPEG and the previous file is removed.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        profile_image  formData  file  true  "Image"
// @Success      200            {object}  response.Response
// @Failure      400            {object}  response.Response
// @Router       /auth/profile/photo [patch]
func (h *ProfileHandler) UpdatePhoto(c *gin.Context) {
	file, err := requireFile(c, "profile_image", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}
	url, err := h.profileUC.ReplaceProfileImage(c.Request.Context(), middleware.ActorFrom(c), file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile photo updated", gin.H{"profile_image": url})
}

// OwnProfile godoc
// @Summary      Full profile of the caller
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.FullProfile}
// @Failure      401  {object}  response.Response
// @Router       /auth/profile/full [get]
func (h *ProfileHandler) OwnProfile(c *gin.Context) {
	full, err := h.profileUC.OwnProfile(c.Request.Context(), middleware.ActorFrom(c), baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", full)
}

// PublicProfile godoc
// @Summary      Public profile of a user
// @Tags         profile
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  response.Response{data=domain.ProfileMini}
// @Failure      404  {object}  response.Response
// @Router       /auth/users/{id} [get]
func (h *ProfileHandler) PublicProfile(c *gin.Context) {
	mini, err := h.profileUC.PublicProfile(c.Request.Context(), c.Param("id"), baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", mini)
}

// SearchUsers godoc
// @Summary      Search users
// @Description  Matches username, first and last name. An empty query returns an empty list.
// @Tags         profile
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  response.Response{data=[]domain.UserSearchResult}
// @Router       /auth/users/search [get]
func (h *ProfileHandler) SearchUsers(c *gin.Context) {
	results, err := h.profileUC.SearchUsers(c.Request.Context(), c.Query("q"), baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users", results)
}
