package v1

import (
	"net/http"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
	maxUpload int64
}

// NewCompanyHandler registers company routes. Reads are public; a valid token,
// when present, fills is_following.
func NewCompanyHandler(public, protected *gin.RouterGroup, companyUC domain.CompanyUsecase, maxUpload int64) {
	handler := &CompanyHandler{companyUC: companyUC, maxUpload: maxUpload}

	publicCompanies := public.Group("/companies")
	{
		publicCompanies.GET("", handler.List)
		publicCompanies.GET("/top", handler.Top)
		publicCompanies.GET("/:id", handler.Get)
		publicCompanies.GET("/:id/stats", handler.Stats)
		publicCompanies.GET("/:id/reviews", handler.ListReviews)
		publicCompanies.GET("/:id/photos", handler.ListPhotos)
		publicCompanies.GET("/:id/interviews", handler.ListInterviews)
	}

	protectedCompanies := protected.Group("/companies")
	{
		protectedCompanies.POST("", handler.Create)
		protectedCompanies.PATCH("/:id", handler.Update)
		protectedCompanies.DELETE("/:id", handler.Delete)
		protectedCompanies.PATCH("/:id/logo", handler.UploadLogo)
		protectedCompanies.POST("/:id/follow", handler.Follow)
		protectedCompanies.POST("/:id/unfollow", handler.Unfollow)
		protectedCompanies.POST("/:id/reviews", handler.SubmitReview)
		protectedCompanies.POST("/:id/photos", handler.AddPhoto)
		protectedCompanies.POST("/:id/interviews", handler.AddInterview)
	}
}

// List godoc
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Param        mine  query     bool  false  "Only companies owned by the caller"
// @Success      200   {object}  response.Response{data=[]domain.CompanyCard}
// @Router       /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	cards, err := h.companyUC.List(c.Request.Context(), middleware.ActorFrom(c), c.Query("mine") == "true", baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies retrieved", cards)
}

// Top godoc
// @Summary      Most followed companies
// @Description  Ordered by followers, ties broken by id.
// @Tags         companies
// @Produce      json
// @Param        limit  query     int  false  "How many (default 10)"
// @Success      200    {object}  response.Response{data=[]domain.CompanyCard}
// @Router       /companies/top [get]
func (h *CompanyHandler) Top(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.Error(err)
		return
	}
	cards, err := h.companyUC.Top(c.Request.Context(), middleware.ActorFrom(c), limit, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Top companies", cards)
}

// Get godoc
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response{data=domain.CompanyCard}
// @Failure      404  {object}  response.Response
// @Router       /companies/{id} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	card, err := h.companyUC.Get(c.Request.Context(), middleware.ActorFrom(c), id, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company retrieved", card)
}

// Stats godoc
// @Summary      Company statistics
// @Description  Live counts; avg_rating is rounded to two decimals and 0 without reviews.
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response{data=domain.CompanyStats}
// @Failure      404  {object}  response.Response
// @Router       /companies/{id}/stats [get]
func (h *CompanyHandler) Stats(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	stats, err := h.companyUC.Stats(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company stats", stats)
}

// Create godoc
// @Summary      Create a company
// @Description  The caller becomes the owner.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.CompanyInput  true  "Company"
// @Success      201   {object}  response.Response{data=domain.CompanyCard}
// @Failure      400   {object}  response.Response
// @Router       /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req domain.CompanyInput
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	card, err := h.companyUC.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company created", card)
}

// Update godoc
// @Summary      Update a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Company ID"
// @Param        body  body      domain.CompanyInput  true  "Company"
// @Success      200   {object}  response.Response{data=domain.CompanyCard}
// @Failure      403   {object}  response.Response
// @Router       /companies/{id} [patch]
func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.CompanyInput
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	card, err := h.companyUC.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company updated", card)
}

// Delete godoc
// @Summary      Delete a company
// @Tags         companies
// @Security     BearerAuth
// @Param        id   path  int  true  "Company ID"
// @Success      204
// @Failure      403  {object}  response.Response
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.companyUC.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadLogo godoc
// @Summary      Upload company logo
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int   true  "Company ID"
// @Param        logo  formData  file  true  "Logo image"
// @Success      200   {object}  response.Response{data=domain.CompanyCard}
// @Failure      403   {object}  response.Response
// @Router       /companies/{id}/logo [patch]
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	file, err := requireFile(c, "logo", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}
	card, err := h.companyUC.UploadLogo(c.Request.Context(), middleware.ActorFrom(c), id, file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logo updated", card)
}

// Follow godoc
// @Summary      Follow a company
// @Description  Idempotent. 201 when a new follow was recorded, 200 when it already existed.
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response{data=domain.FollowState}
// @Success      201  {object}  response.Response{data=domain.FollowState}
// @Failure      404  {object}  response.Response
// @Router       /companies/{id}/follow [post]
func (h *CompanyHandler) Follow(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	state, err := h.companyUC.Follow(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	if state.Created {
		response.Success(c, http.StatusCreated, "Followed", state)
		return
	}
	response.Success(c, http.StatusOK, "Already following", state)
}

// Unfollow godoc
// @Summary      Unfollow a company
// @Description  Idempotent.
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response{data=domain.FollowState}
// @Failure      404  {object}  response.Response
// @Router       /companies/{id}/unfollow [post]
func (h *CompanyHandler) Unfollow(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	state, err := h.companyUC.Unfollow(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Unfollowed", state)
}

// ListReviews godoc
// @Summary      Company reviews
// @Description  Newest first.
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response{data=[]domain.CompanyReview}
// @Router       /companies/{id}/reviews [get]
func (h *CompanyHandler) ListReviews(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	reviews, err := h.companyUC.ListReviews(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Reviews", reviews)
}

// SubmitReview godoc
// @Summary      Review a company
// @Description  One review per user and company; a second attempt returns 409.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Company ID"
// @Param        body  body      domain.ReviewInput  true  "Review"
// @Success      201   {object}  response.Response{data=domain.CompanyReview}
// @Failure      409   {object}  response.Response
// @Router       /companies/{id}/reviews [post]
func (h *CompanyHandler) SubmitReview(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.ReviewInput
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	review, err := h.companyUC.SubmitReview(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Review submitted", review)
}

// ListPhotos godoc
// @Summary      Company photos
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response{data=[]domain.CompanyPhoto}
// @Router       /companies/{id}/photos [get]
func (h *CompanyHandler) ListPhotos(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	photos, err := h.companyUC.ListPhotos(c.Request.Context(), id, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Photos", photos)
}

// AddPhoto godoc
// @Summary      Add a company photo
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int     true   "Company ID"
// @Param        image    formData  file    true   "Photo"
// @Param        caption  formData  string  false  "Caption"
// @Success      201      {object}  response.Response{data=domain.CompanyPhoto}
// @Router       /companies/{id}/photos [post]
func (h *CompanyHandler) AddPhoto(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	file, err := requireFile(c, "image", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}
	photo, err := h.companyUC.AddPhoto(c.Request.Context(), middleware.ActorFrom(c), id, c.PostForm("caption"), file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Photo added", photo)
}

// ListInterviews godoc
// @Summary      Interview experiences
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response{data=[]domain.InterviewExperience}
// @Router       /companies/{id}/interviews [get]
func (h *CompanyHandler) ListInterviews(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	items, err := h.companyUC.ListInterviews(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview experiences", items)
}

// AddInterview godoc
// @Summary      Share an interview experience
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Company ID"
// @Param        body  body      domain.InterviewInput  true  "Experience"
// @Success      201   {object}  response.Response{data=domain.InterviewExperience}
// @Router       /companies/{id}/interviews [post]
func (h *CompanyHandler) AddInterview(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.InterviewInput
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	item, err := h.companyUC.AddInterview(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Interview experience added", item)
}
