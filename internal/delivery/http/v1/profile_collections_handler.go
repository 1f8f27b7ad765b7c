package v1

import (
	"context"
	"net/http"
	"time"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func (h *ProfileHandler) registerCollections(protected *gin.RouterGroup) {
	languages := protected.Group("/languages")
	{
		languages.GET("", h.ListLanguages)
		languages.POST("", h.CreateLanguage)
		languages.PUT("/:id", h.UpdateLanguage)
		languages.DELETE("/:id", h.DeleteLanguage)
	}

	educations := protected.Group("/educations")
	{
		educations.GET("", h.ListEducations)
		educations.POST("", h.CreateEducation)
		educations.PUT("/:id", h.UpdateEducation)
		educations.DELETE("/:id", h.DeleteEducation)
	}

	certificates := protected.Group("/certificates")
	{
		certificates.GET("", h.ListCertificates)
		certificates.POST("", h.CreateCertificate)
		certificates.DELETE("/:id", h.DeleteCertificate)
	}

	experiences := protected.Group("/experiences")
	{
		experiences.GET("", h.ListExperiences)
		experiences.POST("", h.CreateExperience)
		experiences.PUT("/:id", h.UpdateExperience)
		experiences.DELETE("/:id", h.DeleteExperience)
	}

	projects := protected.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.POST("", h.CreateProject)
		projects.PUT("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.POST("/:id/media", h.AddProjectMedia)
	}
	protected.DELETE("/portfolio-media/:id", h.DeleteProjectMedia)

	skills := protected.Group("/skills")
	{
		skills.GET("", h.ListSkills)
		skills.POST("", h.AddSkills)
		skills.PATCH("/:id", h.RenameSkill)
		skills.DELETE("/:id", h.DeleteSkill)
	}

	answers := protected.Group("/skill-answers")
	{
		answers.GET("", h.ListSkillAnswers)
		answers.POST("", h.AnswerSkill)
	}

	resumes := protected.Group("/resumes")
	{
		resumes.GET("", h.ListResumes)
		resumes.GET("/mine", h.MyResume)
		resumes.PATCH("/mine", h.UpdateMyResume)
		resumes.POST("", h.CreateResume)
		resumes.GET("/:id", h.GetResume)
		resumes.PUT("/:id", h.UpdateResume)
		resumes.DELETE("/:id", h.DeleteResume)
	}
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apperror.Validation("Invalid input").WithDetails(map[string]string{field: "must be a date in YYYY-MM-DD format"})
	}
	return t, nil
}

// ==================== LANGUAGES ====================

// ListLanguages godoc
// @Summary      List language skills
// @Tags         profile-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.LanguageSkill}
// @Router       /languages [get]
func (h *ProfileHandler) ListLanguages(c *gin.Context) {
	items, err := h.profileUC.ListLanguages(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Languages", items)
}

// CreateLanguage godoc
// @Summary      Add a language skill
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.LanguageSkill  true  "Language"
// @Success      201   {object}  response.Response{data=domain.LanguageSkill}
// @Router       /languages [post]
func (h *ProfileHandler) CreateLanguage(c *gin.Context) {
	var req domain.LanguageSkill
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.CreateLanguage(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Language added", item)
}

// UpdateLanguage godoc
// @Summary      Update a language skill
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Language ID"
// @Param        body  body      domain.LanguageSkill  true  "Language"
// @Success      200   {object}  response.Response{data=domain.LanguageSkill}
// @Failure      404   {object}  response.Response
// @Router       /languages/{id} [put]
func (h *ProfileHandler) UpdateLanguage(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.LanguageSkill
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.UpdateLanguage(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Language updated", item)
}

// DeleteLanguage godoc
// @Summary      Delete a language skill
// @Tags         profile-collections
// @Security     BearerAuth
// @Param        id   path  int  true  "Language ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /languages/{id} [delete]
func (h *ProfileHandler) DeleteLanguage(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteLanguage)
}

// deleteByID is the shared shape of every owned-row delete: parse, delete, 204.
func (h *ProfileHandler) deleteByID(c *gin.Context, del func(ctx context.Context, actor domain.Actor, id int64) error) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := del(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ==================== EDUCATION ====================

// ListEducations godoc
// @Summary      List education entries
// @Tags         profile-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Education}
// @Router       /educations [get]
func (h *ProfileHandler) ListEducations(c *gin.Context) {
	items, err := h.profileUC.ListEducations(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education", items)
}

// CreateEducation godoc
// @Summary      Add an education entry
// @Description  end_year must not be before start_year.
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Education  true  "Education"
// @Success      201   {object}  response.Response{data=domain.Education}
// @Failure      400   {object}  response.Response
// @Router       /educations [post]
func (h *ProfileHandler) CreateEducation(c *gin.Context) {
	var req domain.Education
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.CreateEducation(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Education added", item)
}

// UpdateEducation godoc
// @Summary      Update an education entry
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Education ID"
// @Param        body  body      domain.Education  true  "Education"
// @Success      200   {object}  response.Response{data=domain.Education}
// @Failure      404   {object}  response.Response
// @Router       /educations/{id} [put]
func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.Education
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.UpdateEducation(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education updated", item)
}

// DeleteEducation godoc
// @Summary      Delete an education entry
// @Tags         profile-collections
// @Security     BearerAuth
// @Param        id   path  int  true  "Education ID"
// @Success      204
// @Router       /educations/{id} [delete]
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteEducation)
}

// ==================== CERTIFICATES ====================

// ListCertificates godoc
// @Summary      List certificates
// @Tags         profile-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Certificate}
// @Router       /certificates [get]
func (h *ProfileHandler) ListCertificates(c *gin.Context) {
	items, err := h.profileUC.ListCertificates(c.Request.Context(), middleware.ActorFrom(c), baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Certificates", items)
}

// CreateCertificate godoc
// @Summary      Add a certificate
// @Tags         profile-collections
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name          formData  string  true   "Certificate name"
// @Param        organization  formData  string  true   "Issuing organization"
// @Param        issue_date    formData  string  true   "Issue date (YYYY-MM-DD)"
// @Param        file          formData  file    false  "Scan or PDF"
// @Success      201           {object}  response.Response{data=domain.Certificate}
// @Failure      400           {object}  response.Response
// @Router       /certificates [post]
func (h *ProfileHandler) CreateCertificate(c *gin.Context) {
	issued, err := parseDate("issue_date", c.PostForm("issue_date"))
	if err != nil {
		c.Error(err)
		return
	}
	file, err := formFile(c, "file", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}
	cert := domain.Certificate{
		Name:         c.PostForm("name"),
		Organization: c.PostForm("organization"),
		IssueDate:    issued,
	}
	item, err := h.profileUC.CreateCertificate(c.Request.Context(), middleware.ActorFrom(c), cert, file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Certificate added", item)
}

// DeleteCertificate godoc
// @Summary      Delete a certificate
// @Tags         profile-collections
// @Security     BearerAuth
// @Param        id   path  int  true  "Certificate ID"
// @Success      204
// @Router       /certificates/{id} [delete]
func (h *ProfileHandler) DeleteCertificate(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteCertificate)
}

// ==================== WORK EXPERIENCE ====================

type ExperienceRequest struct {
	CompanyName string  `json:"company_name" binding:"required,max=255"`
	Position    string  `json:"position" binding:"required,max=255"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     *string `json:"end_date"`
	Description string  `json:"description"`
	City        string  `json:"city" binding:"max=100"`
	Country     string  `json:"country" binding:"max=100"`
}

func (r ExperienceRequest) toDomain() (domain.WorkExperience, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return domain.WorkExperience{}, err
	}
	exp := domain.WorkExperience{
		CompanyName: r.CompanyName,
		Position:    r.Position,
		StartDate:   start,
		Description: r.Description,
		City:        r.City,
		Country:     r.Country,
	}
	if r.EndDate != nil && *r.EndDate != "" {
		end, err := parseDate("end_date", *r.EndDate)
		if err != nil {
			return domain.WorkExperience{}, err
		}
		exp.EndDate = &end
	}
	return exp, nil
}

func (h *ProfileHandler) bindExperience(c *gin.Context) (domain.WorkExperience, error) {
	var req ExperienceRequest
	if err := bind(c, &req); err != nil {
		return domain.WorkExperience{}, err
	}
	return req.toDomain()
}

// ListExperiences godoc
// @Summary      List work experience
// @Tags         profile-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.WorkExperience}
// @Router       /experiences [get]
func (h *ProfileHandler) ListExperiences(c *gin.Context) {
	items, err := h.profileUC.ListExperiences(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experiences", items)
}

// CreateExperience godoc
// @Summary      Add work experience
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ExperienceRequest  true  "Experience"
// @Success      201   {object}  response.Response{data=domain.WorkExperience}
// @Failure      400   {object}  response.Response
// @Router       /experiences [post]
func (h *ProfileHandler) CreateExperience(c *gin.Context) {
	exp, err := h.bindExperience(c)
	if err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.CreateExperience(c.Request.Context(), middleware.ActorFrom(c), exp)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Experience added", item)
}

// UpdateExperience godoc
// @Summary      Update work experience
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Experience ID"
// @Param        body  body      ExperienceRequest  true  "Experience"
// @Success      200   {object}  response.Response{data=domain.WorkExperience}
// @Router       /experiences/{id} [put]
func (h *ProfileHandler) UpdateExperience(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	exp, err := h.bindExperience(c)
	if err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.UpdateExperience(c.Request.Context(), middleware.ActorFrom(c), id, exp)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience updated", item)
}

// DeleteExperience godoc
// @Summary      Delete work experience
// @Tags         profile-collections
// @Security     BearerAuth
// @Param        id   path  int  true  "Experience ID"
// @Success      204
// @Router       /experiences/{id} [delete]
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteExperience)
}

// ==================== PORTFOLIO ====================

// ListProjects godoc
// @Summary      List portfolio projects
// @Tags         profile-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.PortfolioProject}
// @Router       /projects [get]
func (h *ProfileHandler) ListProjects(c *gin.Context) {
	items, err := h.profileUC.ListProjects(c.Request.Context(), middleware.ActorFrom(c), baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Projects", items)
}

// CreateProject godoc
// @Summary      Add a portfolio project
// @Description  skills is a comma separated string; skills_list is derived from it.
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.PortfolioProject  true  "Project"
// @Success      201   {object}  response.Response{data=domain.PortfolioProject}
// @Router       /projects [post]
func (h *ProfileHandler) CreateProject(c *gin.Context) {
	var req domain.PortfolioProject
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.CreateProject(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Project added", item)
}

// UpdateProject godoc
// @Summary      Update a portfolio project
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                      true  "Project ID"
// @Param        body  body      domain.PortfolioProject  true  "Project"
// @Success      200   {object}  response.Response{data=domain.PortfolioProject}
// @Router       /projects/{id} [put]
func (h *ProfileHandler) UpdateProject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.PortfolioProject
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	item, err := h.profileUC.UpdateProject(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project updated", item)
}

// DeleteProject godoc
// @Summary      Delete a portfolio project and its media
// @Tags         profile-collections
// @Security     BearerAuth
// @Param        id   path  int  true  "Project ID"
// @Success      204
// @Router       /projects/{id} [delete]
func (h *ProfileHandler) DeleteProject(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteProject)
}

// AddProjectMedia godoc
// @Summary      Attach a media file to a project
// @Tags         profile-collections
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      int     true   "Project ID"
// @Param        file       formData  file    true   "Media file"
// @Param        file_type  formData  string  false  "image, video, text, link, file or audio"
// @Success      201        {object}  response.Response{data=domain.PortfolioMedia}
// @Failure      404        {object}  response.Response
// @Router       /projects/{id}/media [post]
func (h *ProfileHandler) AddProjectMedia(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	file, err := requireFile(c, "file", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}
	media, err := h.profileUC.AddProjectMedia(c.Request.Context(), middleware.ActorFrom(c), id, domain.MediaType(c.PostForm("file_type")), file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Media uploaded", media)
}

// DeleteProjectMedia godoc
// @Summary      Delete a portfolio media file
// @Tags         profile-collections
// @Security     BearerAuth
// @Param        id   path  int  true  "Media ID"
// @Success      204
// @Router       /portfolio-media/{id} [delete]
func (h *ProfileHandler) DeleteProjectMedia(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteProjectMedia)
}

// ==================== SKILLS ====================

type SkillsRequest struct {
	Skills []string `json:"skills" binding:"required,min=1,dive,max=100"`
}

type SkillRenameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type SkillAnswerRequest struct {
	Skill  int64                   `json:"skill" binding:"required"`
	Answer domain.SkillAnswerValue `json:"answer" binding:"required"`
}

// ListSkills godoc
// @Summary      List skills
// @Tags         profile-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Skill}
// @Router       /skills [get]
func (h *ProfileHandler) ListSkills(c *gin.Context) {
	items, err := h.profileUC.ListSkills(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skills", items)
}

// AddSkills godoc
// @Summary      Add skills in bulk
// @Description  Names the caller already has (case-insensitive) are skipped. Only the new rows are returned.
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      SkillsRequest  true  "Skill names"
// @Success      201   {object}  response.Response{data=[]domain.Skill}
// @Router       /skills [post]
func (h *ProfileHandler) AddSkills(c *gin.Context) {
	var req SkillsRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	items, err := h.profileUC.AddSkills(c.Request.Context(), middleware.ActorFrom(c), req.Skills)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Skills added", items)
}

// RenameSkill godoc
// @Summary      Rename a skill
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Skill ID"
// @Param        body  body      SkillRenameRequest  true  "New name"
// @Success      200   {object}  response.Response{data=domain.Skill}
// @Failure      409   {object}  response.Response
// @Router       /skills/{id} [patch]
func (h *ProfileHandler) RenameSkill(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req SkillRenameRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	skill, err := h.profileUC.RenameSkill(c.Request.Context(), middleware.ActorFrom(c), id, req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill updated", skill)
}

// DeleteSkill godoc
// @Summary      Delete a skill
// @Tags         profile-collections
// @Security     BearerAuth
// @Param        id   path  int  true  "Skill ID"
// @Success      204
// @Router       /skills/{id} [delete]
func (h *ProfileHandler) DeleteSkill(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteSkill)
}

// ListSkillAnswers godoc
// @Summary      List skill questionnaire answers
// @Tags         profile-collections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.SkillAnswer}
// @Router       /skill-answers [get]
func (h *ProfileHandler) ListSkillAnswers(c *gin.Context) {
	items, err := h.profileUC.ListSkillAnswers(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill answers", items)
}

// AnswerSkill godoc
// @Summary      Answer the questionnaire for a skill
// @Description  One answer per skill; answering again overwrites the previous answer.
// @Tags         profile-collections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      SkillAnswerRequest  true  "Answer"
// @Success      200   {object}  response.Response{data=domain.SkillAnswer}
// @Failure      404   {object}  response.Response
// @Router       /skill-answers [post]
func (h *ProfileHandler) AnswerSkill(c *gin.Context) {
	var req SkillAnswerRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	answer, err := h.profileUC.AnswerSkill(c.Request.Context(), middleware.ActorFrom(c), req.Skill, req.Answer)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Answer saved", answer)
}

// ==================== RESUMES ====================

// ListResumes godoc
// @Summary      List own resumes
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Resume}
// @Router       /resumes [get]
func (h *ProfileHandler) ListResumes(c *gin.Context) {
	items, err := h.profileUC.ListResumes(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes", items)
}

// MyResume godoc
// @Summary      Current resume
// @Description  The most recently updated resume of the caller.
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      404  {object}  response.Response
// @Router       /resumes/mine [get]
func (h *ProfileHandler) MyResume(c *gin.Context) {
	resume, err := h.profileUC.MyResume(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume", resume)
}

// UpdateMyResume godoc
// @Summary      Update the current resume
// @Description  Writes the body onto the caller's most recently updated resume.
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Resume  true  "Resume"
// @Success      200   {object}  response.Response{data=domain.Resume}
// @Failure      404   {object}  response.Response
// @Router       /resumes/mine [patch]
func (h *ProfileHandler) UpdateMyResume(c *gin.Context) {
	var req domain.Resume
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	actor := middleware.ActorFrom(c)
	current, err := h.profileUC.MyResume(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}
	resume, err := h.profileUC.UpdateResume(c.Request.Context(), actor, current.ID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated", resume)
}

// GetResume godoc
// @Summary      Get a resume
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Resume ID"
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      403  {object}  response.Response
// @Router       /resumes/{id} [get]
func (h *ProfileHandler) GetResume(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	resume, err := h.profileUC.GetResume(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume", resume)
}

// CreateResume godoc
// @Summary      Create a resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Resume  true  "Resume"
// @Success      201   {object}  response.Response{data=domain.Resume}
// @Failure      400   {object}  response.Response
// @Router       /resumes [post]
func (h *ProfileHandler) CreateResume(c *gin.Context) {
	var req domain.Resume
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	resume, err := h.profileUC.CreateResume(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume created", resume)
}

// UpdateResume godoc
// @Summary      Update a resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Resume ID"
// @Param        body  body      domain.Resume  true  "Resume"
// @Success      200   {object}  response.Response{data=domain.Resume}
// @Router       /resumes/{id} [put]
func (h *ProfileHandler) UpdateResume(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req domain.Resume
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	resume, err := h.profileUC.UpdateResume(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated", resume)
}

// DeleteResume godoc
// @Summary      Delete a resume
// @Tags         resumes
// @Security     BearerAuth
// @Param        id   path  int  true  "Resume ID"
// @Success      204
// @Router       /resumes/{id} [delete]
func (h *ProfileHandler) DeleteResume(c *gin.Context) {
	h.deleteByID(c, h.profileUC.DeleteResume)
}
