package v1

import (
	"net/http"
	"strings"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	communityUC domain.CommunityUsecase
	maxUpload   int64
}

// NewCommunityHandler registers the feed routes.
func NewCommunityHandler(public, protected *gin.RouterGroup, communityUC domain.CommunityUsecase, maxUpload int64) {
	handler := &CommunityHandler{communityUC: communityUC, maxUpload: maxUpload}

	publicPosts := public.Group("/community/posts")
	{
		publicPosts.GET("", handler.ListPosts)
		publicPosts.GET("/:id", handler.GetPost)
		publicPosts.GET("/:id/comments", handler.ListComments)
	}

	protectedPosts := protected.Group("/community/posts")
	{
		protectedPosts.POST("", handler.CreatePost)
		protectedPosts.PATCH("/:id", handler.UpdatePost)
		protectedPosts.DELETE("/:id", handler.DeletePost)
		protectedPosts.POST("/:id/like", handler.ToggleLike)
		protectedPosts.POST("/:id/share", handler.Share)
		protectedPosts.POST("/:id/comments", handler.AddComment)
		protectedPosts.PATCH("/:id/comments/:commentId", handler.UpdateComment)
		protectedPosts.DELETE("/:id/comments/:commentId", handler.DeleteComment)
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// ListPosts godoc
// @Summary      Feed
// @Description  Newest first. is_liked and is_owner reflect the caller when a token is sent.
// @Tags         community
// @Produce      json
// @Param        author  query     string  false  "Author account ID"
// @Param        mine    query     bool    false  "Only the caller's posts"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Offset"
// @Success      200     {object}  response.Response{data=[]domain.Post}
// @Router       /community/posts [get]
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	filter := domain.PostFilter{AuthorID: c.Query("author")}
	var err error
	if filter.Limit, err = queryInt(c, "limit", 0); err != nil {
		c.Error(err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		c.Error(err)
		return
	}

	actor := middleware.ActorFrom(c)
	if c.Query("mine") == "true" {
		if !actor.Authenticated() {
			c.Error(apperror.Unauthorized("Authentication credentials were not provided"))
			return
		}
		filter.AuthorID = actor.ID
	}

	posts, err := h.communityUC.ListPosts(c.Request.Context(), actor, filter, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Posts", posts)
}

// GetPost godoc
// @Summary      Get a post
// @Tags         community
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response{data=domain.Post}
// @Failure      404  {object}  response.Response
// @Router       /community/posts/{id} [get]
func (h *CommunityHandler) GetPost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	post, err := h.communityUC.GetPost(c.Request.Context(), middleware.ActorFrom(c), id, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Post", post)
}

// CreatePost godoc
// @Summary      Create a post
// @Description  JSON or multipart. A post needs content, an image, or both.
// @Tags         community
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        content  formData  string  false  "Text"
// @Param        image    formData  file    false  "Image"
// @Success      201      {object}  response.Response{data=domain.Post}
// @Failure      400      {object}  response.Response
// @Router       /community/posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	// 1. Bind content from JSON or form
	var req domain.PostInput
	if isMultipart(c) {
		req.Content = c.PostForm("content")
	} else if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	// 2. Optional image
	image, err := formFile(c, "image", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}

	// 3. Create
	post, err := h.communityUC.CreatePost(c.Request.Context(), middleware.ActorFrom(c), req.Content, image, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Post created", post)
}

type UpdatePostRequest struct {
	Content *string `json:"content"`
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Author only. Omitted fields are left unchanged; a new image replaces the old one.
// @Tags         community
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int     true   "Post ID"
// @Param        content  formData  string  false  "Text"
// @Param        image    formData  file    false  "Image"
// @Success      200      {object}  response.Response{data=domain.Post}
// @Failure      403      {object}  response.Response
// @Router       /community/posts/{id} [patch]
func (h *CommunityHandler) UpdatePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var content *string
	if isMultipart(c) {
		if v, ok := c.GetPostForm("content"); ok {
			content = &v
		}
	} else {
		var req UpdatePostRequest
		if err := bind(c, &req); err != nil {
			c.Error(err)
			return
		}
		content = req.Content
	}

	image, err := formFile(c, "image", h.maxUpload)
	if err != nil {
		c.Error(err)
		return
	}

	post, err := h.communityUC.UpdatePost(c.Request.Context(), middleware.ActorFrom(c), id, content, image, baseURL(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Post updated", post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         community
// @Security     BearerAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      403  {object}  response.Response
// @Router       /community/posts/{id} [delete]
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.communityUC.DeletePost(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLike godoc
// @Summary      Like or unlike a post
// @Description  Flips the caller's like; likes_count is the number of likers after the flip.
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response{data=domain.LikeState}
// @Failure      404  {object}  response.Response
// @Router       /community/posts/{id}/like [post]
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	state, err := h.communityUC.ToggleLike(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Like toggled", state)
}

// Share godoc
// @Summary      Share a post
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /community/posts/{id}/share [post]
func (h *CommunityHandler) Share(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	shares, err := h.communityUC.SharePost(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Post shared", gin.H{"shares_count": shares})
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListComments godoc
// @Summary      Comments of a post
// @Description  Newest first.
// @Tags         community
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response{data=[]domain.Comment}
// @Failure      404  {object}  response.Response
// @Router       /community/posts/{id}/comments [get]
func (h *CommunityHandler) ListComments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	comments, err := h.communityUC.ListComments(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Comments", comments)
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Post ID"
// @Param        body  body      CommentRequest  true  "Comment"
// @Success      201   {object}  response.Response{data=domain.Comment}
// @Failure      404   {object}  response.Response
// @Router       /community/posts/{id}/comments [post]
func (h *CommunityHandler) AddComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req CommentRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	comment, err := h.communityUC.AddComment(c.Request.Context(), middleware.ActorFrom(c), id, req.Content)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Comment added", comment)
}

// UpdateComment godoc
// @Summary      Edit a comment
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      int             true  "Post ID"
// @Param        commentId  path      int             true  "Comment ID"
// @Param        body       body      CommentRequest  true  "Comment"
// @Success      200        {object}  response.Response{data=domain.Comment}
// @Failure      403        {object}  response.Response
// @Router       /community/posts/{id}/comments/{commentId} [patch]
func (h *CommunityHandler) UpdateComment(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		c.Error(err)
		return
	}
	var req CommentRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	comment, err := h.communityUC.UpdateComment(c.Request.Context(), middleware.ActorFrom(c), postID, commentID, req.Content)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Comment updated", comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         community
// @Security     BearerAuth
// @Param        id         path  int  true  "Post ID"
// @Param        commentId  path  int  true  "Comment ID"
// @Success      204
// @Failure      403        {object}  response.Response
// @Router       /community/posts/{id}/comments/{commentId} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	commentID, err := pathID(c, "commentId")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.communityUC.DeleteComment(c.Request.Context(), middleware.ActorFrom(c), postID, commentID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
