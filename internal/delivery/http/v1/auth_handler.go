package v1

import (
	"net/http"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers the registration wizard, token and password reset
// routes. loginLimit guards the credential endpoints.
func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, loginLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register/step1", handler.RegisterStep1)
		publicAuth.POST("/register/step2/:accountId", handler.RegisterStep2)
		publicAuth.POST("/register/step3/:accountId", handler.RegisterStep3)
		publicAuth.POST("/register/step4/:accountId", handler.RegisterStep4)
		publicAuth.POST("/register/resend-code/:accountId", loginLimit, handler.ResendCode)
		publicAuth.POST("/login", loginLimit, handler.Login)
		publicAuth.POST("/refresh", handler.Refresh)
		publicAuth.POST("/password-reset", loginLimit, handler.RequestPasswordReset)
		publicAuth.POST("/password-reset-confirm", loginLimit, handler.ConfirmPasswordReset)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/logout", handler.Logout)
		protectedAuth.GET("/me", handler.Me)
	}
}

type RegisterStep1Response struct {
	UserID string `json:"user_id"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type RoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type PasswordResetConfirmRequest struct {
	UID         string `json:"uid" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// RegisterStep1 godoc
// @Summary      Start registration
// @Description  Create an account with name, username and password. Email and role are set in later steps.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RegisterStep1Input  true  "Account details"
// @Success      201   {object}  response.Response{data=RegisterStep1Response}
// @Failure      400   {object}  response.Response
// @Router       /auth/register/step1 [post]
func (h *AuthHandler) RegisterStep1(c *gin.Context) {
	var input domain.RegisterStep1Input
	if err := bind(c, &input); err != nil {
		c.Error(err)
		return
	}

	id, err := h.authUC.RegisterStep1(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Step 1 completed", RegisterStep1Response{UserID: id})
}

// RegisterStep2 godoc
// @Summary      Set email and send code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        accountId  path      string        true  "Account ID"
// @Param        body       body      EmailRequest  true  "Email"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Failure      502        {object}  response.Response
// @Router       /auth/register/step2/{accountId} [post]
func (h *AuthHandler) RegisterStep2(c *gin.Context) {
	var req EmailRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	if err := h.authUC.RegisterStep2SetEmail(c.Request.Context(), c.Param("accountId"), req.Email); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Verification code sent to email", nil)
}

// RegisterStep3 godoc
// @Summary      Verify email code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        accountId  path      string       true  "Account ID"
// @Param        body       body      CodeRequest  true  "Six digit code"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Router       /auth/register/step3/{accountId} [post]
func (h *AuthHandler) RegisterStep3(c *gin.Context) {
	var req CodeRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	if err := h.authUC.RegisterStep3VerifyCode(c.Request.Context(), c.Param("accountId"), req.Code); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Email verified", nil)
}

// RegisterStep4 godoc
// @Summary      Choose role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        accountId  path      string       true  "Account ID"
// @Param        body       body      RoleRequest  true  "JOB_SEEKER or EMPLOYER"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Router       /auth/register/step4/{accountId} [post]
func (h *AuthHandler) RegisterStep4(c *gin.Context) {
	var req RoleRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	if err := h.authUC.RegisterStep4SetRole(c.Request.Context(), c.Param("accountId"), req.Role); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Registration completed", nil)
}

// ResendCode godoc
// @Summary      Resend verification code
// @Tags         auth
// @Produce      json
// @Param        accountId  path      string  true  "Account ID"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /auth/register/resend-code/{accountId} [post]
func (h *AuthHandler) ResendCode(c *gin.Context) {
	if err := h.authUC.ResendCode(c.Request.Context(), c.Param("accountId")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Verification code resent", nil)
}

// Login godoc
// @Summary      Login
// @Description  Exchange username and password for an access and refresh token pair. Requires a verified email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.TokenPair}
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}

	pair, err := h.authUC.Login(c.Request.Context(), req.Username, req.Password, middleware.MetaFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", pair)
}

// Refresh godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	access, err := h.authUC.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Token refreshed", gin.H{"access": access})
}

// Logout godoc
// @Summary      Logout
// @Description  Blacklist the refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      205   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	if err := h.authUC.Logout(c.Request.Context(), middleware.ActorFrom(c).ID, req.Refresh); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusResetContent, "Logged out", nil)
}

// RequestPasswordReset godoc
// @Summary      Request password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      EmailRequest  true  "Email"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req EmailRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	if err := h.authUC.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password reset link sent", nil)
}

// ConfirmPasswordReset godoc
// @Summary      Set a new password with a reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      PasswordResetConfirmRequest  true  "uid, token and new password"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /auth/password-reset-confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := bind(c, &req); err != nil {
		c.Error(err)
		return
	}
	if err := h.authUC.ConfirmPasswordReset(c.Request.Context(), req.UID, req.Token, req.NewPassword); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

// Me godoc
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.AccountSnapshot}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.authUC.Me(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current account", me)
}
