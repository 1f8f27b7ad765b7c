package v1

import (
	"net/http"
	"time"

	"jobmarket-backend/config"
	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/usecase"
	"jobmarket-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	ProfileUC     domain.ProfileUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	CompanyUC     domain.CompanyUsecase
	CommunityUC   domain.CommunityUsecase
	HealthUC      usecase.HealthUsecase
	UploadLimiter middleware.UploadAllower
	// MediaRoot is served under Config.LocalStorageURL when blobs live on local disk.
	MediaRoot string
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Forwarded headers are believed only from configured proxies, for
	// ClientIP and for media base URLs alike
	proxies, err := middleware.ParseTrustedProxies(deps.Config.TrustedProxies)
	if err != nil {
		logger.Log.Warn("Ignoring TRUSTED_PROXIES", "error", err)
		proxies = nil
	}
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
	} else {
		_ = r.SetTrustedProxies(deps.Config.TrustedProxies)
	}

	// Global Middlewares
	r.Use(middleware.CORS(deps.Config.CORSAllowedOrigins)) // CORS must be first!
	r.Use(middleware.TrustedProxies(proxies))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.GlobalRateLimit(deps.Config.RateLimitGlobalThreshold, window))

	if deps.MediaRoot != "" {
		r.Static(deps.Config.LocalStorageURL, deps.MediaRoot)
	}

	health := healthHandler(deps.HealthUC)
	r.GET("/healthz", health)

	api := r.Group("/api")
	api.GET("/healthz", health)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes see the caller when a valid token is sent
	public := api.Group("")
	public.Use(middleware.Authenticate(deps.AuthUC))

	// Protected routes
	protected := public.Group("")
	protected.Use(middleware.RequireAuth())
	if deps.UploadLimiter != nil {
		protected.Use(middleware.UploadRateLimit(deps.UploadLimiter))
	}
	{
		maxUpload := deps.Config.MaxUploadBytes
		NewAuthHandler(public, protected, deps.AuthUC, middleware.LoginRateLimit(deps.Config.RateLimitLoginThreshold, window))
		NewProfileHandler(public, protected, deps.ProfileUC, maxUpload)
		NewJobHandler(public, protected, deps.JobUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewCompanyHandler(public, protected, deps.CompanyUC, maxUpload)
		NewCommunityHandler(public, protected, deps.CommunityUC, maxUpload)
	}

	return r
}

// healthHandler godoc
// @Summary      Liveness and dependency check
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /healthz [get]
func healthHandler(healthUC usecase.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := healthUC.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	}
}
