package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-admin/internal/domain/media"
	"github.com/khoahotran/portfolio-admin/pkg/auth"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Record  *RecordHandler
}

type RouterOptions struct {
	// UploadsDir, when set, is served read-only under media.PublicPrefix.
	UploadsDir         string
	MaxMultipartMemory int64
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	if opts.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log), AuthMiddleware(jwtSvc, log))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	router.POST("/auth/login", h.Auth.Login)

	router.POST("/update-profile", h.Profile.UpdateProfile)
	router.GET("/get-profile", h.Profile.GetProfile)

	router.POST("/add-education", h.Record.AddEducation)
	router.GET("/get-education", h.Record.GetEducation)
	router.POST("/add-experience", h.Record.AddExperience)
	router.GET("/get-experience", h.Record.GetExperience)

	if opts.UploadsDir != "" {
		router.Static(media.PublicPrefix, opts.UploadsDir)
	}
	return router
}
