// Package server wires repositories, services and HTTP handlers into a gin engine.
package server

import (
	"net/http"

	"servimarket/internal/config"
	"servimarket/internal/domain/upload"
	"servimarket/internal/middleware"
	"servimarket/internal/modules/admin"
	"servimarket/internal/modules/auth"
	"servimarket/internal/modules/chat"
	"servimarket/internal/modules/offer"
	"servimarket/internal/modules/profile"
	"servimarket/internal/modules/publication"
	"servimarket/internal/modules/review"
	"servimarket/internal/modules/verification"
	jwtsvc "servimarket/internal/pkg/jwt"
	"servimarket/internal/pkg/response"
	"servimarket/internal/pkg/session"
	"servimarket/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App holds the engine plus the services background jobs need.
type App struct {
	Router *gin.Engine
	Auth   *auth.Service
	Hub    *chat.Hub
}

func New(cfg *config.Config, db *gorm.DB, sessions session.Revoker) *App {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	pubRepo := repository.NewPublicationRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	chatRepo := repository.NewChatRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	docRepo := repository.NewVerificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	uploadService := upload.NewService(upload.NewRepository(db), cfg.UploadDir, cfg.UploadMaxBytes)

	chatService := chat.NewService(chatRepo, uploadService, nil)
	hub := chat.NewHub(chatService.IsParticipant)
	chatService.SetPublisher(hub)

	authService := auth.NewService(userRepo, profileRepo, resetRepo, j, sessions, auth.LogMailer{}, cfg.ResetTokenTTL, cfg.PublicBaseURL)
	publicationService := publication.NewService(pubRepo, offerRepo)
	offerService := offer.NewService(offerRepo, pubRepo, chatRepo, hub)
	reviewService := review.NewService(reviewRepo, offerRepo)
	profileService := profile.NewService(profileRepo, reviewService)
	verificationService := verification.NewService(docRepo, uploadService)
	uploadService.SetInUse(verificationService.HoldsFile)
	adminService := admin.NewService(userRepo, verificationService)

	authHandler := auth.NewHandler(authService)
	publicationHandler := publication.NewHandler(publicationService)
	offerHandler := offer.NewHandler(offerService)
	chatHandler := chat.NewHandler(chatService, hub, j, sessions, middleware.OriginAllowed(cfg.CORSAllowedOrigins))
	reviewHandler := review.NewHandler(reviewService)
	profileHandler := profile.NewHandler(profileService)
	verificationHandler := verification.NewHandler(verificationService)
	uploadHandler := upload.NewHandler(uploadService)
	adminHandler := admin.NewHandler(adminService)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(upload.StaticURLBase, uploadService.BaseDir())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		publicationHandler.RegisterRoutes(v1, nil)
		reviewHandler.RegisterRoutes(v1, nil)
		profileHandler.RegisterRoutes(v1, nil)
		chatHandler.RegisterRoutes(v1, nil)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j, sessions))
		{
			authHandler.RegisterProtectedRoutes(protected)
			publicationHandler.RegisterRoutes(nil, protected)
			offerHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(nil, protected)
			reviewHandler.RegisterRoutes(nil, protected)
			profileHandler.RegisterRoutes(nil, protected)
			verificationHandler.RegisterRoutes(protected)
			uploadHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/admin", middleware.AdminOnly())
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	return &App{Router: r, Auth: authService, Hub: hub}
}
