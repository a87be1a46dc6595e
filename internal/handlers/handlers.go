package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"donatehub/api/internal/config"
	"donatehub/api/internal/middleware"
	"donatehub/api/internal/repository"
	"donatehub/api/internal/service"
	"donatehub/api/internal/storage"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	auth      *service.AuthService
	donations *service.DonationService
	uploads   *service.UploadService
	db        *pgxpool.Pool
	cache     *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	donationRepo := repository.NewDonationRepository(db)

	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	donations := service.NewDonationService(donationRepo, userRepo, cache, log)
	uploads := service.NewUploadService(store, cfg, log)

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		auth:      auth,
		donations: donations,
		uploads:   uploads,
		db:        db,
		cache:     cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.POST("/register", h.RegisterUser)
	router.POST("/login", h.Login)

	router.GET("/donations", h.ListDonations)
	router.GET("/donations/stats", h.DonationStats)
	router.GET("/donations/:id", h.GetDonation)

	protected := router.Group("")
	protected.Use(middleware.Auth(h.auth))

	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)

	protected.POST("/donations", h.CreateDonation)
	protected.PUT("/donations/:id", h.UpdateDonation)
	protected.DELETE("/donations/:id", h.DeleteDonation)
	protected.PATCH("/donations/:id/status", h.UpdateDonationStatus)
	protected.GET("/my-donations", h.MyDonations)

	protected.POST("/uploads", h.UploadImage)
}
