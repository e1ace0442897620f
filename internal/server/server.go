package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/placementportal/internal/config"
	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/middleware"
	"anoa.com/placementportal/internal/scheduler"
	"anoa.com/placementportal/pkg/mailer"
	"anoa.com/placementportal/pkg/password"
	"anoa.com/placementportal/pkg/ratelimiter"
	"anoa.com/placementportal/pkg/response"
	"anoa.com/placementportal/pkg/storage"
	"anoa.com/placementportal/pkg/token"
	"anoa.com/placementportal/pkg/validator"

	adminHttp "anoa.com/placementportal/internal/modules/admin/delivery/http"
	adminService "anoa.com/placementportal/internal/modules/admin/service"

	appHttp "anoa.com/placementportal/internal/modules/application/delivery/http"
	appRepo "anoa.com/placementportal/internal/modules/application/repository"
	appService "anoa.com/placementportal/internal/modules/application/service"

	authHttp "anoa.com/placementportal/internal/modules/auth/delivery/http"
	authRepo "anoa.com/placementportal/internal/modules/auth/repository"
	authService "anoa.com/placementportal/internal/modules/auth/service"

	companyHttp "anoa.com/placementportal/internal/modules/company/delivery/http"
	companyService "anoa.com/placementportal/internal/modules/company/service"

	interviewHttp "anoa.com/placementportal/internal/modules/interview/delivery/http"
	interviewRepo "anoa.com/placementportal/internal/modules/interview/repository"
	interviewService "anoa.com/placementportal/internal/modules/interview/service"

	jobHttp "anoa.com/placementportal/internal/modules/job/delivery/http"
	jobRepo "anoa.com/placementportal/internal/modules/job/repository"
	jobService "anoa.com/placementportal/internal/modules/job/service"

	notiHttp "anoa.com/placementportal/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/placementportal/internal/modules/notification/repository"
	notifService "anoa.com/placementportal/internal/modules/notification/service"

	offerHttp "anoa.com/placementportal/internal/modules/offer/delivery/http"
	offerRepo "anoa.com/placementportal/internal/modules/offer/repository"
	offerService "anoa.com/placementportal/internal/modules/offer/service"

	searchService "anoa.com/placementportal/internal/modules/search/service"

	statHttp "anoa.com/placementportal/internal/modules/stat/delivery/http"
	statService "anoa.com/placementportal/internal/modules/stat/service"

	studentHttp "anoa.com/placementportal/internal/modules/student/delivery/http"
	studentService "anoa.com/placementportal/internal/modules/student/service"

	supportHttp "anoa.com/placementportal/internal/modules/support/delivery/http"
	supportRepo "anoa.com/placementportal/internal/modules/support/repository"
	supportService "anoa.com/placementportal/internal/modules/support/service"

	taskHttp "anoa.com/placementportal/internal/modules/task/delivery/http"

	userRepo "anoa.com/placementportal/internal/modules/user/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *scheduler.Scheduler
}

// NewServer wires every module. A nil redisClient disables live notifications
// and throttling; an empty MEILISEARCH_HOST makes job search use the database.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if err := validator.Register(); err != nil {
		return nil, err
	}

	tokens := token.NewService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	hasher := password.NewHasher(cfg.BcryptCost)
	mail := mailer.New(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	limiter := ratelimiter.New(redisClient)

	var fileStorage storage.FileStorage
	if cfg.CloudinaryEnabled() {
		cloudStorage, err := storage.NewCloudinaryStorage(storage.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		})
		if err != nil {
			return nil, err
		}
		fileStorage = cloudStorage
	} else {
		log.Println("⚠️  Cloudinary not configured, resume uploads disabled")
	}

	var jobIndexer searchService.JobIndexer
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		jobIndexer = searchService.NewMeiliJobIndexer(meiliClient)
	}

	users := userRepo.NewUserRepository(db)
	refreshTokens := authRepo.NewRefreshTokenRepository(db)
	jobs := jobRepo.NewJobRepository(db)
	applications := appRepo.NewApplicationRepository(db)
	interviews := interviewRepo.NewInterviewRepository(db)
	offers := offerRepo.NewOfferRepository(db)
	supportMessages := supportRepo.NewSupportRepository(db)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, users, mail, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, cfg.Origins())

	google := authService.NewGoogleProvider(authService.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authSvc := authService.NewAuthService(users, refreshTokens, tokens, hasher, google, cfg.CollegeEmailDomain)
	authHandler := authHttp.NewAuthHandler(authSvc, cfg.IsProduction())

	studentHandler := studentHttp.NewStudentHandler(studentService.NewStudentService(users, applications, fileStorage))
	companyHandler := companyHttp.NewCompanyHandler(companyService.NewCompanyService(users))
	jobHandler := jobHttp.NewJobHandler(jobService.NewJobService(jobs, users, jobIndexer))

	applicationSvc := appService.NewApplicationService(applications, jobs, users, notificationSvc, limiter, cfg.ApplyRateLimit)
	applicationHandler := appHttp.NewApplicationHandler(applicationSvc)

	interviewHandler := interviewHttp.NewInterviewHandler(interviewService.NewInterviewService(interviews, applications, notificationSvc))
	offerHandler := offerHttp.NewOfferHandler(offerService.NewOfferService(offers, applications, notificationSvc))
	supportHandler := supportHttp.NewSupportHandler(supportService.NewSupportService(supportMessages, mail, limiter, cfg.SupportRateLimit))
	statHandler := statHttp.NewStatHandler(statService.NewStatService(users, jobs, applications, offers))
	adminHandler := adminHttp.NewAdminHandler(adminService.NewAdminService(users, hasher))

	sched, err := newScheduler(cfg, refreshTokens, jobs)
	if err != nil {
		return nil, err
	}
	taskHandler := taskHttp.NewTaskHandler(sched)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies()); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	setupCORS(router, cfg.Origins())

	router.Use(gin.CustomRecovery(response.Recovery))
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health", "/api/notifications/ws"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute)

	admin := middleware.RequireRoles(entity.RoleAdmin)
	student := middleware.RequireRoles(entity.RoleStudent)
	company := middleware.RequireRoles(entity.RoleCompany)
	recruiter := middleware.RequireRoles(entity.RoleAdmin, entity.RoleCompany)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}
	api.POST("/support", supportHandler.Create)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.PUT("/auth/password", authHandler.ChangePassword)

		// Student routes
		protected.GET("/students/me", student, studentHandler.GetMe)
		protected.PUT("/students/me", student, studentHandler.UpdateMe)
		protected.POST("/students/me/resume", student, middleware.ResumeUpload(cfg.UploadMaxBytes), studentHandler.UploadResume)
		protected.GET("/students", admin, studentHandler.List)
		protected.GET("/students/:id", recruiter, studentHandler.GetByID)

		// Company routes
		protected.GET("/companies/me", company, companyHandler.GetMe)
		protected.PUT("/companies/me", company, companyHandler.UpdateMe)
		protected.GET("/companies", admin, companyHandler.List)
		protected.GET("/companies/:id", companyHandler.GetByID)

		// Job routes
		protected.POST("/jobs", recruiter, jobHandler.Create)
		protected.GET("/jobs", jobHandler.List)
		protected.GET("/jobs/:id", jobHandler.GetByID)
		protected.PUT("/jobs/:id", recruiter, jobHandler.Update)
		protected.DELETE("/jobs/:id", recruiter, jobHandler.Delete)
		protected.GET("/jobs/:id/applications", recruiter, applicationHandler.ListForJob)

		// Application routes
		protected.POST("/applications", student, applicationHandler.Apply)
		protected.GET("/applications/me", student, applicationHandler.ListMine)
		protected.GET("/applications", admin, applicationHandler.List)
		protected.GET("/applications/:id", applicationHandler.GetByID)
		protected.PATCH("/applications/:id/status", recruiter, applicationHandler.UpdateStatus)

		// Interview routes
		protected.POST("/interviews", recruiter, interviewHandler.Schedule)
		protected.GET("/interviews/me", student, interviewHandler.ListMine)
		protected.GET("/interviews", recruiter, interviewHandler.List)
		protected.PATCH("/interviews/:id", recruiter, interviewHandler.Update)

		// Offer routes
		protected.POST("/offers", recruiter, offerHandler.Create)
		protected.POST("/offers/:id/respond", student, offerHandler.Respond)
		protected.GET("/offers/me", student, offerHandler.ListMine)
		protected.GET("/offers", recruiter, offerHandler.List)

		// Support routes
		protected.GET("/support", admin, supportHandler.List)
		protected.PATCH("/support/:id/status", admin, supportHandler.UpdateStatus)
		protected.POST("/support/:id/respond", admin, supportHandler.Respond)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(admin)
		{
			adminGroup.GET("/stats", statHandler.Overview)
			adminGroup.GET("/applications/export", applicationHandler.Export)
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.GET("/tasks", taskHandler.List)
			adminGroup.POST("/tasks/:name/run", taskHandler.Run)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   sched,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Scheduler returns the maintenance scheduler. The caller starts and stops it.
func (s *Server) Scheduler() *scheduler.Scheduler {
	return s.scheduler
}

func newScheduler(cfg *config.Config, tokens scheduler.ExpiredTokenPurger, jobs scheduler.ExpiredJobCloser) (*scheduler.Scheduler, error) {
	sched := scheduler.New()
	if err := sched.Register(scheduler.NewTokenCleanupTask(tokens, cfg.TokenCleanupSchedule)); err != nil {
		return nil, err
	}
	if err := sched.Register(scheduler.NewJobExpiryTask(jobs, cfg.JobExpirySchedule)); err != nil {
		return nil, err
	}
	return sched, nil
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
