package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	classroomhandlers "github.com/architect/classroom-backend/internal/classroom/handlers"
	classroommodels "github.com/architect/classroom-backend/internal/classroom/models"
	classroomrepo "github.com/architect/classroom-backend/internal/classroom/repository"
	classroomservices "github.com/architect/classroom-backend/internal/classroom/services"
	"github.com/architect/classroom-backend/internal/common/database"
	commonhandlers "github.com/architect/classroom-backend/internal/common/handlers"
	"github.com/architect/classroom-backend/internal/common/health"
	"github.com/architect/classroom-backend/internal/common/metrics"
	"github.com/architect/classroom-backend/internal/common/middleware"
	engagementhandlers "github.com/architect/classroom-backend/internal/engagement/handlers"
	engagementmodels "github.com/architect/classroom-backend/internal/engagement/models"
	engagementrepo "github.com/architect/classroom-backend/internal/engagement/repository"
	engagementservices "github.com/architect/classroom-backend/internal/engagement/services"
	"github.com/architect/classroom-backend/internal/genai"
	leaderboardhandlers "github.com/architect/classroom-backend/internal/leaderboard/handlers"
	leaderboardservices "github.com/architect/classroom-backend/internal/leaderboard/services"
	quizhandlers "github.com/architect/classroom-backend/internal/quiz/handlers"
	quizmodels "github.com/architect/classroom-backend/internal/quiz/models"
	quizrepo "github.com/architect/classroom-backend/internal/quiz/repository"
	quizservices "github.com/architect/classroom-backend/internal/quiz/services"
	userhandlers "github.com/architect/classroom-backend/internal/users/handlers"
	usermodels "github.com/architect/classroom-backend/internal/users/models"
	userrepo "github.com/architect/classroom-backend/internal/users/repository"
	userservices "github.com/architect/classroom-backend/internal/users/services"
	"github.com/architect/classroom-backend/pkg/config"
	"github.com/architect/classroom-backend/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	if err := db.AutoMigrate(
		&usermodels.User{},
		&engagementmodels.XpTransaction{},
		&engagementmodels.Badge{},
		&engagementmodels.UserBadge{},
		&classroommodels.Classroom{},
		&classroommodels.CourseSection{},
		&classroommodels.Slide{},
		&classroommodels.Announcement{},
		&classroommodels.PastQuestion{},
		&classroommodels.ClassroomStudent{},
		&quizmodels.Question{},
		&quizmodels.SlideQuestionAttempt{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	users := userrepo.NewUserRepository(db)
	ledger := engagementrepo.NewLedgerRepository(db)
	txRunner := engagementrepo.NewTxRunner(db)
	classrooms := classroomrepo.NewGormClassroomRepository(db)
	memberships := classroomrepo.NewGormMembershipRepository(db)
	content := classroomrepo.NewGormContentRepository(db)
	questions := quizrepo.NewQuestionRepository(db)
	attempts := quizrepo.NewAttemptRepository(db)

	// Services
	streakSvc := engagementservices.NewStreakService(users, logger.L())
	badgeSvc := engagementservices.NewBadgeService(txRunner)
	xpSvc := engagementservices.NewXPService(txRunner, ledger, badgeSvc, logger.L())
	classroomSvc := classroomservices.NewClassroomService(classrooms, memberships, content)

	llm := genai.NewGroqClient(cfg.Generation.APIKey,
		genai.WithBaseURL(cfg.Generation.BaseURL),
		genai.WithModel(cfg.Generation.Model),
		genai.WithTimeout(cfg.Generation.Timeout),
	)
	generator := quizservices.NewQuestionGenerator(llm)
	quizSvc := quizservices.NewQuizService(questions, attempts, generator)
	progressSvc := quizservices.NewProgressService(attempts)
	rankerSvc := leaderboardservices.NewLeaderboardService(memberships, users)
	profileSvc := userservices.NewProfileService(users)

	// Handlers
	auth := middleware.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	classroomHandler := classroomhandlers.NewClassroomHandler(classroomSvc)
	quizHandler := quizhandlers.NewQuizHandler(quizSvc, progressSvc, classroomSvc)
	engagementHandler := engagementhandlers.NewEngagementHandler(streakSvc, xpSvc)
	leaderboardHandler := leaderboardhandlers.NewLeaderboardHandler(rankerSvc, classroomSvc)
	userHandler := userhandlers.NewUserHandler(profileSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.ErrorHandler())

	// Operational endpoints
	healthHandler := commonhandlers.NewHealthHandler(health.NewChecker(db, version))
	router.GET("/health", healthHandler.Health)
	router.GET("/health/readiness", healthHandler.Readiness)
	router.GET("/health/liveness", healthHandler.Liveness)
	router.GET("/metrics", metrics.Handler())

	v1 := router.Group("/api/v1")
	v1.Use(auth.AuthRequired())
	{
		// Shared profile surface
		v1.GET("/profile", userHandler.GetProfile)
		v1.PUT("/profile", userHandler.UpdateProfile)

		admin := v1.Group("/admin", middleware.RoleRequired(usermodels.RoleAdmin))
		{
			admin.POST("/classrooms", classroomHandler.CreateClassroom)
			admin.GET("/classrooms", classroomHandler.ListAdminClassrooms)
			admin.POST("/classrooms/:classroomId/course-sections", classroomHandler.CreateSection)
			admin.GET("/classrooms/:classroomId/course-sections", classroomHandler.ListSections)
			admin.POST("/classrooms/:classroomId/course-sections/:sectionId/slides", classroomHandler.CreateSlide)
			admin.GET("/classrooms/:classroomId/course-sections/:sectionId/slides", classroomHandler.ListSlides)
			admin.POST("/classrooms/:classroomId/announcements", classroomHandler.PostAnnouncement)
			admin.GET("/classrooms/:classroomId/announcements", classroomHandler.ListAnnouncements)
			admin.POST("/classrooms/:classroomId/course-sections/:sectionId/past-questions", classroomHandler.AddPastQuestion)
			admin.GET("/classrooms/:classroomId/course-sections/:sectionId/past-questions", classroomHandler.ListPastQuestions)

			admin.POST("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/generate-questions", quizHandler.GenerateQuestions)
			admin.GET("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/questions", quizHandler.ListQuestions)
			admin.DELETE("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/questions", quizHandler.DeleteQuestions)
			admin.PUT("/classrooms/:classroomId/questions/:questionId", quizHandler.ReviewQuestion)

			admin.GET("/classrooms/:classroomId/leaderboard", leaderboardHandler.GetLeaderboard)
		}

		learner := v1.Group("/learner", middleware.RoleRequired(usermodels.RoleLearner))
		{
			learner.GET("/classrooms/available", classroomHandler.ListAvailableClassrooms)
			learner.POST("/classrooms/join", classroomHandler.JoinClassroom)
			learner.GET("/classrooms", classroomHandler.ListLearnerClassrooms)
			learner.GET("/classrooms/:classroomId/course-sections", classroomHandler.ListSections)
			learner.GET("/classrooms/:classroomId/course-sections/:sectionId/slides", classroomHandler.ListSlides)
			learner.GET("/classrooms/:classroomId/course-sections/:sectionId/past-questions", classroomHandler.ListPastQuestions)
			learner.GET("/classrooms/:classroomId/announcements", classroomHandler.ListAnnouncements)

			learner.GET("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/test", quizHandler.ServeTest)
			learner.POST("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/submit-test", quizHandler.SubmitTest)
			learner.GET("/classrooms/:classroomId/course-sections/:sectionId/slides/:slideId/progress", quizHandler.GetProgress)

			learner.GET("/classrooms/:classroomId/leaderboard", leaderboardHandler.GetLeaderboardWithViewer)

			learner.POST("/activity", engagementHandler.RecordActivity)
			learner.GET("/streak", engagementHandler.GetStreak)
			learner.POST("/xp", engagementHandler.GrantXP)
			learner.GET("/xp", engagementHandler.GetXP)
			learner.GET("/xp/ledger", engagementHandler.GetLedger)
		}
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.L().Info("server starting",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env),
		zap.String("db", cfg.Database.Type),
	)
	if err := router.Run(addr); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
