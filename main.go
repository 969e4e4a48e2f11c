package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"introcall/config"
	"introcall/cron"
	"introcall/database"
	"introcall/database/repository"
	"introcall/handlers"
	"introcall/middleware"
	"introcall/routes"
	"introcall/services/calls"
	"introcall/services/gcal"
	"introcall/services/invitation"
	"introcall/services/notification"
	"introcall/services/session"
	"introcall/services/tasks"
	"introcall/services/user"
	"introcall/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitSessionCache()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	repos := repository.NewMongoRepositories()
	if err := repos.EnsureIndexes(rootCtx); err != nil {
		logger.Fatal("main: failed to create indexes", zap.Error(err))
	}

	// auth.
	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		logger.Fatal("main: JWT_SECRET is required", zap.Error(err))
	}
	oauthState, err := utils.NewTokenIssuer(cfg.JWTSecret+":oauth-state", 10*time.Minute)
	if err != nil {
		logger.Fatal("main: failed to create oauth state issuer", zap.Error(err))
	}

	// google calendar.
	oauth := gcal.NewOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	calendarFactory := gcal.NewFactory(oauth)
	googleEnabled := cfg.GoogleClientID != "" && cfg.GoogleClientSecret != ""
	if !googleEnabled {
		logger.Warn("main: Google OAuth is not configured, calendar connection is disabled")
	}

	// background work.
	queueClient := asynq.NewClient(utils.QueueRedisOpt())
	defer queueClient.Close()
	enqueuer := tasks.NewAsynqEnqueuer(queueClient, time.Duration(cfg.ReminderLeadMinutes)*time.Minute)

	// mail.
	var mailer notification.Mailer = notification.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		logger.Warn("main: SMTP_HOST not set, e-mails are logged instead of sent")
	}
	notifier, err := notification.NewDefaultNotificationService(mailer, cfg.AppBaseURL)
	if err != nil {
		logger.Fatal("main: failed to build notification templates", zap.Error(err))
	}

	// services.
	userService := user.NewDefaultUserService(repos.Users, tokens, nil)
	if googleEnabled {
		userService.Google = &gcal.Linker{Factory: calendarFactory}
	}

	invitationService := invitation.NewDefaultInvitationService(
		repos.Invitations,
		repos.Users,
		enqueuer,
		notifier,
		time.Duration(cfg.InvitationTTLHours)*time.Hour,
		cfg.DefaultCallMinutes,
	)

	callService := &calls.DefaultCallService{
		Calls:           repos.Calls,
		Users:           repos.Users,
		Invitations:     invitationService,
		Sessions:        session.NewRedisStore(utils.GetSessionCacheClient(), cfg.SessionTTL()),
		Calendars:       calls.NewGoogleCalendars(calendarFactory),
		Tasks:           enqueuer,
		Notifier:        notifier,
		Hours:           cfg.WorkingHours(),
		Location:        cfg.Location(),
		DefaultDuration: cfg.DefaultCallMinutes,
		ProviderTimeout: cfg.ProviderTimeout(),
		Now:             time.Now,
	}

	worker, err := cron.StartWorker(utils.QueueRedisOpt(), invitationService, callService)
	if err != nil {
		logger.Fatal("main: failed to start worker", zap.Error(err))
	}

	utils.StartHealthMonitor(rootCtx, utils.GetSessionCacheClient(), database.MongoClient)

	// handlers.
	googleHandler := handlers.NewGoogleHandler(userService, nil, oauthState)
	if googleEnabled {
		googleHandler.OAuth = oauth
	}
	handlerBundle := handlers.NewHandlerBundle(
		tokens,
		repos.Users,
		handlers.NewUserHandler(userService),
		googleHandler,
		handlers.NewCallHandler(callService),
		handlers.NewInvitationHandler(invitationService),
		handlers.NewAdminHandler(userService),
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins())

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Errorf("main: failed to close MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
