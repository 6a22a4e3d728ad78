package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub014/config"
	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	cacheRedis "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/transport"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/worker"

	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/mailer"
	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/queue"
	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/scheduler"
	"github.com/samiserrag/denver-songwriters-collective-sub014/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)
	rsvpRepo := repository.NewRSVPRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	userRepo := repository.NewUserRepository(db)
	hostRequestRepo := repository.NewHostRequestRepository(db)
	hostInviteRepo := repository.NewHostInviteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize Telegram bot
	var telegramBot *telegram.Bot
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramBot = telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		logrus.Info("Telegram bot initialized")
	} else {
		logrus.Warn("Telegram bot token not provided, instant notifications disabled")
	}

	// Initialize mailer
	appMailer := mailer.NewMailer(&cfg.Email)

	// Initialize Redis: shared client for caching, dedicated queue on top
	var redisQueue queue.Queue
	var taskPublisher service.TaskPublisher
	var cacheRepo *cacheRedis.CacheRepository

	if cfg.Redis.Host != "" {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()

		cacheRepo = cacheRedis.NewCacheRepository(redisClient, cfg.App.CacheTTL)

		redisConfig := queue.DefaultRedisQueueConfig()
		redisConfig.Addr = redisClient.Options().Addr
		redisConfig.Password = cfg.Redis.Password
		redisConfig.DB = cfg.Redis.DB

		retryManager := queue.NewRetryManager(3, 5*time.Second)
		dlqHandler := queue.NewDefaultDLQHandler(redisClient, redisConfig.DLQ, redisConfig.MainQueue)

		redisQueue, err = queue.NewRedisQueue(redisConfig, retryManager, dlqHandler)
		if err != nil {
			logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
		} else {
			logrus.Info("Redis queue initialized")
			taskPublisher = service.NewQueueAdapter(redisQueue)
		}
	} else {
		logrus.Warn("Redis not configured, running without cache and queue")
	}

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, taskPublisher)
	eventService := service.NewEventService(
		eventRepo, overrideRepo, rsvpRepo, slotRepo, venueRepo,
		cacheRepo, taskPublisher,
		cfg.Schedule.DefaultWindowDays, cfg.Schedule.MaxOccurrences, cfg.Schedule.MaxMapPins,
	)
	rsvpService := service.NewRSVPService(rsvpRepo, eventRepo, notificationService, taskPublisher, cfg.RSVP.OfferTTL)
	slotService := service.NewSlotService(slotRepo, eventRepo)
	venueService := service.NewVenueService(venueRepo, eventRepo)
	userService := service.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	hostService := service.NewHostService(
		hostRequestRepo, hostInviteRepo, userRepo, eventRepo,
		notificationService, telegramBot, cfg.RSVP.InviteTTL,
	)

	// Initialize task handler if queue is available
	if redisQueue != nil {
		var bot queue.TelegramBot
		if telegramBot != nil {
			bot = telegramBot
		}
		taskHandler := queue.NewTaskHandler(rsvpRepo, eventRepo, userRepo, notificationService, appMailer, bot)

		go func() {
			ctx := context.Background()
			if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
				logrus.Errorf("Queue subscriber error: %v", err)
			}
		}()
		logrus.Info("Queue subscriber started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Timed driver for waitlist offer expiry
	offerScheduler := scheduler.NewScheduler(rsvpService, cfg.Worker.ExpiryInterval)
	go offerScheduler.Start(ctx)

	// Next-day reminder fan-out
	if taskPublisher != nil {
		reminderWorker := worker.NewReminderWorker(eventService, taskPublisher, cfg.Worker.ReminderInterval)
		go reminderWorker.Start(ctx)
	}

	// Initialize handlers
	handlers := &transport.Handlers{
		Event: transport.NewEventHandler(eventService),
		RSVP:  transport.NewRSVPHandler(rsvpService),
		Slot:  transport.NewSlotHandler(slotService),
		Venue: transport.NewVenueHandler(venueService),
		User:  transport.NewUserHandler(userService, notificationService),
		Host:  transport.NewHostHandler(hostService),
	}

	// Setup HTTP server
	if cfg.Server.Env == "production" || cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handlers, userService)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}
}
