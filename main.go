package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stay-booking/auth"
	"stay-booking/booking"
	"stay-booking/clients"
	"stay-booking/config"
	"stay-booking/controllers"
	"stay-booking/jobs"
	"stay-booking/kvstore"
	"stay-booking/logger"
	"stay-booking/otp"
	"stay-booking/realtime"
	"stay-booking/repositories"
	"stay-booking/routes"
	"stay-booking/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ logger init failed: %v", err)
	}
	logger.Init(zl)
	defer func() { _ = zl.Sync() }()

	db, err := config.ConnectDatabase(cfg.Database, zl)
	if err != nil {
		zl.Fatal("❌ Database connect failed", zap.Error(err))
	}
	zl.Info("✅ Database connection established and migrations applied")

	// Key-value store, locks and jobs use redis when configured, in-process fallbacks otherwise.
	var (
		store  kvstore.Store
		locker kvstore.Locker
		runner jobs.Runner
	)
	var redisOpt asynq.RedisClientOpt
	if cfg.Redis.Enabled() {
		rdb := kvstore.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zl.Fatal("❌ Redis ping failed", zap.Error(err))
		}
		store = kvstore.NewRedisStore(rdb, "stay:")
		locker = kvstore.NewRedisLocker(rdb, 10*time.Second)
		redisOpt = asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		zl.Info("✅ Redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		store = kvstore.NewMemoryStore()
		locker = kvstore.NewMemoryLocker()
		zl.Warn("⚠️  REDIS_ADDR not set; using in-process store, locks and ticker jobs")
	}

	// Realtime bus
	wmLogger := realtime.NewLoggerAdapter(zl)
	seq := realtime.NewSequencer(store)
	var bus *realtime.Bus
	if cfg.AMQP.URL != "" {
		bus, err = realtime.NewAMQPBus(cfg.AMQP.URL, uuid.NewString(), seq, wmLogger)
		if err != nil {
			zl.Fatal("❌ AMQP connect failed", zap.Error(err))
		}
		zl.Info("✅ AMQP event bus connected")
	} else {
		bus = realtime.NewGoChannelBus(seq, wmLogger)
	}
	defer bus.Close()

	// Repositories and services
	userRepo := repositories.NewUserRepository(db)
	geocoder := clients.NewOpenCage(cfg.Geocoding.APIKey, cfg.Geocoding.BaseURL, cfg.Geocoding.Timeout, cfg.Geocoding.Threshold)
	if cfg.Geocoding.APIKey == "" {
		zl.Warn("⚠️  OPENCAGE_API_KEY not set; profile cities will not be geocoded")
	}
	userService := services.NewUserService(userRepo, geocoder)
	experienceService := services.NewExperienceService(repositories.NewExperienceRepository(db))
	wishlistService := services.NewWishlistService(userService, repositories.NewWishlistRepository(db), locker, bus)
	reservationService := services.NewReservationService(userService, repositories.NewReservationRepository(db),
		cfg.Booking.CancelWindow, cfg.Booking.ReferenceAttempts)

	providers := map[string]auth.Provider{}
	for _, name := range services.KnownProviders {
		p := cfg.OAuth.Provider(name)
		if !p.Configured() {
			continue
		}
		redirect := strings.TrimRight(cfg.OAuth.RedirectURL, "/") + "/" + name
		provider, err := auth.NewProvider(name, p.ClientID, p.ClientSecret, redirect)
		if err != nil {
			zl.Fatal("❌ OAuth provider init failed", zap.String("provider", name), zap.Error(err))
		}
		providers[name] = provider
	}
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	authService := services.NewAuthService(repositories.NewAuthAccountRepository(db), tokens, store, providers, bus, cfg.OAuth.StateTTL)
	authService.Users = userService
	otpService := services.NewOTPService(store, otp.NewProvider(), cfg.OTP.TTL, cfg.OTP.MaxAttempts)

	flow := booking.NewFlow(
		booking.NewDraftStore(store, cfg.Booking.DraftTTL),
		repositories.NewOptionRepository(db),
		experienceService,
		reservationService,
		locker,
		cfg.Booking.TaxRatePercent,
	)

	// Event router: wishlist fan-out to SSE streams and user provisioning on auth events.
	hub := realtime.NewHub()
	provision := realtime.ProvisionerFunc(func(ctx context.Context, authID, email string) error {
		_, err := userService.EnsureUser(ctx, authID, email)
		return err
	})
	eventRouter, err := realtime.NewRouter(bus, hub, provision, wmLogger)
	if err != nil {
		zl.Fatal("❌ Event router init failed", zap.Error(err))
	}
	routerCtx, stopRouter := context.WithCancel(context.Background())
	defer stopRouter()
	go func() {
		if err := eventRouter.Run(routerCtx); err != nil {
			zl.Error("event router stopped", zap.Error(err))
		}
	}()
	<-eventRouter.Running()

	// Jobs
	var monitor http.Handler
	if cfg.Redis.Enabled() {
		a, err := jobs.StartAsynq(redisOpt, cfg.Jobs.CompletionSpec, reservationService)
		if err != nil {
			zl.Fatal("❌ Job scheduler init failed", zap.Error(err))
		}
		runner = a
		if cfg.Jobs.MonitoringEnabled {
			monitor = jobs.Monitor(redisOpt, cfg.Jobs.MonitoringPath)
		}
	} else {
		runner = jobs.StartTicker(cfg.Jobs.CompletionInterval, reservationService)
	}

	// Controllers and router
	router := routes.SetupRouter(routes.Controllers{
		Experiences:  controllers.NewExperienceController(experienceService),
		Wishlist:     controllers.NewWishlistController(wishlistService, userService, hub, seq),
		Reservations: controllers.NewReservationController(reservationService),
		Booking:      controllers.NewBookingController(flow),
		Auth:         controllers.NewAuthController(authService, userService, cfg.OAuth.AppRedirect),
		Profile:      controllers.NewProfileController(userService),
		OTP:          controllers.NewOTPController(otpService),
	}, authService, routes.Options{
		CorsOrigins:     cfg.CorsOrigins(),
		Logger:          zl,
		Monitor:         monitor,
		MonitorPath:     cfg.Jobs.MonitoringPath,
		MonitorAccounts: gin.Accounts{cfg.Jobs.MonitoringUser: cfg.Jobs.MonitoringPassword},
	})

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		zl.Info("🚀 Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("❌ ListenAndServe failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zl.Warn("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	runner.Shutdown()
	stopRouter()
	if err := eventRouter.Close(); err != nil {
		zl.Warn("event router close", zap.Error(err))
	}

	zl.Info("✅ Server stopped gracefully")
}
