package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/auth"
	"github.com/KirkDiggler/roomserver/internal/config"
	"github.com/KirkDiggler/roomserver/internal/handlers/ws"
	"github.com/KirkDiggler/roomserver/internal/logging"
	"github.com/KirkDiggler/roomserver/internal/services"
	"github.com/KirkDiggler/roomserver/internal/uuid"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	instanceID := cfg.Server.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewGoogleUUIDGenerator().New()
	}
	logger = logger.With(zap.String("instance_id", instanceID))

	providerConfig := &services.ProviderConfig{
		OriginID:      instanceID,
		DefaultRoomID: cfg.Server.DefaultRoomID,
		ChatHistory:   cfg.Server.ChatHistory,
		Logger:        logger,
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, parseErr := redis.ParseURL(cfg.Redis.URL)
		if parseErr != nil {
			logger.Fatal("Failed to parse Redis URL", zap.Error(parseErr))
		}
		redisClient = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr := redisClient.Ping(ctx).Err()
		cancel()
		if pingErr != nil {
			logger.Fatal("Failed to connect to Redis", zap.String("addr", opts.Addr), zap.Error(pingErr))
		}
		logger.Info("Using Redis for persistence and the event bus", zap.String("addr", opts.Addr))
		providerConfig.RedisClient = redisClient
	} else {
		logger.Warn("No REDIS_URL found, using in-memory repositories and a local event bus")
	}

	serviceProvider := services.NewProvider(providerConfig)

	handler := ws.NewHandler(&ws.HandlerConfig{
		RoomService: serviceProvider.RoomService,
		Verifier: auth.NewJWTVerifier(&auth.JWTConfig{
			Secret: []byte(cfg.Auth.JWTSecret),
			Issuer: cfg.Auth.Issuer,
		}),
		HeartbeatInterval: cfg.Server.HeartbeatInterval,
		HeartbeatTimeout:  cfg.Server.HeartbeatTimeout(),
		MaxMalformed:      cfg.Server.MaxMalformed,
		SendBuffer:        cfg.Server.SendBuffer,
		Logger:            logger,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           ws.NewMux(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Room server listening", zap.String("addr", cfg.Server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	select {
	case sig := <-sc:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to stop http server", zap.Error(err))
	}

	// Hijacked WebSockets are not covered by server.Shutdown
	handler.Shutdown()

	if err := serviceProvider.Close(); err != nil {
		logger.Error("Failed to close services", zap.Error(err))
	}

	// Clean up Redis connection if we have one
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
}
