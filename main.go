package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/markhub/markhub/internal/backup"
	"github.com/markhub/markhub/internal/cache"
	"github.com/markhub/markhub/internal/config"
	"github.com/markhub/markhub/internal/database"
	dochandler "github.com/markhub/markhub/internal/document/handler"
	docrepo "github.com/markhub/markhub/internal/document/repository"
	docservice "github.com/markhub/markhub/internal/document/service"
	"github.com/markhub/markhub/internal/images"
	imghandler "github.com/markhub/markhub/internal/images/handler"
	"github.com/markhub/markhub/internal/oidc"
	profilehandler "github.com/markhub/markhub/internal/profile/handler"
	profilerepo "github.com/markhub/markhub/internal/profile/repository"
	profileservice "github.com/markhub/markhub/internal/profile/service"
	"github.com/markhub/markhub/internal/rates"
	"github.com/markhub/markhub/internal/storage"
	"github.com/markhub/markhub/pkg/logger"
	"github.com/markhub/markhub/pkg/metrics"
	"github.com/markhub/markhub/pkg/middleware"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: oidc=%v mongo=%v redis=%v minio=%v",
		cfg.OIDC.IssuerURL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Endpoint != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Permissive CORS for dev/test; production should sit behind a stricter proxy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// OIDC verifier; ALLOW_INSECURE_TOKEN=true swaps in the claims-only
	// verifier for integration runs against a fake issuer.
	var verifier middleware.Verifier
	if cfg.OIDC.IssuerURL != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}
	if verifier == nil {
		logger.Fatalf("no token verifier available: set OIDC_ISSUER_URL/OIDC_CLIENT_ID or ALLOW_INSECURE_TOKEN=true")
	}
	auth := middleware.Authenticated(verifier)

	mongoClient, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(ctx) }()
	db := mongoClient.Database(cfg.MongoDB.Database)

	store, err := storage.NewMinIOStorage(cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize object storage: %v", err)
	}

	var listingCache docservice.ListingCache
	if redisClient != nil {
		listingCache = cache.NewRedisCache(redisClient, "documents:permanent", 5*time.Minute)
	}

	documents := docrepo.NewMongoRepo(db.Collection("docs"))
	profiles := profilerepo.NewMongoRepo(db.Collection("users-profiles"))
	ratings := rates.NewService(rates.NewMongoRepo(db.Collection("document-rates")))

	docSvc := docservice.New(documents, profiles, ratings, listingCache)
	avatarSvc := images.NewAvatarService(store, cfg.Images.AvatarMaxMegabytes)
	profileSvc := profileservice.New(profiles, avatarSvc)
	uploadSvc := images.NewUploadService(store, cfg.Images.MaxMegabytes)
	backupSvc := backup.New(cfg.Backup)

	dochandler.RegisterRoutes(r, auth, docSvc, ratings)
	profilehandler.RegisterRoutes(r, auth, profileSvc)
	imghandler.RegisterRoutes(r, auth, uploadSvc)
	backup.RegisterRoutes(r, backupSvc)

	job, err := backup.NewJob(backupSvc, cfg.Server, cfg.Backup)
	if err != nil {
		logger.Fatalf("failed to schedule automatic backups: %v", err)
	}
	job.Start()
	defer job.Stop()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"mongo":   mongoClient.Ping(c.Request.Context(), nil) == nil,
			"storage": store != nil,
			"redis":   redisClient == nil || redisClient.Ping(c.Request.Context()).Err() == nil,
		}
		ready := deps["mongo"] && deps["storage"] && deps["redis"]
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting markhub API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
