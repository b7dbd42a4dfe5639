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
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/impactorbit/impactorbit-backend/handlers"
	"github.com/impactorbit/impactorbit-backend/internal/admins"
	"github.com/impactorbit/impactorbit-backend/internal/blogs"
	"github.com/impactorbit/impactorbit-backend/internal/comments"
	"github.com/impactorbit/impactorbit-backend/internal/config"
	"github.com/impactorbit/impactorbit-backend/internal/database"
	"github.com/impactorbit/impactorbit-backend/internal/docstore"
	"github.com/impactorbit/impactorbit-backend/internal/messages"
	"github.com/impactorbit/impactorbit-backend/internal/oidc"
	"github.com/impactorbit/impactorbit-backend/internal/sessions"
	"github.com/impactorbit/impactorbit-backend/internal/storage"
	"github.com/impactorbit/impactorbit-backend/internal/team"
	"github.com/impactorbit/impactorbit-backend/pkg/logger"
	"github.com/impactorbit/impactorbit-backend/pkg/metrics"
	"github.com/impactorbit/impactorbit-backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: oidc=%v mongo=%v redis=%v", cfg.OIDC.Issuer != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for dev/test; production sits behind a stricter proxy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// shared runtime vars used by handlers/readiness
	var (
		verifier    middleware.Verifier
		store       docstore.Store
		adminsSvc   *admins.Service
		sessionsSvc *sessions.Service
	)

	// Connect to Redis early so the blacklist and rate limiter can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err == nil {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["store"] = store != nil
		if store == nil {
			ready = false
		}
		deps["admins"] = adminsSvc != nil
		deps["sessions"] = sessionsSvc != nil

		if cfg.OIDC.Issuer != "" {
			deps["oidc"] = verifier != nil
			if verifier == nil {
				ready = false
			}
		} else {
			deps["oidc"] = true
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	ctx := context.Background()

	// OIDC verifier for the admin panel
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, strings.TrimRight(cfg.OIDC.Issuer, "/"), cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	// Insecure verifier for integration tests: claims parsed without
	// signature verification. Opt-in only.
	if verifier == nil && strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN"))) == "true" {
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}

	// Prefer Redis-backed sessions when available
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	}

	// MongoDB: document store + admin accounts (+ sessions fallback)
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			store = docstore.NewMongoStore(client, cfg.MongoDB.Database)

			adminsCol := client.Database(cfg.MongoDB.Database).Collection("admins")
			adminsSvc = admins.NewService(admins.NewMongoRepository(adminsCol))

			if sessionsSvc == nil {
				sessionsCol := client.Database(cfg.MongoDB.Database).Collection("sessions")
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(sessionsCol))
			}
		}
	}
	if store == nil {
		// dev fallback so the public site still works locally
		logger.Warnf("no MongoDB configured, using in-memory document store")
		store = docstore.NewMemoryStore()
	}

	registry := blogs.NewRegistry(store)
	coordinator := blogs.NewCoordinator(store)
	commentStore := comments.NewStore(store)
	messageStore := messages.NewStore(store)
	teamStore := team.NewStore(store)

	// media uploads (blog covers, team avatars) need the object store
	var media *storage.MediaStorage
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		media, err = storage.NewMediaStorage(mcfg)
		if err != nil {
			logger.Warnf("media storage unavailable: %v", err)
			media = nil
		}
	}

	blogHandler := handlers.NewBlogHandler(registry, coordinator)
	commentHandler := handlers.NewCommentHandler(commentStore)
	messageHandler := handlers.NewMessageHandler(messageStore)
	teamHandler := handlers.NewTeamHandler(teamStore, media)

	// public surface
	api := r.Group("/api")
	blogHandler.RegisterPublic(api)
	commentHandler.RegisterPublic(api)
	messageHandler.RegisterPublic(api)
	teamHandler.RegisterPublic(api)

	// admin surface: authenticated, panel roles only
	if verifier != nil {
		adminAPI := r.Group("/api", middleware.AuthMiddleware(verifier), middleware.RequirePanelAccess())
		blogHandler.RegisterAdmin(adminAPI)
		commentHandler.RegisterAdmin(adminAPI)
		messageHandler.RegisterAdmin(adminAPI)
		teamHandler.RegisterAdmin(adminAPI)

		if adminsSvc != nil {
			handlers.NewAdminHandler(adminsSvc).Register(adminAPI)
		}
		if media != nil {
			handlers.NewMediaHandler(media).Register(adminAPI)
		}
	} else {
		logger.Warnf("no token verifier configured, admin routes not registered")
	}

	if adminsSvc != nil && sessionsSvc != nil {
		handlers.NewAuthHandler(cfg, adminsSvc, sessionsSvc).Register(r.Group("/"))
	} else {
		logger.Warnf("auth handlers not registered because admin/session services are unavailable")
	}

	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting impactorbit backend on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
