// cmd/server/main.go
package main

import (
	"context"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/audit"
	"github.com/anquilosaurios/backend-core/internal/auth"
	"github.com/anquilosaurios/backend-core/internal/config"
	"github.com/anquilosaurios/backend-core/internal/database"
	"github.com/anquilosaurios/backend-core/internal/handlers"
	"github.com/anquilosaurios/backend-core/internal/middleware"
	"github.com/anquilosaurios/backend-core/internal/payment"
	"github.com/anquilosaurios/backend-core/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.Token)
	if err != nil {
		logger.Fatalf("invalid token configuration: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatalf("unable to connect to mongo: %v", err)
	}
	logger.Infof("connected to mongo database %s", cfg.MongoDatabase)

	userRepo := database.NewUserRepository(db)
	matchRepo := database.NewMatchRepository(db)
	purchaseRepo := database.NewPurchaseRepository(db)

	var auditor audit.Recorder = audit.NopRecorder{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("unable to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		auditor = audit.NewRedisRecorder(rdb, cfg.AuditQueue)
		logger.Infof("audit events queued to redis at %s", cfg.RedisAddr)
	}

	registry := payment.NewRegistry()
	if cfg.StripeAPIKey != "" {
		registry.Register(payment.NewStripeProvider(cfg.StripeAPIKey))
	}
	if cfg.PaypalClientID != "" && cfg.PaypalSecret != "" {
		registry.Register(payment.NewPaypalProvider(cfg.PaypalClientID, cfg.PaypalSecret))
	}
	logger.Infof("payment providers enabled: %v", registry.Names())

	authSvc := auth.NewService(auth.NewLocalProvider(userRepo), tokens, auditor, logger)
	userSvc := service.NewUserService(userRepo, logger)
	matchSvc := service.NewMatchService(matchRepo, userRepo, auditor, logger)
	paymentSvc := service.NewPaymentService(registry, purchaseRepo, userRepo, auditor, logger)

	authH := handlers.NewAuthHandlers(authSvc, userSvc, logger)
	userH := handlers.NewUserHandlers(userSvc, logger)
	matchH := handlers.NewMatchHandlers(matchSvc, logger)
	paymentH := handlers.NewPaymentHandlers(paymentSvc, logger)

	requireAuth := middleware.RequireAuth(tokens)
	requireAdmin := middleware.RequireAdmin(tokens)
	logMW := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()

	// auth endpoints
	mux.HandleFunc("POST /auth/register", authH.Register)
	mux.HandleFunc("POST /auth/login", authH.Login)
	mux.Handle("POST /auth/logout", requireAuth(http.HandlerFunc(authH.Logout)))
	mux.Handle("GET /auth/me", requireAuth(http.HandlerFunc(authH.Me)))

	// user endpoints
	mux.Handle("GET /users", requireAuth(http.HandlerFunc(userH.List)))
	mux.HandleFunc("POST /users", userH.Create)
	mux.Handle("PUT /users/{id}", requireAuth(http.HandlerFunc(userH.Update)))
	mux.Handle("PUT /users/status/{id}", requireAdmin(http.HandlerFunc(userH.UpdateStatus)))
	mux.Handle("PUT /users/admin/{id}", requireAdmin(http.HandlerFunc(userH.ChangeAdmin)))
	mux.Handle("PUT /users/verifyEmail/{id}", requireAuth(http.HandlerFunc(userH.VerifyEmail)))
	mux.Handle("POST /users/achievements/{id}", requireAuth(http.HandlerFunc(userH.AddAchievements)))

	// match history endpoints
	mux.Handle("POST /matches", requireAdmin(http.HandlerFunc(matchH.Record)))
	mux.Handle("GET /matches/{id}", requireAuth(http.HandlerFunc(matchH.Get)))
	mux.Handle("GET /matches/player/{id}", requireAuth(http.HandlerFunc(matchH.ListByPlayer)))

	// payment endpoints
	mux.Handle("POST /payments/charge", requireAuth(http.HandlerFunc(paymentH.Charge)))
	mux.Handle("POST /payments/refund/{id}", requireAdmin(http.HandlerFunc(paymentH.Refund)))

	addr := ":" + cfg.Port
	logger.Infof("running on %s", addr)
	if err := http.ListenAndServe(addr, logMW(mux)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
