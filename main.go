package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"instituto-backend/internal/inscricoes"
	"instituto-backend/internal/modalidades"
	"instituto-backend/internal/platform/auth"
	"instituto-backend/internal/platform/db"
	"instituto-backend/internal/platform/logging"
	"instituto-backend/internal/platform/metrics"
	"instituto-backend/internal/platform/observability"
	"instituto-backend/internal/presencas"
	"instituto-backend/internal/profiles"
	"instituto-backend/internal/relatorios"
)

func main() {
	// .env is optional; secrets may come from the real environment.
	_ = godotenv.Load()

	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}
	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("config: mode must be dev or release")
		return
	}

	logg, err := logging.Init(cfg.LogLevel, cfg.Mode)
	if err != nil {
		panic(err)
	}
	defer logg.Closer()
	log := logg.Base

	if cfg.SentryDSN != "" {
		flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Mode, cfg.Version)
		if err != nil {
			log.Warn("sentry init failed", zap.Error(err))
		} else {
			defer flush()
		}
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer conn.Close()
	log.Info("connected to DB", zap.String("dbname", cfg.DB.DBName))

	if err := db.Migrate(conn); err != nil {
		log.Fatal("migrations", zap.Error(err))
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.RequestLogger(log), gin.Recovery(), metrics.Middleware())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		start := time.Now()
		if err := conn.PingContext(ctx); err != nil {
			observability.CaptureErr(err)
			c.String(http.StatusServiceUnavailable, "db down")
			return
		}
		metrics.ObserveDBPing(time.Since(start))
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	secret := []byte(cfg.Auth.JWTSecret)

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewService(conn, secret))

	authed := api.Group("", auth.RequireAuth(secret))
	profiles.RegisterRoutes(authed, profiles.NewService(conn))
	modalidades.RegisterRoutes(authed, modalidades.NewService(conn))
	inscricoes.RegisterRoutes(authed, inscricoes.NewService(conn))
	presencas.RegisterRoutes(authed, presencas.NewService(conn))
	relatorios.RegisterRoutes(authed, relatorios.NewService(conn))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		var err error
		if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
			certFile := fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Cert)
			keyFile := fmt.Sprintf("config/tls/%s/%s", cfg.Mode, cfg.Certificate.Key)
			log.Info("listening with TLS", zap.String("addr", cfg.HTTPAddr))
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			log.Info("listening", zap.String("addr", cfg.HTTPAddr))
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
