package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/resulto-ai/resulto-gateway/api/swagger"
	"github.com/resulto-ai/resulto-gateway/internal/checkout"
	"github.com/resulto-ai/resulto-gateway/internal/handler"
	"github.com/resulto-ai/resulto-gateway/internal/identity"
	"github.com/resulto-ai/resulto-gateway/internal/middleware"
	"github.com/resulto-ai/resulto-gateway/internal/remote"
	"github.com/resulto-ai/resulto-gateway/internal/service"
	"github.com/resulto-ai/resulto-gateway/pkg/config"
	"github.com/resulto-ai/resulto-gateway/pkg/export"
	"github.com/resulto-ai/resulto-gateway/pkg/logger"
	corsmiddleware "github.com/resulto-ai/resulto-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/resulto-ai/resulto-gateway/pkg/middleware/requestid"
	"github.com/resulto-ai/resulto-gateway/pkg/storage"
	"github.com/resulto-ai/resulto-gateway/pkg/tasks"
)

// @title Resulto Gateway
// @version 0.1.0
// @description Local companion gateway for the Resulto result service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokenStore, err := storage.NewTokenStore(cfg.Session.TokenPath)
	if err != nil {
		logr.Sugar().Fatalw("failed to init token store", "error", err)
	}
	artifactStore, err := storage.NewArtifactStore(cfg.Downloads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init downloads directory", "error", err)
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	client := remote.NewClient(cfg.Service.BaseURL, cfg.Service.Timeout, observerOrNil(metricsSvc), logr)

	var verifier *identity.GoogleVerifier
	if cfg.Google.ClientID != "" {
		verifier = identity.NewGoogleVerifier(cfg.Google.ClientID)
	}

	sessionSvc := service.NewSessionService(client, tokenStore, verifierOrNil(verifier), nil, logr)
	ledgerSvc := service.NewLedgerService(logr)
	uploadSvc := service.NewUploadService(client, sessionSvc, ledgerSvc, artifactStore, uploadObserverOrNil(metricsSvc), logr)
	historySvc := service.NewHistoryService(client, sessionSvc, logr)
	generatorSvc := service.NewGeneratorService(client, sessionSvc, ledgerSvc, export.NewPDFExporter(), artifactStore, historySvc, generationObserverOrNil(metricsSvc), logr)

	checkoutProvider := checkout.NewSnapProvider(cfg.Checkout.ServerKey, cfg.Checkout.Sandbox)
	paymentSvc := service.NewPaymentService(client, checkoutProvider, sessionSvc, generatorSvc, cfg.Checkout.Amount, cfg.Checkout.Currency, nil, logr)

	runner := tasks.NewRunner("gateway", func(ctx context.Context, task tasks.Task) error {
		switch task.Type {
		case "history_refresh":
			return historySvc.Refresh(ctx)
		case "artifact_cleanup":
			deleted, err := artifactStore.CleanupOlderThan(cfg.Downloads.TTL)
			if err != nil {
				return err
			}
			if len(deleted) > 0 {
				logr.Sugar().Infow("expired downloads removed", "count", len(deleted))
			}
			return nil
		default:
			logr.Sugar().Warnw("unknown task type", "type", task.Type)
			return nil
		}
	}, tasks.RunnerConfig{Workers: 2, Logger: logr})
	runner.Start(ctx)
	defer runner.Stop()
	historySvc.AttachRunner(runner)

	go func() {
		ticker := time.NewTicker(cfg.Downloads.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := runner.Enqueue(tasks.Task{ID: uuid.NewString(), Type: "artifact_cleanup"}); err != nil {
					logr.Sugar().Warnw("failed to queue cleanup", "error", err)
				}
			}
		}
	}()

	// Re-establish the previous session before serving; a stale or missing
	// token just lands signed out.
	restoreCtx, cancel := context.WithTimeout(ctx, cfg.Service.Timeout)
	if err := sessionSvc.Restore(restoreCtx); err != nil {
		logr.Sugar().Warnw("session restore failed", "error", err)
	}
	cancel()
	if sessionSvc.IsSignedIn() {
		historySvc.RefreshAsync()
	}

	authHandler := handler.NewAuthHandler(sessionSvc, paymentSvc, historySvc, generatorSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc)
	ledgerHandler := handler.NewLedgerHandler(ledgerSvc)
	resultHandler := handler.NewResultHandler(generatorSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	historyHandler := handler.NewHistoryHandler(historySvc, sessionSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if metricsSvc != nil {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/auth/google", authHandler.SignInWithGoogle)
	r.GET("/auth/session", authHandler.Session)
	r.POST("/auth/signout", authHandler.SignOut)

	r.POST("/upload", uploadHandler.Submit)

	r.GET("/ledger", ledgerHandler.View)
	r.POST("/ledger/entries", ledgerHandler.AddEntry)
	r.PUT("/ledger/entries/:id", ledgerHandler.UpdateEntry)
	r.DELETE("/ledger/entries/:id", ledgerHandler.RemoveEntry)
	r.PUT("/ledger/student", ledgerHandler.SetStudent)

	r.POST("/generate", resultHandler.Generate)
	r.GET("/result", resultHandler.Current)
	r.POST("/result/download", resultHandler.Download)
	r.POST("/result/export", resultHandler.Export)

	r.POST("/payment/checkout", paymentHandler.OpenCheckout)
	r.POST("/payment/complete", paymentHandler.Complete)
	r.POST("/payment/cancel", paymentHandler.Cancel)
	r.GET("/payment/state", paymentHandler.State)

	r.GET("/history", historyHandler.View)
	r.POST("/history/refresh", historyHandler.Refresh)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Sugar().Warnw("server shutdown failed", "error", err)
		}
	}()

	logr.Sugar().Infow("gateway starting", "addr", addr, "env", cfg.Env, "api", cfg.Service.BaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
	logr.Sugar().Infow("gateway stopped")
}

// The nil-interface helpers keep a typed nil out of the interface fields so
// the services' nil checks stay meaningful.
func observerOrNil(m *service.MetricsService) remote.Observer {
	if m == nil {
		return nil
	}
	return m
}

func uploadObserverOrNil(m *service.MetricsService) service.UploadObserver {
	if m == nil {
		return nil
	}
	return m
}

func generationObserverOrNil(m *service.MetricsService) service.GenerationObserver {
	if m == nil {
		return nil
	}
	return m
}

func verifierOrNil(v *identity.GoogleVerifier) service.CredentialVerifier {
	if v == nil {
		return nil
	}
	return v
}
