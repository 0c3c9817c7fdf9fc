package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nuvoryx/drive/internal/archive"
	"github.com/nuvoryx/drive/internal/auth"
	"github.com/nuvoryx/drive/internal/blob"
	"github.com/nuvoryx/drive/internal/cleanup"
	"github.com/nuvoryx/drive/internal/config"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/folder"
	"github.com/nuvoryx/drive/internal/logger"
	"github.com/nuvoryx/drive/internal/notification"
	"github.com/nuvoryx/drive/internal/server"
	"github.com/nuvoryx/drive/internal/stats"
	"github.com/nuvoryx/drive/internal/storage"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	var blobs blob.Store
	switch cfg.Blob.Backend {
	case "minio":
		minioClient, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			logg.Fatal("connect minio", zap.Error(err))
		}
		if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
			logg.Fatal("ensure bucket", zap.Error(err))
		}
		blobs = blob.NewMinIOStore(minioClient, cfg.MinIO.Bucket, logg)
	default:
		diskStore, err := blob.NewDiskStore(cfg.Blob.Root, logg)
		if err != nil {
			logg.Fatal("prepare upload dir", zap.Error(err))
		}
		blobs = diskStore
	}

	var mailer auth.Mailer
	if cfg.Mail.Host != "" {
		mailer = auth.NewSMTPMailer(cfg.Mail)
	} else {
		mailer = auth.NewLogMailer(logg)
	}

	userRepo := auth.NewRepository(dbPool)
	authService := auth.NewService(userRepo, mailer, cfg.Auth)

	folderRepo := folder.NewRepository(dbPool)
	folderService := folder.NewService(folderRepo)

	fileRepo := file.NewRepository(dbPool)
	fileService := file.NewService(fileRepo, folderService, blobs)

	statsService := stats.NewService(folderRepo, fileRepo)
	packer := archive.NewPacker(folderRepo, fileRepo, blobs)
	coordinator := cleanup.NewCoordinator(folderRepo, fileRepo, blobs, dbPool, logg)
	notificationRepo := notification.NewRepository(dbPool)

	router := server.NewRouter(server.Dependencies{
		Config:        cfg,
		DB:            dbPool,
		AuthService:   authService,
		FolderService: folderService,
		FileService:   fileService,
		FileRepo:      fileRepo,
		StatsService:  statsService,
		Packer:        packer,
		Coordinator:   coordinator,
		Notifications: notificationRepo,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("Nuvoryx API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
