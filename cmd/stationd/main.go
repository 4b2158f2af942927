package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"fieldnotes/internal/station/adapters/cache"
	mediaAdapters "fieldnotes/internal/station/adapters/media"
	"fieldnotes/internal/station/adapters/rerum"
	"fieldnotes/internal/station/adapters/upload"
	"fieldnotes/internal/station/app/capture"
	httpServer "fieldnotes/internal/station/app/http"
	"fieldnotes/internal/station/app/services"
	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/resilience"
	"fieldnotes/pkg/logger"
	"fieldnotes/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "STATION_LOGGER_MODE"
	EnvLoggerLevel = "STATION_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrCreateProfileStore   = "failed to create profile store"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "station service started"
	LogServiceShutdownDone = "station service shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitClients         = "initializing remote store clients"
	LogInitProfileStore    = "initializing profile store"
	LogInitPipeline        = "initializing media pipeline"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitClients)
		notesClient := rerum.NewClient(&cfg.API)
		uploadClient := upload.NewClient(&cfg.Upload)

		log.Info(ctx, LogInitProfileStore)
		profileStore, err := cache.NewRedisProfileStore(ctx, &cfg.Redis)
		if err != nil {
			log.Error(ctx, ErrCreateProfileStore, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitPipeline)
		normalizer := mediaAdapters.NewNormalizer(&cfg.Media)
		thumbnails := mediaAdapters.NewThumbnailExtractor(&cfg.Media)

		log.Info(ctx, LogInitServices)
		storeResilience := resilience.NewService("rerum",
			resilience.RetryConfigFrom(&cfg.Retry, resilience.DefaultShouldRetry))
		uploadResilience := resilience.NewService("upload",
			resilience.RetryConfigFrom(&cfg.Retry, services.UploadShouldRetry))

		uploadService := services.NewUploadService(uploadClient, uploadResilience)
		pipeline := capture.NewController(normalizer, thumbnails, uploadService)
		directoryService := services.NewDirectoryService(profileStore, notesClient)
		notesService := services.NewNotesService(notesClient, directoryService, storeResilience)

		log.Info(ctx, LogInitHTTPServer)
		app := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    cfg.HTTP.MaxBodySize,
		})

		httpServer.SetupRouter(app, notesService, directoryService, pipeline, cfg.Media.TempDir)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Один хук с фиксированным порядком: хранилище профилей
			// нельзя закрывать, пока сервер дорабатывает запросы.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				if err := app.Shutdown(); err != nil {
					return err
				}
				log.Info(ctx, "Closing profile store")
				return profileStore.Close()
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
