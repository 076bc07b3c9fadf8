package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"lms-connector/internal/config"
	"lms-connector/internal/controllers/board"
	"lms-connector/internal/domain/entities"
	"lms-connector/internal/domain/interfaces/repository"
	Iservices "lms-connector/internal/domain/interfaces/services"
	"lms-connector/internal/i18n"
	"lms-connector/internal/infra/handlers"
	"lms-connector/internal/infra/logger"
	"lms-connector/internal/infra/metrics"
	infraRepository "lms-connector/internal/infra/repository"
	"lms-connector/internal/infra/routes"
	"lms-connector/internal/infra/services"
	"lms-connector/internal/middleware"
	client "lms-connector/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()
	settings := config.Load()

	ctx, stopContext := context.WithCancel(context.Background())
	defer stopContext()
	log := logger.NewLogger(ctx, settings.LogFormat != "text", settings.LogLevel)

	catalog, err := i18n.Load()
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to load language catalogs: %v", err))
	}

	preferenceRepo, closeRepo, err := newPreferenceRepository(ctx, settings)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to open %s preference store: %v", settings.PreferencesBackend, err))
	}
	defer closeRepo()

	appMetrics := metrics.New()
	httpClient := &http.Client{Timeout: settings.BackendTimeout}

	var assistantService Iservices.IAssistantService = services.NewAssistantService(log, httpClient, settings.APIURL, appMetrics)
	var preferenceService Iservices.ILanguagePreferenceService = services.NewLanguagePreferenceService(preferenceRepo, log)

	clients := handlers.NewClientRegistry(handlers.ClientDeps{
		Upload: entities.UploadConfig{
			APIURL:            settings.APIURL,
			EnableFileUpload:  settings.EnableFileUpload,
			MaxFileSizeBytes:  settings.MaxFileSizeBytes(),
			AllowedExtensions: settings.AllowedExtensions,
		},
		Limits: board.SubmissionLimits{
			MaxBytes: settings.SubmissionMaxBytes(),
			MIME:     settings.SubmissionMIME,
		},
		Assistant:   assistantService,
		Preferences: preferenceService,
		Catalog:     catalog,
		Metrics:     appMetrics,
		Logger:      log,
	})
	go clients.RunSweeper(ctx, time.Minute, settings.ClientIdleTimeout)

	chatHandlers := handlers.NewChatHandlers(log, clients)
	assignmentHandlers := handlers.NewAssignmentHandlers(log, clients)
	pageHandlers, err := handlers.NewPageHandlers(log, clients, assignmentHandlers)
	if err != nil {
		log.Fatal(err.Error())
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log, appMetrics))

	routes := routes.NewRoutes(
		router,
		pageHandlers,
		chatHandlers,
		assignmentHandlers,
		appMetrics,
	)

	routes.Init()

	server := &http.Server{
		Addr:    settings.Addr(),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s, backend %s", settings.Port, settings.APIURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")
	stopContext()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}

// newPreferenceRepository opens the configured language preference store.
func newPreferenceRepository(ctx context.Context, settings config.Settings) (repository.Repository[entities.LanguagePreference], func(), error) {
	switch settings.PreferencesBackend {
	case "mongo", "mongodb":
		mongoClient, err := client.MongoClient(ctx, settings.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := mongoClient.Database(settings.MongoDatabase)
		closeFn := func() { mongoClient.Disconnect(context.Background()) }
		return infraRepository.NewMongoRepository[entities.LanguagePreference](db, "client_id"), closeFn, nil
	case "redis":
		redisClient, err := client.RedisClient(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { redisClient.Close() }
		return infraRepository.NewRedisRepository[entities.LanguagePreference](redisClient, 0), closeFn, nil
	case "memory":
		return infraRepository.NewMemoryRepository[entities.LanguagePreference](), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown preferences backend %q", settings.PreferencesBackend)
	}
}
