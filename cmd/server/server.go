package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/joho/godotenv"

	"menloresearch/meteobot-server/internal/config"
	"menloresearch/meteobot-server/internal/domain/chat"
	"menloresearch/meteobot-server/internal/domain/conversation"
	"menloresearch/meteobot-server/internal/infrastructure/database"
	"menloresearch/meteobot-server/internal/infrastructure/database/repository/conversationrepo"
	"menloresearch/meteobot-server/internal/infrastructure/database/repository/messagerepo"
	"menloresearch/meteobot-server/internal/infrastructure/database/transaction"
	"menloresearch/meteobot-server/internal/infrastructure/inference"
	"menloresearch/meteobot-server/internal/infrastructure/logger"
	"menloresearch/meteobot-server/internal/infrastructure/observability"
	openmeteo "menloresearch/meteobot-server/internal/infrastructure/weather"
	"menloresearch/meteobot-server/internal/interfaces/httpserver"
	v1 "menloresearch/meteobot-server/internal/interfaces/httpserver/routes/v1"
	conversationroute "menloresearch/meteobot-server/internal/interfaces/httpserver/routes/v1/conversation"
	"menloresearch/meteobot-server/internal/utils/httpclients"
	chatclient "menloresearch/meteobot-server/internal/utils/httpclients/chat"

	_ "net/http/pprof"
)

// @title MeteoBot API
// @version 1.0
// @description Conversational weather assistant backed by OpenAI tool calling and Open-Meteo.
// @BasePath /api
type Application struct {
	httpServer *httpserver.HTTPServer
	pprofAddr  string
	log        zerolog.Logger
}

func (a *Application) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pprofServer := &http.Server{Addr: a.pprofAddr, Handler: http.DefaultServeMux}

	var eg errgroup.Group
	eg.Go(func() error {
		err := pprofServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			cancel()
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		return pprofServer.Close()
	})
	eg.Go(func() error {
		err := a.httpServer.Run(ctx)
		if err != nil {
			cancel()
		}
		return err
	})

	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if cfg.AutoMigrate {
		if err := database.Migration(db, database.TablePrefix); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	txDB := transaction.NewDatabase(db)
	convRepo := conversationrepo.NewConversationGormRepository(txDB)
	msgRepo := messagerepo.NewMessageGormRepository(txDB)

	completionClient := inference.NewOpenAIClient(
		chatclient.NewChatCompletionClient(httpclients.NewClient("openai"), "openai", cfg.OpenAIBaseURL),
		inference.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
	)

	weatherProvider := openmeteo.NewOpenMeteoClient(
		httpclients.NewClient("open-meteo"),
		cfg.OpenMeteoBaseURL,
		cfg.GeocodingBaseURL,
	)

	turnService := chat.NewTurnService(convRepo, msgRepo, completionClient, weatherProvider, txDB, log, chat.TurnConfig{
		HistoryLimit: cfg.HistoryLimit,
		CallTimeout:  cfg.HTTPTimeout,
		Offline:      cfg.OfflineMode || cfg.OpenAIAPIKey == "",
		ServiceName:  cfg.ServiceName,
	})
	conversationService := conversation.NewService(convRepo, msgRepo)

	v1Route := v1.NewV1Route(conversationroute.NewConversationRoute(conversationService, turnService))
	httpServer := httpserver.NewHttpServer(v1Route, log, cfg)

	app := &Application{
		httpServer: httpServer,
		pprofAddr:  fmt.Sprintf("0.0.0.0:%d", cfg.PprofPort),
		log:        log,
	}

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
