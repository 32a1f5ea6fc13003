package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/cache"
	gmailclient "creator-ops/infrastructure/clients/gmail"
	googleclient "creator-ops/infrastructure/clients/google"
	openaiclient "creator-ops/infrastructure/clients/openai"
	youtubeclient "creator-ops/infrastructure/clients/youtube"
	"creator-ops/infrastructure/configuration"
	"creator-ops/infrastructure/logger"
	"creator-ops/infrastructure/persistence"
	"creator-ops/infrastructure/pubsub"
	"creator-ops/infrastructure/realtime"
	"creator-ops/infrastructure/security"
	"creator-ops/infrastructure/servicebus"
	"creator-ops/infrastructure/utils"
	httpHandler "creator-ops/interfaces/http"
	"creator-ops/server"
	"creator-ops/usecase"

	gpubsub "cloud.google.com/go/pubsub"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	app := configuration.C.App

	db, err := persistence.NewPostgreSQLDB(ctx, configuration.C.Database.Psql.PostgresDSN())
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot connect to PostgreSQL")
	}
	defer db.Close()
	if err := persistence.EnsureSchema(db); err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Failed migrating database schema")
	}

	cipher, err := InitiateCipher()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Token cipher not configured")
	}

	locker := InitiateLocker(ctx)

	hub := realtime.NewSyncHub()
	events, closeEvents := InitiateEvents(ctx, hub)
	defer closeEvents()

	integrationRepository := persistence.NewIntegrationRepository(db)
	videoRepository := persistence.NewVideoRepository(db)
	commentRepository := persistence.NewCommentRepository(db)
	transcriptRepository := persistence.NewTranscriptRepository(db)
	dealRepository := persistence.NewDealRepository(db)
	draftRepository := persistence.NewDraftRepository(db)

	youtubeFactory := youtubeclient.Factory()
	gmailFactory := gmailclient.Factory()

	googleConfig := configuration.GetGoogleConfig()
	if googleConfig.ClientID == "" {
		logger.GetLogger().Warn("GOOGLE_CLIENT_ID not set; OAuth connect will fail")
	}
	providers := []repository.IOAuthProvider{
		googleclient.NewYouTubeProvider(googleConfig.ClientID, googleConfig.ClientSecret, googleConfig.RedirectURLs[model.ProviderYouTube], youtubeFactory),
		googleclient.NewGmailProvider(googleConfig.ClientID, googleConfig.ClientSecret, googleConfig.RedirectURLs[model.ProviderGmail], gmailFactory),
	}

	generator := openaiclient.NewGenerator(openaiclient.Config{
		APIKey:     configuration.C.OpenAI.APIKey,
		Model:      configuration.C.OpenAI.Model,
		BaseURL:    configuration.C.OpenAI.BaseURL,
		MaxRetries: 2,
	})
	// Deal extraction degrades to the raw message body without a key.
	var extractor repository.ITextGenerator
	if configuration.C.OpenAI.APIKey != "" {
		extractor = generator
	} else {
		logger.GetLogger().Warn("OPENAI_API_KEY not set; deal extraction is disabled and video analysis will fail")
	}

	oauthUsecase := usecase.NewOAuthUsecase(usecase.OAuthDeps{
		Providers:    providers,
		Integrations: integrationRepository,
		Cipher:       cipher,
		Locker:       locker,
		Videos:       videoRepository,
		Comments:     commentRepository,
		Transcripts:  transcriptRepository,
		Deals:        dealRepository,
		Now:          utils.GetCurrentTime,
	}, usecase.OAuthConfig{
		StateSecret:    app.SecretKey,
		FrontendURL:    app.FrontendURL,
		AllowedOrigins: app.AllowedOrigins,
		TokenSkew:      time.Duration(configuration.C.Sync.TokenSkewSeconds) * time.Second,
	})
	youtubeSyncUsecase := usecase.NewYouTubeSyncUsecase(usecase.YouTubeSyncDeps{
		Credentials:  oauthUsecase,
		Clients:      youtubeFactory,
		Integrations: integrationRepository,
		Videos:       videoRepository,
		Comments:     commentRepository,
		Events:       events,
		Now:          utils.GetCurrentTime,
	}, usecase.YouTubeSyncConfig{
		MaxVideos:     configuration.C.Sync.MaxVideos,
		CommentVideos: configuration.C.Sync.CommentVideos,
	})
	gmailSyncUsecase := usecase.NewGmailSyncUsecase(usecase.GmailSyncDeps{
		Credentials:  oauthUsecase,
		Clients:      gmailFactory,
		Integrations: integrationRepository,
		Deals:        dealRepository,
		Generator:    extractor,
		Events:       events,
		Now:          utils.GetCurrentTime,
	}, usecase.GmailSyncConfig{MaxMessages: int64(configuration.C.Sync.MaxMessages)})
	analysisUsecase := usecase.NewAnalysisUsecase(usecase.AnalysisDeps{
		Credentials: oauthUsecase,
		Clients:     youtubeFactory,
		Videos:      videoRepository,
		Comments:    commentRepository,
		Transcripts: transcriptRepository,
		Drafts:      draftRepository,
		Generator:   generator,
		Now:         utils.GetCurrentTime,
	})
	dealUsecase := usecase.NewDealUsecase(dealRepository, utils.GetCurrentTime)

	router := server.InitiateRouter(server.Handlers{
		Health:      httpHandler.NewHealthHandler(db),
		Integration: httpHandler.NewIntegrationHandler(oauthUsecase),
		Sync:        httpHandler.NewSyncHandler(youtubeSyncUsecase, gmailSyncUsecase, hub.Serve),
		Video:       httpHandler.NewVideoHandler(analysisUsecase),
		Deal:        httpHandler.NewDealHandler(dealUsecase),
	}, app.SecretKey, app.AllowedOrigins)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateCipher builds the token key ring. Without TOKEN_ENCRYPTION_KEYS a single
// key "k0" is derived from the legacy key so existing deployments keep working.
func InitiateCipher() (*security.TokenCipher, error) {
	sec := configuration.C.Security

	var legacy *security.LegacyXOR
	if sec.LegacyKey != "" {
		l, err := security.NewLegacyXOR(sec.LegacyKey)
		if err != nil {
			return nil, err
		}
		legacy = l
	}

	keys, err := security.ParseKeyRing(sec.TokenKeys)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 && sec.LegacyKey != "" {
		logger.GetLogger().Warn("TOKEN_ENCRYPTION_KEYS not set; deriving key k0 from ENCRYPTION_KEY")
		keys = []security.Key{{ID: "k0", Secret: []byte(sec.LegacyKey)}}
	}
	return security.NewTokenCipher(keys, sec.PrimaryKeyID, legacy)
}

// InitiateLocker prefers a redis lease so refreshes are serialised across instances.
func InitiateLocker(ctx context.Context) repository.ILocker {
	rc := configuration.C.RedisClient
	if rc.Host == "" {
		logger.GetLogger().Info("Redis not configured; using in-process refresh locks")
		return cache.NewKeyedMutex()
	}
	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Host:     rc.Host,
		Port:     rc.Port,
		Username: rc.Username,
		Password: rc.Password,
		Database: rc.DatabaseName,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - using in-process refresh locks")
		return cache.NewKeyedMutex()
	}
	return cache.NewRedisLocker(client, 30*time.Second)
}

// InitiateEvents fans sync progress out to the SSE hub and the configured broker.
func InitiateEvents(ctx context.Context, hub *realtime.Hub) (repository.ISyncEventPublisher, func()) {
	ev := configuration.C.Events
	switch ev.Driver {
	case "pubsub":
		client, err := gpubsub.NewClient(ctx, ev.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
			break
		}
		if err := pubsub.EnsureTopic(ctx, client, ev.Pubsub.Topic); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Error while ensuring PubSub topic")
		}
		publisher := pubsub.NewSyncPublisher(client, ev.Pubsub.Topic)
		return realtime.NewFanout(hub, publisher), func() {
			if s, ok := publisher.(interface{ Stop() }); ok {
				s.Stop()
			}
			_ = client.Close()
		}
	case "servicebus":
		client, err := servicebus.NewClient(servicebus.Options{
			Namespace:        ev.ServiceBus.Namespace,
			ConnectionString: ev.ServiceBus.ConnectionString,
		})
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus features")
			break
		}
		sender, err := servicebus.NewSyncSender(client, ev.ServiceBus.Queue)
		if err != nil {
			_ = client.Close(ctx)
			break
		}
		return realtime.NewFanout(hub, sender), func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = sender.Close(closeCtx)
			_ = client.Close(closeCtx)
		}
	case "":
	default:
		logger.GetLogger().WithField("driver", ev.Driver).Warn("Unknown events driver; streaming to SSE only")
	}
	return realtime.NewFanout(hub), func() {}
}
