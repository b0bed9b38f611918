package cmd

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"voicenotes/api"
	"voicenotes/api/health"
	apinote "voicenotes/api/voicenote"
	noteapp "voicenotes/application/voicenote"
	"voicenotes/config"
	"voicenotes/domain/shared"
	"voicenotes/domain/voicenote"
	"voicenotes/infrastructure/persistence/memory"
	"voicenotes/infrastructure/persistence/mysql"
	"voicenotes/infrastructure/retry"
	"voicenotes/infrastructure/storage"
	"voicenotes/infrastructure/summarization"
	"voicenotes/infrastructure/transcription"
	"voicenotes/pkg/logger"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg         *config.Config
	transcriber voicenote.Transcriber
	summarizer  voicenote.Summarizer
	audio       voicenote.AudioStore
	publisher   shared.DomainEventPublisher
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithTranscriber overrides the default transcription chain
func (b *AppBuilder) WithTranscriber(t voicenote.Transcriber) *AppBuilder {
	b.transcriber = t
	return b
}

// WithSummarizer overrides the default LLM summarizer
func (b *AppBuilder) WithSummarizer(s voicenote.Summarizer) *AppBuilder {
	b.summarizer = s
	return b
}

// WithAudioStore overrides the default local audio store
func (b *AppBuilder) WithAudioStore(store voicenote.AudioStore) *AppBuilder {
	b.audio = store
	return b
}

// WithPublisher overrides the default in-process event bus
func (b *AppBuilder) WithPublisher(p shared.DomainEventPublisher) *AppBuilder {
	b.publisher = p
	return b
}

// Build creates the App instance
func (b *AppBuilder) Build() *App {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	db, repo, events := b.initPersistence()
	audio := b.initAudioStore()

	transcriber := b.transcriber
	if transcriber == nil {
		transcriber = b.initTranscriber(audio)
	}
	summarizer := b.summarizer
	if summarizer == nil {
		summarizer = b.initSummarizer()
	}
	publisher := b.publisher
	if publisher == nil {
		publisher = b.initEventBus()
	}

	orchestrator := noteapp.NewProcessingOrchestrator(repo, events, transcriber, summarizer, publisher)
	noteService := noteapp.NewService(repo, events, audio, orchestrator,
		b.cfg.Storage.MaxFileSizeBytes, b.cfg.Storage.AllowedMimeTypes)

	var sqlDB *sql.DB
	if db != nil {
		sqlDB, _ = db.DB()
	}
	healthController := health.NewController(b.cfg, sqlDB)
	noteController := apinote.NewController(noteService)

	router := api.NewRouter(b.cfg, healthController, noteController)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config: b.cfg,
		router: router,
		server: server,
		db:     db,
	}
}

func (b *AppBuilder) initPersistence() (*gorm.DB, voicenote.Repository, voicenote.EventStore) {
	if b.cfg.Database.Type != "mysql" {
		logger.Info("Using in-memory persistence layer")
		return nil, memory.NewVoiceNoteRepository(), memory.NewEventStore()
	}

	logger.Info("Using MySQL/GORM persistence layer")

	mysqlConfig := &mysql.Config{
		Host:            b.cfg.Database.Host,
		Port:            b.cfg.Database.Port,
		Username:        b.cfg.Database.Username,
		Password:        b.cfg.Database.Password,
		Database:        b.cfg.Database.Database,
		MaxOpenConns:    b.cfg.Database.MaxOpenConns,
		MaxIdleConns:    b.cfg.Database.MaxIdleConns,
		ConnMaxLifetime: b.cfg.Database.ConnMaxLifetime,
	}

	db, err := mysqlConfig.Connect()
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Failed to ping MySQL", zap.Error(err))
	}

	logger.Info("Connected to MySQL successfully")

	// Auto migration in development environment
	if b.cfg.IsDevelopment() {
		if err := mysql.Migrate(db); err != nil {
			logger.Fatal("Failed to auto migrate", zap.Error(err))
		}
	}

	return db, mysql.NewVoiceNoteRepository(db, retryConfig(b.cfg.Database.Retry)), mysql.NewEventStore(db)
}

func (b *AppBuilder) initAudioStore() voicenote.AudioStore {
	if b.audio != nil {
		return b.audio
	}
	store, err := storage.NewLocalAudioStore(b.cfg.Storage.Path)
	if err != nil {
		logger.Fatal("Failed to initialize audio storage",
			zap.String("path", b.cfg.Storage.Path), zap.Error(err))
	}
	return store
}

func (b *AppBuilder) initTranscriber(audio voicenote.AudioStore) voicenote.Transcriber {
	tc := b.cfg.Transcription

	providers := []transcription.Provider{
		transcription.NewOpenAIProvider(tc.APIKey, tc.APIURL, tc.Model),
	}
	if tc.FallbackEnabled && tc.FallbackAPIKey != "" {
		providers = append(providers,
			transcription.NewOpenRouterProvider(tc.FallbackAPIKey, tc.FallbackAPIURL, tc.FallbackModel, tc.Timeout))
		logger.Info("Transcription fallback provider enabled",
			zap.String("model", tc.FallbackModel))
	}

	return transcription.NewChain(audio, retryConfig(tc.Retry), providers...)
}

func (b *AppBuilder) initSummarizer() voicenote.Summarizer {
	sc := b.cfg.Summarization
	return summarization.NewLLMSummarizer(summarization.Options{
		APIKey:       sc.APIKey,
		BaseURL:      sc.APIURL,
		Model:        sc.Model,
		MaxTokens:    sc.MaxTokens,
		Temperature:  sc.Temperature,
		SystemPrompt: sc.Prompts.Summary,
		Retry:        retryConfig(sc.Retry),
	})
}

func (b *AppBuilder) initEventBus() shared.DomainEventPublisher {
	bus := shared.NewEventBus()
	audit := shared.NewFuncHandler("event_audit_log", func(event shared.DomainEvent) error {
		logger.Info("Domain event",
			zap.String("event", event.EventName()),
			zap.String("aggregate_id", event.GetAggregateID()))
		return nil
	})
	for _, name := range []string{
		voicenote.EventUploaded,
		voicenote.EventProcessingStarted,
		voicenote.EventTranscribed,
		voicenote.EventSummarized,
		voicenote.EventProcessingCompleted,
		voicenote.EventProcessingFailed,
		voicenote.EventReprocessed,
	} {
		if err := bus.Subscribe(name, audit); err != nil {
			logger.Warn("Failed to subscribe audit handler",
				zap.String("event", name), zap.Error(err))
		}
	}
	return bus
}

func retryConfig(cfg config.RetryConfig) retry.Config {
	out := retry.Config{
		Enabled:       cfg.Enabled,
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      cfg.MaxDelay,
		BackoffFactor: cfg.BackoffFactor,
		JitterEnabled: cfg.JitterEnabled,
	}
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = retry.DefaultConfig.MaxAttempts
	}
	if out.InitialDelay <= 0 {
		out.InitialDelay = retry.DefaultConfig.InitialDelay
	}
	if out.MaxDelay <= 0 {
		out.MaxDelay = retry.DefaultConfig.MaxDelay
	}
	if out.BackoffFactor <= 1 {
		out.BackoffFactor = retry.DefaultConfig.BackoffFactor
	}
	return out
}
