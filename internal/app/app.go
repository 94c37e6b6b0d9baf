package app

import (
	"fmt"
	"net/http"

	"edumood/internal/classifier"
	"edumood/internal/config"
	"edumood/internal/logger"
	"edumood/internal/recognizer"
	"edumood/internal/repository/sqlite"
	"edumood/internal/route"
	"edumood/internal/service"
	"edumood/internal/service/websocket"
)

// App wires the emotion recognition server.
type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	pipeline   *recognizer.Pipeline
	hubService *websocket.HubService
	manager    *service.Manager
}

// NewApp builds the full application. Invalid configuration or a missing
// face cascade aborts construction; nothing partial is returned.
func NewApp() (*App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewLogger(cfg)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session archive: %w", err)
	}

	emotionClient := classifier.New(cfg.EmotionServiceURL, cfg.EmotionServiceTimeout)

	pipeline, err := recognizer.NewPipeline(cfg.CascadePath, emotionClient, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize analysis pipeline: %w", err)
	}

	hub := websocket.NewHubService(log)
	sessionRepo := sqlite.NewSessionRepository(db)
	manager := service.NewManager(cfg, pipeline, hub, sessionRepo, log)

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		pipeline:   pipeline,
		hubService: hub,
		manager:    manager,
	}, nil
}

// Run starts the background services and the HTTP server.
func (a *App) Run() error {
	go a.hubService.Run()

	router := route.SetupRoutes(a.manager, a.config, a.logger)

	a.logger.Info("EduMood server listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Camera UDP port: %d", a.config.CamerasPort)
	a.logger.Info("Analyzing every %d frame(s), cascade: %s", a.config.AnalyzeEveryN, a.config.CascadePath)
	a.logger.Info("Emotion service: %s", a.config.EmotionServiceURL)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Close releases the cascade and the database.
func (a *App) Close() {
	if err := a.pipeline.Close(); err != nil {
		a.logger.Error("Failed to close pipeline: %v", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database: %v", err)
	}
}
