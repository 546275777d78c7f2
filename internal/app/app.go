package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	"github.com/SudilMin/Devthon-website/internal/bridge"
	"github.com/SudilMin/Devthon-website/internal/config"
	"github.com/SudilMin/Devthon-website/internal/handler"
	"github.com/SudilMin/Devthon-website/internal/middleware"
	"github.com/SudilMin/Devthon-website/internal/repository"
	"github.com/SudilMin/Devthon-website/internal/repository/firestore"
	"github.com/SudilMin/Devthon-website/internal/repository/memory"
	"github.com/SudilMin/Devthon-website/internal/repository/postgres"
	"github.com/SudilMin/Devthon-website/internal/service"
	"github.com/SudilMin/Devthon-website/internal/validation"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config     *config.Config
	db         *pgxpool.Pool
	fs         *gcfirestore.Client
	teamRepo   repository.TeamRepository
	mode       string
	database   string
	dispatcher *bridge.Dispatcher
	router     http.Handler
	server     *http.Server
	logger     *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к хранилищу, при недоступности работаем в памяти
	a.connectStorage(ctx)

	// Настраиваем зеркалирование заявок
	a.setupMirrors(ctx)

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully", "mode", a.mode)
	return nil
}

// connectStorage выбирает хранилище по конфигурации
func (a *App) connectStorage(ctx context.Context) {
	var err error
	switch a.config.Storage.Driver {
	case repository.ModePostgres:
		err = a.connectDB(ctx)
	case repository.ModeFirestore:
		err = a.connectFirestore(ctx)
	case repository.ModeMemory, "":
	default:
		err = fmt.Errorf("unknown storage driver %q", a.config.Storage.Driver)
	}

	if err != nil {
		a.logger.Warn("Storage unavailable, falling back to in-memory mode",
			"driver", a.config.Storage.Driver,
			"error", err,
		)
	}
	if a.teamRepo == nil {
		a.teamRepo = memory.NewTeamRepository()
		a.mode = repository.ModeMemory
		a.database = "In-memory (data is lost on restart)"
	}
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.teamRepo = postgres.NewTeamRepository(pool)
	a.mode = repository.ModePostgres
	a.database = "Connected to PostgreSQL"
	a.logger.Info("Connected to database")
	return nil
}

// connectFirestore создает клиент Firestore и проверяет доступ к коллекции
func (a *App) connectFirestore(ctx context.Context) error {
	client, err := firestore.Connect(ctx, a.config.Firestore.ProjectID, a.config.Firestore.CredentialsFile)
	if err != nil {
		return err
	}

	repo := firestore.NewTeamRepository(client)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := repo.Ping(pingCtx); err != nil {
		_ = client.Close()
		return err
	}

	a.fs = client
	a.teamRepo = repo
	a.mode = repository.ModeFirestore
	a.database = "Connected to Cloud Firestore"
	a.logger.Info("Connected to Firestore", "project_id", a.config.Firestore.ProjectID)
	return nil
}

// setupMirrors включает зеркала, для которых задана конфигурация
func (a *App) setupMirrors(ctx context.Context) {
	var mirrors []bridge.Mirror

	if url := a.config.Sheets.WebhookURL; url != "" {
		mirrors = append(mirrors, bridge.NewWebhook(url, &http.Client{Timeout: a.config.Sheets.Timeout}))
	}

	if id := a.config.Sheets.SpreadsheetID; id != "" {
		var opts []option.ClientOption
		if file := a.config.Sheets.CredentialsFile; file != "" {
			opts = append(opts, option.WithCredentialsFile(file))
		}
		sheets, err := bridge.NewSheets(ctx, id, opts...)
		if err != nil {
			a.logger.Warn("Google Sheets mirror disabled", "error", err)
		} else {
			mirrors = append(mirrors, sheets)
		}
	}

	if key := a.config.SendGrid.APIKey; key != "" {
		mirrors = append(mirrors, bridge.NewEmail(
			key,
			a.config.SendGrid.FromEmail,
			a.config.SendGrid.FromName,
			a.config.Event.Name,
		))
	}

	a.dispatcher = bridge.NewDispatcher(mirrors, a.config.Sheets.Timeout, a.logger)
	a.logger.Info("Registration mirrors configured", "mirrors", a.dispatcher.Mirrors())
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Инициализируем слой сервисов (бизнес-логика)
	registrationService := service.NewRegistrationService(
		a.teamRepo,
		validation.New(),
		a.dispatcher,
		a.config.Event.TeamIDPrefix,
		a.logger,
	)
	teamService := service.NewTeamService(a.teamRepo)
	statsService := service.NewStatsService(a.teamRepo)
	authService := service.NewAuthService(
		a.config.Admin.APIKeyHash,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)
	if !authService.Enabled() {
		a.logger.Warn("Admin authentication is not configured, organizer endpoints are open")
	}

	// Инициализируем HTTP обработчики
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	teamHandler := handler.NewTeamHandler(teamService)
	statsHandler := handler.NewStatsHandler(statsService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(teamService, a.config.Event.Name, a.database, a.mode)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if a.config.RateLimit.Requests > 0 {
		r.Use(middleware.RateLimit(a.config.RateLimit.Requests, a.config.RateLimit.Window))
	}

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	// Health check для мониторинга
	r.Get("/health", healthHandler.Health)

	// Вход организаторов
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/registration", func(r chi.Router) {
		// Публичные эндпоинты
		r.Post("/register", registrationHandler.Register)
		r.Get("/teams", teamHandler.ListTeams)
		r.Get("/team/{teamId}", teamHandler.GetTeam)
		r.Get("/stats", statsHandler.GetStats)

		// Эндпоинты организаторов (требуют JWT токен, если настроена авторизация)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminMiddleware(authService))

			r.Put("/team/{teamId}/status", teamHandler.UpdateStatus)
			r.Get("/export", teamHandler.Export)
		})
	})

	a.router = r

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured",
		"addr", addr,
		"cors_origins", a.config.CORS.AllowedOrigins,
		"rate_limit", a.config.RateLimit.Requests,
		"rate_window", a.config.RateLimit.Window,
	)
}

// Handler возвращает корневой HTTP обработчик
func (a *App) Handler() http.Handler {
	return a.router
}

// Mode возвращает режим хранилища, в котором работает приложение
func (a *App) Mode() string {
	return a.mode
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Дожидаемся отправки заявок в зеркала
	if a.dispatcher != nil {
		if err := a.dispatcher.Wait(ctx); err != nil {
			a.logger.Warn("Mirror deliveries did not finish before shutdown", "error", err)
		}
	}

	// Закрываем подключения к хранилищам
	if a.db != nil {
		a.db.Close()
	}
	if a.fs != nil {
		if err := a.fs.Close(); err != nil {
			a.logger.Warn("Failed to close Firestore client", "error", err)
		}
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
