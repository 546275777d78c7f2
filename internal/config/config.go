package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server    ServerConfig    // Настройки HTTP сервера
	Log       LogConfig       // Настройки логирования
	Storage   StorageConfig   // Выбор хранилища
	Database  DatabaseConfig  // Настройки подключения к БД
	Firestore FirestoreConfig // Настройки Cloud Firestore
	JWT       JWTConfig       // Настройки JWT авторизации
	Admin     AdminConfig     // Доступ организаторов
	RateLimit RateLimitConfig // Ограничение частоты запросов
	CORS      CORSConfig      // Разрешенные источники
	Sheets    SheetsConfig    // Зеркалирование в Google Sheets
	SendGrid  SendGridConfig  // Письма-подтверждения
	Event     EventConfig     // Параметры мероприятия
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"3000"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// StorageConfig задает хранилище: memory, postgres или firestore
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"memory"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"devthon"`
	Password string `envconfig:"DB_PASSWORD" default:"devthon_pass"`
	Name     string `envconfig:"DB_NAME" default:"devthon"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

// FirestoreConfig содержит настройки Cloud Firestore
type FirestoreConfig struct {
	ProjectID       string `envconfig:"FIRESTORE_PROJECT_ID"`
	CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// JWTConfig содержит настройки JWT авторизации.
// Пустой секрет отключает проверку токенов на эндпоинтах организаторов.
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"12"`
}

// AdminConfig содержит bcrypt хеш API ключа организаторов
type AdminConfig struct {
	APIKeyHash string `envconfig:"ADMIN_API_KEY_HASH"`
}

// RateLimitConfig содержит лимит запросов на один IP
type RateLimitConfig struct {
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
}

// CORSConfig содержит список разрешенных источников
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:8080,http://127.0.0.1:5500"`
}

// SheetsConfig содержит настройки зеркалирования заявок в таблицу
type SheetsConfig struct {
	WebhookURL      string        `envconfig:"SHEETS_WEBHOOK_URL"`
	SpreadsheetID   string        `envconfig:"SHEETS_SPREADSHEET_ID"`
	CredentialsFile string        `envconfig:"SHEETS_CREDENTIALS_FILE"`
	Timeout         time.Duration `envconfig:"MIRROR_TIMEOUT" default:"15s"`
}

// SendGridConfig содержит настройки отправки писем
type SendGridConfig struct {
	APIKey    string `envconfig:"SENDGRID_API_KEY"`
	FromEmail string `envconfig:"SENDGRID_FROM_EMAIL" default:"noreply@devthon.lk"`
	FromName  string `envconfig:"SENDGRID_FROM_NAME" default:"Devthon"`
}

// EventConfig содержит параметры мероприятия
type EventConfig struct {
	Name         string `envconfig:"EVENT_NAME" default:"Dev{thon} 3.0"`
	TeamIDPrefix string `envconfig:"TEAM_ID_PREFIX" default:"DEV"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	return &cfg, nil
}
