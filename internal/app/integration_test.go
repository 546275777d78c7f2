package app

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/SudilMin/Devthon-website/internal/config"
)

// TestEnvironment содержит все ресурсы необходимые для интеграционных тестов
type TestEnvironment struct {
	PostgresContainer *postgres.PostgresContainer
	App               *App
	BaseURL           string
	DB                *pgxpool.Pool
	ctx               context.Context
}

// SetupTestEnvironment поднимает PostgreSQL и запускает приложение поверх него
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	// Запускаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("devthon_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	applyMigrations(t, connStr)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	// Высокий порт, чтобы не пересекаться с локальным сервером
	testPort := "18080"
	cfg := testConfig()
	cfg.Server = config.ServerConfig{Port: testPort, Host: "127.0.0.1"}
	cfg.Storage.Driver = "postgres"
	cfg.Database = config.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "test_user",
		Password: "test_password",
		Name:     "devthon_test",
		SSLMode:  "disable",
		MaxConns: 10,
		MinConns: 1,
	}

	application, err := New(cfg)
	require.NoError(t, err, "Failed to create application")
	require.NoError(t, application.Initialize(ctx), "Failed to initialize application")
	require.Equal(t, "postgres", application.Mode())

	go func() {
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			t.Logf("Server error: %v", err)
		}
	}()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	return &TestEnvironment{
		PostgresContainer: pgContainer,
		App:               application,
		BaseURL:           fmt.Sprintf("http://%s:%s", cfg.Server.Host, testPort),
		DB:                pool,
		ctx:               ctx,
	}
}

// Cleanup очищает все тестовые ресурсы
func (te *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if te.App != nil {
		_ = te.App.Shutdown(shutdownCtx)
	}
	if te.DB != nil {
		te.DB.Close()
	}
	if te.PostgresContainer != nil {
		_ = te.PostgresContainer.Terminate(te.ctx)
	}
}

// applyMigrations применяет миграции БД
func applyMigrations(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("pgx/v5", connStr)
	require.NoError(t, err, "Failed to open database connection")
	defer db.Close()

	migrationPath := filepath.Join(getProjectRoot(t), "migrations", "000001_init_schema.up.sql")
	migrationSQL, err := os.ReadFile(migrationPath)
	require.NoError(t, err, "Failed to read migration file")

	_, err = db.Exec(string(migrationSQL))
	require.NoError(t, err, "Failed to apply migration")
}

// getProjectRoot возвращает корневую директорию проекта
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod not found)")
		}
		dir = parent
	}
}

// MakeRequest выполняет HTTP запрос к запущенному приложению
func (te *TestEnvironment) MakeRequest(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, te.BaseURL+path, body)
	require.NoError(t, err, "Failed to create request")
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")

	return resp
}

// WaitForHealthCheck ждет пока приложение станет доступным
func (te *TestEnvironment) WaitForHealthCheck(t *testing.T) {
	t.Helper()

	for i := 0; i < 30; i++ {
		resp, err := http.Get(te.BaseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("Application did not become healthy in time")
}

// TestE2E_RegistrationWorkflow проверяет полный цикл регистрации поверх PostgreSQL
func TestE2E_RegistrationWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	env.WaitForHealthCheck(t)

	post := func(t *testing.T, body any) (int, envelope) {
		t.Helper()
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		resp := env.MakeRequest(t, http.MethodPost, "/api/registration/register", bytes.NewReader(raw))
		defer resp.Body.Close()

		var out envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}

	t.Run("Register Alpha", func(t *testing.T) {
		status, out := post(t, registration("Alpha", 2, "a@x.com", "b@x.com"))
		require.Equal(t, http.StatusCreated, status, out.Message)

		var data struct {
			TeamID string `json:"teamId"`
		}
		require.NoError(t, json.Unmarshal(out.Data, &data))
		assert.Equal(t, "DEV-0001", data.TeamID)
	})

	t.Run("Reject duplicate name", func(t *testing.T) {
		status, out := post(t, registration("ALPHA", 1, "c@x.com"))
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "TEAM_EXISTS", out.Code)
	})

	t.Run("Reject registered email", func(t *testing.T) {
		status, out := post(t, registration("Beta", 2, "c@x.com", "a@x.com"))
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, []string{"a@x.com"}, out.RegisteredEmails)
	})

	t.Run("Rejections left no rows", func(t *testing.T) {
		var teams, emails int
		require.NoError(t, env.DB.QueryRow(env.ctx, `SELECT COUNT(*) FROM teams`).Scan(&teams))
		require.NoError(t, env.DB.QueryRow(env.ctx, `SELECT COUNT(*) FROM team_emails`).Scan(&emails))
		assert.Equal(t, 1, teams)
		assert.Equal(t, 2, emails)
	})

	t.Run("Health reports the database", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/health", nil)
		defer resp.Body.Close()

		var health struct {
			Mode       string `json:"mode"`
			Database   string `json:"database"`
			TotalTeams int    `json:"totalTeams"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "postgres", health.Mode)
		assert.Equal(t, "Connected to PostgreSQL", health.Database)
		assert.Equal(t, 1, health.TotalTeams)
	})
}
