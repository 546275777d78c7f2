package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SudilMin/Devthon-website/internal/service"
)

// HealthHandler отдает состояние сервиса и хранилища
type HealthHandler struct {
	teamService *service.TeamService
	appName     string
	database    string
	mode        string
}

// NewHealthHandler создает новый HealthHandler.
// database описывает подключенное хранилище, mode режим работы (memory, postgres, firestore).
func NewHealthHandler(teamService *service.TeamService, appName, database, mode string) *HealthHandler {
	return &HealthHandler{
		teamService: teamService,
		appName:     appName,
		database:    database,
		mode:        mode,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Database   string    `json:"database"`
	Mode       string    `json:"mode"`
	TotalTeams int       `json:"totalTeams"`
	Timestamp  time.Time `json:"timestamp"`
}

// Health обрабатывает GET /health. Ошибка подсчета команд не делает сервис недоступным.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "OK",
		Message:   h.appName + " API is running",
		Database:  h.database,
		Mode:      h.mode,
		Timestamp: time.Now().UTC(),
	}

	total, err := h.teamService.Count(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "Failed to count teams for health check", "error", err)
		resp.Message = h.appName + " API is running (database query failed)"
		resp.Database = "Error checking database"
	} else {
		resp.TotalTeams = total
	}

	RespondWithJSON(w, r, http.StatusOK, resp)
}
