package handler

import (
	"net/http"
	"time"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/service"
)

// RegistrationHandler обрабатывает прием заявок на регистрацию
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler создает новый RegistrationHandler
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// RegistrationResult представляет краткие данные созданной команды
type RegistrationResult struct {
	TeamID           string          `json:"teamId"`
	TeamName         string          `json:"teamName"`
	TeamSize         int             `json:"teamSize"`
	ProjectTitle     string          `json:"projectTitle"`
	ProjectCategory  domain.Category `json:"projectCategory"`
	RegistrationDate time.Time       `json:"registrationDate"`
	Status           domain.Status   `json:"status"`
}

// Register обрабатывает POST /api/registration/register
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.Registration
	if !decodeStrictJSON(w, r, &req) {
		return
	}

	team, err := h.registrationService.Register(r.Context(), &req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithData(w, r, http.StatusCreated, service.MsgTeamRegistered, RegistrationResult{
		TeamID:           team.TeamID,
		TeamName:         team.TeamName,
		TeamSize:         team.TeamSize,
		ProjectTitle:     team.ProjectTitle,
		ProjectCategory:  team.ProjectCategory,
		RegistrationDate: team.RegistrationDate,
		Status:           team.Status,
	})
}
