package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// ListTeams обрабатывает GET /api/registration/teams?page=&limit=&status=&category=
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "page must be a number")
		return
	}
	limit, err := intParam(query.Get("limit"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "limit must be a number")
		return
	}

	filter := domain.TeamFilter{
		Status:   domain.Status(query.Get("status")),
		Category: domain.Category(query.Get("category")),
	}

	list, err := h.teamService.ListTeams(r.Context(), filter, domain.Page{Number: page, Limit: limit})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithData(w, r, http.StatusOK, "", list)
}

// intParam разбирает необязательный числовой параметр запроса
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// GetTeam обрабатывает GET /api/registration/team/{teamId}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetTeam(r.Context(), chi.URLParam(r, "teamId"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithData(w, r, http.StatusOK, "", team)
}

// UpdateStatusRequest представляет тело запроса на смену статуса
type UpdateStatusRequest struct {
	Status domain.Status `json:"status"`
}

// StatusResult представляет результат смены статуса
type StatusResult struct {
	TeamID string        `json:"teamId"`
	Status domain.Status `json:"status"`
}

// UpdateStatus обрабатывает PUT /api/registration/team/{teamId}/status
func (h *TeamHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	team, err := h.teamService.UpdateStatus(r.Context(), chi.URLParam(r, "teamId"), req.Status)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithData(w, r, http.StatusOK, service.StatusUpdatedMessage(team.Status), StatusResult{
		TeamID: team.TeamID,
		Status: team.Status,
	})
}

// Export обрабатывает GET /api/registration/export
func (h *TeamHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.teamService.Export(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithData(w, r, http.StatusOK, "Copy this data to your Google Sheets", export)
}
