package service

import (
	"context"
	"fmt"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/repository"
)

// Pagination defaults for the public team list
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPageNumber keeps the offset within int32 for every store
	MaxPageNumber = 100_000
)

// TeamService handles read access and status changes for registered teams
type TeamService struct {
	teamRepo repository.TeamRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

// GetTeam retrieves a team with full member details
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	return s.teamRepo.GetByTeamID(ctx, teamID)
}

// ListTeams returns one page of teams, newest first, with contact details removed
func (s *TeamService) ListTeams(ctx context.Context, filter domain.TeamFilter, page domain.Page) (*domain.TeamList, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	page = NormalizePage(page)

	teams, total, err := s.teamRepo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	public := make([]*domain.Team, len(teams))
	for i, t := range teams {
		public[i] = t.Public()
	}

	return &domain.TeamList{
		Teams:       public,
		TotalPages:  (total + page.Limit - 1) / page.Limit,
		CurrentPage: page.Number,
		Total:       total,
	}, nil
}

// NormalizePage applies the default page and clamps the limit
func NormalizePage(page domain.Page) domain.Page {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Limit < 1 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	if page.Number > MaxPageNumber {
		page.Number = MaxPageNumber
	}
	return page
}

// UpdateStatus changes the review status of a team
func (s *TeamService) UpdateStatus(ctx context.Context, teamID string, status domain.Status) (*domain.Team, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.teamRepo.UpdateStatus(ctx, teamID, status)
}

// StatusUpdatedMessage describes a completed status change
func StatusUpdatedMessage(status domain.Status) string {
	return fmt.Sprintf("Team status updated to %s", status)
}

// Export returns every team in the Teams / Members sheet layout
func (s *TeamService) Export(ctx context.Context) (*domain.Export, error) {
	teams, _, err := s.teamRepo.List(ctx, domain.TeamFilter{}, domain.Page{})
	if err != nil {
		return nil, err
	}
	return domain.NewExport(teams), nil
}

// Count returns the number of registered teams
func (s *TeamService) Count(ctx context.Context) (int, error) {
	return s.teamRepo.Count(ctx)
}
