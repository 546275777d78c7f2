package service

import (
	"context"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/repository"
)

// StatsService handles registration statistics queries
type StatsService struct {
	teamRepo repository.TeamRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(teamRepo repository.TeamRepository) *StatsService {
	return &StatsService{teamRepo: teamRepo}
}

// GetStats returns team and participant totals per status plus the
// per-category breakdown sorted by count
func (s *StatsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	counts, err := s.teamRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.teamRepo.AggregateByCategory(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.CategoryCount{}
	}

	return &domain.Stats{
		StatusCounts:  *counts,
		CategoryStats: categories,
	}, nil
}
