package memory

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

func newTeam(n int, name string, emails ...string) *domain.Team {
	team := &domain.Team{
		ID:               fmt.Sprintf("id-%d", n),
		TeamID:           fmt.Sprintf("DEV-%04d", n),
		TeamName:         name,
		TeamSize:         len(emails),
		TeamLeader:       domain.Member{Name: "Leader", Email: emails[0], Phone: "0771234567", NIC: "200012345678", Skills: []string{"Go"}},
		ProjectCategory:  "Web Development",
		TechStack:        []string{"Go"},
		RegistrationDate: time.Date(2025, 1, 1, 0, 0, n, 0, time.UTC),
		Status:           domain.StatusPending,
	}
	for _, e := range emails[1:] {
		team.Members = append(team.Members, domain.Member{Name: "Member", Email: e})
	}
	return team
}

func TestTeamRepository_CreateUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository()

	require.NoError(t, repo.Create(ctx, newTeam(1, "Alpha", "a@x.com", "b@x.com")))

	tests := []struct {
		name    string
		team    *domain.Team
		wantErr error
	}{
		{"same team id", newTeam(1, "Other", "z@x.com"), domain.ErrTeamIDExists},
		{"same name different case", newTeam(2, "  ALPHA ", "c@x.com"), domain.ErrTeamExists},
		{"member email taken", newTeam(3, "Beta", "c@x.com", "b@x.com"), domain.ErrEmailRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.team)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Отклоненные заявки ничего не записывают
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err := repo.FindRegisteredEmails(ctx, []string{"c@x.com", "z@x.com"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTeamRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository()
	require.NoError(t, repo.Create(ctx, newTeam(1, "Alpha", "a@x.com", "b@x.com")))

	exists, err := repo.ExistsByName(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "Gamma")
	require.NoError(t, err)
	assert.False(t, exists)

	found, err := repo.FindRegisteredEmails(ctx, []string{"x@x.com", "b@x.com", "a@x.com", "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com", "a@x.com"}, found)

	team, err := repo.GetByTeamID(ctx, "DEV-0001")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", team.TeamName)

	// Возвращается копия
	team.TeamLeader.Skills[0] = "changed"
	again, err := repo.GetByTeamID(ctx, "DEV-0001")
	require.NoError(t, err)
	assert.Equal(t, "Go", again.TeamLeader.Skills[0])

	_, err = repo.GetByTeamID(ctx, "DEV-9999")
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}

func TestTeamRepository_NextSequence(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestTeamRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository()

	for i := 1; i <= 5; i++ {
		team := newTeam(i, fmt.Sprintf("Team %d", i), fmt.Sprintf("t%d@x.com", i))
		if i%2 == 0 {
			team.Status = domain.StatusApproved
			team.ProjectCategory = "AI/ML"
		}
		require.NoError(t, repo.Create(ctx, team))
	}

	t.Run("newest first with paging", func(t *testing.T) {
		teams, total, err := repo.List(ctx, domain.TeamFilter{}, domain.Page{Number: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, teams, 2)
		assert.Equal(t, "DEV-0005", teams[0].TeamID)
		assert.Equal(t, "DEV-0004", teams[1].TeamID)

		teams, _, err = repo.List(ctx, domain.TeamFilter{}, domain.Page{Number: 3, Limit: 2})
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, "DEV-0001", teams[0].TeamID)
	})

	t.Run("page past the end", func(t *testing.T) {
		teams, total, err := repo.List(ctx, domain.TeamFilter{}, domain.Page{Number: 10, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, teams)
	})

	t.Run("huge page number", func(t *testing.T) {
		teams, total, err := repo.List(ctx, domain.TeamFilter{}, domain.Page{Number: math.MaxInt, Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, teams)
	})

	t.Run("no limit returns all", func(t *testing.T) {
		teams, _, err := repo.List(ctx, domain.TeamFilter{}, domain.Page{})
		require.NoError(t, err)
		assert.Len(t, teams, 5)
	})

	t.Run("filters", func(t *testing.T) {
		teams, total, err := repo.List(ctx, domain.TeamFilter{Status: domain.StatusApproved}, domain.Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, team := range teams {
			assert.Equal(t, domain.StatusApproved, team.Status)
		}

		_, total, err = repo.List(ctx, domain.TeamFilter{Status: domain.StatusPending, Category: "AI/ML"}, domain.Page{Number: 1, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestTeamRepository_UpdateStatusAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository()
	require.NoError(t, repo.Create(ctx, newTeam(1, "Alpha", "a@x.com", "b@x.com")))
	require.NoError(t, repo.Create(ctx, newTeam(2, "Beta", "c@x.com")))

	team, err := repo.UpdateStatus(ctx, "DEV-0001", domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, team.Status)

	_, err = repo.UpdateStatus(ctx, "DEV-0001", "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = repo.UpdateStatus(ctx, "DEV-0404", domain.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.StatusCounts{
		TotalTeams:        2,
		TotalParticipants: 3,
		PendingTeams:      1,
		ApprovedTeams:     1,
	}, counts)

	categories, err := repo.AggregateByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{{Category: "Web Development", Count: 2}}, categories)
}
