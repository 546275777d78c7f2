package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// TeamRepository реализует repository.TeamRepository в памяти процесса.
// Используется как резервное хранилище, когда база данных недоступна.
type TeamRepository struct {
	mu     sync.RWMutex
	teams  []*domain.Team
	byID   map[string]*domain.Team // по публичному идентификатору
	names  map[string]string       // ключ названия -> teamId
	emails map[string]string       // email -> teamId
	seq    int64
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		byID:   make(map[string]*domain.Team),
		names:  make(map[string]string),
		emails: make(map[string]string),
	}
}

// Create сохраняет команду, проверяя уникальность названия, идентификатора и email
func (r *TeamRepository) Create(_ context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[team.TeamID]; ok {
		return domain.ErrTeamIDExists
	}
	key := domain.TeamNameKey(team.TeamName)
	if _, ok := r.names[key]; ok {
		return domain.ErrTeamExists
	}
	for _, email := range team.Emails() {
		if _, ok := r.emails[email]; ok {
			return domain.ErrEmailRegistered
		}
	}

	stored := clone(team)
	r.teams = append(r.teams, stored)
	r.byID[team.TeamID] = stored
	r.names[key] = team.TeamID
	for _, email := range team.Emails() {
		r.emails[email] = team.TeamID
	}

	return nil
}

// NextSequence возвращает следующий номер команды
func (r *TeamRepository) NextSequence(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	return r.seq, nil
}

// GetByTeamID получает команду по публичному идентификатору
func (r *TeamRepository) GetByTeamID(_ context.Context, teamID string) (*domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.byID[teamID]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return clone(team), nil
}

// ExistsByName проверяет существование команды без учета регистра
func (r *TeamRepository) ExistsByName(_ context.Context, teamName string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.names[domain.TeamNameKey(teamName)]
	return ok, nil
}

// FindRegisteredEmails возвращает уже зарегистрированные email из списка
func (r *TeamRepository) FindRegisteredEmails(_ context.Context, emails []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := []string{}
	seen := make(map[string]bool, len(emails))
	for _, email := range emails {
		if seen[email] {
			continue
		}
		seen[email] = true
		if _, ok := r.emails[email]; ok {
			found = append(found, email)
		}
	}
	return found, nil
}

// List возвращает страницу команд, новые первыми
func (r *TeamRepository) List(_ context.Context, filter domain.TeamFilter, page domain.Page) ([]*domain.Team, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Обходим с конца: при равных датах последние зарегистрированные идут первыми
	matched := make([]*domain.Team, 0, len(r.teams))
	for i := len(r.teams) - 1; i >= 0; i-- {
		t := r.teams[i]
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Category != "" && t.ProjectCategory != filter.Category {
			continue
		}
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RegistrationDate.After(matched[j].RegistrationDate)
	})

	total := len(matched)
	start := page.Offset()
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if page.Limit > 0 && start+page.Limit < total {
		end = start + page.Limit
	}

	out := make([]*domain.Team, 0, end-start)
	for _, t := range matched[start:end] {
		out = append(out, clone(t))
	}
	return out, total, nil
}

// UpdateStatus меняет статус команды
func (r *TeamRepository) UpdateStatus(_ context.Context, teamID string, status domain.Status) (*domain.Team, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.byID[teamID]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	team.Status = status
	return clone(team), nil
}

// CountByStatus возвращает счетчики по статусам
func (r *TeamRepository) CountByStatus(_ context.Context) (*domain.StatusCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := &domain.StatusCounts{}
	for _, t := range r.teams {
		counts.Add(t.Status, t.TeamSize)
	}
	return counts, nil
}

// AggregateByCategory возвращает количество команд по категориям
func (r *TeamRepository) AggregateByCategory(_ context.Context) ([]domain.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCategory := make(map[domain.Category]int)
	for _, t := range r.teams {
		byCategory[t.ProjectCategory]++
	}

	out := make([]domain.CategoryCount, 0, len(byCategory))
	for c, n := range byCategory {
		out = append(out, domain.CategoryCount{Category: c, Count: n})
	}
	domain.SortCategoryCounts(out)
	return out, nil
}

// Count возвращает общее количество команд
func (r *TeamRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.teams), nil
}

func clone(t *domain.Team) *domain.Team {
	c := *t
	c.TeamLeader = cloneMember(t.TeamLeader)
	c.Members = make([]domain.Member, len(t.Members))
	for i, m := range t.Members {
		c.Members[i] = cloneMember(m)
	}
	c.TechStack = append([]string{}, t.TechStack...)
	return &c
}

func cloneMember(m domain.Member) domain.Member {
	m.Skills = append([]string{}, m.Skills...)
	return m
}
