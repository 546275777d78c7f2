package repository

import (
	"context"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// Режимы хранилища, в которых может работать приложение
const (
	ModeMemory    = "memory"
	ModePostgres  = "postgres"
	ModeFirestore = "firestore"
)

// TeamRepository определяет методы для работы с данными команд.
// Все реализации обязаны соблюдать уникальность названия (без учета регистра),
// email участников и идентификатора команды на уровне хранилища.
type TeamRepository interface {
	// Create атомарно сохраняет новую команду.
	// Возвращает domain.ErrTeamExists, domain.ErrEmailRegistered или domain.ErrTeamIDExists при нарушении уникальности
	Create(ctx context.Context, team *domain.Team) error

	// NextSequence возвращает следующий номер для идентификатора команды
	NextSequence(ctx context.Context) (int64, error)

	// GetByTeamID получает команду по публичному идентификатору
	GetByTeamID(ctx context.Context, teamID string) (*domain.Team, error)

	// ExistsByName проверяет существование команды с таким названием без учета регистра
	ExistsByName(ctx context.Context, teamName string) (bool, error)

	// FindRegisteredEmails возвращает те email из списка, которые уже есть в сохраненных командах
	FindRegisteredEmails(ctx context.Context, emails []string) ([]string, error)

	// List возвращает страницу команд (новые первыми) и общее количество по фильтру
	List(ctx context.Context, filter domain.TeamFilter, page domain.Page) ([]*domain.Team, int, error)

	// UpdateStatus меняет статус команды и возвращает обновленную команду
	UpdateStatus(ctx context.Context, teamID string, status domain.Status) (*domain.Team, error)

	// CountByStatus возвращает количество команд и участников по статусам
	CountByStatus(ctx context.Context) (*domain.StatusCounts, error)

	// AggregateByCategory возвращает количество команд по категориям (по убыванию)
	AggregateByCategory(ctx context.Context) ([]domain.CategoryCount, error)

	// Count возвращает общее количество команд
	Count(ctx context.Context) (int, error)
}
