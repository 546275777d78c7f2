package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// Имена ограничений из миграции 000001_init_schema
const (
	constraintTeamID   = "teams_team_id_key"
	constraintTeamName = "teams_team_name_key_key"
	constraintEmail    = "team_emails_pkey"
)

var teamColumns = []any{
	"id", "team_id", "team_name", "team_size", "team_leader", "members",
	"project_title", "project_description", "tech_stack", "project_category",
	"experience", "requirements", "whatsapp_group", "status", "registration_date",
}

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create сохраняет команду и email участников в одной транзакции
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback(ctx) // после Commit вернет ErrTxClosed
	}()

	q := psql.Insert(
		im.Into("teams",
			"id", "team_id", "team_name", "team_name_key", "team_size", "team_leader", "members",
			"project_title", "project_description", "tech_stack", "project_category",
			"experience", "requirements", "whatsapp_group", "status", "registration_date",
		),
	)
	q.Apply(im.Values(args(
		team.ID, team.TeamID, team.TeamName, domain.TeamNameKey(team.TeamName), team.TeamSize,
		team.TeamLeader, team.Members, team.ProjectTitle, team.ProjectDescription,
		team.TechStack, string(team.ProjectCategory), team.Experience, team.Requirements,
		team.WhatsappGroup, string(team.Status), team.RegistrationDate,
	)...))

	sql, queryArgs, err := q.Build(ctx)
	if err != nil {
		return errors.Wrap(err, "build insert team")
	}
	if _, err = tx.Exec(ctx, sql, queryArgs...); err != nil {
		return mapUniqueViolation(err)
	}

	emails := psql.Insert(im.Into("team_emails", "email", "team_id"))
	for _, email := range team.Emails() {
		emails.Apply(im.Values(args(email, team.TeamID)...))
	}

	sql, queryArgs, err = emails.Build(ctx)
	if err != nil {
		return errors.Wrap(err, "build insert team emails")
	}
	if _, err = tx.Exec(ctx, sql, queryArgs...); err != nil {
		return mapUniqueViolation(err)
	}

	return errors.Wrap(tx.Commit(ctx), "commit team")
}

// args оборачивает значения в аргументы запроса
func args(values ...any) []bob.Expression {
	out := make([]bob.Expression, len(values))
	for i, v := range values {
		out[i] = psql.Arg(v)
	}
	return out
}

// mapUniqueViolation преобразует нарушение уникальности в доменную ошибку
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		switch pgErr.ConstraintName {
		case constraintTeamID:
			return domain.ErrTeamIDExists
		case constraintTeamName:
			return domain.ErrTeamExists
		case constraintEmail:
			return domain.ErrEmailRegistered
		}
	}
	return errors.Wrap(err, "insert team")
}

// NextSequence возвращает следующее значение team_number_seq
func (r *TeamRepository) NextSequence(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT nextval('team_number_seq')`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "next team number")
	}
	return n, nil
}

// GetByTeamID получает команду по публичному идентификатору
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID string) (*domain.Team, error) {
	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.Where(psql.Quote("team_id").EQ(psql.Arg(teamID))),
	)

	sql, queryArgs, err := q.Build(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build select team")
	}

	team, err := scanTeam(r.db.QueryRow(ctx, sql, queryArgs...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, errors.Wrap(err, "select team")
	}
	return team, nil
}

// ExistsByName проверяет существование команды по ключу названия
func (r *TeamRepository) ExistsByName(ctx context.Context, teamName string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE team_name_key = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, domain.TeamNameKey(teamName)).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check team name")
	}
	return exists, nil
}

// FindRegisteredEmails возвращает email из списка, уже закрепленные за командами
func (r *TeamRepository) FindRegisteredEmails(ctx context.Context, emails []string) ([]string, error) {
	found := []string{}
	if len(emails) == 0 {
		return found, nil
	}

	query := `SELECT email FROM team_emails WHERE email = ANY($1) ORDER BY email`

	rows, err := r.db.Query(ctx, query, emails)
	if err != nil {
		return nil, errors.Wrap(err, "select registered emails")
	}

	registered, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrap(err, "scan registered emails")
	}

	// Сохраняем порядок из запроса
	set := make(map[string]bool, len(registered))
	for _, e := range registered {
		set[e] = true
	}
	for _, e := range emails {
		if set[e] {
			found = append(found, e)
			delete(set, e)
		}
	}
	return found, nil
}

// List возвращает страницу команд (новые первыми) и общее количество по фильтру
func (r *TeamRepository) List(ctx context.Context, filter domain.TeamFilter, page domain.Page) ([]*domain.Team, int, error) {
	where := filterMods(filter)

	count := psql.Select(sm.Columns("COUNT(*)"), sm.From("teams"))
	count.Apply(where...)

	sql, queryArgs, err := count.Build(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "build count teams")
	}

	var total int
	if err = r.db.QueryRow(ctx, sql, queryArgs...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count teams")
	}

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("teams"),
		sm.OrderBy("registration_date").Desc(),
		sm.OrderBy("team_id").Desc(),
	)
	q.Apply(where...)
	if page.Limit > 0 {
		q.Apply(
			sm.Limit(psql.Arg(page.Limit)),
			sm.Offset(psql.Arg(page.Offset())),
		)
	}

	sql, queryArgs, err = q.Build(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "build list teams")
	}

	rows, err := r.db.Query(ctx, sql, queryArgs...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list teams")
	}

	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Team, error) {
		return scanTeam(row)
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "scan teams")
	}

	return teams, total, nil
}

func filterMods(filter domain.TeamFilter) []bob.Mod[*dialect.SelectQuery] {
	var mods []bob.Mod[*dialect.SelectQuery]
	if filter.Status != "" {
		mods = append(mods, sm.Where(psql.Quote("status").EQ(psql.Arg(string(filter.Status)))))
	}
	if filter.Category != "" {
		mods = append(mods, sm.Where(psql.Quote("project_category").EQ(psql.Arg(string(filter.Category)))))
	}
	return mods
}

// UpdateStatus меняет статус команды
func (r *TeamRepository) UpdateStatus(ctx context.Context, teamID string, status domain.Status) (*domain.Team, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	query := `UPDATE teams SET status = $1, updated_at = NOW() WHERE team_id = $2`

	result, err := r.db.Exec(ctx, query, string(status), teamID)
	if err != nil {
		return nil, errors.Wrap(err, "update team status")
	}
	if result.RowsAffected() == 0 {
		return nil, domain.ErrTeamNotFound
	}

	return r.GetByTeamID(ctx, teamID)
}

// CountByStatus возвращает количество команд и участников по статусам
func (r *TeamRepository) CountByStatus(ctx context.Context) (*domain.StatusCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(team_size), 0),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM teams
	`

	counts := &domain.StatusCounts{}
	err := r.db.QueryRow(ctx, query).Scan(
		&counts.TotalTeams,
		&counts.TotalParticipants,
		&counts.PendingTeams,
		&counts.ApprovedTeams,
		&counts.RejectedTeams,
	)
	if err != nil {
		return nil, errors.Wrap(err, "count teams by status")
	}
	return counts, nil
}

// AggregateByCategory возвращает количество команд по категориям
func (r *TeamRepository) AggregateByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
		SELECT project_category, COUNT(*) AS cnt
		FROM teams
		GROUP BY project_category
		ORDER BY cnt DESC, project_category
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate teams by category")
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryCount, error) {
		var c domain.CategoryCount
		err := row.Scan(&c.Category, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan category counts")
	}
	return counts, nil
}

// Count возвращает общее количество команд
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count teams")
	}
	return n, nil
}

// Ping проверяет доступность базы данных
func (r *TeamRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var (
		t        domain.Team
		category string
		status   string
	)
	err := row.Scan(
		&t.ID, &t.TeamID, &t.TeamName, &t.TeamSize, &t.TeamLeader, &t.Members,
		&t.ProjectTitle, &t.ProjectDescription, &t.TechStack, &category,
		&t.Experience, &t.Requirements, &t.WhatsappGroup, &status, &t.RegistrationDate,
	)
	if err != nil {
		return nil, err
	}
	t.ProjectCategory = domain.Category(category)
	t.Status = domain.Status(status)
	t.RegistrationDate = t.RegistrationDate.UTC()
	return &t, nil
}
