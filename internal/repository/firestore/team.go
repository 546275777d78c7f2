// Package firestore хранит команды в Cloud Firestore.
//
// Уникальность названия и email обеспечивается служебными документами
// team_names/{key} и member_emails/{email}, которые создаются в одной
// транзакции с командой.
package firestore

import (
	"context"
	"net/url"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// Коллекции Firestore
const (
	teamsCollection    = "teams"
	namesCollection    = "team_names"
	emailsCollection   = "member_emails"
	countersCollection = "counters"
	teamCounterDoc     = "teams"
)

// Connect создает клиент Firestore через Firebase Admin SDK.
// Пустой credentialsFile означает Application Default Credentials (или эмулятор).
func Connect(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init firestore client")
	}
	return client, nil
}

// TeamRepository реализует repository.TeamRepository для Cloud Firestore
type TeamRepository struct {
	client *firestore.Client
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(client *firestore.Client) *TeamRepository {
	return &TeamRepository{client: client}
}

func (r *TeamRepository) teamRef(teamID string) *firestore.DocumentRef {
	return r.client.Collection(teamsCollection).Doc(docKey(teamID))
}

func (r *TeamRepository) nameRef(teamName string) *firestore.DocumentRef {
	return r.client.Collection(namesCollection).Doc(docKey(domain.TeamNameKey(teamName)))
}

func (r *TeamRepository) emailRef(email string) *firestore.DocumentRef {
	return r.client.Collection(emailsCollection).Doc(docKey(email))
}

// docKey делает значение пригодным для идентификатора документа.
// Firestore запрещает "/" внутри ключа, ключи "." и ".." и ключи вида __.*__.
// Знак "%" экранируется PathEscape, поэтому замены ниже не дают коллизий.
func docKey(s string) string {
	k := url.PathEscape(s)
	switch {
	case k == "." || k == "..":
		return strings.ReplaceAll(k, ".", "%2E")
	case strings.HasPrefix(k, "__"):
		return "%5F" + k[1:]
	}
	return k
}

// guardRefs возвращает документ команды, документ названия и документы email.
// Порядок важен для conflictFor.
func (r *TeamRepository) guardRefs(team *domain.Team) []*firestore.DocumentRef {
	emails := team.Emails()
	refs := make([]*firestore.DocumentRef, 0, len(emails)+2)
	refs = append(refs, r.teamRef(team.TeamID), r.nameRef(team.TeamName))
	for _, email := range emails {
		refs = append(refs, r.emailRef(email))
	}
	return refs
}

// conflictFor выбирает доменную ошибку по первому уже занятому документу
// из guardRefs. Nil означает, что занятых документов нет.
func conflictFor(exists []bool) error {
	for i, ok := range exists {
		if !ok {
			continue
		}
		switch i {
		case 0:
			return domain.ErrTeamIDExists
		case 1:
			return domain.ErrTeamExists
		default:
			return domain.ErrEmailRegistered
		}
	}
	return nil
}

// Create атомарно сохраняет команду вместе с документами уникальности
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	refs := r.guardRefs(team)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Firestore требует выполнить все чтения до записей
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return err
		}
		if err := conflictFor(existing(snaps)); err != nil {
			return err
		}

		guard := guardDoc{TeamID: team.TeamID}
		if err := tx.Create(refs[0], toDoc(team)); err != nil {
			return err
		}
		if err := tx.Create(refs[1], guard); err != nil {
			return err
		}
		for _, ref := range refs[2:] {
			if err := tx.Create(ref, guard); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		if status.Code(err) == codes.AlreadyExists {
			// Параллельная транзакция заняла одно из значений, перечитываем какое
			snaps, getErr := r.client.GetAll(ctx, refs)
			if getErr != nil {
				return errors.Wrap(getErr, "read uniqueness guards")
			}
			if cerr := conflictFor(existing(snaps)); cerr != nil {
				return cerr
			}
		}
		return errors.Wrap(err, "create team")
	}
	return nil
}

func existing(snaps []*firestore.DocumentSnapshot) []bool {
	out := make([]bool, len(snaps))
	for i, snap := range snaps {
		out[i] = snap.Exists()
	}
	return out
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrTeamIDExists) ||
		errors.Is(err, domain.ErrTeamExists) ||
		errors.Is(err, domain.ErrEmailRegistered) ||
		errors.Is(err, domain.ErrTeamNotFound) ||
		errors.Is(err, domain.ErrInvalidStatus)
}

// NextSequence увеличивает счетчик команд в транзакции
func (r *TeamRepository) NextSequence(ctx context.Context) (int64, error) {
	ref := r.client.Collection(countersCollection).Doc(teamCounterDoc)

	var next int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var counter counterDoc
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&counter); err != nil {
				return err
			}
		}

		next = counter.Value + 1
		return tx.Set(ref, counterDoc{Value: next})
	})
	if err != nil {
		return 0, errors.Wrap(err, "next team number")
	}
	return next, nil
}

// GetByTeamID получает команду по публичному идентификатору
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID string) (*domain.Team, error) {
	snap, err := r.teamRef(teamID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrTeamNotFound
		}
		return nil, errors.Wrap(err, "get team")
	}
	return decodeTeam(snap)
}

// ExistsByName проверяет наличие документа уникальности для названия
func (r *TeamRepository) ExistsByName(ctx context.Context, teamName string) (bool, error) {
	_, err := r.nameRef(teamName).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "check team name")
	}
	return true, nil
}

// FindRegisteredEmails возвращает email, для которых уже есть документ уникальности
func (r *TeamRepository) FindRegisteredEmails(ctx context.Context, emails []string) ([]string, error) {
	found := []string{}
	if len(emails) == 0 {
		return found, nil
	}

	seen := make(map[string]bool, len(emails))
	unique := make([]string, 0, len(emails))
	refs := make([]*firestore.DocumentRef, 0, len(emails))
	for _, email := range emails {
		if seen[email] {
			continue
		}
		seen[email] = true
		unique = append(unique, email)
		refs = append(refs, r.emailRef(email))
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Wrap(err, "get member emails")
	}
	for i, snap := range snaps {
		if snap.Exists() {
			found = append(found, unique[i])
		}
	}
	return found, nil
}

func (r *TeamRepository) filtered(filter domain.TeamFilter) firestore.Query {
	q := r.client.Collection(teamsCollection).Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if filter.Category != "" {
		q = q.Where("projectCategory", "==", string(filter.Category))
	}
	return q
}

// List возвращает страницу команд (новые первыми) и общее количество по фильтру.
// Фильтр вместе с сортировкой требует составного индекса в Firestore.
func (r *TeamRepository) List(ctx context.Context, filter domain.TeamFilter, page domain.Page) ([]*domain.Team, int, error) {
	base := r.filtered(filter)

	total, err := count(ctx, base)
	if err != nil {
		return nil, 0, err
	}

	q := base.OrderBy("registrationDate", firestore.Desc).OrderBy("teamId", firestore.Desc)
	if page.Limit > 0 {
		q = q.Offset(page.Offset()).Limit(page.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	teams := make([]*domain.Team, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrap(err, "list teams")
		}
		team, err := decodeTeam(snap)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, team)
	}

	return teams, total, nil
}

// UpdateStatus меняет статус команды в транзакции
func (r *TeamRepository) UpdateStatus(ctx context.Context, teamID string, st domain.Status) (*domain.Team, error) {
	if !st.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	ref := r.teamRef(teamID)
	var updated *domain.Team
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrTeamNotFound
			}
			return err
		}
		team, err := decodeTeam(snap)
		if err != nil {
			return err
		}
		team.Status = st
		updated = team
		return tx.Update(ref, []firestore.Update{{Path: "status", Value: string(st)}})
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "update team status")
	}
	return updated, nil
}

// CountByStatus считает команды и участников, читая только нужные поля
func (r *TeamRepository) CountByStatus(ctx context.Context) (*domain.StatusCounts, error) {
	iter := r.client.Collection(teamsCollection).Select("status", "teamSize").Documents(ctx)
	defer iter.Stop()

	counts := &domain.StatusCounts{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "count teams by status")
		}
		var doc struct {
			Status   string `firestore:"status"`
			TeamSize int    `firestore:"teamSize"`
		}
		if err := snap.DataTo(&doc); err != nil {
			return nil, errors.Wrap(err, "decode team status")
		}
		counts.Add(domain.Status(doc.Status), doc.TeamSize)
	}
	return counts, nil
}

// AggregateByCategory возвращает количество команд по категориям
func (r *TeamRepository) AggregateByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	iter := r.client.Collection(teamsCollection).Select("projectCategory").Documents(ctx)
	defer iter.Stop()

	byCategory := make(map[domain.Category]int)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "aggregate teams by category")
		}
		var doc struct {
			ProjectCategory string `firestore:"projectCategory"`
		}
		if err := snap.DataTo(&doc); err != nil {
			return nil, errors.Wrap(err, "decode team category")
		}
		byCategory[domain.Category(doc.ProjectCategory)]++
	}

	out := make([]domain.CategoryCount, 0, len(byCategory))
	for c, n := range byCategory {
		out = append(out, domain.CategoryCount{Category: c, Count: n})
	}
	domain.SortCategoryCounts(out)
	return out, nil
}

// Count возвращает общее количество команд
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.client.Collection(teamsCollection).Query)
}

// Ping проверяет доступность Firestore
func (r *TeamRepository) Ping(ctx context.Context) error {
	_, err := r.client.Collection(teamsCollection).Limit(1).Documents(ctx).GetAll()
	return errors.Wrap(err, "ping firestore")
}

// count выполняет агрегирующий запрос COUNT на стороне Firestore
func count(ctx context.Context, q firestore.Query) (int, error) {
	result, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "count teams")
	}
	v, ok := result["total"].(*firestorepb.Value)
	if !ok {
		return 0, errors.New("count teams: unexpected aggregation result")
	}
	return int(v.GetIntegerValue()), nil
}

func decodeTeam(snap *firestore.DocumentSnapshot) (*domain.Team, error) {
	var doc teamDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrapf(err, "decode team %s", snap.Ref.ID)
	}
	return doc.toDomain(), nil
}
