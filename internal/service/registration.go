package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/repository"
	"github.com/SudilMin/Devthon-website/internal/validation"
)

// User facing messages returned by the registration pipeline
const (
	MsgValidationFailed   = "Validation failed"
	MsgTeamNameExists     = "Team name already exists. Please choose a different name."
	MsgEmailsRegistered   = "Some team members are already registered"
	MsgTeamRegistered     = "Team registered successfully!"
	msgSizeMismatchFormat = "Team size mismatch: Expected %d additional members, got %d"
)

// maxTeamIDAttempts bounds retries when a generated team id collides
const maxTeamIDAttempts = 3

// Publisher receives accepted registrations for best-effort mirroring
type Publisher interface {
	Publish(team *domain.Team)
}

// RegistrationService validates, deduplicates and persists team registrations
type RegistrationService struct {
	teamRepo  repository.TeamRepository
	validator *validation.Validator
	publisher Publisher
	idPrefix  string
	logger    *slog.Logger
	now       func() time.Time
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	teamRepo repository.TeamRepository,
	validator *validation.Validator,
	publisher Publisher,
	idPrefix string,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		teamRepo:  teamRepo,
		validator: validator,
		publisher: publisher,
		idPrefix:  idPrefix,
		logger:    logger,
		now:       time.Now,
	}
}

// FormatTeamID builds the public team identifier, e.g. DEV-0001
func FormatTeamID(prefix string, n int64) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// Register runs a submission through schema validation, the team size check,
// name and email uniqueness checks and finally persists it.
// Nothing is written unless every stage passes.
func (s *RegistrationService) Register(ctx context.Context, req *domain.Registration) (*domain.Team, error) {
	req.Normalize()

	if fieldErrors := s.validator.Registration(req); len(fieldErrors) > 0 {
		return nil, &domain.ValidationError{
			Code:    domain.CodeValidation,
			Message: MsgValidationFailed,
			Errors:  fieldErrors,
		}
	}

	if expected := req.TeamSize - 1; len(req.Members) != expected {
		return nil, &domain.ValidationError{
			Code:    domain.CodeSizeMismatch,
			Message: fmt.Sprintf(msgSizeMismatchFormat, expected, len(req.Members)),
		}
	}

	exists, err := s.teamRepo.ExistsByName(ctx, req.TeamName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nameConflict()
	}

	registered, err := s.teamRepo.FindRegisteredEmails(ctx, req.Emails())
	if err != nil {
		return nil, err
	}
	if len(registered) > 0 {
		return nil, emailConflict(registered)
	}

	team, err := s.persist(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Team registered",
		"team_id", team.TeamID,
		"team_name", team.TeamName,
		"team_size", team.TeamSize,
	)

	if s.publisher != nil {
		s.publisher.Publish(team)
	}
	return team, nil
}

// persist allocates a team id and stores the team. Unique constraint
// violations raised by the store are reported the same way as the checks above.
func (s *RegistrationService) persist(ctx context.Context, req *domain.Registration) (*domain.Team, error) {
	for attempt := 1; ; attempt++ {
		n, err := s.teamRepo.NextSequence(ctx)
		if err != nil {
			return nil, err
		}

		team := req.ToTeam(uuid.NewString(), FormatTeamID(s.idPrefix, n), s.now())

		err = s.teamRepo.Create(ctx, team)
		switch {
		case err == nil:
			return team, nil
		case errors.Is(err, domain.ErrTeamIDExists) && attempt < maxTeamIDAttempts:
			s.logger.Warn("Team id collision, retrying", "team_id", team.TeamID, "attempt", attempt)
			continue
		case errors.Is(err, domain.ErrTeamExists):
			return nil, nameConflict()
		case errors.Is(err, domain.ErrEmailRegistered):
			// Another registration took one of the emails after our check
			registered, findErr := s.teamRepo.FindRegisteredEmails(ctx, req.Emails())
			if findErr != nil {
				return nil, findErr
			}
			return nil, emailConflict(registered)
		default:
			return nil, err
		}
	}
}

func nameConflict() *domain.ConflictError {
	return &domain.ConflictError{
		Code:    domain.CodeTeamExists,
		Message: MsgTeamNameExists,
		Err:     domain.ErrTeamExists,
	}
}

func emailConflict(registered []string) *domain.ConflictError {
	return &domain.ConflictError{
		Code:             domain.CodeEmailExists,
		Message:          MsgEmailsRegistered,
		RegisteredEmails: registered,
		Err:              domain.ErrEmailRegistered,
	}
}
