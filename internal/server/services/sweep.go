package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/email"
	"github.com/dmitrijs2005/legacykeeper/internal/legacy"
	"github.com/dmitrijs2005/legacykeeper/internal/logging"
	"github.com/dmitrijs2005/legacykeeper/internal/server/config"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/repomanager"
)

// SweepService walks every live account, evaluates its timer and acts on
// the result: reminds overdue owners and fires the transmission for
// accounts past the grace period. A run is idempotent; re-running over the
// same state sends nothing twice and never re-triggers.
type SweepService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	mailer          email.Mailer
	logger          logging.Logger
	baseURL         string
	reminderCadence time.Duration

	// now is a seam for deterministic tests.
	now func() time.Time
}

// NewSweepService constructs a SweepService.
func NewSweepService(db *sql.DB, m repomanager.RepositoryManager, mailer email.Mailer, logger logging.Logger, cfg *config.Config) *SweepService {
	return &SweepService{
		db:              db,
		repomanager:     m,
		mailer:          mailer,
		logger:          logger.With("component", "sweep"),
		baseURL:         cfg.BaseURL,
		reminderCadence: cfg.ReminderCadence,
		now:             time.Now,
	}
}

// Run performs one sweep over all non-triggered accounts and returns how
// many were processed. A failure on one account is logged and does not
// stop the rest of the run.
func (s *SweepService) Run(ctx context.Context) (int, error) {
	repo := s.repomanager.Accounts(s.db)

	candidates, err := repo.SelectSweepCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	processed := 0
	for _, account := range candidates {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if err := s.processAccount(ctx, account); err != nil {
			s.logger.Error(ctx, "sweep account failed", "account_id", account.ID, "error", err)
			continue
		}
		processed++
	}

	s.logger.Info(ctx, "sweep finished", "candidates", len(candidates), "processed", processed)
	return processed, nil
}

func (s *SweepService) processAccount(ctx context.Context, account *models.Account) error {
	timer := legacy.Timer{
		HeartbeatInterval: account.HeartbeatInterval(),
		GracePeriod:       account.GracePeriod(),
		LastHeartbeatAt:   account.LastHeartbeatAt,
		Triggered:         account.TransmissionTriggered,
	}

	status, err := legacy.Evaluate(timer, s.now())
	if err != nil {
		return err
	}

	switch status {
	case legacy.StatusOverdue:
		return s.remind(ctx, account)
	case legacy.StatusTriggered:
		return s.trigger(ctx, account)
	default:
		return nil
	}
}

func (s *SweepService) remind(ctx context.Context, account *models.Account) error {
	if !legacy.ShouldRemind(account.LastReminderSentAt, s.now(), s.reminderCadence) {
		return nil
	}

	msg := email.HeartbeatReminder(account.Email)
	if err := s.mailer.SendEmail(ctx, account.Email, msg.Subject, msg.HTML); err != nil {
		return err
	}

	return s.repomanager.Accounts(s.db).SetReminderSent(ctx, account.ID, s.now())
}

// trigger flips the write-once transmission flag and, once the state
// change is durable, notifies the owner and every heir. Notification
// failures are logged but never undo the trigger.
func (s *SweepService) trigger(ctx context.Context, account *models.Account) error {
	repo := s.repomanager.Accounts(s.db)

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := repo.MarkTriggered(ctx, account.ID, account.LastHeartbeatAt)
		if err == nil || errors.Is(err, common.ErrAlreadyTriggered) {
			return err
		}
		return retry.RetryableError(err)
	})
	if errors.Is(err, common.ErrAlreadyTriggered) {
		// A concurrent check-in or a parallel sweep got there first.
		s.logger.Info(ctx, "transmission skipped", "account_id", account.ID)
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "transmission triggered", "account_id", account.ID)

	msg := email.TransmissionTriggered(account.Email)
	if err := s.mailer.SendEmail(ctx, account.Email, msg.Subject, msg.HTML); err != nil {
		s.logger.Error(ctx, "owner notification failed", "account_id", account.ID, "error", err)
	}

	return s.notifyHeirs(ctx, account)
}

func (s *SweepService) notifyHeirs(ctx context.Context, account *models.Account) error {
	repo := s.repomanager.Heirs(s.db)

	heirs, err := repo.ListByAccount(ctx, account.ID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, heir := range heirs {
		token := heir.AccessToken
		if token == "" {
			token = uuid.NewString()
			if err := repo.AssignAccessToken(ctx, heir.ID, token, s.now()); err != nil {
				s.logger.Error(ctx, "access token assignment failed", "heir_id", heir.ID, "error", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
		}

		link := fmt.Sprintf("%s/legacy/%s", s.baseURL, token)
		msg := email.HeirNotification(account.Email, link)
		if err := s.mailer.SendEmail(ctx, heir.Email, msg.Subject, msg.HTML); err != nil {
			s.logger.Error(ctx, "heir notification failed", "heir_id", heir.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
