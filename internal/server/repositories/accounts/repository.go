package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
)

// Repository is the persistence contract for accounts and their
// dead-man's-switch state.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// UpdateSettings changes the heartbeat interval and grace period.
	// Bounds are validated by the caller; the database CHECK constraints
	// are the last line of defense.
	UpdateSettings(ctx context.Context, id string, intervalDays, graceDays int) error

	// TouchHeartbeat advances last_heartbeat_at to now (never backwards)
	// and clears the reminder timestamp. Returns the stored heartbeat
	// time. Triggered accounts are not touched.
	TouchHeartbeat(ctx context.Context, id string, now time.Time) (time.Time, error)

	// SelectSweepCandidates returns all accounts whose transmission has
	// not yet fired.
	SelectSweepCandidates(ctx context.Context) ([]*models.Account, error)

	// MarkTriggered flips the write-once transmission flag, but only if
	// it is still unset and last_heartbeat_at still equals the value the
	// sweep evaluated (compare-and-set). A check-in racing the sweep
	// changes the heartbeat and makes this a no-op.
	MarkTriggered(ctx context.Context, id string, seenHeartbeatAt time.Time) error

	// SetReminderSent records the instant an overdue reminder went out.
	SetReminderSent(ctx context.Context, id string, at time.Time) error
}
