// Package accounts provides PostgreSQL-backed persistence for accounts and
// their legacy timer state.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/dbx"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
)

// PostgresRepository implements account storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, salt, master_key_verifier,
	heartbeat_interval_days, grace_period_days, last_heartbeat_at,
	transmission_triggered, last_reminder_sent_at, created_at`

func scanAccount(row interface{ Scan(dest ...any) error }) (*models.Account, error) {
	a := &models.Account{}
	var reminder sql.NullTime
	err := row.Scan(&a.ID, &a.Email, &a.Salt, &a.Verifier,
		&a.HeartbeatIntervalDays, &a.GracePeriodDays, &a.LastHeartbeatAt,
		&a.TransmissionTriggered, &reminder, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reminder.Valid {
		a.LastReminderSentAt = reminder.Time
	}
	return a, nil
}

// Create inserts a new account. Salt and verifier come from the client;
// the timer fields start at their defaults.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (email, salt, master_key_verifier)
		VALUES ($1, $2, $3)
		RETURNING id, heartbeat_interval_days, grace_period_days, last_heartbeat_at, created_at;
	`
	err := r.db.QueryRowContext(ctx, query, account.Email, account.Salt, account.Verifier).
		Scan(&account.ID, &account.HeartbeatIntervalDays, &account.GracePeriodDays,
			&account.LastHeartbeatAt, &account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1;`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// UpdateSettings changes the legacy timer configuration.
func (r *PostgresRepository) UpdateSettings(ctx context.Context, id string, intervalDays, graceDays int) error {
	query := `
		UPDATE accounts
		SET heartbeat_interval_days = $2, grace_period_days = $3
		WHERE id = $1;
	`
	res, err := r.db.ExecContext(ctx, query, id, intervalDays, graceDays)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// TouchHeartbeat advances the heartbeat clock. GREATEST keeps the column
// monotonic even if the caller's clock lags the stored value; triggered
// accounts never match the WHERE clause.
func (r *PostgresRepository) TouchHeartbeat(ctx context.Context, id string, now time.Time) (time.Time, error) {
	query := `
		UPDATE accounts
		SET last_heartbeat_at = GREATEST(last_heartbeat_at, $2),
			last_reminder_sent_at = NULL
		WHERE id = $1 AND NOT transmission_triggered
		RETURNING last_heartbeat_at;
	`
	var stored time.Time
	err := r.db.QueryRowContext(ctx, query, id, now).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrorNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

// SelectSweepCandidates returns every account the sweep still needs to
// look at, oldest heartbeat first.
func (r *PostgresRepository) SelectSweepCandidates(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE NOT transmission_triggered
		ORDER BY last_heartbeat_at;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select sweep candidates: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkTriggered is the compare-and-set that makes the transmission
// irreversible. Zero rows affected means either another sweep got there
// first or a check-in landed after the evaluation; both are reported as
// ErrAlreadyTriggered so the caller skips the side effects.
func (r *PostgresRepository) MarkTriggered(ctx context.Context, id string, seenHeartbeatAt time.Time) error {
	query := `
		UPDATE accounts
		SET transmission_triggered = TRUE
		WHERE id = $1 AND NOT transmission_triggered AND last_heartbeat_at = $2;
	`
	res, err := r.db.ExecContext(ctx, query, id, seenHeartbeatAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyTriggered
	}
	return nil
}

func (r *PostgresRepository) SetReminderSent(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE accounts SET last_reminder_sent_at = $2 WHERE id = $1;`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
