package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func accountRows(a *models.Account) *sqlmock.Rows {
	var reminder any
	if !a.LastReminderSentAt.IsZero() {
		reminder = a.LastReminderSentAt
	}
	return sqlmock.NewRows([]string{
		"id", "email", "salt", "master_key_verifier",
		"heartbeat_interval_days", "grace_period_days", "last_heartbeat_at",
		"transmission_triggered", "last_reminder_sent_at", "created_at",
	}).AddRow(a.ID, a.Email, a.Salt, a.Verifier,
		a.HeartbeatIntervalDays, a.GracePeriodDays, a.LastHeartbeatAt,
		a.TransmissionTriggered, reminder, a.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO accounts .* RETURNING id, heartbeat_interval_days, grace_period_days, last_heartbeat_at, created_at;`).
		WithArgs("u@example.com", []byte("salt"), []byte("verifier")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "heartbeat_interval_days", "grace_period_days", "last_heartbeat_at", "created_at"}).
			AddRow("a1", 30, 7, now, now))

	account, err := repo.Create(context.Background(), &models.Account{
		Email:    "u@example.com",
		Salt:     []byte("salt"),
		Verifier: []byte("verifier"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "a1" || account.HeartbeatIntervalDays != 30 || account.GracePeriodDays != 7 {
		t.Fatalf("unexpected account: %+v", account)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts WHERE email = \$1;`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_ScansReminder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	want := &models.Account{
		ID: "a1", Email: "u@example.com",
		Salt: []byte("s"), Verifier: []byte("v"),
		HeartbeatIntervalDays: 30, GracePeriodDays: 7,
		LastHeartbeatAt: now, LastReminderSentAt: now.Add(-time.Hour),
		CreatedAt: now,
	}
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE id = \$1;`).
		WithArgs("a1").
		WillReturnRows(accountRows(want))

	got, err := repo.GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LastReminderSentAt.IsZero() {
		t.Fatalf("expected reminder timestamp to be scanned")
	}
}

func TestUpdateSettings_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts\s+SET heartbeat_interval_days = \$2, grace_period_days = \$3\s+WHERE id = \$1;`).
		WithArgs("missing", 60, 14).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSettings(context.Background(), "missing", 60, 14)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestTouchHeartbeat_ReturnsStoredTime(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE accounts\s+SET last_heartbeat_at = GREATEST\(last_heartbeat_at, \$2\),`).
		WithArgs("a1", now).
		WillReturnRows(sqlmock.NewRows([]string{"last_heartbeat_at"}).AddRow(now))

	stored, err := repo.TouchHeartbeat(context.Background(), "a1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Equal(now) {
		t.Fatalf("want %v, got %v", now, stored)
	}
}

func TestTouchHeartbeat_TriggeredAccountNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE accounts\s+SET last_heartbeat_at = GREATEST`).
		WithArgs("a1", now).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.TouchHeartbeat(context.Background(), "a1", now)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestSelectSweepCandidates(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	a := &models.Account{
		ID: "a1", Email: "u@example.com", Salt: []byte("s"), Verifier: []byte("v"),
		HeartbeatIntervalDays: 30, GracePeriodDays: 7,
		LastHeartbeatAt: now.Add(-40 * 24 * time.Hour), CreatedAt: now,
	}
	mock.ExpectQuery(`SELECT .* FROM accounts\s+WHERE NOT transmission_triggered\s+ORDER BY last_heartbeat_at;`).
		WillReturnRows(accountRows(a))

	got, err := repo.SelectSweepCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if !got[0].LastReminderSentAt.IsZero() {
		t.Fatalf("expected zero reminder time for NULL column")
	}
}

func TestMarkTriggered_CASLost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	seen := time.Now()
	mock.ExpectExec(`UPDATE accounts\s+SET transmission_triggered = TRUE\s+WHERE id = \$1 AND NOT transmission_triggered AND last_heartbeat_at = \$2;`).
		WithArgs("a1", seen).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkTriggered(context.Background(), "a1", seen)
	if !errors.Is(err, common.ErrAlreadyTriggered) {
		t.Fatalf("want ErrAlreadyTriggered, got %v", err)
	}
}

func TestMarkTriggered_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	seen := time.Now()
	mock.ExpectExec(`UPDATE accounts\s+SET transmission_triggered = TRUE`).
		WithArgs("a1", seen).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkTriggered(context.Background(), "a1", seen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetReminderSent_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	mock.ExpectExec(`UPDATE accounts SET last_reminder_sent_at = \$2 WHERE id = \$1;`).
		WithArgs("a1", at).
		WillReturnError(errors.New("db is down"))

	if err := repo.SetReminderSent(context.Background(), "a1", at); err == nil {
		t.Fatalf("expected wrapped db error")
	}
}
