package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/dbx"
	"github.com/dmitrijs2005/legacykeeper/internal/logging"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/entries"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/heirs"
)

// In-memory repository fakes. Services only talk through the repository
// interfaces, so a map-backed implementation is enough to exercise the
// business rules without a database.

type fakeAccountsRepo struct {
	byID    map[string]*models.Account
	byEmail map[string]*models.Account

	touchErr     error
	markErr      error
	markErrOnce  bool
	markedIDs    []string
	remindersSet []string
}

func newFakeAccountsRepo(accs ...*models.Account) *fakeAccountsRepo {
	r := &fakeAccountsRepo{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]*models.Account),
	}
	for _, a := range accs {
		r.byID[a.ID] = a
		r.byEmail[a.Email] = a
	}
	return r
}

func (r *fakeAccountsRepo) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrorInternal
	}
	a := *account
	a.ID = "acc-" + account.Email
	a.LastHeartbeatAt = time.Now()
	r.byID[a.ID] = &a
	r.byEmail[a.Email] = &a
	return &a, nil
}

func (r *fakeAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (r *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (r *fakeAccountsRepo) UpdateSettings(ctx context.Context, id string, intervalDays, graceDays int) error {
	a, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.HeartbeatIntervalDays = intervalDays
	a.GracePeriodDays = graceDays
	return nil
}

func (r *fakeAccountsRepo) TouchHeartbeat(ctx context.Context, id string, now time.Time) (time.Time, error) {
	if r.touchErr != nil {
		return time.Time{}, r.touchErr
	}
	a, ok := r.byID[id]
	if !ok || a.TransmissionTriggered {
		return time.Time{}, common.ErrorNotFound
	}
	if now.After(a.LastHeartbeatAt) {
		a.LastHeartbeatAt = now
	}
	a.LastReminderSentAt = time.Time{}
	return a.LastHeartbeatAt, nil
}

func (r *fakeAccountsRepo) SelectSweepCandidates(ctx context.Context) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range r.byID {
		if !a.TransmissionTriggered {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountsRepo) MarkTriggered(ctx context.Context, id string, seenHeartbeatAt time.Time) error {
	if r.markErr != nil {
		err := r.markErr
		if r.markErrOnce {
			r.markErr = nil
		}
		return err
	}
	a, ok := r.byID[id]
	if !ok {
		return common.ErrAlreadyTriggered
	}
	if a.TransmissionTriggered || !a.LastHeartbeatAt.Equal(seenHeartbeatAt) {
		return common.ErrAlreadyTriggered
	}
	a.TransmissionTriggered = true
	r.markedIDs = append(r.markedIDs, id)
	return nil
}

func (r *fakeAccountsRepo) SetReminderSent(ctx context.Context, id string, at time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.LastReminderSentAt = at
	r.remindersSet = append(r.remindersSet, id)
	return nil
}

type fakeEntriesRepo struct {
	entries map[string]*models.Entry
	nextID  int
}

func newFakeEntriesRepo() *fakeEntriesRepo {
	return &fakeEntriesRepo{entries: make(map[string]*models.Entry)}
}

func (r *fakeEntriesRepo) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	r.nextID++
	e := *entry
	e.ID = fmt.Sprintf("entry-%d", r.nextID)
	e.CreatedAt = time.Now()
	r.entries[e.ID] = &e
	return &e, nil
}

func (r *fakeEntriesRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.Entry, error) {
	var out []*models.Entry
	for _, e := range r.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntriesRepo) GetByID(ctx context.Context, accountID, id string) (*models.Entry, error) {
	e, ok := r.entries[id]
	if !ok || e.AccountID != accountID {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

func (r *fakeEntriesRepo) Delete(ctx context.Context, accountID, id string) error {
	e, ok := r.entries[id]
	if !ok || e.AccountID != accountID {
		return common.ErrorNotFound
	}
	delete(r.entries, id)
	return nil
}

type fakeHeirsRepo struct {
	heirs     map[string]*models.Heir
	byToken   map[string]*models.Heir
	assignErr error
}

func newFakeHeirsRepo(hs ...*models.Heir) *fakeHeirsRepo {
	r := &fakeHeirsRepo{
		heirs:   make(map[string]*models.Heir),
		byToken: make(map[string]*models.Heir),
	}
	for _, h := range hs {
		r.heirs[h.ID] = h
		if h.AccessToken != "" {
			r.byToken[h.AccessToken] = h
		}
	}
	return r
}

func (r *fakeHeirsRepo) Create(ctx context.Context, heir *models.Heir) (*models.Heir, error) {
	h := *heir
	h.ID = "heir-" + heir.Email
	h.CreatedAt = time.Now()
	r.heirs[h.ID] = &h
	return &h, nil
}

func (r *fakeHeirsRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.Heir, error) {
	var out []*models.Heir
	for _, h := range r.heirs {
		if h.AccountID == accountID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHeirsRepo) Delete(ctx context.Context, accountID, id string) error {
	h, ok := r.heirs[id]
	if !ok || h.AccountID != accountID {
		return common.ErrorNotFound
	}
	delete(r.heirs, id)
	return nil
}

func (r *fakeHeirsRepo) AssignAccessToken(ctx context.Context, id, token string, notifiedAt time.Time) error {
	if r.assignErr != nil {
		return r.assignErr
	}
	h, ok := r.heirs[id]
	if !ok {
		return common.ErrorNotFound
	}
	if h.AccessToken == "" {
		h.AccessToken = token
		h.NotifiedAt = notifiedAt
		r.byToken[token] = h
	}
	return nil
}

func (r *fakeHeirsRepo) GetByAccessToken(ctx context.Context, token string) (*models.Heir, error) {
	h, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return h, nil
}

type fakeRepoManager struct {
	accounts *fakeAccountsRepo
	entries  *fakeEntriesRepo
	heirs    *fakeHeirsRepo
}

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository { return m.accounts }
func (m *fakeRepoManager) Entries(db dbx.DBTX) entries.Repository   { return m.entries }
func (m *fakeRepoManager) Heirs(db dbx.DBTX) heirs.Repository       { return m.heirs }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func (m *fakeMailer) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if err, ok := m.failFor[to]; ok {
		return err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: htmlBody})
	return nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
