// Package services contains server-side business logic. This file implements
// AccountService: registration, login, heartbeats and legacy timer settings.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/cryptox"
	"github.com/dmitrijs2005/legacykeeper/internal/server/auth"
	"github.com/dmitrijs2005/legacykeeper/internal/server/config"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/repomanager"
)

// AccountService provides account-related operations:
//   - Register: create an account holding only salt and key verifier
//   - Login: verify the key verifier and mint an access token
//   - Heartbeat: the explicit check-in that resets the inactivity clock
//   - UpdateSettings: change the legacy timer configuration
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new account. The salt and verifier are produced on
// the client; the server never sees the password or the derived key.
func (s *AccountService) Register(ctx context.Context, email string, salt, verifier []byte) (*models.Account, error) {
	if email == "" || len(salt) == 0 || len(verifier) == 0 {
		return nil, fmt.Errorf("%w: email, salt and verifier are required", common.ErrorInternal)
	}

	account := &models.Account{Email: email, Salt: salt, Verifier: verifier}
	repo := s.repomanager.Accounts(s.db)
	a, err := repo.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return a, nil
}

// GetSalt returns the account's stored salt, or a random salt if the
// account is absent, to avoid leaking existence through the response.
func (s *AccountService) GetSalt(ctx context.Context, email string) ([]byte, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.GenerateRandByteArray(cryptox.KeySize), nil
		}
		return nil, common.ErrorInternal
	}
	return account.Salt, nil
}

// Login compares the verifier candidate against the stored one in
// constant time and mints an access token on success.
func (s *AccountService) Login(ctx context.Context, email string, verifierCandidate []byte) (string, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if subtle.ConstantTimeCompare(account.Verifier, verifierCandidate) != 1 {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// Get returns the account by its ID.
func (s *AccountService) Get(ctx context.Context, accountID string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
}

// Heartbeat records the authenticated check-in. The stored heartbeat
// value is returned; it never moves backwards. An account whose
// transmission already fired reports ErrAlreadyTriggered — the switch
// cannot be re-armed.
func (s *AccountService) Heartbeat(ctx context.Context, accountID string) (time.Time, error) {
	repo := s.repomanager.Accounts(s.db)

	stored, err := repo.TouchHeartbeat(ctx, accountID, time.Now().UTC())
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return time.Time{}, fmt.Errorf("error recording heartbeat: %w", err)
	}

	// No row matched: either the account is gone or it is triggered.
	account, getErr := repo.GetByID(ctx, accountID)
	if getErr != nil {
		return time.Time{}, getErr
	}
	if account.TransmissionTriggered {
		return time.Time{}, common.ErrAlreadyTriggered
	}
	return time.Time{}, err
}

// UpdateSettings changes the heartbeat interval and grace period after
// validating both against the configured bounds.
func (s *AccountService) UpdateSettings(ctx context.Context, accountID string, intervalDays, graceDays int) error {
	if intervalDays < common.MinHeartbeatIntervalDays || intervalDays > common.MaxHeartbeatIntervalDays {
		return fmt.Errorf("%w: heartbeat interval %d days out of range", common.ErrConfigInvalid, intervalDays)
	}
	if graceDays < common.MinGracePeriodDays || graceDays > common.MaxGracePeriodDays {
		return fmt.Errorf("%w: grace period %d days out of range", common.ErrConfigInvalid, graceDays)
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.UpdateSettings(ctx, accountID, intervalDays, graceDays); err != nil {
		return fmt.Errorf("error updating settings: %w", err)
	}
	return nil
}
