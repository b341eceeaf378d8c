package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/repomanager"
)

// VaultService manages vault entries and heirs. The server treats entry
// content as opaque ciphertext: nothing here can or should decrypt it.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewVaultService constructs a VaultService.
func NewVaultService(db *sql.DB, m repomanager.RepositoryManager) *VaultService {
	return &VaultService{db: db, repomanager: m}
}

// AddEntry stores a new vault entry. Inline entries carry ciphertext in
// encryptedContent; document entries uploaded through object storage
// carry the object key instead. Exactly one of the two must be set.
func (s *VaultService) AddEntry(ctx context.Context, accountID, title string, category common.EntryCategory, encryptedContent, storageKey string) (*models.Entry, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorInternal)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorInternal, category)
	}
	if (encryptedContent == "") == (storageKey == "") {
		return nil, fmt.Errorf("%w: exactly one of content and storage key must be set", common.ErrorInternal)
	}
	if storageKey != "" && category != common.CategoryDocument {
		return nil, fmt.Errorf("%w: only document entries may reference object storage", common.ErrorInternal)
	}

	entry := &models.Entry{
		AccountID:        accountID,
		Title:            title,
		Category:         category,
		EncryptedContent: encryptedContent,
		StorageKey:       storageKey,
	}

	repo := s.repomanager.Entries(s.db)
	e, err := repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}
	return e, nil
}

// ListEntries returns all entries of an account.
func (s *VaultService) ListEntries(ctx context.Context, accountID string) ([]*models.Entry, error) {
	return s.repomanager.Entries(s.db).ListByAccount(ctx, accountID)
}

// GetEntry returns one entry of an account.
func (s *VaultService) GetEntry(ctx context.Context, accountID, entryID string) (*models.Entry, error) {
	return s.repomanager.Entries(s.db).GetByID(ctx, accountID, entryID)
}

// DeleteEntry removes an entry owned by accountID.
func (s *VaultService) DeleteEntry(ctx context.Context, accountID, entryID string) error {
	return s.repomanager.Entries(s.db).Delete(ctx, accountID, entryID)
}

// AddHeir registers a new heir for the account.
func (s *VaultService) AddHeir(ctx context.Context, accountID, name, email string) (*models.Heir, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: heir name and email are required", common.ErrorInternal)
	}

	repo := s.repomanager.Heirs(s.db)
	h, err := repo.Create(ctx, &models.Heir{AccountID: accountID, Name: name, Email: email})
	if err != nil {
		return nil, fmt.Errorf("error creating heir: %w", err)
	}
	return h, nil
}

// ListHeirs returns all heirs of an account.
func (s *VaultService) ListHeirs(ctx context.Context, accountID string) ([]*models.Heir, error) {
	return s.repomanager.Heirs(s.db).ListByAccount(ctx, accountID)
}

// DeleteHeir removes an heir owned by accountID.
func (s *VaultService) DeleteHeir(ctx context.Context, accountID, heirID string) error {
	return s.repomanager.Heirs(s.db).Delete(ctx, accountID, heirID)
}

// HeirVault resolves an heir access token into the encrypted entries of
// the account that triggered. Tokens only exist after the transmission
// fired, but the triggered flag is checked anyway so a storage anomaly
// can never leak a living user's vault.
func (s *VaultService) HeirVault(ctx context.Context, accessToken string) ([]*models.Entry, error) {
	if accessToken == "" {
		return nil, common.ErrorNotFound
	}

	heir, err := s.repomanager.Heirs(s.db).GetByAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, heir.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.TransmissionTriggered {
		return nil, common.ErrorNotFound
	}

	return s.repomanager.Entries(s.db).ListByAccount(ctx, account.ID)
}
