// Package entries provides PostgreSQL-backed persistence for vault entries.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/dbx"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new entry and fills the server-assigned fields.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query := `
		INSERT INTO vault_entries (account_id, title, category, encrypted_content, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.AccountID, entry.Title, string(entry.Category), entry.EncryptedContent, entry.StorageKey).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// ListByAccount returns all entries belonging to an account, newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Entry, error) {
	query := `
		SELECT id, account_id, title, category, encrypted_content, storage_key, created_at
		FROM vault_entries
		WHERE account_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(&item.ID, &item.AccountID, &item.Title, &item.Category,
			&item.EncryptedContent, &item.StorageKey, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, accountID, id string) (*models.Entry, error) {
	query := `
		SELECT id, account_id, title, category, encrypted_content, storage_key, created_at
		FROM vault_entries
		WHERE account_id = $1 AND id = $2;
	`
	var item models.Entry
	err := r.db.QueryRowContext(ctx, query, accountID, id).
		Scan(&item.ID, &item.AccountID, &item.Title, &item.Category,
			&item.EncryptedContent, &item.StorageKey, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

// Delete removes an entry. The account filter prevents deleting another
// account's entry by guessing its ID.
func (r *PostgresRepository) Delete(ctx context.Context, accountID, id string) error {
	query := `DELETE FROM vault_entries WHERE account_id = $1 AND id = $2;`

	res, err := r.db.ExecContext(ctx, query, accountID, id)
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
