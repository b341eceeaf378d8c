// Package heirs provides PostgreSQL-backed persistence for heirs.
package heirs

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

// PostgresRepository implements heir storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanHeir(row interface{ Scan(dest ...any) error }) (*models.Heir, error) {
	h := &models.Heir{}
	var notified sql.NullTime
	err := row.Scan(&h.ID, &h.AccountID, &h.Name, &h.Email, &h.AccessToken, &notified, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notified.Valid {
		h.NotifiedAt = notified.Time
	}
	return h, nil
}

func (r *PostgresRepository) Create(ctx context.Context, heir *models.Heir) (*models.Heir, error) {
	query := `
		INSERT INTO heirs (account_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`
	err := r.db.QueryRowContext(ctx, query, heir.AccountID, heir.Name, heir.Email).
		Scan(&heir.ID, &heir.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return heir, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Heir, error) {
	query := `
		SELECT id, account_id, name, email, access_token, notified_at, created_at
		FROM heirs
		WHERE account_id = $1
		ORDER BY created_at;
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select heirs: %w", err)
	}
	defer rows.Close()

	var result []*models.Heir
	for rows.Next() {
		heir, err := scanHeir(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, heir)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, accountID, id string) error {
	query := `DELETE FROM heirs WHERE account_id = $1 AND id = $2;`

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

// AssignAccessToken fills the access reference once. An heir that already
// holds a token keeps it; zero rows affected is not an error here because
// a retried sweep lands on already-notified heirs.
func (r *PostgresRepository) AssignAccessToken(ctx context.Context, id, token string, notifiedAt time.Time) error {
	query := `
		UPDATE heirs
		SET access_token = $2, notified_at = $3
		WHERE id = $1 AND access_token = '';
	`
	if _, err := r.db.ExecContext(ctx, query, id, token, notifiedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByAccessToken(ctx context.Context, token string) (*models.Heir, error) {
	query := `
		SELECT id, account_id, name, email, access_token, notified_at, created_at
		FROM heirs
		WHERE access_token = $1 AND access_token <> '';
	`
	heir, err := scanHeir(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return heir, nil
}
