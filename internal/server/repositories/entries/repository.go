package entries

import (
	"context"

	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
)

// Repository is the persistence contract for vault entries. Entries are
// create/list/delete only; there is no update.
type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Entry, error)
	GetByID(ctx context.Context, accountID, id string) (*models.Entry, error)
	Delete(ctx context.Context, accountID, id string) error
}
