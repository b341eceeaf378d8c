package heirs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
)

// Repository is the persistence contract for designated heirs and their
// post-transmission access references.
type Repository interface {
	Create(ctx context.Context, heir *models.Heir) (*models.Heir, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Heir, error)
	Delete(ctx context.Context, accountID, id string) error

	// AssignAccessToken stores the access reference minted when the
	// transmission fires. It only fills an empty token, so re-running a
	// sweep never rotates a link that was already mailed out.
	AssignAccessToken(ctx context.Context, id, token string, notifiedAt time.Time) error

	// GetByAccessToken resolves an heir from the opaque reference in
	// their notification link.
	GetByAccessToken(ctx context.Context, token string) (*models.Heir, error)
}
