package ports

import (
	"context"

	"github.com/wadjakorntonsri/shortlink/pkg/core/domain"
)

// LinkRepository defines storage operations for links
type LinkRepository interface {
	// Create inserts link and fills ID, ClickCount, CreatedAt and LastClickedAt.
	// Returns domain.ErrDuplicateCode when the code is already stored.
	Create(ctx context.Context, link *domain.Link) error
	Get(ctx context.Context, code string) (*domain.Link, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// RedirectAndIncrement bumps click_count and last_clicked_at in one
	// statement and returns the stored URL.
	RedirectAndIncrement(ctx context.Context, code string) (string, error)
	Delete(ctx context.Context, code string) error // Hard delete
	List(ctx context.Context) ([]domain.Link, error)
	Ping(ctx context.Context) error
}

// LinkService defines the business logic operations
type LinkService interface {
	Shorten(ctx context.Context, rawURL, customCode string) (*domain.Link, error)
	Redirect(ctx context.Context, code string) (string, error)
	GetLink(ctx context.Context, code string) (*domain.Link, error)
	DeleteLink(ctx context.Context, code string) error
	ListLinks(ctx context.Context, search string) ([]domain.Link, error)
	Health(ctx context.Context) error
}
