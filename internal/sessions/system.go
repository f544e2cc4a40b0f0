package sessions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/compass/pkg/pagination"
)

// System defines the public contract for session domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Session], error)

	Find(ctx context.Context, id uuid.UUID) (*Session, error)
	Report(ctx context.Context, id uuid.UUID) ([]byte, error)
	Create(ctx context.Context, cmd CreateCommand) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
