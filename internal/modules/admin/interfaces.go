package admin

import (
	"context"

	"servimarket/internal/domain"
	"servimarket/internal/modules/verification"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	DeleteCascadeProcAvailable(ctx context.Context) bool
	CallDeleteCascade(ctx context.Context, userID int64) error
	DeleteCascade(ctx context.Context, userID int64) error
}

// Verifier is satisfied by verification.Service.
type Verifier interface {
	Status(ctx context.Context, userID int64) (*verification.Status, error)
	ListPending(ctx context.Context) ([]domain.VerificationDocument, error)
	Approve(ctx context.Context, id string, reviewer int64) (*domain.VerificationDocument, error)
	Reject(ctx context.Context, id string, reviewer int64, reason string) (*domain.VerificationDocument, error)
}
