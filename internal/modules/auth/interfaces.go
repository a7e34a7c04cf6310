package auth

import (
	"context"
	"time"

	"servimarket/internal/domain"
)

type UserRepository interface {
	CreateClient(ctx context.Context, u *domain.User, p *domain.ClientProfile) error
	CreateWorker(ctx context.Context, u *domain.User, p *domain.WorkerProfile) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type ProfileRepository interface {
	DocumentExists(ctx context.Context, documento string) (bool, error)
	GetClient(ctx context.Context, userID int64) (*domain.ClientProfile, error)
	GetWorker(ctx context.Context, userID int64) (*domain.WorkerProfile, error)
}

type PasswordResetRepository interface {
	Create(ctx context.Context, t *domain.PasswordReset) error
	GetByHash(ctx context.Context, hash string) (*domain.PasswordReset, error)
	Consume(ctx context.Context, id, userID int64, passwordHash string, at time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}
