package profile

import (
	"context"

	"servimarket/internal/domain"
)

type ProfileRepository interface {
	GetClient(ctx context.Context, userID int64) (*domain.ClientProfile, error)
	GetWorker(ctx context.Context, userID int64) (*domain.WorkerProfile, error)
	UpdateClient(ctx context.Context, p *domain.ClientProfile) error
	UpdateWorker(ctx context.Context, p *domain.WorkerProfile) error
	GetDetails(ctx context.Context, userID int64) (*domain.WorkerDetails, error)
	UpsertDetails(ctx context.Context, d *domain.WorkerDetails) error
}

// StatsReader is satisfied by the review service.
type StatsReader interface {
	WorkerStats(ctx context.Context, workerID int64) (domain.WorkerStats, error)
}
