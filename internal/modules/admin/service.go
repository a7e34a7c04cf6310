package admin

import (
	"context"
	"log"

	"servimarket/internal/domain"
	"servimarket/internal/modules/verification"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/dberr"
	"servimarket/internal/pkg/fallback"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	ErrUserNotFound = apperr.NotFound("Usuario no encontrado.")
	ErrDeleteSelf   = apperr.Forbidden("No puedes eliminar tu propia cuenta.")
)

type Service struct {
	users     UserRepository
	verifier  Verifier
	deleteCap *fallback.Capability
}

func NewService(users UserRepository, verifier Verifier) *Service {
	return &Service{
		users:     users,
		verifier:  verifier,
		deleteCap: fallback.NewCapability(users.DeleteCascadeProcAvailable),
	}
}

func (s *Service) ListUsers(ctx context.Context, q ListUsersQuery) (*UserList, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	users, total, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, UserRow{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt})
	}
	return &UserList{Items: rows, Total: total, Page: page, Limit: limit}, nil
}

// DeleteUser removes the account and everything that references it.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return ErrDeleteSelf
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if dberr.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	strategy := fallback.Strategy[struct{}]{
		Name: "delete_user_cascade",
		Primary: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.users.CallDeleteCascade(ctx, userID)
		},
		Fallback: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.users.DeleteCascade(ctx, userID)
		},
		Probe:   s.deleteCap,
		Missing: dberr.IsUndefinedFunction,
	}
	if _, err := strategy.Run(ctx); err != nil {
		if dberr.IsTransient(err) {
			return apperr.Transient("No se pudo eliminar el usuario. Intenta de nuevo.", err)
		}
		return err
	}

	log.Printf("user_deleted id=%d by=%d", userID, actorID)
	return nil
}

func (s *Service) VerificationStatus(ctx context.Context, userID int64) (*verification.Status, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.verifier.Status(ctx, userID)
}

func (s *Service) PendingVerifications(ctx context.Context) ([]domain.VerificationDocument, error) {
	return s.verifier.ListPending(ctx)
}

func (s *Service) ApproveVerification(ctx context.Context, id string, adminID int64) (*domain.VerificationDocument, error) {
	return s.verifier.Approve(ctx, id, adminID)
}

func (s *Service) RejectVerification(ctx context.Context, id string, adminID int64, reason string) (*domain.VerificationDocument, error) {
	return s.verifier.Reject(ctx, id, adminID, reason)
}
