package profile

import (
	"context"
	"strings"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/dberr"
)

var (
	ErrProfileNotFound = apperr.NotFound("Perfil no encontrado.")
	ErrWorkerNotFound  = apperr.NotFound("Trabajador no encontrado.")
	ErrNotWorker       = apperr.Forbidden("Solo los trabajadores tienen un perfil extendido.")
	ErrSkillsRequired  = apperr.Validation("Indica al menos una habilidad.")
)

type Service struct {
	profiles ProfileRepository
	stats    StatsReader
	now      func() time.Time
}

func NewService(profiles ProfileRepository, stats StatsReader) *Service {
	return &Service{profiles: profiles, stats: stats, now: domain.Now}
}

func (s *Service) Get(ctx context.Context, userID int64, role domain.UserRole) (*OwnProfile, error) {
	out := &OwnProfile{Role: role}
	switch role {
	case domain.RoleClient:
		p, err := s.profiles.GetClient(ctx, userID)
		if err != nil {
			return nil, notFound(err, ErrProfileNotFound)
		}
		out.Client = p
	case domain.RoleWorker:
		p, err := s.profiles.GetWorker(ctx, userID)
		if err != nil {
			return nil, notFound(err, ErrProfileNotFound)
		}
		out.Worker = p
		out.Habilidades = p.Skills()
	default:
		return nil, ErrProfileNotFound
	}
	return out, nil
}

// Update rewrites the editable fields. Documento is immutable once registered.
func (s *Service) Update(ctx context.Context, userID int64, role domain.UserRole, req UpdateProfileRequest) (*OwnProfile, error) {
	now := s.now()
	switch role {
	case domain.RoleClient:
		p, err := s.profiles.GetClient(ctx, userID)
		if err != nil {
			return nil, notFound(err, ErrProfileNotFound)
		}
		p.Nombre = strings.TrimSpace(req.Nombre)
		p.Ciudad = strings.TrimSpace(req.Ciudad)
		p.Edad = req.Edad
		p.Telefono = strings.TrimSpace(req.Telefono)
		p.UpdatedAt = now
		if err := s.profiles.UpdateClient(ctx, p); err != nil {
			return nil, err
		}
	case domain.RoleWorker:
		skills := domain.JoinSkills(req.Habilidades)
		if skills == "" {
			return nil, ErrSkillsRequired
		}
		p, err := s.profiles.GetWorker(ctx, userID)
		if err != nil {
			return nil, notFound(err, ErrProfileNotFound)
		}
		p.Nombre = strings.TrimSpace(req.Nombre)
		p.Ciudad = strings.TrimSpace(req.Ciudad)
		p.Edad = req.Edad
		p.Habilidades = skills
		p.UpdatedAt = now
		if err := s.profiles.UpdateWorker(ctx, p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrProfileNotFound
	}
	return s.Get(ctx, userID, role)
}

// WorkerCard returns the public card with rating stats.
func (s *Service) WorkerCard(ctx context.Context, workerID int64) (*WorkerCard, error) {
	p, err := s.profiles.GetWorker(ctx, workerID)
	if err != nil {
		return nil, notFound(err, ErrWorkerNotFound)
	}

	var stats domain.WorkerStats
	if s.stats != nil {
		if stats, err = s.stats.WorkerStats(ctx, workerID); err != nil {
			return nil, err
		}
	}
	return newWorkerCard(p, stats), nil
}

func (s *Service) Details(ctx context.Context, userID int64, role domain.UserRole) (*domain.WorkerDetails, error) {
	if role != domain.RoleWorker {
		return nil, ErrNotWorker
	}
	return s.profiles.GetDetails(ctx, userID)
}

func (s *Service) UpdateDetails(ctx context.Context, userID int64, role domain.UserRole, req UpdateDetailsRequest) (*domain.WorkerDetails, error) {
	if role != domain.RoleWorker {
		return nil, ErrNotWorker
	}
	d := &domain.WorkerDetails{
		UserID:         userID,
		TarifaHora:     req.TarifaHora,
		Disponibilidad: strings.TrimSpace(req.Disponibilidad),
		Descripcion:    strings.TrimSpace(req.Descripcion),
		UpdatedAt:      s.now(),
	}
	if err := s.profiles.UpsertDetails(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func notFound(err, nf error) error {
	if dberr.IsNotFound(err) {
		return nf
	}
	return err
}
