package publication

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/dberr"
	"servimarket/internal/repository"

	"github.com/google/uuid"
)

var validSorts = map[string]bool{"": true, "recientes": true, "antiguas": true, "precio_mayor": true, "precio_menor": true}

type Service struct {
	pubs   PublicationRepository
	offers OfferReader
	now    func() time.Time
}

func NewService(pubs PublicationRepository, offers OfferReader) *Service {
	return &Service{pubs: pubs, offers: offers, now: domain.Now}
}

func validateFields(req *CreatePublicationRequest) error {
	req.Titulo = strings.TrimSpace(req.Titulo)
	req.Descripcion = strings.TrimSpace(req.Descripcion)
	req.Categoria = strings.ToUpper(strings.TrimSpace(req.Categoria))
	req.CategoriaOtro = strings.TrimSpace(req.CategoriaOtro)
	req.Ciudad = strings.TrimSpace(req.Ciudad)

	switch {
	case req.Titulo == "":
		return apperr.Validation("El título es obligatorio.")
	case req.Descripcion == "":
		return apperr.Validation("La descripción es obligatoria.")
	case req.Categoria == "":
		return apperr.Validation("La categoría es obligatoria.")
	case !domain.Categories[req.Categoria]:
		return apperr.Validation("La categoría no es válida.")
	case req.Categoria == domain.CategoryOther && len([]rune(req.CategoriaOtro)) < 3:
		return apperr.Validation("Describe la categoría con al menos 3 caracteres.")
	case req.Ciudad == "":
		return apperr.Validation("La ciudad es obligatoria.")
	case req.PrecioMaximo < 0:
		return apperr.Validation("El precio máximo no puede ser negativo.")
	}
	return nil
}

func otherCategory(req CreatePublicationRequest) *string {
	if req.Categoria != domain.CategoryOther {
		return nil
	}
	v := req.CategoriaOtro
	return &v
}

func (s *Service) Create(ctx context.Context, clientID int64, req CreatePublicationRequest) (*domain.Publication, error) {
	if clientID <= 0 {
		return nil, apperr.Authorization("Debes iniciar sesión como cliente.")
	}
	if err := validateFields(&req); err != nil {
		return nil, err
	}

	p := &domain.Publication{
		ID:            uuid.New().String(),
		ClienteID:     clientID,
		Titulo:        req.Titulo,
		Descripcion:   req.Descripcion,
		Categoria:     req.Categoria,
		CategoriaOtro: otherCategory(req),
		Ciudad:        req.Ciudad,
		PrecioMaximo:  req.PrecioMaximo,
		Activa:        true,
		CreatedAt:     s.now(),
	}
	if err := s.pubs.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Publication, error) {
	p, err := s.pubs.GetByID(ctx, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("La publicación no existe.")
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) loadOwned(ctx context.Context, id string, actorID int64) (*domain.Publication, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ClienteID != actorID {
		return nil, apperr.Authorization("Solo el dueño puede modificar esta publicación.")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*PublicationView, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	offers, err := s.offers.ListByPublication(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewView(*p, offers)
	return &v, nil
}

func (s *Service) Update(ctx context.Context, id string, actorID int64, req UpdatePublicationRequest) (*domain.Publication, error) {
	p, err := s.loadOwned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if !p.Activa {
		return nil, apperr.InvalidState("Solo se pueden editar publicaciones activas.")
	}
	if err := validateFields(&req); err != nil {
		return nil, err
	}

	p.Titulo = req.Titulo
	p.Descripcion = req.Descripcion
	p.Categoria = req.Categoria
	p.CategoriaOtro = otherCategory(req)
	p.Ciudad = req.Ciudad
	p.PrecioMaximo = req.PrecioMaximo

	ok, err := s.pubs.UpdateFields(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidState("Solo se pueden editar publicaciones activas.")
	}
	return p, nil
}

// Close deactivates the publication. Closing an already closed publication
// succeeds without touching it.
func (s *Service) Close(ctx context.Context, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !p.Close(s.now()) {
		return nil
	}
	changed, err := s.pubs.Close(ctx, id, *p.FechaCierre)
	if err != nil {
		return err
	}
	if changed {
		log.Printf("publication_closed publication_id=%s", id)
	}
	return nil
}

func (s *Service) CloseAsOwner(ctx context.Context, id string, actorID int64) error {
	if _, err := s.loadOwned(ctx, id, actorID); err != nil {
		return err
	}
	return s.Close(ctx, id)
}

// Delete soft-deletes the publication. It is refused while an offer is
// accepted.
func (s *Service) Delete(ctx context.Context, id string, actorID int64) error {
	if _, err := s.loadOwned(ctx, id, actorID); err != nil {
		return err
	}
	err := s.pubs.SoftDelete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrHasAcceptedOffer):
		return apperr.Conflict("No puedes eliminar una publicación con una oferta aceptada.")
	case dberr.IsNotFound(err):
		return apperr.NotFound("La publicación no existe.")
	case err != nil:
		return err
	}
	log.Printf("publication_deleted publication_id=%s actor_id=%d", id, actorID)
	return nil
}

func (s *Service) ListMine(ctx context.Context, clientID int64, f ListFilters) ([]PublicationView, error) {
	return s.list(ctx, repository.PublicationFilters{ClienteID: clientID}, f)
}

// ListOpen is the worker feed: only active publications.
func (s *Service) ListOpen(ctx context.Context, f ListFilters) ([]PublicationView, error) {
	return s.list(ctx, repository.PublicationFilters{OnlyActive: true}, f)
}

func (s *Service) list(ctx context.Context, base repository.PublicationFilters, f ListFilters) ([]PublicationView, error) {
	if f.Estado != "" && !f.Estado.Valid() {
		return nil, apperr.Validation("Estado de publicación no válido.")
	}
	if !validSorts[f.SortBy] {
		return nil, apperr.Validation("Orden no válido.")
	}

	base.Categoria = strings.ToUpper(strings.TrimSpace(f.Categoria))
	base.Ciudad = strings.TrimSpace(f.Ciudad)
	base.SortBy = f.SortBy

	pubs, err := s.pubs.List(ctx, base)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(pubs))
	for i, p := range pubs {
		ids[i] = p.ID
	}
	offers, err := s.offers.ListByPublications(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PublicationView, 0, len(pubs))
	for _, p := range pubs {
		v := NewView(p, offers[p.ID])
		if f.Estado != "" && v.Estado != f.Estado {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
