package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/dberr"
	"servimarket/internal/pkg/session"

	"golang.org/x/crypto/bcrypt"
)

const resetTokenBytes = 32

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
	TTL() time.Duration
}

// Service contains all business logic for authentication
type Service struct {
	users    UserRepository
	profiles ProfileRepository
	resets   PasswordResetRepository
	jwt      jwtService
	sessions session.Revoker
	mailer   Mailer

	resetTTL     time.Duration
	resetBaseURL string
	now          func() time.Time
}

func NewService(
	users UserRepository,
	profiles ProfileRepository,
	resets PasswordResetRepository,
	jwt jwtService,
	sessions session.Revoker,
	mailer Mailer,
	resetTTL time.Duration,
	resetBaseURL string,
) *Service {
	if mailer == nil {
		mailer = LogMailer{}
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Service{
		users:        users,
		profiles:     profiles,
		resets:       resets,
		jwt:          jwt,
		sessions:     sessions,
		mailer:       mailer,
		resetTTL:     resetTTL,
		resetBaseURL: strings.TrimRight(resetBaseURL, "/"),
		now:          domain.Now,
	}
}

func (s *Service) RegisterClient(ctx context.Context, req RegisterClientRequest) (*domain.User, error) {
	if err := s.checkIdentityFree(ctx, req.Documento, req.Email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         domain.RoleClient,
		Name:         strings.TrimSpace(req.Nombre),
	}
	profile := &domain.ClientProfile{
		Nombre:    strings.TrimSpace(req.Nombre),
		Ciudad:    strings.TrimSpace(req.Ciudad),
		Edad:      req.Edad,
		Documento: strings.TrimSpace(req.Documento),
		Telefono:  strings.TrimSpace(req.Telefono),
	}
	if err := s.users.CreateClient(ctx, user, profile); err != nil {
		return nil, mapCreateError(err)
	}

	log.Printf("user_registered id=%d role=%s", user.ID, user.Role)
	return user, nil
}

func (s *Service) RegisterWorker(ctx context.Context, req RegisterWorkerRequest) (*domain.User, error) {
	if err := s.checkIdentityFree(ctx, req.Documento, req.Email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         domain.RoleWorker,
		Name:         strings.TrimSpace(req.Nombre),
	}
	profile := &domain.WorkerProfile{
		Nombre:      strings.TrimSpace(req.Nombre),
		Ciudad:      strings.TrimSpace(req.Ciudad),
		Edad:        req.Edad,
		Documento:   strings.TrimSpace(req.Documento),
		Habilidades: domain.JoinSkills(req.Habilidades),
	}
	if err := s.users.CreateWorker(ctx, user, profile); err != nil {
		return nil, mapCreateError(err)
	}

	log.Printf("user_registered id=%d role=%s", user.ID, user.Role)
	return user, nil
}

// checkIdentityFree runs before any row is written: a taken documento must
// never leave an orphan account behind.
func (s *Service) checkIdentityFree(ctx context.Context, documento, email string) error {
	taken, err := s.profiles.DocumentExists(ctx, strings.TrimSpace(documento))
	if err != nil {
		return err
	}
	if taken {
		return ErrDocumentTaken
	}

	taken, err = s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func mapCreateError(err error) error {
	if dberr.IsUniqueViolation(err) {
		return apperr.Wrap(apperr.KindConflict, "El correo o el documento ya está registrado.", err)
	}
	return err
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:      toPublic(user),
		Token:     token,
		ExpiresIn: int64(s.jwt.TTL().Seconds()),
	}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	out := &MeResponse{User: toPublic(user)}
	switch user.Role {
	case domain.RoleClient:
		p, err := s.profiles.GetClient(ctx, userID)
		if err != nil && !dberr.IsNotFound(err) {
			return nil, err
		}
		out.Client = p
	case domain.RoleWorker:
		p, err := s.profiles.GetWorker(ctx, userID)
		if err != nil && !dberr.IsNotFound(err) {
			return nil, err
		}
		if p != nil {
			out.Worker = &WorkerProfileView{WorkerProfile: p, Habilidades: p.Skills()}
		}
	}
	return out, nil
}

// Logout revokes the presented token until it would have expired.
func (s *Service) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.sessions == nil || jti == "" {
		return nil
	}
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.jwt.TTL())
	}
	return s.sessions.Revoke(ctx, jti, expiresAt)
}

// ForgotPassword never reports whether the email exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil
		}
		return err
	}

	raw, err := generateToken(resetTokenBytes)
	if err != nil {
		return err
	}

	now := s.now()
	rec := &domain.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}
	if err := s.resets.Create(ctx, rec); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.resetBaseURL, raw)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		log.Printf("password_reset_mail_failed user_id=%d err=%q", user.ID, err.Error())
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	rec, err := s.resets.GetByHash(ctx, hashToken(strings.TrimSpace(req.Token)))
	if err != nil {
		if dberr.IsNotFound(err) {
			return ErrInvalidReset
		}
		return err
	}

	now := s.now()
	if !rec.Usable(now) {
		return ErrInvalidReset
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	ok, err := s.resets.Consume(ctx, rec.ID, rec.UserID, hash, now)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidReset
	}
	log.Printf("password_reset user_id=%d", rec.UserID)
	return nil
}

// CleanupExpired removes used and expired reset tokens.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.resets.DeleteExpired(ctx, s.now())
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

