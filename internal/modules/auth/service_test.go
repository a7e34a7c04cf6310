package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/pkg/apperr"
	"servimarket/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateClient(ctx context.Context, u *domain.User, p *domain.ClientProfile) error {
	args := m.Called(ctx, u, p)
	return args.Error(0)
}

func (m *mockUserRepo) CreateWorker(ctx context.Context, u *domain.User, p *domain.WorkerProfile) error {
	args := m.Called(ctx, u, p)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) DocumentExists(ctx context.Context, documento string) (bool, error) {
	args := m.Called(ctx, documento)
	return args.Bool(0), args.Error(1)
}

func (m *mockProfileRepo) GetClient(ctx context.Context, userID int64) (*domain.ClientProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientProfile), args.Error(1)
}

func (m *mockProfileRepo) GetWorker(ctx context.Context, userID int64) (*domain.WorkerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkerProfile), args.Error(1)
}

type mockResetRepo struct {
	mock.Mock
}

func (m *mockResetRepo) Create(ctx context.Context, t *domain.PasswordReset) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockResetRepo) GetByHash(ctx context.Context, hash string) (*domain.PasswordReset, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordReset), args.Error(1)
}

func (m *mockResetRepo) Consume(ctx context.Context, id, userID int64, passwordHash string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, userID, passwordHash, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockResetRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type fakeJWT struct{}

func (fakeJWT) GenerateToken(userID int64, role string) (string, error) {
	return "token-" + role, nil
}

func (fakeJWT) TTL() time.Duration { return time.Hour }

type captureMailer struct {
	to, link string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.to, m.link = to, link
	return nil
}

type fixture struct {
	users    *mockUserRepo
	profiles *mockProfileRepo
	resets   *mockResetRepo
	sessions *session.MemoryRevoker
	mailer   *captureMailer
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		users:    new(mockUserRepo),
		profiles: new(mockProfileRepo),
		resets:   new(mockResetRepo),
		sessions: session.NewMemoryRevoker(),
		mailer:   &captureMailer{},
	}
	f.svc = NewService(f.users, f.profiles, f.resets, fakeJWT{}, f.sessions, f.mailer, time.Hour, "http://localhost:3000/")
	return f
}

func clientRequest() RegisterClientRequest {
	return RegisterClientRequest{
		Email:     "Ana@Example.com",
		Password:  "secreta123",
		Nombre:    "Ana",
		Ciudad:    "Bogotá",
		Edad:      30,
		Documento: "1020304050",
	}
}

func TestRegisterClient_DuplicateDocumentCreatesNoUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.profiles.On("DocumentExists", ctx, "1020304050").Return(true, nil)

	user, err := f.svc.RegisterClient(ctx, clientRequest())

	require.Error(t, err)
	assert.Nil(t, user)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, apperr.MessageOf(err), "documento ya está registrado")
	f.users.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterWorker_EmailTaken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.profiles.On("DocumentExists", ctx, "99887766").Return(false, nil)
	f.users.On("EmailExists", ctx, "luis@example.com").Return(true, nil)

	_, err := f.svc.RegisterWorker(ctx, RegisterWorkerRequest{
		Email:       "luis@example.com",
		Password:    "secreta123",
		Nombre:      "Luis",
		Documento:   "99887766",
		Habilidades: []string{"plomería"},
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	f.users.AssertNotCalled(t, "CreateWorker", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterClient_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := clientRequest()

	f.profiles.On("DocumentExists", ctx, req.Documento).Return(false, nil)
	f.users.On("EmailExists", ctx, req.Email).Return(false, nil)
	f.users.On("CreateClient", ctx,
		mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "ana@example.com" && u.Role == domain.RoleClient &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreta123")) == nil
		}),
		mock.MatchedBy(func(p *domain.ClientProfile) bool {
			return p.Documento == req.Documento && p.Nombre == "Ana"
		}),
	).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 7
	}).Return(nil)

	user, err := f.svc.RegisterClient(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	f.users.AssertExpectations(t)
}

func TestRegisterWorker_UniqueRaceMapsToConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.profiles.On("DocumentExists", ctx, "55555").Return(false, nil)
	f.users.On("EmailExists", ctx, "w@example.com").Return(false, nil)
	f.users.On("CreateWorker", ctx, mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := f.svc.RegisterWorker(ctx, RegisterWorkerRequest{
		Email: "w@example.com", Password: "secreta123", Nombre: "W", Documento: "55555",
		Habilidades: []string{"pintura"},
	})

	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 3, Email: "ana@example.com", PasswordHash: string(hash), Role: domain.RoleClient}

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

		res, err := f.svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "secreta123"})

		require.NoError(t, err)
		assert.Equal(t, "token-client", res.Token)
		assert.Equal(t, int64(3600), res.ExpiresIn)
		assert.Equal(t, int64(3), res.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "otra"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByEmail", mock.Anything, "nadie@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.Login(context.Background(), LoginRequest{Email: "nadie@example.com", Password: "x"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err := f.sessions.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "nadie@example.com").Return(nil, gorm.ErrRecordNotFound)

	err := f.svc.ForgotPassword(context.Background(), "nadie@example.com")

	assert.NoError(t, err)
	f.resets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.mailer.link)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := &domain.User{ID: 9, Email: "luis@example.com"}

	var stored *domain.PasswordReset
	f.users.On("GetByEmail", ctx, "luis@example.com").Return(user, nil)
	f.resets.On("Create", ctx, mock.AnythingOfType("*domain.PasswordReset")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.PasswordReset)
			stored.ID = 1
		}).Return(nil)

	require.NoError(t, f.svc.ForgotPassword(ctx, "luis@example.com"))
	require.NotNil(t, stored)
	assert.Equal(t, "luis@example.com", f.mailer.to)
	assert.True(t, strings.HasPrefix(f.mailer.link, "http://localhost:3000/reset-password?token="))

	token := strings.TrimPrefix(f.mailer.link, "http://localhost:3000/reset-password?token=")
	assert.Len(t, token, 64)
	assert.NotEqual(t, token, stored.TokenHash)
	assert.Equal(t, hashToken(token), stored.TokenHash)

	f.resets.On("GetByHash", ctx, stored.TokenHash).Return(stored, nil)
	f.resets.On("Consume", ctx, int64(1), int64(9), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(true, nil).Once()

	require.NoError(t, f.svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, Password: "nueva12345"}))

	f.resets.On("Consume", ctx, int64(1), int64(9), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(false, nil).Once()
	err := f.svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, Password: "otra12345"})
	assert.ErrorIs(t, err, ErrInvalidReset)
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rec := &domain.PasswordReset{ID: 2, UserID: 4, ExpiresAt: time.Now().Add(-time.Minute)}
	f.resets.On("GetByHash", ctx, hashToken("abc")).Return(rec, nil)

	err := f.svc.ResetPassword(ctx, ResetPasswordRequest{Token: "abc", Password: "nueva12345"})

	assert.ErrorIs(t, err, ErrInvalidReset)
	f.resets.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
