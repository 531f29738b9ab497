package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/internal/users"
	pkgAuth "github.com/sakani-app/sakani-backend/pkg/auth"
	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/security"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "sakani-test",
	ExpirationMinutes: 30,
}

type stubUserRepo struct {
	byUsername map[string]*models.User
	byID       map[uuid.UUID]*models.User
	created    []*models.User
	pushTokens map[uuid.UUID]*string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byUsername: map[string]*models.User{},
		byID:       map[uuid.UUID]*models.User{},
		pushTokens: map[uuid.UUID]*string{},
	}
}

func (s *stubUserRepo) add(user *models.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byUsername[user.Username] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	s.created = append(s.created, user)
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdatePushToken(ctx context.Context, id uuid.UUID, token *string) error {
	s.pushTokens[id] = token
	return nil
}

func (s *stubUserRepo) List(ctx context.Context, filters users.ListFilters) ([]models.User, error) {
	var out []models.User
	for _, user := range s.byID {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if filters.ActiveOnly && !user.IsActive {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (s *stubUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if user, ok := s.byID[id]; ok {
		user.IsActive = false
	}
	return nil
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password string, role enums.UserRole, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	require.NoError(t, err)
	room := "A-101"
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		RoomNumber:   &room,
		IsActive:     active,
	}
	repo.add(user)
	return user
}

func newTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTCfg,
		PasswordConfig: testPasswordCfg,
		Now:            func() time.Time { return time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func TestLoginSuccess(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "worker1", "password123", enums.UserRoleResident, true)
	svc := newTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "worker1", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, user.ID, resp.User.ID)

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, enums.UserRoleResident, claims.Role)
	require.NotNil(t, claims.RoomNumber)
	require.Equal(t, "A-101", *claims.RoomNumber)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "worker1", "password123", enums.UserRoleResident, true)
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "worker1", Password: "wrong"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "password123"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "worker1", "password123", enums.UserRoleResident, false)
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "worker1", Password: "password123"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRegisterResidentRequiresRoom(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "newworker",
		Password: "password123",
		Name:     "New Worker",
		Role:     enums.UserRoleResident,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRegisterGeneratesTempPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	room := "B-204"
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username:   "newworker",
		Name:       "New Worker",
		Role:       enums.UserRoleResident,
		RoomNumber: &room,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.TempPassword)
	require.Len(t, *resp.TempPassword, tempPasswordLength)

	// the generated password must actually authenticate
	login, err := svc.Login(context.Background(), LoginRequest{
		Username: "newworker",
		Password: *resp.TempPassword,
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "worker1", "password123", enums.UserRoleResident, true)
	svc := newTestService(t, repo)

	room := "A-101"
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:   "worker1",
		Password:   "password123",
		Name:       "Dup",
		Role:       enums.UserRoleResident,
		RoomNumber: &room,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestMeReturnsNotFoundForMissingUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	_, err := svc.Me(context.Background(), uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdatePushToken(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "worker1", "password123", enums.UserRoleResident, true)
	svc := newTestService(t, repo)

	token := "fcm-token-abc"
	require.NoError(t, svc.UpdatePushToken(context.Background(), user.ID, PushTokenRequest{PushToken: &token}))
	require.Equal(t, &token, repo.pushTokens[user.ID])

	require.NoError(t, svc.UpdatePushToken(context.Background(), user.ID, PushTokenRequest{PushToken: nil}))
	require.Nil(t, repo.pushTokens[user.ID])
}

func TestDeactivateBlocksLogin(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "fatima", "hunter22", enums.UserRoleResident, true)
	svc := newTestService(t, repo)

	require.NoError(t, svc.Deactivate(context.Background(), user.ID))

	_, err := svc.Login(context.Background(), LoginRequest{Username: "fatima", Password: "hunter22"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestDeactivateUnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	err := svc.Deactivate(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListUsersFiltersByRole(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "fatima", "hunter22", enums.UserRoleResident, true)
	seedUser(t, repo, "omar", "hunter22", enums.UserRoleResident, false)
	seedUser(t, repo, "admin1", "hunter22", enums.UserRoleAdmin, true)
	svc := newTestService(t, repo)

	residents := enums.UserRoleResident
	list, err := svc.ListUsers(context.Background(), users.ListFilters{Role: &residents})
	require.NoError(t, err)
	require.Len(t, list, 2)

	active, err := svc.ListUsers(context.Background(), users.ListFilters{Role: &residents, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "fatima", active[0].Username)
}
