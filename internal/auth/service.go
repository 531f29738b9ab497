package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/internal/users"
	pkgAuth "github.com/sakani-app/sakani-backend/pkg/auth"
	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

const tempPasswordLength = 12

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*users.UserSummary, error)
	UpdatePushToken(ctx context.Context, userID uuid.UUID, req PushTokenRequest) error
	ListUsers(ctx context.Context, filters users.ListFilters) ([]users.UserSummary, error)
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filters users.ListFilters) ([]models.User, error)
	UpdatePushToken(ctx context.Context, id uuid.UUID, token *string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	users       userRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Now            func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		users:       params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         params.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	payload := pkgAuth.AccessTokenPayload{
		UserID:     user.ID,
		Role:       user.Role,
		RoomNumber: user.RoomNumber,
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		User:        users.FromModel(user),
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if req.Role == enums.UserRoleResident {
		if req.RoomNumber == nil || strings.TrimSpace(*req.RoomNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "room number is required for residents")
		}
	}

	if existing, err := s.users.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup username")
	}

	password := req.Password
	var tempPassword *string
	if password == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
		}
		password = generated
		tempPassword = &generated
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:      strings.TrimSpace(req.Username),
		PasswordHash:  hash,
		Name:          strings.TrimSpace(req.Name),
		Role:          req.Role,
		Email:         req.Email,
		RoomNumber:    req.RoomNumber,
		ContactNumber: req.ContactNumber,
		StayDays:      req.StayDays,
		StartDate:     req.StartDate,
		IsActive:      true,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return &RegisterResponse{
		User:         users.FromModel(created),
		TempPassword: tempPassword,
	}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserSummary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	summary := users.FromModel(user)
	return &summary, nil
}

func (s *service) UpdatePushToken(ctx context.Context, userID uuid.UUID, req PushTokenRequest) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.users.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update push token")
	}
	return nil
}

func (s *service) ListUsers(ctx context.Context, filters users.ListFilters) ([]users.UserSummary, error) {
	list, err := s.users.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	summaries := make([]users.UserSummary, 0, len(list))
	for i := range list {
		summaries = append(summaries, users.FromModel(&list[i]))
	}
	return summaries, nil
}

func (s *service) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if err := s.users.Deactivate(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
