package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"longa/internal/converter"
	"longa/internal/delivery/dto"
	"longa/internal/delivery/http/middleware"
	"longa/internal/domain/entity"
	"longa/internal/domain/repository"
	"longa/internal/service"
	"longa/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrUnauthenticated    = errors.New("user not found in context")
)

// TokenStore tracks issued token ids. *jwt.TokenStore satisfies it.
type TokenStore interface {
	Store(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error
}

type AuthUsecase interface {
	RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.UserResponse, error)
	RegisterProvider(ctx context.Context, req *dto.RegisterProviderRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	roleRepo            repository.RoleRepository
	providerProfileRepo repository.ProviderProfileRepository
	clientProfileRepo   repository.ClientProfileRepository
	auditService        service.AuditService
	providerPool        service.ProviderPool
	jwtService          *jwt.JWTService
	tokenStore          TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	providerProfileRepo repository.ProviderProfileRepository,
	clientProfileRepo repository.ClientProfileRepository,
	auditService service.AuditService,
	providerPool service.ProviderPool,
	jwtService *jwt.JWTService,
	tokenStore TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		roleRepo:            roleRepo,
		providerProfileRepo: providerProfileRepo,
		clientProfileRepo:   clientProfileRepo,
		auditService:        auditService,
		providerPool:        providerPool,
		jwtService:          jwtService,
		tokenStore:          tokenStore,
	}
}

func (u *authUsecase) RegisterClient(ctx context.Context, req *dto.RegisterClientRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(ctx, tx, entity.RoleClient, req.Email, string(hashedPassword), req.FullName, req.Phone)
	if err != nil {
		return nil, err
	}

	clientProfile := &entity.ClientProfile{
		UserID:          user.ID,
		DefaultLocation: strings.TrimSpace(req.DefaultLocation),
		Address:         req.Address,
	}

	if err := u.clientProfileRepo.Create(ctx, tx, clientProfile); err != nil {
		u.log.Warnf("Failed to create client profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.ClientProfile = clientProfile
	u.auditService.LogCreate(ctx, u.db, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"role":  entity.RoleClient,
	})

	u.log.Infof("Client registered: id=%s", user.ID)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterProvider(ctx context.Context, req *dto.RegisterProviderRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(ctx, tx, entity.RoleProvider, req.Email, string(hashedPassword), req.FullName, req.Phone)
	if err != nil {
		return nil, err
	}

	payoutMethod := req.PayoutMethod
	if payoutMethod == "" {
		payoutMethod = entity.PayoutMethodBank
	}

	providerProfile := &entity.ProviderProfile{
		UserID:       user.ID,
		Location:     strings.TrimSpace(req.Location),
		IsAvailable:  true,
		PayoutMethod: payoutMethod,
		PayoutNumber: req.PayoutNumber,
		Biography:    req.Biography,
	}

	if err := u.providerProfileRepo.Create(ctx, tx, providerProfile); err != nil {
		u.log.Warnf("Failed to create provider profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// New provider joins the candidate pool
	if err := u.providerPool.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate provider pool (non-fatal): %+v", err)
	}

	u.auditService.LogCreate(ctx, u.db, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"role":  entity.RoleProvider,
	})

	providerProfile.User = *user
	user.ProviderProfile = providerProfile

	u.log.Infof("Provider registered: id=%s, location=%s", user.ID, providerProfile.Location)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) createUser(ctx context.Context, tx *gorm.DB, roleName, email, hashedPassword, fullName, phone string) (*entity.User, error) {
	role, err := u.roleRepo.FindByName(ctx, tx, roleName)
	if err != nil {
		u.log.Warnf("Failed to find role %s: %+v", roleName, err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	active := true
	user := &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hashedPassword,
		FullName: strings.TrimSpace(fullName),
		Phone:    strings.TrimSpace(phone),
		RoleID:   role.ID,
		IsActive: &active,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	user.Role = *role
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active() {
		return nil, ErrAccountDisabled
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
	if err != nil {
		return nil, err
	}

	u.auditService.LogCreate(ctx, u.db, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil)

	return tokens, nil
}

// Logout revokes the access token of the current request and, when given,
// the refresh token issued alongside it.
func (u *authUsecase) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	accessTokenID, _ := middleware.GetTokenIDFromContext(ctx)

	if accessTokenID != "" {
		if err := u.tokenStore.Revoke(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
			u.log.Warnf("Failed to revoke access token: %+v", err)
			return err
		}
	}

	if req == nil || req.RefreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != userID {
		return ErrInvalidToken
	}

	if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, userID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// A disabled account keeps no sessions
	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active() {
		return nil, ErrAccountDisabled
	}

	if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	switch user.RoleID {
	case entity.RoleIDProvider:
		profile, err := u.providerProfileRepo.FindByUserID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find provider profile: %+v", err)
			return nil, err
		}
		user.ProviderProfile = profile
	case entity.RoleIDClient:
		profile, err := u.clientProfileRepo.FindByUserID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to find client profile: %+v", err)
			return nil, err
		}
		user.ClientProfile = profile
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, jwt.AccessToken, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, jwt.RefreshToken, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
