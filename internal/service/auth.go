package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/hash"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/tokens"
	"github.com/Skotchmaster/techstore/internal/transport"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var errInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Events        events.Publisher
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return DefaultAccessTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return DefaultRefreshTTL
}

func userKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (s *AuthService) userEvent(ctx context.Context, kind string, u *models.User) {
	publish(ctx, s.Events, events.TopicUser, userKey(u.ID), map[string]any{
		"type":     kind,
		"user_id":  u.ID,
		"username": u.Username,
		"at":       time.Now().UTC(),
	})
}

func (s *AuthService) CreateAccessToken(u *models.User, exp time.Time) (string, error) {
	return tokens.SignAccess(tokens.AccessClaims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userKey(u.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, s.AccessSecret)
}

func (s *AuthService) CreateRefreshToken(u *models.User, exp time.Time) (string, string, error) {
	jti := uuid.NewString()
	token, err := tokens.SignRefresh(tokens.RefreshClaims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userKey(u.ID),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, s.RefreshSecret)
	return token, jti, err
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	role := req.Role
	switch role {
	case "":
		role = models.RoleCustomer
	case models.RoleCustomer, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: role must be admin or customer", ErrValidation)
	}

	taken, err := s.Repo.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username already taken", ErrValidation)
	}
	taken, err = s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email already taken", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if repo.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrValidation)
		}
		return nil, err
	}

	s.userEvent(ctx, "user_registered", &user)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.TokenPair, error) {
	username = strings.TrimSpace(username)
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, errInvalidCredentials
	}

	now := time.Now()
	access, err := s.CreateAccessToken(user, now.Add(s.accessTTL()))
	if err != nil {
		return nil, err
	}

	refreshExp := now.Add(s.refreshTTL())
	refresh, jti, err := s.CreateRefreshToken(user, refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		JTI:       jti,
		TokenHash: hash.SHA256Hex(refresh),
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}

	s.userEvent(ctx, "user_logged_in", user)
	return &transport.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh issues a new access token for a stored, unrevoked refresh token.
// Username and role come from the user row, not from the old claims.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "reason", "invalid token", "error", err)
		return "", fmt.Errorf("%w: invalid or expired refresh token", ErrUnauthorized)
	}

	stored, err := s.Repo.FindRefreshByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: unknown refresh token", ErrUnauthorized)
		}
		return "", err
	}
	if stored.Revoked || stored.Expired(time.Now()) || stored.TokenHash != hash.SHA256Hex(refreshToken) {
		return "", fmt.Errorf("%w: refresh token revoked or expired", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return "", err
	}

	return s.CreateAccessToken(user, time.Now().Add(s.accessTTL()))
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("%w: refresh is required", ErrValidation)
	}

	n, err := s.Repo.RevokeRefreshByHash(ctx, hash.SHA256Hex(refreshToken))
	if err != nil {
		return err
	}
	if n > 0 {
		if claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret); err == nil {
			if id, err := strconv.ParseUint(claims.Subject, 10, 64); err == nil {
				s.userEvent(ctx, "user_logged_out", &models.User{ID: uint(id), Username: claims.Username})
			}
		}
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

// RequireAdmin checks the stored role; token claims are not trusted for it.
func (s *AuthService) RequireAdmin(ctx context.Context, userID uint) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
