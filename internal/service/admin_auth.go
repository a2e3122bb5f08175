package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/repository"
	"github.com/futurenote/futurenote/internal/validation"
)

const AdminCookieName = "admin_token"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAdminExists        = errors.New("admin already exists")
)

// AdminClaims are carried in the admin session JWT.
type AdminClaims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type AdminAuthService struct {
	admins       repository.AdminRepository
	jwtSecret    string
	jwtExpiry    time.Duration
	isProduction bool
	bcryptCost   int
	now          func() time.Time
}

func NewAdminAuthService(admins repository.AdminRepository, jwtSecret string, jwtExpiry time.Duration, isProduction bool) *AdminAuthService {
	return &AdminAuthService{
		admins:       admins,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		isProduction: isProduction,
		bcryptCost:   bcrypt.DefaultCost,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *AdminAuthService) CreateAdmin(ctx context.Context, in validation.AdminAccount) (*model.Admin, error) {
	acct, err := validation.ValidateAdminAccount(in)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(acct.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.Admin{
		Email:        acct.Email,
		Name:         acct.Name,
		PasswordHash: hash,
		Role:         acct.Role,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	err = s.admins.Create(ctx, admin)
	if errors.Is(err, repository.ErrAdminExists) {
		return nil, ErrAdminExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin created", "admin_id", admin.ID, "role", admin.Role)
	return admin, nil
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	admin, err := s.admins.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrAdminNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	err = s.ComparePassword(password, admin.PasswordHash)
	if err != nil || !admin.IsActive {
		return nil, ErrInvalidCredentials
	}

	err = s.admins.TouchLastLogin(ctx, admin.ID, s.now())
	if err != nil {
		slog.Warn("failed to update last login", "admin_id", admin.ID, "error", err)
	}

	return admin, nil
}

func (s *AdminAuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AdminAuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateJWT returns a signed session token and its expiry.
func (s *AdminAuthService) GenerateJWT(admin *model.Admin) (string, time.Time, error) {
	now := s.now()
	expiry := now.Add(s.jwtExpiry)

	claims := AdminClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
}

func (s *AdminAuthService) VerifyJWT(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return []byte(s.jwtSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	if claims.AdminID == "" {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

func (s *AdminAuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *AdminAuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteStrictMode,
	})
}
