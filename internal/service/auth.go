package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/repository"
	"github.com/vaibhavguptahere/smacad-test/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// TokenCookie holds the signed admin token.
const TokenCookie = "admin_token"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAlreadySetUp       = errors.New("an administrator already exists")
)

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type SetupStatus struct {
	HasAdmin   bool `json:"hasAdmin"`
	AdminCount int  `json:"adminCount"`
}

type AuthService struct {
	adminRepository repository.AdminRepository
	jwtSecret       []byte
	jwtExpiry       time.Duration
	cookieSecure    bool
	now             func() time.Time
}

func NewAuthService(
	adminRepository repository.AdminRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	cookieSecure bool,
) *AuthService {
	return &AuthService{
		adminRepository: adminRepository,
		jwtSecret:       []byte(jwtSecret),
		jwtExpiry:       jwtExpiry,
		cookieSecure:    cookieSecure,
		now:             time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying tokens.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// CreateAdministrator stores a new admin with a bcrypt hash of password.
func (s *AuthService) CreateAdministrator(ctx context.Context, username, password string) (*model.Admin, error) {
	admin, err := s.newAdmin(username, password)
	if err != nil {
		return nil, err
	}

	err = s.adminRepository.Create(ctx, admin)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, apperr.Conflict("username already exists")
	}
	if err != nil {
		return nil, apperr.Internal("failed to create admin", err)
	}

	return admin, nil
}

// Setup creates the first administrator. It is refused once any exists,
// including when a concurrent setup wins the insert.
func (s *AuthService) Setup(ctx context.Context, username, password string) (*model.Admin, error) {
	count, err := s.adminRepository.Count(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to count admins", err)
	}
	if count > 0 {
		return nil, errAlreadySetUp()
	}

	admin, err := s.newAdmin(username, password)
	if err != nil {
		return nil, err
	}

	err = s.adminRepository.CreateFirst(ctx, admin)
	if errors.Is(err, repository.ErrAdminExists) {
		return nil, errAlreadySetUp()
	}
	if err != nil {
		return nil, apperr.Internal("failed to create admin", err)
	}

	return admin, nil
}

func errAlreadySetUp() error {
	return &apperr.Error{Kind: apperr.KindConflict, Message: "admin already exists", Err: ErrAlreadySetUp}
}

// newAdmin validates the credentials and hashes the password.
func (s *AuthService) newAdmin(username, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)

	missing := validation.Missing(
		validation.Field{Name: "username", Value: username},
		validation.Field{Name: "password", Value: password},
	)
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}
	err := validation.ValidateUsername(username)
	if err != nil {
		return nil, apperr.Validation(err.Error(), "username")
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, apperr.Validation(err.Error(), "password")
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	return &model.Admin{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}, nil
}

func (s *AuthService) SetupStatus(ctx context.Context) (*SetupStatus, error) {
	count, err := s.adminRepository.Count(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to count admins", err)
	}
	return &SetupStatus{HasAdmin: count > 0, AdminCount: count}, nil
}

// VerifyCredentials never reveals which of username or password was wrong.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Unauthorized(ErrInvalidCredentials)
	}

	admin, err := s.adminRepository.ByUsername(ctx, username)
	if errors.Is(err, repository.ErrAdminNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperr.Unauthorized(ErrInvalidCredentials)
	}
	if err != nil {
		return nil, apperr.Internal("failed to get admin", err)
	}

	err = s.ComparePassword(password, admin.PasswordHash)
	if err != nil {
		return nil, apperr.Unauthorized(ErrInvalidCredentials)
	}

	return admin, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IssueToken signs an HS256 token for admin and returns it with its expiry.
func (s *AuthService) IssueToken(admin *model.Admin) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.jwtExpiry)

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"username": admin.Username,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// VerifyToken fails closed: any parse, signature, algorithm or expiry
// problem yields ErrInvalidToken wrapped as Unauthorized.
func (s *AuthService) VerifyToken(tokenString string) (*model.Session, error) {
	if tokenString == "" {
		return nil, apperr.Unauthorized(ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized(errors.Join(ErrInvalidToken, err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized(ErrInvalidToken)
	}

	adminID, _ := claims["admin_id"].(string)
	username, _ := claims["username"].(string)
	if adminID == "" || username == "" {
		return nil, apperr.Unauthorized(ErrInvalidToken)
	}

	session := &model.Session{AdminID: adminID, Username: username}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		session.IssuedAt = iat.Time
	}

	return session, nil
}

// Login verifies credentials and returns a signed token with its expiry.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Admin, string, time.Time, error) {
	admin, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.IssueToken(admin)
	if err != nil {
		return nil, "", time.Time{}, apperr.Internal("failed to issue token", err)
	}

	return admin, token, expiresAt, nil
}

func (s *AuthService) SetTokenCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Expires:  expiry,
		MaxAge:   int(expiry.Sub(s.now()).Seconds()),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *AuthService) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
