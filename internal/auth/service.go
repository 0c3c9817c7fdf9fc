package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// userStore abstracts the persistence layer.
type userStore interface {
	CreateUser(ctx context.Context, displayName, email, passwordHash string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Activate(ctx context.Context, id uuid.UUID) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
}

// Mailer delivers account emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, link string) error
}

// Service encapsulates account use cases.
type Service struct {
	store   userStore
	mailer  Mailer
	cfg     config.AuthConfig
	nowFunc func() time.Time
	parser  *jwt.Parser
}

// NewService creates an auth service.
func NewService(store userStore, mailer Mailer, cfg config.AuthConfig) *Service {
	return &Service{
		store:   store,
		mailer:  mailer,
		cfg:     cfg,
		nowFunc: time.Now,
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

// RegisterInput carries registration data.
type RegisterInput struct {
	DisplayName string
	Email       string
	Password    string
}

// UserClaims is the validated identity from an access token.
type UserClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// Register creates an inactive account and emails the confirmation link.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if len(in.Password) < minPasswordLength {
		return User{}, ErrWeakPassword
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.DisplayName == "" {
		return User{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, in.DisplayName, email, string(hash))
	if err != nil {
		return User{}, err
	}

	if err := s.SendConfirmation(ctx, user.Email); err != nil {
		return User{}, err
	}
	return user, nil
}

// SendConfirmation issues a fresh confirmation token and mails the link.
func (s *Service) SendConfirmation(ctx context.Context, email string) error {
	token, err := s.confirmationToken(email)
	if err != nil {
		return err
	}
	link := s.cfg.ConfirmBaseURL + "/" + token
	if err := s.mailer.SendConfirmation(ctx, email, link); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

// Confirm validates a confirmation token, activates the account, and logs
// the user in by returning an access token.
func (s *Service) Confirm(ctx context.Context, token string) (User, string, error) {
	email, err := s.parseConfirmationToken(token)
	if err != nil {
		return User{}, "", ErrInvalidToken
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return User{}, "", err
	}
	if err := s.store.Activate(ctx, user.ID); err != nil {
		return User{}, "", err
	}
	user.IsActive = true

	access, err := s.accessToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, access, nil
}

// Login checks credentials, rejects unconfirmed accounts, and returns an
// access token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	user, err := s.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return User{}, "", ErrNotActivated
	}

	if err := s.store.TouchLastSeen(ctx, user.ID); err != nil {
		return User{}, "", err
	}

	access, err := s.accessToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, access, nil
}

// ChangeEmail updates the caller's email, enforcing uniqueness.
func (s *Service) ChangeEmail(ctx context.Context, userID uuid.UUID, newEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if newEmail == "" {
		return ErrInvalidCredentials
	}
	return s.store.UpdateEmail(ctx, userID, newEmail)
}

// ChangePassword re-hashes and stores a new password.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdatePassword(ctx, userID, string(hash))
}

// ValidateAccessToken parses and verifies a bearer token.
func (s *Service) ValidateAccessToken(token string) (UserClaims, error) {
	parsed, err := s.parser.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.AccessTokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return UserClaims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return UserClaims{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return UserClaims{}, ErrInvalidToken
	}

	return UserClaims{UserID: userID, Email: email, ExpiresAt: exp.Time}, nil
}

func (s *Service) accessToken(user User) (string, error) {
	now := s.nowFunc()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iss":   "nuvoryx",
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.AccessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *Service) confirmationToken(email string) (string, error) {
	now := s.nowFunc()
	claims := jwt.MapClaims{
		"sub":     email,
		"purpose": "confirm",
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.ConfirmTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.ConfirmTokenSecret))
	if err != nil {
		return "", fmt.Errorf("sign confirmation token: %w", err)
	}
	return signed, nil
}

func (s *Service) parseConfirmationToken(token string) (string, error) {
	parsed, err := s.parser.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.ConfirmTokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if purpose, _ := claims["purpose"].(string); purpose != "confirm" {
		return "", ErrInvalidToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}
