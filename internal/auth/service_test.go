package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:  "access-secret",
		AccessTokenTTL:     time.Hour,
		ConfirmTokenSecret: "confirm-secret",
		ConfirmTokenTTL:    24 * time.Hour,
		ConfirmBaseURL:     "http://localhost:8080/v1/auth/confirm",
		BcryptCost:         bcrypt.MinCost,
	}
}

func newTestService() (*Service, *fakeUserStore, *fakeMailer) {
	store := &fakeUserStore{users: map[uuid.UUID]User{}}
	mailer := &fakeMailer{}
	return NewService(store, mailer, testConfig()), store, mailer
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Register(context.Background(), RegisterInput{
		DisplayName: "Ada",
		Email:       "ada@example.com",
		Password:    "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("Register = %v, want ErrWeakPassword", err)
	}
}

func TestRegisterCreatesInactiveAccountAndMailsLink(t *testing.T) {
	service, store, mailer := newTestService()

	user, err := service.Register(context.Background(), RegisterInput{
		DisplayName: "Ada",
		Email:       "  Ada@Example.COM ",
		Password:    "hunter22",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", user.Email)
	}
	if user.IsActive {
		t.Fatalf("fresh account must start inactive")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password stored in the clear")
	}
	if len(mailer.sent) != 1 || mailer.sent[0].email != "ada@example.com" {
		t.Fatalf("confirmation mail = %+v", mailer.sent)
	}
	if !strings.HasPrefix(mailer.sent[0].link, "http://localhost:8080/v1/auth/confirm/") {
		t.Fatalf("link = %q", mailer.sent[0].link)
	}

	stored, err := store.FindByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")) != nil {
		t.Fatalf("stored hash does not verify the password")
	}
}

func TestLoginRequiresConfirmedAccount(t *testing.T) {
	service, _, _ := newTestService()

	if _, err := service.Register(context.Background(), RegisterInput{
		DisplayName: "Ada", Email: "ada@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := service.Login(context.Background(), "ada@example.com", "hunter22")
	if !errors.Is(err, ErrNotActivated) {
		t.Fatalf("login before confirm = %v, want ErrNotActivated", err)
	}
}

func TestConfirmActivatesAndLogsIn(t *testing.T) {
	service, store, mailer := newTestService()
	ctx := context.Background()

	if _, err := service.Register(ctx, RegisterInput{
		DisplayName: "Ada", Email: "ada@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	link := mailer.sent[0].link
	token := link[strings.LastIndex(link, "/")+1:]

	user, access, err := service.Confirm(ctx, token)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !user.IsActive {
		t.Fatalf("Confirm did not activate the account")
	}

	claims, err := service.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "ada@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	// a full login now succeeds and bumps last_seen
	_, _, err = service.Login(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login after confirm: %v", err)
	}
	if store.lastSeenTouches[user.ID] != 1 {
		t.Fatalf("last seen touched %d times, want 1", store.lastSeenTouches[user.ID])
	}
}

func TestConfirmRejectsAccessTokenAsConfirmToken(t *testing.T) {
	service, store, _ := newTestService()
	ctx := context.Background()

	user := store.seedActive("ada@example.com", "hunter22")
	_, access, err := service.Login(ctx, user.Email, "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, _, err := service.Confirm(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Confirm with access token = %v, want ErrInvalidToken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, store, _ := newTestService()
	store.seedActive("ada@example.com", "hunter22")

	_, _, err := service.Login(context.Background(), "ada@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v, want ErrInvalidCredentials", err)
	}

	_, _, err = service.Login(context.Background(), "nobody@example.com", "hunter22")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateAccessTokenRejectsGarbageAndExpired(t *testing.T) {
	service, store, _ := newTestService()

	if _, err := service.ValidateAccessToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token = %v, want ErrInvalidToken", err)
	}

	user := store.seedActive("ada@example.com", "hunter22")
	service.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, access, err := service.Login(context.Background(), user.Email, "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	service.nowFunc = time.Now

	if _, err := service.ValidateAccessToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token = %v, want ErrInvalidToken", err)
	}
}

func TestChangePasswordRehashes(t *testing.T) {
	service, store, _ := newTestService()
	user := store.seedActive("ada@example.com", "hunter22")

	if err := service.ChangePassword(context.Background(), user.ID, "tiny"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak replacement = %v, want ErrWeakPassword", err)
	}
	if err := service.ChangePassword(context.Background(), user.ID, "stronger-now"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, _, err := service.Login(context.Background(), user.Email, "stronger-now"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := service.Login(context.Background(), user.Email, "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
}

// --- fakes ---

type sentMail struct {
	email string
	link  string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) SendConfirmation(_ context.Context, email, link string) error {
	m.sent = append(m.sent, sentMail{email: email, link: link})
	return nil
}

type fakeUserStore struct {
	users           map[uuid.UUID]User
	lastSeenTouches map[uuid.UUID]int
}

func (s *fakeUserStore) seedActive(email, password string) User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := User{
		ID:           uuid.New(),
		DisplayName:  "Seeded",
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeUserStore) CreateUser(_ context.Context, displayName, email, passwordHash string) (User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return User{}, ErrEmailAlreadyExists
		}
	}
	user := User{
		ID:           uuid.New(),
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *fakeUserStore) Activate(_ context.Context, id uuid.UUID) error {
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.IsActive = true
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	for otherID, u := range s.users {
		if otherID != id && u.Email == email {
			return ErrEmailAlreadyExists
		}
	}
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Email = email
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) TouchLastSeen(_ context.Context, id uuid.UUID) error {
	if s.lastSeenTouches == nil {
		s.lastSeenTouches = map[uuid.UUID]int{}
	}
	s.lastSeenTouches[id]++
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.LastSeenAt = time.Now()
	s.users[id] = u
	return nil
}
