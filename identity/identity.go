// Package identity is the mock user directory and the per-profile session
// pointer. The directory is shop-wide; the session pointer lives either in a
// profile's durable store (remember me) or in its expiring session store,
// never in both.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fusion6/models"
	"fusion6/store"
)

const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrInvalidInput       = errors.New("name, email and password are required")
)

// Session is the pair of stores that can hold a profile's session pointer.
type Session struct {
	Durable *store.Store
	Tab     *store.Store
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type ProfilePatch struct {
	Name    *string
	Phone   *string
	Address *string
}

type Service struct {
	directory *store.Store
	logger    *zap.Logger
	cost      int

	// guards read-modify-write of the user directory
	mu sync.Mutex
}

func NewService(directory *store.Store, logger *zap.Logger) *Service {
	return &Service{
		directory: directory,
		logger:    logger,
		cost:      bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) users(ctx context.Context) []models.Credential {
	return store.Load(ctx, s.directory, KeyUsers, []models.Credential{})
}

// Count returns the number of registered users.
func (s *Service) Count(ctx context.Context) int {
	return len(s.users(ctx))
}

func find(users []models.Credential, email string) (int, bool) {
	for i, u := range users {
		if u.Email == email {
			return i, true
		}
	}
	return -1, false
}

// Signup creates a user and signs it in. A duplicate email leaves both the
// directory and the session untouched.
func (s *Service) Signup(ctx context.Context, sess Session, in SignupInput, remember bool) (*models.User, error) {
	user, err := s.register(ctx, in, models.RoleUser)
	if err != nil {
		return nil, err
	}

	s.establish(ctx, sess, *user, remember)
	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.Bool("remember", remember))
	return user, nil
}

func (s *Service) register(ctx context.Context, in SignupInput, role string) (*models.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users(ctx)
	if _, exists := find(users, email); exists {
		return nil, ErrDuplicateEmail
	}

	cred := models.Credential{
		User: models.User{
			ID:      uuid.NewString(),
			Name:    name,
			Email:   email,
			Role:    role,
			Phone:   in.Phone,
			Address: in.Address,
		},
		PasswordHash: string(hash),
	}
	s.directory.Save(ctx, KeyUsers, append(users, cred))

	user := cred.User
	return &user, nil
}

// Login checks the credentials and signs the user in. There is no lockout
// after repeated failures.
func (s *Service) Login(ctx context.Context, sess Session, email, password string, remember bool) (*models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.establish(ctx, sess, *user, remember)
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.Bool("remember", remember))
	return user, nil
}

// Authenticate verifies credentials without touching any session.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	users := s.users(ctx)
	i, ok := find(users, normalizeEmail(email))
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := users[i].User
	return &user, nil
}

func (s *Service) Logout(ctx context.Context, sess Session) {
	sess.Durable.Clear(ctx, KeyCurrentUser)
	sess.Tab.Clear(ctx, KeyCurrentUser)
}

// Current returns the signed-in user, preferring the tab session.
func (s *Service) Current(ctx context.Context, sess Session) (*models.User, error) {
	for _, st := range []*store.Store{sess.Tab, sess.Durable} {
		user := store.Load(ctx, st, KeyCurrentUser, models.User{})
		if user.ID != "" {
			return &user, nil
		}
	}
	return nil, ErrNotSignedIn
}

// Remembered reports whether the session pointer is held durably.
func (s *Service) Remembered(ctx context.Context, sess Session) bool {
	return sess.Durable.Has(ctx, KeyCurrentUser)
}

// UpdateProfile applies patch to the signed-in user, in the directory and in
// whichever store holds the session pointer.
func (s *Service) UpdateProfile(ctx context.Context, sess Session, patch ProfilePatch) (*models.User, error) {
	current, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	users := s.users(ctx)
	i, ok := find(users, current.Email)
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotSignedIn
	}
	u := &users[i].User
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Address != nil {
		u.Address = *patch.Address
	}
	updated := *u
	s.directory.Save(ctx, KeyUsers, users)
	s.mu.Unlock()

	s.establish(ctx, sess, updated, s.Remembered(ctx, sess))
	return &updated, nil
}

// EnsureAdmin creates the admin account if the directory has no user with
// that email.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	_, err := s.register(ctx, SignupInput{Name: name, Email: email, Password: password}, models.RoleAdmin)
	if errors.Is(err, ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("admin account created", zap.String("email", normalizeEmail(email)))
	return nil
}

func (s *Service) establish(ctx context.Context, sess Session, user models.User, remember bool) {
	if remember {
		sess.Tab.Clear(ctx, KeyCurrentUser)
		sess.Durable.Save(ctx, KeyCurrentUser, user)
		return
	}
	sess.Durable.Clear(ctx, KeyCurrentUser)
	sess.Tab.Save(ctx, KeyCurrentUser, user)
}
