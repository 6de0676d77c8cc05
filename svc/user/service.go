package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shieldstack/billing/pkg/logger"
)

const minPasswordLength = 8

// Config describes identity settings loadable from the environment.
type Config struct {
	BcryptCost  int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	TokenSecret string        `env:"AUTH_TOKEN_SECRET,required"`
	TokenTTL    time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	TokenIssuer string        `env:"AUTH_TOKEN_ISSUER" envDefault:"shieldstack-billing"`
}

// Service provides registration and credential verification on top of a
// Repository.
type Service struct {
	repo       Repository
	bcryptCost int
	log        *slog.Logger
}

// NewService returns an identity service. A nil logger discards logs.
func NewService(repo Repository, bcryptCost int, log *slog.Logger) *Service {
	if repo == nil {
		panic("user.NewService: nil repository")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		log:        log.With(logger.Component("user_directory")),
	}
}

// Register creates a directory entry with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, password, companyName string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	u := User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CompanyName:  companyName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(u.ID))
	return u, nil
}

// Authenticate verifies an email/password pair. Unknown emails and wrong
// passwords produce the same error so the response does not reveal which
// accounts exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the directory entry for the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.Get(ctx, id)
}

// Exists is the existence lookup the billing orchestrator depends on.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
