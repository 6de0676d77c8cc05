package plan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shieldstack/billing/pkg/logger"
)

// Service validates and serves plan catalog operations on top of a Repository.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService returns a plan catalog service. A nil logger discards logs.
func NewService(repo Repository, log *slog.Logger) *Service {
	if repo == nil {
		panic("plan.NewService: nil repository")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo: repo,
		log:  log.With(logger.Component("plan_catalog")),
	}
}

// Create validates the params and stores a new plan.
func (s *Service) Create(ctx context.Context, params CreateParams) (Plan, error) {
	if err := validate(params); err != nil {
		return Plan{}, err
	}

	now := time.Now().UTC()
	p := Plan{
		ID:           uuid.New(),
		Name:         params.Name,
		Module:       params.Module,
		Price:        params.Price,
		BillingCycle: params.BillingCycle,
		Features:     append([]string(nil), params.Features...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Plan{}, err
	}

	s.log.InfoContext(ctx, "plan created",
		logger.PlanID(p.ID),
		slog.String("name", p.Name),
		slog.Int64("price", p.Price),
	)
	return p, nil
}

// Get returns the plan with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	return s.repo.Get(ctx, id)
}

// List returns every plan in the catalog.
func (s *Service) List(ctx context.Context) ([]Plan, error) {
	return s.repo.List(ctx)
}

// Seed creates the given plans, skipping ones whose name already exists,
// so repeated startups with the same seed file are safe.
func (s *Service) Seed(ctx context.Context, params []CreateParams) error {
	for _, p := range params {
		if _, err := s.Create(ctx, p); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				continue
			}
			return err
		}
	}
	return nil
}

func validate(params CreateParams) error {
	if params.Name == "" {
		return ErrInvalidName
	}
	if !params.Module.Valid() {
		return ErrInvalidModule
	}
	if !params.BillingCycle.Valid() {
		return ErrInvalidBillingCycle
	}
	if params.Price <= 0 {
		return ErrInvalidPrice
	}
	if len(params.Features) == 0 {
		return ErrNoFeatures
	}
	return nil
}
