package plan_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldstack/billing/svc/plan"
)

func validParams() plan.CreateParams {
	return plan.CreateParams{
		Name:         "Pro Cloud",
		Module:       plan.ModuleCloudSecurity,
		Price:        9900,
		BillingCycle: plan.CycleMonthly,
		Features:     []string{"CSPM", "Drift detection"},
	}
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	t.Run("creates a valid plan", func(t *testing.T) {
		t.Parallel()
		svc := plan.NewService(plan.NewMemoryRepository(), nil)

		p, err := svc.Create(context.Background(), validParams())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, "Pro Cloud", p.Name)
		assert.Equal(t, plan.ModuleCloudSecurity, p.Module)
		assert.EqualValues(t, 9900, p.Price)
		assert.Equal(t, []string{"CSPM", "Drift detection"}, p.Features)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		t.Parallel()
		svc := plan.NewService(plan.NewMemoryRepository(), nil)

		_, err := svc.Create(context.Background(), validParams())
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), validParams())
		assert.ErrorIs(t, err, plan.ErrDuplicateName)
	})

	t.Run("rejects duplicate name case-insensitively", func(t *testing.T) {
		t.Parallel()
		svc := plan.NewService(plan.NewMemoryRepository(), nil)

		_, err := svc.Create(context.Background(), validParams())
		require.NoError(t, err)

		params := validParams()
		params.Name = "pro cloud"
		_, err = svc.Create(context.Background(), params)
		assert.ErrorIs(t, err, plan.ErrDuplicateName)
	})

	t.Run("validates fields", func(t *testing.T) {
		t.Parallel()
		svc := plan.NewService(plan.NewMemoryRepository(), nil)
		ctx := context.Background()

		params := validParams()
		params.Name = ""
		_, err := svc.Create(ctx, params)
		assert.ErrorIs(t, err, plan.ErrInvalidName)

		params = validParams()
		params.Module = "Quantum Security"
		_, err = svc.Create(ctx, params)
		assert.ErrorIs(t, err, plan.ErrInvalidModule)

		params = validParams()
		params.BillingCycle = "weekly"
		_, err = svc.Create(ctx, params)
		assert.ErrorIs(t, err, plan.ErrInvalidBillingCycle)

		params = validParams()
		params.Price = 0
		_, err = svc.Create(ctx, params)
		assert.ErrorIs(t, err, plan.ErrInvalidPrice)

		params = validParams()
		params.Features = nil
		_, err = svc.Create(ctx, params)
		assert.ErrorIs(t, err, plan.ErrNoFeatures)
	})
}

func TestService_List(t *testing.T) {
	t.Parallel()

	svc := plan.NewService(plan.NewMemoryRepository(), nil)
	ctx := context.Background()

	names := []string{"Endpoint Basic", "Compliance Plus", "Pro Cloud"}
	for _, name := range names {
		params := validParams()
		params.Name = name
		_, err := svc.Create(ctx, params)
		require.NoError(t, err)
	}

	plans, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Compliance Plus", plans[0].Name)
	assert.Equal(t, "Endpoint Basic", plans[1].Name)
	assert.Equal(t, "Pro Cloud", plans[2].Name)
}

func TestService_Get(t *testing.T) {
	t.Parallel()

	svc := plan.NewService(plan.NewMemoryRepository(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validParams())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, plan.ErrNotFound)
}

func TestService_Seed(t *testing.T) {
	t.Parallel()

	svc := plan.NewService(plan.NewMemoryRepository(), nil)
	ctx := context.Background()

	seed := []plan.CreateParams{validParams()}
	seed = append(seed, plan.CreateParams{
		Name:         "VAPT Annual",
		Module:       plan.ModuleVAPT,
		Price:        120000,
		BillingCycle: plan.CycleYearly,
		Features:     []string{"Pentest report"},
	})

	require.NoError(t, svc.Seed(ctx, seed))
	// Seeding again must be a no-op, not an error.
	require.NoError(t, svc.Seed(ctx, seed))

	plans, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}
