package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldstack/billing/modules/api"
	"github.com/shieldstack/billing/svc/billing"
	"github.com/shieldstack/billing/svc/invoice"
	"github.com/shieldstack/billing/svc/plan"
	"github.com/shieldstack/billing/svc/subscription"
	"github.com/shieldstack/billing/svc/user"
)

type fixture struct {
	srv    *httptest.Server
	tokens *user.TokenIssuer
	plans  *plan.Service
	users  *user.Service
}

func newFixture(t *testing.T, health map[string]func(context.Context) error) *fixture {
	t.Helper()

	tokens, err := user.NewTokenIssuer("test-secret-at-least-32-bytes-long", "billing-test", time.Hour)
	require.NoError(t, err)

	users := user.NewService(user.NewMemoryRepository(), 4, nil)
	plans := plan.NewService(plan.NewMemoryRepository(), nil)
	orchestrator := billing.NewService(
		plans,
		subscription.NewMemoryStore(),
		invoice.NewMemoryStore(),
		users,
	)

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Users:   users,
		Tokens:  tokens,
		Plans:   plans,
		Billing: orchestrator,
		Health:  health,
	}))
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, tokens: tokens, plans: plans, users: users}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// register creates a user through the API and returns its id and token.
func (f *fixture) register(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()

	status, env := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":        email,
		"password":     "correct horse battery",
		"company_name": "Acme Corp",
	})
	require.Equal(t, http.StatusCreated, status)

	var auth struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	return auth.User.ID, auth.Token
}

func (f *fixture) seedPlan(t *testing.T, name string, price int64) uuid.UUID {
	t.Helper()

	p, err := f.plans.Create(context.Background(), plan.CreateParams{
		Name:         name,
		Module:       plan.ModuleCloudSecurity,
		Price:        price,
		BillingCycle: plan.CycleMonthly,
		Features:     []string{"posture scanning"},
	})
	require.NoError(t, err)
	return p.ID
}

func TestAuthEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	t.Run("register then login", func(t *testing.T) {
		_, token := f.register(t, "founder@acme.test")
		require.NotEmpty(t, token)

		status, env := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "founder@acme.test",
			"password": "correct horse battery",
		})
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, env.Error)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		f.register(t, "dup@acme.test")
		status, env := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
			"email":    "dup@acme.test",
			"password": "correct horse battery",
		})
		assert.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "conflict", env.Error.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		f.register(t, "locked@acme.test")
		status, _ := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "locked@acme.test",
			"password": "wrong password here",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	t.Run("missing token", func(t *testing.T) {
		status, env := f.do(t, http.MethodPost, "/subscriptions", "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, status)
		require.NotNil(t, env.Error)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := f.do(t, http.MethodPost, "/subscriptions", "not.a.jwt", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestPlanEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	_, token := f.register(t, "admin@acme.test")

	t.Run("create requires auth", func(t *testing.T) {
		status, _ := f.do(t, http.MethodPost, "/plans", "", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("create and list", func(t *testing.T) {
		status, env := f.do(t, http.MethodPost, "/plans", token, map[string]any{
			"name":          "Cloud Shield Pro",
			"module":        "Cloud Security",
			"price":         19900,
			"billing_cycle": "monthly",
			"features":      []string{"CSPM", "drift detection"},
		})
		require.Equal(t, http.StatusCreated, status, "%v", env.Error)

		status, env = f.do(t, http.MethodGet, "/plans", "", nil)
		require.Equal(t, http.StatusOK, status)

		var plans []struct {
			Name  string `json:"name"`
			Price int64  `json:"price"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &plans))
		require.Len(t, plans, 1)
		assert.Equal(t, "Cloud Shield Pro", plans[0].Name)
		assert.EqualValues(t, 19900, plans[0].Price)
	})

	t.Run("invalid module is a bad request", func(t *testing.T) {
		status, _ := f.do(t, http.MethodPost, "/plans", token, map[string]any{
			"name":          "Mystery",
			"module":        "Astrology",
			"price":         100,
			"billing_cycle": "monthly",
			"features":      []string{"horoscopes"},
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestSubscriptionLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	userID, token := f.register(t, "customer@acme.test")
	planID := f.seedPlan(t, "Endpoint Basic", 9900)

	// Subscribe.
	status, env := f.do(t, http.MethodPost, "/subscriptions", token, map[string]any{
		"plan_id": planID,
	})
	require.Equal(t, http.StatusCreated, status, "%v", env.Error)

	var created struct {
		Subscription struct {
			ID         uuid.UUID `json:"id"`
			Status     string    `json:"status"`
			ExternalID string    `json:"external_id"`
		} `json:"subscription"`
		Invoice struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
			Amount int64     `json:"amount"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "active", created.Subscription.Status)
	assert.Regexp(t, "^sub_[0-9a-f]{24}$", created.Subscription.ExternalID)
	assert.Equal(t, "paid", created.Invoice.Status)
	assert.EqualValues(t, 9900, created.Invoice.Amount)

	subID := created.Subscription.ID

	// Unknown plan is a 404.
	status, _ = f.do(t, http.MethodPost, "/subscriptions", token, map[string]any{
		"plan_id": uuid.New(),
	})
	assert.Equal(t, http.StatusNotFound, status)

	// Simulate a renewal failure.
	status, env = f.do(t, http.MethodPost, fmt.Sprintf("/subscriptions/%s/simulate-failure", subID), token, nil)
	require.Equal(t, http.StatusOK, status, "%v", env.Error)

	var failed struct {
		Subscription struct {
			Status string `json:"status"`
		} `json:"subscription"`
		Invoice struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &failed))
	assert.Equal(t, "past_due", failed.Subscription.Status)
	assert.Equal(t, "unpaid", failed.Invoice.Status)

	// Pay the renewal invoice; the subscription reactivates.
	status, env = f.do(t, http.MethodPost, fmt.Sprintf("/invoices/%s/pay", failed.Invoice.ID), token, nil)
	require.Equal(t, http.StatusOK, status, "%v", env.Error)

	var paid struct {
		Invoice struct {
			Status string `json:"status"`
		} `json:"invoice"`
		Subscription *struct {
			Status string `json:"status"`
		} `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &paid))
	assert.Equal(t, "paid", paid.Invoice.Status)
	require.NotNil(t, paid.Subscription)
	assert.Equal(t, "active", paid.Subscription.Status)

	// Paying twice is rejected.
	status, _ = f.do(t, http.MethodPost, fmt.Sprintf("/invoices/%s/pay", failed.Invoice.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Cancel, then cancel again.
	status, _ = f.do(t, http.MethodPut, fmt.Sprintf("/subscriptions/%s/cancel", subID), token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = f.do(t, http.MethodPut, fmt.Sprintf("/subscriptions/%s/cancel", subID), token, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Listings are owner-only.
	status, env = f.do(t, http.MethodGet, fmt.Sprintf("/users/%s/invoices", userID), token, nil)
	require.Equal(t, http.StatusOK, status)
	var invoices []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &invoices))
	assert.Len(t, invoices, 2)

	_, otherToken := f.register(t, "rival@other.test")
	status, _ = f.do(t, http.MethodGet, fmt.Sprintf("/users/%s/invoices", userID), otherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = f.do(t, http.MethodGet, fmt.Sprintf("/users/%s/subscriptions", userID), otherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = f.do(t, http.MethodPut, fmt.Sprintf("/subscriptions/%s/cancel", subID), otherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListSubscriptionsEnrichment(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	userID, token := f.register(t, "viewer@acme.test")
	planID := f.seedPlan(t, "Compliance Suite", 49900)

	status, _ := f.do(t, http.MethodPost, "/subscriptions", token, map[string]any{"plan_id": planID})
	require.Equal(t, http.StatusCreated, status)

	status, env := f.do(t, http.MethodGet, fmt.Sprintf("/users/%s/subscriptions", userID), token, nil)
	require.Equal(t, http.StatusOK, status)

	var subs []struct {
		Status string `json:"status"`
		Plan   *struct {
			Name string `json:"name"`
		} `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &subs))
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Plan)
	assert.Equal(t, "Compliance Suite", subs[0].Plan.Name)
}

func TestMalformedRequests(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	_, token := f.register(t, "fuzzer@acme.test")

	t.Run("invalid path id", func(t *testing.T) {
		status, _ := f.do(t, http.MethodPut, "/subscriptions/not-a-uuid/cancel", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown body field", func(t *testing.T) {
		status, _ := f.do(t, http.MethodPost, "/subscriptions", token, map[string]any{
			"plan_id": uuid.New(),
			"surpise": true,
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		status, _ := f.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("failing check degrades", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, map[string]func(context.Context) error{
			"mongo": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		status, env := f.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, status)

		var view struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &view))
		assert.Equal(t, "degraded", view.Status)
		assert.Equal(t, "ok", view.Checks["mongo"])
	})
}
