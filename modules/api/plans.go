package api

import (
	"net/http"

	"github.com/shieldstack/billing/core"
	"github.com/shieldstack/billing/svc/plan"
)

type createPlanRequest struct {
	Name         string   `json:"name"`
	Module       string   `json:"module"`
	Price        int64    `json:"price"`
	BillingCycle string   `json:"billing_cycle"`
	Features     []string `json:"features"`
}

func (h *handlers) createPlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.plans.Create(r.Context(), plan.CreateParams{
		Name:         req.Name,
		Module:       plan.Module(req.Module),
		Price:        req.Price,
		BillingCycle: plan.BillingCycle(req.BillingCycle),
		Features:     req.Features,
	})
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.JSON(w, http.StatusCreated, toPlanView(p))
}

func (h *handlers) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.List(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	views := make([]planView, 0, len(plans))
	for _, p := range plans {
		views = append(views, toPlanView(p))
	}
	core.JSON(w, http.StatusOK, views)
}
